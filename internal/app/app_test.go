package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/court"
	"github.com/nekogravitycat/canchas/internal/db"
	"github.com/nekogravitycat/canchas/internal/facility"
	reservationHttp "github.com/nekogravitycat/canchas/internal/reservation/http"
	userHttp "github.com/nekogravitycat/canchas/internal/user/http"
)

const (
	itCourtID    int64 = 910001
	itUserEmail        = "it-player@example.com"
	itAdminEmail       = "it-admin@example.com"
	itPassword         = "integration-pass"
)

// setupIntegration builds the full application on a real database.
// It skips when TEST_DB_DSN is not set.
func setupIntegration(t *testing.T) (*Container, *pgxpool.Pool, facility.Settings) {
	t.Helper()
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	gin.SetMode(gin.TestMode)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.Migrate(pool))

	_, err = pool.Exec(ctx, "DELETE FROM public.reservations WHERE court_id = $1", itCourtID)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "DELETE FROM public.users WHERE email = ANY($1)", []string{itUserEmail, itAdminEmail})
	require.NoError(t, err)

	settings := facility.Default()
	c := NewContainer(Config{
		DBPool:         pool,
		JWTSecret:      "integration-secret",
		JWTTTL:         30 * time.Minute,
		BcryptCost:     4, // Lower cost for testing purposes
		Facility:       settings,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	})
	require.NoError(t, c.Seed(ctx, []court.Court{{ID: itCourtID, Name: "Integration Court", Sport: court.SportSoccer}}, itAdminEmail, itPassword))
	return c, pool, settings
}

func executeRequest(r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req, _ := http.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, email string) userHttp.LoginResponse {
	t.Helper()
	w := executeRequest(r, http.MethodPost, "/v1/auth/login", userHttp.LoginRequest{Email: email, Password: itPassword}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp userHttp.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestIntegration_ReservationLifecycle(t *testing.T) {
	c, _, settings := setupIntegration(t)
	r := c.Router

	// Two days ahead at 20:00 is always beyond the self-cancel window and inside the advance window.
	date := time.Now().In(settings.Location).AddDate(0, 0, 2).Format(facility.DateLayout)

	t.Run("Register and login", func(t *testing.T) {
		w := executeRequest(r, http.MethodPost, "/v1/auth/register", userHttp.RegisterRequest{Email: itUserEmail, Password: itPassword}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = executeRequest(r, http.MethodPost, "/v1/auth/register", userHttp.RegisterRequest{Email: itUserEmail, Password: itPassword}, "")
		assert.Equal(t, http.StatusConflict, w.Code)

		assert.Equal(t, string(auth.RoleUser), login(t, r, itUserEmail).Role)
		assert.Equal(t, string(auth.RoleAdmin), login(t, r, itAdminEmail).Role)
	})

	player := login(t, r, itUserEmail).AccessToken
	admin := login(t, r, itAdminEmail).AccessToken

	var reservationID int64
	t.Run("Book and reject the overlap", func(t *testing.T) {
		payload := reservationHttp.CreateReservationRequest{
			CourtID:         itCourtID,
			Date:            date,
			Time:            "20:00",
			DurationMinutes: 60,
			HolderName:      "Integration Player",
		}
		w := executeRequest(r, http.MethodPost, "/v1/reservations", payload, player)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp reservationHttp.ReservationResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		reservationID = resp.ID
		assert.True(t, resp.CanSelfCancel)

		payload.Time = "20:30"
		payload.DurationMinutes = 90
		payload.HolderContact = "someone@example.com"
		w = executeRequest(r, http.MethodPost, "/v1/reservations", payload, "")
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Mine lists the reservation as upcoming", func(t *testing.T) {
		w := executeRequest(r, http.MethodGet, "/v1/reservations/mine", nil, player)
		require.Equal(t, http.StatusOK, w.Code)

		var resp reservationHttp.MyReservationsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Upcoming, 1)
		assert.Equal(t, reservationID, resp.Upcoming[0].ID)
	})

	t.Run("Self cancel then admin cancel conflicts", func(t *testing.T) {
		path := "/v1/reservations/" + strconv.FormatInt(reservationID, 10) + "/cancel"
		w := executeRequest(r, http.MethodPost, path, nil, player)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = executeRequest(r, http.MethodPost, "/v1/admin/reservations/"+strconv.FormatInt(reservationID, 10)+"/cancel", nil, admin)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
