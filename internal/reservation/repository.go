package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
)

// advisoryNamespace is the first key of the per-court advisory lock taken by Insert.
const advisoryNamespace int32 = 0x63616e63

type Repository interface {
	// ListByDateRange returns reservations in any state with from <= start_at < to.
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*Reservation, error)
	// HasOverlap reports whether an ACTIVE reservation on courtID intersects [start, end).
	HasOverlap(ctx context.Context, courtID int64, start, end time.Time) (bool, error)
	// Insert persists res as ACTIVE, failing with ErrConflict if an overlapping
	// ACTIVE reservation exists at write time.
	Insert(ctx context.Context, res *Reservation) error
	// Cancel moves an ACTIVE reservation to CANCELLED and returns the updated record.
	Cancel(ctx context.Context, id int64) (*Reservation, error)
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	ListByHolderContact(ctx context.Context, contact string) ([]*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// storeErr marks a driver failure as ErrStoreUnavailable, keeping the cause for logs.
func storeErr(op string, err error) error {
	return apperror.WrapSentinel(ErrStoreUnavailable, fmt.Errorf("%s failed: %w", op, err))
}

var reservationColumns = []string{
	"r.id", "r.court_id", "c.name", "c.sport",
	"r.start_at", "r.end_at", "r.duration_minutes",
	"r.holder_name", "r.holder_contact", "r.state",
	"r.created_at", "r.updated_at",
}

func selectReservations(extra ...string) squirrel.SelectBuilder {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(append(append([]string{}, reservationColumns...), extra...)...).
		From("public.reservations r").
		Join("public.courts c ON r.court_id = c.id")
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var res Reservation
	var contact *string
	dest := []any{
		&res.ID, &res.CourtID, &res.CourtName, &res.Sport,
		&res.StartAt, &res.EndAt, &res.DurationMinutes,
		&res.HolderName, &contact, &res.State,
		&res.CreatedAt, &res.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if contact != nil {
		res.HolderContact = *contact
	}
	return &res, nil
}

func (r *pgxRepository) query(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*Reservation, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query failed: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeErr(op, err)
	}
	defer rows.Close()

	var result []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, storeErr("scan reservation", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(op, err)
	}
	return result, nil
}

func (r *pgxRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]*Reservation, error) {
	q := selectReservations().
		Where(squirrel.GtOrEq{"r.start_at": from}).
		Where(squirrel.Lt{"r.start_at": to}).
		OrderBy("r.start_at ASC", "r.court_id ASC", "r.id ASC")
	return r.query(ctx, "list reservations by date range", q)
}

func (r *pgxRepository) ListByHolderContact(ctx context.Context, contact string) ([]*Reservation, error) {
	q := selectReservations().
		Where(squirrel.Eq{"r.holder_contact": contact}).
		OrderBy("r.start_at ASC", "r.id ASC")
	return r.query(ctx, "list reservations by holder", q)
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	sql, args, err := selectReservations().
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, storeErr("get reservation", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	q := selectReservations("count(*) OVER() as total_count")

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"r.start_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"r.start_at": *filter.To})
	}
	if filter.CourtID != 0 {
		q = q.Where(squirrel.Eq{"r.court_id": filter.CourtID})
	}
	if filter.Sport != "" {
		q = q.Where(squirrel.Eq{"c.sport": filter.Sport})
	}
	switch filter.Status {
	case StatusAll:
	case StatusCancelled:
		q = q.Where(squirrel.Eq{"r.state": StateCancelled})
	default:
		q = q.Where(squirrel.Eq{"r.state": StateActive})
	}

	q = q.OrderBy("r.start_at DESC", "r.id DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	q = q.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, storeErr("list reservations", err)
	}
	defer rows.Close()

	var result []*Reservation
	var total int
	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, storeErr("scan reservation", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("list reservations", err)
	}

	return result, total, nil
}

// overlapQuery builds the EXISTS probe shared by HasOverlap and Insert.
func overlapQuery(courtID int64, start, end time.Time) (string, []any, error) {
	// (NewStart < ExistingEnd) AND (NewEnd > ExistingStart), active rows only
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub, args, err := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"court_id": courtID}).
		Where(squirrel.Eq{"state": StateActive}).
		Where(squirrel.Lt{"start_at": end}).
		Where(squirrel.Gt{"end_at": start}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build check overlap query failed: %w", err)
	}
	return "SELECT EXISTS (" + sub + ")", args, nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, courtID int64, start, end time.Time) (bool, error) {
	query, args, err := overlapQuery(courtID, start, end)
	if err != nil {
		return false, err
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, storeErr("check overlap", err)
	}
	return exists, nil
}

func (r *pgxRepository) Insert(ctx context.Context, res *Reservation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return storeErr("begin insert reservation", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Serialise writers per court until commit. Ids wider than 32 bits may share a lock.
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1, $2)", advisoryNamespace, int32(res.CourtID)); err != nil {
		return storeErr("lock court", err)
	}

	query, args, err := overlapQuery(res.CourtID, res.StartAt, res.EndAt)
	if err != nil {
		return err
	}
	var exists bool
	if err := tx.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return storeErr("check overlap", err)
	}
	if exists {
		return ErrConflict
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	insert, args, err := psql.Insert("public.reservations").
		Columns("court_id", "start_at", "end_at", "duration_minutes", "holder_name", "holder_contact", "state").
		Values(res.CourtID, res.StartAt, res.EndAt, res.DurationMinutes, res.HolderName, nullIfEmpty(res.HolderContact), StateActive).
		Suffix("RETURNING id, state, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, insert, args...).Scan(&res.ID, &res.State, &res.CreatedAt, &res.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.ExclusionViolation:
				return ErrConflict
			case pgerrcode.ForeignKeyViolation:
				return ErrCourtNotFound
			}
		}
		return storeErr("insert reservation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return ErrConflict
		}
		return storeErr("commit reservation", err)
	}
	return nil
}

func (r *pgxRepository) Cancel(ctx context.Context, id int64) (*Reservation, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("state", StateCancelled).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"state": StateActive}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cancel reservation query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, storeErr("cancel reservation", err)
	}

	// Zero rows means the id is unknown or the reservation is already terminal.
	res, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrAlreadyCancelled
	}
	return res, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
