package reservation

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/nekogravitycat/canchas/internal/pkg/apperror"
)

// NormalizeContact returns the canonical form of a holder contact: a lower-cased
// email address, or a phone number in E.164 parsed with defaultRegion.
// An empty contact stays empty.
func NormalizeContact(raw, defaultRegion string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", nil
	}

	if strings.Contains(v, "@") {
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "", apperror.WrapSentinel(ErrInvalidContact, fmt.Errorf("email %q", v))
		}
		return strings.ToLower(addr.Address), nil
	}

	num, err := phonenumbers.Parse(v, defaultRegion)
	if err != nil {
		return "", apperror.WrapSentinel(ErrInvalidContact, err)
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", apperror.WrapSentinel(ErrInvalidContact, fmt.Errorf("phone %q", v))
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
