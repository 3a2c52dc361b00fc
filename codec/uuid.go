package codec

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidUUID is returned for strings that are not in canonical form.
var ErrInvalidUUID = errors.New("codec: invalid uuid")

// ParseUUID accepts only the canonical 36 character form
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx), in either case. The braced and
// urn:uuid: forms uuid.Parse would also take are rejected.
func ParseUUID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, ErrInvalidUUID
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrInvalidUUID
	}
	return u, nil
}

// FormatUUID returns the lower-case canonical form.
func FormatUUID(u uuid.UUID) string { return u.String() }
