package pagination

import (
	"encoding/base64"
	"encoding/json"
	"strconv"
	"time"

	apperrors "github.com/willianOliveira-dev/barber-app-sub000/pkg/errors"
)

// MaxPageSize is the hard server-side page cap for listing endpoints.
// Callers asking for more get a clamped page, not an error.
const MaxPageSize = 5

// Cursor identifies the last item of the previous page by its primary sort
// key value and its immutable unique id. Rating-ordered listings also carry
// the created-at secondary key. Callers see only the opaque encoded token;
// the field layout can change without breaking them.
type Cursor struct {
	Key       string     `json:"k"`
	CreatedAt *time.Time `json:"c,omitempty"`
	ID        string     `json:"id"`
}

// Encode serializes the cursor into an opaque URL-safe token
func (c Cursor) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(data)
}

// Decode parses an opaque token back into a cursor. An empty token means
// "first page" and yields a nil cursor; a malformed token is a validation
// error rather than a silent reset to page one.
func Decode(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}

	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid pagination cursor")
	}

	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, apperrors.NewValidationError("invalid pagination cursor")
	}
	if c.ID == "" {
		return nil, apperrors.NewValidationError("invalid pagination cursor")
	}
	return &c, nil
}

// ClampLimit normalizes a requested page size into [1, MaxPageSize]
func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// TimeKey renders a time primary key at the precision the cursor carries
func TimeKey(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// KeyAsTime parses the primary key back into a time value
func (c *Cursor) KeyAsTime() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, c.Key)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid pagination cursor")
	}
	return t, nil
}

// IntKey renders an integer primary key (e.g. a rating)
func IntKey(v int) string {
	return strconv.Itoa(v)
}

// KeyAsInt parses the primary key back into an integer
func (c *Cursor) KeyAsInt() (int, error) {
	v, err := strconv.Atoi(c.Key)
	if err != nil {
		return 0, apperrors.NewValidationError("invalid pagination cursor")
	}
	return v, nil
}
