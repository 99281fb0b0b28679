package domain

import "github.com/pkg/errors"

var (
	ErrNotOpen             = errors.New("database is not open")
	ErrAlreadyOpen         = errors.New("database is already open")
	ErrDatabaseNotFound    = errors.New("database not found")
	ErrInvalidRecordNumber = errors.New("invalid record number")
	ErrShortRead           = errors.New("short read")
	ErrKeyNotFound         = errors.New("key not found")
	ErrMalformedSourceRow  = errors.New("malformed source row")
)

// errorCodes name the sentinels on the wire so remote callers can
// recover them with errors.Is.
var errorCodes = []struct {
	code string
	err  error
}{
	{"NOT_OPEN", ErrNotOpen},
	{"ALREADY_OPEN", ErrAlreadyOpen},
	{"DATABASE_NOT_FOUND", ErrDatabaseNotFound},
	{"INVALID_RECORD_NUMBER", ErrInvalidRecordNumber},
	{"SHORT_READ", ErrShortRead},
	{"KEY_NOT_FOUND", ErrKeyNotFound},
	{"MALFORMED_SOURCE_ROW", ErrMalformedSourceRow},
}

func ErrorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// ErrorForCode returns nil for an empty or unknown code.
func ErrorForCode(code string) error {
	for _, c := range errorCodes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
