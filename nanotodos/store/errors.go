package store

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/arthur-debert/nanotodos/types"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// uniqueViolationText matches the wording SQLite and PostgreSQL use for a
// uniqueness failure.
var uniqueViolationText = regexp.MustCompile(`(?i)unique constraint|duplicate key value`)

// LooksLikeUniqueViolation reports whether an error's text describes a
// uniqueness failure. Prefer errors.Is(err, types.ErrUniqueConstraintViolation);
// this only exists for errors that never passed through a store boundary.
func LooksLikeUniqueViolation(err error) bool {
	return err != nil && uniqueViolationText.MatchString(err.Error())
}

// convertDriverError tags a driver failure with the domain error kind it
// represents. field and value describe what was being written, for the
// uniqueness message.
func convertDriverError(err error, field, value string) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &types.ConstraintError{Field: field, Value: value, Err: err}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%w: %w", types.ErrListNotFound, err)
		}
		// Without extended result codes only the primary code is set.
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(err.Error(), "FOREIGN KEY") {
			return fmt.Errorf("%w: %w", types.ErrListNotFound, err)
		}
	}

	if LooksLikeUniqueViolation(err) {
		return &types.ConstraintError{Field: field, Value: value, Err: err}
	}
	return err
}
