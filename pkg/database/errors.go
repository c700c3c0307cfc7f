package database

import (
	"errors"

	"github.com/lib/pq"
)

// foreign_key_violation per the PostgreSQL error code table.
const pqForeignKeyViolation = "23503"

// IsForeignKeyViolation reports whether the error is a PostgreSQL foreign
// key restriction. Deletes blocked by dependent rows surface this way.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqForeignKeyViolation
	}
	return false
}
