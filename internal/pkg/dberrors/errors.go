package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn" // Import pgconn for PgError
)

// PostgreSQL SQLSTATE codes the repositories translate
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

// IsUniqueViolation checks if the error is a PostgreSQL unique violation error.
func IsUniqueViolation(err error) bool {
	return hasCode(err, UniqueViolation)
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation error.
func IsForeignKeyViolation(err error) bool {
	return hasCode(err, ForeignKeyViolation)
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation && pgErr.ConstraintName == constraintName
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
