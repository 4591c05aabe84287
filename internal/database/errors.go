package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err came from a unique constraint, whichever
// driver produced it.
func IsUniqueViolation(err error) bool {
	return matches(err, gorm.ErrDuplicatedKey, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err came from a foreign key constraint.
func IsForeignKeyViolation(err error) bool {
	return matches(err, gorm.ErrForeignKeyViolated, pgForeignKeyViolation)
}

// IsNotFound reports whether err means the queried row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// matches checks the gorm-translated sentinel first, then the raw SQLSTATE of
// either postgres driver. lib/pq errors are never translated by gorm.
func matches(err, translated error, code string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, translated) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
