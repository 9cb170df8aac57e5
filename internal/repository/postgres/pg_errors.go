package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// pgErrorCode возвращает SQLSTATE для pgconn и lib/pq драйверов или пустую строку
func pgErrorCode(err error) string {
	// pgx/v5 driver (pgconn.PgError)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	// lib/pq driver
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// isForeignKeyViolation проверяет Postgres foreign key violation (23503)
func isForeignKeyViolation(err error) bool {
	return err != nil && pgErrorCode(err) == codeForeignKeyViolation
}

// isUniqueViolation проверяет Postgres unique violation (23505)
func isUniqueViolation(err error) bool {
	return err != nil && pgErrorCode(err) == codeUniqueViolation
}
