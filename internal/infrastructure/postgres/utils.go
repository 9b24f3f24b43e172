package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeNumericOutOfRange   = "22003"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
// Si constraint no es vacío además exige que sea ese constraint.
func isUniqueViolation(err error, constraint string) bool {
	pgErr, ok := pgError(err)
	if !ok || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// isForeignKeyViolation verifica si el error es una FK rota (23503), p. ej. dueño o publicación borrados.
func isForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == codeForeignKeyViolation
}

// isInvalidValue CHECK violado (p. ej. precio <= 0) o importe fuera de NUMERIC(14,2).
func isInvalidValue(err error) bool {
	pgErr, ok := pgError(err)
	return ok && (pgErr.Code == codeCheckViolation || pgErr.Code == codeNumericOutOfRange)
}
