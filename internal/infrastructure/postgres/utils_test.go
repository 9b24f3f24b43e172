package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClasificacionDeErroresPg(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})
	assert.True(t, isUniqueViolation(unique, ""))
	assert.True(t, isUniqueViolation(unique, "users_email_key"))
	assert.False(t, isUniqueViolation(unique, "otro"))

	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))

	assert.True(t, isInvalidValue(&pgconn.PgError{Code: "23514", ConstraintName: "listings_price_check"}))
	assert.True(t, isInvalidValue(&pgconn.PgError{Code: "22003"}))
	assert.False(t, isInvalidValue(errors.New("conexión cerrada")))
}
