package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Acquisitions-api/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "00000000-0000-0000-0000-000000000001"
	testEmail  = "ana@example.com"
	testIssuer = "acquisitions-test"
)

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, issued, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "admin", testIssuer, 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.NotEmpty(t, issued.ID, "cada token lleva un jti")

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, claims.UserID)
	assert.Equal(t, testEmail, claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, testIssuer, claims.Issuer)
}

func TestGenerate_JTIUnico(t *testing.T) {
	_, a, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "user", testIssuer, 60)
	require.NoError(t, err)
	_, b, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "user", testIssuer, 60)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "user", testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "user", testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, _, err := pkgjwt.Generate("", testUserID, testEmail, "user", testIssuer, 60)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)

	_, err = pkgjwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}

func TestClaims_TTL(t *testing.T) {
	_, c, err := pkgjwt.Generate(testSecret, testUserID, testEmail, "user", testIssuer, 10)
	require.NoError(t, err)

	ttl := c.TTL(time.Now())
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
	assert.Equal(t, time.Duration(0), c.TTL(time.Now().Add(time.Hour)))
}

func TestSign_GeneracionViajaEnElToken(t *testing.T) {
	c := pkgjwt.NewClaims(testUserID, testEmail, "user", testIssuer, 60)
	c.Gen = 3
	tok, err := pkgjwt.Sign(testSecret, c)
	require.NoError(t, err)

	parsed, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.EqualValues(t, 3, parsed.Gen)
}
