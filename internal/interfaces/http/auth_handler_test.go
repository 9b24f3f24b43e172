package http_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Acquisitions-api/internal/interfaces/http"
)

func TestSignup_201SinPassword_LuegoDuplicado409(t *testing.T) {
	s := newServer(t)
	body := map[string]string{"email": "a@x.com", "password": "longenough1"}

	res := s.do(t, http.MethodPost, "/api/auth/signup", "", body)
	require.Equal(t, http.StatusCreated, res.status, string(res.body))
	user := res.json(t)
	assert.NotEmpty(t, user["id"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")

	body["password"] = "otra-clave-distinta"
	res = s.do(t, http.MethodPost, "/api/auth/signup", "", body)
	assert.Equal(t, http.StatusConflict, res.status)
	assert.Equal(t, "EMAIL_EXISTS", res.json(t)["code"])
}

func TestSignup_ValidacionConDetalles(t *testing.T) {
	s := newServer(t)
	res := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{"email": "no-es-email", "password": "corta"})

	require.Equal(t, http.StatusBadRequest, res.status)
	body := res.json(t)
	assert.Equal(t, "VALIDATION", body["code"])
	details, ok := body["details"].([]any)
	require.True(t, ok)
	fields := map[string]bool{}
	for _, d := range details {
		fields[d.(map[string]any)["field"].(string)] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["password"])
}

func TestSignup_PasswordNoASCIIMayorA72Bytes400(t *testing.T) {
	s := newServer(t)
	res := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "n@x.com", "password": strings.Repeat("ñ", 40),
	})
	require.Equal(t, http.StatusBadRequest, res.status, string(res.body))
	assert.Equal(t, "VALIDATION", res.json(t)["code"])
}

func TestSignup_JSONInvalido(t *testing.T) {
	s := newServer(t)
	res := s.do(t, http.MethodPost, "/api/auth/signup", "", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, res.status)
	assert.Equal(t, "INVALID_BODY", res.json(t)["code"])
}

func TestSignup_RolAdminIgnoradoSinAdmin(t *testing.T) {
	s := newServer(t)
	res := s.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "yo@x.com", "password": "longenough1", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, "user", res.json(t)["role"])

	admin := s.store.SeedUser("root@x.com", "admin")
	res = s.do(t, http.MethodPost, "/api/auth/signup", tokenFor(t, admin.UserID, "admin"), map[string]string{
		"email": "otro-admin@x.com", "password": "longenough1", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, res.status)
	assert.Equal(t, "admin", res.json(t)["role"])
}

func TestSignin_CookieYMe_LuegoSignout(t *testing.T) {
	s := newServer(t)
	creds := map[string]string{"email": "a@x.com", "password": "longenough1"}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/signup", "", creds).status)

	res := s.do(t, http.MethodPost, "/api/auth/signin", "", creds)
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	var cookie *http.Cookie
	for _, c := range res.cookies {
		if c.Name == testCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "signin debe dejar la cookie")
	assert.True(t, cookie.HttpOnly)
	token := res.json(t)["token"].(string)
	assert.Equal(t, token, cookie.Value)

	res = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "a@x.com", res.json(t)["email"])

	res = s.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, res.status)
	for _, c := range res.cookies {
		if c.Name == testCookie {
			assert.Empty(t, c.Value)
		}
	}

	res = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, res.status, "el token revocado deja de valer")
}

func TestSignout_RevocacionFallida_IgualBorraCookie(t *testing.T) {
	s := newServer(t)
	creds := map[string]string{"email": "a@x.com", "password": "longenough1"}
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/signup", "", creds).status)
	res := s.do(t, http.MethodPost, "/api/auth/signin", "", creds)
	require.Equal(t, http.StatusOK, res.status)
	token := res.json(t)["token"].(string)

	s.revoker.FailRevoke(errors.New("redis caído"))
	res = s.do(t, http.MethodPost, "/api/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, res.status, string(res.body))

	var cleared *http.Cookie
	for _, c := range res.cookies {
		if c.Name == testCookie {
			cleared = c
		}
	}
	require.NotNil(t, cleared, "la cookie se borra aunque falle la revocación")
	assert.Empty(t, cleared.Value)
}

func TestSignin_CredencialesInvalidas(t *testing.T) {
	s := newServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/auth/signup", "",
		map[string]string{"email": "a@x.com", "password": "longenough1"}).status)

	for _, creds := range []map[string]string{
		{"email": "a@x.com", "password": "equivocada"},
		{"email": "nadie@x.com", "password": "longenough1"},
	} {
		res := s.do(t, http.MethodPost, "/api/auth/signin", "", creds)
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, "UNAUTHORIZED", res.json(t)["code"])
	}
}

func TestSignin_RateLimit(t *testing.T) {
	s := newServer(t, withLimiter(apphttp.NewRateLimiter(1, 2)))
	creds := map[string]string{"email": "a@x.com", "password": "longenough1"}

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		statuses = append(statuses, s.do(t, http.MethodPost, "/api/auth/signin", "", creds).status)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, statuses)
}
