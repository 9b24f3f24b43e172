package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Acquisitions-api/internal/application/auth"
	"github.com/jhoicas/Acquisitions-api/internal/application/deal"
	"github.com/jhoicas/Acquisitions-api/internal/application/usecase"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	apphttp "github.com/jhoicas/Acquisitions-api/internal/interfaces/http"
	"github.com/jhoicas/Acquisitions-api/internal/testutil"
	pkgjwt "github.com/jhoicas/Acquisitions-api/pkg/jwt"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "acquisitions-test"
	testCookie    = "token"
)

type server struct {
	app     *fiber.App
	store   *testutil.Store
	revoker *testutil.MemoryRevoker
	authUC  *auth.AuthUseCase
}

type serverOption func(*apphttp.RouterDeps)

func withLimiter(rl *apphttp.RateLimiter) serverOption {
	return func(d *apphttp.RouterDeps) { d.AuthLimiter = rl }
}

func withMetrics(m *apphttp.Metrics) serverOption {
	return func(d *apphttp.RouterDeps) { d.Metrics = m }
}

func newServer(t *testing.T, opts ...serverOption) *server {
	t.Helper()
	store := testutil.NewStore()
	rev := testutil.NewMemoryRevoker()
	authUC := auth.NewAuthUseCase(store.Users(), rev, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer,
	}, bcrypt.MinCost)

	deps := apphttp.RouterDeps{
		AuthUC:    authUC,
		UserUC:    usecase.NewUserUseCase(store.Users(), rev, bcrypt.MinCost),
		ListingUC: usecase.NewListingUseCase(store.Listings()),
		DealUC:    deal.NewUseCase(store, store.Listings(), store.Deals()),
		Validator: validation.New(),
		Logger:    logger.Nop(),
		Cookie:    apphttp.CookieConfig{Name: testCookie},
	}
	for _, o := range opts {
		o(&deps)
	}
	app := apphttp.NewApp(apphttp.AppConfig{Name: "acq-test"}, logger.Nop(), deps.Metrics)
	apphttp.Router(app, deps)
	return &server{app: app, store: store, revoker: rev, authUC: authUC}
}

// tokenFor firma un token para un usuario existente en el store.
func tokenFor(t *testing.T, userID, role string) string {
	t.Helper()
	tok, _, err := pkgjwt.Generate(testJWTSecret, userID, userID+"@x.com", role, testIssuer, 60)
	require.NoError(t, err)
	return tok
}

type response struct {
	status  int
	body    []byte
	cookies []*http.Cookie
	header  http.Header
}

func (r response) json(t *testing.T) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(r.body, &m), string(r.body))
	return m
}

func (s *server) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return response{status: resp.StatusCode, body: raw, cookies: resp.Cookies(), header: resp.Header}
}
