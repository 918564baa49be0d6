package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/naste-api/internal/application/billing"
	"github.com/jhoicas/naste-api/internal/application/catalog"
	"github.com/jhoicas/naste-api/internal/application/identity"
	"github.com/jhoicas/naste-api/internal/application/inventory"
	"github.com/jhoicas/naste-api/internal/infrastructure/memory"
	"github.com/jhoicas/naste-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/naste-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/naste-api/pkg/jwt"
)

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testIssuer     = "naste-test"
	testExternalID = "auth0|vendedor-1"
	testExpMin     = 60
)

type testServer struct {
	app   *fiber.App
	store *memory.Store
	auth  string
}

// newTestServer arma la app completa sobre el almacenamiento en memoria.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewStockLedger(store.Products(), zerolog.Nop())
	deps := apphttp.RouterDeps{
		ProductUC: catalog.NewProductUseCase(store.Products(), ledger),
		InvoiceUC: billing.NewInvoiceUseCase(memory.NewTxRunner(store), store.Invoices(), store.Users(), ledger, zerolog.Nop()),
		PDFUC:     billing.NewPDFUseCase(store.Invoices(), pdf.NewMarotoPDFGenerator("Naste")),
		UserUC:    identity.NewUserUseCase(store.Users(), zerolog.Nop()),
		Auth:      apphttp.AuthConfig{Secret: testJWTSecret, Issuer: testIssuer},
		Log:       zerolog.Nop(),
	}
	app := apphttp.NewApp(apphttp.AppConfig{Name: "naste-test"}, deps)
	return &testServer{app: app, store: store, auth: bearer(t, testExternalID, "vendedor@naste.co", "Vendedor")}
}

func bearer(t *testing.T, sub, email, name string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, sub, email, name, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// do lanza la petición con el token del servidor y devuelve status y cuerpo.
func (s *testServer) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	return s.doWithAuth(t, method, path, body, s.auth)
}

func (s *testServer) doWithAuth(t *testing.T, method, path string, body any, auth string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (s *testServer) response(t *testing.T, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set(fiber.HeaderAuthorization, s.auth)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "respuesta JSON inválida: %s", string(raw))
	return out
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
	Meta map[string]any `json:"meta"`
}

func (e errorBody) fields() []string {
	out := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		out = append(out, d.Field)
	}
	return out
}
