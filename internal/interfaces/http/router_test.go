package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-materiales/internal/application/dto"
	"github.com/jhoicas/inventario-materiales/internal/application/inventory"
	"github.com/jhoicas/inventario-materiales/internal/application/usecase"
	"github.com/jhoicas/inventario-materiales/internal/domain"
	"github.com/jhoicas/inventario-materiales/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-materiales/internal/domain/inventory"
	"github.com/jhoicas/inventario-materiales/internal/infrastructure/textfile"
	apphttp "github.com/jhoicas/inventario-materiales/internal/interfaces/http"
)

type fakeReport struct{ err error }

func (f fakeReport) GenerateStockReport(_ context.Context, r dto.StockReport) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-fake " + r.Type), nil
}

type testServer struct {
	app  *fiber.App
	path string
}

// newTestServer arma el stack completo (archivo → store → casos de uso → router) sobre un directorio temporal.
func newTestServer(t *testing.T, secret string, lines ...string) testServer {
	t.Helper()
	return newTestServerWithReport(t, secret, fakeReport{}, lines...)
}

func newTestServerWithReport(t *testing.T, secret string, gen usecase.StockReportGenerator, lines ...string) testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.txt")
	if len(lines) > 0 {
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	}
	gw, err := textfile.NewGateway(path, textfile.EncodingUTF8)
	require.NoError(t, err)
	store := inventory.NewStore(gw, domaininv.PipeCodec{}, zerolog.Nop())
	_, err = store.Load(context.Background())
	require.NoError(t, err)

	deps := apphttp.RouterDeps{
		ProductUC: usecase.NewProductUseCase(store, nil),
		ReportUC:  usecase.NewReportUseCase(store, gen),
	}
	if secret != "" {
		deps.Tokens = testSigner(t)
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return testServer{app: app, path: path}
}

func (s testServer) do(t *testing.T, method, target string, body any, auth string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (s testServer) fileContent(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	return string(raw)
}

var seed = []string{
	"Paint-A|" + entity.TypePaints + "|X|10|25.5",
	"Cement-B|" + entity.TypeCement + "|Y|5|40",
	"Cement-C|" + entity.TypeCement + "|Z|1|30",
}

func TestRouter_ListYFiltro(t *testing.T) {
	s := newTestServer(t, "", seed...)

	all := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products", nil, ""))
	assert.Equal(t, entity.TypeAll, all.Type)
	require.Equal(t, 3, all.Total)
	assert.Equal(t, "Paint-A", all.Items[0].Name)

	cement := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products?type="+neturl.QueryEscape(entity.TypeCement), nil, ""))
	require.Equal(t, 2, cement.Total)
	assert.Equal(t, "Cement-C", cement.Items[0].Name, "ordenado por precio ascendente")
	assert.Equal(t, 2, cement.Items[0].Position, "posición real en la secuencia")
	assert.Equal(t, "Cement-B", cement.Items[1].Name)
}

func TestRouter_CreateYValidacion(t *testing.T) {
	s := newTestServer(t, "")

	resp := s.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "  Brick ", "type": entity.TypeOther, "manufacturer": " Z ", "quantity": 3, "price": "12.5",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Brick", out.Name)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "Brick|"+entity.TypeOther+"|Z|3|12.5\n", s.fileContent(t))

	resp = s.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": " ", "type": entity.TypeOther, "manufacturer": "Z", "quantity": 3, "price": "1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, raw).Code)
}

func TestRouter_Availability(t *testing.T) {
	s := newTestServer(t, "", seed...)

	found := decode[dto.AvailabilityResponse](t, s.do(t, http.MethodGet,
		"/api/products/availability?name=Paint-A&type="+neturl.QueryEscape(entity.TypePaints)+"&manufacturer=X", nil, ""))
	assert.True(t, found.Available)

	missing := decode[dto.AvailabilityResponse](t, s.do(t, http.MethodGet,
		"/api/products/availability?name=Paint-A&type="+neturl.QueryEscape(entity.TypeCement)+"&manufacturer=X", nil, ""))
	assert.False(t, missing.Available)

	resp := s.do(t, http.MethodGet, "/api/products/availability?name=Paint-A", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_MovimientosYEliminacion(t *testing.T) {
	s := newTestServer(t, "", seed...)
	all := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products", nil, ""))
	paint, cement := all.Items[0].ID, all.Items[1].ID

	out := decode[dto.ProductResponse](t, s.do(t, http.MethodPost, "/api/products/"+paint+"/deliver", dto.AdjustQuantityRequest{Amount: 5}, ""))
	assert.Equal(t, 15, out.Quantity)

	resp := s.do(t, http.MethodPost, "/api/products/"+cement+"/withdraw", dto.AdjustQuantityRequest{Amount: 7}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = s.do(t, http.MethodPost, "/api/products/"+cement+"/withdraw", dto.AdjustQuantityRequest{Amount: 0}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	out = decode[dto.ProductResponse](t, s.do(t, http.MethodPost, "/api/products/"+cement+"/withdraw", dto.AdjustQuantityRequest{Amount: 5}, ""))
	assert.Equal(t, 0, out.Quantity)

	resp = s.do(t, http.MethodDelete, "/api/products/"+paint, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, decode[dto.ProductResponse](t, resp).Position)
	assert.Equal(t,
		"Cement-B|"+entity.TypeCement+"|Y|0|40\nCement-C|"+entity.TypeCement+"|Z|1|30\n",
		s.fileContent(t))

	resp = s.do(t, http.MethodGet, "/api/products/"+paint, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)
}

func TestRouter_Update(t *testing.T) {
	s := newTestServer(t, "", seed...)
	all := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products", nil, ""))

	out := decode[dto.ProductResponse](t, s.do(t, http.MethodPut, "/api/products/"+all.Items[0].ID,
		map[string]any{"quantity": 2, "price": "19.99"}, ""))
	assert.Equal(t, "Paint-A", out.Name)
	assert.Equal(t, 2, out.Quantity)
	assert.Equal(t, "19.99", out.Price.String())

	resp := s.do(t, http.MethodPut, "/api/products/"+all.Items[0].ID, map[string]any{"quantity": -1}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_RefreshYErrorDeFormato(t *testing.T) {
	s := newTestServer(t, "", seed...)

	require.NoError(t, os.WriteFile(s.path, []byte("Only|"+entity.TypeOther+"|W|1|2\n"), 0o644))
	list := decode[dto.ProductListResponse](t, s.do(t, http.MethodPost, "/api/inventory/refresh", nil, ""))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Only", list.Items[0].Name)

	require.NoError(t, os.WriteFile(s.path, []byte("roto|sin|campos\n"), 0o644))
	resp := s.do(t, http.MethodPost, "/api/inventory/refresh", nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "PARSE", decode[dto.ErrorResponse](t, resp).Code)

	still := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products", nil, ""))
	assert.Equal(t, 1, still.Total, "una carga fallida conserva el inventario anterior")
}

func TestRouter_Report(t *testing.T) {
	s := newTestServer(t, "", seed...)

	resp := s.do(t, http.MethodGet, "/api/inventory/report.pdf?type="+neturl.QueryEscape(entity.TypeCement), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake "+entity.TypeCement, string(body))
}

func TestRouter_ReportErroresSegunDominio(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: tipo sin registros", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("%w: disco lleno", domain.ErrStorage), http.StatusInternalServerError, "STORAGE"},
		{errors.New("fuente corrupta"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		s := newTestServerWithReport(t, "", fakeReport{err: tc.err}, seed...)
		resp := s.do(t, http.MethodGet, "/api/inventory/report.pdf", nil, "")
		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		body := decode[dto.ErrorResponse](t, resp)
		assert.Equal(t, tc.code, body.Code)
		assert.Contains(t, body.Message, tc.err.Error())
	}
}

func TestRouter_AutenticacionConSecreto(t *testing.T) {
	s := newTestServer(t, testJWTSecret, seed...)
	all := decode[dto.ProductListResponse](t, s.do(t, http.MethodGet, "/api/products", nil, ""))
	id := all.Items[0].ID

	resp := s.do(t, http.MethodPost, "/api/products/"+id+"/deliver", dto.AdjustQuantityRequest{Amount: 1}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/products/"+id+"/deliver", dto.AdjustQuantityRequest{Amount: 1}, tokenForRole(t, apphttp.RoleVendedor))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/products/"+id+"/deliver", dto.AdjustQuantityRequest{Amount: 1}, tokenForRole(t, apphttp.RoleBodeguero))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/products/"+id, nil, tokenForRole(t, apphttp.RoleBodeguero))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/products/"+id, nil, tokenForRole(t, apphttp.RoleAdmin))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
