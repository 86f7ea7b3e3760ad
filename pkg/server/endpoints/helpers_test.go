package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/config"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store/memory"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

// testConfig is the default config with auditing off so tests do not
// write syslog lines to stdout
func testConfig() *config.TenantConfig {
	cfg := config.Default()
	off := false
	cfg.AuditEnabled = &off
	return cfg
}

type testServer struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	srv   *server.Server
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, testConfig())
}

func newTestServerWith(t *testing.T, cfg *config.TenantConfig) *testServer {
	st := memory.New()
	s := server.NewServer(cfg, st, nil, "127.0.0.1", "0")
	RegisterAll(s)
	return &testServer{t: t, ctx: context.Background(), store: st, srv: s}
}

// do sends a request through the router and returns the recorder
func (ts *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	ts.t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(ts.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(w, req)
	return w
}

// envelope is the union of both response shapes
type envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Details map[string]string `json:"details"`
	Data    json.RawMessage   `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) envelope {
	t.Helper()
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, dst), string(env.Data))
	return env
}

func str(s string) *string { return &s }
func num(i int) *int       { return &i }

func (ts *testServer) country(code string) *model.Country {
	ts.t.Helper()
	c, err := ts.srv.Services.Countries.Create(ts.ctx, service.CountryInput{CountryCode: str(code), CountryName: str(code)})
	require.NoError(ts.t, err)
	return c
}

func tenantBody(org, sub string, countryID uint) map[string]interface{} {
	return map[string]interface{}{
		"organization_code": org,
		"tenant_name":       org + " Inc",
		"sub_domain":        sub,
		"default_currency":  "USD",
		"description":       "",
		"status":            "Active",
		"country_id":        countryID,
	}
}

func (ts *testServer) tenant(org, sub string, countryID uint) *model.Tenant {
	ts.t.Helper()
	t, err := ts.srv.Services.Tenants.Create(ts.ctx, service.TenantInput{
		OrganizationCode: str(org),
		TenantName:       str(org + " Inc"),
		SubDomain:        str(sub),
		DefaultCurrency:  str("USD"),
		Description:      str(""),
		Status:           str("Active"),
		CountryID:        num(int(countryID)),
	})
	require.NoError(ts.t, err)
	return t
}

func (ts *testServer) branch(t *model.Tenant, code string) *model.Branch {
	ts.t.Helper()
	key := model.TenantKey{TenantID: t.TenantID, OrganizationCode: t.OrganizationCode, SubDomain: t.SubDomain}
	b, err := ts.srv.Services.Branches.Create(ts.ctx, key, service.BranchInput{
		Name:        str("Branch " + code),
		Description: str(""),
		Status:      str("Active"),
		Code:        str(code),
		CountryID:   num(int(t.CountryID)),
	})
	require.NoError(ts.t, err)
	return b
}

func (ts *testServer) product(code string) *model.Product {
	ts.t.Helper()
	p, err := ts.srv.Services.Products.Create(ts.ctx, service.ProductInput{Name: str(code), Code: str(code)})
	require.NoError(ts.t, err)
	return p
}

func (ts *testServer) module(code string) *model.Module {
	ts.t.Helper()
	m, err := ts.srv.Services.Modules.Create(ts.ctx, service.ModuleInput{Name: str("Module " + code), Code: str(code)})
	require.NoError(ts.t, err)
	return m
}

func (ts *testServer) link(p *model.Product, m *model.Module) {
	ts.t.Helper()
	_, err := ts.srv.Services.ProductModules.Create(ts.ctx, service.ProductModuleInput{
		ProductID: num(int(p.ProductID)),
		ModuleID:  num(int(m.ModuleID)),
	})
	require.NoError(ts.t, err)
}

func (ts *testServer) feature(name string) *model.Feature {
	ts.t.Helper()
	f, err := ts.srv.Services.Features.Create(ts.ctx, service.FeatureInput{Name: str(name)})
	require.NoError(ts.t, err)
	return f
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, w.Code, w.Body.String())
	require.Contains(t, w.Header().Get("Content-Type"), "application/json")
}
