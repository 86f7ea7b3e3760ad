package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store/memory"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

type observation struct {
	kind   string
	result string
	ops    map[string]int
}

type recorder struct {
	mu    sync.Mutex
	calls []observation
}

func (r *recorder) ObserveReconciliation(kind, result string, ops map[string]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, observation{kind, result, ops})
}

type harness struct {
	t       *testing.T
	ctx     context.Context
	store   *memory.Store
	svc     *Services
	metrics *recorder

	mu     sync.Mutex
	events []audit.Event
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:       t,
		ctx:     context.Background(),
		store:   memory.New(),
		metrics: &recorder{},
	}
	h.svc = New(h.store, Options{
		Audit: func(e audit.Event) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.events = append(h.events, e)
		},
		Metrics: h.metrics,
		Now:     func() time.Time { return fixedNow },
	})
	return h
}

func (h *harness) lastEvent() audit.Event {
	h.t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	require.NotEmpty(h.t, h.events)
	return h.events[len(h.events)-1]
}

func str(s string) *string { return &s }
func num(i int) *int       { return &i }
func id(u uint) *uint      { return &u }

func (h *harness) country(code string) *model.Country {
	h.t.Helper()
	c, err := h.svc.Countries.Create(h.ctx, CountryInput{CountryCode: str(code), CountryName: str(code + " land")})
	require.NoError(h.t, err)
	return c
}

func tenantInput(org, sub string, countryID uint) TenantInput {
	return TenantInput{
		OrganizationCode: str(org),
		TenantName:       str(org + " Inc"),
		SubDomain:        str(sub),
		DefaultCurrency:  str("usd"),
		Description:      str(""),
		Status:           str("Active"),
		CountryID:        num(int(countryID)),
	}
}

func keyOf(t *model.Tenant) model.TenantKey {
	return model.TenantKey{TenantID: t.TenantID, OrganizationCode: t.OrganizationCode, SubDomain: t.SubDomain}
}

func (h *harness) tenant(org, sub string, countryID uint) *model.Tenant {
	h.t.Helper()
	t, err := h.svc.Tenants.Create(h.ctx, tenantInput(org, sub, countryID))
	require.NoError(h.t, err)
	return t
}

func branchInput(code string, countryID uint) BranchInput {
	return BranchInput{
		Name:        str("Branch " + code),
		Description: str(""),
		Status:      str("Active"),
		Code:        str(code),
		CountryID:   num(int(countryID)),
	}
}

func (h *harness) branch(t *model.Tenant, code string) *model.Branch {
	h.t.Helper()
	b, err := h.svc.Branches.Create(h.ctx, keyOf(t), branchInput(code, t.CountryID))
	require.NoError(h.t, err)
	return b
}

func (h *harness) product(code string) *model.Product {
	h.t.Helper()
	p, err := h.svc.Products.Create(h.ctx, ProductInput{Name: str(code), Code: str(code)})
	require.NoError(h.t, err)
	return p
}

func (h *harness) module(code string) *model.Module {
	h.t.Helper()
	m, err := h.svc.Modules.Create(h.ctx, ModuleInput{Name: str("Module " + code), Code: str(code)})
	require.NoError(h.t, err)
	return m
}

func (h *harness) link(p *model.Product, m *model.Module) *model.ProductModule {
	h.t.Helper()
	pm, err := h.svc.ProductModules.Create(h.ctx, ProductModuleInput{
		ProductID: num(int(p.ProductID)),
		ModuleID:  num(int(m.ModuleID)),
	})
	require.NoError(h.t, err)
	return pm
}

func (h *harness) feature(name string) *model.Feature {
	h.t.Helper()
	f, err := h.svc.Features.Create(h.ctx, FeatureInput{Name: str(name)})
	require.NoError(h.t, err)
	return f
}

// serviceError asserts err is a *Error of the given kind and returns it
func serviceError(t *testing.T, err error, kind error) *Error {
	t.Helper()
	require.Error(t, err)
	var e *Error
	require.True(t, errors.As(err, &e), "expected *service.Error, got %T: %v", err, err)
	require.ErrorIs(t, err, kind)
	return e
}
