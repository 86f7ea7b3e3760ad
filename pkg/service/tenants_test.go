package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func TestTenantService_CreateAndGet(t *testing.T) {
	h := newHarness(t)
	us := h.country("US")

	created := h.tenant("ACME", "acme", us.CountryID)
	assert.Equal(t, "USD", created.DefaultCurrency)
	assert.Equal(t, model.StatusActive, created.Status)
	assert.NotZero(t, created.TenantID)

	got, err := h.svc.Tenants.Get(h.ctx, keyOf(created))
	require.NoError(t, err)
	assert.Equal(t, created, got)

	event, ok := h.lastEvent().(audit.ChangeEvent)
	require.True(t, ok)
	assert.Equal(t, "tenant", event.Entity)
	assert.Equal(t, "create", event.Operation)
	assert.True(t, event.Success)
}

func TestTenantService_GetRequiresFullKey(t *testing.T) {
	h := newHarness(t)
	us := h.country("US")
	created := h.tenant("ACME", "acme", us.CountryID)

	key := keyOf(created)
	key.SubDomain = "other"
	_, err := h.svc.Tenants.Get(h.ctx, key)
	e := serviceError(t, err, store.ErrNotFound)
	assert.Equal(t, "Tenant with ID 1, organization code 'ACME' and sub-domain 'other' not found.", e.Message)
}

func TestTenantService_CreateDuplicates(t *testing.T) {
	h := newHarness(t)
	us := h.country("US")
	h.tenant("ACME", "acme", us.CountryID)

	_, err := h.svc.Tenants.Create(h.ctx, tenantInput("ACME", "fresh", us.CountryID))
	e := serviceError(t, err, store.ErrDuplicate)
	assert.Equal(t, "Organization code 'ACME' already exists.", e.Message)
	assert.Equal(t, "organization_code", e.Field)

	_, err = h.svc.Tenants.Create(h.ctx, tenantInput("GLOBEX", "acme", us.CountryID))
	e = serviceError(t, err, store.ErrDuplicate)
	assert.Equal(t, "Sub-domain 'acme' already exists.", e.Message)

	tenants, err := h.svc.Tenants.List(h.ctx)
	require.NoError(t, err)
	assert.Len(t, tenants, 1)
}

func TestTenantService_CreateValidation(t *testing.T) {
	h := newHarness(t)

	t.Run("missing fields are listed together", func(t *testing.T) {
		_, err := h.svc.Tenants.Create(h.ctx, TenantInput{TenantName: str("x")})
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "Missing fields: organization_code, sub_domain, default_currency, description, status, country_id", e.Message)
		assert.Len(t, e.Details, 6)
		assert.Empty(t, e.Field)
	})

	t.Run("bad status and currency", func(t *testing.T) {
		in := tenantInput("ACME", "acme", 1)
		in.Status = str("Deleted")
		in.DefaultCurrency = str("dollars")
		_, err := h.svc.Tenants.Create(h.ctx, in)
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "Invalid data provided.", e.Message)
		assert.Equal(t, map[string]string{
			"status":           "Must be one of: Active, Inactive, Suspended.",
			"default_currency": "Must be a 3-letter currency code.",
		}, e.Details)
	})

	t.Run("unknown country", func(t *testing.T) {
		_, err := h.svc.Tenants.Create(h.ctx, tenantInput("ACME", "acme", 99))
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, invalidCountry, e.Message)
		assert.Equal(t, "country_id", e.Field)
	})
}

func TestTenantService_Update(t *testing.T) {
	h := newHarness(t)
	us := h.country("US")
	acme := h.tenant("ACME", "acme", us.CountryID)
	h.tenant("GLOBEX", "globex", us.CountryID)

	t.Run("keeping its own codes is not a conflict", func(t *testing.T) {
		in := tenantInput("ACME", "acme", us.CountryID)
		in.TenantName = str("Acme Corporation")
		updated, err := h.svc.Tenants.Update(h.ctx, keyOf(acme), in)
		require.NoError(t, err)
		assert.Equal(t, "Acme Corporation", updated.TenantName)
	})

	t.Run("taking another tenant's sub-domain", func(t *testing.T) {
		_, err := h.svc.Tenants.Update(h.ctx, keyOf(acme), tenantInput("ACME", "globex", us.CountryID))
		e := serviceError(t, err, store.ErrDuplicate)
		assert.Equal(t, "Sub-domain 'globex' already exists for another tenant.", e.Message)
	})

	t.Run("organization code and sub-domain are optional", func(t *testing.T) {
		in := tenantInput("", "", us.CountryID)
		in.OrganizationCode, in.SubDomain = nil, nil
		in.Status = str("Suspended")
		updated, err := h.svc.Tenants.Update(h.ctx, keyOf(acme), in)
		require.NoError(t, err)
		assert.Equal(t, "ACME", updated.OrganizationCode)
		assert.Equal(t, model.StatusSuspended, updated.Status)
	})
}

func TestTenantService_DeleteCascades(t *testing.T) {
	h := newHarness(t)
	us := h.country("US")
	acme := h.tenant("ACME", "acme", us.CountryID)
	hq := h.branch(acme, "HQ")

	deleted, err := h.svc.Tenants.Delete(h.ctx, keyOf(acme))
	require.NoError(t, err)
	assert.Equal(t, acme.TenantID, deleted.TenantID)

	_, err = h.svc.Branches.Get(h.ctx, hq.BranchID)
	serviceError(t, err, store.ErrNotFound)

	_, err = h.svc.Tenants.Delete(h.ctx, keyOf(acme))
	serviceError(t, err, store.ErrNotFound)
}

func TestBranchService(t *testing.T) {
	h := newHarness(t)
	us := h.country("US")
	acme := h.tenant("ACME", "acme", us.CountryID)
	globex := h.tenant("GLOBEX", "globex", us.CountryID)
	hq := h.branch(acme, "HQ")

	t.Run("codes are unique per tenant", func(t *testing.T) {
		_, err := h.svc.Branches.Create(h.ctx, keyOf(acme), branchInput("HQ", us.CountryID))
		e := serviceError(t, err, store.ErrDuplicate)
		assert.Equal(t, "Branch code 'HQ' already exists for this tenant.", e.Message)

		h.branch(globex, "HQ")
	})

	t.Run("name and code patterns", func(t *testing.T) {
		in := branchInput("no spaces", us.CountryID)
		in.Name = str("Main/Street")
		_, err := h.svc.Branches.Create(h.ctx, keyOf(acme), in)
		e := serviceError(t, err, ErrValidation)
		assert.Contains(t, e.Details, "name")
		assert.Contains(t, e.Details, "code")
	})

	t.Run("unknown tenant", func(t *testing.T) {
		key := keyOf(acme)
		key.OrganizationCode = "NOPE"
		_, err := h.svc.Branches.Create(h.ctx, key, branchInput("B2", us.CountryID))
		serviceError(t, err, store.ErrNotFound)
	})

	t.Run("partial update", func(t *testing.T) {
		updated, err := h.svc.Branches.Update(h.ctx, hq.BranchID, BranchInput{Status: str("Inactive")})
		require.NoError(t, err)
		assert.Equal(t, model.StatusInactive, updated.Status)
		assert.Equal(t, "HQ", updated.Code)
	})

	t.Run("suspended is not a branch status", func(t *testing.T) {
		_, err := h.svc.Branches.Update(h.ctx, hq.BranchID, BranchInput{Status: str("Suspended")})
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "status", e.Field)
	})

	t.Run("listed under the tenant", func(t *testing.T) {
		branches, err := h.svc.Tenants.Branches(h.ctx, acme.TenantID)
		require.NoError(t, err)
		require.Len(t, branches, 1)
		assert.Equal(t, hq.BranchID, branches[0].BranchID)
	})
}

func TestCountryService(t *testing.T) {
	h := newHarness(t)
	us := h.country("us")
	assert.Equal(t, "US", us.CountryCode)

	_, err := h.svc.Countries.Create(h.ctx, CountryInput{CountryCode: str("US"), CountryName: str("Again")})
	e := serviceError(t, err, store.ErrDuplicate)
	assert.Equal(t, "Country code 'US' already exists.", e.Message)

	_, err = h.svc.Countries.Create(h.ctx, CountryInput{CountryCode: str("U"), CountryName: str("Short")})
	e = serviceError(t, err, ErrValidation)
	assert.Equal(t, "country_code", e.Field)

	acme := h.tenant("ACME", "acme", us.CountryID)
	require.NoError(t, h.svc.Countries.Delete(h.ctx, us.CountryID))
	_, err = h.svc.Tenants.Get(h.ctx, keyOf(acme))
	serviceError(t, err, store.ErrNotFound)
}
