package endpoints

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

func tenantPath(t *model.Tenant) string {
	return fmt.Sprintf("/api/tenants/%d/%s/%s", t.TenantID, t.OrganizationCode, t.SubDomain)
}

func TestTenantEndpoints(t *testing.T) {
	t.Run("creates and fetches a tenant", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")

		w := ts.do("POST", "/api/tenants", tenantBody("ACME", "acme", c.CountryID))
		requireStatus(t, w, http.StatusCreated)

		var created model.Tenant
		env := decodeData(t, w, &created)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "Tenant created successfully", env.Message)
		assert.Equal(t, "ACME", created.OrganizationCode)
		assert.Equal(t, model.StatusActive, created.Status)

		w = ts.do("GET", tenantPath(&created), nil)
		requireStatus(t, w, http.StatusOK)
		var fetched model.Tenant
		decodeData(t, w, &fetched)
		assert.Equal(t, created, fetched)
	})

	t.Run("lists tenants by name", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		ts.tenant("ZED", "zed", c.CountryID)
		ts.tenant("ACME", "acme", c.CountryID)

		w := ts.do("GET", "/api/tenants", nil)
		requireStatus(t, w, http.StatusOK)
		var list []service.TenantSummary
		decodeData(t, w, &list)
		require.Len(t, list, 2)
		assert.Equal(t, "ACME Inc", list[0].Name)
		assert.Equal(t, "ZED Inc", list[1].Name)
	})

	t.Run("the composite key must match", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		tenant := ts.tenant("ACME", "acme", c.CountryID)

		w := ts.do("GET", fmt.Sprintf("/api/tenants/%d/ACME/other", tenant.TenantID), nil)
		requireStatus(t, w, http.StatusNotFound)
		env := decode(t, w)
		assert.Equal(t, "error", env.Status)
		assert.Equal(t, http.StatusNotFound, env.Code)
		assert.Equal(t, fmt.Sprintf("Tenant with ID %d, organization code 'ACME' and sub-domain 'other' not found.", tenant.TenantID), env.Message)
	})

	t.Run("rejects duplicates with 409", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		ts.tenant("ACME", "acme", c.CountryID)

		w := ts.do("POST", "/api/tenants", tenantBody("ACME", "other", c.CountryID))
		requireStatus(t, w, http.StatusConflict)
		assert.Equal(t, http.StatusConflict, decode(t, w).Code)
	})

	t.Run("reports validation problems per field", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		body := tenantBody("ACME", "acme", c.CountryID)
		body["status"] = "Closed"
		body["default_currency"] = "dollars"

		w := ts.do("POST", "/api/tenants", body)
		requireStatus(t, w, http.StatusBadRequest)
		env := decode(t, w)
		assert.Contains(t, env.Details, "status")
		assert.Contains(t, env.Details, "default_currency")
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do("POST", "/api/tenants", "")
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "No input data provided", decode(t, w).Message)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do("POST", "/api/tenants", "{not json")
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "Request body must be valid JSON.", decode(t, w).Message)
	})

	t.Run("rejects fields of the wrong type", func(t *testing.T) {
		ts := newTestServer(t)
		body := tenantBody("ACME", "acme", 1)
		body["country_id"] = "one"

		w := ts.do("POST", "/api/tenants", body)
		requireStatus(t, w, http.StatusBadRequest)
		env := decode(t, w)
		assert.Equal(t, "Invalid data provided.", env.Message)
		assert.Contains(t, env.Details, "country_id")
	})

	t.Run("updates and deletes by key", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		tenant := ts.tenant("ACME", "acme", c.CountryID)

		body := tenantBody("ACME", "acme", c.CountryID)
		body["tenant_name"] = "Acme Holdings"
		w := ts.do("PUT", tenantPath(tenant), body)
		requireStatus(t, w, http.StatusOK)
		var updated model.Tenant
		env := decodeData(t, w, &updated)
		assert.Equal(t, "Tenant updated successfully", env.Message)
		assert.Equal(t, "Acme Holdings", updated.TenantName)

		w = ts.do("DELETE", tenantPath(tenant), nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, "Tenant deleted successfully.", decode(t, w).Message)

		w = ts.do("GET", tenantPath(tenant), nil)
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("lists the branches of a tenant", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		tenant := ts.tenant("ACME", "acme", c.CountryID)

		w := ts.do("GET", fmt.Sprintf("/api/tenants/%d/branches", tenant.TenantID), nil)
		requireStatus(t, w, http.StatusOK)
		assert.JSONEq(t, `[]`, string(decode(t, w).Data))

		ts.branch(tenant, "NBO")
		w = ts.do("GET", fmt.Sprintf("/api/tenants/%d/branches", tenant.TenantID), nil)
		var branches []model.Branch
		decodeData(t, w, &branches)
		require.Len(t, branches, 1)
		assert.Equal(t, "NBO", branches[0].Code)
	})
}

func TestBranchEndpoints(t *testing.T) {
	branchBody := func(code string, countryID uint) map[string]interface{} {
		return map[string]interface{}{
			"name":        "Branch " + code,
			"description": "",
			"status":      "Active",
			"code":        code,
			"country_id":  countryID,
		}
	}

	t.Run("creates a branch under a tenant key", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		tenant := ts.tenant("ACME", "acme", c.CountryID)

		path := fmt.Sprintf("/api/branches/create/%d/%s/%s", tenant.TenantID, tenant.OrganizationCode, tenant.SubDomain)
		w := ts.do("POST", path, branchBody("NBO", c.CountryID))
		requireStatus(t, w, http.StatusCreated)
		var branch model.Branch
		env := decodeData(t, w, &branch)
		assert.Equal(t, "Branch created successfully", env.Message)
		assert.Equal(t, tenant.TenantID, branch.TenantID)

		w = ts.do("POST", path, branchBody("NBO", c.CountryID))
		requireStatus(t, w, http.StatusConflict)
	})

	t.Run("rejects a tenant key that does not match", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		tenant := ts.tenant("ACME", "acme", c.CountryID)

		path := fmt.Sprintf("/api/branches/create/%d/%s/wrong", tenant.TenantID, tenant.OrganizationCode)
		w := ts.do("POST", path, branchBody("NBO", c.CountryID))
		requireStatus(t, w, http.StatusNotFound)
	})

	t.Run("gets updates and deletes by id", func(t *testing.T) {
		ts := newTestServer(t)
		c := ts.country("KE")
		tenant := ts.tenant("ACME", "acme", c.CountryID)
		branch := ts.branch(tenant, "NBO")
		path := fmt.Sprintf("/api/branches/%d", branch.BranchID)

		w := ts.do("GET", path, nil)
		requireStatus(t, w, http.StatusOK)

		w = ts.do("PUT", path, map[string]interface{}{"name": "Nairobi"})
		requireStatus(t, w, http.StatusOK)
		var updated model.Branch
		env := decodeData(t, w, &updated)
		assert.Equal(t, "Branch updated successfully", env.Message)
		assert.Equal(t, "Nairobi", updated.Name)
		assert.Equal(t, "NBO", updated.Code)

		w = ts.do("DELETE", path, nil)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, fmt.Sprintf("Branch with ID %d deleted successfully.", branch.BranchID), decode(t, w).Message)

		w = ts.do("GET", path, nil)
		requireStatus(t, w, http.StatusNotFound)
	})
}
