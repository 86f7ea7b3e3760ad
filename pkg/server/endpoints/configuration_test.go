package endpoints

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

type configured struct {
	ts      *testServer
	tenant  *model.Tenant
	branch  *model.Branch
	product *model.Product
	modules []*model.Module
}

// setup links modules A, B and C to one product
func setup(t *testing.T) *configured {
	ts := newTestServer(t)
	c := ts.country("KE")
	tenant := ts.tenant("ACME", "acme", c.CountryID)
	f := &configured{
		ts:      ts,
		tenant:  tenant,
		branch:  ts.branch(tenant, "NBO"),
		product: ts.product("POS"),
	}
	for _, code := range []string{"A", "B", "C"} {
		m := ts.module(code)
		ts.link(f.product, m)
		f.modules = append(f.modules, m)
	}
	return f
}

func (f *configured) save(body interface{}) *httptest.ResponseRecorder {
	return f.ts.do("POST", "/api/config/save-product-modules", body)
}

func (f *configured) saveForm(contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/config/save-product-modules", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	f.ts.srv.Router.ServeHTTP(w, req)
	return w
}

func (f *configured) configuredIDs(t *testing.T) []uint {
	t.Helper()
	w := f.ts.do("GET", fmt.Sprintf("/api/branches/%d/products/%d/configured-modules", f.branch.BranchID, f.product.ProductID), nil)
	requireStatus(t, w, http.StatusOK)
	var modules []service.ConfiguredModule
	decodeData(t, w, &modules)
	ids := []uint{}
	for _, m := range modules {
		ids = append(ids, m.ModuleID)
	}
	return ids
}

type reconciliationData struct {
	Added   []uint `json:"added"`
	Removed []uint `json:"removed"`
}

func TestSaveProductModules(t *testing.T) {
	t.Run("reconciles from a JSON body", func(t *testing.T) {
		f := setup(t)
		a, b, c := f.modules[0], f.modules[1], f.modules[2]

		w := f.save(map[string]interface{}{
			"tenant_id":  f.tenant.TenantID,
			"branch_id":  f.branch.BranchID,
			"product_id": f.product.ProductID,
			"module_ids": []uint{a.ModuleID, b.ModuleID},
		})
		requireStatus(t, w, http.StatusOK)
		var data reconciliationData
		env := decodeData(t, w, &data)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "Module configuration updated successfully!", env.Message)
		assert.ElementsMatch(t, []uint{a.ModuleID, b.ModuleID}, data.Added)
		assert.Empty(t, data.Removed)

		w = f.save(map[string]interface{}{
			"tenant_id":  fmt.Sprint(f.tenant.TenantID),
			"branch_id":  fmt.Sprint(f.branch.BranchID),
			"product_id": fmt.Sprint(f.product.ProductID),
			"module_ids": []string{fmt.Sprint(b.ModuleID), fmt.Sprint(c.ModuleID)},
		})
		requireStatus(t, w, http.StatusOK)
		env = decodeData(t, w, &data)
		assert.Equal(t, []uint{c.ModuleID}, data.Added)
		assert.Equal(t, []uint{a.ModuleID}, data.Removed)
		assert.ElementsMatch(t, []uint{b.ModuleID, c.ModuleID}, f.configuredIDs(t))
	})

	t.Run("repeating a request reports info", func(t *testing.T) {
		f := setup(t)
		body := map[string]interface{}{
			"tenant_id":         f.tenant.TenantID,
			"branch_id":         f.branch.BranchID,
			"product_id":        f.product.ProductID,
			"module_ids_hidden": fmt.Sprint(f.modules[0].ModuleID),
		}
		requireStatus(t, f.save(body), http.StatusOK)

		w := f.save(body)
		requireStatus(t, w, http.StatusOK)
		env := decode(t, w)
		assert.Equal(t, "info", env.Status)
		assert.Equal(t, "No changes made to module configuration.", env.Message)
	})

	t.Run("accepts a urlencoded form and drops non-digit tokens", func(t *testing.T) {
		f := setup(t)
		a, c := f.modules[0], f.modules[2]

		form := url.Values{}
		form.Set("tenant_id", fmt.Sprint(f.tenant.TenantID))
		form.Set("branch_id", fmt.Sprint(f.branch.BranchID))
		form.Set("product_id", fmt.Sprint(f.product.ProductID))
		form.Set("module_ids_hidden", fmt.Sprintf("%d, x,,%d,-1", a.ModuleID, c.ModuleID))

		w := f.saveForm("application/x-www-form-urlencoded", bytes.NewBufferString(form.Encode()))
		requireStatus(t, w, http.StatusOK)
		assert.ElementsMatch(t, []uint{a.ModuleID, c.ModuleID}, f.configuredIDs(t))
	})

	t.Run("accepts a multipart form", func(t *testing.T) {
		f := setup(t)
		b := f.modules[1]

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("tenant_id", fmt.Sprint(f.tenant.TenantID)))
		require.NoError(t, mw.WriteField("branch_id", fmt.Sprint(f.branch.BranchID)))
		require.NoError(t, mw.WriteField("product_id", fmt.Sprint(f.product.ProductID)))
		require.NoError(t, mw.WriteField("module_ids_hidden", fmt.Sprint(b.ModuleID)))
		require.NoError(t, mw.Close())

		w := f.saveForm(mw.FormDataContentType(), &buf)
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, []uint{b.ModuleID}, f.configuredIDs(t))
	})

	t.Run("an empty hidden field clears the configuration", func(t *testing.T) {
		f := setup(t)
		body := map[string]interface{}{
			"tenant_id":  f.tenant.TenantID,
			"branch_id":  f.branch.BranchID,
			"product_id": f.product.ProductID,
			"module_ids": []uint{f.modules[0].ModuleID},
		}
		requireStatus(t, f.save(body), http.StatusOK)

		delete(body, "module_ids")
		body["module_ids_hidden"] = ""
		w := f.save(body)
		requireStatus(t, w, http.StatusOK)
		assert.Empty(t, f.configuredIDs(t))
	})

	t.Run("a numeric hidden field names one module", func(t *testing.T) {
		f := setup(t)
		a := f.modules[0]
		body := map[string]interface{}{
			"tenant_id":         f.tenant.TenantID,
			"branch_id":         f.branch.BranchID,
			"product_id":        f.product.ProductID,
			"module_ids_hidden": a.ModuleID,
		}
		requireStatus(t, f.save(body), http.StatusOK)
		assert.Equal(t, []uint{a.ModuleID}, f.configuredIDs(t))

		w := f.save(body)
		requireStatus(t, w, http.StatusOK)
		env := decode(t, w)
		assert.Equal(t, "info", env.Status)
		assert.Equal(t, []uint{a.ModuleID}, f.configuredIDs(t))
	})

	t.Run("the hidden field wins over module_ids", func(t *testing.T) {
		f := setup(t)
		a, b, c := f.modules[0], f.modules[1], f.modules[2]

		w := f.save(map[string]interface{}{
			"tenant_id":         f.tenant.TenantID,
			"branch_id":         f.branch.BranchID,
			"product_id":        f.product.ProductID,
			"module_ids_hidden": []uint{a.ModuleID, b.ModuleID},
			"module_ids":        []uint{c.ModuleID},
		})
		requireStatus(t, w, http.StatusOK)
		assert.ElementsMatch(t, []uint{a.ModuleID, b.ModuleID}, f.configuredIDs(t))

		w = f.save(map[string]interface{}{
			"tenant_id":         f.tenant.TenantID,
			"branch_id":         f.branch.BranchID,
			"product_id":        f.product.ProductID,
			"module_ids_hidden": fmt.Sprint(c.ModuleID),
			"module_ids":        []uint{a.ModuleID},
		})
		requireStatus(t, w, http.StatusOK)
		assert.Equal(t, []uint{c.ModuleID}, f.configuredIDs(t))
	})

	t.Run("rejects missing or invalid ids", func(t *testing.T) {
		f := setup(t)
		for name, body := range map[string]map[string]interface{}{
			"missing tenant": {"branch_id": f.branch.BranchID, "product_id": f.product.ProductID},
			"text branch":    {"tenant_id": f.tenant.TenantID, "branch_id": "main", "product_id": f.product.ProductID},
			"zero product":   {"tenant_id": f.tenant.TenantID, "branch_id": f.branch.BranchID, "product_id": 0},
			"fractional":     {"tenant_id": 1.5, "branch_id": f.branch.BranchID, "product_id": f.product.ProductID},
		} {
			w := f.save(body)
			requireStatus(t, w, http.StatusBadRequest)
			assert.Equal(t, "Missing or invalid Tenant, Branch, or Product ID format.", decode(t, w).Message, name)
		}
	})

	t.Run("the branch must belong to the tenant", func(t *testing.T) {
		f := setup(t)
		other := f.ts.tenant("OTHER", "other", f.tenant.CountryID)

		w := f.save(map[string]interface{}{
			"tenant_id":  other.TenantID,
			"branch_id":  f.branch.BranchID,
			"product_id": f.product.ProductID,
			"module_ids": []uint{f.modules[0].ModuleID},
		})
		requireStatus(t, w, http.StatusNotFound)
		assert.Empty(t, f.configuredIDs(t))
	})

	t.Run("a failed write rolls back and hides the cause", func(t *testing.T) {
		f := setup(t)
		f.ts.store.FailOn("CreateBranchProductModules", fmt.Errorf("disk full"))

		w := f.save(map[string]interface{}{
			"tenant_id":  f.tenant.TenantID,
			"branch_id":  f.branch.BranchID,
			"product_id": f.product.ProductID,
			"module_ids": []uint{f.modules[0].ModuleID},
		})
		requireStatus(t, w, http.StatusInternalServerError)
		env := decode(t, w)
		assert.Equal(t, "An internal server error occurred", env.Message)
		assert.False(t, strings.Contains(w.Body.String(), "disk full"))

		f.ts.store.FailOn("CreateBranchProductModules", nil)
		assert.Empty(t, f.configuredIDs(t))
	})
}

func TestModuleQueries(t *testing.T) {
	t.Run("lists modules with their configured state", func(t *testing.T) {
		f := setup(t)
		a := f.modules[0]
		requireStatus(t, f.save(map[string]interface{}{
			"tenant_id":  f.tenant.TenantID,
			"branch_id":  f.branch.BranchID,
			"product_id": f.product.ProductID,
			"module_ids": []uint{a.ModuleID},
		}), http.StatusOK)

		w := f.ts.do("GET", fmt.Sprintf("/api/products/%d/modules?branch_id=%d", f.product.ProductID, f.branch.BranchID), nil)
		requireStatus(t, w, http.StatusOK)
		var modules []service.AvailableModule
		decodeData(t, w, &modules)
		require.Len(t, modules, 3)
		for _, m := range modules {
			assert.Equal(t, m.ModuleID == a.ModuleID, m.IsConfigured, m.ModuleCode)
		}

		w = f.ts.do("GET", fmt.Sprintf("/api/products/%d/modules", f.product.ProductID), nil)
		requireStatus(t, w, http.StatusOK)
		decodeData(t, w, &modules)
		for _, m := range modules {
			assert.False(t, m.IsConfigured)
		}
	})

	t.Run("rejects a non-integer branch filter", func(t *testing.T) {
		f := setup(t)
		w := f.ts.do("GET", fmt.Sprintf("/api/products/%d/modules?branch_id=main", f.product.ProductID), nil)
		requireStatus(t, w, http.StatusBadRequest)
		assert.Equal(t, "branch_id must be an integer.", decode(t, w).Message)
	})

	t.Run("unknown products are 404", func(t *testing.T) {
		f := setup(t)
		w := f.ts.do("GET", "/api/products/999/modules", nil)
		requireStatus(t, w, http.StatusNotFound)

		w = f.ts.do("GET", fmt.Sprintf("/api/branches/%d/products/999/configured-modules", f.branch.BranchID), nil)
		requireStatus(t, w, http.StatusNotFound)
	})
}

func TestUnconfigureModule(t *testing.T) {
	f := setup(t)
	a, b := f.modules[0], f.modules[1]
	requireStatus(t, f.save(map[string]interface{}{
		"tenant_id":  f.tenant.TenantID,
		"branch_id":  f.branch.BranchID,
		"product_id": f.product.ProductID,
		"module_ids": []uint{a.ModuleID, b.ModuleID},
	}), http.StatusOK)

	path := fmt.Sprintf("/api/branches/%d/products/%d/modules/%d", f.branch.BranchID, f.product.ProductID, a.ModuleID)
	w := f.ts.do("DELETE", path, nil)
	requireStatus(t, w, http.StatusOK)
	env := decode(t, w)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, fmt.Sprintf("Module %d successfully unconfigured from Branch %d for Product %d.", a.ModuleID, f.branch.BranchID, f.product.ProductID), env.Message)
	assert.Equal(t, []uint{b.ModuleID}, f.configuredIDs(t))

	w = f.ts.do("DELETE", path, nil)
	requireStatus(t, w, http.StatusNotFound)
}
