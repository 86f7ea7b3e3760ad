package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func TestProductService_ParentReferences(t *testing.T) {
	h := newHarness(t)
	parent := h.product("PARENT")

	child, err := h.svc.Products.Create(h.ctx, ProductInput{
		Name:            str("Child"),
		Code:            str("CHILD"),
		ParentProductID: num(int(parent.ProductID)),
		ProductTagID:    num(0),
	})
	require.NoError(t, err)
	require.NotNil(t, child.ParentProductID)
	assert.Equal(t, parent.ProductID, *child.ParentProductID)
	assert.Nil(t, child.ProductTagID)

	t.Run("unknown parent", func(t *testing.T) {
		_, err := h.svc.Products.Create(h.ctx, ProductInput{Name: str("X"), Code: str("X"), ParentProductID: num(42)})
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "Parent product with ID 42 does not exist.", e.Message)
	})

	t.Run("own id as parent is ignored on update", func(t *testing.T) {
		updated, err := h.svc.Products.Update(h.ctx, child.ProductID, ProductInput{
			ParentProductID: num(int(child.ProductID)),
			Description:     str("self parented"),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.ParentProductID)
		assert.Equal(t, parent.ProductID, *updated.ParentProductID)
		assert.Equal(t, "self parented", updated.Description)
	})

	t.Run("zero clears the parent", func(t *testing.T) {
		updated, err := h.svc.Products.Update(h.ctx, child.ProductID, ProductInput{ParentProductID: num(0)})
		require.NoError(t, err)
		assert.Nil(t, updated.ParentProductID)
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := h.svc.Products.Update(h.ctx, child.ProductID, ProductInput{Code: str("PARENT")})
		e := serviceError(t, err, store.ErrDuplicate)
		assert.Equal(t, "Product with code 'PARENT' already exists.", e.Message)
	})
}

func TestProductService_FileFormats(t *testing.T) {
	h := newHarness(t)
	formats := model.FileFormats{"csv", "xlsx"}

	p, err := h.svc.Products.Create(h.ctx, ProductInput{
		Name:                 str("Importer"),
		Code:                 str("IMP"),
		IsInbound:            func(b bool) *bool { return &b }(true),
		SupportedFileFormats: &formats,
	})
	require.NoError(t, err)

	got, err := h.svc.Products.Get(h.ctx, p.ProductID)
	require.NoError(t, err)
	assert.True(t, got.IsInbound)
	assert.Equal(t, formats, got.SupportedFileFormats)
}

func TestModuleService(t *testing.T) {
	h := newHarness(t)
	pay := h.module("PAY")
	assert.Equal(t, DefaultCreatedBy, pay.CreatedBy)

	t.Run("name and code are unique", func(t *testing.T) {
		_, err := h.svc.Modules.Create(h.ctx, ModuleInput{Name: str("Module PAY"), Code: str("OTHER")})
		e := serviceError(t, err, store.ErrDuplicate)
		assert.Equal(t, "Module with name 'Module PAY' already exists.", e.Message)

		_, err = h.svc.Modules.Create(h.ctx, ModuleInput{Name: str("Other"), Code: str("PAY")})
		e = serviceError(t, err, store.ErrDuplicate)
		assert.Equal(t, "Module with code 'PAY' already exists.", e.Message)
	})

	t.Run("dependent modules as JSON text", func(t *testing.T) {
		raw := json.RawMessage(`"[1, 2]"`)
		m, err := h.svc.Modules.Create(h.ctx, ModuleInput{Name: str("Ledger"), Code: str("LED"), DependentModules: &raw})
		require.NoError(t, err)
		assert.JSONEq(t, `[1, 2]`, string(m.DependentModules))
	})

	t.Run("dependent modules as a JSON value", func(t *testing.T) {
		raw := json.RawMessage(`{"requires": ["PAY"]}`)
		m, err := h.svc.Modules.Create(h.ctx, ModuleInput{Name: str("Billing"), Code: str("BIL"), DependentModules: &raw})
		require.NoError(t, err)
		assert.JSONEq(t, `{"requires": ["PAY"]}`, string(m.DependentModules))
	})

	t.Run("dependent modules must hold JSON", func(t *testing.T) {
		raw := json.RawMessage(`"not json"`)
		_, err := h.svc.Modules.Create(h.ctx, ModuleInput{Name: str("Broken"), Code: str("BRK"), DependentModules: &raw})
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "dependent_modules", e.Field)
	})
}

func TestFeatureService(t *testing.T) {
	h := newHarness(t)
	pay := h.module("PAY")

	f, err := h.svc.Features.Create(h.ctx, FeatureInput{
		Name:     str("Refunds"),
		Code:     str("  "),
		ModuleID: num(int(pay.ModuleID)),
	})
	require.NoError(t, err)
	assert.Nil(t, f.Code)
	require.NotNil(t, f.ModuleID)
	assert.Equal(t, pay.ModuleID, *f.ModuleID)

	t.Run("blank codes do not collide", func(t *testing.T) {
		_, err := h.svc.Features.Create(h.ctx, FeatureInput{Name: str("Chargebacks"), Code: str("")})
		require.NoError(t, err)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := h.svc.Features.Create(h.ctx, FeatureInput{Name: str("Refunds")})
		e := serviceError(t, err, store.ErrDuplicate)
		assert.Equal(t, "Feature with name 'Refunds' already exists.", e.Message)
	})

	t.Run("unknown module", func(t *testing.T) {
		_, err := h.svc.Features.Create(h.ctx, FeatureInput{Name: str("Orphan"), ModuleID: num(77)})
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "Module with ID 77 does not exist.", e.Message)
	})
}

func TestProductModuleService(t *testing.T) {
	h := newHarness(t)
	core := h.product("CORE")
	pay := h.module("PAY")
	h.link(core, pay)

	_, err := h.svc.ProductModules.Create(h.ctx, ProductModuleInput{
		ProductID: num(int(core.ProductID)),
		ModuleID:  num(int(pay.ModuleID)),
	})
	e := serviceError(t, err, store.ErrDuplicate)
	assert.Equal(t, duplicateProductModule, e.Message)

	_, err = h.svc.ProductModules.Create(h.ctx, ProductModuleInput{
		ProductID: num(99),
		ModuleID:  num(int(pay.ModuleID)),
	})
	e = serviceError(t, err, store.ErrNotFound)
	assert.Equal(t, "Product with ID 99 not found.", e.Message)

	_, err = h.svc.ProductModules.Create(h.ctx, ProductModuleInput{ProductID: num(-1)})
	e = serviceError(t, err, ErrValidation)
	assert.Equal(t, "Missing fields: module_id", e.Message)
	assert.Equal(t, "Must be a positive integer.", e.Details["product_id"])
}

func TestProductTagService(t *testing.T) {
	h := newHarness(t)
	tag, err := h.svc.ProductTags.Create(h.ctx, ProductTagInput{Code: str("FIN"), Name: str("Finance"), Sequence: num(1)})
	require.NoError(t, err)

	_, err = h.svc.ProductTags.Create(h.ctx, ProductTagInput{Code: str("FIN"), Name: str("Other")})
	serviceError(t, err, store.ErrDuplicate)

	_, err = h.svc.ProductTags.Create(h.ctx, ProductTagInput{Code: str("OPS"), Name: str("Finance")})
	serviceError(t, err, store.ErrDuplicate)

	p, err := h.svc.Products.Create(h.ctx, ProductInput{Name: str("Tagged"), Code: str("TAG"), ProductTagID: num(int(tag.ProductTagID))})
	require.NoError(t, err)

	require.NoError(t, h.svc.ProductTags.Delete(h.ctx, tag.ProductTagID))
	got, err := h.svc.Products.Get(h.ctx, p.ProductID)
	require.NoError(t, err)
	assert.Nil(t, got.ProductTagID)
}
