package service

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func names(states []FeatureState) []string {
	out := []string{}
	for _, s := range states {
		out = append(out, s.Name)
	}
	return out
}

func featureTenant(h *harness) (*model.Tenant, map[string]*model.Feature) {
	h.t.Helper()
	us := h.country("US")
	tenant := h.tenant("ACME", "acme", us.CountryID)
	features := map[string]*model.Feature{}
	for _, name := range []string{"gamma", "Alpha", "beta"} {
		features[name] = h.feature(name)
	}
	return tenant, features
}

func TestTenantFeatureService_DefaultsToEnabled(t *testing.T) {
	h := newHarness(t)
	tenant, _ := featureTenant(h)

	status, err := h.svc.TenantFeatures.FeatureStatus(h.ctx, tenant.TenantID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, names(status.EnabledFeatures))
	assert.NotNil(t, status.DisabledFeatures)
	assert.Empty(t, status.DisabledFeatures)

	_, err = h.svc.TenantFeatures.FeatureStatus(h.ctx, 404)
	e := serviceError(t, err, store.ErrNotFound)
	assert.Equal(t, "Tenant with ID 404 not found.", e.Message)
}

func TestTenantFeatureService_Reconcile(t *testing.T) {
	h := newHarness(t)
	tenant, f := featureTenant(h)
	alpha, beta, gamma := f["Alpha"].FeatureID, f["beta"].FeatureID, f["gamma"].FeatureID

	result, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, tenant.TenantID, []uint{alpha}, []uint{beta, beta})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, "Feature configurations updated successfully for Tenant ID 1!", result.Message)
	assert.Equal(t, []uint{alpha}, result.Enabled)
	assert.Equal(t, []uint{beta}, result.Disabled)

	status, err := h.svc.TenantFeatures.FeatureStatus(h.ctx, tenant.TenantID)
	require.NoError(t, err)
	want := &FeatureStatus{
		EnabledFeatures:  []FeatureState{{ID: alpha, Name: "Alpha"}, {ID: gamma, Name: "gamma"}},
		DisabledFeatures: []FeatureState{{ID: beta, Name: "beta"}},
	}
	if diff := cmp.Diff(want, status); diff != "" {
		t.Errorf("feature status mismatch (-want +got):\n%s", diff)
	}

	event, ok := h.lastEvent().(audit.FeatureConfigurationEvent)
	require.True(t, ok)
	assert.True(t, event.Success)
	assert.Equal(t, []uint{alpha}, event.Enabled)

	t.Run("repeating the request changes nothing", func(t *testing.T) {
		result, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, tenant.TenantID, []uint{alpha}, []uint{beta})
		require.NoError(t, err)
		assert.Equal(t, StatusInfo, result.Status)
		assert.Equal(t, "No changes required or made for Tenant ID 1.", result.Message)
		assert.Empty(t, result.Enabled)
		assert.Empty(t, result.Disabled)
	})

	t.Run("re-enabling flips the stored row", func(t *testing.T) {
		result, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, tenant.TenantID, []uint{beta}, nil)
		require.NoError(t, err)
		assert.Equal(t, []uint{beta}, result.Enabled)

		overrides, err := h.store.ListTenantFeatures(h.ctx, tenant.TenantID)
		require.NoError(t, err)
		assert.Len(t, overrides, 2)
		for _, o := range overrides {
			assert.True(t, o.IsEnabled)
			require.NotNil(t, o.ModifiedOn)
			assert.Equal(t, fixedNow, *o.ModifiedOn)
		}
	})
}

func TestTenantFeatureService_ReconcileRejects(t *testing.T) {
	h := newHarness(t)
	tenant, f := featureTenant(h)
	alpha, beta := f["Alpha"].FeatureID, f["beta"].FeatureID

	t.Run("overlapping lists", func(t *testing.T) {
		_, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, tenant.TenantID, []uint{alpha, beta}, []uint{beta, alpha})
		e := serviceError(t, err, ErrValidation)
		assert.Equal(t, "Feature IDs cannot be both enabled and disabled: 2, 3.", e.Message)
	})

	t.Run("unknown features write nothing", func(t *testing.T) {
		_, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, tenant.TenantID, []uint{alpha, 40}, []uint{41})
		e := serviceError(t, err, store.ErrNotFound)
		assert.Equal(t, "Feature(s) with ID(s) 40, 41 not found.", e.Message)

		overrides, err := h.store.ListTenantFeatures(h.ctx, tenant.TenantID)
		require.NoError(t, err)
		assert.Empty(t, overrides)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, 404, []uint{alpha}, nil)
		serviceError(t, err, store.ErrNotFound)
	})

	t.Run("store failure rolls back", func(t *testing.T) {
		boom := errors.New("disk full")
		h.store.FailOn("UpsertTenantFeatures", boom)
		defer h.store.FailOn("UpsertTenantFeatures", nil)

		_, err := h.svc.TenantFeatures.ReconcileFeatures(h.ctx, tenant.TenantID, nil, []uint{alpha})
		assert.ErrorIs(t, err, boom)

		event, ok := h.lastEvent().(audit.FeatureConfigurationEvent)
		require.True(t, ok)
		assert.False(t, event.Success)
	})
}
