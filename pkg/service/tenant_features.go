package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/metrics"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// FeatureState names one feature in a tenant's feature status
type FeatureState struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// FeatureStatus splits the feature catalog by its effective state for a
// tenant
type FeatureStatus struct {
	EnabledFeatures  []FeatureState `json:"enabled_features"`
	DisabledFeatures []FeatureState `json:"disabled_features"`
}

// FeatureReconciliation reports which overrides a reconciliation wrote
type FeatureReconciliation struct {
	Result
	Enabled  []uint `json:"enabled"`
	Disabled []uint `json:"disabled"`
}

// TenantFeatureService manages per-tenant feature overrides. A feature
// without an override row is enabled.
type TenantFeatureService struct{ *base }

// FeatureStatus reports every feature as enabled or disabled for tenantID,
// each list sorted by case-insensitive name
func (s *TenantFeatureService) FeatureStatus(ctx context.Context, tenantID uint) (*FeatureStatus, error) {
	if _, err := s.store.GetTenant(ctx, tenantID); err != nil {
		return nil, translate(err, "Tenant", tenantID)
	}

	features, err := s.store.ListFeatures(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := s.store.ListTenantFeatures(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	enabled := make(map[uint]bool, len(overrides))
	for _, o := range overrides {
		enabled[o.FeatureID] = o.IsEnabled
	}

	status := &FeatureStatus{
		EnabledFeatures:  []FeatureState{},
		DisabledFeatures: []FeatureState{},
	}
	for _, f := range features {
		state := FeatureState{ID: f.FeatureID, Name: f.Name}
		if on, ok := enabled[f.FeatureID]; !ok || on {
			status.EnabledFeatures = append(status.EnabledFeatures, state)
		} else {
			status.DisabledFeatures = append(status.DisabledFeatures, state)
		}
	}
	byName := func(list []FeatureState) {
		sort.SliceStable(list, func(i, j int) bool {
			return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
		})
	}
	byName(status.EnabledFeatures)
	byName(status.DisabledFeatures)
	return status, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func formatIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}

// ReconcileFeatures writes explicit overrides for the features in enable
// and disable whose stored state differs. Features in neither list are
// left alone. The tenant row stays locked for the whole transaction.
func (s *TenantFeatureService) ReconcileFeatures(ctx context.Context, tenantID uint, enable, disable []uint) (*FeatureReconciliation, error) {
	enable, disable = dedupe(enable), dedupe(disable)

	inEnable := make(map[uint]bool, len(enable))
	for _, id := range enable {
		inEnable[id] = true
	}
	var both []uint
	for _, id := range disable {
		if inEnable[id] {
			both = append(both, id)
		}
	}
	if len(both) > 0 {
		sort.Slice(both, func(i, j int) bool { return both[i] < both[j] })
		msg := fmt.Sprintf("Feature IDs cannot be both enabled and disabled: %s.", formatIDs(both))
		return nil, &Error{
			Kind:    ErrValidation,
			Message: msg,
			Details: map[string]string{"enabled_feature_ids": msg, "disabled_feature_ids": msg},
		}
	}

	var enabled, disabled []uint
	err := s.store.Transaction(ctx, func(tx store.Store) error {
		if _, err := tx.LockTenant(ctx, tenantID); err != nil {
			return translate(err, "Tenant", tenantID)
		}

		all := append(append([]uint{}, enable...), disable...)
		if len(all) > 0 {
			found, err := tx.ListFeaturesByIDs(ctx, all)
			if err != nil {
				return err
			}
			present := make(map[uint]bool, len(found))
			for _, f := range found {
				present[f.FeatureID] = true
			}
			var missing []uint
			for _, id := range all {
				if !present[id] {
					missing = append(missing, id)
				}
			}
			if len(missing) > 0 {
				return &Error{
					Kind:    store.ErrNotFound,
					Message: fmt.Sprintf("Feature(s) with ID(s) %s not found.", formatIDs(missing)),
				}
			}
		}

		overrides, err := tx.ListTenantFeatures(ctx, tenantID)
		if err != nil {
			return err
		}
		stored := make(map[uint]bool, len(overrides))
		hasRow := make(map[uint]bool, len(overrides))
		for _, o := range overrides {
			stored[o.FeatureID] = o.IsEnabled
			hasRow[o.FeatureID] = true
		}

		now := s.now()
		var rows []model.TenantFeature
		write := func(id uint, on bool) {
			rows = append(rows, model.TenantFeature{
				TenantID:   tenantID,
				FeatureID:  id,
				IsEnabled:  on,
				CreatedOn:  now,
				ModifiedOn: &now,
			})
		}
		for _, id := range enable {
			if !hasRow[id] || !stored[id] {
				write(id, true)
				enabled = append(enabled, id)
			}
		}
		for _, id := range disable {
			if !hasRow[id] || stored[id] {
				write(id, false)
				disabled = append(disabled, id)
			}
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.UpsertTenantFeatures(ctx, rows)
	})

	event := audit.FeatureConfigurationEvent{
		Actor:    ActorFromContext(ctx),
		TenantID: tenantID,
		Success:  err == nil,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		s.audit(event)
		s.observe(metrics.KindFeatures, "error", nil)
		return nil, err
	}

	result := &FeatureReconciliation{
		Result: Result{
			Status:  StatusInfo,
			Message: fmt.Sprintf("No changes required or made for Tenant ID %d.", tenantID),
		},
		Enabled:  nonNil(enabled),
		Disabled: nonNil(disabled),
	}
	if len(enabled) > 0 || len(disabled) > 0 {
		result.Result = Result{
			Status:  StatusSuccess,
			Message: fmt.Sprintf("Feature configurations updated successfully for Tenant ID %d!", tenantID),
		}
	}

	event.Enabled, event.Disabled = enabled, disabled
	s.audit(event)
	s.observe(metrics.KindFeatures, result.Status, map[string]int{"enable": len(enabled), "disable": len(disabled)})
	return result, nil
}
