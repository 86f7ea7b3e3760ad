package memory

import (
	"context"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func (s *Store) ListConfiguredModules(ctx context.Context, branchID, productID uint) ([]store.ConfiguredModule, error) {
	if err := s.lock("ListConfiguredModules"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	var configured []store.ConfiguredModule
	for _, bpm := range values(s.data.bpms, func(b model.BranchProductModule) bool { return b.BranchID == branchID }) {
		pm, ok := s.data.productModules[bpm.ProductModuleID]
		if !ok || pm.ProductID != productID {
			continue
		}
		configured = append(configured, store.ConfiguredModule{
			BranchProductModuleID: bpm.ID,
			ProductModuleID:       pm.ProductModuleID,
			ModuleID:              pm.ModuleID,
			ModuleName:            s.data.modules[pm.ModuleID].Name,
		})
	}
	return configured, nil
}

// CreateBranchProductModules inserts all rows or none.
func (s *Store) CreateBranchProductModules(ctx context.Context, rows []model.BranchProductModule) error {
	if err := s.lockWrite("CreateBranchProductModules"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	seen := map[[2]uint]bool{}
	for _, bpm := range s.data.bpms {
		seen[[2]uint{bpm.BranchID, bpm.ProductModuleID}] = true
	}
	for _, row := range rows {
		if _, ok := s.data.branches[row.BranchID]; !ok {
			return missingReference("branch product module", "branch_product_module_branch_id_fkey")
		}
		if _, ok := s.data.productModules[row.ProductModuleID]; !ok {
			return missingReference("branch product module", "branch_product_module_product_module_id_fkey")
		}
		key := [2]uint{row.BranchID, row.ProductModuleID}
		if seen[key] {
			return duplicate("branch product module", "uq_branch_product_module")
		}
		seen[key] = true
	}
	for i := range rows {
		rows[i].ID = s.data.nextID("branch_product_module")
		s.data.bpms[rows[i].ID] = rows[i]
	}
	return nil
}

func (s *Store) DeleteBranchProductModules(ctx context.Context, branchID uint, productModuleIDs []uint) (int64, error) {
	if err := s.lockWrite("DeleteBranchProductModules"); err != nil {
		return 0, err
	}
	defer s.mu.Unlock()
	remove := make(map[uint]bool, len(productModuleIDs))
	for _, id := range productModuleIDs {
		remove[id] = true
	}
	var n int64
	for id, bpm := range s.data.bpms {
		if bpm.BranchID == branchID && remove[bpm.ProductModuleID] {
			delete(s.data.bpms, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) ListTenantFeatures(ctx context.Context, tenantID uint) ([]model.TenantFeature, error) {
	if err := s.lock("ListTenantFeatures"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return values(s.data.tenantFeatures, func(tf model.TenantFeature) bool { return tf.TenantID == tenantID }), nil
}

// UpsertTenantFeatures keeps created_on of existing rows and replaces
// is_enabled and modified_on.
func (s *Store) UpsertTenantFeatures(ctx context.Context, rows []model.TenantFeature) error {
	if err := s.lockWrite("UpsertTenantFeatures"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	for _, row := range rows {
		if _, ok := s.data.tenants[row.TenantID]; !ok {
			return missingReference("tenant feature", "tenant_feature_tenant_id_fkey")
		}
		if _, ok := s.data.features[row.FeatureID]; !ok {
			return missingReference("tenant feature", "tenant_feature_feature_id_fkey")
		}
	}
	for i, row := range rows {
		existing := values(s.data.tenantFeatures, func(tf model.TenantFeature) bool {
			return tf.TenantID == row.TenantID && tf.FeatureID == row.FeatureID
		})
		if len(existing) > 0 {
			tf := existing[0]
			tf.IsEnabled = row.IsEnabled
			tf.ModifiedOn = row.ModifiedOn
			s.data.tenantFeatures[tf.TenantFeatureID] = tf
			rows[i].TenantFeatureID = tf.TenantFeatureID
			continue
		}
		rows[i].TenantFeatureID = s.data.nextID("tenant_feature")
		s.data.tenantFeatures[rows[i].TenantFeatureID] = rows[i]
	}
	return nil
}
