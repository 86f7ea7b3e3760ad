package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func TestTenantsStore_GetTenantByKey(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)
	ctx := context.Background()

	m.ExpectTenantQuery(7, "ACME", "acme")
	tenant, err := s.GetTenantByKey(ctx, model.TenantKey{TenantID: 7, OrganizationCode: "ACME", SubDomain: "acme"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), tenant.TenantID)
	assert.Equal(t, model.StatusActive, tenant.Status)

	m.ExpectNotFound("tenant")
	_, err = s.GetTenantByKey(ctx, model.TenantKey{TenantID: 8, OrganizationCode: "X", SubDomain: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	var nf *store.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "tenant", nf.Entity)

	m.VerifyExpectations(t)
}

func TestTenantsStore_CreateTenant(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "tenant"`).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow(12))
	m.Mock.ExpectCommit()

	tenant := &model.Tenant{OrganizationCode: "ACME", SubDomain: "acme", DefaultCurrency: "USD", CountryID: 1}
	require.NoError(t, s.CreateTenant(context.Background(), tenant))
	assert.Equal(t, uint(12), tenant.TenantID)
	m.VerifyExpectations(t)
}

func TestTenantsStore_CreateTenantDuplicate(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "tenant"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tenant_organization_code_key"})
	m.Mock.ExpectRollback()

	err := s.CreateTenant(context.Background(), &model.Tenant{OrganizationCode: "ACME"})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	var dup *store.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "tenant_organization_code_key", dup.Constraint)
	m.VerifyExpectations(t)
}

func TestTenantsStore_UpdateTenantMissing(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`UPDATE "tenant" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	m.Mock.ExpectCommit()

	err := s.UpdateTenant(context.Background(), &model.Tenant{TenantID: 99})
	assert.ErrorIs(t, err, store.ErrNotFound)
	m.VerifyExpectations(t)
}

func TestBranchesStore_LockBranch(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.ExpectBranchLock(3, 1)
	branch, err := s.LockBranch(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "MAIN", branch.Code)
	m.VerifyExpectations(t)
}

func TestBranchesStore_DeleteBranch(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`DELETE FROM "branch" WHERE "branch"."branch_id" = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	m.Mock.ExpectCommit()
	require.NoError(t, s.DeleteBranch(context.Background(), 3))

	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`DELETE FROM "branch"`).WillReturnResult(sqlmock.NewResult(0, 0))
	m.Mock.ExpectCommit()
	assert.ErrorIs(t, s.DeleteBranch(context.Background(), 4), store.ErrNotFound)

	m.VerifyExpectations(t)
}

func TestProductTagsStore_DeleteReferenced(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`DELETE FROM "product_tag"`).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "product_product_tag_id_fkey"})
	m.Mock.ExpectRollback()

	err := s.DeleteProductTag(context.Background(), 1)
	assert.ErrorIs(t, err, store.ErrReferenced)
	m.VerifyExpectations(t)
}

func TestProductModulesStore_ListModulesForProduct(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	rows := sqlmock.NewRows([]string{"product_module_id", "module_id", "module_name", "module_code"}).
		AddRow(10, 2, "Payments", "PAY").
		AddRow(11, 1, "Ledger", "LED")
	m.Mock.ExpectQuery(`SELECT pm.product_module_id, pm.module_id, .* FROM product_module AS pm JOIN module m`).
		WithArgs(5).
		WillReturnRows(rows)

	linked, err := s.ListModulesForProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []store.LinkedModule{
		{ProductModuleID: 10, ModuleID: 2, ModuleName: "Payments", ModuleCode: "PAY"},
		{ProductModuleID: 11, ModuleID: 1, ModuleName: "Ledger", ModuleCode: "LED"},
	}, linked)
	m.VerifyExpectations(t)
}

func TestConfigurationStore_ListConfiguredModules(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	rows := sqlmock.NewRows([]string{"branch_product_module_id", "product_module_id", "module_id", "module_name"}).
		AddRow(100, 10, 2, "Payments")
	m.Mock.ExpectQuery(`FROM branch_product_module AS bpm JOIN product_module pm .* JOIN module m`).
		WithArgs(3, 5).
		WillReturnRows(rows)

	configured, err := s.ListConfiguredModules(context.Background(), 3, 5)
	require.NoError(t, err)
	require.Len(t, configured, 1)
	assert.Equal(t, uint(10), configured[0].ProductModuleID)
	assert.Equal(t, "Payments", configured[0].ModuleName)
	m.VerifyExpectations(t)
}

func TestConfigurationStore_DeleteBranchProductModules(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	n, err := s.DeleteBranchProductModules(context.Background(), 3, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	m.Mock.ExpectBegin()
	m.Mock.ExpectExec(`DELETE FROM "branch_product_module" WHERE branch_id = \$1 AND product_module_id IN \(\$2,\$3\)`).
		WithArgs(3, 10, 11).
		WillReturnResult(sqlmock.NewResult(0, 2))
	m.Mock.ExpectCommit()

	n, err = s.DeleteBranchProductModules(context.Background(), 3, []uint{10, 11})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	m.VerifyExpectations(t)
}

func TestTenantFeaturesStore_Upsert(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)
	now := time.Now()

	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "tenant_feature" .* ON CONFLICT \("tenant_id","feature_id"\) DO UPDATE SET "is_enabled"="excluded"."is_enabled","modified_on"="excluded"."modified_on"`).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_feature_id"}).AddRow(1).AddRow(2))
	m.Mock.ExpectCommit()

	err := s.UpsertTenantFeatures(context.Background(), []model.TenantFeature{
		{TenantID: 1, FeatureID: 1, IsEnabled: true, CreatedOn: now, ModifiedOn: &now},
		{TenantID: 1, FeatureID: 2, IsEnabled: false, CreatedOn: now, ModifiedOn: &now},
	})
	require.NoError(t, err)
	m.VerifyExpectations(t)
}

func TestStore_TransactionRollsBack(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)
	boom := errors.New("boom")

	m.Mock.ExpectBegin()
	m.ExpectBranchLock(3, 1)
	m.Mock.ExpectRollback()

	err := s.Transaction(context.Background(), func(tx store.Store) error {
		if _, err := tx.LockBranch(context.Background(), 3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	m.VerifyExpectations(t)
}

func TestStore_TransactionCommits(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectBegin()
	m.Mock.ExpectQuery(`INSERT INTO "branch_product_module"`).
		WillReturnRows(sqlmock.NewRows([]string{"tenant_product_module"}).AddRow(1))
	m.Mock.ExpectCommit()

	err := s.Transaction(context.Background(), func(tx store.Store) error {
		return tx.CreateBranchProductModules(context.Background(), []model.BranchProductModule{
			{BranchID: 3, ProductModuleID: 10, CreatedBy: "System", CreatedAt: time.Now(), EligibilityConfig: model.EmptyEligibilityConfig()},
		})
	})
	require.NoError(t, err)
	m.VerifyExpectations(t)
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	m := NewMockDB(t)
	s := NewStore(m.GormDB)

	m.Mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity(context.Background()))

	m.Mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("connection refused"))
	assert.Error(t, s.CheckConnectivity(context.Background()))
	m.VerifyExpectations(t)
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError("tenant", 1, nil))

	err := translateError("tenant", 1, errors.New("driver: bad connection"))
	assert.NotErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, err.Error(), "tenant")

	err = translateError("product", 1, &pgconn.PgError{Code: "23514", ConstraintName: "chk_product_not_own_parent"})
	assert.Contains(t, err.Error(), "chk_product_not_own_parent")
}
