package gorm

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a new mock database connection
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		_ = db.Close()
		t.Fatalf("failed to open gorm: %v", err)
	}

	m := &MockDB{DB: db, Mock: mock, GormDB: gormDB}
	t.Cleanup(func() { _ = m.DB.Close() })
	return m
}

// ExpectTenantQuery sets up expectation for a tenant lookup
func (m *MockDB) ExpectTenantQuery(id uint, orgCode, subDomain string) {
	rows := sqlmock.NewRows([]string{
		"tenant_id", "organization_code", "tenant_name", "sub_domain",
		"default_currency", "description", "status", "country_id",
	}).AddRow(id, orgCode, "Tenant "+orgCode, subDomain, "USD", "", "Active", 1)
	m.Mock.ExpectQuery(`SELECT \* FROM "tenant"`).WillReturnRows(rows)
}

// ExpectNotFound sets up expectation for an empty lookup on table
func (m *MockDB) ExpectNotFound(table string) {
	m.Mock.ExpectQuery(`SELECT \* FROM "` + table + `"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
}

// ExpectBranchLock sets up expectation for a branch row lock
func (m *MockDB) ExpectBranchLock(id, tenantID uint) {
	rows := sqlmock.NewRows([]string{"branch_id", "tenant_id", "country_id", "name", "description", "status", "code"}).
		AddRow(id, tenantID, 1, "Main", "", "Active", "MAIN")
	m.Mock.ExpectQuery(`SELECT \* FROM "branch" WHERE branch_id = \$1 .*FOR UPDATE`).WillReturnRows(rows)
}

// ExpectBeginCommit sets up expectation for transaction begin and commit
func (m *MockDB) ExpectBeginCommit() {
	m.Mock.ExpectBegin()
	m.Mock.ExpectCommit()
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet())
}
