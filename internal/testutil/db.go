// Package testutil provides an in-memory database and fixture builders for
// repository, service and handler tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/database"
)

var dbSeq atomic.Int64

// NewDB opens a fresh, migrated in-memory SQLite database. A single pooled
// connection keeps the shared-cache database alive and serialises writers,
// so concurrent tests exercise the same locking path as production.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:salon_test_%d_%d?mode=memory&cache=shared&_foreign_keys=1",
		time.Now().UnixNano(), dbSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))
	return db
}

// Jakarta returns the business location used across tests
func Jakarta(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return loc
}

func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func CreateBranch(t *testing.T, db *gorm.DB, code string) *entity.Branch {
	t.Helper()
	b := &entity.Branch{Name: "Branch " + code, Code: code}
	require.NoError(t, db.Create(b).Error)
	return b
}

func CreateService(t *testing.T, db *gorm.DB, name, regular, afterHours string) *entity.Service {
	t.Helper()
	s := &entity.Service{
		Name:              name,
		RegularPercent:    Dec(regular),
		AfterHoursPercent: Dec(afterHours),
		Category:          "hair",
	}
	require.NoError(t, db.Create(s).Error)
	return s
}

func CreateEmployee(t *testing.T, db *gorm.DB, name string, branchID uuid.UUID) *entity.Employee {
	t.Helper()
	e := &entity.Employee{Name: name, BranchID: branchID}
	require.NoError(t, db.Omit("DailyCommission", "MonthlyCommission").Create(e).Error)
	return e
}

func CreateMember(t *testing.T, db *gorm.DB, name, phone string, branchID uuid.UUID) *entity.Member {
	t.Helper()
	m := &entity.Member{
		Name:         name,
		Phone:        phone,
		BranchID:     branchID,
		RegisteredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// ReloadEmployee reads the employee's current accumulators
func ReloadEmployee(t *testing.T, db *gorm.DB, id uuid.UUID) *entity.Employee {
	t.Helper()
	var e entity.Employee
	require.NoError(t, db.First(&e, "id = ?", id).Error)
	return &e
}

// SetAccumulators writes both accumulators directly
func SetAccumulators(t *testing.T, db *gorm.DB, id uuid.UUID, daily, monthly string) {
	t.Helper()
	require.NoError(t, db.Model(&entity.Employee{}).Where("id = ?", id).Updates(map[string]interface{}{
		"daily_commission":   Dec(daily),
		"monthly_commission": Dec(monthly),
	}).Error)
}
