package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createMerchantTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE merchants (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createCustomerTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE customers (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}

func createTokenTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tokens (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		type TEXT NOT NULL,
		public_value TEXT NOT NULL,
		status TEXT NOT NULL,
		issued_at DATETIME NOT NULL,
		revoked_at DATETIME,
		UNIQUE (merchant_id, public_value)
	);`)
}

func createRuleVersionTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE rule_versions (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		points_per_unit NUMERIC NOT NULL,
		rounding TEXT NOT NULL,
		promo_multiplier NUMERIC NOT NULL,
		effective_from DATETIME NOT NULL,
		created_at DATETIME,
		UNIQUE (merchant_id, version)
	);`)
}

func createLedgerEntryTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE ledger_entries (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		type TEXT NOT NULL,
		points_delta INTEGER NOT NULL,
		source TEXT NOT NULL,
		external_id TEXT,
		rule_version_id TEXT,
		idempotency_key TEXT NOT NULL,
		created_at DATETIME,
		UNIQUE (merchant_id, idempotency_key)
	);`)
}

func createRewardTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE rewards (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		points_cost INTEGER NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE redemptions (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		reward_id TEXT NOT NULL,
		ledger_entry_id TEXT NOT NULL UNIQUE,
		points_cost INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAuditLogTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		actor_id TEXT,
		action TEXT NOT NULL,
		target_type TEXT NOT NULL,
		target_id TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME
	);`)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at DATETIME,
		updated_at DATETIME,
		deleted_at DATETIME
	);`)
}
