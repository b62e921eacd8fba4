package testutil

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	dbsvc "github.com/yungbote/promptlib-backend/internal/data/db"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

var (
	dbOnce sync.Once
	db     *gorm.DB
	dbErr  error

	logOnce sync.Once
	logg    *logger.Logger
	logErr  error

	scopeSeq atomic.Int64
)

func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	logOnce.Do(func() {
		logg, logErr = logger.New("test")
	})
	if logErr != nil {
		tb.Fatalf("failed to init logger: %v", logErr)
	}
	return logg
}

// DB returns the shared test database: Postgres when TEST_POSTGRES_DSN is set, otherwise an
// in-memory SQLite database. The SQLite pool has a single connection, so a test holding Tx must
// not touch DB until the transaction ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dbOnce.Do(func() {
		if dsn := os.Getenv("TEST_POSTGRES_DSN"); dsn != "" {
			db, dbErr = gorm.Open(postgres.Open(dsn), &gorm.Config{
				Logger: gormLogger.Default.LogMode(gormLogger.Silent),
			})
		} else {
			var svc *dbsvc.SQLiteService
			svc, dbErr = dbsvc.OpenSQLite(logger.Nop(), "file:promptlib_test?mode=memory&cache=shared")
			if svc != nil {
				db = svc.DB().Session(&gorm.Session{Logger: gormLogger.Default.LogMode(gormLogger.Silent)})
			}
		}
		if dbErr != nil {
			return
		}
		dbErr = dbsvc.AutoMigrateAll(db)
	})

	if dbErr != nil {
		tb.Fatalf("failed to init test db: %v", dbErr)
	}
	return db
}

func Tx(tb testing.TB, db *gorm.DB) *gorm.DB {
	tb.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		tb.Fatalf("begin tx: %v", tx.Error)
	}
	tb.Cleanup(func() {
		_ = tx.Rollback().Error
	})
	return tx
}

// Scope returns an owner id no other test in this process (or a recent run against a shared
// Postgres) has used.
func Scope() int64 {
	base := time.Now().Unix() % 1_000_000 * 1_000
	return base + scopeSeq.Add(1)
}

func Name(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, scopeSeq.Add(1))
}
