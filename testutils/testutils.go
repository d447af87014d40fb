package testutils

import (
	"io"
	"log"
	"testing"

	"flixcrd-backend/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func silentLogger() logger.Interface {
	return logger.New(
		log.New(io.Discard, "", log.LstdFlags),
		logger.Config{
			LogLevel: logger.Silent,
		},
	)
}

// SetupTestDB returns a gorm handle on the postgres dialector backed by sqlmock.
func SetupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("creating sqlmock connection: %s", err)
	}

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger: silentLogger(),
	})
	if err != nil {
		t.Fatalf("opening gorm on sqlmock: %s", err)
	}

	originalDB := db.DB
	db.DB = gormDB

	cleanup := func() {
		db.DB = originalDB
		sqlDB.Close()
	}

	return gormDB, mock, cleanup
}

// SetupSQLiteDB returns a migrated in-memory database private to the test.
// The pool is pinned to one connection so every goroutine sees the same
// memory database and transactions serialize like row locks would.
func SetupSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: silentLogger(),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %s", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %s", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrating sqlite: %s", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})
	return gormDB
}

func SetupTestRouter() *gin.Engine {
	r := gin.New()
	return r
}

func InitTestMain() {
	gin.SetMode(gin.TestMode)
}
