package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite3  = "sqlite3"
)

const (
	maxOpenConns = 300
	maxIdleConns = 100
	connMaxLife  = time.Minute * 15
)

func migrationDriver(db *sql.DB, driverName string) (database.Driver, error) {
	switch driverName {
	case DriverPostgres:
		return postgres.WithInstance(db, &postgres.Config{})
	case DriverSqlite3:
		return sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driverName)
	}
}

func MustMigrate(db *sql.DB, driverName, migrationDir string) {
	driver, err := migrationDriver(db, driverName)
	if err != nil {
		panic(err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationDir, driverName, driver)
	if err != nil {
		panic(err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		panic(err)
	}
	if dirty {
		panic("database is dirty")
	}
	log.Info().Uint("version", version).Str("driver", driverName).Msg("migration version")

	if err = m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return
		}
		panic(err)
	}
	log.Info().Msg("migration successful...")
}

// MustConnectToDb opens the analytics database and brings its schema
// up to date. Each driver keeps its migrations under db/migration/<driver>.
func MustConnectToDb(driverName, dbUrl string) *sql.DB {
	// Open may just validate its arguments without creating a connection to the database
	db, err := sql.Open(driverName, dbUrl)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	switch driverName {
	case DriverSqlite3:
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	default:
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLife)
	}

	// there is a 'SchemeFromURL' function that splits the migrationDir by ':'
	MustMigrate(db, driverName, "file://db/migration/"+driverName)
	return db
}
