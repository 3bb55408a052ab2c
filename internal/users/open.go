package users

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/echoverse/internal/dbx"
	"github.com/dmitrijs2005/echoverse/internal/users/migrations"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema for dialect.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	var (
		fsys         fs.FS
		gooseDialect string
		dir          string
	)
	switch dialect {
	case dbx.DialectSQLite:
		fsys, gooseDialect, dir = migrations.SQLite, "sqlite3", "sqlite"
	case dbx.DialectPostgres:
		fsys, gooseDialect, dir = migrations.Postgres, "pgx", "postgres"
	default:
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}

	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate %s: %w", dialect, err)
	}
	return nil
}

// Open returns the repository for dsn along with a function releasing its
// resources. SQL backends are migrated before use.
func Open(ctx context.Context, dsn string) (Repository, func() error, error) {
	if dbx.DialectFor(dsn) == dbx.DialectMemory {
		return NewMemoryRepository(), func() error { return nil }, nil
	}

	db, dialect, err := dbx.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	var repo Repository
	if dialect == dbx.DialectPostgres {
		repo = NewPostgresRepository(db)
	} else {
		repo = NewSQLiteRepository(db)
	}
	return repo, db.Close, nil
}
