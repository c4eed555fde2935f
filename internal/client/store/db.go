// Package store opens the local SQLite database shared by the generator and
// reader clients and exposes its repositories.
package store

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/labaccess/internal/client/migrations"
	"github.com/dmitrijs2005/labaccess/internal/client/repositories/identities"
	"github.com/dmitrijs2005/labaccess/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/labaccess/internal/dbx"
	"github.com/dmitrijs2005/labaccess/internal/filex"
)

type Repositories struct {
	DB         *sql.DB
	Identities identities.Repository
	Metadata   metadata.Repository
}

// InitDatabase opens dsn, runs the embedded migrations and wires the
// repositories.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := dbx.OpenSQLite(ctx, dsn, migrations.FS)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		DB:         db,
		Identities: identities.NewSQLiteRepository(db),
		Metadata:   metadata.NewSQLiteRepository(db),
	}, nil
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// InTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (r *Repositories) InTx(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	return dbx.WithTx(ctx, r.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &Repositories{
			DB:         r.DB,
			Identities: identities.NewSQLiteRepository(tx),
			Metadata:   metadata.NewSQLiteRepository(tx),
		})
	})
}
