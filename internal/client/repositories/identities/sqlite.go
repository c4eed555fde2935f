package identities

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/dbx"
	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) Append(ctx context.Context, id qr.Identity) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Identity:  id.Normalize(),
		CreatedAt: r.now().UTC().Truncate(time.Millisecond),
	}

	query := `INSERT INTO identities (id, name, surname, email, user_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING seq`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Identity.Name, rec.Identity.Surname, rec.Identity.Email,
		string(rec.Identity.UserType), rec.CreatedAt.UnixMilli(),
	).Scan(&rec.Seq)
	if err != nil {
		return Record{}, fmt.Errorf("failed to insert identity: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	return r.query(ctx, `SELECT seq, id, name, surname, email, user_type, created_at
		FROM identities ORDER BY seq`)
}

func (r *SQLiteRepository) ListByUserType(ctx context.Context, ut qr.UserType) ([]Record, error) {
	return r.query(ctx, `SELECT seq, id, name, surname, email, user_type, created_at
		FROM identities WHERE user_type = ? ORDER BY seq`, string(ut))
}

func (r *SQLiteRepository) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select identities: %w", err)
	}
	defer rows.Close()

	result := make([]Record, 0)
	for rows.Next() {
		var (
			rec       Record
			userType  string
			createdAt int64
		)
		if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Identity.Name, &rec.Identity.Surname,
			&rec.Identity.Email, &userType, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan identity: %w", err)
		}
		rec.Identity.UserType = qr.UserType(userType)
		rec.CreatedAt = time.UnixMilli(createdAt).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
