// Package files implements file and folder metadata persistence over
// PostgreSQL.
package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/filesmanager/internal/common"
	"github.com/dmitrijs2005/filesmanager/internal/dbx"
	"github.com/dmitrijs2005/filesmanager/internal/server/models"
)

const columns = `id, user_id, name, type, parent_id, is_public, local_path, seq`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFile(row scanner) (*models.File, error) {
	var (
		f         models.File
		kind      string
		localPath sql.NullString
	)
	if err := row.Scan(&f.ID, &f.UserID, &f.Name, &kind, &f.ParentID, &f.IsPublic, &localPath, &f.Seq); err != nil {
		return nil, err
	}
	f.Type = models.FileKind(kind)
	f.LocalPath = localPath.String
	return &f, nil
}

func storeErr(op string, err error) error {
	return fmt.Errorf("db error: %s: %w: %w", op, common.ErrorStorageUnavailable, err)
}

// Create inserts file and returns the generated id. file.ID and file.Seq are
// updated in place.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (string, error) {
	query :=
		`INSERT INTO files (user_id, name, type, parent_id, is_public, local_path)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, seq`

	parentID := file.ParentID
	if parentID == "" {
		parentID = common.RootParentID
	}

	var localPath sql.NullString
	if file.LocalPath != "" {
		localPath = sql.NullString{String: file.LocalPath, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.Name, string(file.Type), parentID, file.IsPublic, localPath).Scan(&file.ID, &file.Seq)
	if err != nil {
		return "", storeErr("insert file", err)
	}
	file.ParentID = parentID

	return file.ID, nil
}

// FindByID returns common.ErrorInvalidID for a malformed id and
// common.ErrorNotFound when no row matches.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	query := `SELECT ` + columns + ` FROM files WHERE id = $1`

	return r.findOne(ctx, query, id)
}

// FindByIDAndOwner is FindByID restricted to files owned by ownerID.
func (r *PostgresRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*models.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	query := `SELECT ` + columns + ` FROM files WHERE id = $1 AND user_id = $2`

	return r.findOne(ctx, query, id, ownerID)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, args ...any) (*models.File, error) {
	f, err := scanFile(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr("select file", err)
	}
	return f, nil
}

// FindPage returns the page-th slice of pageSize children of parentID owned
// by userID, in insertion order. A page past the end yields an empty slice.
func (r *PostgresRepository) FindPage(ctx context.Context, userID, parentID string, page, pageSize int) ([]*models.File, error) {
	query := `SELECT ` + columns + ` FROM files
		WHERE user_id = $1 AND parent_id = $2
		ORDER BY seq
		OFFSET $3 LIMIT $4`

	rows, err := r.db.QueryContext(ctx, query, userID, parentID, page*pageSize, pageSize)
	if err != nil {
		return nil, storeErr("select files", err)
	}
	defer rows.Close()

	result := make([]*models.File, 0, pageSize)
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, storeErr("scan file", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate files", err)
	}
	return result, nil
}

// UpdateVisibility sets is_public on a file owned by ownerID and returns the
// updated record.
func (r *PostgresRepository) UpdateVisibility(ctx context.Context, id, ownerID string, isPublic bool) (*models.File, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorInvalidID
	}

	query := `UPDATE files SET is_public = $1
		WHERE id = $2 AND user_id = $3
		RETURNING ` + columns

	f, err := scanFile(r.db.QueryRowContext(ctx, query, isPublic, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, storeErr("update file", err)
	}
	return f, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, storeErr("count files", err)
	}
	return n, nil
}
