package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// fileColumns is the column list shared by all SELECTs.
const fileColumns = `id, user_id, original_name, file_name, folder_name, mime_type,
	size, url, public_id, storage_folder, uploaded_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanFile(row interface{ Scan(...any) error }) (*models.StoredFile, error) {
	f := &models.StoredFile{}
	err := row.Scan(&f.ID, &f.UserID, &f.OriginalName, &f.FileName, &f.FolderName, &f.MimeType,
		&f.Size, &f.URL, &f.PublicID, &f.StorageFolder, &f.UploadedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.StoredFile) (*models.StoredFile, error) {

	query :=
		`INSERT INTO files (user_id, original_name, file_name, folder_name, mime_type, size, url, public_id, storage_folder)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, uploaded_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.UserID, file.OriginalName, file.FileName, file.FolderName, file.MimeType,
		file.Size, file.URL, file.PublicID, file.StorageFolder).
		Scan(&file.ID, &file.UploadedAt, &file.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id, userID string) (*models.StoredFile, error) {
	query := fmt.Sprintf(`SELECT %s FROM files WHERE id = $1 AND user_id = $2`, fileColumns)

	file, err := scanFile(r.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) List(ctx context.Context, params ListParams) ([]*models.StoredFile, error) {

	where := `user_id = $1`
	args := []any{params.UserID}
	if params.Folder != nil {
		where += ` AND folder_name = $2`
		args = append(args, *params.Folder)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM files WHERE %s ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d`,
		fileColumns, where, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.StoredFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Count(ctx context.Context, userID string, folder *string) (int, error) {

	query := `SELECT COUNT(*) FROM files WHERE user_id = $1`
	args := []any{userID}
	if folder != nil {
		query += ` AND folder_name = $2`
		args = append(args, *folder)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) FolderNames(ctx context.Context, userID string) ([]string, error) {

	query := `SELECT DISTINCT folder_name FROM files WHERE user_id = $1 AND folder_name <> '' ORDER BY folder_name`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return names, nil
}

func (r *PostgresRepository) UpdateOriginalName(ctx context.Context, id, userID, originalName string) (*models.StoredFile, error) {

	query := fmt.Sprintf(
		`UPDATE files SET original_name = $3, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING %s`, fileColumns)

	file, err := scanFile(r.db.QueryRowContext(ctx, query, id, userID, originalName))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM files WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Stats(ctx context.Context, userID string) (*Stats, error) {

	stats := &Stats{FolderBreakdown: []FolderStat{}}

	query := `SELECT COUNT(*), COALESCE(SUM(size), 0) FROM files WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&stats.TotalFiles, &stats.TotalSize); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	breakdown :=
		`SELECT folder_name, COUNT(*), COALESCE(SUM(size), 0)
		 FROM files WHERE user_id = $1
		 GROUP BY folder_name
		 ORDER BY folder_name`

	rows, err := r.db.QueryContext(ctx, breakdown, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fs FolderStat
		if err := rows.Scan(&fs.FolderName, &fs.FileCount, &fs.TotalSize); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		stats.FolderBreakdown = append(stats.FolderBreakdown, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return stats, nil
}
