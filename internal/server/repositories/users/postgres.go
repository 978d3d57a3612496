package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/filevault/internal/common"
	"github.com/dmitrijs2005/filevault/internal/dbx"
	"github.com/dmitrijs2005/filevault/internal/server/models"
)

// userColumns is the column list shared by all SELECTs.
const userColumns = `id, email, COALESCE(name, ''), role, active, api_key, COALESCE(avatar_url, ''), created_at`

// pgUniqueViolation is the PostgreSQL error code for unique_violation.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.Active, &u.APIKey, &u.AvatarURL, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (id, email, name, role, active, api_key, avatar_url)
		 VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''))
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.Email, user.Name, user.Role, user.Active, user.APIKey, user.AvatarURL).
		Scan(&user.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) getBy(ctx context.Context, column string, value string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *PostgresRepository) GetByAPIKey(ctx context.Context, key string) (*models.User, error) {
	return r.getBy(ctx, "api_key", key)
}

func (r *PostgresRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY created_at DESC`, userColumns)
	return r.queryUsers(ctx, query)
}

func (r *PostgresRepository) Search(ctx context.Context, query string) ([]*models.User, error) {
	q := fmt.Sprintf(
		`SELECT %s FROM users
		 WHERE email ILIKE $1 OR name ILIKE $1
		 ORDER BY created_at DESC
		 LIMIT 50`, userColumns)
	return r.queryUsers(ctx, q, "%"+query+"%")
}

func (r *PostgresRepository) ListByRole(ctx context.Context, role string) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE role = $1 ORDER BY created_at DESC`, userColumns)
	return r.queryUsers(ctx, query, role)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, params UpdateParams) (*models.User, error) {

	var set []string
	args := []any{id}
	argNum := 2

	if params.Name != nil {
		set = append(set, fmt.Sprintf("name = NULLIF($%d, '')", argNum))
		args = append(args, *params.Name)
		argNum++
	}
	if params.Role != nil {
		set = append(set, fmt.Sprintf("role = $%d", argNum))
		args = append(args, *params.Role)
		argNum++
	}
	if params.Active != nil {
		set = append(set, fmt.Sprintf("active = $%d", argNum))
		args = append(args, *params.Active)
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), userColumns)

	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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

func (r *PostgresRepository) countWhere(ctx context.Context, where string, args ...any) (int, error) {
	query := `SELECT COUNT(*) FROM users`
	if where != "" {
		query += " WHERE " + where
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	return count, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "")
}

func (r *PostgresRepository) CountActive(ctx context.Context) (int, error) {
	return r.countWhere(ctx, "active = true")
}

func (r *PostgresRepository) CountByRole(ctx context.Context, role string) (int, error) {
	return r.countWhere(ctx, "role = $1", role)
}

func (r *PostgresRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return r.countWhere(ctx, "created_at >= $1", since)
}
