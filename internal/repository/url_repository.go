package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/jotonsd/url-shortener/internal/errors"
	"github.com/jotonsd/url-shortener/internal/model"
)

const (
	uniqueViolation     = "23505"
	shortCodeConstraint = "urls_short_code_key"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS urls (
		id           BIGSERIAL PRIMARY KEY,
		original_url TEXT NOT NULL,
		short_code   VARCHAR(10) NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		access_count BIGINT NOT NULL DEFAULT 0,
		CONSTRAINT urls_short_code_key UNIQUE (short_code),
		CONSTRAINT urls_access_count_check CHECK (access_count >= 0)
	)`,
	// original_url is unbounded TEXT, so the dedup lookup is indexed on its hash.
	`CREATE INDEX IF NOT EXISTS urls_original_url_md5_idx ON urls (md5(original_url))`,
}

type PostgresURLRepository struct {
	db *sql.DB
}

func NewPostgresURLRepository(db *sql.DB) *PostgresURLRepository {
	return &PostgresURLRepository{
		db: db,
	}
}

// EnsureSchema creates the urls table and its indexes if they do not exist.
func (r *PostgresURLRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresURLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*model.URL, error) {
	query := `
	SELECT id, original_url, short_code, access_count, created_at
	FROM urls
	WHERE md5(original_url) = md5($1) AND original_url = $1
	ORDER BY id
	LIMIT 1
	`

	url, err := scanURL(r.db.QueryRowContext(ctx, query, originalURL))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, apperrors.NewBusinessError("DATABASE_ERROR", "failed to get URL by original", err)
	}

	return url, nil
}

func (r *PostgresURLRepository) FindByShortCode(ctx context.Context, shortCode string) (*model.URL, error) {
	query := `
	SELECT id, original_url, short_code, access_count, created_at
	FROM urls
	WHERE short_code = $1
	`

	url, err := scanURL(r.db.QueryRowContext(ctx, query, shortCode))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("URL with short code '%s': %w", shortCode, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, apperrors.NewBusinessError("DATABASE_ERROR", "failed to get URL", err)
	}

	return url, nil
}

// Insert stores url and fills in ID, CreatedAt and AccessCount. It is a single
// statement, so a failed insert leaves nothing behind.
func (r *PostgresURLRepository) Insert(ctx context.Context, url *model.URL) error {
	query := `
	INSERT INTO urls (original_url, short_code)
	VALUES ($1, $2)
	RETURNING id, access_count, created_at
	`

	err := r.db.QueryRowContext(ctx, query, url.OriginalURL, url.ShortCode).
		Scan(&url.ID, &url.AccessCount, &url.CreatedAt)
	if isShortCodeUniqueViolation(err) {
		return fmt.Errorf("short code '%s': %w", url.ShortCode, apperrors.ErrShortCodeExists)
	}
	if err != nil {
		return apperrors.NewBusinessError("DATABASE_ERROR", "failed to create URL", err)
	}

	return nil
}

func (r *PostgresURLRepository) IncrementAccessCount(ctx context.Context, shortCode string) (bool, error) {
	query := `
	UPDATE urls
	SET access_count = access_count + 1
	WHERE short_code = $1
	`

	res, err := r.db.ExecContext(ctx, query, shortCode)
	if err != nil {
		return false, apperrors.NewBusinessError("DATABASE_ERROR", "failed to increment access count", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.NewBusinessError("DATABASE_ERROR", "failed to read affected rows", err)
	}

	return n > 0, nil
}

func (r *PostgresURLRepository) AccessCount(ctx context.Context, shortCode string) (int64, error) {
	query := `SELECT access_count FROM urls WHERE short_code = $1`

	var count int64
	err := r.db.QueryRowContext(ctx, query, shortCode).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("URL with short code '%s': %w", shortCode, apperrors.ErrNotFound)
	}
	if err != nil {
		return 0, apperrors.NewBusinessError("DATABASE_ERROR", "failed to read access count", err)
	}

	return count, nil
}

func scanURL(row *sql.Row) (*model.URL, error) {
	url := &model.URL{}
	err := row.Scan(
		&url.ID,
		&url.OriginalURL,
		&url.ShortCode,
		&url.AccessCount,
		&url.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return url, nil
}

func isShortCodeUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == uniqueViolation && pgErr.ConstraintName == shortCodeConstraint
}
