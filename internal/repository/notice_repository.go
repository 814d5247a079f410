package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Notice Repository
// ============================================

type pgNoticeRepository struct {
	pool *pgxpool.Pool
}

const noticeColumns = `notice_id, title, body, published, expiry_date, created_by, created_at, updated_at`

func scanNotice(row pgx.Row) (*Notice, error) {
	n := &Notice{}
	err := row.Scan(
		&n.ID, &n.Title, &n.Body, &n.Published, &n.ExpiryDate,
		&n.CreatedBy, &n.CreatedAt, &n.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (r *pgNoticeRepository) Create(ctx context.Context, notice *Notice) error {
	query := `
		INSERT INTO notices (title, body, published, expiry_date, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING notice_id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		notice.Title, notice.Body, notice.Published, notice.ExpiryDate, notice.CreatedBy,
	).Scan(&notice.ID, &notice.CreatedAt, &notice.UpdatedAt)
}

func (r *pgNoticeRepository) FindByID(ctx context.Context, id int) (*Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices WHERE notice_id = $1`
	return scanNotice(r.pool.QueryRow(ctx, query, id))
}

func (r *pgNoticeRepository) FindAll(ctx context.Context) ([]*Notice, error) {
	query := `SELECT ` + noticeColumns + ` FROM notices ORDER BY notice_id DESC`
	return r.queryNotices(ctx, query)
}

func (r *pgNoticeRepository) FindPublished(ctx context.Context, now time.Time) ([]*Notice, error) {
	query := `
		SELECT ` + noticeColumns + `
		FROM notices
		WHERE published = TRUE AND (expiry_date IS NULL OR expiry_date >= $1)
		ORDER BY notice_id DESC`
	return r.queryNotices(ctx, query, now)
}

func (r *pgNoticeRepository) queryNotices(ctx context.Context, query string, args ...interface{}) ([]*Notice, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notices []*Notice
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, err
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (r *pgNoticeRepository) Update(ctx context.Context, notice *Notice) error {
	query := `
		UPDATE notices SET title = $1, body = $2, published = $3, expiry_date = $4, updated_at = NOW()
		WHERE notice_id = $5
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		notice.Title, notice.Body, notice.Published, notice.ExpiryDate, notice.ID,
	).Scan(&notice.UpdatedAt)
}

func (r *pgNoticeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE notice_id = $1`, id)
	return err
}
