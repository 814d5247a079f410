package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Chapter Repository
// ============================================

type pgChapterRepository struct {
	pool *pgxpool.Pool
}

func (r *pgChapterRepository) Create(ctx context.Context, chapter *Chapter) error {
	query := `
		INSERT INTO chapters (chapter_name, location, chapter_type)
		VALUES ($1, $2, $3)
		RETURNING chapter_id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		chapter.ChapterName, chapter.Location, chapter.ChapterType,
	).Scan(&chapter.ID, &chapter.CreatedAt, &chapter.UpdatedAt)
}

func (r *pgChapterRepository) FindByID(ctx context.Context, id int) (*Chapter, error) {
	chapter := &Chapter{}
	err := r.pool.QueryRow(ctx, `
		SELECT chapter_id, chapter_name, location, chapter_type, created_at, updated_at
		FROM chapters WHERE chapter_id = $1`, id,
	).Scan(
		&chapter.ID, &chapter.ChapterName, &chapter.Location,
		&chapter.ChapterType, &chapter.CreatedAt, &chapter.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return chapter, nil
}

func (r *pgChapterRepository) FindAll(ctx context.Context) ([]*Chapter, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT chapter_id, chapter_name, location, chapter_type, created_at, updated_at
		FROM chapters ORDER BY chapter_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		chapter := &Chapter{}
		if err := rows.Scan(
			&chapter.ID, &chapter.ChapterName, &chapter.Location,
			&chapter.ChapterType, &chapter.CreatedAt, &chapter.UpdatedAt,
		); err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

func (r *pgChapterRepository) Update(ctx context.Context, chapter *Chapter) error {
	query := `
		UPDATE chapters SET chapter_name = $1, location = $2, chapter_type = $3, updated_at = NOW()
		WHERE chapter_id = $4
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		chapter.ChapterName, chapter.Location, chapter.ChapterType, chapter.ID,
	).Scan(&chapter.UpdatedAt)
}

func (r *pgChapterRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chapters`).Scan(&count)
	return count, err
}

func (r *pgChapterRepository) AssignMember(ctx context.Context, cm *ChapterMember) error {
	query := `
		INSERT INTO chapter_members (chapter_id, member_id, role_in_chapter)
		VALUES ($1, $2, $3)
		RETURNING joined_at
	`
	err := r.pool.QueryRow(ctx, query,
		cm.ChapterID, cm.MemberID, cm.RoleInChapter,
	).Scan(&cm.JoinedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgChapterRepository) FindChapterMember(ctx context.Context, chapterID, memberID int) (*ChapterMember, error) {
	cm := &ChapterMember{}
	err := r.pool.QueryRow(ctx, `
		SELECT chapter_id, member_id, role_in_chapter, joined_at
		FROM chapter_members WHERE chapter_id = $1 AND member_id = $2`,
		chapterID, memberID,
	).Scan(&cm.ChapterID, &cm.MemberID, &cm.RoleInChapter, &cm.JoinedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cm, nil
}

func (r *pgChapterRepository) FindChapterMembers(ctx context.Context, chapterID int) ([]*ChapterMember, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT cm.chapter_id, cm.member_id, cm.role_in_chapter, cm.joined_at
		FROM chapter_members cm
		JOIN members m ON m.member_id = cm.member_id
		WHERE cm.chapter_id = $1 AND m.is_deleted = FALSE
		ORDER BY cm.member_id`, chapterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*ChapterMember
	for rows.Next() {
		cm := &ChapterMember{}
		if err := rows.Scan(&cm.ChapterID, &cm.MemberID, &cm.RoleInChapter, &cm.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, cm)
	}
	return out, rows.Err()
}

func (r *pgChapterRepository) UpdateMemberRole(ctx context.Context, chapterID, memberID int, role string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE chapter_members SET role_in_chapter = $1
		WHERE chapter_id = $2 AND member_id = $3`,
		role, chapterID, memberID)
	return err
}

func (r *pgChapterRepository) RemoveMember(ctx context.Context, chapterID, memberID int) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM chapter_members WHERE chapter_id = $1 AND member_id = $2`,
		chapterID, memberID)
	return err
}
