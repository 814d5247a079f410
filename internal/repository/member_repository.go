package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Member Repository
// ============================================

type pgMemberRepository struct {
	pool *pgxpool.Pool
}

const memberColumns = `
	member_id, user_id, membership_code, full_name, phone, address, designation,
	organization, college, university, graduation_year, gender, educational_level,
	working_sector, chapter_id, membership_status, joined_date, is_deleted,
	created_at, updated_at`

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	err := row.Scan(
		&m.ID, &m.UserID, &m.MembershipCode, &m.FullName, &m.Phone, &m.Address,
		&m.Designation, &m.Organization, &m.College, &m.University,
		&m.GraduationYear, &m.Gender, &m.EducationalLevel, &m.WorkingSector,
		&m.ChapterID, &m.MembershipStatus, &m.JoinedDate, &m.IsDeleted,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *pgMemberRepository) Create(ctx context.Context, member *Member) error {
	query := `
		INSERT INTO members (user_id, membership_code, full_name, phone, address,
			designation, organization, college, university, graduation_year, gender,
			educational_level, working_sector, chapter_id, membership_status, joined_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING member_id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		member.UserID, member.MembershipCode, member.FullName, member.Phone,
		member.Address, member.Designation, member.Organization, member.College,
		member.University, member.GraduationYear, member.Gender,
		member.EducationalLevel, member.WorkingSector, member.ChapterID,
		member.MembershipStatus, member.JoinedDate,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgMemberRepository) FindByID(ctx context.Context, id int) (*Member, error) {
	query := `SELECT` + memberColumns + ` FROM members WHERE member_id = $1`
	return scanMember(r.pool.QueryRow(ctx, query, id))
}

func (r *pgMemberRepository) FindByCode(ctx context.Context, code string) (*Member, error) {
	query := `SELECT` + memberColumns + ` FROM members WHERE membership_code = $1`
	return scanMember(r.pool.QueryRow(ctx, query, code))
}

func (r *pgMemberRepository) FindByUserID(ctx context.Context, userID int) (*Member, error) {
	query := `SELECT` + memberColumns + ` FROM members WHERE user_id = $1`
	return scanMember(r.pool.QueryRow(ctx, query, userID))
}

func (r *pgMemberRepository) FindAll(ctx context.Context, filter MemberFilter) ([]*Member, error) {
	query := `SELECT` + memberColumns + ` FROM members WHERE is_deleted = FALSE`
	args := []interface{}{}
	n := 0

	add := func(clause string, value interface{}) {
		n++
		query += fmt.Sprintf(" AND "+clause, n)
		args = append(args, value)
	}

	if filter.ChapterID != nil {
		add("chapter_id = $%d", *filter.ChapterID)
	}
	if filter.EducationalLevel != nil {
		add("educational_level = $%d", *filter.EducationalLevel)
	}
	if filter.WorkingSector != nil {
		add("working_sector = $%d", *filter.WorkingSector)
	}
	if filter.Status != nil {
		add("membership_status = $%d", *filter.Status)
	}
	if filter.Query != nil {
		n++
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR membership_code ILIKE $%d)", n, n)
		args = append(args, "%"+*filter.Query+"%")
	}
	query += " ORDER BY member_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *pgMemberRepository) LastCodedID(ctx context.Context) (int, error) {
	var last int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(member_id), 0) FROM members WHERE membership_code IS NOT NULL`).Scan(&last)
	return last, err
}

func (r *pgMemberRepository) Update(ctx context.Context, member *Member) error {
	query := `
		UPDATE members SET
			full_name = $1, phone = $2, address = $3, designation = $4,
			organization = $5, college = $6, university = $7, graduation_year = $8,
			gender = $9, educational_level = $10, working_sector = $11,
			chapter_id = $12, joined_date = $13, updated_at = NOW()
		WHERE member_id = $14
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		member.FullName, member.Phone, member.Address, member.Designation,
		member.Organization, member.College, member.University,
		member.GraduationYear, member.Gender, member.EducationalLevel,
		member.WorkingSector, member.ChapterID, member.JoinedDate, member.ID,
	).Scan(&member.UpdatedAt)
}

func (r *pgMemberRepository) SaveApproval(ctx context.Context, member *Member) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Unique index on membership_code is the authoritative guard against
	// two approvals racing to the same candidate code.
	_, err = tx.Exec(ctx, `
		UPDATE members SET membership_code = $1, membership_status = $2, updated_at = NOW()
		WHERE member_id = $3`,
		member.MembershipCode, member.MembershipStatus, member.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}

	if member.UserID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET active = TRUE, updated_at = NOW() WHERE user_id = $1`,
			*member.UserID,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

func (r *pgMemberRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE members SET membership_status = $1, updated_at = NOW() WHERE member_id = $2`,
		status, id)
	return err
}

func (r *pgMemberRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE members SET is_deleted = TRUE, updated_at = NOW() WHERE member_id = $1`, id)
	return err
}

func (r *pgMemberRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT membership_status, COUNT(*)
		FROM members WHERE is_deleted = FALSE
		GROUP BY membership_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
