package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// PostgreSQL Student Repository
// ============================================

type pgStudentRepository struct {
	pool *pgxpool.Pool
}

const studentColumns = `
	student_id, user_id, membership_code, full_name, phone, institute, course,
	educational_level, chapter_id, status, is_deleted, created_at, updated_at`

func scanStudent(row pgx.Row) (*Student, error) {
	s := &Student{}
	err := row.Scan(
		&s.ID, &s.UserID, &s.MembershipCode, &s.FullName, &s.Phone,
		&s.Institute, &s.Course, &s.EducationalLevel, &s.ChapterID,
		&s.Status, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *pgStudentRepository) Create(ctx context.Context, student *Student) error {
	query := `
		INSERT INTO students (user_id, membership_code, full_name, phone, institute,
			course, educational_level, chapter_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING student_id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		student.UserID, student.MembershipCode, student.FullName, student.Phone,
		student.Institute, student.Course, student.EducationalLevel,
		student.ChapterID, student.Status,
	).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgStudentRepository) FindByID(ctx context.Context, id int) (*Student, error) {
	query := `SELECT` + studentColumns + ` FROM students WHERE student_id = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, id))
}

func (r *pgStudentRepository) FindByCode(ctx context.Context, code string) (*Student, error) {
	query := `SELECT` + studentColumns + ` FROM students WHERE membership_code = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, code))
}

func (r *pgStudentRepository) FindByUserID(ctx context.Context, userID int) (*Student, error) {
	query := `SELECT` + studentColumns + ` FROM students WHERE user_id = $1`
	return scanStudent(r.pool.QueryRow(ctx, query, userID))
}

func (r *pgStudentRepository) FindAll(ctx context.Context, filter StudentFilter) ([]*Student, error) {
	query := `SELECT` + studentColumns + ` FROM students WHERE is_deleted = FALSE`
	args := []interface{}{}
	n := 0

	if filter.ChapterID != nil {
		n++
		query += fmt.Sprintf(" AND chapter_id = $%d", n)
		args = append(args, *filter.ChapterID)
	}
	if filter.Status != nil {
		n++
		query += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, *filter.Status)
	}
	if filter.Query != nil {
		n++
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR membership_code ILIKE $%d)", n, n)
		args = append(args, "%"+*filter.Query+"%")
	}
	query += " ORDER BY student_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []*Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *pgStudentRepository) LastCodedID(ctx context.Context) (int, error) {
	var last int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(student_id), 0) FROM students WHERE membership_code IS NOT NULL`).Scan(&last)
	return last, err
}

func (r *pgStudentRepository) Update(ctx context.Context, student *Student) error {
	query := `
		UPDATE students SET
			full_name = $1, phone = $2, institute = $3, course = $4,
			educational_level = $5, chapter_id = $6, updated_at = NOW()
		WHERE student_id = $7
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		student.FullName, student.Phone, student.Institute, student.Course,
		student.EducationalLevel, student.ChapterID, student.ID,
	).Scan(&student.UpdatedAt)
}

func (r *pgStudentRepository) SaveApproval(ctx context.Context, student *Student) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE students SET membership_code = $1, status = $2, updated_at = NOW()
		WHERE student_id = $3`,
		student.MembershipCode, student.Status, student.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return err
	}

	if student.UserID != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE users SET active = TRUE, updated_at = NOW() WHERE user_id = $1`,
			*student.UserID,
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

func (r *pgStudentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET status = $1, updated_at = NOW() WHERE student_id = $2`,
		status, id)
	return err
}

func (r *pgStudentRepository) SoftDelete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE students SET is_deleted = TRUE, updated_at = NOW() WHERE student_id = $1`, id)
	return err
}

func (r *pgStudentRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM students WHERE is_deleted = FALSE
		GROUP BY status`)
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
