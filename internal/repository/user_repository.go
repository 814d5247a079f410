package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// isUniqueViolation reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// ============================================
// PostgreSQL User Repository
// ============================================

type pgUserRepository struct {
	pool *pgxpool.Pool
}

func (r *pgUserRepository) Create(ctx context.Context, user *User, roleIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO users (username, email, password, active)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		user.Username, user.Email, user.Password, user.Active,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	for _, roleID := range roleIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO user_roles (user_id, role_id) VALUES ($1, $2)`,
			user.ID, roleID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int) (*User, error) {
	return r.findOne(ctx, `WHERE user_id = $1`, id)
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.findOne(ctx, `WHERE LOWER(username) = LOWER($1)`, username)
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *pgUserRepository) findOne(ctx context.Context, where string, arg interface{}) (*User, error) {
	query := `
		SELECT user_id, username, email, password, active, created_at, updated_at
		FROM users ` + where
	user := &User{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password,
		&user.Active, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *pgUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`, username,
	).Scan(&exists)
	return exists, err
}

func (r *pgUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`, email,
	).Scan(&exists)
	return exists, err
}

func (r *pgUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET active = $1, updated_at = NOW() WHERE user_id = $2`, active, id)
	return err
}

func (r *pgUserRepository) FindRoleNames(ctx context.Context, userID int) ([]string, error) {
	query := `
		SELECT r.role_name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.role_id
		WHERE ur.user_id = $1
		ORDER BY r.role_name
	`
	return r.scanStrings(ctx, query, userID)
}

func (r *pgUserRepository) FindPermissionCodes(ctx context.Context, userID int) ([]string, error) {
	query := `
		SELECT DISTINCT p.permission_code
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.permission_id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = $1
		ORDER BY p.permission_code
	`
	return r.scanStrings(ctx, query, userID)
}

func (r *pgUserRepository) FindByRole(ctx context.Context, roleName string) ([]*User, error) {
	query := `
		SELECT u.user_id, u.username, u.email, u.password, u.active, u.created_at, u.updated_at
		FROM users u
		JOIN user_roles ur ON ur.user_id = u.user_id
		JOIN roles r ON r.role_id = ur.role_id
		WHERE r.role_name = $1
		ORDER BY u.user_id
	`
	rows, err := r.pool.Query(ctx, query, roleName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.Password,
			&user.Active, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *pgUserRepository) scanStrings(ctx context.Context, query string, arg interface{}) ([]string, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ============================================
// PostgreSQL Role Repository
// ============================================

type pgRoleRepository struct {
	pool *pgxpool.Pool
}

func (r *pgRoleRepository) Create(ctx context.Context, role *Role, permissionIDs []int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO roles (role_name, description) VALUES ($1, $2) RETURNING role_id`,
		role.RoleName, role.Description,
	).Scan(&role.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}

	for _, permID := range permissionIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO role_permissions (role_id, permission_id) VALUES ($1, $2)`,
			role.ID, permID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *pgRoleRepository) FindByName(ctx context.Context, name string) (*Role, error) {
	role := &Role{}
	err := r.pool.QueryRow(ctx,
		`SELECT role_id, role_name, description FROM roles WHERE role_name = $1`, name,
	).Scan(&role.ID, &role.RoleName, &role.Description)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *pgRoleRepository) FindAll(ctx context.Context) ([]*Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT role_id, role_name, description FROM roles ORDER BY role_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*Role
	for rows.Next() {
		role := &Role{}
		if err := rows.Scan(&role.ID, &role.RoleName, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *pgRoleRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count)
	return count, err
}

// ============================================
// PostgreSQL Permission Repository
// ============================================

type pgPermissionRepository struct {
	pool *pgxpool.Pool
}

func (r *pgPermissionRepository) Create(ctx context.Context, permission *Permission) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO permissions (permission_code, description) VALUES ($1, $2) RETURNING permission_id`,
		permission.PermissionCode, permission.Description,
	).Scan(&permission.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgPermissionRepository) FindByCode(ctx context.Context, code string) (*Permission, error) {
	permission := &Permission{}
	err := r.pool.QueryRow(ctx,
		`SELECT permission_id, permission_code, description FROM permissions WHERE permission_code = $1`, code,
	).Scan(&permission.ID, &permission.PermissionCode, &permission.Description)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return permission, nil
}

func (r *pgPermissionRepository) FindAll(ctx context.Context) ([]*Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT permission_id, permission_code, description FROM permissions ORDER BY permission_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []*Permission
	for rows.Next() {
		permission := &Permission{}
		if err := rows.Scan(&permission.ID, &permission.PermissionCode, &permission.Description); err != nil {
			return nil, err
		}
		permissions = append(permissions, permission)
	}
	return permissions, rows.Err()
}

func (r *pgPermissionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM permissions`).Scan(&count)
	return count, err
}
