package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ============================================
// PostgreSQL Membership Fee Repository
// ============================================

type pgFeeRepository struct {
	pool *pgxpool.Pool
}

const feeColumns = `
	fee_id, member_id, amount, payment_date, payment_status, transaction_id,
	fee_type, financial_year, remarks, created_at, updated_at`

func scanFee(row pgx.Row) (*MembershipFee, error) {
	f := &MembershipFee{}
	err := row.Scan(
		&f.ID, &f.MemberID, &f.Amount, &f.PaymentDate, &f.PaymentStatus,
		&f.TransactionID, &f.FeeType, &f.FinancialYear, &f.Remarks,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *pgFeeRepository) Create(ctx context.Context, fee *MembershipFee) error {
	query := `
		INSERT INTO membership_fees (member_id, amount, payment_date, payment_status,
			transaction_id, fee_type, financial_year, remarks)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING fee_id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		fee.MemberID, fee.Amount, fee.PaymentDate, fee.PaymentStatus,
		fee.TransactionID, fee.FeeType, fee.FinancialYear, fee.Remarks,
	).Scan(&fee.ID, &fee.CreatedAt, &fee.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgFeeRepository) FindByID(ctx context.Context, id int) (*MembershipFee, error) {
	query := `SELECT` + feeColumns + ` FROM membership_fees WHERE fee_id = $1`
	return scanFee(r.pool.QueryRow(ctx, query, id))
}

func (r *pgFeeRepository) FindByMemberID(ctx context.Context, memberID int) ([]*MembershipFee, error) {
	query := `SELECT` + feeColumns + ` FROM membership_fees WHERE member_id = $1 ORDER BY payment_date DESC, fee_id DESC`
	return r.queryFees(ctx, query, memberID)
}

func (r *pgFeeRepository) FindAll(ctx context.Context, filter FeeFilter) ([]*MembershipFee, error) {
	query := `SELECT` + feeColumns + ` FROM membership_fees WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.PaymentStatus != nil {
		n++
		query += fmt.Sprintf(" AND payment_status = $%d", n)
		args = append(args, *filter.PaymentStatus)
	}
	if filter.FinancialYear != nil {
		n++
		query += fmt.Sprintf(" AND financial_year = $%d", n)
		args = append(args, *filter.FinancialYear)
	}
	if filter.Query != nil {
		n++
		query += fmt.Sprintf(` AND member_id IN (
			SELECT member_id FROM members
			WHERE full_name ILIKE $%d OR membership_code ILIKE $%d)`, n, n)
		args = append(args, "%"+*filter.Query+"%")
	}
	query += " ORDER BY payment_date DESC, fee_id DESC"

	return r.queryFees(ctx, query, args...)
}

func (r *pgFeeRepository) queryFees(ctx context.Context, query string, args ...interface{}) ([]*MembershipFee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fees []*MembershipFee
	for rows.Next() {
		f, err := scanFee(rows)
		if err != nil {
			return nil, err
		}
		fees = append(fees, f)
	}
	return fees, rows.Err()
}

func (r *pgFeeRepository) Update(ctx context.Context, fee *MembershipFee) error {
	query := `
		UPDATE membership_fees SET
			amount = $1, payment_date = $2, payment_status = $3, transaction_id = $4,
			fee_type = $5, financial_year = $6, remarks = $7, updated_at = NOW()
		WHERE fee_id = $8
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		fee.Amount, fee.PaymentDate, fee.PaymentStatus, fee.TransactionID,
		fee.FeeType, fee.FinancialYear, fee.Remarks, fee.ID,
	).Scan(&fee.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *pgFeeRepository) Delete(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM membership_fees WHERE fee_id = $1`, id)
	return err
}

func (r *pgFeeRepository) TotalsByYear(ctx context.Context) (map[string]decimal.Decimal, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT financial_year, COALESCE(SUM(amount), 0)
		FROM membership_fees
		WHERE payment_status = 'PAID'
		GROUP BY financial_year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var year string
		var total decimal.Decimal
		if err := rows.Scan(&year, &total); err != nil {
			return nil, err
		}
		totals[year] = total
	}
	return totals, rows.Err()
}
