package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists credits and installments in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// CreateCredit inserts the credit together with its schedule in one transaction.
func (s PGStore) CreateCredit(ctx context.Context, credit Credit, schedule []Installment) (Credit, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Credit{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		INSERT INTO credits (customer_id, principal, annual_rate, installment_count, start_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		credit.CustomerID, credit.Principal, credit.AnnualRatePercent, credit.InstallmentCount, credit.StartDate)
	if err := row.Scan(&credit.ID, &credit.CreatedAt, &credit.UpdatedAt); err != nil {
		return Credit{}, err
	}
	if err := insertSchedule(ctx, tx, credit.ID, schedule); err != nil {
		return Credit{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Credit{}, err
	}
	return credit, nil
}

// GetCredit loads one credit by id.
func (s PGStore) GetCredit(ctx context.Context, id uuid.UUID) (Credit, error) {
	var credit Credit
	row := s.Pool.QueryRow(ctx, `
		SELECT id, customer_id, principal, annual_rate, installment_count, start_date, created_at, updated_at
		FROM credits WHERE id = $1`, id)
	err := row.Scan(&credit.ID, &credit.CustomerID, &credit.Principal, &credit.AnnualRatePercent,
		&credit.InstallmentCount, &credit.StartDate, &credit.CreatedAt, &credit.UpdatedAt)
	if err != nil {
		return Credit{}, err
	}
	return credit, nil
}

// ListCredits returns a page of credits ordered by creation time.
func (s PGStore) ListCredits(ctx context.Context, limit, offset int) ([]Credit, int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, customer_id, principal, annual_rate, installment_count, start_date, created_at, updated_at
		FROM credits ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	credits := make([]Credit, 0, limit)
	for rows.Next() {
		var credit Credit
		if err := rows.Scan(&credit.ID, &credit.CustomerID, &credit.Principal, &credit.AnnualRatePercent,
			&credit.InstallmentCount, &credit.StartDate, &credit.CreatedAt, &credit.UpdatedAt); err != nil {
			return nil, 0, err
		}
		credits = append(credits, credit)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM credits`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return credits, total, nil
}

// Schedule loads the stored installments of a credit ordered by number.
func (s PGStore) Schedule(ctx context.Context, creditID uuid.UUID) ([]Installment, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT no, due_date, principal, interest, bsmv, total_due, paid, remaining, status
		FROM installments WHERE credit_id = $1 ORDER BY no`, creditID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedule []Installment
	for rows.Next() {
		var ins Installment
		if err := rows.Scan(&ins.No, &ins.DueDate, &ins.Principal, &ins.Interest, &ins.BSMV,
			&ins.TotalDue, &ins.Paid, &ins.Remaining, &ins.Status); err != nil {
			return nil, err
		}
		schedule = append(schedule, ins)
	}
	return schedule, rows.Err()
}

// ReplaceSchedule swaps the stored schedule for the given one atomically.
// Edits and removals renumber installments, so a delete-and-insert keeps the
// unique (credit_id, no) constraint trivially satisfied.
func (s PGStore) ReplaceSchedule(ctx context.Context, creditID uuid.UUID, schedule []Installment) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM installments WHERE credit_id = $1`, creditID); err != nil {
		return err
	}
	if err := insertSchedule(ctx, tx, creditID, schedule); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// MarkOverdue flags unsettled installments due before asOf and reports how
// many rows changed.
func (s PGStore) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `
		UPDATE installments
		SET status = $1, updated_at = now()
		WHERE due_date < $2 AND remaining > 0 AND status IN ($3, $4)`,
		StatusOverdue, asOf, StatusNew, StatusPartial)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func insertSchedule(ctx context.Context, tx pgx.Tx, creditID uuid.UUID, schedule []Installment) error {
	for _, ins := range schedule {
		_, err := tx.Exec(ctx, `
			INSERT INTO installments (credit_id, no, due_date, principal, interest, bsmv, total_due, paid, remaining, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			creditID, ins.No, ins.DueDate, ins.Principal, ins.Interest, ins.BSMV,
			ins.TotalDue, ins.Paid, ins.Remaining, ins.Status)
		if err != nil {
			return err
		}
	}
	return nil
}
