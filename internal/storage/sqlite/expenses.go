package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitledger/internal/models"
)

const expenseColumns = `id, group_id, description, amount, currency, base_amount, paid_by, paid_to,
	type, split_kind, created_at, created_by`

// CreateExpense persists a new expense together with its split rows.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Split.Kind == "" {
		expense.Split.Kind = models.SplitEqualAll
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.Description, expense.Amount, expense.Currency,
		nullFloat(expense.BaseAmount), expense.PaidBy, nullString(expense.PaidTo),
		expense.Type, expense.Split.Kind, expense.CreatedAt, expense.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	switch expense.Split.Kind {
	case models.SplitEqualSubset:
		for _, memberID := range expense.Split.Members {
			_, err = tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO expense_splits (expense_id, member_id, share) VALUES (?, ?, NULL)",
				expense.ID, memberID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense split: %w", err)
			}
		}
	case models.SplitCustom:
		for memberID, share := range expense.Split.Shares {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO expense_splits (expense_id, member_id, share) VALUES (?, ?, ?)",
				expense.ID, memberID, share,
			)
			if err != nil {
				return fmt.Errorf("failed to insert expense split: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its split.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, notFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplit(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group, newest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE group_id = ? ORDER BY created_at DESC, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	for _, expense := range expenses {
		if err := s.loadSplit(ctx, expense); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// DeleteExpense removes an expense and its split rows.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete expense splits: %w", err)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("expense", expenseID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var baseAmount sql.NullFloat64
	var paidTo sql.NullString

	err := row.Scan(&expense.ID, &expense.GroupID, &expense.Description, &expense.Amount,
		&expense.Currency, &baseAmount, &expense.PaidBy, &paidTo,
		&expense.Type, &expense.Split.Kind, &expense.CreatedAt, &expense.CreatedBy)
	if err != nil {
		return nil, err
	}

	expense.BaseAmount = floatPtr(baseAmount)
	if paidTo.Valid {
		expense.PaidTo = paidTo.String
	}
	return expense, nil
}

// loadSplit fills the subset members or custom shares of an expense.
func (s *SQLiteStore) loadSplit(ctx context.Context, expense *models.Expense) error {
	if expense.Split.Kind != models.SplitEqualSubset && expense.Split.Kind != models.SplitCustom {
		return nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, share FROM expense_splits WHERE expense_id = ? ORDER BY member_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memberID string
		var share sql.NullFloat64
		if err := rows.Scan(&memberID, &share); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}

		if expense.Split.Kind == models.SplitCustom {
			if expense.Split.Shares == nil {
				expense.Split.Shares = make(map[string]float64)
			}
			expense.Split.Shares[memberID] = share.Float64
		} else {
			expense.Split.Members = append(expense.Split.Members, memberID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return nil
}
