package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
)

const budgetColumns = `b.id, b.user_id, b.name, b.value, b.start_date, b.end_date,
	COALESCE((SELECT array_agg(bc.category_id ORDER BY bc.category_id) FROM budget_categories bc WHERE bc.budget_id = b.id), '{}'),
	COALESCE((SELECT array_agg(bl.label_id ORDER BY bl.label_id) FROM budget_labels bl WHERE bl.budget_id = b.id), '{}'),
	b.created_at, b.updated_at`

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// Create inserts a budget with its category and label links in one transaction
func (r *BudgetRepository) Create(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()
	value, err := decimalToPgNumeric(budget.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int32
	err = tx.QueryRow(ctx, `
		INSERT INTO budgets (user_id, name, value, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		uuidToPg(budget.UserID), budget.Name, value, timeToPgDate(budget.StartDate), timeToPgDate(budget.EndDate),
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	if err := writeBudgetLinks(ctx, tx, id, budget); err != nil {
		return nil, err
	}

	created, err := getBudget(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

func (r *BudgetRepository) GetByID(id int32) (*domain.Budget, error) {
	return getBudget(context.Background(), r.pool, id)
}

func (r *BudgetRepository) ListForUser(userID uuid.UUID) ([]*domain.Budget, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+budgetColumns+` FROM budgets b WHERE b.user_id = $1 ORDER BY b.start_date, b.id`, uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, budget)
	}
	return result, rows.Err()
}

// Update rewrites a budget and replaces its links
func (r *BudgetRepository) Update(budget *domain.Budget) (*domain.Budget, error) {
	ctx := context.Background()
	value, err := decimalToPgNumeric(budget.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE budgets
		SET name = $2, value = $3, start_date = $4, end_date = $5, updated_at = now()
		WHERE id = $1`,
		budget.ID, budget.Name, value, timeToPgDate(budget.StartDate), timeToPgDate(budget.EndDate))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrBudgetNotFound
	}
	if err := writeBudgetLinks(ctx, tx, budget.ID, budget); err != nil {
		return nil, err
	}

	updated, err := getBudget(ctx, tx, budget.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

func (r *BudgetRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func writeBudgetLinks(ctx context.Context, q querier, id int32, budget *domain.Budget) error {
	if err := replaceLinks(ctx, q, "budget_categories", "budget_id", "category_id", id, budget.CategoryIDs); err != nil {
		return fmt.Errorf("failed to write budget categories: %w", err)
	}
	if err := replaceLinks(ctx, q, "budget_labels", "budget_id", "label_id", id, budget.LabelIDs); err != nil {
		return fmt.Errorf("failed to write budget labels: %w", err)
	}
	return nil
}

func getBudget(ctx context.Context, q querier, id int32) (*domain.Budget, error) {
	return scanBudget(q.QueryRow(ctx, `SELECT `+budgetColumns+` FROM budgets b WHERE b.id = $1`, id))
}

func scanBudget(row pgx.Row) (*domain.Budget, error) {
	var (
		budget     domain.Budget
		userID     pgtype.UUID
		value      pgtype.Numeric
		start, end pgtype.Date
	)
	err := row.Scan(&budget.ID, &userID, &budget.Name, &value, &start, &end,
		&budget.CategoryIDs, &budget.LabelIDs, &budget.CreatedAt, &budget.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBudgetNotFound
		}
		return nil, err
	}
	budget.UserID = uuid.UUID(userID.Bytes)
	budget.Value = pgNumericToDecimal(value)
	budget.StartDate = pgDateToTime(start)
	budget.EndDate = pgDateToTime(end)
	return &budget, nil
}
