package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
)

const categoryColumns = `c.id, c.user_id, c.name, c.color, c.icon, c.created_at, c.updated_at`

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create creates a user-owned category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	var userID pgtype.UUID
	if category.UserID != nil {
		userID = uuidToPg(*category.UserID)
	}
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO categories AS c (user_id, name, color, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING `+categoryColumns,
		userID, category.Name, category.Color, category.Icon)
	return scanCategory(row)
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(id int32) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = $1`, id)
	return scanCategory(row)
}

// ListForUser returns global categories followed by the user's own, each with
// the count and signed sum of the user's transactions in that category
func (r *CategoryRepository) ListForUser(userID uuid.UUID) ([]*domain.Category, error) {
	rows, err := r.pool.Query(context.Background(), `
		SELECT `+categoryColumns+`,
		       COUNT(t.id),
		       COALESCE(SUM(CASE WHEN t.type = 'EXPENSE' THEN -t.value ELSE t.value END), 0)
		FROM categories c
		LEFT JOIN transactions t
		       ON t.category_id = c.id
		      AND t.wallet_id IN (SELECT w.id FROM wallets w WHERE w.user_id = $1)
		WHERE c.user_id IS NULL OR c.user_id = $1
		GROUP BY c.id
		ORDER BY (c.user_id IS NOT NULL), c.id`,
		uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Category{}
	for rows.Next() {
		var (
			category domain.Category
			owner    pgtype.UUID
			balance  pgtype.Numeric
		)
		err := rows.Scan(&category.ID, &owner, &category.Name, &category.Color, &category.Icon,
			&category.CreatedAt, &category.UpdatedAt, &category.TransactionCount, &balance)
		if err != nil {
			return nil, err
		}
		category.UserID = pgToUUIDPtr(owner)
		category.Balance = pgNumericToDecimal(balance)
		result = append(result, &category)
	}
	return result, rows.Err()
}

// Update rewrites a category's name, color and icon
func (r *CategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE categories AS c
		SET name = $2, color = $3, icon = $4, updated_at = now()
		WHERE c.id = $1
		RETURNING `+categoryColumns,
		category.ID, category.Name, category.Color, category.Icon)
	return scanCategory(row)
}

// Delete removes a category; transactions keep existing uncategorized
func (r *CategoryRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var (
		category domain.Category
		owner    pgtype.UUID
	)
	err := row.Scan(&category.ID, &owner, &category.Name, &category.Color, &category.Icon, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	category.UserID = pgToUUIDPtr(owner)
	return &category, nil
}
