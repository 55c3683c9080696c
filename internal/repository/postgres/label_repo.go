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

const labelColumns = `id, user_id, name, color, created_at, updated_at`

// LabelRepository implements domain.LabelRepository using PostgreSQL
type LabelRepository struct {
	pool *pgxpool.Pool
}

// NewLabelRepository creates a new LabelRepository
func NewLabelRepository(pool *pgxpool.Pool) *LabelRepository {
	return &LabelRepository{pool: pool}
}

func (r *LabelRepository) Create(label *domain.Label) (*domain.Label, error) {
	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO labels (user_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING `+labelColumns,
		uuidToPg(label.UserID), label.Name, label.Color)
	return scanLabel(row)
}

func (r *LabelRepository) GetByID(id int32) (*domain.Label, error) {
	row := r.pool.QueryRow(context.Background(), `SELECT `+labelColumns+` FROM labels WHERE id = $1`, id)
	return scanLabel(row)
}

func (r *LabelRepository) ListForUser(userID uuid.UUID) ([]*domain.Label, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+labelColumns+` FROM labels WHERE user_id = $1 ORDER BY id`, uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Label{}
	for rows.Next() {
		label, err := scanLabel(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, label)
	}
	return result, rows.Err()
}

func (r *LabelRepository) Update(label *domain.Label) (*domain.Label, error) {
	row := r.pool.QueryRow(context.Background(), `
		UPDATE labels SET name = $2, color = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+labelColumns,
		label.ID, label.Name, label.Color)
	return scanLabel(row)
}

func (r *LabelRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLabelNotFound
	}
	return nil
}

func scanLabel(row pgx.Row) (*domain.Label, error) {
	var (
		label  domain.Label
		userID pgtype.UUID
	)
	if err := row.Scan(&label.ID, &userID, &label.Name, &label.Color, &label.CreatedAt, &label.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLabelNotFound
		}
		return nil, err
	}
	label.UserID = uuid.UUID(userID.Bytes)
	return &label, nil
}
