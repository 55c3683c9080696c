package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/moneyflow/moneyflow-backend/internal/domain"
)

const transactionColumns = `t.id, t.wallet_id, t.receiver_wallet_id, t.category_id,
	COALESCE((SELECT array_agg(tl.label_id ORDER BY tl.label_id) FROM transaction_labels tl WHERE tl.transaction_id = t.id), '{}'),
	t.description, t.value, t.type, t.date, t.created_at, t.updated_at`

// transactionListWhere is shared by the page and count queries of ListByWallets
const transactionListWhere = `
	WHERE t.wallet_id = ANY($1)
	  AND ($2::int IS NULL OR t.wallet_id = $2)
	  AND ($3::int IS NULL OR t.category_id = $3)
	  AND ($4::text IS NULL OR t.type = $4)
	  AND ($5::timestamptz IS NULL OR t.date >= $5)
	  AND ($6::timestamptz IS NULL OR t.date <= $6)`

// TransactionRepository implements domain.TransactionRepository using PostgreSQL
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a transaction together with its labels
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	value, err := decimalToPgNumeric(transaction.Value)
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
		INSERT INTO transactions (wallet_id, receiver_wallet_id, category_id, description, value, type, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		transaction.WalletID, transaction.ReceiverWalletID, transaction.CategoryID,
		transaction.Description, value, string(transaction.Type), transaction.Date,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	if err := replaceLinks(ctx, tx, "transaction_labels", "transaction_id", "label_id", id, transaction.LabelIDs); err != nil {
		return nil, fmt.Errorf("failed to write labels: %w", err)
	}

	created, err := getTransaction(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(id int32) (*domain.Transaction, error) {
	return getTransaction(context.Background(), r.pool, id)
}

// ListByWallets retrieves transactions of the given wallets with optional filters and pagination
func (r *TransactionRepository) ListByWallets(walletIDs []int32, filters *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	ctx := context.Background()
	if filters == nil {
		filters = &domain.TransactionFilters{}
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = domain.DefaultPageSize
	}
	if pageSize > domain.MaxPageSize {
		pageSize = domain.MaxPageSize
	}

	var txType *string
	if filters.Type != nil {
		s := string(*filters.Type)
		txType = &s
	}
	args := []any{walletIDs, filters.WalletID, filters.CategoryID, txType, filters.StartDate, filters.EndDate}

	var totalItems int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t`+transactionListWhere, args...).Scan(&totalItems); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	offset := (page - 1) * pageSize
	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions t`+transactionListWhere+`
		ORDER BY t.date, t.id
		LIMIT $7 OFFSET $8`,
		append(args, pageSize, offset)...)
	if err != nil {
		return nil, err
	}
	data, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}

	totalPages := int32(totalItems / int64(pageSize))
	if totalItems%int64(pageSize) > 0 {
		totalPages++
	}

	return &domain.PaginatedTransactions{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// Update rewrites a transaction and its labels
func (r *TransactionRepository) Update(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	value, err := decimalToPgNumeric(transaction.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE transactions
		SET wallet_id = $2, receiver_wallet_id = $3, category_id = $4, description = $5,
		    value = $6, type = $7, date = $8, updated_at = now()
		WHERE id = $1`,
		transaction.ID, transaction.WalletID, transaction.ReceiverWalletID, transaction.CategoryID,
		transaction.Description, value, string(transaction.Type), transaction.Date)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	if err := replaceLinks(ctx, tx, "transaction_labels", "transaction_id", "label_id", transaction.ID, transaction.LabelIDs); err != nil {
		return nil, fmt.Errorf("failed to write labels: %w", err)
	}

	updated, err := getTransaction(ctx, tx, transaction.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return updated, nil
}

// Delete removes a transaction; label links cascade
func (r *TransactionRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// FindMatching returns the transactions selected by a report filter in date order
func (r *TransactionRepository) FindMatching(filter domain.ReportFilter) ([]*domain.Transaction, error) {
	var txType *string
	if filter.Type != nil {
		s := string(*filter.Type)
		txType = &s
	}

	rows, err := r.pool.Query(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions t
		WHERE t.wallet_id = ANY($1)
		  AND ($2::int[] IS NULL OR t.category_id = ANY($2))
		  AND ($3::text IS NULL OR t.type = $3)
		  AND ($4::timestamptz IS NULL OR t.date >= $4)
		  AND t.date <= $5
		ORDER BY t.date, t.id`,
		filter.WalletIDs, nilIfEmpty(filter.CategoryIDs), txType, filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

func getTransaction(ctx context.Context, q querier, id int32) (*domain.Transaction, error) {
	row := q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions t WHERE t.id = $1`, id)
	return scanTransaction(row)
}

func collectTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	defer rows.Close()

	result := []*domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, transaction)
	}
	return result, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		transaction domain.Transaction
		value       pgtype.Numeric
		txType      string
	)
	err := row.Scan(
		&transaction.ID,
		&transaction.WalletID,
		&transaction.ReceiverWalletID,
		&transaction.CategoryID,
		&transaction.LabelIDs,
		&transaction.Description,
		&value,
		&txType,
		&transaction.Date,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	transaction.Value = pgNumericToDecimal(value)
	transaction.Type = domain.TransactionType(txType)
	return &transaction, nil
}
