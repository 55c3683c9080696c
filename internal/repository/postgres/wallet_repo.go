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

const walletColumns = `id, user_id, name, color, amount, initial_amount, created_at, updated_at`

// WalletRepository implements domain.WalletRepository using PostgreSQL
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

// Create creates a new wallet
func (r *WalletRepository) Create(wallet *domain.Wallet) (*domain.Wallet, error) {
	amount, err := decimalToPgNumeric(wallet.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	initial, err := decimalToPgNumeric(wallet.InitialAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid initial amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		INSERT INTO wallets (user_id, name, color, amount, initial_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+walletColumns,
		uuidToPg(wallet.UserID), wallet.Name, wallet.Color, amount, initial)
	return scanWallet(row)
}

// GetByID retrieves a wallet by its ID
func (r *WalletRepository) GetByID(id int32) (*domain.Wallet, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	return scanWallet(row)
}

// GetAllByUser retrieves all wallets of a user ordered by ID
func (r *WalletRepository) GetAllByUser(userID uuid.UUID) ([]*domain.Wallet, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 ORDER BY id`, uuidToPg(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*domain.Wallet{}
	for rows.Next() {
		wallet, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, wallet)
	}
	return result, rows.Err()
}

// Save persists the mutable wallet fields, including the derived amount
func (r *WalletRepository) Save(wallet *domain.Wallet) (*domain.Wallet, error) {
	amount, err := decimalToPgNumeric(wallet.Amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}

	row := r.pool.QueryRow(context.Background(), `
		UPDATE wallets
		SET name = $2, color = $3, amount = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+walletColumns,
		wallet.ID, wallet.Name, wallet.Color, amount)
	return scanWallet(row)
}

// Delete removes a wallet; its transactions cascade
func (r *WalletRepository) Delete(id int32) error {
	tag, err := r.pool.Exec(context.Background(), `DELETE FROM wallets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

// GetTransactions returns every transaction whose source is the wallet
func (r *WalletRepository) GetTransactions(walletID int32) ([]*domain.Transaction, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.wallet_id = $1 ORDER BY t.date, t.id`, walletID)
	if err != nil {
		return nil, err
	}
	return collectTransactions(rows)
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var (
		wallet          domain.Wallet
		userID          pgtype.UUID
		amount, initial pgtype.Numeric
	)
	err := row.Scan(&wallet.ID, &userID, &wallet.Name, &wallet.Color, &amount, &initial, &wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	wallet.UserID = uuid.UUID(userID.Bytes)
	wallet.Amount = pgNumericToDecimal(amount)
	wallet.InitialAmount = pgNumericToDecimal(initial)
	return &wallet, nil
}
