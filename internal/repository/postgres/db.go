package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var num pgtype.Numeric
	if err := num.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return num, nil
}

func pgNumericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	if n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

// timeToPgDate stores the UTC calendar day of t
func timeToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{
		Time:  t.UTC(),
		Valid: true,
	}
}

func pgDateToTime(d pgtype.Date) time.Time {
	if !d.Valid {
		return time.Time{}
	}
	return d.Time
}

func uuidToPg(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgToUUIDPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

// nilIfEmpty turns an empty slice into a SQL NULL so "IS NULL OR = ANY" filters stay open
func nilIfEmpty(ids []int32) []int32 {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// replaceLinks rewrites a many-to-many link table for one owner row
func replaceLinks(ctx context.Context, q querier, table, ownerColumn, linkColumn string, ownerID int32, linkIDs []int32) error {
	if _, err := q.Exec(ctx, "DELETE FROM "+table+" WHERE "+ownerColumn+" = $1", ownerID); err != nil {
		return err
	}
	if len(linkIDs) == 0 {
		return nil
	}
	_, err := q.Exec(ctx,
		"INSERT INTO "+table+" ("+ownerColumn+", "+linkColumn+") SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING",
		ownerID, linkIDs)
	return err
}
