package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface.
//
// Every aggregate counts only POSTED, non-reversal transactions. A voided
// transaction and its reversal are excluded as a pair: the original is no
// longer POSTED and the reversal carries reverses_transaction_id. That pair
// nets to zero in the cached balances too, so both views stay consistent.
type reportingRepository struct {
	BaseRepository
	q rowQuerier
}

// rowQuerier is the read surface shared by pgxpool.Pool and pgx.Tx, so the
// same queries run either directly on the pool or pinned to a snapshot.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
		q:              db,
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// InSnapshot runs fn against a view of this repository bound to one
// repeatable-read, read-only transaction. Every aggregate fn reads through
// the view observes the same committed state of the journal.
func (r *reportingRepository) InSnapshot(ctx context.Context, fn func(portsrepo.ReportingRepository) error) error {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin report snapshot", err)
	}
	defer tx.Rollback(ctx)

	view := &reportingRepository{BaseRepository: r.BaseRepository, q: tx}
	if err := fn(view); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to close report snapshot", err)
	}
	return nil
}

// ListActiveShadowAccountCodes returns the codes of active accounts flagged
// as sub-ledger shadows.
func (r *reportingRepository) ListActiveShadowAccountCodes(ctx context.Context) ([]string, error) {
	query := `SELECT account_code FROM accounts WHERE is_subledger_shadow AND is_active ORDER BY account_code;`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query shadow accounts", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan shadow account row", err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating shadow account rows", err)
	}
	return codes, nil
}

const postedFilter = `t.status = 'POSTED' AND t.reverses_transaction_id IS NULL`

func scanActivityRows(rows pgx.Rows) ([]domain.AccountActivity, error) {
	var result []domain.AccountActivity
	for rows.Next() {
		var row domain.AccountActivity
		var accountType string
		if err := rows.Scan(
			&row.AccountCode,
			&row.AccountName,
			&accountType,
			&row.DebitMinor,
			&row.CreditMinor,
		); err != nil {
			return nil, fmt.Errorf("error scanning account activity row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account activity rows: %w", err)
	}
	if len(result) == 0 {
		return []domain.AccountActivity{}, nil
	}
	return result, nil
}

// GetAccountActivity returns per-account debit/credit totals of all posted
// entries dated up to asOf, optionally scoped to a boarding house.
func (r *reportingRepository) GetAccountActivity(ctx context.Context, boardingHouseID string, asOf time.Time) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_code,
			a.name AS account_name,
			a.account_type,
			SUM(CASE WHEN e.entry_type = 'DEBIT' THEN e.amount_minor ELSE 0 END) AS total_debit,
			SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount_minor ELSE 0 END) AS total_credit
		FROM journal_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		JOIN accounts a ON e.account_code = a.account_code
		WHERE t.txn_date <= $1
			AND ($2 = '' OR t.boarding_house_id = $2)
			AND ` + postedFilter + `
		GROUP BY a.account_code, a.name, a.account_type
	`

	rows, err := r.q.Query(ctx, query, asOf, boardingHouseID)
	if err != nil {
		return nil, fmt.Errorf("error querying account activity: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}

// GetPeriodActivity returns per-account debit/credit totals for posted
// entries dated within [from, to], restricted to the given account types.
func (r *reportingRepository) GetPeriodActivity(ctx context.Context, boardingHouseID string, from, to time.Time, types []domain.AccountType) ([]domain.AccountActivity, error) {
	typeStrings := make([]string, len(types))
	for i, t := range types {
		typeStrings[i] = string(t)
	}

	query := `
		SELECT
			a.account_code,
			a.name AS account_name,
			a.account_type,
			SUM(CASE WHEN e.entry_type = 'DEBIT' THEN e.amount_minor ELSE 0 END) AS total_debit,
			SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount_minor ELSE 0 END) AS total_credit
		FROM journal_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		JOIN accounts a ON e.account_code = a.account_code
		WHERE t.txn_date >= $1 AND t.txn_date <= $2
			AND ($3 = '' OR t.boarding_house_id = $3)
			AND a.account_type = ANY($4)
			AND ` + postedFilter + `
		GROUP BY a.account_code, a.name, a.account_type
	`

	rows, err := r.q.Query(ctx, query, from, to, boardingHouseID, typeStrings)
	if err != nil {
		return nil, fmt.Errorf("error querying period activity: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}

// GetAccountBalanceSums returns the debit and credit totals for one account,
// up to asOf when non-nil, otherwise unbounded.
func (r *reportingRepository) GetAccountBalanceSums(ctx context.Context, accountCode string, asOf *time.Time) (int64, int64, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN e.entry_type = 'DEBIT' THEN e.amount_minor ELSE 0 END), 0) AS total_debit,
			COALESCE(SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount_minor ELSE 0 END), 0) AS total_credit
		FROM journal_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		WHERE e.account_code = $1
			AND ($2::timestamptz IS NULL OR t.txn_date <= $2)
			AND ` + postedFilter + `
	`

	var debitMinor, creditMinor int64
	err := r.q.QueryRow(ctx, query, accountCode, asOf).Scan(&debitMinor, &creditMinor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, nil
		}
		return 0, 0, apperrors.NewAppError(500, "failed to aggregate balance sums for account "+accountCode, err)
	}
	return debitMinor, creditMinor, nil
}

// GetAllAccountBalanceSums returns debit/credit totals for every account
// with activity, used to verify cached balances against the journal.
func (r *reportingRepository) GetAllAccountBalanceSums(ctx context.Context) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_code,
			a.name AS account_name,
			a.account_type,
			SUM(CASE WHEN e.entry_type = 'DEBIT' THEN e.amount_minor ELSE 0 END) AS total_debit,
			SUM(CASE WHEN e.entry_type = 'CREDIT' THEN e.amount_minor ELSE 0 END) AS total_credit
		FROM journal_entries e
		JOIN transactions t ON e.transaction_id = t.transaction_id
		JOIN accounts a ON e.account_code = a.account_code
		WHERE ` + postedFilter + `
		GROUP BY a.account_code, a.name, a.account_type
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying all account balance sums: %w", err)
	}
	defer rows.Close()

	return scanActivityRows(rows)
}
