package pgsql

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	"github.com/casafin/boarding_ledger_app/internal/models"
	"github.com/casafin/boarding_ledger_app/internal/utils/accounting"
	"github.com/casafin/boarding_ledger_app/internal/utils/mapping"
	"github.com/casafin/boarding_ledger_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, transaction_type, txn_date, status, boarding_house_id, reference, description, currency_code, student_id, enrollment_id, amount_minor, reverses_transaction_id, reversed_by_transaction_id, corrects_transaction_id, created_at, created_by, last_updated_at, last_updated_by`

const entryColumns = `entry_id, transaction_id, account_code, entry_type, amount_minor, memo, created_at, created_by, last_updated_at, last_updated_by, running_balance_minor`

type PgxLedgerRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxLedgerRepository creates a new repository for transaction and
// journal entry data.
func newPgxLedgerRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveTransaction persists a transaction with its entries, rebuilds the
// cached account balances and applies the sub-ledger delta within a single
// database transaction. For reversals it also marks the original VOIDED.
func (r *PgxLedgerRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.JournalEntry, balanceChanges map[string]int64, subLedger *portsrepo.SubLedgerDelta) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once committed

	now := txn.CreatedAt
	userID := txn.CreatedBy

	// 1. For a reversal, mark the original VOIDED first. The guarded
	// UPDATE makes double voiding lose the race cleanly.
	if txn.IsReversal() {
		voidQuery := `
			UPDATE transactions
			SET status = 'VOIDED',
			    reversed_by_transaction_id = $2,
			    last_updated_at = $3,
			    last_updated_by = $4
			WHERE transaction_id = $1 AND status = 'POSTED' AND reversed_by_transaction_id IS NULL;
		`
		cmdTag, err := tx.Exec(ctx, voidQuery, *txn.ReversesTransactionID, txn.TransactionID, now, userID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to mark transaction voided "+*txn.ReversesTransactionID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrConflict
		}
	}

	// 2. Insert the transaction header.
	m := mapping.ToModelTransaction(txn)
	txnQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, txnQuery,
		m.TransactionID,
		m.TransactionType,
		m.Date,
		m.Status,
		m.BoardingHouseID,
		m.Reference,
		m.Description,
		m.CurrencyCode,
		m.StudentID,
		m.EnrollmentID,
		m.AmountMinor,
		m.ReversesTransactionID,
		m.ReversedByTransactionID,
		m.CorrectsTransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}

	// 3. Lock the touched accounts and apply the cached balance deltas.
	accountCodes := make([]string, 0, len(balanceChanges))
	for code := range balanceChanges {
		accountCodes = append(accountCodes, code)
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, accountCodes)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}

	// 4. Insert the entries with per-account running balances, starting
	// from the balance each account held before this transaction.
	currentRunning := make(map[string]int64, len(lockedAccounts))
	for code, acc := range lockedAccounts {
		currentRunning[code] = acc.BalanceMinor
	}

	// Deterministic order for running balance calculation
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntryID < entries[j].EntryID
	})

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, entry := range entries {
		lockedAcc, ok := lockedAccounts[entry.AccountCode]
		if !ok {
			return apperrors.NewAppError(500, "internal error: locked account "+entry.AccountCode+" missing during entry processing", nil)
		}
		signed, err := accounting.SignedAmount(entry.EntryType, lockedAcc.AccountType, entry.AmountMinor)
		if err != nil {
			return apperrors.NewAppError(500, "failed to calculate signed amount for entry "+entry.EntryID, err)
		}
		currentRunning[entry.AccountCode] += signed

		me := mapping.ToModelJournalEntry(entry)
		me.RunningBalanceMinor = currentRunning[entry.AccountCode]
		batch.Queue(entryQuery,
			me.EntryID,
			me.TransactionID,
			me.AccountCode,
			me.EntryType,
			me.AmountMinor,
			me.Memo,
			me.CreatedAt,
			me.CreatedBy,
			me.LastUpdatedAt,
			me.LastUpdatedBy,
			me.RunningBalanceMinor,
		)
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute entry batch for transaction "+m.TransactionID, err)
	}

	// 5. Move the student sub-ledger. The enrollment feed creates rows; a
	// posting against a missing row is refused.
	if subLedger != nil {
		subQuery := `
			UPDATE student_subledger
			SET balance_minor = balance_minor + $3,
			    last_updated_at = $4,
			    last_updated_by = $5
			WHERE student_id = $1 AND enrollment_id = $2;
		`
		cmdTag, err := tx.Exec(ctx, subQuery, subLedger.StudentID, subLedger.EnrollmentID, subLedger.DeltaMinor, now, userID)
		if err != nil {
			return apperrors.NewAppError(500, "failed to apply sub-ledger delta for student "+subLedger.StudentID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction "+m.TransactionID, err)
	}
	return nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.TransactionType,
		&m.Date,
		&m.Status,
		&m.BoardingHouseID,
		&m.Reference,
		&m.Description,
		&m.CurrencyCode,
		&m.StudentID,
		&m.EnrollmentID,
		&m.AmountMinor,
		&m.ReversesTransactionID,
		&m.ReversedByTransactionID,
		&m.CorrectsTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TransactionID,
		&m.AccountCode,
		&m.EntryType,
		&m.AmountMinor,
		&m.Memo,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.RunningBalanceMinor,
	)
	return m, err
}

// FindTransactionByID retrieves a transaction header by its identifier.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// FindEntriesByTransactionID retrieves all journal entries of a transaction.
func (r *PgxLedgerRepository) FindEntriesByTransactionID(ctx context.Context, transactionID string) ([]domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE transaction_id = $1 ORDER BY entry_id;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for transaction "+transactionID, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for transaction "+transactionID, err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for transaction "+transactionID, err)
	}
	return entries, nil
}

// ListTransactions retrieves a paginated list of transactions, newest first,
// using token-based pagination on (txn_date, created_at).
func (r *PgxLedgerRepository) ListTransactions(ctx context.Context, boardingHouseID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + transactionColumns + ` FROM transactions WHERE ($1 = '' OR boarding_house_id = $1)`
	orderByClause := `ORDER BY txn_date DESC, created_at DESC`

	args := []interface{}{boardingHouseID}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (txn_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	modelTxns := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		modelTxns = append(modelTxns, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextTokenVal *string
	results := modelTxns
	if len(modelTxns) > limit {
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt)
		nextTokenVal = &token
		results = modelTxns[:limit]
	}

	transactions := make([]domain.Transaction, len(results))
	for i, m := range results {
		transactions[i] = mapping.ToDomainTransaction(m)
	}
	return transactions, nextTokenVal, nil
}

// ListEntriesByAccount retrieves a paginated list of journal entries posted
// against one account, newest first, using a (created_at, entry_id) cursor.
func (r *PgxLedgerRepository) ListEntriesByAccount(ctx context.Context, accountCode string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE account_code = $1`
	orderByClause := `ORDER BY created_at DESC, entry_id DESC`

	args := []interface{}{accountCode}
	query := baseQuery

	if nextToken != nil && *nextToken != "" {
		fields, decodeErr := pagination.DecodeMultiFieldToken(*nextToken)
		if decodeErr != nil || len(fields) != 2 {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastCreatedAt, parseErr := time.Parse(time.RFC3339Nano, fields[0])
		if parseErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", parseErr)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, fields[1])
	}
	query += " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for account "+accountCode, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for account "+accountCode, err)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for account "+accountCode, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeMultiFieldToken(last.CreatedAt.Format(time.RFC3339Nano), last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}
