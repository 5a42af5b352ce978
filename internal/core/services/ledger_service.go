package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/casafin/boarding_ledger_app/internal/middleware"
	"github.com/casafin/boarding_ledger_app/internal/utils/accounting"
)

// ledgerService provides journal posting and retrieval operations.
type ledgerService struct {
	BaseService
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	arAccountCode string
}

// NewLedgerService creates a new ledger service. arAccountCode names the
// accounts receivable control account that student postings flow through.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, arAccountCode string) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:    ledgerRepo,
		accountRepo:   accountRepo,
		arAccountCode: arAccountCode,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// buildEntries converts entry inputs into domain journal entries belonging
// to the given transaction.
func buildEntries(inputs []dto.EntryInput, transactionID string, userID string, now time.Time) []domain.JournalEntry {
	entries := make([]domain.JournalEntry, len(inputs))
	for i, in := range inputs {
		entries[i] = domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: transactionID,
			AccountCode:   in.AccountCode,
			EntryType:     in.EntryType,
			AmountMinor:   in.AmountMinor,
			Memo:          in.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return entries
}

// resolveAccounts fetches the accounts an entry set touches and verifies
// that every one exists, is active, is postable and carries the
// transaction's currency. Sub-ledger shadow accounts are not postable:
// receivables flow through the control account only, and a direct posting
// against a shadow would double count them.
func (s *ledgerService) resolveAccounts(ctx context.Context, entries []domain.JournalEntry, currencyCode string) (map[string]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	codes := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountCode]; ok {
			continue
		}
		seen[e.AccountCode] = struct{}{}
		codes = append(codes, e.AccountCode)
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for _, code := range codes {
		acc, found := accounts[code]
		if !found {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, code)
		}
		if !acc.IsActive {
			return nil, fmt.Errorf("%w: %s is inactive", apperrors.ErrUnknownAccount, code)
		}
		if acc.IsSubledgerShadow {
			return nil, fmt.Errorf("%w: %s is a sub-ledger shadow account, post against the control account instead", apperrors.ErrValidation, code)
		}
		if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("%w: account %s carries %s, transaction is in %s", apperrors.ErrValidation, code, acc.CurrencyCode, currencyCode)
		}
	}
	return accounts, nil
}

// balanceChangesFor computes the signed cached-balance delta per account for
// a balanced entry set.
func balanceChangesFor(entries []domain.JournalEntry, accounts map[string]domain.Account) (map[string]int64, error) {
	changes := make(map[string]int64, len(accounts))
	for _, e := range entries {
		acc := accounts[e.AccountCode]
		signed, err := accounting.SignedAmount(e.EntryType, acc.AccountType, e.AmountMinor)
		if err != nil {
			return nil, fmt.Errorf("internal error calculating balance changes: %w", err)
		}
		changes[e.AccountCode] += signed
	}
	return changes, nil
}

// subLedgerDeltaFor derives the student sub-ledger movement from the entries
// posted against the accounts receivable control account. A debit to AR
// means the student owes more, which pushes the sub-ledger balance down
// (negative means debtor), so the delta is credits minus debits.
func (s *ledgerService) subLedgerDeltaFor(txn domain.Transaction, entries []domain.JournalEntry) *portsrepo.SubLedgerDelta {
	if txn.StudentID == "" {
		return nil
	}
	var delta int64
	for _, e := range entries {
		if e.AccountCode != s.arAccountCode {
			continue
		}
		if e.EntryType == domain.Credit {
			delta += e.AmountMinor
		} else {
			delta -= e.AmountMinor
		}
	}
	return &portsrepo.SubLedgerDelta{
		StudentID:    txn.StudentID,
		EnrollmentID: txn.EnrollmentID,
		DeltaMinor:   delta,
	}
}

// PostTransaction validates and atomically posts a balanced set of journal
// entries. The draft exists only in memory; it becomes POSTED inside the
// single repository call, and a rejected transaction leaves no rows behind.
func (s *ledgerService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest, creatorUserID string) (*domain.Transaction, error) {
	return s.post(ctx, req, nil, creatorUserID)
}

// post is the single posting path shared by regular and correcting
// transactions. correctsID links the new transaction to the one it repairs.
func (s *ledgerService) post(ctx context.Context, req dto.PostTransactionRequest, correctsID *string, creatorUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if (req.StudentID == "") != (req.EnrollmentID == "") {
		return nil, fmt.Errorf("%w: studentID and enrollmentID must be provided together", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()
	entries := buildEntries(req.Entries, transactionID, creatorUserID, now)

	if err := accounting.ValidateEntries(entries); err != nil {
		return nil, err
	}

	accounts, err := s.resolveAccounts(ctx, entries, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	// A student-linked posting must move the AR control account, otherwise
	// the sub-ledger and the control account would drift apart.
	if req.StudentID != "" {
		touchesAR := false
		for _, e := range entries {
			if e.AccountCode == s.arAccountCode {
				touchesAR = true
				break
			}
		}
		if !touchesAR {
			return nil, fmt.Errorf("%w: student-linked transactions must post against control account %s", apperrors.ErrValidation, s.arAccountCode)
		}
	}

	balanceChanges, err := balanceChangesFor(entries, accounts)
	if err != nil {
		logger.Error("Error calculating signed amounts during posting", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:         transactionID,
		TransactionType:       req.TransactionType,
		Date:                  req.Date,
		Status:                domain.StatusPosted,
		BoardingHouseID:       req.BoardingHouseID,
		Reference:             req.Reference,
		Description:           req.Description,
		CurrencyCode:          req.CurrencyCode,
		StudentID:             req.StudentID,
		EnrollmentID:          req.EnrollmentID,
		AmountMinor:           accounting.DebitTotal(entries),
		CorrectsTransactionID: correctsID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	subLedger := s.subLedgerDeltaFor(txn, entries)

	if err := s.ledgerRepo.SaveTransaction(ctx, txn, entries, balanceChanges, subLedger); err != nil {
		logger.Error("Failed to save transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	logger.Info("Transaction posted successfully", slog.String("transaction_id", transactionID), slog.String("transaction_type", string(txn.TransactionType)), slog.Int64("amount_minor", txn.AmountMinor))
	txn.Entries = entries
	return &txn, nil
}

// GetTransactionByID retrieves a transaction with its entries.
func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find transaction by ID", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	entries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch entries for transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to retrieve entries for transaction %s: %w", transactionID, apperrors.ErrInternal)
	}
	txn.Entries = entries

	return txn, nil
}

// validateVoidTarget fetches the transaction to void and checks it is a
// posted, non-reversal transaction that has not already been voided.
func (s *ledgerService) validateVoidTarget(ctx context.Context, transactionID string) (*domain.Transaction, []domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found for void", slog.String("transaction_id", transactionID))
			return nil, nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch transaction for void", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	if original.Status != domain.StatusPosted {
		logger.Warn("Attempted to void non-posted transaction", slog.String("transaction_id", transactionID), slog.String("status", string(original.Status)))
		return nil, nil, fmt.Errorf("%w: transaction status is %s, expected POSTED", apperrors.ErrConflict, original.Status)
	}
	if original.IsReversal() {
		return nil, nil, fmt.Errorf("%w: cannot void a reversal transaction", apperrors.ErrConflict)
	}
	if original.ReversedByTransactionID != nil {
		return nil, nil, fmt.Errorf("%w: transaction is already voided by %s", apperrors.ErrConflict, *original.ReversedByTransactionID)
	}

	entries, err := s.ledgerRepo.FindEntriesByTransactionID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch entries for void", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, nil, fmt.Errorf("failed to retrieve original entries: %w", err)
	}
	return original, entries, nil
}

// VoidTransaction posts a fully offsetting reversal of a posted transaction
// and marks the original VOIDED, atomically. The original's entries are
// never edited; the reversal mirrors each of them on the opposite side.
func (s *ledgerService) VoidTransaction(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, originalEntries, err := s.validateVoidTarget(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	reversalEntries := make([]domain.JournalEntry, len(originalEntries))
	for i, orig := range originalEntries {
		reversalEntries[i] = domain.JournalEntry{
			EntryID:       uuid.NewString(),
			TransactionID: reversalID,
			AccountCode:   orig.AccountCode,
			EntryType:     orig.EntryType.Opposite(),
			AmountMinor:   orig.AmountMinor,
			Memo:          orig.Memo,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	accounts, err := s.resolveAccounts(ctx, reversalEntries, original.CurrencyCode)
	if err != nil {
		return nil, err
	}
	balanceChanges, err := balanceChangesFor(reversalEntries, accounts)
	if err != nil {
		logger.Error("Error calculating signed amounts for reversal", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, err
	}

	reversal := domain.Transaction{
		TransactionID:         reversalID,
		TransactionType:       original.TransactionType,
		Date:                  now,
		Status:                domain.StatusPosted,
		BoardingHouseID:       original.BoardingHouseID,
		Reference:             original.Reference,
		Description:           fmt.Sprintf("Reversal of: %s", original.Description),
		CurrencyCode:          original.CurrencyCode,
		StudentID:             original.StudentID,
		EnrollmentID:          original.EnrollmentID,
		AmountMinor:           original.AmountMinor,
		ReversesTransactionID: &original.TransactionID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	subLedger := s.subLedgerDeltaFor(reversal, reversalEntries)

	// The repository marks the original VOIDED in the same database
	// transaction that inserts the reversal.
	if err := s.ledgerRepo.SaveTransaction(ctx, reversal, reversalEntries, balanceChanges, subLedger); err != nil {
		logger.Error("Failed to save reversal transaction", slog.String("error", err.Error()), slog.String("original_transaction_id", transactionID))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	logger.Info("Transaction voided successfully", slog.String("transaction_id", transactionID), slog.String("reversal_transaction_id", reversalID))
	reversal.Entries = reversalEntries
	return &reversal, nil
}

// PostCorrectingTransaction posts an ADJUSTMENT transaction linked to the
// transaction being corrected. The original stays untouched.
func (s *ledgerService) PostCorrectingTransaction(ctx context.Context, transactionID string, req dto.CorrectTransactionRequest, userID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.ledgerRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found for correction", slog.String("transaction_id", transactionID))
			return nil, apperrors.ErrNotFound
		}
		logger.Error("Failed to fetch transaction for correction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	postReq := dto.PostTransactionRequest{
		TransactionType: domain.TxnAdjustment,
		Date:            req.Date,
		BoardingHouseID: original.BoardingHouseID,
		Reference:       req.Reference,
		Description:     req.Description,
		CurrencyCode:    req.CurrencyCode,
		StudentID:       original.StudentID,
		EnrollmentID:    original.EnrollmentID,
		Entries:         req.Entries,
	}

	// A correction of a non-student transaction has no sub-ledger link even
	// if the adjusting entries skip the control account.
	if original.StudentID != "" {
		touchesAR := false
		for _, e := range req.Entries {
			if e.AccountCode == s.arAccountCode {
				touchesAR = true
				break
			}
		}
		if !touchesAR {
			postReq.StudentID = ""
			postReq.EnrollmentID = ""
		}
	}

	correction, err := s.post(ctx, postReq, &original.TransactionID, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Correcting transaction posted", slog.String("original_transaction_id", transactionID), slog.String("correction_transaction_id", correction.TransactionID))
	return correction, nil
}

// ListTransactions retrieves a paginated list of transactions.
func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions, nextToken, err := s.ledgerRepo.ListTransactions(ctx, params.BoardingHouseID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions from repository", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	responses := make([]dto.TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = dto.ToTransactionResponse(&transactions[i])
	}

	logger.Debug("Transactions listed successfully", slog.Int("count", len(transactions)))
	return &dto.ListTransactionsResponse{
		Transactions: responses,
		NextToken:    nextToken,
	}, nil
}

// ListEntriesByAccount retrieves a paginated ledger statement for one account.
func (s *ledgerService) ListEntriesByAccount(ctx context.Context, accountCode string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.accountRepo.FindAccountByCode(ctx, accountCode); err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountCode, err)
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByAccount(ctx, accountCode, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list entries by account", slog.String("error", err.Error()), slog.String("account_code", accountCode))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	return &dto.ListEntriesResponse{
		AccountCode: accountCode,
		Entries:     dto.ToEntryResponses(entries),
		NextToken:   nextToken,
	}, nil
}
