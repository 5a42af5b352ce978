package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	portsrepo "github.com/casafin/boarding_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/casafin/boarding_ledger_app/internal/core/ports/services"
	"github.com/casafin/boarding_ledger_app/internal/core/services"
	"github.com/casafin/boarding_ledger_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testARAccountCode = "1200"

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade
	cashAccount     domain.Account
	arAccount       domain.Account
	revenueAccount  domain.Account
	expenseAccount  domain.Account
	userID          string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockAccountRepo, testARAccountCode)

	suite.userID = uuid.NewString()

	suite.cashAccount = domain.Account{
		AccountCode:  "1000",
		Name:         "Cash on Hand",
		AccountType:  domain.Asset,
		CurrencyCode: "PHP",
		IsActive:     true,
	}
	suite.arAccount = domain.Account{
		AccountCode:  testARAccountCode,
		Name:         "Accounts Receivable",
		AccountType:  domain.Asset,
		CurrencyCode: "PHP",
		IsActive:     true,
	}
	suite.revenueAccount = domain.Account{
		AccountCode:  "4000",
		Name:         "Rental Income",
		AccountType:  domain.Revenue,
		CurrencyCode: "PHP",
		IsActive:     true,
	}
	suite.expenseAccount = domain.Account{
		AccountCode:  "5000",
		Name:         "Utilities Expense",
		AccountType:  domain.Expense,
		CurrencyCode: "PHP",
		IsActive:     true,
	}
}

func (suite *LedgerServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	m := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		m[a.AccountCode] = a
	}
	return m
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnInvoice,
		Date:            time.Now(),
		Description:     "Monthly rent for room 2B",
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		EnrollmentID:    "enr-1",
		Entries: []dto.EntryInput{
			{AccountCode: suite.arAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 20000},
			{AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 20000},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.arAccount.AccountCode, suite.revenueAccount.AccountCode}).
		Return(suite.accountsMap(suite.arAccount, suite.revenueAccount), nil).Once()

	var capturedChanges map[string]int64
	var capturedSubLedger *portsrepo.SubLedgerDelta
	suite.mockLedgerRepo.On("SaveTransaction", ctx,
		mock.AnythingOfType("domain.Transaction"),
		mock.AnythingOfType("[]domain.JournalEntry"),
		mock.AnythingOfType("map[string]int64"),
		mock.AnythingOfType("*repositories.SubLedgerDelta"),
	).Run(func(args mock.Arguments) {
		capturedChanges = args.Get(3).(map[string]int64)
		capturedSubLedger = args.Get(4).(*portsrepo.SubLedgerDelta)
	}).Return(nil).Once()

	posted, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(posted)
	suite.NotEmpty(posted.TransactionID)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.Equal(int64(20000), posted.AmountMinor)
	suite.Len(posted.Entries, 2)
	suite.Nil(posted.CorrectsTransactionID)

	// Debit to an asset raises its balance; credit to revenue raises revenue.
	suite.Equal(int64(20000), capturedChanges[suite.arAccount.AccountCode])
	suite.Equal(int64(20000), capturedChanges[suite.revenueAccount.AccountCode])

	// An invoice debiting AR pushes the student further into debt.
	suite.Require().NotNil(capturedSubLedger)
	suite.Equal("stu-1", capturedSubLedger.StudentID)
	suite.Equal(int64(-20000), capturedSubLedger.DeltaMinor)

	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_PaymentReducesStudentDebt() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnPayment,
		Date:            time.Now(),
		Description:     "Partial payment",
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		EnrollmentID:    "enr-1",
		Entries: []dto.EntryInput{
			{AccountCode: suite.cashAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 15000},
			{AccountCode: suite.arAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 15000},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.cashAccount.AccountCode, suite.arAccount.AccountCode}).
		Return(suite.accountsMap(suite.cashAccount, suite.arAccount), nil).Once()

	var capturedSubLedger *portsrepo.SubLedgerDelta
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedSubLedger = args.Get(4).(*portsrepo.SubLedgerDelta)
		}).Return(nil).Once()

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(capturedSubLedger)
	suite.Equal(int64(15000), capturedSubLedger.DeltaMinor)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_UnbalancedRejected() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnExpense,
		Date:            time.Now(),
		Description:     "Lopsided entries",
		CurrencyCode:    "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: suite.expenseAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 10000},
			{AccountCode: suite.cashAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 9000},
		},
	}

	posted, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnbalanced)
	suite.Nil(posted)
	// Nothing may reach the repository when validation fails.
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_ZeroAmountRejected() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnExpense,
		Date:            time.Now(),
		Description:     "Zero amount line",
		CurrencyCode:    "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: suite.expenseAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 0},
			{AccountCode: suite.cashAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 0},
		},
	}

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidEntryAmount)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_UnknownAccountRejected() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnExpense,
		Date:            time.Now(),
		Description:     "Typo in account code",
		CurrencyCode:    "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: "9999", EntryType: domain.Debit, AmountMinor: 5000},
			{AccountCode: suite.cashAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 5000},
		},
	}

	// The repository returns only the accounts it found.
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{"9999", suite.cashAccount.AccountCode}).
		Return(suite.accountsMap(suite.cashAccount), nil).Once()

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_InactiveAccountRejected() {
	ctx := context.Background()
	inactive := suite.cashAccount
	inactive.IsActive = false

	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnExpense,
		Date:            time.Now(),
		Description:     "Posting against retired account",
		CurrencyCode:    "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: suite.expenseAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 5000},
			{AccountCode: inactive.AccountCode, EntryType: domain.Credit, AmountMinor: 5000},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.expenseAccount.AccountCode, inactive.AccountCode}).
		Return(suite.accountsMap(suite.expenseAccount, inactive), nil).Once()

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_ShadowAccountRejected() {
	ctx := context.Background()
	shadow := domain.Account{
		AccountCode:       "1201",
		Name:              "Student Receivable Shadow",
		AccountType:       domain.Asset,
		CurrencyCode:      "PHP",
		IsActive:          true,
		IsSubledgerShadow: true,
	}

	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnInvoice,
		Date:            time.Now(),
		Description:     "Posting straight into the shadow",
		CurrencyCode:    "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: shadow.AccountCode, EntryType: domain.Debit, AmountMinor: 20000},
			{AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 20000},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{shadow.AccountCode, suite.revenueAccount.AccountCode}).
		Return(suite.accountsMap(shadow, suite.revenueAccount), nil).Once()

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_StudentWithoutEnrollmentRejected() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnInvoice,
		Date:            time.Now(),
		Description:     "Missing enrollment",
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		Entries: []dto.EntryInput{
			{AccountCode: suite.arAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 5000},
			{AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 5000},
		},
	}

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *LedgerServiceTestSuite) TestPostTransaction_StudentMustTouchControlAccount() {
	ctx := context.Background()
	req := dto.PostTransactionRequest{
		TransactionType: domain.TxnInvoice,
		Date:            time.Now(),
		Description:     "Student posting skipping AR",
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		EnrollmentID:    "enr-1",
		Entries: []dto.EntryInput{
			{AccountCode: suite.cashAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 5000},
			{AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 5000},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.cashAccount.AccountCode, suite.revenueAccount.AccountCode}).
		Return(suite.accountsMap(suite.cashAccount, suite.revenueAccount), nil).Once()

	_, err := suite.service.PostTransaction(ctx, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_Success() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Transaction{
		TransactionID:   originalID,
		TransactionType: domain.TxnInvoice,
		Status:          domain.StatusPosted,
		Description:     "Monthly rent",
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		EnrollmentID:    "enr-1",
		AmountMinor:     20000,
	}
	originalEntries := []domain.JournalEntry{
		{EntryID: uuid.NewString(), TransactionID: originalID, AccountCode: suite.arAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 20000},
		{EntryID: uuid.NewString(), TransactionID: originalID, AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 20000},
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, originalID).Return(original, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByTransactionID", ctx, originalID).Return(originalEntries, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.arAccount.AccountCode, suite.revenueAccount.AccountCode}).
		Return(suite.accountsMap(suite.arAccount, suite.revenueAccount), nil).Once()

	var capturedTxn domain.Transaction
	var capturedEntries []domain.JournalEntry
	var capturedSubLedger *portsrepo.SubLedgerDelta
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedTxn = args.Get(1).(domain.Transaction)
			capturedEntries = args.Get(2).([]domain.JournalEntry)
			capturedSubLedger = args.Get(4).(*portsrepo.SubLedgerDelta)
		}).Return(nil).Once()

	reversal, err := suite.service.VoidTransaction(ctx, originalID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.Require().NotNil(capturedTxn.ReversesTransactionID)
	suite.Equal(originalID, *capturedTxn.ReversesTransactionID)
	suite.Equal(domain.StatusPosted, capturedTxn.Status)

	// Each reversal entry mirrors the original on the opposite side.
	suite.Require().Len(capturedEntries, 2)
	suite.Equal(domain.Credit, capturedEntries[0].EntryType)
	suite.Equal(domain.Debit, capturedEntries[1].EntryType)
	suite.Equal(int64(20000), capturedEntries[0].AmountMinor)

	// Voiding the invoice restores the student's sub-ledger.
	suite.Require().NotNil(capturedSubLedger)
	suite.Equal(int64(20000), capturedSubLedger.DeltaMinor)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_AlreadyVoidedConflict() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Transaction{
		TransactionID:   originalID,
		TransactionType: domain.TxnInvoice,
		Status:          domain.StatusVoided,
		CurrencyCode:    "PHP",
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, originalID).Return(original, nil).Once()

	_, err := suite.service.VoidTransaction(ctx, originalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_ReversalNotVoidable() {
	ctx := context.Background()
	someID := uuid.NewString()
	reversalID := uuid.NewString()
	reversal := &domain.Transaction{
		TransactionID:         reversalID,
		TransactionType:       domain.TxnInvoice,
		Status:                domain.StatusPosted,
		CurrencyCode:          "PHP",
		ReversesTransactionID: &someID,
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, reversalID).Return(reversal, nil).Once()

	_, err := suite.service.VoidTransaction(ctx, reversalID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *LedgerServiceTestSuite) TestVoidTransaction_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.VoidTransaction(ctx, missingID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestPostCorrectingTransaction_LinksOriginal() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Transaction{
		TransactionID:   originalID,
		TransactionType: domain.TxnInvoice,
		Status:          domain.StatusPosted,
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		EnrollmentID:    "enr-1",
	}
	req := dto.CorrectTransactionRequest{
		Date:         time.Now(),
		Description:  "Overbilled by 50 pesos",
		CurrencyCode: "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 5000},
			{AccountCode: suite.arAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 5000},
		},
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, originalID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.revenueAccount.AccountCode, suite.arAccount.AccountCode}).
		Return(suite.accountsMap(suite.revenueAccount, suite.arAccount), nil).Once()

	var capturedTxn domain.Transaction
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedTxn = args.Get(1).(domain.Transaction)
		}).Return(nil).Once()

	correction, err := suite.service.PostCorrectingTransaction(ctx, originalID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(correction)
	suite.Equal(domain.TxnAdjustment, capturedTxn.TransactionType)
	suite.Require().NotNil(capturedTxn.CorrectsTransactionID)
	suite.Equal(originalID, *capturedTxn.CorrectsTransactionID)
	suite.Equal("stu-1", capturedTxn.StudentID)
}

func (suite *LedgerServiceTestSuite) TestPostCorrectingTransaction_DropsStudentLinkWhenAROmitted() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := &domain.Transaction{
		TransactionID:   originalID,
		TransactionType: domain.TxnInvoice,
		Status:          domain.StatusPosted,
		CurrencyCode:    "PHP",
		StudentID:       "stu-1",
		EnrollmentID:    "enr-1",
	}
	req := dto.CorrectTransactionRequest{
		Date:         time.Now(),
		Description:  "Reclass between revenue accounts",
		CurrencyCode: "PHP",
		Entries: []dto.EntryInput{
			{AccountCode: suite.revenueAccount.AccountCode, EntryType: domain.Debit, AmountMinor: 3000},
			{AccountCode: suite.cashAccount.AccountCode, EntryType: domain.Credit, AmountMinor: 3000},
		},
	}

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, originalID).Return(original, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByCodes", ctx, []string{suite.revenueAccount.AccountCode, suite.cashAccount.AccountCode}).
		Return(suite.accountsMap(suite.revenueAccount, suite.cashAccount), nil).Once()

	var capturedTxn domain.Transaction
	var capturedSubLedger *portsrepo.SubLedgerDelta
	suite.mockLedgerRepo.On("SaveTransaction", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedTxn = args.Get(1).(domain.Transaction)
			capturedSubLedger, _ = args.Get(4).(*portsrepo.SubLedgerDelta)
		}).Return(nil).Once()

	_, err := suite.service.PostCorrectingTransaction(ctx, originalID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Empty(capturedTxn.StudentID)
	suite.Nil(capturedSubLedger)
}

func (suite *LedgerServiceTestSuite) TestGetTransactionByID_NotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockLedgerRepo.On("FindTransactionByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.GetTransactionByID(ctx, missingID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()

	suite.mockLedgerRepo.On("ListTransactions", ctx, "", 20, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Empty(resp.Transactions)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
