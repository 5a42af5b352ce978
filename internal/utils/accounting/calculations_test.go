package accounting_test

import (
	"testing"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
	"github.com/casafin/boarding_ledger_app/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		entryType   domain.EntryType
		accountType domain.AccountType
		amount      int64
		want        int64
	}{
		{"debit increases asset", domain.Debit, domain.Asset, 10000, 10000},
		{"credit decreases asset", domain.Credit, domain.Asset, 10000, -10000},
		{"debit increases expense", domain.Debit, domain.Expense, 500, 500},
		{"credit increases liability", domain.Credit, domain.Liability, 7500, 7500},
		{"debit decreases liability", domain.Debit, domain.Liability, 7500, -7500},
		{"credit increases revenue", domain.Credit, domain.Revenue, 20000, 20000},
		{"debit decreases revenue", domain.Debit, domain.Revenue, 20000, -20000},
		{"credit increases equity", domain.Credit, domain.Equity, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedAmount(tt.entryType, tt.accountType, tt.amount)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := accounting.SignedAmount(domain.Debit, domain.AccountType("SUSPENSE"), 100)
	assert.Error(t, err)
}

func TestBalanceFromSums(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		debits      int64
		credits     int64
		want        int64
	}{
		{"asset nets debits minus credits", domain.Asset, 20000, 15000, 5000},
		{"asset can go negative", domain.Asset, 1000, 2500, -1500},
		{"revenue nets credits minus debits", domain.Revenue, 500, 20000, 19500},
		{"liability nets credits minus debits", domain.Liability, 0, 7500, 7500},
		{"expense nets debits minus credits", domain.Expense, 3000, 0, 3000},
		{"untouched account is zero", domain.Equity, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.BalanceFromSums(tt.accountType, tt.debits, tt.credits)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrialBalanceColumns(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		balance     int64
		wantDebit   int64
		wantCredit  int64
	}{
		{"positive asset balance sits in debit column", domain.Asset, 5000, 5000, 0},
		{"negative asset balance flips to credit column", domain.Asset, -1500, 0, 1500},
		{"positive revenue balance sits in credit column", domain.Revenue, 20000, 0, 20000},
		{"negative liability balance flips to debit column", domain.Liability, -300, 300, 0},
		{"zero balance occupies the normal side", domain.Expense, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit, err := accounting.TrialBalanceColumns(tt.accountType, tt.balance)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebit, debit)
			assert.Equal(t, tt.wantCredit, credit)
		})
	}
}

func entry(account string, entryType domain.EntryType, amount int64) domain.JournalEntry {
	return domain.JournalEntry{AccountCode: account, EntryType: entryType, AmountMinor: amount}
}

func TestValidateEntries(t *testing.T) {
	t.Run("balanced pair passes", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1200", domain.Debit, 20000),
			entry("4000", domain.Credit, 20000),
		})
		assert.NoError(t, err)
	})

	t.Run("balanced split passes", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.Debit, 15000),
			entry("1200", domain.Debit, 5000),
			entry("4000", domain.Credit, 20000),
		})
		assert.NoError(t, err)
	})

	t.Run("single entry rejected", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.Debit, 100),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("single account rejected", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.Debit, 100),
			entry("1000", domain.Credit, 100),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("unbalanced rejected exactly", func(t *testing.T) {
		// One minor unit off must fail; there is no tolerance.
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.Debit, 10000),
			entry("4000", domain.Credit, 9999),
		})
		assert.ErrorIs(t, err, apperrors.ErrUnbalanced)
	})

	t.Run("zero amount rejected", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.Debit, 0),
			entry("4000", domain.Credit, 0),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidEntryAmount)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.Debit, -100),
			entry("4000", domain.Credit, -100),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidEntryAmount)
	})

	t.Run("unknown entry type rejected", func(t *testing.T) {
		err := accounting.ValidateEntries([]domain.JournalEntry{
			entry("1000", domain.EntryType("TRANSFER"), 100),
			entry("4000", domain.Credit, 100),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestDebitTotal(t *testing.T) {
	total := accounting.DebitTotal([]domain.JournalEntry{
		entry("1000", domain.Debit, 15000),
		entry("1200", domain.Debit, 5000),
		entry("4000", domain.Credit, 20000),
	})
	assert.Equal(t, int64(20000), total)
}
