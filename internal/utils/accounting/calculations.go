package accounting

import (
	"fmt"

	"github.com/casafin/boarding_ledger_app/internal/apperrors"
	"github.com/casafin/boarding_ledger_app/internal/core/domain"
)

// SignedAmount applies the correct sign to an entry amount based on the
// account's normal balance side. All amounts are minor currency units.
//
// DEBIT to a debit-normal account (ASSET/EXPENSE) increases it (+).
// CREDIT to a credit-normal account (LIABILITY/EQUITY/REVENUE) increases it (+).
// The opposite pairings decrease the balance (-).
func SignedAmount(entryType domain.EntryType, accountType domain.AccountType, amountMinor int64) (int64, error) {
	side, ok := accountType.NormalBalance()
	if !ok {
		return 0, fmt.Errorf("unknown account type %q", accountType)
	}

	increases := (entryType == domain.Debit && side == domain.DebitNormal) ||
		(entryType == domain.Credit && side == domain.CreditNormal)
	if increases {
		return amountMinor, nil
	}
	return -amountMinor, nil
}

// BalanceFromSums derives the signed balance of an account from its raw
// debit and credit totals: debits-minus-credits for debit-normal accounts,
// credits-minus-debits for credit-normal ones. This is the single formula
// behind every balance, trial balance column and report line in the system.
func BalanceFromSums(accountType domain.AccountType, debitSumMinor, creditSumMinor int64) (int64, error) {
	side, ok := accountType.NormalBalance()
	if !ok {
		return 0, fmt.Errorf("unknown account type %q", accountType)
	}
	if side == domain.DebitNormal {
		return debitSumMinor - creditSumMinor, nil
	}
	return creditSumMinor - debitSumMinor, nil
}

// TrialBalanceColumns places a signed balance into the debit or credit
// column of a trial balance. A positive balance sits on the account's normal
// side; a negative balance flips to the other column.
func TrialBalanceColumns(accountType domain.AccountType, balanceMinor int64) (debitMinor, creditMinor int64, err error) {
	side, ok := accountType.NormalBalance()
	if !ok {
		return 0, 0, fmt.Errorf("unknown account type %q", accountType)
	}

	if side == domain.DebitNormal {
		if balanceMinor >= 0 {
			return balanceMinor, 0, nil
		}
		return 0, -balanceMinor, nil
	}
	if balanceMinor >= 0 {
		return 0, balanceMinor, nil
	}
	return -balanceMinor, 0, nil
}

// ValidateEntries checks the double-entry preconditions for posting:
// at least two entries touching at least two accounts, every amount strictly
// positive, and total debits exactly equal to total credits. Amounts are
// integers in minor units, so the equality check carries no tolerance.
func ValidateEntries(entries []domain.JournalEntry) error {
	if len(entries) < 2 {
		return fmt.Errorf("%w: a transaction requires at least two entries", apperrors.ErrValidation)
	}

	accounts := make(map[string]struct{}, len(entries))
	var debitSum, creditSum int64
	for _, e := range entries {
		if e.AmountMinor <= 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrInvalidEntryAmount, e.AccountCode)
		}
		switch e.EntryType {
		case domain.Debit:
			debitSum += e.AmountMinor
		case domain.Credit:
			creditSum += e.AmountMinor
		default:
			return fmt.Errorf("%w: unknown entry type %q", apperrors.ErrValidation, e.EntryType)
		}
		accounts[e.AccountCode] = struct{}{}
	}

	if len(accounts) < 2 {
		return fmt.Errorf("%w: a transaction must affect at least two accounts", apperrors.ErrValidation)
	}

	if debitSum != creditSum {
		return fmt.Errorf("%w: debits sum to %d and credits sum to %d", apperrors.ErrUnbalanced, debitSum, creditSum)
	}

	return nil
}

// DebitTotal returns the economic value of a balanced entry set (the sum of
// its debit side), used as the informational transaction amount.
func DebitTotal(entries []domain.JournalEntry) int64 {
	var total int64
	for _, e := range entries {
		if e.EntryType == domain.Debit {
			total += e.AmountMinor
		}
	}
	return total
}
