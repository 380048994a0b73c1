package accounting

import (
	"fmt"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Side is the side of an entry an account is posted on.
type Side int

const (
	Debit Side = iota
	Credit
)

var hundred = decimal.NewFromInt(100)

// SignedAmount returns the balance delta of posting amount to an account of
// the given type on the given side. Asset accounts increase on debit and
// decrease on credit; every other type does the opposite.
func SignedAmount(side Side, accountType domain.AccountType, amount int64) int64 {
	isAsset := accountType == domain.Asset
	if (side == Debit) == isAsset {
		return amount
	}
	return -amount
}

// ApplyEntry validates a posting against the two locked accounts and returns
// their balances after the posting. Neither account is modified.
func ApplyEntry(debit, credit *domain.LedgerAccount, amount int64) (newDebit int64, newCredit int64, err error) {
	if amount <= 0 {
		return 0, 0, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrValidation, amount)
	}
	if !debit.IsActive {
		return 0, 0, fmt.Errorf("%w: %s", apperrors.ErrInactiveAccount, debit.AccountID)
	}
	if !credit.IsActive {
		return 0, 0, fmt.Errorf("%w: %s", apperrors.ErrInactiveAccount, credit.AccountID)
	}

	newDebit = debit.CachedBalance + SignedAmount(Debit, debit.AccountType, amount)
	newCredit = credit.CachedBalance + SignedAmount(Credit, credit.AccountType, amount)

	if credit.AccountType == domain.Asset && newCredit < 0 {
		return 0, 0, &apperrors.InsufficientFundsError{
			AccountID: credit.AccountID,
			Balance:   credit.CachedBalance,
			Requested: amount,
		}
	}
	return newDebit, newCredit, nil
}

// BalanceFromActivity recomputes a balance from the account's summed journal activity.
func BalanceFromActivity(accountType domain.AccountType, activity domain.AccountActivity) int64 {
	return SignedAmount(Debit, accountType, activity.DebitTotal) + SignedAmount(Credit, accountType, activity.CreditTotal)
}

// ToCents converts a decimal currency amount to integer cents, rounding to the
// nearest cent with halves away from zero.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// PositiveCents converts amount to cents and rejects anything that rounds to zero or below.
func PositiveCents(amount decimal.Decimal) (int64, error) {
	cents := ToCents(amount)
	if cents <= 0 {
		return 0, fmt.Errorf("%w: amount must be at least one cent, got %s", apperrors.ErrValidation, amount.String())
	}
	return cents, nil
}

// FromCents renders cents as a decimal currency amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
