package accounting_test

import (
	"errors"
	"testing"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		side        accounting.Side
		accountType domain.AccountType
		want        int64
	}{
		{"debit asset increases", accounting.Debit, domain.Asset, 100},
		{"credit asset decreases", accounting.Credit, domain.Asset, -100},
		{"debit equity decreases", accounting.Debit, domain.Equity, -100},
		{"credit equity increases", accounting.Credit, domain.Equity, 100},
		{"debit liability decreases", accounting.Debit, domain.Liability, -100},
		{"credit liability increases", accounting.Credit, domain.Liability, 100},
		{"debit expense decreases", accounting.Debit, domain.Expense, -100},
		{"credit expense increases", accounting.Credit, domain.Expense, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounting.SignedAmount(tt.side, tt.accountType, 100))
		})
	}
}

func bucket(id string, balance int64) *domain.LedgerAccount {
	return &domain.LedgerAccount{AccountID: id, AccountType: domain.Asset, CachedBalance: balance, IsActive: true}
}

func TestApplyEntry_MovesBetweenAssets(t *testing.T) {
	debit, credit := bucket("save", 0), bucket("spend", 3000)

	newDebit, newCredit, err := accounting.ApplyEntry(debit, credit, 2500)

	require.NoError(t, err)
	assert.Equal(t, int64(2500), newDebit)
	assert.Equal(t, int64(500), newCredit)
	assert.Equal(t, int64(3000), credit.CachedBalance, "inputs must not be mutated")
}

func TestApplyEntry_InsufficientFunds(t *testing.T) {
	debit, credit := bucket("save", 0), bucket("spend", 3000)

	_, _, err := accounting.ApplyEntry(debit, credit, 5000)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	var insufficient *apperrors.InsufficientFundsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "spend", insufficient.AccountID)
	assert.Equal(t, int64(3000), insufficient.Balance)
}

func TestApplyEntry_NonAssetCreditHasNoFloor(t *testing.T) {
	pool := &domain.LedgerAccount{AccountID: "pool", AccountType: domain.Equity, CachedBalance: 0, IsActive: true}
	kid := bucket("spend", 50)

	newPool, newKid, err := accounting.ApplyEntry(pool, kid, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(-10), newPool)
	assert.Equal(t, int64(40), newKid)

	newKid, newPool, err = accounting.ApplyEntry(kid, pool, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(60), newKid)
	assert.Equal(t, int64(10), newPool)
}

func TestApplyEntry_RejectsInactiveAndNonPositive(t *testing.T) {
	inactive := bucket("old", 100)
	inactive.IsActive = false

	_, _, err := accounting.ApplyEntry(bucket("a", 0), inactive, 10)
	assert.ErrorIs(t, err, apperrors.ErrInactiveAccount)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, _, err = accounting.ApplyEntry(bucket("a", 0), bucket("b", 10), 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestBalanceFromActivity(t *testing.T) {
	activity := domain.AccountActivity{DebitTotal: 10000, CreditTotal: 2500}
	assert.Equal(t, int64(7500), accounting.BalanceFromActivity(domain.Asset, activity))
	assert.Equal(t, int64(-7500), accounting.BalanceFromActivity(domain.Equity, activity))
}

func TestToCents(t *testing.T) {
	tests := map[string]int64{
		"100":     10000,
		"100.01":  10001,
		"0.005":   1,
		"0.004":   0,
		"19.995":  2000,
		"-1.005":  -101,
		"12.3456": 1235,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, accounting.ToCents(decimal.RequireFromString(in)))
		})
	}
}

func TestPositiveCents(t *testing.T) {
	_, err := accounting.PositiveCents(decimal.RequireFromString("0.004"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	cents, err := accounting.PositiveCents(decimal.RequireFromString("50"))
	require.NoError(t, err)
	assert.Equal(t, int64(5000), cents)
	assert.Equal(t, "50", accounting.FromCents(cents).String())
}
