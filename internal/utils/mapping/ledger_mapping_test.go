package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

func TestLedgerAccountNullableColumns(t *testing.T) {
	system := domain.LedgerAccount{AccountID: "a1", Code: domain.SystemSuspense, AccountType: domain.Equity}
	m := ToModelLedgerAccount(system)
	assert.Nil(t, m.UserID)
	assert.Nil(t, m.FamilyID)
	assert.Nil(t, m.BucketType)

	bucket := domain.LedgerAccount{AccountID: "a2", UserID: "kid-1", FamilyID: "fam-1", BucketType: domain.BucketSave}
	m = ToModelLedgerAccount(bucket)
	require.NotNil(t, m.BucketType)
	assert.Equal(t, "save", *m.BucketType)
	assert.Equal(t, bucket, ToDomainLedgerAccount(m))
}

func TestReconciliationRunDiscrepanciesColumn(t *testing.T) {
	done := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	run := domain.ReconciliationRun{
		RunID:       "run-1",
		Type:        domain.ReconciliationInternal,
		Status:      domain.ReconciliationPassed,
		CompletedAt: &done,
	}

	m, err := ToModelReconciliationRun(run)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(m.Discrepancies))
	assert.Nil(t, m.ErrorMessage)

	m.Discrepancies = []byte(`[{"accountID":"a1","source":"journal","cachedBalance":10000,"computedBalance":9999,"difference":1,"autoResolved":true}]`)
	back, err := ToDomainReconciliationRun(m)
	require.NoError(t, err)
	require.Len(t, back.Discrepancies, 1)
	assert.True(t, back.Discrepancies[0].AutoResolved)
	assert.Equal(t, int64(1), back.Discrepancies[0].Difference)

	m.Discrepancies = []byte(`{`)
	_, err = ToDomainReconciliationRun(m)
	assert.Error(t, err)
}
