package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/family_bank/internal/core/domain"
)

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) RunInternal(ctx context.Context) (*domain.ReconciliationRun, error) {
	args := m.Called(ctx)
	run, _ := args.Get(0).(*domain.ReconciliationRun)
	return run, args.Error(1)
}

func (m *MockReconciliationService) RunExternal(ctx context.Context) (*domain.ReconciliationRun, error) {
	args := m.Called(ctx)
	run, _ := args.Get(0).(*domain.ReconciliationRun)
	return run, args.Error(1)
}

func (m *MockReconciliationService) GetRun(ctx context.Context, runID string) (*domain.ReconciliationRun, error) {
	args := m.Called(ctx, runID)
	run, _ := args.Get(0).(*domain.ReconciliationRun)
	return run, args.Error(1)
}

func (m *MockReconciliationService) ListRuns(ctx context.Context, limit int) ([]domain.ReconciliationRun, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]domain.ReconciliationRun)
	return runs, args.Error(1)
}

func passedRun(id string, t domain.ReconciliationType) *domain.ReconciliationRun {
	return &domain.ReconciliationRun{RunID: id, Type: t, Status: domain.ReconciliationPassed}
}

func TestRunOnceRunsBothPasses(t *testing.T) {
	svc := new(MockReconciliationService)
	svc.On("RunInternal", mock.Anything).Return(passedRun("r1", domain.ReconciliationInternal), nil).Once()
	svc.On("RunExternal", mock.Anything).Return(passedRun("r2", domain.ReconciliationExternalProvider), nil).Once()

	NewReconciliationScheduler(svc, time.Minute, nil).RunOnce(context.Background())

	svc.AssertExpectations(t)
}

func TestRunOnceContinuesAfterInternalError(t *testing.T) {
	svc := new(MockReconciliationService)
	svc.On("RunInternal", mock.Anything).Return(nil, errors.New("db down")).Once()
	svc.On("RunExternal", mock.Anything).Return(passedRun("r2", domain.ReconciliationExternalProvider), nil).Once()

	NewReconciliationScheduler(svc, time.Minute, nil).RunOnce(context.Background())

	svc.AssertExpectations(t)
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	svc := new(MockReconciliationService)
	ran := make(chan struct{}, 1)
	svc.On("RunInternal", mock.Anything).Return(passedRun("r1", domain.ReconciliationInternal), nil)
	svc.On("RunExternal", mock.Anything).Return(passedRun("r2", domain.ReconciliationExternalProvider), nil).
		Run(func(mock.Arguments) {
			select {
			case ran <- struct{}{}:
			default:
			}
		})

	s := NewReconciliationScheduler(svc, time.Hour, nil)
	s.Start(context.Background())
	s.Start(context.Background())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("first pass did not run")
	}

	s.Stop()
	s.Stop()
	svc.AssertNumberOfCalls(t, "RunInternal", 1)
}

func TestStartWithoutIntervalIsDisabled(t *testing.T) {
	svc := new(MockReconciliationService)
	s := NewReconciliationScheduler(svc, 0, nil)

	s.Start(context.Background())
	s.Stop()

	assert.Empty(t, svc.Calls)
}
