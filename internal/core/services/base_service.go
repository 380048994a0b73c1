package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	"github.com/SscSPs/family_bank/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	// Clock defaults to time.Now; tests replace it.
	Clock func() time.Time
}

// Now returns the current time in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// AuthorizeOwner checks that the actor owns a user account.
func (s *BaseService) AuthorizeOwner(ctx context.Context, account *domain.LedgerAccount, actorID string) error {
	if account.Category != domain.CategoryUserBucket || account.UserID != actorID {
		s.GetLogger(ctx).Warn("Actor does not own account",
			slog.String("actor_id", actorID),
			slog.String("account_id", account.AccountID))
		return fmt.Errorf("%w: account %s does not belong to the caller", apperrors.ErrForbidden, account.AccountID)
	}
	return nil
}
