package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
)

// accountService is the Ledger Account Store: it owns account lifecycle but
// never touches balances.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrAccountNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *accountService) GetAccountByCode(ctx context.Context, code string) (*domain.LedgerAccount, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrAccountNotFound, code)
		}
		return nil, fmt.Errorf("failed to get account %s: %w", code, err)
	}
	return account, nil
}

func (s *accountService) ListUserAccounts(ctx context.Context, userID string) ([]domain.LedgerAccount, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %s: %w", userID, err)
	}
	return accounts, nil
}

func (s *accountService) ListActiveBuckets(ctx context.Context, userID string) ([]domain.LedgerAccount, error) {
	accounts, err := s.ListUserAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	buckets := make([]domain.LedgerAccount, 0, len(domain.BucketTypes))
	for _, acc := range accounts {
		if acc.Category == domain.CategoryUserBucket && acc.IsActive && acc.BucketType.IsValid() {
			buckets = append(buckets, acc)
		}
	}
	sortByBucketOrder(buckets)
	return buckets, nil
}

// SeedSystemAccounts inserts any missing system account.
func (s *accountService) SeedSystemAccounts(ctx context.Context) error {
	logger := s.GetLogger(ctx)
	now := s.Now()
	for _, def := range domain.SystemAccounts() {
		stored, err := s.accountRepo.SaveAccount(ctx, domain.LedgerAccount{
			AccountID:   uuid.NewString(),
			Code:        def.Code,
			Name:        def.Name,
			AccountType: def.AccountType,
			Category:    def.Category,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     domain.SystemActor,
				LastUpdatedAt: now,
				LastUpdatedBy: domain.SystemActor,
			},
		})
		if err != nil {
			return fmt.Errorf("failed to seed system account %s: %w", def.Code, err)
		}
		if stored.AccountType != def.AccountType {
			logger.Warn("Stored system account type differs from definition",
				slog.String("code", def.Code),
				slog.String("stored_type", string(stored.AccountType)),
				slog.String("expected_type", string(def.AccountType)))
		}
	}
	logger.Info("System accounts seeded", slog.Int("count", len(domain.SystemAccounts())))
	return nil
}

// EnsureUserBuckets creates any requested bucket the user does not have yet.
// An empty request means the spend bucket only.
func (s *accountService) EnsureUserBuckets(ctx context.Context, userID string, familyID string, buckets []domain.BucketType, actorID string) ([]domain.LedgerAccount, error) {
	if userID == "" || familyID == "" {
		return nil, fmt.Errorf("%w: user and family are required", apperrors.ErrValidation)
	}
	if len(buckets) == 0 {
		buckets = []domain.BucketType{domain.BucketSpend}
	}
	for _, bucket := range buckets {
		if !bucket.IsValid() {
			return nil, fmt.Errorf("%w: unknown bucket type %q", apperrors.ErrValidation, bucket)
		}
	}
	if err := s.AuthorizeFamilyMember(ctx, actorID, familyID, userID); err != nil {
		return nil, err
	}

	seen := make(map[domain.BucketType]bool, len(buckets))
	result := make([]domain.LedgerAccount, 0, len(buckets))
	now := s.Now()
	for _, bucket := range buckets {
		if seen[bucket] {
			continue
		}
		seen[bucket] = true

		stored, err := s.accountRepo.SaveAccount(ctx, domain.LedgerAccount{
			AccountID:   uuid.NewString(),
			Code:        domain.BucketAccountCode(userID, bucket),
			Name:        string(bucket),
			AccountType: domain.Asset,
			Category:    domain.CategoryUserBucket,
			UserID:      userID,
			FamilyID:    familyID,
			BucketType:  bucket,
			IsActive:    true,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure %s bucket for user %s: %w", bucket, userID, err)
		}
		result = append(result, *stored)
	}

	sortByBucketOrder(result)
	s.LogDebug(ctx, "User buckets ensured", slog.String("user_id", userID), slog.Int("count", len(result)))
	return result, nil
}

func (s *accountService) FamilyOf(ctx context.Context, userID string) (string, error) {
	accounts, err := s.ListUserAccounts(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, acc := range accounts {
		if acc.Category == domain.CategoryUserBucket && acc.FamilyID != "" {
			return acc.FamilyID, nil
		}
	}
	return "", nil
}

// AuthorizeFamilyMember lets a member act inside their own family. A user
// with no buckets may only found a family nobody belongs to yet; joining an
// existing family takes an existing member. The system actor skips the actor
// check but a target user can never be moved to another family.
func (s *accountService) AuthorizeFamilyMember(ctx context.Context, actorID string, familyID string, userID string) error {
	if familyID == "" {
		return fmt.Errorf("%w: family is required", apperrors.ErrValidation)
	}
	logger := s.GetLogger(ctx).With(
		slog.String("actor_id", actorID),
		slog.String("family_id", familyID),
		slog.String("user_id", userID))

	if actorID != domain.SystemActor {
		actorFamily, err := s.FamilyOf(ctx, actorID)
		if err != nil {
			return err
		}
		switch {
		case actorFamily == "" && actorID == userID:
			taken, err := s.accountRepo.FamilyHasMembers(ctx, familyID)
			if err != nil {
				return fmt.Errorf("failed to check family %s: %w", familyID, err)
			}
			if taken {
				logger.Warn("Self-enrollment into an existing family rejected")
				return fmt.Errorf("%w: family %s already has members; ask one of them to add you", apperrors.ErrForbidden, familyID)
			}
			return nil
		case actorFamily != familyID:
			logger.Warn("Actor is not a member of the family", slog.String("actor_family_id", actorFamily))
			return fmt.Errorf("%w: caller is not a member of family %s", apperrors.ErrForbidden, familyID)
		}
	}

	if userID == "" || userID == actorID {
		return nil
	}
	userFamily, err := s.FamilyOf(ctx, userID)
	if err != nil {
		return err
	}
	if userFamily != "" && userFamily != familyID {
		logger.Warn("Target user belongs to another family", slog.String("user_family_id", userFamily))
		return fmt.Errorf("%w: user %s belongs to another family", apperrors.ErrForbidden, userID)
	}
	return nil
}

func bucketRank(b domain.BucketType) int {
	for i, t := range domain.BucketTypes {
		if t == b {
			return i
		}
	}
	return len(domain.BucketTypes)
}

func sortByBucketOrder(accounts []domain.LedgerAccount) {
	sort.SliceStable(accounts, func(i, j int) bool {
		return bucketRank(accounts[i].BucketType) < bucketRank(accounts[j].BucketType)
	})
}
