package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/family_bank/internal/core/ports/services"
)

type familyService struct {
	BaseService
	familyRepo portsrepo.FamilyRepository
	linkRepo   portsrepo.FinancialAccountLinkRepository
	cardRepo   portsrepo.CardRepository
	accounts   portssvc.AccountSvcFacade
}

// NewFamilyService creates the family settings service.
func NewFamilyService(familyRepo portsrepo.FamilyRepository, linkRepo portsrepo.FinancialAccountLinkRepository, cardRepo portsrepo.CardRepository, accounts portssvc.AccountSvcFacade) portssvc.FamilySvcFacade {
	return &familyService{
		familyRepo: familyRepo,
		linkRepo:   linkRepo,
		cardRepo:   cardRepo,
		accounts:   accounts,
	}
}

var _ portssvc.FamilySvcFacade = (*familyService)(nil)

func (s *familyService) GetAllocationSplit(ctx context.Context, familyID string) (domain.AllocationSplit, error) {
	split, err := s.familyRepo.FindAllocationSplit(ctx, familyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "No allocation split configured, using default", slog.String("family_id", familyID))
			return domain.DefaultAllocationSplit(), nil
		}
		return domain.AllocationSplit{}, fmt.Errorf("failed to load allocation split for family %s: %w", familyID, err)
	}
	return *split, nil
}

func (s *familyService) SetAllocationSplit(ctx context.Context, familyID string, split domain.AllocationSplit, actorID string) error {
	if familyID == "" {
		return fmt.Errorf("%w: family is required", apperrors.ErrValidation)
	}
	for _, b := range domain.BucketTypes {
		if p := split.Raw(b); p < 0 || p > 100 {
			return fmt.Errorf("%w: %s percentage must be between 0 and 100", apperrors.ErrValidation, b)
		}
	}
	if err := s.accounts.AuthorizeFamilyMember(ctx, actorID, familyID, ""); err != nil {
		return err
	}
	if err := s.familyRepo.SaveAllocationSplit(ctx, familyID, split, actorID); err != nil {
		s.LogError(ctx, err, "Failed to save allocation split", slog.String("family_id", familyID))
		return fmt.Errorf("failed to save allocation split: %w", err)
	}
	s.LogInfo(ctx, "Allocation split updated",
		slog.String("family_id", familyID),
		slog.Int("spend", split.Spend),
		slog.Int("save", split.Save),
		slog.Int("give", split.Give),
		slog.Int("invest", split.Invest))
	return nil
}

// LinkFinancialAccount maps a provider account onto one of the user's buckets,
// creating the bucket if needed. Bucket creation carries the family check.
func (s *familyService) LinkFinancialAccount(ctx context.Context, link domain.FinancialAccountLink, actorID string) (*domain.FinancialAccountLink, error) {
	if link.FinancialAccountID == "" || link.UserID == "" || link.FamilyID == "" {
		return nil, fmt.Errorf("%w: financial account, user and family are required", apperrors.ErrValidation)
	}
	if link.BucketType == "" {
		link.BucketType = domain.BucketSpend
	}
	if !link.BucketType.IsValid() {
		return nil, fmt.Errorf("%w: unknown bucket type %q", apperrors.ErrValidation, link.BucketType)
	}

	if _, err := s.accounts.EnsureUserBuckets(ctx, link.UserID, link.FamilyID, []domain.BucketType{link.BucketType}, actorID); err != nil {
		return nil, err
	}

	link.CreatedAt = s.Now()
	if err := s.linkRepo.SaveLink(ctx, link); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: financial account %s is already linked", apperrors.ErrConflict, link.FinancialAccountID)
		}
		return nil, fmt.Errorf("failed to save financial account link: %w", err)
	}
	s.LogInfo(ctx, "Financial account linked",
		slog.String("financial_account_id", link.FinancialAccountID),
		slog.String("user_id", link.UserID),
		slog.String("bucket", string(link.BucketType)))
	return &link, nil
}

// RegisterCard records a provider card that draws on the user's spend bucket.
// The actor must be the user or a member of the user's family.
func (s *familyService) RegisterCard(ctx context.Context, card domain.Card, actorID string) (*domain.Card, error) {
	if card.CardID == "" || card.UserID == "" || card.FamilyID == "" {
		return nil, fmt.Errorf("%w: card, user and family are required", apperrors.ErrValidation)
	}
	if card.MonthlySpendLimit < 0 {
		return nil, fmt.Errorf("%w: monthly spend limit cannot be negative", apperrors.ErrValidation)
	}

	if _, err := s.accounts.EnsureUserBuckets(ctx, card.UserID, card.FamilyID, []domain.BucketType{domain.BucketSpend}, actorID); err != nil {
		return nil, err
	}

	now := s.Now()
	card.CreatedAt = now
	card.SpendMonth = domain.SpendMonthKey(now)
	card.MonthToDateSpend = 0
	if err := s.cardRepo.SaveCard(ctx, card); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: card %s is already registered", apperrors.ErrConflict, card.CardID)
		}
		return nil, fmt.Errorf("failed to save card: %w", err)
	}
	s.LogInfo(ctx, "Card registered", slog.String("card_id", card.CardID), slog.String("user_id", card.UserID))
	return &card, nil
}
