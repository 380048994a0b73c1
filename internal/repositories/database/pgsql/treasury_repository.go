package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/family_bank/internal/apperrors"
	"github.com/SscSPs/family_bank/internal/core/domain"
	portsrepo "github.com/SscSPs/family_bank/internal/core/ports/repositories"
)

// PgxTreasuryRepository stores everything tied to the treasury provider:
// processed events, financial account links, cards and external transfers.
type PgxTreasuryRepository struct {
	pool *pgxpool.Pool
}

func newPgxTreasuryRepository(pool *pgxpool.Pool) *PgxTreasuryRepository {
	return &PgxTreasuryRepository{pool: pool}
}

var (
	_ portsrepo.ProcessedEventRepository       = (*PgxTreasuryRepository)(nil)
	_ portsrepo.FinancialAccountLinkRepository = (*PgxTreasuryRepository)(nil)
	_ portsrepo.CardRepository                 = (*PgxTreasuryRepository)(nil)
	_ portsrepo.ExternalTransferRepository     = (*PgxTreasuryRepository)(nil)
)

// MarkEventProcessed relies on the primary key: a conflicting insert changes
// no rows and reports the event as already processed.
func (r *PgxTreasuryRepository) MarkEventProcessed(ctx context.Context, event domain.ProcessedEvent) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO processed_external_events (event_id, event_type, processed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO NOTHING;`,
		event.EventID, string(event.EventType), event.ProcessedAt)
	if err != nil {
		return false, fmt.Errorf("failed to mark event %s processed: %w", event.EventID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgxTreasuryRepository) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM processed_external_events WHERE event_id = $1);`, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	return exists, nil
}

func (r *PgxTreasuryRepository) SaveLink(ctx context.Context, link domain.FinancialAccountLink) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO financial_account_links (financial_account_id, user_id, family_id, bucket_type, created_at)
		VALUES ($1, $2, $3, $4, $5);`,
		link.FinancialAccountID, link.UserID, link.FamilyID, string(link.BucketType), link.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: financial account %s", apperrors.ErrDuplicate, link.FinancialAccountID)
		}
		return fmt.Errorf("failed to save link for %s: %w", link.FinancialAccountID, err)
	}
	return nil
}

func scanLink(row pgx.Row) (*domain.FinancialAccountLink, error) {
	var link domain.FinancialAccountLink
	var bucket string
	if err := row.Scan(&link.FinancialAccountID, &link.UserID, &link.FamilyID, &bucket, &link.CreatedAt); err != nil {
		return nil, err
	}
	link.BucketType = domain.BucketType(bucket)
	return &link, nil
}

func (r *PgxTreasuryRepository) FindLinkByFinancialAccount(ctx context.Context, financialAccountID string) (*domain.FinancialAccountLink, error) {
	link, err := scanLink(r.pool.QueryRow(ctx, `
		SELECT financial_account_id, user_id, family_id, bucket_type, created_at
		FROM financial_account_links WHERE financial_account_id = $1;`, financialAccountID))
	if err != nil {
		return nil, notFound(err)
	}
	return link, nil
}

func (r *PgxTreasuryRepository) ListLinks(ctx context.Context) ([]domain.FinancialAccountLink, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT financial_account_id, user_id, family_id, bucket_type, created_at
		FROM financial_account_links ORDER BY financial_account_id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list financial account links: %w", err)
	}
	defer rows.Close()

	links := []domain.FinancialAccountLink{}
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan financial account link: %w", err)
		}
		links = append(links, *link)
	}
	return links, rows.Err()
}

const cardColumns = `card_id, user_id, family_id, monthly_spend_limit, spend_month, month_to_date_spend, created_at`

func scanCard(row pgx.Row) (*domain.Card, error) {
	var c domain.Card
	if err := row.Scan(&c.CardID, &c.UserID, &c.FamilyID, &c.MonthlySpendLimit, &c.SpendMonth, &c.MonthToDateSpend, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PgxTreasuryRepository) SaveCard(ctx context.Context, card domain.Card) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO cards (`+cardColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		card.CardID, card.UserID, card.FamilyID, card.MonthlySpendLimit, card.SpendMonth, card.MonthToDateSpend, card.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: card %s", apperrors.ErrDuplicate, card.CardID)
		}
		return fmt.Errorf("failed to save card %s: %w", card.CardID, err)
	}
	return nil
}

func (r *PgxTreasuryRepository) FindCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	card, err := scanCard(r.pool.QueryRow(ctx, `SELECT `+cardColumns+` FROM cards WHERE card_id = $1;`, cardID))
	if err != nil {
		return nil, notFound(err)
	}
	return card, nil
}

// AddCardSpend updates the counter in a single statement so concurrent
// settlements cannot lose an increment.
func (r *PgxTreasuryRepository) AddCardSpend(ctx context.Context, cardID string, month string, delta int64) (*domain.Card, error) {
	card, err := scanCard(r.pool.QueryRow(ctx, `
		UPDATE cards
		SET month_to_date_spend = GREATEST(0, CASE WHEN spend_month = $2 THEN month_to_date_spend ELSE 0 END + $3),
		    spend_month = $2
		WHERE card_id = $1
		RETURNING `+cardColumns+`;`, cardID, month, delta))
	if err != nil {
		return nil, notFound(err)
	}
	return card, nil
}

const transferColumns = `transfer_id, financial_account_id, user_id, account_id, direction, amount, status, entry_id, created_at, updated_at`

func (r *PgxTreasuryRepository) SaveTransfer(ctx context.Context, t domain.ExternalTransfer) error {
	var entryID *string
	if t.EntryID != "" {
		entryID = &t.EntryID
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO external_transfers (`+transferColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		t.TransferID, t.FinancialAccountID, t.UserID, t.AccountID, string(t.Direction), t.Amount, string(t.Status), entryID, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transfer %s", apperrors.ErrDuplicate, t.TransferID)
		}
		return fmt.Errorf("failed to save transfer %s: %w", t.TransferID, err)
	}
	return nil
}

func (r *PgxTreasuryRepository) FindTransferByID(ctx context.Context, transferID string) (*domain.ExternalTransfer, error) {
	var t domain.ExternalTransfer
	var direction, status string
	var entryID *string
	err := r.pool.QueryRow(ctx, `SELECT `+transferColumns+` FROM external_transfers WHERE transfer_id = $1;`, transferID).Scan(
		&t.TransferID, &t.FinancialAccountID, &t.UserID, &t.AccountID, &direction, &t.Amount, &status, &entryID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	t.Direction = domain.TransferDirection(direction)
	t.Status = domain.TransferStatus(status)
	if entryID != nil {
		t.EntryID = *entryID
	}
	return &t, nil
}

func (r *PgxTreasuryRepository) UpdateTransferStatus(ctx context.Context, transferID string, status domain.TransferStatus, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE external_transfers SET status = $2, updated_at = $3 WHERE transfer_id = $1;`,
		transferID, string(status), at)
	if err != nil {
		return fmt.Errorf("failed to update transfer %s: %w", transferID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// PgxFamilyRepository stores per-family settings.
type PgxFamilyRepository struct {
	pool *pgxpool.Pool
}

func newPgxFamilyRepository(pool *pgxpool.Pool) *PgxFamilyRepository {
	return &PgxFamilyRepository{pool: pool}
}

var _ portsrepo.FamilyRepository = (*PgxFamilyRepository)(nil)

func (r *PgxFamilyRepository) FindAllocationSplit(ctx context.Context, familyID string) (*domain.AllocationSplit, error) {
	var s domain.AllocationSplit
	err := r.pool.QueryRow(ctx, `
		SELECT spend_pct, save_pct, give_pct, invest_pct
		FROM family_settings WHERE family_id = $1;`, familyID).Scan(&s.Spend, &s.Save, &s.Give, &s.Invest)
	if err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *PgxFamilyRepository) SaveAllocationSplit(ctx context.Context, familyID string, split domain.AllocationSplit, updatedBy string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO family_settings (family_id, spend_pct, save_pct, give_pct, invest_pct, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, now(), $6)
		ON CONFLICT (family_id) DO UPDATE
		SET spend_pct = EXCLUDED.spend_pct, save_pct = EXCLUDED.save_pct, give_pct = EXCLUDED.give_pct,
		    invest_pct = EXCLUDED.invest_pct, last_updated_at = EXCLUDED.last_updated_at, last_updated_by = EXCLUDED.last_updated_by;`,
		familyID, split.Spend, split.Save, split.Give, split.Invest, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to save allocation split for family %s: %w", familyID, err)
	}
	return nil
}
