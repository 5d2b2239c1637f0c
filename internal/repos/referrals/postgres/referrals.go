package referrals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/infra/pgutils"
	"github.com/fastprodman/economyledger/internal/repos/referrals"
)

var _ referrals.Links = (*referralsRepo)(nil)

type referralsRepo struct{ db *sql.DB }

func New(db *sql.DB) *referralsRepo {
	return &referralsRepo{db: db}
}

const linkColumns = `
	id, referrer_id, referred_id, status, ad_views_count,
	last_rewarded_gold, last_rewarded_diamond, rewards_collected,
	created_at, activated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanLink(row scanner) (economy.ReferralLink, error) {
	var (
		l         economy.ReferralLink
		status    string
		activated sql.NullTime
	)

	err := row.Scan(&l.ID, &l.ReferrerID, &l.ReferredID, &status, &l.AdViewsCount,
		&l.LastRewardedGold, &l.LastRewardedDiamond, &l.RewardsCollected,
		&l.CreatedAt, &activated)
	if err != nil {
		return economy.ReferralLink{}, err
	}

	l.Status = economy.ReferralStatus(status)
	l.CreatedAt = l.CreatedAt.UTC()

	if activated.Valid {
		t := activated.Time.UTC()
		l.ActivatedAt = &t
	}

	return l, nil
}

func (r *referralsRepo) Create(ctx context.Context, tx *sql.Tx, link economy.ReferralLink) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO referral_links (
			id, referrer_id, referred_id, status, ad_views_count,
			last_rewarded_gold, last_rewarded_diamond, rewards_collected, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		link.ID, link.ReferrerID, link.ReferredID, string(link.Status), link.AdViewsCount,
		link.LastRewardedGold, link.LastRewardedDiamond, link.RewardsCollected, link.CreatedAt,
	)
	if err != nil {
		switch {
		case pgutils.IsUniqueViolation(err):
			return referrals.ErrAlreadyReferred
		case pgutils.IsForeignKeyViolation(err):
			return fmt.Errorf("referrer %d: %w", link.ReferrerID, economy.ErrNotFound)
		case pgutils.IsCheckViolation(err):
			return fmt.Errorf("%w: invalid referral link", economy.ErrInvalidInput)
		}

		return fmt.Errorf("insert referral link: %w", err)
	}

	return nil
}

func (r *referralsRepo) LockByReferred(ctx context.Context, tx *sql.Tx, referredID uint64) (economy.ReferralLink, error) {
	row := tx.QueryRowContext(ctx, `
		SELECT `+linkColumns+`
		FROM referral_links
		WHERE referred_id = $1
		FOR UPDATE
	`, referredID)

	link, err := scanLink(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return economy.ReferralLink{}, fmt.Errorf("referral of user %d: %w", referredID, economy.ErrNotFound)
		}

		return economy.ReferralLink{}, fmt.Errorf("lock referral link: %w", err)
	}

	return link, nil
}

func (r *referralsRepo) LockActiveByReferrer(ctx context.Context, tx *sql.Tx, referrerID uint64) ([]economy.ReferralLink, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT `+linkColumns+`
		FROM referral_links
		WHERE referrer_id = $1 AND status = 'active'
		ORDER BY created_at, id
		FOR UPDATE
	`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("lock active referral links: %w", err)
	}

	return collect(rows)
}

func (r *referralsRepo) ListByReferrer(ctx context.Context, referrerID uint64) ([]economy.ReferralLink, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+linkColumns+`
		FROM referral_links
		WHERE referrer_id = $1
		ORDER BY created_at, id
	`, referrerID)
	if err != nil {
		return nil, fmt.Errorf("list referral links: %w", err)
	}

	return collect(rows)
}

func (r *referralsRepo) Update(ctx context.Context, tx *sql.Tx, link economy.ReferralLink) error {
	var activated sql.NullTime
	if link.ActivatedAt != nil {
		activated = sql.NullTime{Time: *link.ActivatedAt, Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE referral_links SET
			status = $2,
			ad_views_count = $3,
			last_rewarded_gold = $4,
			last_rewarded_diamond = $5,
			rewards_collected = $6,
			activated_at = $7
		WHERE id = $1
	`,
		link.ID, string(link.Status), link.AdViewsCount,
		link.LastRewardedGold, link.LastRewardedDiamond, link.RewardsCollected, activated,
	)
	if err != nil {
		return fmt.Errorf("update referral link: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("referral link %s: %w", link.ID, economy.ErrNotFound)
	}

	return nil
}

func collect(rows *sql.Rows) ([]economy.ReferralLink, error) {
	//nolint:errcheck
	defer rows.Close()

	var out []economy.ReferralLink

	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral link: %w", err)
		}

		out = append(out, link)
	}

	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate referral links: %w", err)
	}

	return out, nil
}
