package memory

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/referrals"
)

var _ referrals.Links = (*Referrals)(nil)

type Referrals struct{ s *Store }

func (r *Referrals) Create(_ context.Context, _ *sql.Tx, link economy.ReferralLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	switch {
	case link.ReferrerID == link.ReferredID:
		return fmt.Errorf("%w: invalid referral link", economy.ErrInvalidInput)
	case !r.exists(link.ReferrerID):
		return fmt.Errorf("referrer %d: %w", link.ReferrerID, economy.ErrNotFound)
	}

	if _, ok := r.s.st.links[link.ReferredID]; ok {
		return referrals.ErrAlreadyReferred
	}

	r.s.st.links[link.ReferredID] = link

	return nil
}

func (r *Referrals) LockByReferred(_ context.Context, _ *sql.Tx, referredID uint64) (economy.ReferralLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	link, ok := r.s.st.links[referredID]
	if !ok {
		return economy.ReferralLink{}, fmt.Errorf("referral of user %d: %w", referredID, economy.ErrNotFound)
	}

	return link, nil
}

func (r *Referrals) LockActiveByReferrer(_ context.Context, _ *sql.Tx, referrerID uint64) ([]economy.ReferralLink, error) {
	return r.list(referrerID, true), nil
}

func (r *Referrals) ListByReferrer(_ context.Context, referrerID uint64) ([]economy.ReferralLink, error) {
	return r.list(referrerID, false), nil
}

func (r *Referrals) Update(_ context.Context, _ *sql.Tx, link economy.ReferralLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.st.links[link.ReferredID]
	if !ok || cur.ID != link.ID {
		return fmt.Errorf("referral link %s: %w", link.ID, economy.ErrNotFound)
	}

	r.s.st.links[link.ReferredID] = link

	return nil
}

func (r *Referrals) list(referrerID uint64, activeOnly bool) []economy.ReferralLink {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []economy.ReferralLink

	for _, link := range r.s.st.links {
		if link.ReferrerID != referrerID {
			continue
		}

		if activeOnly && link.Status != economy.ReferralActive {
			continue
		}

		out = append(out, link)
	}

	slices.SortFunc(out, func(a, b economy.ReferralLink) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID.String(), b.ID.String())
	})

	return out
}

func (r *Referrals) exists(userID uint64) bool {
	_, ok := r.s.st.ledgers[userID]
	return ok
}
