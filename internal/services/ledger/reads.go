package ledger

import (
	"context"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// Ledger returns the user's ledger projected to now.
func (s *Service) Ledger(ctx context.Context, userID uint64) (View, error) {
	l, err := s.ledgers.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}

	return s.view(l, s.clock.Now()), nil
}

// AuditLog returns the user's most recent audit entries, newest first.
func (s *Service) AuditLog(ctx context.Context, userID uint64, limit int) ([]economy.AuditEntry, error) {
	err := s.ledgers.Exists(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.audit.ListByUser(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}

	return entries, nil
}

// Sessions returns the user's most recent plays.
func (s *Service) Sessions(ctx context.Context, userID uint64, limit int) ([]economy.GameSession, error) {
	err := s.ledgers.Exists(ctx, nil, userID)
	if err != nil {
		return nil, err
	}

	out, err := s.scores.Sessions(ctx, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return out, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
