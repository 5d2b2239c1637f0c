package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/audit"
)

var _ audit.Log = (*auditRepo)(nil)

type auditRepo struct{ db *sql.DB }

func New(db *sql.DB) *auditRepo {
	return &auditRepo{db: db}
}

func (r *auditRepo) Append(ctx context.Context, tx *sql.Tx, e economy.AuditEntry) error {
	if !e.Purpose.Valid() {
		return fmt.Errorf("unknown audit purpose %q", e.Purpose)
	}

	balance, err := json.Marshal(e.BalanceAfter)
	if err != nil {
		return fmt.Errorf("encode balance snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO audit_log (
			id, user_id, purpose, reward_type, reward_amount, balance_after,
			source_platform, source_block_id, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		e.ID, e.UserID, string(e.Purpose), string(e.RewardType), e.RewardAmount, balance,
		e.SourcePlatform, e.SourceBlockID, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// ListByUser returns the newest entries first.
func (r *auditRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]economy.AuditEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, purpose, reward_type, reward_amount, balance_after,
		       source_platform, source_block_id, occurred_at
		FROM audit_log
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	//nolint:errcheck
	defer rows.Close()

	var out []economy.AuditEntry

	for rows.Next() {
		var (
			e       economy.AuditEntry
			purpose string
			reward  string
			balance []byte
		)

		err = rows.Scan(&e.ID, &e.UserID, &purpose, &reward, &e.RewardAmount, &balance,
			&e.SourcePlatform, &e.SourceBlockID, &e.OccurredAt)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		err = json.Unmarshal(balance, &e.BalanceAfter)
		if err != nil {
			return nil, fmt.Errorf("decode balance snapshot: %w", err)
		}

		e.Purpose = economy.Purpose(purpose)
		e.RewardType = economy.Currency(reward)
		e.OccurredAt = e.OccurredAt.UTC()
		out = append(out, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}

	return out, nil
}
