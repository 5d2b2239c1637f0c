package rewards

import (
	"fmt"

	"github.com/fastprodman/economyledger/internal/economy"
)

// IsHighScore reports whether score strictly beats the stored best. The
// first score for a game always counts.
func IsHighScore(prev *economy.HighScoreEntry, score int64) bool {
	return prev == nil || score > prev.HighScore
}

// ScoreGold is the gold a finished session earns.
func ScoreGold(score, divisor int64) (int64, error) {
	if score < 0 {
		return 0, fmt.Errorf("%w: negative score %d", economy.ErrInvalidInput, score)
	}

	if divisor <= 0 {
		return 0, nil
	}

	return score / divisor, nil
}
