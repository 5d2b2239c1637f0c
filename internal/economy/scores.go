package economy

import (
	"time"

	"github.com/shopspring/decimal"
)

type HighScoreEntry struct {
	UserID    uint64
	GameType  string
	HighScore int64
	UpdatedAt time.Time
}

// GameSession is written once per play and never changed.
type GameSession struct {
	ID            int64
	UserID        uint64
	GameType      string
	Score         int64
	GoldEarned    int64
	DiamondEarned decimal.Decimal
	PlayedAt      time.Time
}
