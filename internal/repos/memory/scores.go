package memory

import (
	"cmp"
	"context"
	"database/sql"
	"slices"

	"github.com/fastprodman/economyledger/internal/economy"
	"github.com/fastprodman/economyledger/internal/repos/scores"
)

var _ scores.Scores = (*Scores)(nil)

type Scores struct{ s *Store }

func (r *Scores) InsertSession(_ context.Context, _ *sql.Tx, gs economy.GameSession) (economy.GameSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	gs.ID = r.s.st.nextSessionID
	r.s.st.nextSessionID++
	r.s.st.sessions = append(r.s.st.sessions, gs)

	return gs, nil
}

func (r *Scores) LockHighScore(_ context.Context, _ *sql.Tx, userID uint64, game string) (*economy.HighScoreEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	e, ok := r.s.st.highScores[scoreKey{userID: userID, game: game}]
	if !ok {
		return nil, nil
	}

	return &e, nil
}

func (r *Scores) UpsertHighScore(_ context.Context, _ *sql.Tx, e economy.HighScoreEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.st.highScores[scoreKey{userID: e.UserID, game: e.GameType}] = e

	return nil
}

func (r *Scores) HighScores(_ context.Context, userID uint64) ([]economy.HighScoreEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []economy.HighScoreEntry

	for k, e := range r.s.st.highScores {
		if k.userID == userID {
			out = append(out, e)
		}
	}

	slices.SortFunc(out, func(a, b economy.HighScoreEntry) int { return cmp.Compare(a.GameType, b.GameType) })

	return out, nil
}

func (r *Scores) Leaderboard(_ context.Context, game string, limit int) ([]economy.HighScoreEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []economy.HighScoreEntry

	for k, e := range r.s.st.highScores {
		if k.game == game {
			out = append(out, e)
		}
	}

	slices.SortFunc(out, func(a, b economy.HighScoreEntry) int {
		return cmp.Or(
			cmp.Compare(b.HighScore, a.HighScore),
			a.UpdatedAt.Compare(b.UpdatedAt),
			cmp.Compare(a.UserID, b.UserID),
		)
	})

	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *Scores) Sessions(_ context.Context, userID uint64, limit int) ([]economy.GameSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []economy.GameSession

	for _, gs := range slices.Backward(r.s.st.sessions) {
		if len(out) >= limit {
			break
		}

		if gs.UserID == userID {
			out = append(out, gs)
		}
	}

	return out, nil
}
