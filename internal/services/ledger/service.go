// Package ledger implements the economy operations on top of the mutation
// coordinator. Each exported method is one user-visible action; all writes
// go through the coordinator so they commit with exactly one audit entry.
package ledger

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/fastprodman/economyledger/internal/config"
	"github.com/fastprodman/economyledger/internal/economy/hearts"
	"github.com/fastprodman/economyledger/internal/economy/limits"
	"github.com/fastprodman/economyledger/internal/economy/rewards"
	"github.com/fastprodman/economyledger/internal/infra/clock"
	"github.com/fastprodman/economyledger/internal/repos/audit"
	pgaudit "github.com/fastprodman/economyledger/internal/repos/audit/postgres"
	"github.com/fastprodman/economyledger/internal/repos/ledgers"
	pgledgers "github.com/fastprodman/economyledger/internal/repos/ledgers/postgres"
	"github.com/fastprodman/economyledger/internal/repos/memory"
	"github.com/fastprodman/economyledger/internal/repos/referrals"
	pgreferrals "github.com/fastprodman/economyledger/internal/repos/referrals/postgres"
	"github.com/fastprodman/economyledger/internal/repos/scores"
	pgscores "github.com/fastprodman/economyledger/internal/repos/scores/postgres"
	"github.com/fastprodman/economyledger/internal/repos/tasks"
	pgtasks "github.com/fastprodman/economyledger/internal/repos/tasks/postgres"
	"github.com/fastprodman/economyledger/internal/services/coordinator"
)

// Deps are the collaborators of a Service.
type Deps struct {
	Runner    coordinator.Runner
	Ledgers   ledgers.Ledgers
	Audit     audit.Log
	Referrals referrals.Links
	Scores    scores.Scores
	Tasks     tasks.Tasks
	Clock     clock.Clock
	Picker    rewards.Picker
	// Prizes overrides the default wheel.
	Prizes []rewards.Prize
}

type Service struct {
	coord     *coordinator.Coordinator
	ledgers   ledgers.Ledgers
	audit     audit.Log
	referrals referrals.Links
	scores    scores.Scores
	tasks     tasks.Tasks
	clock     clock.Clock
	picker    rewards.Picker
	wheel     *rewards.Wheel
	ads       rewards.AdTable

	cfg    config.EconomyConfig
	hearts hearts.Config
	limits limits.Config
}

func New(deps Deps, cfg config.EconomyConfig) (*Service, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("economy config: %w", err)
	}

	prizes := deps.Prizes
	if prizes == nil {
		prizes = rewards.DefaultPrizes()
	}

	wheel, err := rewards.NewWheel(prizes)
	if err != nil {
		return nil, fmt.Errorf("prize wheel: %w", err)
	}

	if deps.Clock == nil {
		deps.Clock = clock.System{}
	}

	if deps.Picker == nil {
		deps.Picker = rewards.CryptoPicker{}
	}

	heartsCfg := hearts.Config{Caps: map[string]int(cfg.HeartGames), Interval: cfg.HeartRegenInterval}

	coord := coordinator.New(deps.Runner, deps.Ledgers, deps.Audit, deps.Clock, coordinator.Config{
		MaxRetries:  cfg.MutationMaxRetries,
		LockTimeout: cfg.MutationLockTimeout,
		HeartCaps:   heartsCfg.Caps,
	})

	return &Service{
		coord:     coord,
		ledgers:   deps.Ledgers,
		audit:     deps.Audit,
		referrals: deps.Referrals,
		scores:    deps.Scores,
		tasks:     deps.Tasks,
		clock:     deps.Clock,
		picker:    deps.Picker,
		wheel:     wheel,
		ads:       rewards.DefaultAdTable(cfg.AdDiamondReward, cfg.AdGoldReward),
		cfg:       cfg,
		hearts:    heartsCfg,
		limits: limits.Config{
			DailyAdViews: cfg.DailyAdViewsLimit,
			DailySpinAds: cfg.DailySpinAdsLimit,
			Location:     cfg.DayBoundary.Get(),
		},
	}, nil
}

// NewPostgres wires the Postgres repositories on db.
func NewPostgres(db *sql.DB, lockTimeout time.Duration, cfg config.EconomyConfig) (*Service, error) {
	return New(Deps{
		Runner:    coordinator.DBRunner{DB: db, LockTimeout: lockTimeout},
		Ledgers:   pgledgers.New(db),
		Audit:     pgaudit.New(db),
		Referrals: pgreferrals.New(db),
		Scores:    pgscores.New(db),
		Tasks:     pgtasks.New(db),
	}, cfg)
}

// NewMemory wires an in-process store. Nothing survives a restart, and the
// store is single-writer: mutations of different users run one at a time.
func NewMemory(store *memory.Store, clk clock.Clock, cfg config.EconomyConfig) (*Service, error) {
	return New(Deps{
		Runner:    store,
		Ledgers:   store.Ledgers(),
		Audit:     store.Audit(),
		Referrals: store.Referrals(),
		Scores:    store.Scores(),
		Tasks:     store.Tasks(),
		Clock:     clk,
	}, cfg)
}

// Prizes returns the wheel table, for display.
func (s *Service) Prizes() []rewards.Prize {
	return s.wheel.Prizes()
}
