package economy

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Callers classify with errors.Is.
var (
	ErrNotFound             = errors.New("not found")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrDailyLimitReached    = errors.New("daily limit reached")
	ErrAlreadyClaimedToday  = errors.New("already claimed today")
	ErrResourceFull         = errors.New("resource full")
	ErrContention           = errors.New("contention")
	ErrInvalidInput         = errors.New("invalid input")
	ErrAlreadyCompleted     = errors.New("already completed")

	ErrNoHearts = fmt.Errorf("%w: no hearts available", ErrInsufficientResource)
	ErrNoSpins  = fmt.Errorf("%w: no spins available", ErrInsufficientResource)

	// ErrInvariantViolation means a mutation produced an impossible ledger.
	// It is reported as an internal fault.
	ErrInvariantViolation = errors.New("ledger invariant violated")
)

// Kind names used on the wire.
const (
	KindNotFound             = "NotFound"
	KindInsufficientBalance  = "InsufficientBalance"
	KindInsufficientResource = "InsufficientResource"
	KindDailyLimitReached    = "DailyLimitReached"
	KindAlreadyClaimedToday  = "AlreadyClaimedToday"
	KindResourceFull         = "ResourceFull"
	KindContention           = "Contention"
	KindInvalidInput         = "InvalidInput"
	KindAlreadyCompleted     = "AlreadyCompleted"
	KindInternal             = "Internal"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrNotFound, KindNotFound},
	{ErrInsufficientBalance, KindInsufficientBalance},
	{ErrInsufficientResource, KindInsufficientResource},
	{ErrDailyLimitReached, KindDailyLimitReached},
	{ErrAlreadyClaimedToday, KindAlreadyClaimedToday},
	{ErrResourceFull, KindResourceFull},
	{ErrContention, KindContention},
	{ErrInvalidInput, KindInvalidInput},
	{ErrAlreadyCompleted, KindAlreadyCompleted},
}

// Kind maps err to its taxonomy name. Anything unclassified is Internal.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindInternal
}

// IsDomain reports whether err is an expected, user-displayable rejection.
func IsDomain(err error) bool {
	k := Kind(err)

	return k != KindInternal && k != KindContention
}
