package economy

import (
	"errors"
	"fmt"
	"testing"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		want   string
		domain bool
	}{
		{err: fmt.Errorf("load: %w", ErrNotFound), want: KindNotFound, domain: true},
		{err: ErrNoHearts, want: KindInsufficientResource, domain: true},
		{err: ErrNoSpins, want: KindInsufficientResource, domain: true},
		{err: fmt.Errorf("admit: %w", ErrDailyLimitReached), want: KindDailyLimitReached, domain: true},
		{err: ErrContention, want: KindContention},
		{err: ErrInvariantViolation, want: KindInternal},
		{err: errors.New("driver: bad connection"), want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()

			if got := Kind(tt.err); got != tt.want {
				t.Fatalf("Kind(%v) = %s, want %s", tt.err, got, tt.want)
			}

			if got := IsDomain(tt.err); got != tt.domain {
				t.Fatalf("IsDomain(%v) = %v", tt.err, got)
			}
		})
	}
}
