// AngelaMos | 2026
// database_test.go

package core

import (
	"testing"
	"time"
)

func TestJitteredDurationUnboundedLifetime(t *testing.T) {
	if got := jitteredDuration(0); got != 0 {
		t.Errorf("jitteredDuration(0) = %v, want 0", got)
	}
	if got := jitteredDuration(-time.Minute); got != -time.Minute {
		t.Errorf("jitteredDuration(-1m) = %v, want -1m", got)
	}
}

func TestJitteredDurationStaysWithinBounds(t *testing.T) {
	base := 7 * time.Hour

	for range 50 {
		got := jitteredDuration(base)
		if got < base || got >= base+base/7 {
			t.Fatalf("jitteredDuration(%v) = %v, want [%v, %v)",
				base, got, base, base+base/7)
		}
	}
}
