// Package verify is the legacy payment "verification" check.
//
// It does not talk to any payment network: it shapes-checks the reference
// after an artificial delay so the web client gets the familiar slow
// spinner. Kept for the old clients that still call it; the real decision
// is the manual admin review.
package verify

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Modes
const (
	// ModePermissive accepts any non-empty reference
	ModePermissive = "permissive"
	// ModeStrict accepts exactly four digits
	ModeStrict = "strict"
)

const simulatedDelay = 1500 * time.Millisecond

var fourDigits = regexp.MustCompile(`^\d{4}$`)

type VerifyService struct {
	mode  string
	delay time.Duration
}

func NewService(mode string) *VerifyService {
	if mode != ModeStrict {
		mode = ModePermissive
	}

	return &VerifyService{
		mode:  mode,
		delay: simulatedDelay,
	}
}

// Check returns whether the reference passes the shape check for the
// configured mode. The artificial delay respects context cancellation.
func (s *VerifyService) Check(ctx context.Context, reference string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(s.delay):
	}

	switch s.mode {
	case ModeStrict:
		return fourDigits.MatchString(reference), nil
	default:
		return strings.TrimSpace(reference) != "", nil
	}
}
