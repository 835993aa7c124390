package view

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/pbaille/localconnect/internal/dialer"
	"github.com/pbaille/localconnect/internal/domain"
	"github.com/pbaille/localconnect/internal/session"
)

// ErrUnavailable is returned when calling an entry that is busy
var ErrUnavailable = errors.New("entry is not available")

// Caller runs the call action of a rendered item
type Caller struct {
	dialer dialer.Dialer
	logger *zap.Logger
}

// NewCaller creates a Caller dialing through d
func NewCaller(d dialer.Dialer, logger *zap.Logger) *Caller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Caller{dialer: d, logger: logger}
}

// Call records the call in the recent list and then asks the dialer to place it.
// Busy entries are refused with the state unchanged. The recency update is
// optimistic: it is kept even when the dialer fails, and the dial error is returned
// alongside the updated state.
func (c *Caller) Call(ctx context.Context, state domain.QueryState, entry domain.Entry) (domain.QueryState, error) {
	if err := CheckCallable(entry); err != nil {
		return state, err
	}
	next := session.RegisterCall(state, entry.ID)
	return next, c.Dial(ctx, entry)
}

// CheckCallable refuses entries that are busy
func CheckCallable(entry domain.Entry) error {
	if !entry.IsAvailable() {
		return fmt.Errorf("call %s: %w", entry.ID, ErrUnavailable)
	}
	return nil
}

// Dial places the call without touching any session state. Callers that
// hold session state under a lock record the call first and dial after
// releasing it.
func (c *Caller) Dial(ctx context.Context, entry domain.Entry) error {
	if err := CheckCallable(entry); err != nil {
		return err
	}
	if err := c.dialer.PlaceCall(ctx, entry.ContactNumber); err != nil {
		c.logger.Warn("call failed",
			zap.String("entry", entry.ID),
			zap.Error(err),
		)
		return fmt.Errorf("call %s: %w", entry.ID, err)
	}

	c.logger.Info("call placed", zap.String("entry", entry.ID), zap.String("name", entry.Name))
	return nil
}
