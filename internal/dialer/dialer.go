// Package dialer is the device call capability used by the call action.
package dialer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Dialer places a phone call. It is fire-and-forget from the engine's view:
// the caller only learns whether the dial request was accepted.
type Dialer interface {
	PlaceCall(ctx context.Context, contactNumber string) error
}

// Func adapts a function to Dialer
type Func func(ctx context.Context, contactNumber string) error

// PlaceCall calls f
func (f Func) PlaceCall(ctx context.Context, contactNumber string) error {
	return f(ctx, contactNumber)
}

// Log is a Dialer that records the dial request without connecting anywhere
type Log struct {
	logger *zap.Logger
}

// NewLog creates a logging dialer
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// PlaceCall logs the normalized number. Empty numbers are rejected.
func (d *Log) PlaceCall(ctx context.Context, contactNumber string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("place call: %w", err)
	}
	number := Normalize(contactNumber)
	if number == "" {
		return fmt.Errorf("place call: empty contact number")
	}
	d.logger.Info("dialing", zap.String("number", number))
	return nil
}

// Normalize strips display spacing from a phone number, keeping a leading +
func Normalize(contactNumber string) string {
	var sb strings.Builder
	for i, r := range strings.TrimSpace(contactNumber) {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '+' && i == 0:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
