// Package locate abstracts the device geolocation capability: one coordinate
// or one error per invocation, bounded by a timeout.
package locate

import (
	"context"
	"errors"
	"time"

	"github.com/milantony05/smart-kissan/internal/geo"
)

// DefaultTimeout bounds a single detection attempt. There is no native
// cancellation on most geolocation backends; the timeout is the only bound
// on worst-case latency and is surfaced as a failure, not a cancellation.
const DefaultTimeout = 10 * time.Second

// Detection failure taxonomy. The UI collapses all three into one localized
// permission message; they stay distinct here for diagnostic logging.
var (
	ErrPermissionDenied    = errors.New("locate: permission denied")
	ErrTimeout             = errors.New("locate: position request timed out")
	ErrPositionUnavailable = errors.New("locate: position unavailable")

	// ErrUnavailable means no geolocation capability exists at all. Callers
	// should detect this before invoking a provider (a nil Provider).
	ErrUnavailable = errors.New("locate: geolocation not supported")
)

// Options tune a single position request.
type Options struct {
	Timeout      time.Duration
	HighAccuracy bool
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// Provider reports the current device position once per invocation.
// Implementations must honor ctx and the Options timeout, and must map
// their native failures onto the package error taxonomy.
type Provider interface {
	CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error)
}

// StaticProvider always reports a fixed coordinate. Used for offline rigs
// and tests.
type StaticProvider struct {
	Position geo.Coordinate
}

func (s *StaticProvider) CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return geo.Coordinate{}, ErrTimeout
	}
	return s.Position, nil
}
