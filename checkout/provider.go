/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"chainguard.dev/repokeeper/gitrepo"
	"github.com/chainguard-dev/clog"
	"go.opentelemetry.io/otel/metric"
)

// ErrShutdown is returned by Get once the provider has shut down.
var ErrShutdown = errors.New("tried to get a checkout from a shut down provider")

// State is the lifecycle state of a Provider.
type State int

const (
	// Active providers hand out checkouts.
	Active State = iota
	// ShutdownRequested providers are waiting for outstanding checkouts.
	ShutdownRequested
	// ShutDown providers refuse new checkouts.
	ShutDown
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case ShutdownRequested:
		return "shutdown requested"
	case ShutDown:
		return "shut down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Provider issues Checkout handles and supports a drain-based shutdown.
type Provider struct {
	opener  gitrepo.Opener
	metrics *metrics

	mu          sync.Mutex
	state       State
	outstanding int
	drained     chan struct{}
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	opener gitrepo.Opener
	meter  metric.Meter
}

// WithOpener sets how repository sessions are opened. Defaults to
// gitrepo.NewOpener().
func WithOpener(o gitrepo.Opener) Option {
	return func(opts *options) { opts.opener = o }
}

// WithMeter records provider metrics on meter instead of the global meter.
func WithMeter(m metric.Meter) Option {
	return func(opts *options) { opts.meter = m }
}

// New constructs an Active Provider.
func New(opts ...Option) *Provider {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.opener == nil {
		o.opener = gitrepo.NewOpener()
	}
	return &Provider{
		opener:  o.opener,
		metrics: newMetrics(o.meter),
		drained: make(chan struct{}),
	}
}

// Get returns a handle for path. The caller owns the handle and must Close
// it. Get fails with ErrShutdown once the provider is ShutDown.
func (p *Provider) Get(ctx context.Context, path string) (*Checkout, error) {
	p.mu.Lock()
	if p.state == ShutDown {
		p.mu.Unlock()
		return nil, ErrShutdown
	}
	p.outstanding++
	p.mu.Unlock()

	p.metrics.acquired(ctx)
	clog.FromContext(ctx).Debugf("Checked out %s", path)
	return newCheckout(path, p.opener, p.release), nil
}

// release runs exactly once per handle.
func (p *Provider) release() {
	p.mu.Lock()
	p.outstanding--
	if p.state == ShutdownRequested && p.outstanding == 0 {
		p.finish()
	}
	p.mu.Unlock()

	p.metrics.released(context.Background())
}

// finish must be called with p.mu held.
func (p *Provider) finish() {
	p.state = ShutDown
	close(p.drained)
}

// Shutdown requests shutdown and blocks until every outstanding handle has
// been closed. It is idempotent. If ctx ends first, Shutdown returns the
// context's error and the provider stays ShutdownRequested; the drain still
// completes when the last handle is closed.
func (p *Provider) Shutdown(ctx context.Context) error {
	log := clog.FromContext(ctx)
	log.Info("Shutting down checkout provider")

	p.mu.Lock()
	if p.state == Active {
		p.state = ShutdownRequested
		if p.outstanding == 0 {
			p.finish()
		}
	}
	n := p.outstanding
	p.mu.Unlock()

	if n == 0 {
		log.Info("No outstanding checkouts")
	} else {
		log.Infof("Waiting on %d outstanding checkouts", n)
	}

	select {
	case <-p.drained:
		log.Info("Finished shutting down checkout provider")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for outstanding checkouts: %w", ctx.Err())
	}
}

// Close is Shutdown with a background context.
func (p *Provider) Close() error {
	return p.Shutdown(context.Background())
}

// State returns the provider's current state.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Outstanding returns the number of handles not yet closed.
func (p *Provider) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding
}
