package netmon

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/veldt-labs/prefsync/internal/core/ports/driven"
)

// DialFunc opens a connection for a reachability probe.
type DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

const (
	defaultProbeAddr     = "1.1.1.1:443"
	defaultProbeInterval = 30 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

// ProberConfig holds probe settings. Zero values fall back to defaults.
type ProberConfig struct {
	// Addr is the TCP address dialed to judge reachability.
	Addr string
	// Interval is the time between probes.
	Interval time.Duration
	// Timeout bounds a single probe attempt.
	Timeout time.Duration
	// Dial overrides the dialer, e.g. for tests.
	Dial DialFunc
}

// Ensure Prober implements the interface.
var _ driven.NetworkMonitor = (*Prober)(nil)

// Prober is a NetworkMonitor that infers connectivity by periodically
// dialing a TCP address. It starts offline and transitions online once
// the first probe succeeds.
type Prober struct {
	mu     sync.Mutex
	online bool
	closed bool
	subs   callbacks

	addr     string
	interval time.Duration
	timeout  time.Duration
	dial     DialFunc

	cancel context.CancelFunc
	done   chan struct{}
}

// NewProber creates a prober and starts its probe loop. The first probe
// runs immediately.
func NewProber(cfg ProberConfig) *Prober {
	if cfg.Addr == "" {
		cfg.Addr = defaultProbeAddr
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultProbeInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultProbeTimeout
	}
	if cfg.Dial == nil {
		cfg.Dial = (&net.Dialer{}).DialContext
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Prober{
		addr:     cfg.Addr,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		dial:     cfg.Dial,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	go p.run(ctx)
	return p
}

// IsOnline reports whether the last probe succeeded.
func (p *Prober) IsOnline() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// OnOnline registers fn to run on every offline-to-online transition.
// The returned cancel func removes the registration.
func (p *Prober) OnOnline(fn func()) func() {
	return p.subs.add(fn)
}

// Close stops the probe loop and waits for it to exit. Close is
// idempotent.
func (p *Prober) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	p.cancel()
	<-p.done
	return nil
}

func (p *Prober) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *Prober) probe(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", p.addr)
	if conn != nil {
		conn.Close()
	}
	p.setOnline(err == nil)
}

// setOnline records the probe result and fires callbacks outside the
// lock on an offline-to-online transition.
func (p *Prober) setOnline(online bool) {
	p.mu.Lock()
	wasOnline := p.online
	p.online = online
	p.mu.Unlock()

	if online && !wasOnline {
		for _, fn := range p.subs.snapshot() {
			fn()
		}
	}
}
