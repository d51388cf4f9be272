package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bundlepitch/internal/logger"
)

const (
	// DefaultHealthInterval is how often dependencies are probed
	DefaultHealthInterval = 30 * time.Second
	// DefaultProbeTimeout bounds a single dependency ping
	DefaultProbeTimeout = 2 * time.Second
)

// Check is one dependency probed by the monitor
type Check struct {
	Name string
	// Critical checks gate readiness; the others only show up in reports.
	Critical bool
	Ping     func(ctx context.Context) error
}

// Status is the last probe result of a Check
type Status struct {
	Name      string        `json:"name"`
	OK        bool          `json:"ok"`
	Critical  bool          `json:"critical"`
	Error     string        `json:"error,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
	CheckedAt time.Time     `json:"checked_at"`
}

// HealthMonitor periodically pings dependencies and caches the results
type HealthMonitor struct {
	checks   []Check
	logger   logger.Logger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time

	mu     sync.RWMutex
	status map[string]Status

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewHealthMonitor creates a monitor over checks
func NewHealthMonitor(log logger.Logger, interval, timeout time.Duration, checks ...Check) *HealthMonitor {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}

	return &HealthMonitor{
		checks:   checks,
		logger:   log,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
		status:   make(map[string]Status, len(checks)),
		stopCh:   make(chan struct{}),
	}
}

// Start probes once, then keeps probing every interval until Stop or ctx ends
func (m *HealthMonitor) Start(ctx context.Context) error {
	m.Probe(ctx)

	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.Probe(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the probing loop
func (m *HealthMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// Probe runs every check once and records the results
func (m *HealthMonitor) Probe(ctx context.Context) {
	for _, c := range m.checks {
		st := m.probeOne(ctx, c)

		m.mu.Lock()
		prev, seen := m.status[c.Name]
		m.status[c.Name] = st
		m.mu.Unlock()

		switch {
		case !st.OK && (!seen || prev.OK):
			m.logger.Warn("dependency unhealthy",
				logger.String("check", c.Name),
				logger.Bool("critical", c.Critical),
				logger.String("error", st.Error))
		case st.OK && seen && !prev.OK:
			m.logger.Info("dependency recovered",
				logger.String("check", c.Name),
				logger.Duration("latency", st.Latency))
		}
	}
}

func (m *HealthMonitor) probeOne(ctx context.Context, c Check) Status {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := m.now()
	err := c.Ping(pingCtx)
	st := Status{
		Name:      c.Name,
		OK:        err == nil,
		Critical:  c.Critical,
		Latency:   m.now().Sub(start),
		CheckedAt: start,
	}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

// Snapshot returns the last known status of every check, sorted by name
func (m *HealthMonitor) Snapshot() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, 0, len(m.status))
	for _, st := range m.status {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Ready reports whether every critical check has been probed and passed
func (m *HealthMonitor) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, c := range m.checks {
		if !c.Critical {
			continue
		}
		st, ok := m.status[c.Name]
		if !ok || !st.OK {
			return false
		}
	}
	return true
}
