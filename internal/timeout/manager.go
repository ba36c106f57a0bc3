// Package timeout implements the Timeout Manager (spec §4.7): priority
// chain resolution from runtime override down to a hardcoded default, and
// a one-shot warning timer that fires before the resolved deadline.
package timeout

import (
	"time"

	"automatosx/internal/config"
	"automatosx/internal/events"
)

// DefaultTimeout is the hardcoded floor of the priority chain: 25 minutes.
const DefaultTimeout = 25 * time.Minute

// DefaultWarningThreshold is used when none is configured.
const DefaultWarningThreshold = 0.8

// Source names which level of the priority chain produced a Resolved
// value.
type Source string

const (
	SourceRuntime Source = "runtime"
	SourceAgent   Source = "agent"
	SourceTeam    Source = "team"
	SourceGlobal  Source = "global"
	SourceDefault Source = "default"
)

// Request describes the inputs to a single timeout resolution.
type Request struct {
	AgentName      string
	TeamName       string
	RuntimeTimeout time.Duration // zero means "not specified"
}

// Resolved is the outcome of resolving a Request against a Manager's
// configuration.
type Resolved struct {
	Value           time.Duration
	Source          Source
	WarningAt       time.Duration
	WarningsEnabled bool
}

// Manager resolves effective timeouts from a TimeoutsConfig's layered
// overrides.
type Manager struct {
	cfg config.TimeoutsConfig
	bus *events.Bus
}

// NewManager builds a Manager around cfg. bus may be nil, in which case
// StartMonitoring's warning fires silently.
func NewManager(cfg config.TimeoutsConfig, bus *events.Bus) *Manager {
	return &Manager{cfg: cfg, bus: bus}
}

// Resolve implements spec §4.7's priority chain: runtime > agent-specific
// > team-specific > global > hardcoded default.
func (m *Manager) Resolve(req Request) Resolved {
	value := DefaultTimeout
	source := SourceDefault

	if m.cfg.Global > 0 {
		value = time.Duration(m.cfg.Global) * time.Millisecond
		source = SourceGlobal
	}
	if req.TeamName != "" {
		if ms, ok := m.cfg.Teams[req.TeamName]; ok && ms > 0 {
			value = time.Duration(ms) * time.Millisecond
			source = SourceTeam
		}
	}
	if req.AgentName != "" {
		if ms, ok := m.cfg.Agents[req.AgentName]; ok && ms > 0 {
			value = time.Duration(ms) * time.Millisecond
			source = SourceAgent
		}
	}
	if req.RuntimeTimeout > 0 {
		value = req.RuntimeTimeout
		source = SourceRuntime
	}

	threshold := m.cfg.WarningThreshold
	warningsEnabled := true
	if threshold == 0 {
		threshold = DefaultWarningThreshold
	}
	if threshold < 0.5 || threshold > 0.95 {
		threshold = DefaultWarningThreshold
	}

	warningAt := time.Duration(float64(value) * threshold)
	return Resolved{
		Value:           value,
		Source:          source,
		WarningAt:       warningAt,
		WarningsEnabled: warningsEnabled,
	}
}

// Handle is returned by StartMonitoring; Stop cancels the pending warning
// timer if it has not already fired.
type Handle struct {
	timer *time.Timer
}

// Stop cancels the warning timer. Safe to call more than once.
func (h *Handle) Stop() {
	if h.timer != nil {
		h.timer.Stop()
	}
}

// MonitorTarget names the task a monitor's warning event refers to.
type MonitorTarget struct {
	Agent string
	Task  string
}

// StartMonitoring arms a one-shot timer at resolved.WarningAt. On fire, it
// emits a TimeoutWarning event carrying elapsed/remaining/total, unless
// resolved.WarningsEnabled is false.
func (m *Manager) StartMonitoring(resolved Resolved, target MonitorTarget) *Handle {
	if !resolved.WarningsEnabled || resolved.WarningAt <= 0 {
		return &Handle{}
	}

	timer := time.AfterFunc(resolved.WarningAt, func() {
		if m.bus == nil {
			return
		}
		m.bus.Emit(events.Event{
			Kind:      events.TimeoutWarning,
			Timestamp: time.Now(),
			Payload: map[string]any{
				"agent":     target.Agent,
				"task":      target.Task,
				"elapsed":   resolved.WarningAt,
				"remaining": resolved.Value - resolved.WarningAt,
				"total":     resolved.Value,
			},
		})
	})
	return &Handle{timer: timer}
}
