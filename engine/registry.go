package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nostalgiatan/see/models"
)

const (
	// failureThreshold is the consecutive failure count that puts an engine
	// into a cooldown after network-class errors.
	failureThreshold = 3

	// tempDisableDuration is the cooldown applied when the failure
	// threshold is crossed.
	tempDisableDuration = 5 * time.Minute

	// A zero-result streak usually means the engine is throttling us, so
	// the cooldown grows exponentially: 5, 25, 125, ... minutes.
	zeroResultBaseMinutes = 5
	zeroResultMaxExponent = 5
)

// engineState tracks the runtime health of one registered engine.
type engineState struct {
	enabled             bool
	disabledUntil       time.Time
	consecutiveFailures int
	zeroResultStreak    int
	totalRequests       uint64
	failedRequests      uint64
	avgResponseMs       int64
}

func (s *engineState) available(now time.Time) bool {
	return s.enabled && !now.Before(s.disabledUntil)
}

// recordSuccess resets the failure counters and folds the elapsed time into
// the running average.
func (s *engineState) recordSuccess(responseMs int64) {
	s.totalRequests++
	s.consecutiveFailures = 0
	s.zeroResultStreak = 0
	s.disabledUntil = time.Time{}

	if s.totalRequests == 1 {
		s.avgResponseMs = responseMs
	} else {
		s.avgResponseMs = (s.avgResponseMs*int64(s.totalRequests-1) + responseMs) / int64(s.totalRequests)
	}
}

func (s *engineState) recordFailure() {
	s.totalRequests++
	s.failedRequests++
	s.consecutiveFailures++
}

// recordZeroResults applies the exponential cooldown. The streak counter
// drives the exponent: 5 * 5^(streak-1) minutes, exponent capped so a flaky
// engine is never benched for more than a few days.
func (s *engineState) recordZeroResults(now time.Time) time.Duration {
	s.zeroResultStreak++

	exponent := min(s.zeroResultStreak-1, zeroResultMaxExponent)
	minutes := zeroResultBaseMinutes
	for i := 0; i < exponent; i++ {
		minutes *= 5
	}

	d := time.Duration(minutes) * time.Minute
	s.disabledUntil = now.Add(d)
	return d
}

// Registry holds the registered engines and their health state.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	engines map[string]Engine
	states  map[string]*engineState
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[string]Engine),
		states:  make(map[string]*engineState),
	}
}

// Register adds an engine. Re-registering a name replaces the engine and
// resets its health state.
func (r *Registry) Register(e Engine) {
	info := e.Info()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.engines[info.Name]; !exists {
		r.order = append(r.order, info.Name)
	}
	r.engines[info.Name] = e
	r.states[info.Name] = &engineState{enabled: true}

	slog.Info("engine registered", "engine", info.Name, "type", info.Type)
}

// Unregister removes an engine and its health state. Removing an unknown
// name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[name]; !ok {
		return
	}
	delete(r.engines, name)
	delete(r.states, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	slog.Info("engine unregistered", "engine", name)
}

// Get returns an engine ready for use. Unknown names and engines inside a
// cooldown window fail with distinct error codes.
func (r *Registry) Get(name string) (Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.engines[name]
	if !ok {
		return nil, models.NewSearchError(
			models.ErrCodeEngineUnknown,
			fmt.Sprintf("unknown engine %q", name),
			nil,
		)
	}
	if st := r.states[name]; !st.available(time.Now()) {
		return nil, models.NewSearchError(
			models.ErrCodeEngineDisabled,
			fmt.Sprintf("engine %q is cooling down until %s", name, st.disabledUntil.Format(time.RFC3339)),
			nil,
		)
	}
	return e, nil
}

// Has reports whether the name is registered, available or not.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.engines[name]
	return ok
}

// Names returns the registered engine names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Counts returns how many engines are currently available and the total
// number registered.
func (r *Registry) Counts() (available, total int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	for _, st := range r.states {
		if st.available(now) {
			available++
		}
	}
	return available, len(r.states)
}

// RecordSuccess notes a completed search. An empty result set feeds the
// exponential cooldown because engines that throttle automated traffic tend
// to serve empty shells rather than errors.
func (r *Registry) RecordSuccess(name string, elapsed time.Duration, resultCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[name]
	if !ok {
		return
	}

	if resultCount == 0 {
		d := st.recordZeroResults(time.Now())
		slog.Warn("engine returned zero results, cooling down",
			"engine", name,
			"streak", st.zeroResultStreak,
			"cooldown", d,
		)
		return
	}
	st.recordSuccess(elapsed.Milliseconds())
}

// RecordFailure notes a failed search. Network-class failures push the
// engine toward a temporary cooldown; validation-class failures only count.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[name]
	if !ok {
		return
	}

	st.recordFailure()
	if isNetworkClass(err) && st.consecutiveFailures >= failureThreshold {
		st.disabledUntil = time.Now().Add(tempDisableDuration)
		slog.Warn("engine disabled after repeated failures",
			"engine", name,
			"failures", st.consecutiveFailures,
			"cooldown", tempDisableDuration,
		)
	}
}

// TotalFailures returns the number of failed searches across all engines.
func (r *Registry) TotalFailures() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total uint64
	for _, st := range r.states {
		total += st.failedRequests
	}
	return total
}

// List reports every engine with its advertised metadata and current health,
// in registration order.
func (r *Registry) List() []models.EngineStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	out := make([]models.EngineStatus, 0, len(r.order))
	for _, name := range r.order {
		e := r.engines[name]
		st := r.states[name]
		info := e.Info()

		out = append(out, models.EngineStatus{
			Name:                info.Name,
			Type:                info.Type,
			Description:         info.Description,
			Categories:          info.Categories,
			Capabilities:        info.Capabilities,
			Enabled:             st.enabled,
			Available:           st.available(now),
			ConsecutiveFailures: st.consecutiveFailures,
			ZeroResultStreak:    st.zeroResultStreak,
			AvgResponseMs:       st.avgResponseMs,
		})
	}
	return out
}

// isNetworkClass reports whether the error suggests connectivity or
// upstream trouble rather than a local bug or bad input.
func isNetworkClass(err error) bool {
	var se *models.SearchError
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code {
	case models.ErrCodeTimeout,
		models.ErrCodeNavigation,
		models.ErrCodeBrowserCrash,
		models.ErrCodeFetch:
		return true
	}
	return false
}
