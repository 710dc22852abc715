package resilience

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Level is the degradation level of a collaborator.
type Level string

const (
	LevelNormal      Level = "normal"
	LevelDegraded    Level = "degraded"
	LevelUnavailable Level = "unavailable"
)

// HealthConfig sets the error-rate thresholds of each level.
type HealthConfig struct {
	DegradedThreshold    float64 `yaml:"degradedThreshold"`
	UnavailableThreshold float64 `yaml:"unavailableThreshold"`
	// MinRequests is the sample size below which a collaborator stays normal.
	MinRequests int64 `yaml:"minRequests"`
}

func DefaultHealthConfig() HealthConfig {
	return HealthConfig{
		DegradedThreshold:    0.1,
		UnavailableThreshold: 0.5,
		MinRequests:          5,
	}
}

// CollaboratorHealth is a point-in-time view of one collaborator.
type CollaboratorHealth struct {
	Name          string    `json:"name"`
	Level         Level     `json:"level"`
	ErrorRate     float64   `json:"error_rate"`
	TotalRequests int64     `json:"total_requests"`
	ErrorCount    int64     `json:"error_count"`
	Fallbacks     int64     `json:"fallbacks"`
	LastError     string    `json:"last_error,omitempty"`
	LastErrorTime time.Time `json:"last_error_time,omitempty"`
}

// HealthTracker records call outcomes of external collaborators so the health
// endpoint can report degraded judges and narrators.
type HealthTracker struct {
	config HealthConfig
	now    func() time.Time

	mu       sync.RWMutex
	services map[string]*CollaboratorHealth
}

func NewHealthTracker(config HealthConfig) *HealthTracker {
	if config.MinRequests <= 0 {
		config.MinRequests = DefaultHealthConfig().MinRequests
	}
	return &HealthTracker{
		config:   config,
		now:      time.Now,
		services: make(map[string]*CollaboratorHealth),
	}
}

func (h *HealthTracker) get(name string) *CollaboratorHealth {
	s, ok := h.services[name]
	if !ok {
		s = &CollaboratorHealth{Name: name, Level: LevelNormal}
		h.services[name] = s
	}
	return s
}

// Record stores the outcome of one call. A non-nil err counts as a failure and
// the caller is assumed to have used its fallback.
func (h *HealthTracker) Record(name string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.get(name)
	s.TotalRequests++
	if err != nil {
		s.ErrorCount++
		s.Fallbacks++
		s.LastError = err.Error()
		s.LastErrorTime = h.now()
	}
	s.ErrorRate = float64(s.ErrorCount) / float64(s.TotalRequests)

	old := s.Level
	s.Level = h.levelFor(s)
	if old != s.Level {
		slog.Warn("Collaborator health changed",
			"collaborator", name,
			"from", old,
			"to", s.Level,
			"error_rate", s.ErrorRate)
	}
}

func (h *HealthTracker) levelFor(s *CollaboratorHealth) Level {
	if s.TotalRequests < h.config.MinRequests {
		return LevelNormal
	}
	switch {
	case s.ErrorRate >= h.config.UnavailableThreshold:
		return LevelUnavailable
	case s.ErrorRate >= h.config.DegradedThreshold:
		return LevelDegraded
	default:
		return LevelNormal
	}
}

// Get returns the health of one collaborator.
func (h *HealthTracker) Get(name string) (CollaboratorHealth, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.services[name]
	if !ok {
		return CollaboratorHealth{}, false
	}
	return *s, true
}

// Snapshot returns every tracked collaborator sorted by name.
func (h *HealthTracker) Snapshot() []CollaboratorHealth {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]CollaboratorHealth, 0, len(h.services))
	for _, s := range h.services {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Degraded reports whether any collaborator is below normal.
func (h *HealthTracker) Degraded() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.services {
		if s.Level != LevelNormal {
			return true
		}
	}
	return false
}
