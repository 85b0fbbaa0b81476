package services

import (
	"math"
	"sync"
	"time"
)

// RateLimitConfig holds one limiter preset
type RateLimitConfig struct {
	Name        string
	MaxRequests int           // Max requests per key per window
	Window      time.Duration // Fixed window length
	Message     string
}

// Presets for the route groups
var (
	GeneralRateLimit = RateLimitConfig{
		Name:        "general",
		MaxRequests: 100,
		Window:      15 * time.Minute,
		Message:     "Too many requests from this IP, please try again later.",
	}
	AuthRateLimit = RateLimitConfig{
		Name:        "auth",
		MaxRequests: 5,
		Window:      15 * time.Minute,
		Message:     "Too many authentication attempts, please try again later.",
	}
	BookingRateLimit = RateLimitConfig{
		Name:        "booking",
		MaxRequests: 10,
		Window:      time.Hour,
		Message:     "Too many booking attempts, please try again later.",
	}
	AdminRateLimit = RateLimitConfig{
		Name:        "admin",
		MaxRequests: 200,
		Window:      15 * time.Minute,
		Message:     "Too many admin requests, please try again later.",
	}
)

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // preset name
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// RetryAfterSeconds rounds the wait up to whole seconds
func (e *RateLimitError) RetryAfterSeconds(now time.Time) int {
	return int(math.Ceil(e.RetryAfter.Sub(now).Seconds()))
}

// RateLimitStatus is the state of a key after an allowed request
type RateLimitStatus struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

type rateLimitEntry struct {
	count     int
	resetTime time.Time
}

// RateLimitService is an in-process fixed-window limiter keyed by client
type RateLimitService struct {
	config  RateLimitConfig
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

// NewRateLimitService creates a limiter for one preset
func NewRateLimitService(config RateLimitConfig) *RateLimitService {
	return &RateLimitService{
		config:  config,
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Allow counts a request for key. It returns a *RateLimitError once the
// window budget is spent.
func (s *RateLimitService) Allow(key string) (RateLimitStatus, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || entry.resetTime.Before(now) {
		entry = &rateLimitEntry{resetTime: now.Add(s.config.Window)}
		s.entries[key] = entry
	}
	entry.count++

	if entry.count > s.config.MaxRequests {
		return RateLimitStatus{}, &RateLimitError{
			Message:    s.config.Message,
			RetryAfter: entry.resetTime,
			Type:       s.config.Name,
		}
	}

	remaining := s.config.MaxRequests - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return RateLimitStatus{
		Limit:     s.config.MaxRequests,
		Remaining: remaining,
		Reset:     entry.resetTime,
	}, nil
}

// CleanupExpiredRateLimits drops keys whose window has passed
func (s *RateLimitService) CleanupExpiredRateLimits() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.resetTime.Before(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys
func (s *RateLimitService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
