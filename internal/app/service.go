// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/takathon/internal/domain/eligibility"
	"github.com/okian/takathon/internal/domain/matching"
	"github.com/okian/takathon/internal/domain/model"
	"github.com/okian/takathon/internal/domain/types"
	"github.com/okian/takathon/pkg/logger"
	"github.com/okian/takathon/pkg/metrics"
)

// Sentinel errors returned by Recommend.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrTeamFull       = errors.New("team is full")
	ErrLimitExceeded  = errors.New("limit exceeds maximum")
)

// Response messages.
const (
	MessageNoCandidates = "No available candidates"
	MessageNoEligible   = "No eligible candidates"
)

// Default service configuration.
const (
	defaultLimit          = 5
	defaultMaxLimit       = 100
	defaultMaxTeamSize    = 4
	metricsUpdateInterval = 5 * time.Second
)

// Service answers teammate recommendation requests. It is built once at start
// and shared by every handler; the engine it wraps is stateless.
type Service struct {
	mu sync.RWMutex

	engine *matching.Engine

	// Configuration
	defaultLimit    int
	maxLimit        int
	minTeamSize     int
	maxTeamSize     int
	strictIDs       bool
	minCompleteness float64
	metricsInterval time.Duration

	// State
	started   bool
	startedAt time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}

	requests     atomic.Uint64
	rejected     atomic.Uint64
	suggestions  atomic.Uint64
	emptyResults atomic.Uint64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the recommendation engine.
func WithEngine(e *matching.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithDefaultLimit sets the limit used when a request does not set one.
func WithDefaultLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultLimit = n
		}
	}
}

// WithMaxLimit caps the limit a request may ask for.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithTeamSizeBounds sets the hackathon team-size bounds applied to teams that
// do not carry their own.
func WithTeamSizeBounds(minSize, maxSize int) Option {
	return func(s *Service) {
		if minSize > 0 && maxSize >= minSize {
			s.minTeamSize = minSize
			s.maxTeamSize = maxSize
		}
	}
}

// WithStrictIDs requires team IDs to be UUIDs.
func WithStrictIDs(strict bool) Option {
	return func(s *Service) {
		s.strictIDs = strict
	}
}

// WithMinCompleteness records the eligibility threshold for reporting in stats.
func WithMinCompleteness(f float64) Option {
	return func(s *Service) {
		s.minCompleteness = f
	}
}

// WithMetricsInterval sets how often runtime metrics are refreshed while started.
func WithMetricsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.metricsInterval = d
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:          matching.New(),
		defaultLimit:    defaultLimit,
		maxLimit:        defaultMaxLimit,
		minTeamSize:     eligibility.DefaultMinTeamSize,
		maxTeamSize:     defaultMaxTeamSize,
		minCompleteness: 0.5,
		metricsInterval: metricsUpdateInterval,
		startedAt:       time.Now(),
		logger:          logger.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.defaultLimit > s.maxLimit {
		s.defaultLimit = s.maxLimit
	}

	return s
}

// Start begins refreshing runtime metrics until Stop is called.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.runMetricsUpdater(s.stopCh, s.doneCh)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.String("strategy", s.engine.StrategyName()),
		logger.Int("defaultLimit", s.defaultLimit),
		logger.Int("maxLimit", s.maxLimit),
	)
	return nil
}

// Stop halts background work. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	close(s.stopCh)
	<-s.doneCh

	s.started = false
	s.logger.Info(context.Background(), "matching service stopped")
}

func (s *Service) runMetricsUpdater(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.metricsInterval)
	defer ticker.Stop()

	updateRuntimeMetrics()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			updateRuntimeMetrics()
		}
	}
}

func updateRuntimeMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / float64(time.Millisecond)
	}
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine(), avgPauseMs)
}

// Recommend ranks the request's candidates for its team.
func (s *Service) Recommend(ctx context.Context, req types.RecommendRequest) (types.RecommendResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.RecommendResponse{}, err
	}
	s.requests.Add(1)

	team, err := s.prepareTeam(req)
	if err != nil {
		return s.reject(ctx, "invalid_request", err)
	}
	if !eligibility.HasOpenSpot(team.Size(), team.MaxSize) {
		return s.reject(ctx, "team_full", fmt.Errorf("%w: team %s has %d of %d members", ErrTeamFull, team.ID, team.Size(), team.MaxSize))
	}

	limit := req.Limit
	switch {
	case limit < 0:
		return s.reject(ctx, "invalid_request", fmt.Errorf("%w: limit must not be negative", ErrInvalidRequest))
	case limit == 0:
		limit = s.defaultLimit
	case limit > s.maxLimit:
		return s.reject(ctx, "limit_exceeded", fmt.Errorf("%w: %d > %d", ErrLimitExceeded, limit, s.maxLimit))
	}

	start := time.Now()
	res := s.engine.Recommend(team, candidatePool(req.Candidates, team.HackathonID), limit)
	latencyMs := float64(time.Since(start)) / float64(time.Millisecond)
	metrics.RecordRecommendation(res.Strategy, res.Considered, res.Excluded, len(res.Recommendations), latencyMs)

	spots, _ := team.OpenSpots()
	resp := types.RecommendResponse{
		TeamID:        team.ID,
		Suggestions:   types.NewSuggestions(res.Recommendations),
		Strategy:      res.Strategy,
		OpenSpots:     spots,
		TeamSizeValid: eligibility.IsValidTeamSize(team.Size(), team.MaxSize, team.MinSize),
		Considered:    res.Considered,
		Excluded:      res.Excluded,
	}
	switch {
	case len(req.Candidates) == 0:
		resp.Message = MessageNoCandidates
	case len(resp.Suggestions) == 0:
		resp.Message = MessageNoEligible
	}

	s.suggestions.Add(uint64(len(resp.Suggestions)))
	if len(resp.Suggestions) == 0 {
		s.emptyResults.Add(1)
	}

	s.logger.Debug(ctx, "recommendations computed",
		logger.String("teamId", team.ID),
		logger.String("strategy", res.Strategy),
		logger.Int("considered", res.Considered),
		logger.Int("excluded", res.Excluded),
		logger.Int("returned", len(resp.Suggestions)),
		logger.Float64("latencyMs", latencyMs),
	)
	return resp, nil
}

// prepareTeam validates the request's team and fills defaults. The request is not modified.
func (s *Service) prepareTeam(req types.RecommendRequest) (model.Team, error) {
	team := req.Team
	if strings.TrimSpace(team.HackathonID) == "" {
		return model.Team{}, fmt.Errorf("%w: team.hackathonId is required", ErrInvalidRequest)
	}
	if s.strictIDs {
		if _, err := uuid.Parse(team.ID); err != nil {
			return model.Team{}, fmt.Errorf("%w: team.teamId must be a UUID: %w", ErrInvalidRequest, err)
		}
	}
	if len(team.Skills) == 0 && len(req.TeamSkills) > 0 {
		team.Skills = req.TeamSkills
	}
	if team.MinSize <= 0 {
		team.MinSize = s.minTeamSize
	}
	if team.MaxSize <= 0 {
		if req.OpenSpots != nil && *req.OpenSpots >= 0 {
			team.MaxSize = team.Size() + *req.OpenSpots
		} else {
			team.MaxSize = s.maxTeamSize
		}
	}
	return team, nil
}

// candidatePool returns candidates with a missing hackathon reference set to
// hackathonID, as callers that pre-filter by hackathon omit it. The input
// slice is copied before any change.
func candidatePool(candidates []model.Participant, hackathonID string) []model.Participant {
	for i := range candidates {
		if candidates[i].HackathonID != "" {
			continue
		}
		pool := make([]model.Participant, len(candidates))
		copy(pool, candidates)
		for j := i; j < len(pool); j++ {
			if pool[j].HackathonID == "" {
				pool[j].HackathonID = hackathonID
			}
		}
		return pool
	}
	return candidates
}

func (s *Service) reject(ctx context.Context, reason string, err error) (types.RecommendResponse, error) {
	s.rejected.Add(1)
	metrics.RecordRejectedRequest(reason)
	s.logger.Debug(ctx, "recommendation rejected", logger.String("reason", reason), logger.Error(err))
	return types.RecommendResponse{}, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	return types.Stats{
		Strategy:        s.engine.StrategyName(),
		Requests:        s.requests.Load(),
		Rejected:        s.rejected.Load(),
		Suggestions:     s.suggestions.Load(),
		EmptyResults:    s.emptyResults.Load(),
		UptimeSeconds:   time.Since(s.startedAt).Seconds(),
		DefaultLimit:    s.defaultLimit,
		MaxLimit:        s.maxLimit,
		MinTeamSize:     s.minTeamSize,
		MaxTeamSize:     s.maxTeamSize,
		StrictIDs:       s.strictIDs,
		MinCompleteness: s.minCompleteness,
	}
}

// Started reports whether Start has been called without a matching Stop.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
