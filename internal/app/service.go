// Package service holds the application context: the data-source handle and
// the narrative generator, built once at startup, plus the per-request
// analysis pipeline that the HTTP handlers call.
package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/recupero/internal/domain/record"
	"github.com/okian/recupero/pkg/logger"
	"github.com/okian/recupero/pkg/metrics"
)

// State is the presentation state an analysis resolves to.
type State string

// Presentation states. Querying only exists client-side while a request is
// in flight.
const (
	StateIdle     State = "idle"
	StateQuerying State = "querying"
	StateResult   State = "result"
	StateNotFound State = "not_found"
	StateFailed   State = "failed"
)

var errNoSource = errors.New("no data source configured")

// Source reads the full record set. Each call is one round trip.
type Source interface {
	FetchAll(ctx context.Context) (record.Set, error)
}

// ConnectFunc opens the data source.
type ConnectFunc func(ctx context.Context) (Source, error)

// Narrator produces the markdown report for a non-empty record set.
type Narrator interface {
	Generate(ctx context.Context, set record.Set, summary record.Summary) (string, error)
}

// Analysis is the outcome of one user action.
type Analysis struct {
	ID        uuid.UUID      `json:"id"`
	Query     string         `json:"query"`
	State     State          `json:"state"`
	Set       record.Set     `json:"records"`
	Summary   record.Summary `json:"summary"`
	Report    string         `json:"report,omitempty"`
	Failure   *Failure       `json:"-"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

// Service runs analyses against one long-lived data source.
type Service struct {
	mu sync.RWMutex

	connect  ConnectFunc
	source   Source
	connErr  error
	narrator Narrator

	started bool

	analyses     sync.Map // State -> *atomic.Int64
	lastAnalysis atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConnector sets how the data source is opened.
func WithConnector(fn ConnectFunc) Option {
	return func(s *Service) {
		if fn != nil {
			s.connect = fn
		}
	}
}

// WithSource sets an already-open data source.
func WithSource(src Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithNarrator sets the report generator.
func WithNarrator(n Narrator) Option {
	return func(s *Service) {
		if n != nil {
			s.narrator = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the data source. A connection failure does not stop the
// service: it is kept and reported by every analysis until a later
// reconnect succeeds.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.source == nil && s.connect == nil {
		return errNoSource
	}

	s.logger.Info(ctx, "starting analysis service...")
	if s.source == nil {
		s.connectLocked(ctx)
	}
	metrics.UpdateSourceConnected(s.source != nil)

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Bool("source_connected", s.source != nil),
		logger.Bool("narrator", s.narrator != nil))
	return nil
}

func (s *Service) connectLocked(ctx context.Context) {
	src, err := s.connect(ctx)
	if err != nil {
		s.connErr = err
		s.logger.Error(ctx, "data source connection failed", logger.Error(err))
		return
	}
	s.source, s.connErr = src, nil
}

// Stop releases the data source.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if c, ok := s.source.(io.Closer); ok {
		_ = c.Close()
	}
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// Connected reports whether the data source is open.
func (s *Service) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source != nil
}

// dataSource returns the open source, reconnecting once if the last attempt
// failed.
func (s *Service) dataSource(ctx context.Context) (Source, error) {
	s.mu.RLock()
	src, started := s.source, s.started
	s.mu.RUnlock()
	if src != nil {
		return src, nil
	}
	if !started {
		return nil, errors.New("service not started")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.source == nil {
		s.connectLocked(ctx)
		metrics.UpdateSourceConnected(s.source != nil)
	}
	if s.source == nil {
		return nil, s.connErr
	}
	return s.source, nil
}

// Analyze runs fetch, filter, summarize and generate for one query. It
// never returns an error: failures are carried in the Analysis.
func (s *Service) Analyze(ctx context.Context, query string) (a Analysis) {
	a = Analysis{
		ID:        uuid.New(),
		Query:     query,
		StartedAt: time.Now(),
	}
	ctx = logger.ContextWith(ctx, logger.String("analysis_id", a.ID.String()))
	defer s.finish(ctx, &a)

	// Blank input is Idle; the query itself is matched as typed.
	if strings.TrimSpace(query) == "" {
		a.State = StateIdle
		return a
	}

	src, err := s.dataSource(ctx)
	if err != nil {
		a.State, a.Failure = StateFailed, &Failure{Kind: KindConnection, Err: err}
		return a
	}

	fetchStart := time.Now()
	all, err := src.FetchAll(ctx)
	if err != nil {
		f := fetchFailure(err)
		metrics.RecordSourceFetchError(string(f.Kind))
		a.State, a.Failure = StateFailed, f
		return a
	}
	metrics.RecordSourceFetch(float64(time.Since(fetchStart).Milliseconds()), all.Len())

	a.Set = record.Filter(all, query)
	metrics.RecordRecordsMatched(a.Set.Len())
	if a.Set.Empty() {
		a.State = StateNotFound
		return a
	}

	a.Summary = record.Summarize(a.Set)
	a.State = StateResult

	if s.narrator == nil {
		a.Failure = &Failure{Kind: KindGeneration, Err: errors.New("no narrator configured")}
		return a
	}
	report, err := s.narrator.Generate(ctx, a.Set, a.Summary)
	if err != nil {
		a.Failure = &Failure{Kind: KindGeneration, Err: err}
		return a
	}
	a.Report = report
	return a
}

func (s *Service) finish(ctx context.Context, a *Analysis) {
	a.Duration = time.Since(a.StartedAt)
	ms := float64(a.Duration.Milliseconds())

	s.counter(a.State).Add(1)
	s.lastAnalysis.Store(a.StartedAt.UnixNano())
	metrics.RecordAnalysis(string(a.State), ms)

	fields := []logger.Field{
		logger.String("state", string(a.State)),
		logger.Int("query_len", len(a.Query)),
		logger.Int("records", a.Set.Len()),
		logger.Float64("duration_ms", ms),
	}
	if a.Failure != nil {
		metrics.RecordErrorByComponent("service", string(a.Failure.Kind))
		metrics.RecordErrorLatency("service", string(a.Failure.Kind), ms)
		fields = append(fields, logger.String("kind", string(a.Failure.Kind)), logger.Error(a.Failure.Err))
		s.log().Error(ctx, "analysis failed", fields...)
		return
	}
	s.log().Info(ctx, "analysis finished", fields...)
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Named("service")
	}
	return l
}

func (s *Service) counter(state State) *atomic.Int64 {
	v, _ := s.analyses.LoadOrStore(state, new(atomic.Int64))
	return v.(*atomic.Int64)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int64)
	var total int64
	for _, st := range []State{StateIdle, StateResult, StateNotFound, StateFailed} {
		n := s.counter(st).Load()
		counts[string(st)] = n
		total += n
	}

	stats := map[string]interface{}{
		"started":          s.started,
		"source_connected": s.source != nil,
		"narrator":         s.narrator != nil,
		"analyses":         counts,
		"analyses_total":   total,
	}
	if s.connErr != nil && s.source == nil {
		stats["source_error"] = s.connErr.Error()
	}
	if ts := s.lastAnalysis.Load(); ts > 0 {
		stats["last_analysis_at"] = time.Unix(0, ts).UTC().Format(time.RFC3339)
	}
	return stats
}
