package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/events"
	"github.com/kilianp07/courseadvisor/core/logger"
	"github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/kilianp07/courseadvisor/core/model"
	"github.com/kilianp07/courseadvisor/core/monitoring"
	"github.com/kilianp07/courseadvisor/core/notify"
	"github.com/kilianp07/courseadvisor/core/recommend/logging"
	"github.com/kilianp07/courseadvisor/internal/eventbus"
)

// ErrInvalidCredits is returned for a negative credit target.
var ErrInvalidCredits = errors.New("invalid required credits")

// Request asks for a recommendation. Courses, when non-empty, replaces the
// engine catalog for this call only; nil or empty means the whole catalog.
type Request struct {
	ID              string
	StudentID       string
	Preferences     model.StudentPreferences
	RequiredCredits int
	Courses         []model.Course
}

// Result is the full outcome of one engine run.
type Result struct {
	RequestID       string
	StudentID       string
	Schedule        *model.Schedule
	Candidates      []Candidate
	RequiredCredits int
	Shortfall       int
	ScoreMean       float64
	ScoreStdDev     float64
	Duration        time.Duration
}

// Courses returns the selected courses in selection order.
func (r Result) Courses() []model.Course {
	if r.Schedule == nil {
		return nil
	}
	return r.Schedule.Courses
}

// TotalCredits returns the credits of the selected courses.
func (r Result) TotalCredits() int {
	if r.Schedule == nil {
		return 0
	}
	return r.Schedule.TotalCredits
}

// Empty reports that credits were requested but nothing could be selected.
func (r Result) Empty() bool { return r.RequiredCredits > 0 && len(r.Courses()) == 0 }

// Partial reports that some but not enough courses were selected.
func (r Result) Partial() bool { return r.Shortfall > 0 && !r.Empty() }

// Summary projects the selected schedule.
func (r Result) Summary() Summary { return Summarize(r.Schedule) }

func (r Result) outcome() string {
	switch {
	case r.Empty():
		return "empty"
	case r.Partial():
		return "partial"
	default:
		return "complete"
	}
}

// Engine recommends courses from a fixed catalog. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	catalog  *catalog.Catalog
	cfg      Config
	scorer   Scorer
	logger   logger.Logger
	metrics  metrics.MetricsSink
	bus      eventbus.EventBus
	store    logging.LogStore
	notifier notify.Notifier
	mu       sync.RWMutex
}

// NewEngine creates an engine over cat. sink, bus and log may be nil.
func NewEngine(cat *catalog.Catalog, cfg Config, sink metrics.MetricsSink, bus eventbus.EventBus, log logger.Logger) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("recommend: nil catalog provided to NewEngine")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{
		catalog: cat,
		cfg:     cfg,
		scorer:  NewWeightedScorer(cfg.Weights),
		logger:  log,
		metrics: sink,
		bus:     bus,
	}, nil
}

// SetLogStore configures the store used to persist recommendation logs.
func (e *Engine) SetLogStore(store logging.LogStore) {
	e.mu.Lock()
	e.store = store
	e.mu.Unlock()
}

// SetNotifier configures where finished recommendations are delivered.
func (e *Engine) SetNotifier(n notify.Notifier) {
	e.mu.Lock()
	e.notifier = n
	e.mu.Unlock()
}

// SetScorer replaces the weighted scorer.
func (e *Engine) SetScorer(s Scorer) {
	if s == nil {
		return
	}
	e.mu.Lock()
	e.scorer = s
	e.mu.Unlock()
}

// Catalog returns the catalog the engine recommends from.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Close releases the log store.
func (e *Engine) Close() error {
	e.mu.Lock()
	store := e.store
	e.store = nil
	e.mu.Unlock()
	if store != nil {
		return store.Close()
	}
	return nil
}

func (e *Engine) selector(prefs model.StudentPreferences) Selector {
	e.mu.RLock()
	scorer := e.scorer
	e.mu.RUnlock()
	sel := Selector{Scorer: scorer}
	if !e.cfg.IgnoreMinGap {
		sel.Detector.MinGap = time.Duration(prefs.MinGapMinutes) * time.Minute
	}
	return sel
}

// Recommend runs the selection over courses without validation or side
// effects and returns the chosen courses in selection order.
func (e *Engine) Recommend(courses []model.Course, prefs model.StudentPreferences, requiredCredits int) []model.Course {
	return e.selector(prefs).Select("", courses, prefs, requiredCredits).Courses()
}

// Run validates req, selects courses and fans the result out to the
// configured metrics sink, event bus, log store and notifier. Failing to
// reach the credit target is not an error; side-channel failures are logged
// and never returned.
func (e *Engine) Run(ctx context.Context, req Request) (Result, error) {
	if req.RequiredCredits < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidCredits, req.RequiredCredits)
	}
	prefs, err := req.Preferences.Normalize()
	if err != nil {
		return Result{}, err
	}
	req.Preferences = prefs
	courses := e.catalog.Courses()
	if len(req.Courses) > 0 {
		cat, err := catalog.New(req.Courses...)
		if err != nil {
			return Result{}, err
		}
		courses = cat.Courses()
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	if e.bus != nil {
		e.bus.Publish(events.RequestEvent{
			RequestID:       id,
			StudentID:       req.StudentID,
			RequiredCredits: req.RequiredCredits,
			Catalog:         len(courses),
		})
	}

	start := time.Now()
	sel := e.selector(req.Preferences).Select(req.StudentID, courses, req.Preferences, req.RequiredCredits)
	res := Result{
		RequestID:       id,
		StudentID:       req.StudentID,
		Schedule:        sel.Schedule,
		Candidates:      sel.Candidates,
		RequiredCredits: req.RequiredCredits,
		Shortfall:       sel.Shortfall(),
	}
	res.ScoreMean, res.ScoreStdDev = scoreStats(sel.Candidates)
	res.Duration = time.Since(start)

	recommendRuns.WithLabelValues(res.outcome()).Inc()
	recommendDuration.Observe(res.Duration.Seconds())
	e.publish(res)
	e.recordMetrics(res)
	e.appendLog(ctx, req, res)
	e.notify(ctx, res)

	e.logger.Infow("recommendation complete", map[string]any{
		"request_id":       id,
		"selected":         res.Schedule.CourseIDs(),
		"total_credits":    res.TotalCredits(),
		"required_credits": res.RequiredCredits,
		"shortfall":        res.Shortfall,
		"outcome":          res.outcome(),
	})
	return res, nil
}

// scoreStats returns the mean and sample standard deviation of candidate
// scores, zero when undefined.
func scoreStats(cands []Candidate) (float64, float64) {
	if len(cands) == 0 {
		return 0, 0
	}
	scores := make([]float64, len(cands))
	for i, c := range cands {
		scores[i] = c.Score
	}
	if len(scores) == 1 {
		return scores[0], 0
	}
	mean, std := stat.MeanStdDev(scores, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

func (e *Engine) publish(res Result) {
	for _, c := range res.Candidates {
		if c.Outcome != OutcomeDailyCap && c.Outcome != OutcomeConflict {
			continue
		}
		candidatesSkipped.WithLabelValues(string(c.Outcome)).Inc()
		e.logger.Debugf("skipped %s: %s (%s)", c.Course.ID, c.Outcome, c.Reason)
		if e.bus != nil {
			e.bus.Publish(events.CandidateEvent{
				RequestID: res.RequestID,
				CourseID:  c.Course.ID,
				Score:     c.Score,
				Outcome:   string(c.Outcome),
				Reason:    c.Reason,
			})
		}
	}
	if e.bus != nil {
		e.bus.Publish(events.RecommendationEvent{
			RequestID:       res.RequestID,
			StudentID:       res.StudentID,
			Selected:        res.Schedule.CourseIDs(),
			TotalCredits:    res.TotalCredits(),
			RequiredCredits: res.RequiredCredits,
			Shortfall:       res.Shortfall,
			Duration:        res.Duration,
		})
	}
}

// recordMetrics persists run metrics on the configured sink.
func (e *Engine) recordMetrics(res Result) {
	now := time.Now()
	err := e.metrics.RecordRecommendation(metrics.RecommendationRecord{
		RequestID:       res.RequestID,
		StudentID:       res.StudentID,
		Selected:        res.Schedule.CourseIDs(),
		Candidates:      len(res.Candidates),
		TotalCredits:    res.TotalCredits(),
		RequiredCredits: res.RequiredCredits,
		Shortfall:       res.Shortfall,
		ScoreMean:       res.ScoreMean,
		ScoreStdDev:     res.ScoreStdDev,
		Duration:        res.Duration,
		Time:            now,
	})
	if err != nil {
		e.logger.Errorf("metrics error: %v", err)
	}
	cr, ok := e.metrics.(metrics.CandidateRecorder)
	if !ok {
		return
	}
	recs := make([]metrics.CandidateRecord, len(res.Candidates))
	for i, c := range res.Candidates {
		recs[i] = metrics.CandidateRecord{
			RequestID: res.RequestID,
			CourseID:  c.Course.ID,
			Score:     c.Score,
			Outcome:   string(c.Outcome),
			Reason:    c.Reason,
			Time:      now,
		}
	}
	if err := cr.RecordCandidates(recs); err != nil {
		e.logger.Errorf("candidate metrics error: %v", err)
	}
}

func (e *Engine) appendLog(ctx context.Context, req Request, res Result) {
	e.mu.RLock()
	store := e.store
	e.mu.RUnlock()
	if store == nil {
		return
	}
	rec := logging.LogRecord{
		ID:              res.RequestID,
		Timestamp:       time.Now(),
		RequiredCredits: res.RequiredCredits,
		Preferences:     req.Preferences,
		Selected:        res.Schedule.CourseIDs(),
		TotalCredits:    res.TotalCredits(),
		Shortfall:       res.Shortfall,
		Scores:          make(map[string]float64, len(res.Candidates)),
	}
	for _, c := range res.Candidates {
		rec.Scores[c.Course.ID] = c.Score
		if c.Outcome == OutcomeDailyCap || c.Outcome == OutcomeConflict {
			if rec.Skipped == nil {
				rec.Skipped = make(map[string]string)
			}
			rec.Skipped[c.Course.ID] = string(c.Outcome)
		}
	}
	if err := store.Append(ctx, rec); err != nil {
		e.logger.Errorf("log store error: %v", err)
		monitoring.CaptureException(err, map[string]string{"component": "log_store", "request_id": res.RequestID})
	}
}

func (e *Engine) notify(ctx context.Context, res Result) {
	e.mu.RLock()
	n := e.notifier
	e.mu.RUnlock()
	if n == nil || res.StudentID == "" {
		return
	}
	err := n.Notify(ctx, notify.Notification{
		RequestID:       res.RequestID,
		StudentID:       res.StudentID,
		Schedule:        res.Schedule,
		RequiredCredits: res.RequiredCredits,
		Shortfall:       res.Shortfall,
	})
	if err != nil {
		e.logger.Warnf("notify %s: %v", res.StudentID, err)
		monitoring.CaptureException(err, map[string]string{"component": "notifier", "request_id": res.RequestID})
	}
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
