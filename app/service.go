// Package app wires configuration into a running recommendation service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	api "github.com/kilianp07/courseadvisor/api/recommend"
	"github.com/kilianp07/courseadvisor/config"
	"github.com/kilianp07/courseadvisor/core/catalog"
	"github.com/kilianp07/courseadvisor/core/events"
	"github.com/kilianp07/courseadvisor/core/extract"
	coremetrics "github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/kilianp07/courseadvisor/core/monitoring"
	"github.com/kilianp07/courseadvisor/core/recommend"
	"github.com/kilianp07/courseadvisor/core/recommend/logging"
	_ "github.com/kilianp07/courseadvisor/infra/catalog"
	_ "github.com/kilianp07/courseadvisor/infra/extract"
	"github.com/kilianp07/courseadvisor/infra/logger"
	"github.com/kilianp07/courseadvisor/infra/metrics"
	inframon "github.com/kilianp07/courseadvisor/infra/monitoring"
	"github.com/kilianp07/courseadvisor/infra/mqtt"
	"github.com/kilianp07/courseadvisor/internal/eventbus"
)

// Service owns the engine and every component around it.
type Service struct {
	Engine    *recommend.Engine
	Extractor extract.Extractor
	LogStore  logging.LogStore

	cfg      *config.Config
	bus      *eventbus.Bus
	sink     coremetrics.MetricsSink
	source   catalog.Source
	notifier *mqtt.PahoNotifier
	log      logger.Logger
}

// New builds a Service from the configuration. Components that need a
// network connection (MQTT) connect here; HTTP listeners start in Run.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	mon, err := inframon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	src, err := catalog.NewSource(cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}
	cat, err := catalog.Load(ctx, src)
	if err != nil {
		closeQuietly(src)
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logg.Infof("loaded %d courses from %s catalog", cat.Len(), cfg.Catalog.Type)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		closeQuietly(src)
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	bus := eventbus.New()
	svc := &Service{cfg: cfg, bus: bus, sink: sink, source: src, log: logg}

	eng, err := recommend.NewEngine(cat, cfg.Recommend, sink, bus, logger.New("recommend"))
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("engine: %w", err)
	}
	svc.Engine = eng

	store, err := cfg.Logging.OpenStore()
	if err != nil {
		_ = svc.Close()
		return nil, err
	}
	if store != nil {
		eng.SetLogStore(store)
		svc.LogStore = store
	}

	if cfg.MQTT.Enabled() {
		n, err := mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		eng.SetNotifier(n)
		svc.notifier = n
	}

	ex, err := extract.NewExtractor(cfg.Extractor)
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("extractor: %w", err)
	}
	svc.Extractor = ex
	return svc, nil
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	api.Register(mux, api.Deps{
		Engine:        s.Engine,
		Extractor:     s.Extractor,
		ExtractorName: s.cfg.Extractor.Type,
		Bus:           s.bus,
		LogStore:      s.LogStore,
		LogToken:      s.cfg.HTTP.LogToken,
		Calendar:      s.cfg.Calendar.Options(),
	})
	return mux
}

// Run serves the API and the metrics endpoint and blocks until ctx is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	defer monitoring.Recover()

	metrics.StartEventCollector(ctx, s.bus, s.sink)
	s.logEvents(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
				monitoring.CaptureException(err, map[string]string{"module": "prometheus"})
			}
		}()
	}

	srv := &http.Server{
		Addr:              s.cfg.HTTP.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.HTTP.ReadTimeout,
		WriteTimeout:      s.cfg.HTTP.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("serving API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// logEvents writes engine events to the debug log until ctx is canceled.
func (s *Service) logEvents(ctx context.Context) {
	sub := s.bus.Subscribe()
	go func() {
		defer s.bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.CandidateEvent:
					s.log.Debugw("candidate skipped", map[string]any{
						"request_id": e.RequestID, "course_id": e.CourseID, "outcome": e.Outcome, "reason": e.Reason,
					})
				case events.ExtractionEvent:
					s.log.Debugw("preferences extracted", map[string]any{
						"extractor": e.Extractor, "result": e.Result, "questions": e.Questions,
					})
				}
			}
		}
	}()
}

// Close releases resources held by the service. It is safe to call on a
// partially built service.
func (s *Service) Close() error {
	var errs []error
	if s.Engine != nil {
		errs = append(errs, s.Engine.Close())
	}
	if s.notifier != nil {
		errs = append(errs, s.notifier.Close())
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if c, ok := s.source.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if s.bus != nil {
		s.bus.Close()
	}
	monitoring.Flush(2 * time.Second)
	return errors.Join(errs...)
}

func closeQuietly(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
