package recommend

import (
	"net/http"

	"github.com/kilianp07/courseadvisor/core/calendar"
	"github.com/kilianp07/courseadvisor/core/extract"
	engine "github.com/kilianp07/courseadvisor/core/recommend"
	"github.com/kilianp07/courseadvisor/core/recommend/logging"
	"github.com/kilianp07/courseadvisor/internal/eventbus"
)

// Deps groups what the routes need. Extractor and LogStore may be nil.
type Deps struct {
	Engine        *engine.Engine
	Extractor     extract.Extractor
	ExtractorName string
	Bus           eventbus.EventBus
	LogStore      logging.LogStore
	LogToken      string
	Calendar      calendar.Options
}

// Register mounts every endpoint on mux.
func Register(mux *http.ServeMux, d Deps) {
	mux.Handle("/api/catalog", NewCatalogHandler(d.Engine.Catalog()))
	mux.Handle("/api/recommendations", NewRecommendHandler(d.Engine, d.Extractor, d.ExtractorName, d.Bus))
	mux.Handle("/api/calendar", NewCalendarHandler(d.Engine.Catalog(), d.Calendar))
	if d.LogStore != nil {
		mux.Handle("/api/recommendations/logs", NewLogHandler(d.LogStore, d.LogToken))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
