package extract

import "github.com/kilianp07/courseadvisor/core/factory"

var extractorRegistry = factory.NewRegistry[Extractor]()

// RegisterExtractor adds an extractor factory identified by name.
func RegisterExtractor(name string, f factory.Factory[Extractor]) error {
	return extractorRegistry.Register(name, f)
}

// ExtractorTypes lists the registered extractor names.
func ExtractorTypes() []string { return extractorRegistry.Types() }

// NewExtractor builds the configured extractor. An empty type selects "json".
func NewExtractor(cfg factory.ModuleConfig) (Extractor, error) {
	if cfg.Type == "" {
		cfg.Type = "json"
	}
	return extractorRegistry.Create(cfg)
}
