package catalog

import (
	"errors"

	"github.com/kilianp07/courseadvisor/core/factory"
)

var sourceRegistry = factory.NewRegistry[Source]()

// RegisterSource adds a catalog source factory identified by name.
func RegisterSource(name string, f factory.Factory[Source]) error {
	return sourceRegistry.Register(name, f)
}

// NewSource builds the configured source. An empty type yields the sample
// catalog.
func NewSource(cfg factory.ModuleConfig) (Source, error) {
	if cfg.Type == "" {
		cfg.Type = "sample"
	}
	return sourceRegistry.Create(cfg)
}

func init() {
	_ = RegisterSource("sample", func(map[string]any) (Source, error) {
		return &Static{cat: Sample()}, nil
	})
	_ = RegisterSource("file", func(conf map[string]any) (Source, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, errors.New("file catalog: path is required")
		}
		return NewFileSource(c.Path), nil
	})
}
