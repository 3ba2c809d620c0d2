// Package factory instantiates pluggable modules from configuration.
//
// A module is described by a type name and a map of raw settings. Factories
// registered under that name decode the settings with Decode and return the
// concrete implementation:
//
//	reg := factory.NewRegistry[catalog.Source]()
//	_ = reg.Register("file", func(conf map[string]any) (catalog.Source, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return catalog.NewFileSource(c.Path), nil
//	})
//	src, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "courses.yaml"}})
package factory
