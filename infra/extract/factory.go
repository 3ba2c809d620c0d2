package extract

import (
	core "github.com/kilianp07/courseadvisor/core/extract"
	"github.com/kilianp07/courseadvisor/core/factory"
)

func init() {
	_ = core.RegisterExtractor("json", func(map[string]any) (core.Extractor, error) {
		return JSONExtractor{}, nil
	})
	_ = core.RegisterExtractor("chat", func(conf map[string]any) (core.Extractor, error) {
		var c ChatConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewChatExtractor(c)
	})
}
