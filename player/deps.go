package player

import (
	"arba/config"
	"arba/model"
	"arba/searcher"
)

// NewDeps collects what NewSelector needs from a loaded configuration.
func NewDeps(cfg config.Config, scorer model.Scorer) Deps {
	s := cfg.Search
	search := []searcher.Option{
		searcher.WithGoroutines(s.Goroutines),
		searcher.WithCutoff(s.Cutoff),
		searcher.WithMetrics(),
	}
	if s.Episodes > 0 {
		search = append(search, searcher.WithEpisodes(s.Episodes))
	}
	if s.Duration > 0 {
		search = append(search, searcher.WithDuration(s.Duration))
	}
	return Deps{
		Scorer: scorer,
		Sample: cfg.AI.Sample,
		Search: search,
		Seed:   cfg.AI.Seed,
	}
}

// Factory returns a function building selectors for any mode from deps,
// deriving a fresh seed per selector when deps carries one.
func Factory(deps Deps) func(mode string, seed int64) (Selector, error) {
	return func(mode string, seed int64) (Selector, error) {
		d := deps
		if seed != 0 {
			d.Seed = seed
		}
		return NewSelector(mode, d)
	}
}
