package metrics

import (
	"sync/atomic"
	"time"

	"arba/game"
)

type SearchMetric struct {
	Goroutines   int
	Duration     time.Duration
	Episodes     int
	Cutoff       int
	FullPlayouts int
	Arms         int  // Number of root actions considered
	TreeReused   bool // Search continued the previous tree
}

type MoveMetric struct {
	Step   int
	Player game.Player
	Action game.Move
	SearchMetric
}

type GameMetric struct {
	StartingPlayer game.Player
	Winner         game.Player
	DrawReason     game.DrawReason
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalActions   int
	Truncated      bool // Stopped at the action cap without a result
}

type Collector interface {
	Start(goroutines, cutoff, arms int)
	AddFullPlayout()
	AddEpisode()
	Complete() SearchMetric
}

type collector struct {
	goroutines   int
	cutoff       int
	arms         int
	startTime    time.Time
	episodes     atomic.Int32
	fullPlayouts atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(goroutines, cutoff, arms int) {
	m.startTime = time.Now()
	m.goroutines = goroutines
	m.cutoff = cutoff
	m.arms = arms
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Goroutines:   m.goroutines,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Cutoff:       m.cutoff,
		Arms:         m.arms,
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(goroutines, cutoff, arms int) {}
func (m *dummyCollector) AddFullPlayout()                    {}
func (m *dummyCollector) AddEpisode()                        {}
func (m *dummyCollector) Complete() SearchMetric             { return SearchMetric{} }

// Tally aggregates outcomes over many self-play games. It is safe for
// concurrent use.
type Tally struct {
	games      atomic.Int64
	redWins    atomic.Int64
	blueWins   atomic.Int64
	draws      atomic.Int64
	unfinished atomic.Int64
	actions    atomic.Int64
}

type Summary struct {
	Games      int64 `json:"games"`
	RedWins    int64 `json:"redWins"`
	BlueWins   int64 `json:"blueWins"`
	Draws      int64 `json:"draws"`
	Unfinished int64 `json:"unfinished"`
	Actions    int64 `json:"actions"`
}

func (t *Tally) Record(g GameMetric) {
	t.games.Add(1)
	t.actions.Add(int64(g.TotalActions))
	switch {
	case g.Winner == game.Red:
		t.redWins.Add(1)
	case g.Winner == game.Blue:
		t.blueWins.Add(1)
	case g.DrawReason != game.NoDraw:
		t.draws.Add(1)
	default:
		t.unfinished.Add(1)
	}
}

func (t *Tally) Summary() Summary {
	return Summary{
		Games:      t.games.Load(),
		RedWins:    t.redWins.Load(),
		BlueWins:   t.blueWins.Load(),
		Draws:      t.draws.Load(),
		Unfinished: t.unfinished.Load(),
		Actions:    t.actions.Load(),
	}
}
