package metrics

import (
	"sync"
	"testing"
	"time"

	"arba/game"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4, 20, 9)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				c.AddEpisode()
				if j%5 == 0 {
					c.AddFullPlayout()
				}
			}
		}()
	}
	wg.Wait()

	m := c.Complete()
	require.Equal(t, 100, m.Episodes)
	require.Equal(t, 20, m.FullPlayouts)
	require.Equal(t, 4, m.Goroutines)
	require.Equal(t, 20, m.Cutoff)
	require.Equal(t, 9, m.Arms)
	require.Greater(t, m.Duration, time.Duration(0))

	d := NewDummyCollector()
	d.Start(1, 1, 1)
	d.AddEpisode()
	require.Equal(t, SearchMetric{}, d.Complete())
}

func TestTally(t *testing.T) {
	var tally Tally
	tally.Record(GameMetric{Winner: game.Red, TotalActions: 10})
	tally.Record(GameMetric{Winner: game.Blue, TotalActions: 12})
	tally.Record(GameMetric{Winner: game.Blue, TotalActions: 8})
	tally.Record(GameMetric{DrawReason: game.NoLegalSlides, TotalActions: 30})
	tally.Record(GameMetric{Truncated: true, TotalActions: 300})

	require.Equal(t, Summary{
		Games:      5,
		RedWins:    1,
		BlueWins:   2,
		Draws:      1,
		Unfinished: 1,
		Actions:    360,
	}, tally.Summary())
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "unit")
	require.NoError(t, err)
	require.DirExists(t, w.Dir())

	features := make([]float32, game.FeatureCount)
	features[0] = -1
	features[40] = 4
	require.NoError(t, w.WriteSamples(3, []Sample{{Player: game.Red, Features: features, ActionID: 40}}))
	require.FileExists(t, w.Dir()+"/game_0003.csv")

	require.NoError(t, w.WriteGameRecords([]GameRecord{{ID: 1, Red: "random", Blue: "ai", GameMetric: GameMetric{Winner: game.Red}}}))
	require.FileExists(t, w.Dir()+"/games.csv")
}
