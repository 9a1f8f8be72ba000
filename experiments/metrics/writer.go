package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"arba/game"
)

// Sample is one training row: the state seen by Player and the action taken.
type Sample struct {
	Player   game.Player
	Features []float32
	ActionID int
}

type GameRecord struct {
	ID   int
	Red  string // Selector mode
	Blue string // Selector mode
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a fresh timestamped directory under root/name.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(w.baseDir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// WriteSetup stores the run configuration as setup.json.
func (w *Writer) WriteSetup(setup any) error {
	return w.writeJSON("setup.json", setup)
}

func (w *Writer) WriteSummary(summary Summary) error {
	return w.writeJSON("summary.json", summary)
}

func (w *Writer) writeCSV(name string, header []string, rows func(write func([]string) error) error) error {
	f, err := os.Create(filepath.Join(w.baseDir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := rows(writer.Write); err != nil {
		return fmt.Errorf("failed to write %s row: %w", name, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", name, err)
	}
	return f.Close()
}

// SamplesFile names the dataset file of a game.
func SamplesFile(gameID int) string {
	return fmt.Sprintf("game_%04d.csv", gameID)
}

// WriteSamples stores a game's samples with the feature columns followed by
// action_id.
func (w *Writer) WriteSamples(gameID int, samples []Sample) error {
	header := append(append([]string{}, game.FeatureColumns...), "action_id")
	return w.writeCSV(SamplesFile(gameID), header, func(write func([]string) error) error {
		for _, s := range samples {
			row := make([]string, 0, len(s.Features)+1)
			for _, f := range s.Features {
				row = append(row, strconv.FormatFloat(float64(f), 'g', -1, 32))
			}
			row = append(row, strconv.Itoa(s.ActionID))
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "red", "blue", "starting_player", "winner", "draw_reason", "truncated",
		"actions", "start_time", "end_time", "duration"}
	return w.writeCSV("games.csv", header, func(write func([]string) error) error {
		for _, record := range records {
			row := []string{
				strconv.Itoa(record.ID),
				record.Red,
				record.Blue,
				record.StartingPlayer.String(),
				record.Winner.String(),
				string(record.DrawReason),
				strconv.FormatBool(record.Truncated),
				strconv.Itoa(record.TotalActions),
				record.StartTime.Format(time.RFC3339Nano),
				record.EndTime.Format(time.RFC3339Nano),
				record.Duration.String(),
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "action_id", "duration", "episodes", "full_playouts", "arms", "tree_reused"}
	return w.writeCSV("moves.csv", header, func(write func([]string) error) error {
		for _, record := range records {
			row := []string{
				strconv.Itoa(record.Game),
				strconv.Itoa(record.Step),
				record.Player.String(),
				strconv.Itoa(record.Action.ActionID()),
				record.Duration.String(),
				strconv.Itoa(record.Episodes),
				strconv.Itoa(record.FullPlayouts),
				strconv.Itoa(record.Arms),
				strconv.FormatBool(record.TreeReused),
			}
			if err := write(row); err != nil {
				return err
			}
		}
		return nil
	})
}
