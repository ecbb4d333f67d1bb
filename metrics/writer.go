package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory under dir for one run.
func NewWriter(dir, gameName string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(dir, gameName, timestamp)
	err := os.MkdirAll(baseDir, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string { return w.baseDir }

func (w *Writer) WriteTrials(trials []TrialMetric) error {
	header := []string{"trial", "seed", "id", "over", "winner", "moves", "start_time", "end_time", "duration"}
	rows := make([][]string, len(trials))
	for i, t := range trials {
		rows[i] = []string{
			strconv.Itoa(t.Trial),
			strconv.FormatUint(t.Seed, 10),
			t.ID,
			strconv.FormatBool(t.Over),
			strconv.Itoa(t.Winner),
			strconv.Itoa(t.Moves),
			t.StartTime.Format(time.RFC3339Nano),
			t.EndTime.Format(time.RFC3339Nano),
			t.Duration.String(),
		}
	}
	return w.write("trials.csv", header, rows)
}

func (w *Writer) WriteSummary(s Summary) error {
	header := []string{"game", "trials", "moves", "draws", "unfinished", "player", "wins", "duration"}
	var rows [][]string
	for p := 1; p <= maxPlayer(s.Wins); p++ {
		rows = append(rows, []string{
			s.Game,
			strconv.Itoa(s.Trials),
			strconv.Itoa(s.Moves),
			strconv.Itoa(s.Draws),
			strconv.Itoa(s.Unfinished),
			strconv.Itoa(p),
			strconv.Itoa(s.Wins[p]),
			s.Duration.String(),
		})
	}
	return w.write("summary.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}

func maxPlayer(wins map[int]int) int {
	n := 0
	for p := range wins {
		n = max(n, p)
	}
	return n
}
