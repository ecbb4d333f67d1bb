// Package metrics collects per-run trial statistics, exports them to
// prometheus and writes them as CSV.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

type TrialMetric struct {
	Trial     int
	Seed      uint64
	ID        string // record id
	Winner    int    // 0 for a draw or an unfinished trial
	Over      bool
	Moves     int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

type MoveMetric struct {
	Trial  int
	Step   int
	Player int
	Legal  int // number of legal moves offered
}

// Summary aggregates the trials of one run.
type Summary struct {
	Game       string
	Trials     int
	Moves      int
	Draws      int
	Unfinished int
	Wins       map[int]int // per player
	Duration   time.Duration
}

type Collector interface {
	Start(gameName string)
	AddMove(m MoveMetric)
	AddTrial(m TrialMetric)
	Trials() []TrialMetric
	Complete() Summary
}

type collector struct {
	game      string
	startTime time.Time
	moves     atomic.Int64

	mu     sync.Mutex
	trials []TrialMetric
}

func NewCollector() Collector {
	return &collector{}
}

func (c *collector) Start(gameName string) {
	c.game = gameName
	c.startTime = time.Now()
}

func (c *collector) AddMove(m MoveMetric) {
	c.moves.Add(1)
	movesTotal.WithLabelValues(c.game).Inc()
	legalMoves.WithLabelValues(c.game).Observe(float64(m.Legal))
}

func (c *collector) AddTrial(m TrialMetric) {
	c.mu.Lock()
	c.trials = append(c.trials, m)
	c.mu.Unlock()
	trialsTotal.WithLabelValues(c.game, outcome(m)).Inc()
	trialLength.WithLabelValues(c.game).Observe(float64(m.Moves))
}

func (c *collector) Trials() []TrialMetric {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]TrialMetric(nil), c.trials...)
}

func (c *collector) Complete() Summary {
	s := Summary{Game: c.game, Moves: int(c.moves.Load()), Wins: map[int]int{}, Duration: time.Since(c.startTime)}
	for _, t := range c.Trials() {
		s.Trials++
		switch {
		case !t.Over:
			s.Unfinished++
		case t.Winner == 0:
			s.Draws++
		default:
			s.Wins[t.Winner]++
		}
	}
	return s
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (c *dummyCollector) Start(string)          {}
func (c *dummyCollector) AddMove(MoveMetric)    {}
func (c *dummyCollector) AddTrial(TrialMetric)  {}
func (c *dummyCollector) Trials() []TrialMetric { return nil }
func (c *dummyCollector) Complete() Summary     { return Summary{} }
