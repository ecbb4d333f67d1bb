package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"ludeme/builder"
	"ludeme/game"
	"ludeme/games"
	"ludeme/meta"
	"ludeme/metrics"
	"ludeme/playout"
	"ludeme/topology"
	"ludeme/trialstore"
	"ludeme/utils"
)

var (
	trials     int
	parallel   int
	maxTurns   int
	seed       uint64
	storePath  string
	csvDir     string
	agentKinds []string
	playouts   int
)

var agentNames = []string{"random", "mc"}

// loadGame reads a description file when arg names one, and a bundled
// game otherwise.
func loadGame(arg string) (*game.Game, error) {
	if _, err := os.Stat(arg); err == nil {
		return builder.LoadFile(arg)
	}
	return games.Load(arg)
}

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List the bundled games",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range games.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Run trials of a game and report the outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlay,
}

func buildAgents(kinds []string) ([]playout.Agent, error) {
	n := playouts
	if n <= 0 {
		n = meta.PLAYOUTS
	}
	turns := maxTurns
	if turns <= 0 {
		turns = meta.MAX_TURNS
	}
	agents := make([]playout.Agent, len(kinds))
	for i, kind := range kinds {
		switch utils.FindIndex(agentNames, kind) {
		case 0:
			agents[i] = playout.NewRandomAgent()
		case 1:
			agents[i] = playout.NewMonteCarloAgent(n, turns)
		default:
			return nil, fmt.Errorf("unknown agent %q, want one of %s", kind, strings.Join(agentNames, ", "))
		}
	}
	return agents, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	g, err := loadGame(args[0])
	if err != nil {
		return err
	}
	agents, err := buildAgents(agentKinds)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	options := []playout.Option{
		playout.WithTrials(trials),
		playout.WithParallel(parallel),
		playout.WithMaxTurns(maxTurns),
		playout.WithSeed(seed),
		playout.WithAgents(agents...),
		playout.WithCollector(collector),
	}
	if storePath != "" {
		store, err := trialstore.Open(storePath)
		if err != nil {
			return err
		}
		defer store.Close()
		options = append(options, playout.WithStore(store))
	}

	results, err := playout.NewRunner(g, options...).Run(cmd.Context())
	if err != nil {
		return err
	}

	winners := make([]int, 0, len(results))
	for _, res := range results {
		if res.Record.Over {
			winners = append(winners, res.Record.Winner)
		}
	}
	counts := utils.Counts(winners)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d trials, %d unfinished, %d draws\n", g.Name, len(results), len(results)-len(winners), counts[0])
	for p := 1; p <= g.Players; p++ {
		fmt.Fprintf(out, "  player %d won %d\n", p, counts[p])
	}

	if csvDir != "" {
		w, err := metrics.NewWriter(csvDir, g.Name)
		if err != nil {
			return err
		}
		if err := w.WriteTrials(collector.Trials()); err != nil {
			return err
		}
		if err := w.WriteSummary(collector.Complete()); err != nil {
			return err
		}
		log.Info().Msgf("wrote %s", w.Dir())
	}
	return nil
}

var errLint = errors.New("game has lint errors")

var lintCmd = &cobra.Command{
	Use:   "lint <game>",
	Short: "Report rule nodes whose requirements fail or that will crash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGame(args[0])
		if err != nil {
			return err
		}
		issues := g.Lint()
		failed := false
		for _, issue := range issues {
			fmt.Fprintln(cmd.OutOrStdout(), issue)
			failed = failed || issue.Kind == game.LintError
		}
		if len(issues) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", g.Name)
		}
		if failed {
			return errLint
		}
		return nil
	},
}

var conceptsCmd = &cobra.Command{
	Use:   "concepts <game>",
	Short: "Print the game flags and the concepts its rules use",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGame(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "flags: %s\n", g.Flags())
		for _, name := range game.ConceptNames(g.Concepts()) {
			fmt.Fprintln(out, name)
		}
		return nil
	},
}

var topologyCmd = &cobra.Command{
	Use:   "topology <game>",
	Short: "Describe the board of a game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGame(args[0])
		if err != nil {
			return err
		}
		b := g.Board
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %dx%d\n", b.Shape(), b.Rows(), b.Cols())
		for _, st := range topology.SiteTypes {
			fmt.Fprintf(out, "  %s: %d sites, %d rotations, %d reflections\n",
				st, b.NumSites(st), len(b.Rotations(st)), len(b.Reflections(st)))
		}
		for _, tr := range b.Tracks() {
			fmt.Fprintf(out, "  track %s (owner %d, looped %t): %v\n", tr.Name, tr.Owner, tr.Looped, tr.Sites())
		}
		return nil
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay <store> <game> [trial-id]",
	Short: "List the stored trials of a game, or replay one",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := trialstore.Open(args[0])
		if err != nil {
			return err
		}
		defer store.Close()
		g, err := loadGame(args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 2 {
			ids, err := store.List(g.Name)
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			return nil
		}

		rec, err := store.Load(g.Name, args[2])
		if err != nil {
			return err
		}
		ctx, err := game.Replay(g, rec)
		if err != nil {
			return err
		}
		for i, m := range rec.Moves {
			fmt.Fprintf(out, "%3d P%d %s\n", i+1, m.Mover, strings.Join(m.Actions, ""))
		}
		fmt.Fprintf(out, "over %t, winner %d, hash %x\n", ctx.Trial().Over, ctx.Trial().Winner, ctx.State().Hash())
		return nil
	},
}
