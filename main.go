package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "ludeme",
	Short: "Evaluate, play and inspect rule-described board games",
	Long: `ludeme compiles game descriptions into rule trees and runs trials on them.

A <game> argument is either the path of a YAML description or the name of a
bundled game (see "ludeme games").`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(level)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().IntVar(&trials, "trials", 0, "Number of trials (default from meta)")
	playCmd.Flags().IntVar(&parallel, "parallel", 0, "Trials run at once (default from meta)")
	playCmd.Flags().IntVar(&maxTurns, "max-turns", 0, "Turn limit per trial (default from meta)")
	playCmd.Flags().Uint64Var(&seed, "seed", 1, "Seed of the first trial")
	playCmd.Flags().StringVar(&storePath, "store", "", "bbolt file archiving the trial records")
	playCmd.Flags().StringVar(&csvDir, "csv", "", "Directory receiving trials.csv and summary.csv")
	playCmd.Flags().StringSliceVar(&agentKinds, "agents", nil, "Agent per player: random or mc")
	playCmd.Flags().IntVar(&playouts, "playouts", 0, "Playouts per move of the mc agent (default from meta)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(conceptsCmd)
	rootCmd.AddCommand(topologyCmd)
	rootCmd.AddCommand(replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
