package main

import (
	"math/rand/v2"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"graph_scene/pkg/graph"
)

var (
	seed        uint64
	skipInvalid bool
	verbose     bool
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "graphctl",
		Short:         "Inspect and convert graph scene data",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().Uint64Var(&seed, "seed", 1, "Random seed for colors and placement (0 = random)")
	cmd.PersistentFlags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip invalid records instead of stopping")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log graph events to stderr")

	cmd.AddCommand(
		inspectCmd(),
		neighborhoodCmd(),
		exportCmd(),
		osmCmd(),
	)
	return cmd
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// loadGraph builds a graph from a JSON records file.
func loadGraph(path string) (*graph.Graph, graph.ImportResult, error) {
	opts := []graph.Option{graph.WithLogger(newLogger())}
	if seed != 0 {
		opts = append(opts, graph.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	g := graph.New(opts...)

	records, err := graph.ReadRecordsFile(path)
	if err != nil {
		return nil, graph.ImportResult{}, err
	}
	res, err := g.ImportData(records, graph.ImportOptions{SkipInvalid: skipInvalid})
	if err != nil && !skipInvalid {
		return nil, res, err
	}
	if err != nil {
		warn.Printf("  skipped %d invalid records\n", res.Skipped)
	}
	return g, res, nil
}
