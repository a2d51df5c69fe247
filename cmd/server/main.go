package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"go.uber.org/zap"

	"graph_scene/pkg/api"
	"graph_scene/pkg/config"
	"graph_scene/pkg/graph"
	"graph_scene/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML config (default graph_scene.toml if present)")
	addr := flag.String("addr", "", "Listen address, overrides [server].addr")
	data := flag.String("data", "", "JSON import records, overrides [graph].data")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *data != "" {
		cfg.Graph.Data = *data
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	start := time.Now()

	opts := []graph.Option{
		graph.WithLogger(logger.Named("graph")),
		graph.WithPlacementRadius(cfg.Graph.PlacementRadius),
	}
	if seed := cfg.Graph.Seed; seed != 0 {
		opts = append(opts, graph.WithRand(rand.New(rand.NewPCG(seed, seed))))
	}
	g := graph.New(opts...)

	if cfg.Graph.Data != "" {
		logger.Info("loading graph", zap.String("path", cfg.Graph.Data))
		records, err := graph.ReadRecordsFile(cfg.Graph.Data)
		if err != nil {
			return err
		}
		res, err := g.ImportData(records, graph.ImportOptions{SkipInvalid: cfg.Graph.BestEffortImport})
		if err != nil && !cfg.Graph.BestEffortImport {
			return fmt.Errorf("import %s: %w", cfg.Graph.Data, err)
		}
		if err != nil {
			logger.Warn("skipped invalid records", zap.Int("skipped", res.Skipped), zap.Error(err))
		}
	}
	logger.Info("graph ready",
		zap.Int("vertices", g.NumVertices()),
		zap.Int("edges", g.NumEdges()),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
	)

	handlers := api.NewHandlers(g, cfg.Graph.BestEffortImport, api.NewMetrics(), logger.Named("api"))
	srv := api.NewServer(cfg.Server, handlers)
	return api.ListenAndServe(srv, logger)
}
