package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"graph_scene/pkg/meshio"
)

func exportCmd() *cobra.Command {
	var (
		output string
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "export <records.json>",
		Short: "Write the graph's meshes to a GRAPHMSH file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			g, _, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			scene := meshio.FromGraph(g)
			if err := meshio.WriteFile(output, scene); err != nil {
				return err
			}

			banner("export")
			printStats(scene)

			if verify {
				back, err := meshio.ReadFile(output)
				if err != nil {
					return fmt.Errorf("verify: %w", err)
				}
				if len(back.Meshes) != len(scene.Meshes) {
					return fmt.Errorf("verify: wrote %d meshes, read %d", len(scene.Meshes), len(back.Meshes))
				}
				field("Verified", brand.Sprint("ok"))
			}

			st, err := os.Stat(output)
			if err != nil {
				return err
			}
			field("Output", output)
			field("Size", fmt.Sprintf("%.1f KB", float64(st.Size())/1024))
			field("Elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "scene.graphmsh", "Output mesh file")
	cmd.Flags().BoolVar(&verify, "verify", true, "Read the file back and check it")
	cmd.AddCommand(statCmd())
	return cmd
}

func statCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stat <scene.graphmsh>",
		Short: "Summarize an existing mesh file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := meshio.ReadFile(args[0])
			if err != nil {
				return err
			}
			banner("stat " + args[0])
			printStats(scene)
			return nil
		},
	}
}

func printStats(scene *meshio.Scene) {
	stats := scene.Stats()
	for _, k := range []meshio.Kind{meshio.KindVertex, meshio.KindEdge, meshio.KindArrow} {
		c := stats[k]
		field(k.String()+"s", fmt.Sprintf("%d meshes, %d triangles", c[0], c[1]))
	}
}
