package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"graph_scene/pkg/graph"
)

func inspectCmd() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "inspect <records.json>",
		Short: "Print graph statistics and connected components",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, res, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			banner("inspect")
			field("Vertices", g.NumVertices())
			field("Edges", g.NumEdges())
			directed := 0
			for _, e := range g.Edges() {
				if e.Kind() == graph.Directed {
					directed++
				}
			}
			field("Directed", directed)
			if res.Skipped > 0 {
				field("Skipped", warn.Sprint(res.Skipped))
			}

			comps := g.Components()
			field("Components", len(comps))
			for i, c := range comps {
				if i == top {
					subtle.Printf("  ... %d more\n", len(comps)-top)
					break
				}
				fmt.Printf("    %s %s\n", info.Sprintf("%5d", len(c)), preview(c, 6))
			}

			overlaps := g.Overlaps()
			if len(overlaps) == 0 {
				field("Overlaps", 0)
				return nil
			}
			field("Overlaps", warn.Sprint(len(overlaps)))
			for _, o := range overlaps {
				fmt.Printf("    %s ~ %s\n", o[0], o[1])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 10, "Number of components to list")
	return cmd
}

func preview(names []string, n int) string {
	if len(names) <= n {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:n], ", ") + subtle.Sprintf(", +%d", len(names)-n)
}
