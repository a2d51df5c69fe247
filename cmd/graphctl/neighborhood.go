package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"graph_scene/pkg/graph"
)

func neighborhoodCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "neighborhood <records.json> <vertex>",
		Short: "List the edges and vertices around a vertex",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			members, err := g.Neighborhood(args[1])
			if err != nil {
				return err
			}

			banner("neighborhood of " + args[1])
			for _, m := range members {
				switch en := m.(type) {
				case *graph.Vertex:
					p := en.Position()
					fmt.Printf("  %s %-20s %s\n", info.Sprint("vertex"), en.Name(),
						subtle.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z))
				case *graph.Edge:
					arrow := "--"
					if en.Kind() == graph.Directed {
						arrow = "->"
					}
					fmt.Printf("  %s %-20s %s %s %s\n", brand.Sprint("edge  "), en.Label().Text,
						en.Source().Name(), arrow, en.Target().Name())
				}
			}
			return nil
		},
	}
}
