package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"graph_scene/pkg/geo"
	"graph_scene/pkg/graph"
	"graph_scene/pkg/osm"
)

func osmCmd() *cobra.Command {
	var (
		output   string
		bbox     string
		highways string
		scale    float64
	)

	cmd := &cobra.Command{
		Use:   "osm <file.osm.pbf>",
		Short: "Convert an OpenStreetMap road network into import records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := osm.Options{
				Scale:   scale,
				Workers: runtime.GOMAXPROCS(0),
				Logger:  newLogger(),
			}
			if bbox != "" {
				b, err := geo.ParseBBox(bbox)
				if err != nil {
					return err
				}
				opts.BBox = b
			}
			if highways != "" {
				opts.Highways = strings.Split(highways, ",")
			}

			start := time.Now()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			res, err := osm.Parse(context.Background(), f, opts)
			if err != nil {
				return err
			}
			if err := graph.WriteRecordsFile(output, res.Records); err != nil {
				return err
			}

			banner("osm")
			field("Ways", res.Ways)
			field("Vertices", res.Vertices)
			field("Edges", res.Edges)
			field("Length", fmt.Sprintf("%.1f km", res.LengthMeters/1000))
			if res.Skipped > 0 {
				field("Skipped", warn.Sprint(res.Skipped))
			}
			field("Origin", fmt.Sprintf("%.5f, %.5f", res.Origin[0], res.Origin[1]))
			field("Output", output)
			field("Elapsed", time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "records.json", "Output records file")
	cmd.Flags().StringVar(&bbox, "bbox", "", "Bounding box minLat,minLon,maxLat,maxLon")
	cmd.Flags().StringVar(&highways, "highways", "", "Comma-separated highway values (default: drivable roads)")
	cmd.Flags().Float64Var(&scale, "scale", osm.DefaultScale, "Meters per scene unit")
	return cmd
}
