// Package osm turns OpenStreetMap road networks into graph import records.
package osm

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"go.uber.org/zap"

	"graph_scene/pkg/geo"
	"graph_scene/pkg/graph"
)

// DefaultScale is the number of meters per scene unit.
const DefaultScale = 10.0

// minSegmentMeters drops segments whose endpoints coincide.
const minSegmentMeters = 0.01

// Options configures Parse.
type Options struct {
	// BBox keeps only segments with both endpoints inside. Zero keeps all.
	BBox geo.BBox
	// Highways lists the accepted highway tag values. Empty means
	// DefaultHighways.
	Highways []string
	// Scale is meters per scene unit. Zero means DefaultScale.
	Scale float64
	// Workers is the number of PBF decoding goroutines. Zero means 1.
	Workers int
	Logger  *zap.Logger
}

// Result holds the records produced from a PBF file in import order:
// every vertex record precedes the edges that reference it.
type Result struct {
	Records      []graph.ImportRecord
	Ways         int
	Vertices     int
	Edges        int
	LengthMeters float64
	Skipped      int
	Origin       [2]float64
}

// wayInfo holds parsed way data collected during pass 1.
type wayInfo struct {
	ID       osm.WayID
	Name     string
	Highway  string
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
}

type coord struct{ lat, lon float64 }

// Parse reads an OSM PBF file and converts its road network into vertex
// and edge records. The reader is consumed twice, so it must implement
// io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opt Options) (*Result, error) {
	logger := opt.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := max(opt.Workers, 1)
	highways := highwaySet(opt.Highways)

	// Pass 1: scan ways to collect referenced node IDs and way info.
	referenced := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, workers)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isAccessible(w.Tags, highways) || len(w.Nodes) < 2 {
			continue
		}
		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		info := wayInfo{
			ID:       w.ID,
			Name:     w.Tags.Find("name"),
			Highway:  w.Tags.Find("highway"),
			NodeIDs:  make([]osm.NodeID, len(w.Nodes)),
			Forward:  fwd,
			Backward: bwd,
		}
		for i, wn := range w.Nodes {
			info.NodeIDs[i] = wn.ID
			referenced[wn.ID] = struct{}{}
		}
		ways = append(ways, info)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	logger.Info("pass 1 complete", zap.Int("ways", len(ways)), zap.Int("referenced_nodes", len(referenced)))

	// Pass 2: scan nodes to collect coordinates for referenced nodes only.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	coords := make(map[osm.NodeID]coord, len(referenced))
	scanner = osmpbf.New(ctx, rs, workers)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referenced[n.ID]; needed {
			coords[n.ID] = coord{n.Lat, n.Lon}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	logger.Info("pass 2 complete", zap.Int("coordinates", len(coords)))

	res, err := build(ways, coords, opt)
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		logger.Warn("skipped segments", zap.Int("count", res.Skipped))
	}
	logger.Info("built records",
		zap.Int("vertices", res.Vertices),
		zap.Int("edges", res.Edges),
		zap.Float64("length_m", res.LengthMeters),
	)
	return res, nil
}

// build turns collected ways into records. Segments with a missing
// coordinate, an endpoint outside the bbox, or zero length are skipped.
func build(ways []wayInfo, coords map[osm.NodeID]coord, opt Options) (*Result, error) {
	scale := opt.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	useBBox := !opt.BBox.IsZero()

	type segment struct {
		way      *wayInfo
		from, to osm.NodeID
	}
	var (
		segments []segment
		order    []osm.NodeID
		seen     = make(map[osm.NodeID]bool)
		res      = &Result{Ways: len(ways)}
	)
	for wi := range ways {
		w := &ways[wi]
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID, toID := w.NodeIDs[i], w.NodeIDs[i+1]
			from, fromOK := coords[fromID]
			to, toOK := coords[toID]
			if !fromOK || !toOK {
				res.Skipped++
				continue
			}

			// Bounding box filter: skip edges with any endpoint outside.
			if useBBox && (!opt.BBox.Contains(from.lat, from.lon) || !opt.BBox.Contains(to.lat, to.lon)) {
				res.Skipped++
				continue
			}
			if fromID == toID || geo.EquirectangularDist(from.lat, from.lon, to.lat, to.lon) < minSegmentMeters {
				res.Skipped++
				continue
			}

			res.LengthMeters += geo.Haversine(from.lat, from.lon, to.lat, to.lon)
			segments = append(segments, segment{way: w, from: fromID, to: toID})
			for _, id := range [2]osm.NodeID{fromID, toID} {
				if !seen[id] {
					seen[id] = true
					order = append(order, id)
				}
			}
		}
	}
	if len(segments) == 0 {
		return res, nil
	}

	// Center on the bbox when given, else on the centroid of used nodes.
	var originLat, originLon float64
	if useBBox {
		originLat, originLon = opt.BBox.Center()
	} else {
		for _, id := range order {
			originLat += coords[id].lat
			originLon += coords[id].lon
		}
		originLat /= float64(len(order))
		originLon /= float64(len(order))
	}
	proj, err := geo.NewProjection(originLat, originLon, scale)
	if err != nil {
		return nil, fmt.Errorf("projection: %w", err)
	}
	res.Origin = [2]float64{originLat, originLon}

	res.Records = make([]graph.ImportRecord, 0, len(order)+len(segments))
	for _, id := range order {
		c := coords[id]
		p := proj.Project(c.lat, c.lon)
		res.Records = append(res.Records, graph.ImportRecord{
			Data:     "vertex",
			Name:     nodeName(id),
			Position: &p,
		})
	}
	res.Vertices = len(order)

	for _, s := range segments {
		from, to := s.from, s.to
		directed := !(s.way.Forward && s.way.Backward)
		if !s.way.Forward {
			from, to = to, from
		}
		rec := graph.ImportRecord{
			Data:     "edge",
			Name:     wayName(s.way),
			From:     nodeName(from),
			To:       nodeName(to),
			Directed: &directed,
		}
		if c, ok := highwayColors[s.way.Highway]; ok {
			rec.Color = &c
		}
		res.Records = append(res.Records, rec)
	}
	res.Edges = len(segments)
	return res, nil
}

func nodeName(id osm.NodeID) string { return "n" + strconv.FormatInt(int64(id), 10) }

func wayName(w *wayInfo) string {
	if w.Name != "" {
		return w.Name
	}
	return "w" + strconv.FormatInt(int64(w.ID), 10)
}

