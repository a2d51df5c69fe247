package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"graph_scene/pkg/geom"
)

// ImportRecord is one element of a bulk import. Data selects the kind.
type ImportRecord struct {
	Data     string     `json:"data" validate:"required,oneof=vertex edge"`
	Name     string     `json:"name" validate:"required"`
	From     string     `json:"from,omitempty" validate:"required_if=Data edge"`
	To       string     `json:"to,omitempty" validate:"required_if=Data edge"`
	Directed *bool      `json:"directed,omitempty" validate:"required_if=Data edge"`
	Color    *Color     `json:"color,omitempty"`
	Position *geom.Vec3 `json:"position,omitempty"`
}

// ImportOptions controls ImportData.
type ImportOptions struct {
	// SkipInvalid keeps going past failing records and reports every
	// failure instead of stopping at the first.
	SkipInvalid bool
}

// ImportResult counts what an import applied.
type ImportResult struct {
	Vertices int `json:"vertices"`
	Edges    int `json:"edges"`
	Skipped  int `json:"skipped"`
}

// DecodeRecords reads a JSON array of import records.
func DecodeRecords(r io.Reader) ([]ImportRecord, error) {
	var records []ImportRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, malformed(err, "could not decode import records")
	}
	return records, nil
}

// ReadRecordsFile reads a JSON array of import records from path.
func ReadRecordsFile(path string) ([]ImportRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open records: %w", err)
	}
	defer f.Close()
	return DecodeRecords(f)
}

// WriteRecordsFile writes records as an indented JSON array.
func WriteRecordsFile(path string, records []ImportRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// ImportData applies records in order. Records applied before a failure
// stay applied.
func (g *Graph) ImportData(records []ImportRecord, opts ImportOptions) (ImportResult, error) {
	var (
		res  ImportResult
		errs []error
	)
	fp := g.buildFootprints()

	for i, r := range records {
		err := g.importRecord(fp, r, &res)
		if err == nil {
			continue
		}
		err = fmt.Errorf("record %d: %w", i, err)
		if !opts.SkipInvalid {
			g.logger.Warn("import aborted", zap.Int("record", i), zap.Error(err))
			return res, err
		}
		res.Skipped++
		errs = append(errs, err)
	}

	g.logger.Info("import finished",
		zap.Int("vertices", res.Vertices),
		zap.Int("edges", res.Edges),
		zap.Int("skipped", res.Skipped),
	)
	return res, errors.Join(errs...)
}

func (g *Graph) importRecord(fp *footprints, r ImportRecord, res *ImportResult) error {
	if err := g.validate.Struct(r); err != nil {
		if r.Data == "edge" {
			return malformed(err, "edge %s had malformed source and/or target vertices", r.Name)
		}
		return malformed(err, "malformed %s record %q", kindOrUnknown(r.Data), r.Name)
	}

	switch r.Data {
	case "vertex":
		p := VertexParameters{Name: r.Name, Color: r.Color}
		if r.Position != nil {
			p.Position = *r.Position
		} else {
			p.Position = g.place(fp, DefaultRadius)
		}
		v, err := g.AddVertex(p)
		if err != nil {
			return err
		}
		fp.insert(v)
		res.Vertices++
	case "edge":
		_, err := g.AddEdge(EdgeParameters{
			Name:     normalizeName(r.Name),
			From:     r.From,
			To:       r.To,
			Directed: *r.Directed,
			Color:    r.Color,
		})
		if err != nil {
			return err
		}
		res.Edges++
	}
	return nil
}

func kindOrUnknown(data string) string {
	if data == "" {
		return "unknown"
	}
	return fmt.Sprintf("%q", data)
}
