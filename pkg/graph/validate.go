package graph

import (
	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		p := sl.Current().Interface().(VertexParameters)
		if !p.Position.IsFinite() {
			sl.ReportError(p.Position, "Position", "position", "finite", "")
		}
	}, VertexParameters{})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		r := sl.Current().Interface().(ImportRecord)
		if r.Position != nil && !r.Position.IsFinite() {
			sl.ReportError(r.Position, "Position", "position", "finite", "")
		}
	}, ImportRecord{})
	return v
}
