package server

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/matsen/kbm/internal/filter"
	"github.com/matsen/kbm/internal/layout"
	"github.com/matsen/kbm/internal/viz"
)

var filterParams = []string{"department", "status", "q", "scope", "density"}

// hasFilterParams reports whether the query overrides the shared filter.
func hasFilterParams(q url.Values) bool {
	for _, p := range filterParams {
		if q.Has(p) {
			return true
		}
	}
	return false
}

// parseSpec reads a filter from the query. When the query names no filter
// parameter the shared filter applies.
func (s *Server) parseSpec(q url.Values) (filter.Spec, error) {
	if !hasFilterParams(q) {
		return s.filters.Get(), nil
	}
	spec := filter.Spec{
		Department:  q.Get("department"),
		Status:      q.Get("status"),
		SearchQuery: q.Get("q"),
		Scope:       filter.SearchScope(q.Get("scope")),
	}
	if spec.Scope == "" {
		spec.Scope = filter.ScopeFull
	}
	if v := q.Get("density"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil {
			return spec, fmt.Errorf("%w: density must be an integer", errBadRequest)
		}
		spec = spec.WithDensity(d)
	}
	return spec, spec.Validate()
}

// parseGraphOptions overlays query parameters on the server's graph options.
func (s *Server) parseGraphOptions(q url.Values) (viz.Options, error) {
	opts := s.graph

	if v := q.Get("layout"); v != "" {
		m := layout.Mode(v)
		if !m.Valid() {
			return opts, fmt.Errorf("%w: %q", layout.ErrUnknownMode, v)
		}
		opts.Layout = m
	}
	if v := q.Get("labels"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: labels must be true or false", errBadRequest)
		}
		opts.ShowLabels = b
	}
	switch q.Get("color") {
	case "":
	case "department":
		opts.ColorByDepartment, opts.ColorByDensity = true, false
	case "density":
		opts.ColorByDensity = true
	case "none":
		opts.ColorByDepartment, opts.ColorByDensity = false, false
	default:
		return opts, fmt.Errorf("%w: color must be department, density or none", errBadRequest)
	}
	if v := q.Get("theme"); v != "" {
		opts.Theme = viz.Theme(v)
	}
	for name, dst := range map[string]*float64{"width": &opts.Width, "height": &opts.Height} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		f, err := parseFinite(name, v)
		if err != nil {
			return opts, err
		}
		*dst = f
	}
	return opts, opts.Validate()
}

// parseTransform reads zoom, x and y. Zoom is clamped to the scale extent.
func parseTransform(q url.Values) (viz.Transform, error) {
	t := viz.Identity
	fields := []struct {
		name string
		dst  *float64
	}{{"zoom", &t.K}, {"x", &t.X}, {"y", &t.Y}}
	for _, f := range fields {
		v := q.Get(f.name)
		if v == "" {
			continue
		}
		n, err := parseFinite(f.name, v)
		if err != nil {
			return t, err
		}
		*f.dst = n
	}
	return viz.Identity.Pan(t.X, t.Y).Scale(t.K), nil
}

// parseFinite parses a float parameter, rejecting NaN and infinities.
func parseFinite(name, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %s must be a finite number", errBadRequest, name)
	}
	return f, nil
}

// required returns a query parameter or a 400 error.
func required(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", fmt.Errorf("%w: missing %q parameter", errBadRequest, name)
	}
	return v, nil
}
