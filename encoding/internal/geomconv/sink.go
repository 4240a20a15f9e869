/*
Copyright © 2024 the Spatial authors.
This file is part of Spatial.

Spatial is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Spatial is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Spatial.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package geomconv converts between pipeline call sequences and
// github.com/twpayne/go-geom geometries. Geography positions map to x =
// longitude and y = latitude.
package geomconv

import (
	"errors"
	"fmt"
	"math"

	"github.com/spatialmodel/spatial"
	"github.com/twpayne/go-geom"
)

type coord struct {
	x, y float64
	z, m spatial.Ordinate
}

type part struct {
	typ     spatial.SpatialType
	figures [][]coord
	members []*part
	open    bool
}

// EmitFunc receives each completed top-level shape. g is nil for a full
// globe, which go-geom cannot represent.
type EmitFunc func(g geom.T, cs spatial.CoordinateSystem) error

// ErrMixedDimensions is returned by a sink that does not pad positions
// when the positions of a shape differ in dimension.
var ErrMixedDimensions = errors.New("geomconv: the positions of the shape have mixed dimensions")

type layoutMode int

const (
	padLayout layoutMode = iota
	memberLayouts
	uniformLayout
)

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithMemberLayouts gives each member of a collection its own layout and
// makes the sink return ErrMixedDimensions instead of padding any other
// shape.
func WithMemberLayouts() SinkOption {
	return func(s *Sink) { s.mode = memberLayouts }
}

// WithUniformLayout makes the sink return ErrMixedDimensions for any
// shape whose positions differ in dimension, collections included.
func WithUniformLayout() SinkOption {
	return func(s *Sink) { s.mode = uniformLayout }
}

// Sink is a terminal pipeline stage that assembles go-geom geometries.
// By default all coordinates of one shape share a layout: a Z or M value
// present anywhere in the shape adds that dimension, and positions
// lacking it are padded with NaN.
type Sink struct {
	mode      layoutMode
	geography sinkGeography
	geometry  sinkGeometry
}

// NewSink returns a sink passing completed shapes to emit.
func NewSink(emit EmitFunc, opts ...SinkOption) *Sink {
	s := new(Sink)
	for _, o := range opts {
		o(s)
	}
	s.geography.core = sinkCore{emit: emit, defaultCS: spatial.DefaultGeography, mode: s.mode}
	s.geometry.core = sinkCore{emit: emit, defaultCS: spatial.DefaultGeometry, mode: s.mode}
	return s
}

// GeographyPipeline implements spatial.SpatialPipeline.
func (s *Sink) GeographyPipeline() spatial.GeographyPipeline { return &s.geography }

// GeometryPipeline implements spatial.SpatialPipeline.
func (s *Sink) GeometryPipeline() spatial.GeometryPipeline { return &s.geometry }

type sinkCore struct {
	emit      EmitFunc
	defaultCS spatial.CoordinateSystem
	mode      layoutMode

	cs    spatial.CoordinateSystem
	csSet bool
	stack []*part
}

func (s *sinkCore) setCoordinateSystem(cs spatial.CoordinateSystem) error {
	if len(s.stack) == 0 {
		s.cs = cs
		s.csSet = true
	}
	return nil
}

func (s *sinkCore) begin(t spatial.SpatialType) error {
	if n := len(s.stack); n > 0 {
		parent := s.stack[n-1]
		if len(parent.figures) > 0 {
			return fmt.Errorf("geomconv: %v cannot have members", parent.typ)
		}
	} else if !s.csSet {
		s.cs = s.defaultCS
		s.csSet = true
	}
	s.stack = append(s.stack, &part{typ: t})
	return nil
}

func (s *sinkCore) beginFigure(c coord) error {
	n := len(s.stack)
	if n == 0 || s.stack[n-1].open {
		return fmt.Errorf("geomconv: unexpected BeginFigure")
	}
	top := s.stack[n-1]
	top.figures = append(top.figures, []coord{c})
	top.open = true
	return nil
}

func (s *sinkCore) lineTo(c coord) error {
	n := len(s.stack)
	if n == 0 || !s.stack[n-1].open {
		return fmt.Errorf("geomconv: unexpected LineTo")
	}
	top := s.stack[n-1]
	i := len(top.figures) - 1
	top.figures[i] = append(top.figures[i], c)
	return nil
}

func (s *sinkCore) endFigure() error {
	n := len(s.stack)
	if n == 0 || !s.stack[n-1].open {
		return fmt.Errorf("geomconv: unexpected EndFigure")
	}
	s.stack[n-1].open = false
	return nil
}

func (s *sinkCore) end() error {
	n := len(s.stack)
	if n == 0 || s.stack[n-1].open {
		return fmt.Errorf("geomconv: unexpected End")
	}
	p := s.stack[n-1]
	s.stack = s.stack[:n-1]
	if n > 1 {
		parent := s.stack[n-2]
		parent.members = append(parent.members, p)
		return nil
	}
	if p.typ == spatial.FullGlobe {
		return s.emit(nil, s.cs)
	}
	layout := layoutOf(p)
	perMember := s.mode == memberLayouts
	if s.mode != padLayout && padded(p, layout, perMember) {
		return ErrMixedDimensions
	}
	g, err := toGeom(p, layout, perMember)
	if err != nil {
		return err
	}
	if g, err = geom.SetSRID(g, s.cs.EPSG); err != nil {
		return err
	}
	return s.emit(g, s.cs)
}

func (s *sinkCore) reset() {
	s.cs = spatial.CoordinateSystem{}
	s.csSet = false
	s.stack = nil
}

// layoutOf returns the smallest layout holding every coordinate of p.
func layoutOf(p *part) geom.Layout {
	var z, m bool
	var walk func(p *part)
	walk = func(p *part) {
		for _, f := range p.figures {
			for _, c := range f {
				z = z || c.z.Valid
				m = m || c.m.Valid
			}
		}
		for _, mem := range p.members {
			walk(mem)
		}
	}
	walk(p)
	switch {
	case z && m:
		return geom.XYZM
	case z:
		return geom.XYZ
	case m:
		return geom.XYM
	default:
		return geom.XY
	}
}

// padded reports whether a position of p lacks a dimension of layout.
// With perMember set, each collection member is checked against its own
// layout.
func padded(p *part, layout geom.Layout, perMember bool) bool {
	z, m := layout.ZIndex() >= 0, layout.MIndex() >= 0
	for _, f := range p.figures {
		for _, c := range f {
			if c.z.Valid != z || c.m.Valid != m {
				return true
			}
		}
	}
	for _, mem := range p.members {
		l := layout
		if perMember && p.typ == spatial.Collection {
			l = layoutOf(mem)
		}
		if padded(mem, l, perMember) {
			return true
		}
	}
	return false
}

func ordinate(o spatial.Ordinate) float64 {
	if !o.Valid {
		return math.NaN()
	}
	return o.Value
}

func (c coord) geomCoord(layout geom.Layout) geom.Coord {
	gc := geom.Coord{c.x, c.y}
	if layout.ZIndex() >= 0 {
		gc = append(gc, ordinate(c.z))
	}
	if layout.MIndex() >= 0 {
		gc = append(gc, ordinate(c.m))
	}
	return gc
}

func geomCoords(f []coord, layout geom.Layout) []geom.Coord {
	coords := make([]geom.Coord, len(f))
	for i, c := range f {
		coords[i] = c.geomCoord(layout)
	}
	return coords
}

// pointCoord returns the coordinate of a non-empty point member.
func pointCoord(p *part, layout geom.Layout) (geom.Coord, error) {
	if p.typ != spatial.Point {
		return nil, fmt.Errorf("geomconv: %v cannot be a member of a MultiPoint", p.typ)
	}
	if len(p.figures) == 0 {
		return nil, fmt.Errorf("geomconv: empty points cannot be members of a MultiPoint")
	}
	return p.figures[0][0].geomCoord(layout), nil
}

// toGeom converts p to a geometry with the given layout. With perMember
// set, collection members get their own layouts.
func toGeom(p *part, layout geom.Layout, perMember bool) (geom.T, error) {
	switch p.typ {
	case spatial.Point:
		if len(p.figures) == 0 {
			return geom.NewPointEmpty(layout), nil
		}
		return geom.NewPoint(layout).SetCoords(p.figures[0][0].geomCoord(layout))
	case spatial.LineString:
		ls := geom.NewLineString(layout)
		if len(p.figures) == 0 {
			return ls, nil
		}
		return ls.SetCoords(geomCoords(p.figures[0], layout))
	case spatial.Polygon:
		return geom.NewPolygon(layout).SetCoords(ringCoords(p, layout))
	case spatial.MultiPoint:
		coords := make([]geom.Coord, len(p.members))
		for i, m := range p.members {
			c, err := pointCoord(m, layout)
			if err != nil {
				return nil, err
			}
			coords[i] = c
		}
		return geom.NewMultiPoint(layout).SetCoords(coords)
	case spatial.MultiLineString:
		coords := make([][]geom.Coord, len(p.members))
		for i, m := range p.members {
			if m.typ != spatial.LineString {
				return nil, fmt.Errorf("geomconv: %v cannot be a member of a MultiLineString", m.typ)
			}
			if len(m.figures) > 0 {
				coords[i] = geomCoords(m.figures[0], layout)
			}
		}
		return geom.NewMultiLineString(layout).SetCoords(coords)
	case spatial.MultiPolygon:
		coords := make([][][]geom.Coord, len(p.members))
		for i, m := range p.members {
			if m.typ != spatial.Polygon {
				return nil, fmt.Errorf("geomconv: %v cannot be a member of a MultiPolygon", m.typ)
			}
			coords[i] = ringCoords(m, layout)
		}
		return geom.NewMultiPolygon(layout).SetCoords(coords)
	case spatial.Collection:
		c := geom.NewGeometryCollection()
		for _, m := range p.members {
			l := layout
			if perMember {
				l = layoutOf(m)
			}
			g, err := toGeom(m, l, perMember)
			if err != nil {
				return nil, err
			}
			if err := c.Push(g); err != nil {
				return nil, err
			}
		}
		return c, nil
	default:
		return nil, fmt.Errorf("geomconv: unsupported type %v", p.typ)
	}
}

func ringCoords(p *part, layout geom.Layout) [][]geom.Coord {
	rings := make([][]geom.Coord, len(p.figures))
	for i, f := range p.figures {
		rings[i] = geomCoords(f, layout)
	}
	return rings
}

type sinkGeography struct{ core sinkCore }

func geographyCoord(p spatial.GeographyPosition) coord {
	return coord{x: p.Longitude, y: p.Latitude, z: p.Z, m: p.M}
}

func (s *sinkGeography) SetCoordinateSystem(cs spatial.CoordinateSystem) error {
	return s.core.setCoordinateSystem(cs)
}
func (s *sinkGeography) BeginGeography(t spatial.SpatialType) error { return s.core.begin(t) }
func (s *sinkGeography) BeginFigure(p spatial.GeographyPosition) error {
	return s.core.beginFigure(geographyCoord(p))
}
func (s *sinkGeography) LineTo(p spatial.GeographyPosition) error {
	return s.core.lineTo(geographyCoord(p))
}
func (s *sinkGeography) EndFigure() error    { return s.core.endFigure() }
func (s *sinkGeography) EndGeography() error { return s.core.end() }
func (s *sinkGeography) Reset()              { s.core.reset() }

type sinkGeometry struct{ core sinkCore }

func geometryCoord(p spatial.GeometryPosition) coord {
	return coord{x: p.X, y: p.Y, z: p.Z, m: p.M}
}

func (s *sinkGeometry) SetCoordinateSystem(cs spatial.CoordinateSystem) error {
	return s.core.setCoordinateSystem(cs)
}
func (s *sinkGeometry) BeginGeometry(t spatial.SpatialType) error { return s.core.begin(t) }
func (s *sinkGeometry) BeginFigure(p spatial.GeometryPosition) error {
	return s.core.beginFigure(geometryCoord(p))
}
func (s *sinkGeometry) LineTo(p spatial.GeometryPosition) error {
	return s.core.lineTo(geometryCoord(p))
}
func (s *sinkGeometry) EndFigure() error   { return s.core.endFigure() }
func (s *sinkGeometry) EndGeometry() error { return s.core.end() }
func (s *sinkGeometry) Reset()             { s.core.reset() }
