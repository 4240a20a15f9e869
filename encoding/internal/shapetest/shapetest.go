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

// Package shapetest provides sample shapes for testing readers and
// writers.
package shapetest

import (
	"fmt"

	"github.com/spatialmodel/spatial"
)

// Case is a sample shape that can be sent to either rail.
type Case struct {
	Name string
	Type spatial.SpatialType
	// Dim is 2 for x/y, 3 with Z and 4 with Z and M.
	Dim  int
	EPSG int
	Send func(p spatial.TypeWashedPipeline) error
}

// Cases returns every shape type except FullGlobe at two, three and four
// dimensions.
func Cases() []Case {
	var cases []Case
	for _, dim := range []int{2, 3, 4} {
		for _, t := range []spatial.SpatialType{spatial.Point, spatial.LineString, spatial.Polygon,
			spatial.MultiPoint, spatial.MultiLineString, spatial.MultiPolygon, spatial.Collection} {
			t, dim := t, dim
			cases = append(cases, Case{
				Name: fmt.Sprintf("%v %dD", t, dim),
				Type: t,
				Dim:  dim,
				EPSG: 4326,
				Send: func(p spatial.TypeWashedPipeline) error {
					if err := p.SetCoordinateSystem(4326); err != nil {
						return err
					}
					return sendType(p, t, dim, 0)
				},
			})
		}
	}
	return cases
}

type sender struct {
	p   spatial.TypeWashedPipeline
	dim int
	err error
}

func (s *sender) ordinates(v float64) (z, m spatial.Ordinate) {
	if s.dim >= 3 {
		z = spatial.NewOrdinate(v + 100)
	}
	if s.dim == 4 {
		m = spatial.NewOrdinate(v + 200)
	}
	return z, m
}

func (s *sender) figure(coords ...[2]float64) {
	for i, c := range coords {
		if s.err != nil {
			return
		}
		z, m := s.ordinates(c[0] + c[1])
		if i == 0 {
			s.err = s.p.BeginFigure(c[0], c[1], z, m)
		} else {
			s.err = s.p.LineTo(c[0], c[1], z, m)
		}
	}
	if s.err == nil {
		s.err = s.p.EndFigure()
	}
}

func (s *sender) begin(t spatial.SpatialType) {
	if s.err == nil {
		s.err = s.p.BeginGeo(t)
	}
}

func (s *sender) end() {
	if s.err == nil {
		s.err = s.p.EndGeo()
	}
}

// sendType sends a shape of type t. off shifts the coordinates so that
// members of multi-shapes differ.
func sendType(p spatial.TypeWashedPipeline, t spatial.SpatialType, dim int, off float64) error {
	s := &sender{p: p, dim: dim}
	s.begin(t)
	switch t {
	case spatial.Point:
		s.figure([2]float64{10 + off, 20.5 + off})
	case spatial.LineString:
		s.figure([2]float64{1 + off, 2}, [2]float64{3, 4 + off}, [2]float64{-5.25, 6})
	case spatial.Polygon:
		s.figure([2]float64{0 + off, 0}, [2]float64{0 + off, 10}, [2]float64{10 + off, 10}, [2]float64{10 + off, 0}, [2]float64{0 + off, 0})
		s.figure([2]float64{2 + off, 2}, [2]float64{4 + off, 2}, [2]float64{4 + off, 4}, [2]float64{2 + off, 2})
	case spatial.MultiPoint, spatial.MultiLineString, spatial.MultiPolygon:
		member := map[spatial.SpatialType]spatial.SpatialType{
			spatial.MultiPoint:      spatial.Point,
			spatial.MultiLineString: spatial.LineString,
			spatial.MultiPolygon:    spatial.Polygon,
		}[t]
		for i := 0; i < 2 && s.err == nil; i++ {
			s.err = sendType(p, member, dim, float64(i)*20)
		}
	case spatial.Collection:
		for _, m := range []spatial.SpatialType{spatial.Point, spatial.LineString, spatial.Polygon, spatial.MultiPoint} {
			if s.err == nil {
				s.err = sendType(p, m, dim, 1)
			}
		}
	}
	s.end()
	return s.err
}

// BuildGeography builds the geography shape of c.
func BuildGeography(impl *spatial.Implementation, c Case) (*spatial.Geography, error) {
	head, b := impl.NewValidatingBuilder()
	if err := c.Send(spatial.NewTypeWashedGeography(head.GeographyPipeline(), false)); err != nil {
		return nil, err
	}
	return b.ConstructedGeography()
}

// BuildGeometry builds the geometry shape of c.
func BuildGeometry(impl *spatial.Implementation, c Case) (*spatial.Geometry, error) {
	head, b := impl.NewValidatingBuilder()
	if err := c.Send(spatial.NewTypeWashedGeometry(head.GeometryPipeline())); err != nil {
		return nil, err
	}
	return b.ConstructedGeometry()
}
