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

package spatial

// TypeWashedPipeline drives either rail through one set of methods, so
// that code producing call sequences need not branch on the rail.
// Positions are passed as two required and two optional coordinates.
type TypeWashedPipeline interface {
	// SetCoordinateSystem sets the coordinate system with the given EPSG
	// code and the topology of the wrapped rail.
	SetCoordinateSystem(epsg int) error
	BeginGeo(t SpatialType) error
	BeginFigure(c1, c2 float64, c3, c4 Ordinate) error
	LineTo(c1, c2 float64, c3, c4 Ordinate) error
	EndFigure() error
	EndGeo() error
	Reset()
	// IsGeography reports whether the wrapped rail is the geography rail.
	IsGeography() bool
}

// NewTypeWashedGeography returns an adapter driving p. Coordinates are
// passed as (latitude, longitude), or as (longitude, latitude) if reverse
// is true, which suits drivers that produce x/y ordered input.
func NewTypeWashedGeography(p GeographyPipeline, reverse bool) TypeWashedPipeline {
	return &typeWashedGeography{p: p, reverse: reverse}
}

// NewTypeWashedGeometry returns an adapter driving p with coordinates
// passed as (x, y).
func NewTypeWashedGeometry(p GeometryPipeline) TypeWashedPipeline {
	return &typeWashedGeometry{p: p}
}

type typeWashedGeography struct {
	p       GeographyPipeline
	reverse bool
}

func (t *typeWashedGeography) position(c1, c2 float64, c3, c4 Ordinate) GeographyPosition {
	if t.reverse {
		c1, c2 = c2, c1
	}
	return GeographyPosition{Latitude: c1, Longitude: c2, Z: c3, M: c4}
}

func (t *typeWashedGeography) SetCoordinateSystem(epsg int) error {
	return t.p.SetCoordinateSystem(NewGeographyCoordinateSystem(epsg))
}

func (t *typeWashedGeography) BeginGeo(st SpatialType) error { return t.p.BeginGeography(st) }

func (t *typeWashedGeography) BeginFigure(c1, c2 float64, c3, c4 Ordinate) error {
	return t.p.BeginFigure(t.position(c1, c2, c3, c4))
}

func (t *typeWashedGeography) LineTo(c1, c2 float64, c3, c4 Ordinate) error {
	return t.p.LineTo(t.position(c1, c2, c3, c4))
}

func (t *typeWashedGeography) EndFigure() error  { return t.p.EndFigure() }
func (t *typeWashedGeography) EndGeo() error     { return t.p.EndGeography() }
func (t *typeWashedGeography) Reset()            { t.p.Reset() }
func (t *typeWashedGeography) IsGeography() bool { return true }

type typeWashedGeometry struct {
	p GeometryPipeline
}

func (t *typeWashedGeometry) SetCoordinateSystem(epsg int) error {
	return t.p.SetCoordinateSystem(NewGeometryCoordinateSystem(epsg))
}

func (t *typeWashedGeometry) BeginGeo(st SpatialType) error { return t.p.BeginGeometry(st) }

func (t *typeWashedGeometry) BeginFigure(c1, c2 float64, c3, c4 Ordinate) error {
	return t.p.BeginFigure(GeometryPosition{X: c1, Y: c2, Z: c3, M: c4})
}

func (t *typeWashedGeometry) LineTo(c1, c2 float64, c3, c4 Ordinate) error {
	return t.p.LineTo(GeometryPosition{X: c1, Y: c2, Z: c3, M: c4})
}

func (t *typeWashedGeometry) EndFigure() error  { return t.p.EndFigure() }
func (t *typeWashedGeometry) EndGeo() error     { return t.p.EndGeometry() }
func (t *typeWashedGeometry) Reset()            { t.p.Reset() }
func (t *typeWashedGeometry) IsGeography() bool { return false }
