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

package operations

import (
	"math"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/spatial"
)

// Cartesian measures geometry shapes in the plane with
// github.com/ctessum/geom. It does not measure geography shapes.
type Cartesian struct{}

var errGeography = &UnsupportedError{Op: "cartesian", Msg: "geography shapes are not supported"}

func (Cartesian) GeographyDistance(a, b *spatial.Geography) (float64, error) { return 0, errGeography }
func (Cartesian) GeographyLength(g *spatial.Geography) (float64, error)      { return 0, errGeography }
func (Cartesian) GeographyArea(g *spatial.Geography) (float64, error)        { return 0, errGeography }

func cartesianLine(pts []spatial.GeometryPosition) geom.LineString {
	ls := make(geom.LineString, len(pts))
	for i, p := range pts {
		ls[i] = geom.Point{X: p.X, Y: p.Y}
	}
	return ls
}

func cartesianPolygon(g *spatial.Geometry) geom.Polygon {
	var poly geom.Polygon
	for _, r := range g.Rings() {
		poly = append(poly, geom.Path(cartesianLine(r)))
	}
	return poly
}

// lines returns the line strings and polygon rings of g and its members.
func lines(g *spatial.Geometry) []geom.LineString {
	switch g.Type() {
	case spatial.LineString:
		return []geom.LineString{cartesianLine(g.Points())}
	case spatial.Polygon:
		var out []geom.LineString
		for _, r := range cartesianPolygon(g) {
			out = append(out, geom.LineString(r))
		}
		return out
	}
	var out []geom.LineString
	for _, m := range g.Members() {
		out = append(out, lines(m)...)
	}
	return out
}

func polygons(g *spatial.Geometry) geom.MultiPolygon {
	if g.Type() == spatial.Polygon {
		return geom.MultiPolygon{cartesianPolygon(g)}
	}
	var out geom.MultiPolygon
	for _, m := range g.Members() {
		out = append(out, polygons(m)...)
	}
	return out
}

func points(g *spatial.Geometry) []geom.Point {
	if p, ok := g.Position(); ok {
		return []geom.Point{{X: p.X, Y: p.Y}}
	}
	var out []geom.Point
	for _, m := range g.Members() {
		out = append(out, points(m)...)
	}
	return out
}

// GeometryLength returns the length of line strings and the perimeter of
// polygons.
func (Cartesian) GeometryLength(g *spatial.Geometry) (float64, error) {
	var l float64
	for _, ls := range lines(g) {
		l += ls.Length()
	}
	return l, nil
}

// GeometryArea returns the area of polygons.
func (Cartesian) GeometryArea(g *spatial.Geometry) (float64, error) {
	return polygons(g).Area(), nil
}

// GeometryDistance returns the distance between a point and another
// shape. A point inside a polygon is at distance zero.
func (Cartesian) GeometryDistance(a, b *spatial.Geometry) (float64, error) {
	if _, ok := b.Position(); ok {
		a, b = b, a
	}
	pa, ok := a.Position()
	if !ok {
		return 0, &UnsupportedError{Op: "distance", Msg: "one of the shapes must be a non-empty point"}
	}
	p := geom.Point{X: pa.X, Y: pa.Y}
	if polys := polygons(b); len(polys) > 0 && p.Within(polys) != geom.Outside {
		return 0, nil
	}
	d := math.Inf(1)
	for _, q := range points(b) {
		d = math.Min(d, math.Hypot(q.X-p.X, q.Y-p.Y))
	}
	for _, ls := range lines(b) {
		for i := 0; i+1 < len(ls); i++ {
			d = math.Min(d, segmentDistance(p, ls[i], ls[i+1]))
		}
	}
	if math.IsInf(d, 1) {
		return 0, &UnsupportedError{Op: "distance", Msg: "the shape is empty"}
	}
	return d, nil
}

// segmentDistance returns the distance from p to the segment ab.
func segmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = math.Max(0, math.Min(1, ((p.X-a.X)*dx+(p.Y-a.Y)*dy)/l2))
	}
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}
