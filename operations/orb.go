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

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/spatialmodel/spatial"
)

// Orb measures shapes with github.com/paulmach/orb: geography shapes on a
// sphere of radius orb.EarthRadius and geometry shapes in the plane.
type Orb struct{}

func geographyPoint(p spatial.GeographyPosition) orb.Point {
	return orb.Point{p.Longitude, p.Latitude}
}

func geographyLine(pts []spatial.GeographyPosition) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = geographyPoint(p)
	}
	return ls
}

// orbGeography converts g, which must not be a full globe.
func orbGeography(g *spatial.Geography) orb.Geometry {
	switch g.Type() {
	case spatial.Point:
		if p, ok := g.Position(); ok {
			return geographyPoint(p)
		}
		return orb.MultiPoint{}
	case spatial.LineString:
		return geographyLine(g.Points())
	case spatial.Polygon:
		var poly orb.Polygon
		for _, r := range g.Rings() {
			poly = append(poly, orb.Ring(geographyLine(r)))
		}
		return poly
	case spatial.MultiPoint:
		var mp orb.MultiPoint
		for _, m := range g.Members() {
			if p, ok := m.Position(); ok {
				mp = append(mp, geographyPoint(p))
			}
		}
		return mp
	case spatial.MultiLineString:
		var mls orb.MultiLineString
		for _, m := range g.Members() {
			mls = append(mls, geographyLine(m.Points()))
		}
		return mls
	case spatial.MultiPolygon:
		var mp orb.MultiPolygon
		for _, m := range g.Members() {
			mp = append(mp, orbGeography(m).(orb.Polygon))
		}
		return mp
	default:
		var c orb.Collection
		for _, m := range g.Members() {
			c = append(c, orbGeography(m))
		}
		return c
	}
}

func geometryPoint(p spatial.GeometryPosition) orb.Point {
	return orb.Point{p.X, p.Y}
}

func geometryLine(pts []spatial.GeometryPosition) orb.LineString {
	ls := make(orb.LineString, len(pts))
	for i, p := range pts {
		ls[i] = geometryPoint(p)
	}
	return ls
}

func orbGeometry(g *spatial.Geometry) orb.Geometry {
	switch g.Type() {
	case spatial.Point:
		if p, ok := g.Position(); ok {
			return geometryPoint(p)
		}
		return orb.MultiPoint{}
	case spatial.LineString:
		return geometryLine(g.Points())
	case spatial.Polygon:
		var poly orb.Polygon
		for _, r := range g.Rings() {
			poly = append(poly, orb.Ring(geometryLine(r)))
		}
		return poly
	case spatial.MultiPoint:
		var mp orb.MultiPoint
		for _, m := range g.Members() {
			if p, ok := m.Position(); ok {
				mp = append(mp, geometryPoint(p))
			}
		}
		return mp
	case spatial.MultiLineString:
		var mls orb.MultiLineString
		for _, m := range g.Members() {
			mls = append(mls, geometryLine(m.Points()))
		}
		return mls
	case spatial.MultiPolygon:
		var mp orb.MultiPolygon
		for _, m := range g.Members() {
			mp = append(mp, orbGeometry(m).(orb.Polygon))
		}
		return mp
	default:
		var c orb.Collection
		for _, m := range g.Members() {
			c = append(c, orbGeometry(m))
		}
		return c
	}
}

// GeographyDistance returns the great circle distance between two points.
func (Orb) GeographyDistance(a, b *spatial.Geography) (float64, error) {
	pa, aok := a.Position()
	pb, bok := b.Position()
	if !aok || !bok {
		return 0, &UnsupportedError{Op: "distance", Msg: "geography distance is only defined between non-empty points"}
	}
	return geo.Distance(geographyPoint(pa), geographyPoint(pb)), nil
}

// GeographyLength returns the length of line strings and the perimeter of
// polygons.
func (Orb) GeographyLength(g *spatial.Geography) (float64, error) {
	if g.Type() == spatial.FullGlobe {
		return 0, nil
	}
	return geo.Length(orbGeography(g)), nil
}

// GeographyArea returns the area of polygons.
func (Orb) GeographyArea(g *spatial.Geography) (float64, error) {
	if g.Type() == spatial.FullGlobe {
		return 4 * math.Pi * orb.EarthRadius * orb.EarthRadius, nil
	}
	return geo.Area(orbGeography(g)), nil
}

// GeometryDistance returns the distance between a point and another
// shape.
func (Orb) GeometryDistance(a, b *spatial.Geometry) (float64, error) {
	if p, ok := a.Position(); ok {
		return planar.DistanceFrom(orbGeometry(b), geometryPoint(p)), nil
	}
	if p, ok := b.Position(); ok {
		return planar.DistanceFrom(orbGeometry(a), geometryPoint(p)), nil
	}
	return 0, &UnsupportedError{Op: "distance", Msg: "one of the shapes must be a non-empty point"}
}

// GeometryLength returns the length of line strings and the perimeter of
// polygons.
func (Orb) GeometryLength(g *spatial.Geometry) (float64, error) {
	return planar.Length(orbGeometry(g)), nil
}

// GeometryArea returns the area of polygons.
func (Orb) GeometryArea(g *spatial.Geometry) (float64, error) {
	return planar.Area(orbGeometry(g)), nil
}
