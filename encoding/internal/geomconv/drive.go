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

package geomconv

import (
	"fmt"
	"math"

	"github.com/spatialmodel/spatial"
	"github.com/twpayne/go-geom"
)

// EPSG returns the EPSG code to use for g: its SRID if set, otherwise the
// default of the rail.
func EPSG(g geom.T, geography bool) int {
	if srid := g.SRID(); srid != 0 {
		return srid
	}
	if geography {
		return spatial.DefaultGeography.EPSG
	}
	return spatial.DefaultGeometry.EPSG
}

// Drive sends g to p as one complete call sequence with the given
// coordinate system. p should reverse coordinates on the geography rail,
// since go-geom coordinates are in x/y order. NaN Z and M values are
// treated as absent.
func Drive(p spatial.TypeWashedPipeline, g geom.T, epsg int) error {
	if err := p.SetCoordinateSystem(epsg); err != nil {
		return err
	}
	return send(p, g)
}

// DriveFullGlobe sends a full globe to p.
func DriveFullGlobe(p spatial.TypeWashedPipeline, epsg int) error {
	if err := p.SetCoordinateSystem(epsg); err != nil {
		return err
	}
	if err := p.BeginGeo(spatial.FullGlobe); err != nil {
		return err
	}
	return p.EndGeo()
}

func optional(c geom.Coord, i int) spatial.Ordinate {
	if i < 0 || i >= len(c) || math.IsNaN(c[i]) {
		return spatial.Ordinate{}
	}
	return spatial.NewOrdinate(c[i])
}

func sendFigure(p spatial.TypeWashedPipeline, layout geom.Layout, coords []geom.Coord) error {
	zi, mi := layout.ZIndex(), layout.MIndex()
	for i, c := range coords {
		var err error
		if i == 0 {
			err = p.BeginFigure(c[0], c[1], optional(c, zi), optional(c, mi))
		} else {
			err = p.LineTo(c[0], c[1], optional(c, zi), optional(c, mi))
		}
		if err != nil {
			return err
		}
	}
	return p.EndFigure()
}

// sendShape sends a shape of type t whose figures are coords.
func sendShape(p spatial.TypeWashedPipeline, t spatial.SpatialType, layout geom.Layout, coords ...[]geom.Coord) error {
	if err := p.BeginGeo(t); err != nil {
		return err
	}
	for _, f := range coords {
		if len(f) == 0 {
			continue
		}
		if err := sendFigure(p, layout, f); err != nil {
			return err
		}
	}
	return p.EndGeo()
}

func send(p spatial.TypeWashedPipeline, g geom.T) error {
	layout := g.Layout()
	switch g := g.(type) {
	case *geom.Point:
		if g.Empty() {
			return sendShape(p, spatial.Point, layout)
		}
		return sendShape(p, spatial.Point, layout, []geom.Coord{g.Coords()})
	case *geom.LineString:
		return sendShape(p, spatial.LineString, layout, g.Coords())
	case *geom.Polygon:
		return sendShape(p, spatial.Polygon, layout, g.Coords()...)
	case *geom.MultiPoint:
		if err := p.BeginGeo(spatial.MultiPoint); err != nil {
			return err
		}
		for i := 0; i < g.NumPoints(); i++ {
			if err := send(p, g.Point(i)); err != nil {
				return err
			}
		}
		return p.EndGeo()
	case *geom.MultiLineString:
		if err := p.BeginGeo(spatial.MultiLineString); err != nil {
			return err
		}
		for _, ls := range g.Coords() {
			if err := sendShape(p, spatial.LineString, layout, ls); err != nil {
				return err
			}
		}
		return p.EndGeo()
	case *geom.MultiPolygon:
		if err := p.BeginGeo(spatial.MultiPolygon); err != nil {
			return err
		}
		for _, poly := range g.Coords() {
			if err := sendShape(p, spatial.Polygon, layout, poly...); err != nil {
				return err
			}
		}
		return p.EndGeo()
	case *geom.GeometryCollection:
		if err := p.BeginGeo(spatial.Collection); err != nil {
			return err
		}
		for _, m := range g.Geoms() {
			if err := send(p, m); err != nil {
				return err
			}
		}
		return p.EndGeo()
	default:
		return fmt.Errorf("geomconv: unsupported geometry type %T", g)
	}
}
