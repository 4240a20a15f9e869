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

// Package shp reads and writes geometry shapes as ESRI shapefiles.
// Shapefiles hold two-dimensional planar shapes of a single type; outer
// polygon rings are stored clockwise and holes counterclockwise.
package shp

import (
	"fmt"

	goshp "github.com/jonas-p/go-shp"
	"github.com/pkg/errors"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/geomconv"
	"github.com/twpayne/go-geom"
)

const format = "shp"

// Parse error messages.
const (
	msgOpen             = "cannot open %s"
	msgRead             = "cannot read %s"
	msgUnsupportedShape = "unsupported shape %T"
)

// TypeField is the name of the attribute holding the spatial type of each
// shape written by a Writer.
const TypeField = "TYPE"

// typeFieldSize is the width of the TypeField column.
const typeFieldSize = 20

var shapeTypes = map[spatial.SpatialType]goshp.ShapeType{
	spatial.Point:           goshp.POINT,
	spatial.LineString:      goshp.POLYLINE,
	spatial.MultiLineString: goshp.POLYLINE,
	spatial.Polygon:         goshp.POLYGON,
	spatial.MultiPolygon:    goshp.POLYGON,
	spatial.MultiPoint:      goshp.MULTIPOINT,
}

// Reader reads shapefiles into a destination pipeline.
type Reader struct {
	base *spatial.ReaderBase
}

// NewReader returns a reader driving dest.
func NewReader(dest spatial.SpatialPipeline) (*Reader, error) {
	base, err := spatial.NewReaderBase(dest)
	if err != nil {
		return nil, err
	}
	return &Reader{base: base}, nil
}

// ReadFile sends each shape in the named shapefile to the geometry rail of
// the destination with the given EPSG code, and returns the number of
// shapes sent.
func (r *Reader) ReadFile(filename string, epsg int) (int, error) {
	f, err := goshp.Open(filename)
	if err != nil {
		return 0, spatial.NewParseError(format, err, msgOpen, filename)
	}
	defer f.Close()
	n := 0
	for f.Next() {
		_, s := f.Shape()
		err := r.base.ReadTypeWashed(false, false, func(p spatial.TypeWashedPipeline) error {
			if err := p.SetCoordinateSystem(epsg); err != nil {
				return err
			}
			return send(p, s)
		})
		if err != nil {
			return n, err
		}
		n++
	}
	if err := f.Err(); err != nil {
		return n, spatial.NewParseError(format, err, msgRead, filename)
	}
	return n, nil
}

func sendFigure(p spatial.TypeWashedPipeline, points []goshp.Point) error {
	for i, pt := range points {
		var err error
		if i == 0 {
			err = p.BeginFigure(pt.X, pt.Y, spatial.Ordinate{}, spatial.Ordinate{})
		} else {
			err = p.LineTo(pt.X, pt.Y, spatial.Ordinate{}, spatial.Ordinate{})
		}
		if err != nil {
			return err
		}
	}
	return p.EndFigure()
}

func sendShape(p spatial.TypeWashedPipeline, t spatial.SpatialType, figures ...[]goshp.Point) error {
	if err := p.BeginGeo(t); err != nil {
		return err
	}
	for _, f := range figures {
		if err := sendFigure(p, f); err != nil {
			return err
		}
	}
	return p.EndGeo()
}

// sendMulti sends a multi-shape of type t whose members of type member
// have the given figures.
func sendMulti(p spatial.TypeWashedPipeline, t, member spatial.SpatialType, members [][][]goshp.Point) error {
	if err := p.BeginGeo(t); err != nil {
		return err
	}
	for _, m := range members {
		if err := sendShape(p, member, m...); err != nil {
			return err
		}
	}
	return p.EndGeo()
}

func send(p spatial.TypeWashedPipeline, s goshp.Shape) error {
	switch s := s.(type) {
	case *goshp.Point:
		return sendShape(p, spatial.Point, []goshp.Point{*s})
	case *goshp.PolyLine:
		parts := split(s.Parts, s.Points)
		if len(parts) == 1 {
			return sendShape(p, spatial.LineString, parts[0])
		}
		members := make([][][]goshp.Point, len(parts))
		for i, part := range parts {
			members[i] = [][]goshp.Point{part}
		}
		return sendMulti(p, spatial.MultiLineString, spatial.LineString, members)
	case *goshp.Polygon:
		polygons := group(split(s.Parts, s.Points))
		if len(polygons) == 1 {
			return sendShape(p, spatial.Polygon, polygons[0]...)
		}
		return sendMulti(p, spatial.MultiPolygon, spatial.Polygon, polygons)
	case *goshp.MultiPoint:
		members := make([][][]goshp.Point, len(s.Points))
		for i, pt := range s.Points {
			members[i] = [][]goshp.Point{{pt}}
		}
		return sendMulti(p, spatial.MultiPoint, spatial.Point, members)
	default:
		return spatial.NewParseError(format, nil, msgUnsupportedShape, s)
	}
}

// split divides points into the parts starting at the given indices.
func split(parts []int32, points []goshp.Point) [][]goshp.Point {
	out := make([][]goshp.Point, len(parts))
	for i, start := range parts {
		end := len(points)
		if i < len(parts)-1 {
			end = int(parts[i+1])
		}
		out[i] = points[start:end]
	}
	return out
}

// group assigns each counterclockwise ring to the clockwise ring before
// it.
func group(rings [][]goshp.Point) [][][]goshp.Point {
	var polygons [][][]goshp.Point
	for _, r := range rings {
		if n := len(polygons); n > 0 && signedArea(r) > 0 {
			polygons[n-1] = append(polygons[n-1], r)
			continue
		}
		polygons = append(polygons, [][]goshp.Point{r})
	}
	return polygons
}

// signedArea is negative for clockwise rings.
func signedArea(r []goshp.Point) float64 {
	var a float64
	for i := 0; i < len(r)-1; i++ {
		a += r[i].X*r[i+1].Y - r[i+1].X*r[i].Y
	}
	return a / 2
}

func orient(r []goshp.Point, clockwise bool) []goshp.Point {
	if (signedArea(r) < 0) == clockwise {
		return r
	}
	out := make([]goshp.Point, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// Writer is a terminal pipeline stage that writes each completed
// top-level geometry shape to a shapefile.
type Writer struct {
	f    *goshp.Writer
	typ  spatial.SpatialType
	sink *geomconv.Sink
}

// NewWriter creates the named shapefile for shapes of type t. MultiPoint
// files hold only MultiPoint shapes; LineString files also accept
// MultiLineString shapes, and Polygon files MultiPolygon shapes.
func NewWriter(filename string, t spatial.SpatialType) (*Writer, error) {
	st, ok := shapeTypes[t]
	if !ok {
		return nil, fmt.Errorf("shp: %v shapes cannot be stored in a shapefile", t)
	}
	f, err := goshp.Create(filename, st)
	if err != nil {
		return nil, errors.Wrapf(err, "shp: creating %s", filename)
	}
	f.SetFields([]goshp.Field{goshp.StringField(TypeField, typeFieldSize)})
	w := &Writer{f: f, typ: t}
	w.sink = geomconv.NewSink(w.emit)
	return w, nil
}

// GeographyPipeline implements spatial.SpatialPipeline. Shapes sent to it
// are rejected.
func (w *Writer) GeographyPipeline() spatial.GeographyPipeline { return w.sink.GeographyPipeline() }

// GeometryPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeometryPipeline() spatial.GeometryPipeline { return w.sink.GeometryPipeline() }

// Close flushes and closes the shapefile.
func (w *Writer) Close() { w.f.Close() }

func (w *Writer) emit(g geom.T, cs spatial.CoordinateSystem) error {
	if g == nil || cs.IsGeography() {
		return errors.New("shp: only geometry shapes can be stored in a shapefile")
	}
	if g.Layout() != geom.XY {
		return errors.Errorf("shp: %v coordinates cannot be stored in a shapefile", g.Layout())
	}
	s, t, err := w.shape(g)
	if err != nil {
		return err
	}
	name := t.String()
	if len(name) > typeFieldSize {
		return errors.Errorf("shp: type name %q exceeds the %s field", name, TypeField)
	}
	row := w.f.Write(s)
	w.f.WriteAttribute(int(row), 0, name)
	return nil
}

func points(coords []geom.Coord) []goshp.Point {
	pts := make([]goshp.Point, len(coords))
	for i, c := range coords {
		pts[i] = goshp.Point{X: c.X(), Y: c.Y()}
	}
	return pts
}

func polygonParts(rings [][]geom.Coord) [][]goshp.Point {
	parts := make([][]goshp.Point, len(rings))
	for i, r := range rings {
		parts[i] = orient(points(r), i == 0)
	}
	return parts
}

// shape converts g into a shape allowed in the file.
func (w *Writer) shape(g geom.T) (goshp.Shape, spatial.SpatialType, error) {
	var t spatial.SpatialType
	var s goshp.Shape
	switch g := g.(type) {
	case *geom.Point:
		t = spatial.Point
		if !g.Empty() {
			s = &goshp.Point{X: g.X(), Y: g.Y()}
		}
	case *geom.LineString:
		t = spatial.LineString
		if g.NumCoords() > 0 {
			s = goshp.NewPolyLine([][]goshp.Point{points(g.Coords())})
		}
	case *geom.MultiLineString:
		t = spatial.MultiLineString
		var parts [][]goshp.Point
		for _, ls := range g.Coords() {
			if len(ls) > 0 {
				parts = append(parts, points(ls))
			}
		}
		if len(parts) > 0 {
			s = goshp.NewPolyLine(parts)
		}
	case *geom.Polygon:
		t = spatial.Polygon
		if g.NumLinearRings() > 0 {
			pg := goshp.Polygon(*goshp.NewPolyLine(polygonParts(g.Coords())))
			s = &pg
		}
	case *geom.MultiPolygon:
		t = spatial.MultiPolygon
		var parts [][]goshp.Point
		for _, poly := range g.Coords() {
			parts = append(parts, polygonParts(poly)...)
		}
		if len(parts) > 0 {
			pg := goshp.Polygon(*goshp.NewPolyLine(parts))
			s = &pg
		}
	case *geom.MultiPoint:
		t = spatial.MultiPoint
		if g.NumPoints() > 0 {
			s = multiPoint(g)
		}
	default:
		return nil, 0, errors.Errorf("shp: %T cannot be stored in a shapefile", g)
	}
	if shapeTypes[t] != shapeTypes[w.typ] {
		return nil, 0, errors.Errorf("shp: %v cannot be stored in a %v shapefile", t, w.typ)
	}
	if s == nil {
		return nil, 0, errors.Errorf("shp: empty %v cannot be stored in a shapefile", t)
	}
	return s, t, nil
}

func multiPoint(g *geom.MultiPoint) *goshp.MultiPoint {
	b := g.Bounds()
	return &goshp.MultiPoint{
		Box:       goshp.Box{MinX: b.Min(0), MinY: b.Min(1), MaxX: b.Max(0), MaxY: b.Max(1)},
		NumPoints: int32(g.NumPoints()),
		Points:    points(g.Coords()),
	}
}
