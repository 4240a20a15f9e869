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

// Package gml reads and writes shapes as GML 3 simple features, for
// example
//
//	<Point xmlns="http://www.opengis.net/gml" srsName="http://www.opengis.net/def/crs/EPSG/0/4326"><pos srsDimension="2">10 20</pos></Point>
//
// Geography positions are written in latitude longitude order. Z and M
// values are carried as the third and fourth ordinates of a position; an
// absent Z followed by an M is written as NaN.
package gml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/geomconv"
	"github.com/twpayne/go-geom"
)

const format = "gml"

const (
	// Namespace is the GML namespace.
	Namespace = "http://www.opengis.net/gml"
	// FullGlobeNamespace is the namespace of the FullGlobe element.
	FullGlobeNamespace = "http://schemas.microsoft.com/sqlserver/2011/geography"

	srsPrefix = "http://www.opengis.net/def/crs/EPSG/0/"
)

// Parse error messages.
const (
	msgEmptyInput        = "empty input"
	msgInvalidXML        = "invalid XML"
	msgUnexpectedElement = "unexpected element <%s> in <%s>"
	msgUnexpectedText    = "unexpected text %q"
	msgInvalidSRS        = "invalid srsName %q"
	msgInvalidDimension  = "invalid srsDimension %q"
	msgInvalidNumber     = "invalid number %q"
	msgInvalidPositions  = "%d ordinates do not make positions of dimension %d"
)

var shapeElements = map[string]spatial.SpatialType{
	"Point":           spatial.Point,
	"LineString":      spatial.LineString,
	"Polygon":         spatial.Polygon,
	"MultiPoint":      spatial.MultiPoint,
	"MultiCurve":      spatial.MultiLineString,
	"MultiLineString": spatial.MultiLineString,
	"MultiSurface":    spatial.MultiPolygon,
	"MultiPolygon":    spatial.MultiPolygon,
	"MultiGeometry":   spatial.Collection,
	"FullGlobe":       spatial.FullGlobe,
}

var memberElements = map[string]bool{
	"pointMember":      true,
	"pointMembers":     true,
	"curveMember":      true,
	"curveMembers":     true,
	"lineStringMember": true,
	"surfaceMember":    true,
	"surfaceMembers":   true,
	"polygonMember":    true,
	"geometryMember":   true,
	"geometryMembers":  true,
}

// Reader reads GML into a destination pipeline.
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

// ReadGeography reads one shape from in and sends it to the geography
// rail of the destination.
func (r *Reader) ReadGeography(in io.Reader) error { return r.read(in, true) }

// ReadGeometry reads one shape from in and sends it to the geometry rail
// of the destination.
func (r *Reader) ReadGeometry(in io.Reader) error { return r.read(in, false) }

func (r *Reader) read(in io.Reader, geography bool) error {
	if in == nil {
		return &spatial.ArgumentError{Name: "input"}
	}
	d := &decoder{d: xml.NewDecoder(in)}
	tok, err := d.token()
	if err == io.EOF {
		return spatial.NewParseError(format, nil, msgEmptyInput)
	} else if err != nil {
		return d.wrap(err)
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return spatial.NewParseError(format, nil, msgInvalidXML)
	}
	epsg, err := srsEPSG(start, geography)
	if err != nil {
		return err
	}
	return r.base.ReadTypeWashed(geography, false, func(p spatial.TypeWashedPipeline) error {
		d.p = p
		if err := p.SetCoordinateSystem(epsg); err != nil {
			return err
		}
		return d.shape(start)
	})
}

// srsEPSG returns the EPSG code named by the srsName attribute of start,
// or the default of the rail. Both URL and URN forms are accepted.
func srsEPSG(start xml.StartElement, geography bool) (int, error) {
	name := attr(start, "srsName")
	if name == "" {
		if geography {
			return spatial.DefaultGeography.EPSG, nil
		}
		return spatial.DefaultGeometry.EPSG, nil
	}
	i := strings.LastIndexAny(name, "/:")
	epsg, err := strconv.Atoi(name[i+1:])
	if err != nil || !strings.Contains(strings.ToUpper(name), "EPSG") {
		return 0, spatial.NewParseError(format, err, msgInvalidSRS, name)
	}
	return epsg, nil
}

func attr(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

type decoder struct {
	d *xml.Decoder
	p spatial.TypeWashedPipeline
}

func (d *decoder) wrap(err error) error {
	if _, ok := err.(*spatial.ParseError); ok {
		return err
	}
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return spatial.NewParseError(format, err, msgInvalidXML)
}

// token returns the next start or end element, skipping comments,
// processing instructions and whitespace.
func (d *decoder) token() (xml.Token, error) {
	for {
		tok, err := d.d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return t, nil
		case xml.CharData:
			if s := strings.TrimSpace(string(t)); s != "" {
				return nil, spatial.NewParseError(format, nil, msgUnexpectedText, s)
			}
		}
	}
}

// children calls f with each child element of parent. f must consume the
// child through its end element.
func (d *decoder) children(parent xml.StartElement, f func(xml.StartElement) error) error {
	for {
		tok, err := d.token()
		if err != nil {
			return d.wrap(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := f(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (d *decoder) none(parent xml.StartElement) func(xml.StartElement) error {
	return func(s xml.StartElement) error {
		return spatial.NewParseError(format, nil, msgUnexpectedElement, s.Name.Local, parent.Name.Local)
	}
}

// text returns the character data of the current element.
func (d *decoder) text(parent xml.StartElement) (string, error) {
	var b strings.Builder
	for {
		tok, err := d.d.Token()
		if err != nil {
			return "", d.wrap(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			return "", d.none(parent)(t)
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

func (d *decoder) shape(start xml.StartElement) error {
	t, ok := shapeElements[start.Name.Local]
	if !ok {
		return spatial.NewParseError(format, nil, msgUnexpectedElement, start.Name.Local, "shape")
	}
	if err := d.p.BeginGeo(t); err != nil {
		return err
	}
	var err error
	switch t {
	case spatial.Point, spatial.LineString:
		var figure [][]float64
		err = d.children(start, func(s xml.StartElement) error {
			pos, err := d.positions(s, start)
			figure = append(figure, pos...)
			return err
		})
		if err == nil && len(figure) > 0 {
			err = d.figure(figure)
		}
	case spatial.Polygon:
		err = d.children(start, func(s xml.StartElement) error { return d.boundary(s, start) })
	case spatial.FullGlobe:
		err = d.children(start, d.none(start))
	default:
		err = d.children(start, func(s xml.StartElement) error {
			if !memberElements[s.Name.Local] {
				return d.none(start)(s)
			}
			return d.children(s, d.shape)
		})
	}
	if err != nil {
		return err
	}
	return d.p.EndGeo()
}

// boundary reads an exterior or interior ring of a polygon.
func (d *decoder) boundary(s, polygon xml.StartElement) error {
	switch s.Name.Local {
	case "exterior", "interior", "outerBoundaryIs", "innerBoundaryIs":
	default:
		return d.none(polygon)(s)
	}
	return d.children(s, func(ring xml.StartElement) error {
		if ring.Name.Local != "LinearRing" {
			return d.none(s)(ring)
		}
		var figure [][]float64
		err := d.children(ring, func(c xml.StartElement) error {
			pos, err := d.positions(c, ring)
			figure = append(figure, pos...)
			return err
		})
		if err != nil {
			return err
		}
		return d.figure(figure)
	})
}

// positions reads a pos or posList element.
func (d *decoder) positions(s, parent xml.StartElement) ([][]float64, error) {
	if s.Name.Local != "pos" && s.Name.Local != "posList" {
		return nil, d.none(parent)(s)
	}
	dim := 0
	if a := attr(s, "srsDimension"); a != "" {
		var err error
		if dim, err = strconv.Atoi(a); err != nil || dim < 2 || dim > 4 {
			return nil, spatial.NewParseError(format, err, msgInvalidDimension, a)
		}
	}
	text, err := d.text(s)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(text)
	vals := make([]float64, len(fields))
	for i, f := range fields {
		if vals[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, spatial.NewParseError(format, err, msgInvalidNumber, f)
		}
	}
	if len(vals) == 0 {
		return nil, nil
	}
	if dim == 0 {
		dim = 2
		if s.Name.Local == "pos" {
			dim = len(vals)
		}
	}
	if dim < 2 || dim > 4 || len(vals)%dim != 0 || (s.Name.Local == "pos" && len(vals) != dim) {
		return nil, spatial.NewParseError(format, nil, msgInvalidPositions, len(vals), dim)
	}
	pos := make([][]float64, 0, len(vals)/dim)
	for i := 0; i < len(vals); i += dim {
		pos = append(pos, vals[i:i+dim])
	}
	return pos, nil
}

func optional(v []float64, i int) spatial.Ordinate {
	if i >= len(v) || math.IsNaN(v[i]) {
		return spatial.Ordinate{}
	}
	return spatial.NewOrdinate(v[i])
}

func (d *decoder) figure(positions [][]float64) error {
	for i, v := range positions {
		var err error
		if i == 0 {
			err = d.p.BeginFigure(v[0], v[1], optional(v, 2), optional(v, 3))
		} else {
			err = d.p.LineTo(v[0], v[1], optional(v, 2), optional(v, 3))
		}
		if err != nil {
			return err
		}
	}
	return d.p.EndFigure()
}

// Writer is a terminal pipeline stage that writes each completed
// top-level shape to an io.Writer as one line of GML.
type Writer struct {
	w    io.Writer
	sink *geomconv.Sink
}

// NewWriter returns a writer writing to w.
func NewWriter(w io.Writer) *Writer {
	wr := &Writer{w: w}
	wr.sink = geomconv.NewSink(wr.emit)
	return wr
}

// GeographyPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeographyPipeline() spatial.GeographyPipeline { return w.sink.GeographyPipeline() }

// GeometryPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeometryPipeline() spatial.GeometryPipeline { return w.sink.GeometryPipeline() }

func (w *Writer) emit(g geom.T, cs spatial.CoordinateSystem) error {
	var b bytes.Buffer
	e := &encoder{e: xml.NewEncoder(&b), geography: cs.IsGeography()}
	ns := Namespace
	if g == nil {
		ns = FullGlobeNamespace
	}
	attrs := []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: ns}}
	if cs.EPSG != 0 {
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "srsName"}, Value: fmt.Sprintf("%s%d", srsPrefix, cs.EPSG)})
	}
	if g == nil {
		e.start("FullGlobe", attrs...)
		e.end("FullGlobe")
	} else {
		e.shape(g, attrs)
	}
	if e.err == nil {
		e.err = e.e.Flush()
	}
	if e.err != nil {
		return errors.Wrap(e.err, "gml: encoding shape")
	}
	b.WriteByte('\n')
	_, err := w.w.Write(b.Bytes())
	return errors.Wrap(err, "gml: writing shape")
}

type encoder struct {
	e         *xml.Encoder
	geography bool
	err       error
}

func (e *encoder) start(name string, attrs ...xml.Attr) {
	if e.err == nil {
		e.err = e.e.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
	}
}

func (e *encoder) end(name string) {
	if e.err == nil {
		e.err = e.e.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
	}
}

// positions writes coords as a pos or posList element.
func (e *encoder) positions(name string, layout geom.Layout, coords []geom.Coord) {
	dim := layout.Stride()
	if layout == geom.XYM {
		dim = 4
	}
	vals := make([]string, 0, dim*len(coords))
	for _, c := range coords {
		x, y := c[0], c[1]
		if e.geography {
			x, y = y, x
		}
		vals = append(vals, formatFloat(x), formatFloat(y))
		switch layout {
		case geom.XYZ, geom.XYZM:
			for _, v := range c[2:] {
				vals = append(vals, formatFloat(v))
			}
		case geom.XYM:
			vals = append(vals, "NaN", formatFloat(c[2]))
		}
	}
	e.start(name, xml.Attr{Name: xml.Name{Local: "srsDimension"}, Value: strconv.Itoa(dim)})
	if e.err == nil {
		e.err = e.e.EncodeToken(xml.CharData(strings.Join(vals, " ")))
	}
	e.end(name)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// members writes each member of a multi-shape wrapped in a member element.
func (e *encoder) members(name, member string, attrs []xml.Attr, n int, m func(i int) geom.T) {
	e.start(name, attrs...)
	for i := 0; i < n; i++ {
		e.start(member)
		e.shape(m(i), nil)
		e.end(member)
	}
	e.end(name)
}

func (e *encoder) shape(g geom.T, attrs []xml.Attr) {
	if e.err != nil {
		return
	}
	layout := g.Layout()
	switch g := g.(type) {
	case *geom.Point:
		e.start("Point", attrs...)
		if !g.Empty() {
			e.positions("pos", layout, []geom.Coord{g.Coords()})
		}
		e.end("Point")
	case *geom.LineString:
		e.start("LineString", attrs...)
		if g.NumCoords() > 0 {
			e.positions("posList", layout, g.Coords())
		}
		e.end("LineString")
	case *geom.Polygon:
		e.start("Polygon", attrs...)
		for i, ring := range g.Coords() {
			boundary := "interior"
			if i == 0 {
				boundary = "exterior"
			}
			e.start(boundary)
			e.start("LinearRing")
			e.positions("posList", layout, ring)
			e.end("LinearRing")
			e.end(boundary)
		}
		e.end("Polygon")
	case *geom.MultiPoint:
		e.members("MultiPoint", "pointMember", attrs, g.NumPoints(), func(i int) geom.T { return g.Point(i) })
	case *geom.MultiLineString:
		e.members("MultiCurve", "curveMember", attrs, g.NumLineStrings(), func(i int) geom.T { return g.LineString(i) })
	case *geom.MultiPolygon:
		e.members("MultiSurface", "surfaceMember", attrs, g.NumPolygons(), func(i int) geom.T { return g.Polygon(i) })
	case *geom.GeometryCollection:
		e.members("MultiGeometry", "geometryMember", attrs, g.NumGeoms(), g.Geom)
	default:
		e.err = fmt.Errorf("unsupported geometry type %T", g)
	}
}

// MarshalGeography returns the GML of g.
func MarshalGeography(g *spatial.Geography) (string, error) {
	var b strings.Builder
	if err := g.SendTo(NewWriter(&b).GeographyPipeline()); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// MarshalGeometry returns the GML of g.
func MarshalGeometry(g *spatial.Geometry) (string, error) {
	var b strings.Builder
	if err := g.SendTo(NewWriter(&b).GeometryPipeline()); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// UnmarshalGeography validates text and builds a geography shape from it
// using impl.
func UnmarshalGeography(text string, impl *spatial.Implementation) (*spatial.Geography, error) {
	head, b := impl.NewValidatingBuilder()
	r, err := NewReader(head)
	if err != nil {
		return nil, err
	}
	if err := r.ReadGeography(strings.NewReader(text)); err != nil {
		return nil, err
	}
	return b.ConstructedGeography()
}

// UnmarshalGeometry validates text and builds a geometry shape from it
// using impl.
func UnmarshalGeometry(text string, impl *spatial.Implementation) (*spatial.Geometry, error) {
	head, b := impl.NewValidatingBuilder()
	r, err := NewReader(head)
	if err != nil {
		return nil, err
	}
	if err := r.ReadGeometry(strings.NewReader(text)); err != nil {
		return nil, err
	}
	return b.ConstructedGeometry()
}
