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

// Package geojson reads and writes shapes as GeoJSON geometry objects.
// The coordinate system is carried in a named "crs" member, for example
//
//	{"type":"Point","coordinates":[20,10],"crs":{"type":"name","properties":{"name":"EPSG:4326"}}}
//
// Objects without a "crs" member use the default coordinate system of the
// rail they are read into. GeoJSON positions hold Z as their third value,
// so shapes with M but no Z cannot be written. Members of a collection
// may differ in dimension; the positions of any other shape may not.
package geojson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/geomconv"
	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"
)

const format = "geojson"

// Parse error messages.
const (
	msgInvalidJSON    = "invalid JSON"
	msgMissingMember  = "missing member %q in %s object"
	msgUnknownType    = "unknown geometry type %q"
	msgInvalidCRS     = "invalid crs name %q"
	msgInvalidObject  = "invalid %s object"
	msgUnsupportedCRS = "unsupported crs type %q"
)

var geometryTypes = map[string]spatial.SpatialType{
	"Point":              spatial.Point,
	"LineString":         spatial.LineString,
	"Polygon":            spatial.Polygon,
	"MultiPoint":         spatial.MultiPoint,
	"MultiLineString":    spatial.MultiLineString,
	"MultiPolygon":       spatial.MultiPolygon,
	"GeometryCollection": spatial.Collection,
}

// object is a GeoJSON geometry object. Coordinates of leaf geometries are
// decoded by go-geom.
type object struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Geometries  []*object       `json:"geometries,omitempty"`
	CRS         *crs            `json:"crs,omitempty"`
}

type crs struct {
	Type       string `json:"type"`
	Properties struct {
		Name string `json:"name"`
	} `json:"properties"`
}

func newCRS(epsg int) *crs {
	if epsg == 0 {
		return nil
	}
	c := &crs{Type: "name"}
	c.Properties.Name = "EPSG:" + strconv.Itoa(epsg)
	return c
}

// epsg parses names of the forms "EPSG:4326" and
// "urn:ogc:def:crs:EPSG::4326".
func (c *crs) epsg() (int, error) {
	if c.Type != "name" {
		return 0, spatial.NewParseError(format, nil, msgUnsupportedCRS, c.Type)
	}
	name := c.Properties.Name
	i := strings.LastIndex(name, ":")
	if i < 0 || !strings.Contains(strings.ToUpper(name), "EPSG") {
		return 0, spatial.NewParseError(format, nil, msgInvalidCRS, name)
	}
	epsg, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return 0, spatial.NewParseError(format, err, msgInvalidCRS, name)
	}
	return epsg, nil
}

// decode converts o into a go-geom geometry.
func (o *object) decode() (geom.T, error) {
	if o == nil {
		return nil, spatial.NewParseError(format, nil, msgInvalidObject, "null")
	}
	if o.Type == "" {
		return nil, spatial.NewParseError(format, nil, msgMissingMember, "type", "geometry")
	}
	t, ok := geometryTypes[o.Type]
	if !ok {
		return nil, spatial.NewParseError(format, nil, msgUnknownType, o.Type)
	}
	if t == spatial.Collection {
		if o.Geometries == nil {
			return nil, spatial.NewParseError(format, nil, msgMissingMember, "geometries", o.Type)
		}
		c := geom.NewGeometryCollection()
		for _, m := range o.Geometries {
			g, err := m.decode()
			if err != nil {
				return nil, err
			}
			if err := c.Push(g); err != nil {
				return nil, spatial.NewParseError(format, err, msgInvalidObject, o.Type)
			}
		}
		return c, nil
	}
	if o.Coordinates == nil {
		return nil, spatial.NewParseError(format, nil, msgMissingMember, "coordinates", o.Type)
	}
	leaf, err := json.Marshal(object{Type: o.Type, Coordinates: o.Coordinates})
	if err != nil {
		return nil, errors.Wrap(err, "geojson: re-encoding geometry")
	}
	var g geom.T
	if err := geomjson.Unmarshal(leaf, &g); err != nil {
		return nil, spatial.NewParseError(format, err, msgInvalidObject, o.Type)
	}
	return g, nil
}

// encode converts g into an object.
func encode(g geom.T) (*object, error) {
	if g.Layout() == geom.XYM {
		return nil, fmt.Errorf("geojson: positions with M but no Z cannot be represented")
	}
	if c, ok := g.(*geom.GeometryCollection); ok {
		o := &object{Type: "GeometryCollection", Geometries: []*object{}}
		for _, m := range c.Geoms() {
			mo, err := encode(m)
			if err != nil {
				return nil, err
			}
			o.Geometries = append(o.Geometries, mo)
		}
		return o, nil
	}
	b, err := geomjson.Marshal(g)
	if err != nil {
		return nil, errors.Wrap(err, "geojson: encoding geometry")
	}
	o := new(object)
	if err := json.Unmarshal(b, o); err != nil {
		return nil, errors.Wrap(err, "geojson: encoding geometry")
	}
	return o, nil
}

// Reader reads GeoJSON geometry objects into a destination pipeline.
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

// ReadGeography reads one geometry object from in and sends it to the
// geography rail of the destination.
func (r *Reader) ReadGeography(in io.Reader) error { return r.read(in, true) }

// ReadGeometry reads one geometry object from in and sends it to the
// geometry rail of the destination.
func (r *Reader) ReadGeometry(in io.Reader) error { return r.read(in, false) }

func (r *Reader) read(in io.Reader, geography bool) error {
	if in == nil {
		return &spatial.ArgumentError{Name: "input"}
	}
	var o *object
	if err := json.NewDecoder(in).Decode(&o); err != nil {
		return spatial.NewParseError(format, err, msgInvalidJSON)
	}
	g, err := o.decode()
	if err != nil {
		return err
	}
	epsg := geomconv.EPSG(g, geography)
	if o.CRS != nil {
		if epsg, err = o.CRS.epsg(); err != nil {
			return err
		}
	}
	return r.base.ReadTypeWashed(geography, true, func(p spatial.TypeWashedPipeline) error {
		return geomconv.Drive(p, g, epsg)
	})
}

// Writer is a terminal pipeline stage that writes each completed
// top-level shape to an io.Writer as a GeoJSON geometry object followed
// by a newline.
type Writer struct {
	w    io.Writer
	sink *geomconv.Sink
}

// NewWriter returns a writer writing to w.
func NewWriter(w io.Writer) *Writer {
	wr := &Writer{w: w}
	wr.sink = geomconv.NewSink(wr.emit, geomconv.WithMemberLayouts())
	return wr
}

// GeographyPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeographyPipeline() spatial.GeographyPipeline { return w.sink.GeographyPipeline() }

// GeometryPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeometryPipeline() spatial.GeometryPipeline { return w.sink.GeometryPipeline() }

func (w *Writer) emit(g geom.T, cs spatial.CoordinateSystem) error {
	if g == nil {
		return fmt.Errorf("geojson: a full globe cannot be represented")
	}
	o, err := encode(g)
	if err != nil {
		return err
	}
	o.CRS = newCRS(cs.EPSG)
	b, err := json.Marshal(o)
	if err != nil {
		return errors.Wrap(err, "geojson: encoding geometry")
	}
	_, err = w.w.Write(append(b, '\n'))
	return errors.Wrap(err, "geojson: writing geometry")
}

// MarshalGeography returns the GeoJSON encoding of g.
func MarshalGeography(g *spatial.Geography) ([]byte, error) {
	var b bytes.Buffer
	if err := g.SendTo(NewWriter(&b).GeographyPipeline()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}

// MarshalGeometry returns the GeoJSON encoding of g.
func MarshalGeometry(g *spatial.Geometry) ([]byte, error) {
	var b bytes.Buffer
	if err := g.SendTo(NewWriter(&b).GeometryPipeline()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(b.Bytes(), []byte("\n")), nil
}

// UnmarshalGeography validates data and builds a geography shape from it
// using impl.
func UnmarshalGeography(data []byte, impl *spatial.Implementation) (*spatial.Geography, error) {
	head, b := impl.NewValidatingBuilder()
	r, err := NewReader(head)
	if err != nil {
		return nil, err
	}
	if err := r.ReadGeography(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return b.ConstructedGeography()
}

// UnmarshalGeometry validates data and builds a geometry shape from it
// using impl.
func UnmarshalGeometry(data []byte, impl *spatial.Implementation) (*spatial.Geometry, error) {
	head, b := impl.NewValidatingBuilder()
	r, err := NewReader(head)
	if err != nil {
		return nil, err
	}
	if err := r.ReadGeometry(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return b.ConstructedGeometry()
}
