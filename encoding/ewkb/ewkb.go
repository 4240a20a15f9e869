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

// Package ewkb reads and writes shapes as PostGIS extended well-known
// binary, which embeds the SRID in the geometry header. Geography
// coordinates are stored in longitude latitude order.
package ewkb

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/geomconv"
	"github.com/twpayne/go-geom"
	geomewkb "github.com/twpayne/go-geom/encoding/ewkb"
)

const format = "ewkb"

// Parse error messages.
const (
	msgEmptyInput     = "empty input"
	msgInvalidBinary  = "invalid extended well-known binary"
	msgUnsupportedEnd = "unsupported byte order marker %#x"
)

// Reader reads extended well-known binary into a destination pipeline.
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
	data, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "ewkb: reading input")
	}
	g, err := Decode(data)
	if err != nil {
		return err
	}
	epsg := geomconv.EPSG(g, geography)
	return r.base.ReadTypeWashed(geography, true, func(p spatial.TypeWashedPipeline) error {
		return geomconv.Drive(p, g, epsg)
	})
}

// Decode parses data into a go-geom geometry.
func Decode(data []byte) (geom.T, error) {
	if len(data) == 0 {
		return nil, spatial.NewParseError(format, nil, msgEmptyInput)
	}
	if data[0] > 1 {
		return nil, spatial.NewParseError(format, nil, msgUnsupportedEnd, data[0])
	}
	g, err := geomewkb.Unmarshal(data)
	if err != nil {
		return nil, spatial.NewParseError(format, err, msgInvalidBinary)
	}
	return g, nil
}

// Writer is a terminal pipeline stage that writes each completed
// top-level shape to an io.Writer.
type Writer struct {
	w         io.Writer
	byteOrder binary.ByteOrder
	sink      *geomconv.Sink
}

// NewWriter returns a writer writing little-endian (NDR) binary to w.
func NewWriter(w io.Writer) *Writer {
	return NewWriterByteOrder(w, geomewkb.NDR)
}

// NewWriterByteOrder returns a writer writing binary with the given byte
// order to w.
func NewWriterByteOrder(w io.Writer, byteOrder binary.ByteOrder) *Writer {
	wr := &Writer{w: w, byteOrder: byteOrder}
	wr.sink = geomconv.NewSink(wr.emit)
	return wr
}

// GeographyPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeographyPipeline() spatial.GeographyPipeline { return w.sink.GeographyPipeline() }

// GeometryPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeometryPipeline() spatial.GeometryPipeline { return w.sink.GeometryPipeline() }

func (w *Writer) emit(g geom.T, cs spatial.CoordinateSystem) error {
	if g == nil {
		return errors.New("ewkb: a full globe cannot be represented")
	}
	b, err := geomewkb.Marshal(g, w.byteOrder)
	if err != nil {
		return errors.Wrap(err, "ewkb: encoding shape")
	}
	_, err = w.w.Write(b)
	return errors.Wrap(err, "ewkb: writing shape")
}

// MarshalGeography returns the extended well-known binary of g.
func MarshalGeography(g *spatial.Geography) ([]byte, error) {
	var b bytes.Buffer
	if err := g.SendTo(NewWriter(&b).GeographyPipeline()); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// MarshalGeometry returns the extended well-known binary of g.
func MarshalGeometry(g *spatial.Geometry) ([]byte, error) {
	var b bytes.Buffer
	if err := g.SendTo(NewWriter(&b).GeometryPipeline()); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
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
