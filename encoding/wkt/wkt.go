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

// Package wkt reads and writes shapes as well-known text with an optional
// "SRID=n;" prefix, for example
//
//	SRID=4326;POLYGON ((20 10, 30 20, 30 10, 20 10))
//
// Geography coordinates are written in longitude latitude order. The text
// FULLGLOBE denotes a full globe.
// All positions of a written shape must have the same dimensions.
package wkt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/geomconv"
	"github.com/twpayne/go-geom"
	geomwkt "github.com/twpayne/go-geom/encoding/wkt"
)

const format = "wkt"

const fullGlobe = "FULLGLOBE"

// Parse error messages.
const (
	msgEmptyInput  = "empty input"
	msgInvalidSRID = "invalid SRID %q"
	msgInvalidText = "invalid well-known text %q"
)

// Reader reads well-known text into a destination pipeline.
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
	b, err := io.ReadAll(in)
	if err != nil {
		return errors.Wrap(err, "wkt: reading input")
	}
	epsg, body, err := splitSRID(strings.TrimSpace(string(b)), geography)
	if err != nil {
		return err
	}
	if strings.EqualFold(body, fullGlobe) {
		return r.base.ReadTypeWashed(geography, true, func(p spatial.TypeWashedPipeline) error {
			return geomconv.DriveFullGlobe(p, epsg)
		})
	}
	g, err := geomwkt.Unmarshal(body)
	if err != nil {
		return spatial.NewParseError(format, err, msgInvalidText, abbreviate(body))
	}
	return r.base.ReadTypeWashed(geography, true, func(p spatial.TypeWashedPipeline) error {
		return geomconv.Drive(p, g, epsg)
	})
}

// splitSRID separates an optional "SRID=n;" prefix from the text. If
// there is no prefix the default code of the rail is returned.
func splitSRID(text string, geography bool) (int, string, error) {
	if text == "" {
		return 0, "", spatial.NewParseError(format, nil, msgEmptyInput)
	}
	epsg := spatial.DefaultGeometry.EPSG
	if geography {
		epsg = spatial.DefaultGeography.EPSG
	}
	if len(text) < 5 || !strings.EqualFold(text[:5], "SRID=") {
		return epsg, text, nil
	}
	i := strings.IndexByte(text, ';')
	if i < 0 {
		return 0, "", spatial.NewParseError(format, nil, msgInvalidSRID, abbreviate(text))
	}
	epsg, err := strconv.Atoi(strings.TrimSpace(text[5:i]))
	if err != nil {
		return 0, "", spatial.NewParseError(format, err, msgInvalidSRID, text[5:i])
	}
	return epsg, strings.TrimSpace(text[i+1:]), nil
}

func abbreviate(s string) string {
	const max = 40
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// Writer is a terminal pipeline stage that writes each completed
// top-level shape to an io.Writer as one line of well-known text.
type Writer struct {
	w    io.Writer
	sink *geomconv.Sink
}

// NewWriter returns a writer writing to w.
func NewWriter(w io.Writer) *Writer {
	wr := &Writer{w: w}
	wr.sink = geomconv.NewSink(wr.emit, geomconv.WithUniformLayout())
	return wr
}

// GeographyPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeographyPipeline() spatial.GeographyPipeline { return w.sink.GeographyPipeline() }

// GeometryPipeline implements spatial.SpatialPipeline.
func (w *Writer) GeometryPipeline() spatial.GeometryPipeline { return w.sink.GeometryPipeline() }

func (w *Writer) emit(g geom.T, cs spatial.CoordinateSystem) error {
	text, err := marshal(g, cs)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w.w, text+"\n")
	return errors.Wrap(err, "wkt: writing shape")
}

func marshal(g geom.T, cs spatial.CoordinateSystem) (string, error) {
	body := fullGlobe
	if g != nil {
		var err error
		if body, err = geomwkt.Marshal(g); err != nil {
			return "", errors.Wrap(err, "wkt: encoding shape")
		}
	}
	return fmt.Sprintf("SRID=%d;%s", cs.EPSG, body), nil
}

// MarshalGeography returns the well-known text of g.
func MarshalGeography(g *spatial.Geography) (string, error) {
	var b strings.Builder
	if err := g.SendTo(NewWriter(&b).GeographyPipeline()); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

// MarshalGeometry returns the well-known text of g.
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
