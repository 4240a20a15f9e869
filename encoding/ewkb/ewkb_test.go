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

package ewkb

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/kr/pretty"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/shapetest"
)

func TestRoundTrip(t *testing.T) {
	impl := spatial.NewImplementation(nil)
	for _, c := range shapetest.Cases() {
		t.Run(c.Name, func(t *testing.T) {
			geog, err := shapetest.BuildGeography(impl, c)
			if err != nil {
				t.Fatal(err)
			}
			b, err := MarshalGeography(geog)
			if err != nil {
				t.Fatal(err)
			}
			geog2, err := UnmarshalGeography(b, impl)
			if err != nil {
				t.Fatal(err)
			}
			if !geog.Equal(geog2) {
				t.Errorf("geography: %v", pretty.Diff(geog, geog2))
			}

			geom, err := shapetest.BuildGeometry(impl, c)
			if err != nil {
				t.Fatal(err)
			}
			b, err = MarshalGeometry(geom)
			if err != nil {
				t.Fatal(err)
			}
			geom2, err := UnmarshalGeometry(b, impl)
			if err != nil {
				t.Fatal(err)
			}
			if !geom.Equal(geom2) {
				t.Errorf("geometry: %v", pretty.Diff(geom, geom2))
			}
		})
	}
}

func TestWritePoint(t *testing.T) {
	var b bytes.Buffer
	w := NewWriterByteOrder(&b, binary.BigEndian)
	p := spatial.NewTypeWashedGeography(w.GeographyPipeline(), false)
	p.SetCoordinateSystem(4326)
	p.BeginGeo(spatial.Point)
	p.BeginFigure(10, 20, spatial.Ordinate{}, spatial.Ordinate{})
	p.EndFigure()
	if err := p.EndGeo(); err != nil {
		t.Fatal(err)
	}
	want := []byte{
		0x00,                   // big endian
		0x20, 0x00, 0x00, 0x01, // point with SRID
		0x00, 0x00, 0x10, 0xe6, // 4326
		0x40, 0x34, 0, 0, 0, 0, 0, 0, // 20
		0x40, 0x24, 0, 0, 0, 0, 0, 0, // 10
	}
	if !bytes.Equal(b.Bytes(), want) {
		t.Errorf("have % x, want % x", b.Bytes(), want)
	}
}

func TestReadErrors(t *testing.T) {
	impl := spatial.NewImplementation(nil)
	for _, data := range [][]byte{nil, {0x07}, {0x01, 0x01}, {0x01, 0xff, 0xff, 0xff, 0xff}} {
		_, err := UnmarshalGeometry(data, impl)
		var perr *spatial.ParseError
		if !errors.As(err, &perr) || perr.Format != "ewkb" {
			t.Errorf("% x: have %v, want an ewkb parse error", data, err)
		}
	}
}
