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

package wkt

import (
	"errors"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/geomconv"
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
			text, err := MarshalGeography(geog)
			if err != nil {
				t.Fatal(err)
			}
			geog2, err := UnmarshalGeography(text, impl)
			if err != nil {
				t.Fatalf("%s: %v", text, err)
			}
			if !geog.Equal(geog2) {
				t.Errorf("geography %s: %v", text, pretty.Diff(geog, geog2))
			}

			geom, err := shapetest.BuildGeometry(impl, c)
			if err != nil {
				t.Fatal(err)
			}
			text, err = MarshalGeometry(geom)
			if err != nil {
				t.Fatal(err)
			}
			geom2, err := UnmarshalGeometry(text, impl)
			if err != nil {
				t.Fatalf("%s: %v", text, err)
			}
			if !geom.Equal(geom2) {
				t.Errorf("geometry %s: %v", text, pretty.Diff(geom, geom2))
			}
		})
	}
}

func TestWriteGeographyOrder(t *testing.T) {
	var b strings.Builder
	w := NewWriter(&b)
	p := spatial.NewTypeWashedGeography(w.GeographyPipeline(), false)
	p.SetCoordinateSystem(4326)
	p.BeginGeo(spatial.Point)
	p.BeginFigure(10, 20, spatial.Ordinate{}, spatial.Ordinate{})
	p.EndFigure()
	if err := p.EndGeo(); err != nil {
		t.Fatal(err)
	}
	want := "SRID=4326;POINT (20 10)\n"
	if b.String() != want {
		t.Errorf("have %q, want %q", b.String(), want)
	}
}

func TestReadSRID(t *testing.T) {
	impl := spatial.NewImplementation(nil)
	tests := []struct {
		text string
		geog bool
		epsg int
	}{
		{text: "POINT (1 2)", geog: true, epsg: 4326},
		{text: "POINT (1 2)", epsg: 0},
		{text: "SRID=4269;POINT (1 2)", geog: true, epsg: 4269},
		{text: "srid=32615; POINT (1 2)", epsg: 32615},
	}
	for _, test := range tests {
		var cs spatial.CoordinateSystem
		if test.geog {
			g, err := UnmarshalGeography(test.text, impl)
			if err != nil {
				t.Fatal(err)
			}
			cs = g.CoordinateSystem()
			if p, _ := g.Position(); p.Latitude != 2 || p.Longitude != 1 {
				t.Errorf("%s: have %v", test.text, p)
			}
		} else {
			g, err := UnmarshalGeometry(test.text, impl)
			if err != nil {
				t.Fatal(err)
			}
			cs = g.CoordinateSystem()
		}
		if cs.EPSG != test.epsg || cs.IsGeography() != test.geog {
			t.Errorf("%s: have %v", test.text, cs)
		}
	}
}

func TestFullGlobe(t *testing.T) {
	impl := spatial.NewImplementation(nil)
	g, err := UnmarshalGeography("FULLGLOBE", impl)
	if err != nil {
		t.Fatal(err)
	}
	if g.Type() != spatial.FullGlobe {
		t.Fatalf("have %v, want FullGlobe", g.Type())
	}
	text, err := MarshalGeography(g)
	if err != nil {
		t.Fatal(err)
	}
	if text != "SRID=4326;FULLGLOBE" {
		t.Errorf("have %q", text)
	}
	if _, err := UnmarshalGeometry("FULLGLOBE", impl); !errors.Is(err, &spatial.ValidationError{Kind: spatial.InvalidType}) {
		t.Errorf("have %v, want invalid type", err)
	}
}

func TestReadErrors(t *testing.T) {
	impl := spatial.NewImplementation(nil)
	for _, text := range []string{"", "  ", "SRID=abc;POINT (1 2)", "SRID=4326 POINT (1 2)", "POINT (1", "CIRCLE (1 2)"} {
		_, err := UnmarshalGeometry(text, impl)
		var perr *spatial.ParseError
		if !errors.As(err, &perr) || perr.Format != "wkt" {
			t.Errorf("%q: have %v, want a wkt parse error", text, err)
		}
	}
	// Validation failures are not parse errors.
	_, err := UnmarshalGeography("SRID=4326;POINT (0 100)", impl)
	var verr *spatial.ValidationError
	if !errors.As(err, &verr) || verr.Kind != spatial.InvalidLatitude {
		t.Errorf("have %v, want invalid latitude", err)
	}
	r, err := NewReader(spatial.NewCallRecorder())
	if err != nil {
		t.Fatal(err)
	}
	var argErr *spatial.ArgumentError
	if err := r.ReadGeometry(nil); !errors.As(err, &argErr) {
		t.Errorf("have %v, want argument error", err)
	}
	if _, err := NewReader(nil); !errors.As(err, &argErr) {
		t.Errorf("have %v, want argument error", err)
	}
}

func TestReaderResetsOnFailure(t *testing.T) {
	rec := spatial.NewCallRecorder()
	head, err := spatial.Chain(spatial.NewValidator(), rec)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewReader(head)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.ReadGeography(strings.NewReader("LINESTRING (0 100, 1 1)")); err == nil {
		t.Fatal("invalid latitude accepted")
	}
	if n := rec.Count("Reset"); n != 1 {
		t.Errorf("destination received %d resets, want 1", n)
	}
	rec.Clear()
	if err := r.ReadGeography(strings.NewReader("LINESTRING (0 10, 1 1)")); err != nil {
		t.Fatal(err)
	}
	if rec.Count("Reset") != 0 || rec.Count("LineTo") != 1 {
		t.Errorf("unexpected trace %v", rec.Calls())
	}
}

func TestWriteMixedDimensions(t *testing.T) {
	for _, typ := range []spatial.SpatialType{spatial.Collection, spatial.MultiPoint} {
		var b strings.Builder
		p := spatial.NewTypeWashedGeometry(NewWriter(&b).GeometryPipeline())
		p.SetCoordinateSystem(0)
		p.BeginGeo(typ)
		p.BeginGeo(spatial.Point)
		p.BeginFigure(1, 2, spatial.Ordinate{}, spatial.Ordinate{})
		p.EndFigure()
		p.EndGeo()
		p.BeginGeo(spatial.Point)
		p.BeginFigure(3, 4, spatial.NewOrdinate(5), spatial.Ordinate{})
		p.EndFigure()
		p.EndGeo()
		if err := p.EndGeo(); !errors.Is(err, geomconv.ErrMixedDimensions) {
			t.Errorf("%v: have %v, want %v", typ, err, geomconv.ErrMixedDimensions)
		}
		if b.Len() != 0 {
			t.Errorf("%v: wrote %q", typ, b.String())
		}
	}
}
