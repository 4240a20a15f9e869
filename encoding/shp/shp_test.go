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

package shp

import (
	"errors"
	"path/filepath"
	"testing"

	goshp "github.com/jonas-p/go-shp"
	"github.com/kr/pretty"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/internal/shapetest"
)

func TestRoundTrip(t *testing.T) {
	impl := spatial.NewImplementation(nil)
	dir := t.TempDir()
	for _, c := range shapetest.Cases() {
		if c.Dim != 2 || c.Type == spatial.Collection {
			continue
		}
		t.Run(c.Name, func(t *testing.T) {
			g, err := shapetest.BuildGeometry(impl, c)
			if err != nil {
				t.Fatal(err)
			}
			filename := filepath.Join(dir, c.Type.String()+".shp")
			w, err := NewWriter(filename, c.Type)
			if err != nil {
				t.Fatal(err)
			}
			if err := g.SendTo(w.GeometryPipeline()); err != nil {
				t.Fatal(err)
			}
			w.Close()

			head, b := impl.NewValidatingBuilder()
			r, err := NewReader(head)
			if err != nil {
				t.Fatal(err)
			}
			n, err := r.ReadFile(filename, c.EPSG)
			if err != nil {
				t.Fatal(err)
			}
			if n != 1 {
				t.Errorf("read %d shapes, want 1", n)
			}
			g2, err := b.ConstructedGeometry()
			if err != nil {
				t.Fatal(err)
			}
			if !g.Equal(g2) {
				t.Errorf("%v", pretty.Diff(g, g2))
			}
		})
	}
}

func sendRing(p spatial.TypeWashedPipeline, coords ...[2]float64) {
	for i, c := range coords {
		if i == 0 {
			p.BeginFigure(c[0], c[1], spatial.Ordinate{}, spatial.Ordinate{})
		} else {
			p.LineTo(c[0], c[1], spatial.Ordinate{}, spatial.Ordinate{})
		}
	}
	p.EndFigure()
}

func TestRingOrientation(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "ccw.shp")
	w, err := NewWriter(filename, spatial.Polygon)
	if err != nil {
		t.Fatal(err)
	}
	p := spatial.NewTypeWashedGeometry(w.GeometryPipeline())
	p.SetCoordinateSystem(0)
	p.BeginGeo(spatial.Polygon)
	// A counterclockwise outer ring and a clockwise hole.
	sendRing(p, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{10, 10}, [2]float64{0, 10}, [2]float64{0, 0})
	sendRing(p, [2]float64{2, 2}, [2]float64{2, 4}, [2]float64{4, 4}, [2]float64{2, 2})
	if err := p.EndGeo(); err != nil {
		t.Fatal(err)
	}
	w.Close()

	head, b := spatial.DefaultImplementation().NewValidatingBuilder()
	r, err := NewReader(head)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadFile(filename, 0); err != nil {
		t.Fatal(err)
	}
	g, err := b.ConstructedGeometry()
	if err != nil {
		t.Fatal(err)
	}
	rings := g.Rings()
	if len(rings) != 2 {
		t.Fatalf("have %d rings, want 2", len(rings))
	}
	want := spatial.NewGeometryPosition(0, 10)
	if !rings[0][1].Equal(want) {
		t.Errorf("outer ring: have %v, want %v", rings[0][1], want)
	}
	want = spatial.NewGeometryPosition(4, 4)
	if !rings[1][1].Equal(want) {
		t.Errorf("hole: have %v, want %v", rings[1][1], want)
	}
}

func TestTypeAttribute(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lines.shp")
	w, err := NewWriter(filename, spatial.LineString)
	if err != nil {
		t.Fatal(err)
	}
	p := spatial.NewTypeWashedGeometry(w.GeometryPipeline())
	p.SetCoordinateSystem(0)
	p.BeginGeo(spatial.LineString)
	sendRing(p, [2]float64{0, 0}, [2]float64{1, 1})
	if err := p.EndGeo(); err != nil {
		t.Fatal(err)
	}
	p.BeginGeo(spatial.MultiLineString)
	p.BeginGeo(spatial.LineString)
	sendRing(p, [2]float64{0, 0}, [2]float64{1, 1})
	p.EndGeo()
	p.BeginGeo(spatial.LineString)
	sendRing(p, [2]float64{2, 2}, [2]float64{3, 3})
	p.EndGeo()
	if err := p.EndGeo(); err != nil {
		t.Fatal(err)
	}
	w.Close()

	f, err := goshp.Open(filename)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	fields := f.Fields()
	if len(fields) != 1 || fields[0].String() != TypeField {
		t.Fatalf("have fields %v, want [%s]", fields, TypeField)
	}
	want := []string{"LineString", "MultiLineString"}
	for i := 0; f.Next(); i++ {
		if i >= len(want) {
			t.Fatalf("too many shapes")
		}
		if have := f.ReadAttribute(i, 0); have != want[i] {
			t.Errorf("row %d: have %q, want %q", i, have, want[i])
		}
	}
}

func TestWriteErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewWriter(filepath.Join(dir, "c.shp"), spatial.Collection); err == nil {
		t.Error("collection file created")
	}

	w, err := NewWriter(filepath.Join(dir, "point.shp"), spatial.Point)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	send := func(p spatial.TypeWashedPipeline, epsg int, st spatial.SpatialType, z spatial.Ordinate) error {
		p.SetCoordinateSystem(epsg)
		p.BeginGeo(st)
		p.BeginFigure(1, 2, z, spatial.Ordinate{})
		if st == spatial.LineString {
			p.LineTo(3, 4, z, spatial.Ordinate{})
		}
		p.EndFigure()
		return p.EndGeo()
	}
	if err := send(spatial.NewTypeWashedGeography(w.GeographyPipeline(), false), 4326, spatial.Point, spatial.Ordinate{}); err == nil {
		t.Error("geography accepted")
	}
	if err := send(spatial.NewTypeWashedGeometry(w.GeometryPipeline()), 0, spatial.Point, spatial.NewOrdinate(1)); err == nil {
		t.Error("Z accepted")
	}
	if err := send(spatial.NewTypeWashedGeometry(w.GeometryPipeline()), 0, spatial.LineString, spatial.Ordinate{}); err == nil {
		t.Error("line string accepted in point file")
	}
	if err := send(spatial.NewTypeWashedGeometry(w.GeometryPipeline()), 0, spatial.Point, spatial.Ordinate{}); err != nil {
		t.Error(err)
	}
}

func TestReadMissingFile(t *testing.T) {
	r, err := NewReader(spatial.NewCallRecorder())
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.ReadFile(filepath.Join(t.TempDir(), "missing.shp"), 0)
	var perr *spatial.ParseError
	if !errors.As(err, &perr) || perr.Format != "shp" {
		t.Errorf("have %v, want a shp parse error", err)
	}
}
