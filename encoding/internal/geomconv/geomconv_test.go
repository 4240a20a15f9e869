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
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/spatialmodel/spatial"
	"github.com/twpayne/go-geom"
)

func TestDriveSinkRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		g    geom.T
	}{
		{name: "point", g: geom.NewPoint(geom.XY).MustSetCoords(geom.Coord{1, 2})},
		{name: "empty point", g: geom.NewPointEmpty(geom.XY)},
		{name: "line string XYZ", g: geom.NewLineString(geom.XYZ).MustSetCoords([]geom.Coord{{1, 2, 3}, {4, 5, 6}})},
		{name: "polygon XYM", g: geom.NewPolygon(geom.XYM).MustSetCoords([][]geom.Coord{
			{{0, 0, 1}, {4, 0, 2}, {4, 4, 3}, {0, 0, 4}},
			{{1, 1, 1}, {2, 1, 2}, {2, 2, 3}, {1, 1, 4}},
		})},
		{name: "multipoint XYZM", g: geom.NewMultiPoint(geom.XYZM).MustSetCoords([]geom.Coord{{1, 2, 3, 4}, {5, 6, 7, 8}})},
		{name: "multilinestring", g: geom.NewMultiLineString(geom.XY).MustSetCoords([][]geom.Coord{
			{{1, 2}, {3, 4}}, {{5, 6}, {7, 8}, {9, 10}},
		})},
		{name: "multipolygon", g: geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
			{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
			{{{5, 5}, {6, 5}, {6, 6}, {5, 5}}},
		})},
	}
	for _, test := range tests {
		for _, geography := range []bool{false, true} {
			var have geom.T
			var haveCS spatial.CoordinateSystem
			sink := NewSink(func(g geom.T, cs spatial.CoordinateSystem) error {
				have, haveCS = g, cs
				return nil
			})
			var p spatial.TypeWashedPipeline
			if geography {
				p = spatial.NewTypeWashedGeography(sink.GeographyPipeline(), true)
			} else {
				p = spatial.NewTypeWashedGeometry(sink.GeometryPipeline())
			}
			epsg := EPSG(test.g, geography)
			if err := Drive(p, test.g, epsg); err != nil {
				t.Fatalf("%s: %v", test.name, err)
			}
			if haveCS.EPSG != epsg || haveCS.IsGeography() != geography {
				t.Errorf("%s: have coordinate system %v", test.name, haveCS)
			}
			if have.SRID() != epsg {
				t.Errorf("%s: have SRID %d, want %d", test.name, have.SRID(), epsg)
			}
			if have.Layout() != test.g.Layout() {
				t.Errorf("%s: have layout %v, want %v", test.name, have.Layout(), test.g.Layout())
			}
			if !reflect.DeepEqual(have.FlatCoords(), test.g.FlatCoords()) {
				t.Errorf("%s: have %v, want %v", test.name, have.FlatCoords(), test.g.FlatCoords())
			}
			if reflect.TypeOf(have) != reflect.TypeOf(test.g) {
				t.Errorf("%s: have %T, want %T", test.name, have, test.g)
			}
		}
	}
}

func TestSinkGeographyOrder(t *testing.T) {
	var have geom.T
	sink := NewSink(func(g geom.T, cs spatial.CoordinateSystem) error {
		have = g
		return nil
	})
	p := sink.GeographyPipeline()
	p.BeginGeography(spatial.Point)
	p.BeginFigure(spatial.NewGeographyPosition(10, 20))
	p.EndFigure()
	if err := p.EndGeography(); err != nil {
		t.Fatal(err)
	}
	want := []float64{20, 10}
	if !reflect.DeepEqual(have.FlatCoords(), want) {
		t.Errorf("have %v, want %v", have.FlatCoords(), want)
	}
	if have.SRID() != 4326 {
		t.Errorf("have SRID %d, want the geography default", have.SRID())
	}
}

func TestSinkMixedDimensions(t *testing.T) {
	var have geom.T
	sink := NewSink(func(g geom.T, cs spatial.CoordinateSystem) error {
		have = g
		return nil
	})
	p := sink.GeometryPipeline()
	p.SetCoordinateSystem(spatial.DefaultGeometry)
	p.BeginGeometry(spatial.Collection)
	p.BeginGeometry(spatial.Point)
	p.BeginFigure(spatial.GeometryPosition{X: 1, Y: 2, Z: spatial.NewOrdinate(3)})
	p.EndFigure()
	p.EndGeometry()
	p.BeginGeometry(spatial.Point)
	p.BeginFigure(spatial.GeometryPosition{X: 4, Y: 5, M: spatial.NewOrdinate(6)})
	p.EndFigure()
	p.EndGeometry()
	if err := p.EndGeometry(); err != nil {
		t.Fatal(err)
	}
	c := have.(*geom.GeometryCollection)
	if c.Layout() != geom.XYZM {
		t.Fatalf("have layout %v, want XYZM", c.Layout())
	}
	second := c.Geom(1).FlatCoords()
	if second[0] != 4 || !math.IsNaN(second[2]) || second[3] != 6 {
		t.Errorf("have %v, want [4 5 NaN 6]", second)
	}

	// Driving the result back treats the padding as absent.
	r := spatial.NewCallRecorder()
	if err := Drive(spatial.NewTypeWashedGeometry(r.GeometryPipeline()), have, 0); err != nil {
		t.Fatal(err)
	}
	var positions []spatial.GeometryPosition
	for _, call := range r.Calls() {
		if call.Method == "BeginFigure" {
			positions = append(positions, call.Args[0].(spatial.GeometryPosition))
		}
	}
	want := []spatial.GeometryPosition{
		{X: 1, Y: 2, Z: spatial.NewOrdinate(3)},
		{X: 4, Y: 5, M: spatial.NewOrdinate(6)},
	}
	if !reflect.DeepEqual(positions, want) {
		t.Errorf("have %v, want %v", positions, want)
	}
}

func TestSinkLayoutOptions(t *testing.T) {
	// sendPoints sends a t of a 2D and a 3D point.
	sendPoints := func(p spatial.GeometryPipeline, t spatial.SpatialType) error {
		p.SetCoordinateSystem(spatial.DefaultGeometry)
		p.BeginGeometry(t)
		p.BeginGeometry(spatial.Point)
		p.BeginFigure(spatial.NewGeometryPosition(1, 2))
		p.EndFigure()
		p.EndGeometry()
		p.BeginGeometry(spatial.Point)
		p.BeginFigure(spatial.GeometryPosition{X: 3, Y: 4, Z: spatial.NewOrdinate(5)})
		p.EndFigure()
		p.EndGeometry()
		return p.EndGeometry()
	}
	var have geom.T
	emit := func(g geom.T, cs spatial.CoordinateSystem) error {
		have = g
		return nil
	}

	if err := sendPoints(NewSink(emit, WithMemberLayouts()).GeometryPipeline(), spatial.Collection); err != nil {
		t.Fatal(err)
	}
	c := have.(*geom.GeometryCollection)
	if l0, l1 := c.Geom(0).Layout(), c.Geom(1).Layout(); l0 != geom.XY || l1 != geom.XYZ {
		t.Errorf("have member layouts %v and %v, want XY and XYZ", l0, l1)
	}

	tests := []struct {
		opt SinkOption
		typ spatial.SpatialType
	}{
		{opt: WithMemberLayouts(), typ: spatial.MultiPoint},
		{opt: WithUniformLayout(), typ: spatial.MultiPoint},
		{opt: WithUniformLayout(), typ: spatial.Collection},
	}
	for i, test := range tests {
		have = nil
		err := sendPoints(NewSink(emit, test.opt).GeometryPipeline(), test.typ)
		if !errors.Is(err, ErrMixedDimensions) {
			t.Errorf("%d: have %v, want %v", i, err, ErrMixedDimensions)
		}
		if have != nil {
			t.Errorf("%d: %v emitted", i, have)
		}
	}
}

func TestSinkFullGlobe(t *testing.T) {
	called := false
	sink := NewSink(func(g geom.T, cs spatial.CoordinateSystem) error {
		called = true
		if g != nil {
			t.Errorf("have %v, want nil for a full globe", g)
		}
		return nil
	})
	p := spatial.NewTypeWashedGeography(sink.GeographyPipeline(), true)
	if err := DriveFullGlobe(p, 4326); err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Error("full globe was not emitted")
	}
}

func TestSinkReset(t *testing.T) {
	n := 0
	sink := NewSink(func(geom.T, spatial.CoordinateSystem) error { n++; return nil })
	p := sink.GeometryPipeline()
	p.BeginGeometry(spatial.Collection)
	p.BeginGeometry(spatial.Point)
	p.Reset()
	if err := p.EndGeometry(); err == nil {
		t.Error("EndGeometry after Reset succeeded")
	}
	if n != 0 {
		t.Errorf("%d shapes emitted", n)
	}
}
