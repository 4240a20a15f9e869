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

package spatial

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// fakeOperations returns fixed values and records its arguments.
type fakeOperations struct {
	geography []*Geography
	geometry  []*Geometry
}

func (f *fakeOperations) GeographyDistance(a, b *Geography) (float64, error) {
	f.geography = append(f.geography, a, b)
	return 1, nil
}
func (f *fakeOperations) GeographyLength(g *Geography) (float64, error) {
	f.geography = append(f.geography, g)
	return 2, nil
}
func (f *fakeOperations) GeographyArea(g *Geography) (float64, error) {
	f.geography = append(f.geography, g)
	return 3, nil
}
func (f *fakeOperations) GeometryDistance(a, b *Geometry) (float64, error) {
	f.geometry = append(f.geometry, a, b)
	return 4, nil
}
func (f *fakeOperations) GeometryLength(g *Geometry) (float64, error) {
	f.geometry = append(f.geometry, g)
	return 5, nil
}
func (f *fakeOperations) GeometryArea(g *Geometry) (float64, error) {
	f.geometry = append(f.geometry, g)
	return 6, nil
}

func buildGeography(t *testing.T, impl *Implementation, send func(p TypeWashedPipeline) error) *Geography {
	t.Helper()
	head, b := impl.NewValidatingBuilder()
	require.NoError(t, send(NewTypeWashedGeography(head.GeographyPipeline(), false)))
	g, err := b.ConstructedGeography()
	require.NoError(t, err)
	return g
}

func buildGeometry(t *testing.T, impl *Implementation, send func(p TypeWashedPipeline) error) *Geometry {
	t.Helper()
	head, b := impl.NewValidatingBuilder()
	require.NoError(t, send(NewTypeWashedGeometry(head.GeometryPipeline())))
	g, err := b.ConstructedGeometry()
	require.NoError(t, err)
	return g
}

func TestShapeSendTo(t *testing.T) {
	impl := NewImplementation(nil)
	orig := buildGeometry(t, impl, sendSquare)

	direct := NewCallRecorder()
	require.NoError(t, sendSquare(NewTypeWashedGeometry(direct.GeometryPipeline())))
	replayed := NewCallRecorder()
	require.NoError(t, orig.SendTo(replayed.GeometryPipeline()))
	if diff := cmp.Diff(direct.Calls(), replayed.Calls()); diff != "" {
		t.Errorf("replayed trace differs:\n%s", diff)
	}

	head, b := impl.NewValidatingBuilder()
	require.NoError(t, orig.SendTo(head.GeometryPipeline()))
	copied, err := b.ConstructedGeometry()
	require.NoError(t, err)
	if !orig.Equal(copied) {
		t.Errorf("copy %v is not equal to %v", copied, orig)
	}
}

func TestShapeEqual(t *testing.T) {
	impl := NewImplementation(nil)
	point := func(lat, lon float64, z Ordinate) func(p TypeWashedPipeline) error {
		return func(p TypeWashedPipeline) error {
			p.SetCoordinateSystem(4326)
			p.BeginGeo(Point)
			p.BeginFigure(lat, lon, z, Ordinate{})
			p.EndFigure()
			return p.EndGeo()
		}
	}
	a := buildGeography(t, impl, point(1, 2, NewOrdinate(math.NaN())))
	b := buildGeography(t, impl, point(1, 2, NewOrdinate(math.NaN())))
	c := buildGeography(t, impl, point(1, 2, Ordinate{}))
	d := buildGeography(t, impl, func(p TypeWashedPipeline) error {
		p.SetCoordinateSystem(4269)
		p.BeginGeo(Point)
		p.BeginFigure(1, 2, NewOrdinate(math.NaN()), Ordinate{})
		p.EndFigure()
		return p.EndGeo()
	})
	if !a.Equal(b) {
		t.Error("NaN ordinates should be equal")
	}
	if a.Equal(c) {
		t.Error("an absent ordinate should differ from NaN")
	}
	if a.Equal(d) {
		t.Error("coordinate systems should differ")
	}
	if a.Equal(nil) {
		t.Error("a shape should differ from nil")
	}
}

func TestShapeOperations(t *testing.T) {
	ops := new(fakeOperations)
	impl := NewImplementation(ops)
	geog := buildGeography(t, impl, sendSquare)
	geom := buildGeometry(t, impl, sendSquare)

	for i, f := range []func() (float64, error){
		func() (float64, error) { return geog.Distance(geog) },
		geog.Length,
		geog.Area,
		func() (float64, error) { return geom.Distance(geom) },
		geom.Length,
		geom.Area,
	} {
		v, err := f()
		require.NoError(t, err)
		if v != float64(i+1) {
			t.Errorf("operation %d: have %g, want %d", i, v, i+1)
		}
	}
	if len(ops.geography) != 4 || ops.geography[0] != geog || len(ops.geometry) != 4 {
		t.Errorf("operations received %d geography and %d geometry shapes", len(ops.geography), len(ops.geometry))
	}

	bare := buildGeometry(t, NewImplementation(nil), sendSquare)
	if _, err := bare.Area(); !errors.Is(err, ErrNoOperations) {
		t.Errorf("have %v, want %v", err, ErrNoOperations)
	}
}

func TestShapeAccessors(t *testing.T) {
	impl := NewImplementation(nil)
	line := buildGeometry(t, impl, func(p TypeWashedPipeline) error {
		p.SetCoordinateSystem(0)
		p.BeginGeo(LineString)
		p.BeginFigure(0, 0, Ordinate{}, Ordinate{})
		p.LineTo(3, 4, Ordinate{}, Ordinate{})
		p.EndFigure()
		return p.EndGeo()
	})
	pts := line.Points()
	if len(pts) != 2 || pts[1] != geomPos(3, 4) {
		t.Errorf("have %v", pts)
	}
	pts[0] = geomPos(100, 100)
	if line.Points()[0] != geomPos(0, 0) {
		t.Error("Points exposes internal state")
	}
	if line.Rings() != nil || line.Members() != nil {
		t.Error("a line string has no rings or members")
	}
	if _, ok := line.Position(); ok {
		t.Error("a line string has no single position")
	}

	globe := buildGeography(t, impl, func(p TypeWashedPipeline) error {
		p.SetCoordinateSystem(4326)
		p.BeginGeo(FullGlobe)
		return p.EndGeo()
	})
	if globe.IsEmpty() || globe.Type() != FullGlobe {
		t.Errorf("unexpected full globe %v", globe)
	}
}
