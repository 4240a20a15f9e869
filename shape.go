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

import "fmt"

// Geography is an immutable shape on the geography rail, as produced by a
// Builder.
type Geography struct {
	typ     SpatialType
	cs      CoordinateSystem
	figures [][]GeographyPosition
	members []*Geography
	ops     SpatialOperations
}

// Type returns the spatial type of g.
func (g *Geography) Type() SpatialType { return g.typ }

// CoordinateSystem returns the coordinate system of g.
func (g *Geography) CoordinateSystem() CoordinateSystem { return g.cs }

// IsEmpty reports whether g has no positions and no members. A full globe
// is never empty.
func (g *Geography) IsEmpty() bool {
	if g.typ == FullGlobe {
		return false
	}
	return len(g.figures) == 0 && len(g.members) == 0
}

// Position returns the position of a non-empty point.
func (g *Geography) Position() (GeographyPosition, bool) {
	if g.typ != Point || len(g.figures) == 0 {
		return GeographyPosition{}, false
	}
	return g.figures[0][0], true
}

// Points returns the positions of a line string.
func (g *Geography) Points() []GeographyPosition {
	if g.typ != LineString || len(g.figures) == 0 {
		return nil
	}
	return append([]GeographyPosition(nil), g.figures[0]...)
}

// Rings returns the rings of a polygon, outer ring first.
func (g *Geography) Rings() [][]GeographyPosition {
	if g.typ != Polygon {
		return nil
	}
	rings := make([][]GeographyPosition, len(g.figures))
	for i, f := range g.figures {
		rings[i] = append([]GeographyPosition(nil), f...)
	}
	return rings
}

// Members returns the members of a multi-shape or collection.
func (g *Geography) Members() []*Geography {
	return append([]*Geography(nil), g.members...)
}

// Equal reports whether g and g2 have the same type, coordinate system,
// positions and members.
func (g *Geography) Equal(g2 *Geography) bool {
	if g == nil || g2 == nil {
		return g == g2
	}
	if g.typ != g2.typ || g.cs != g2.cs || len(g.figures) != len(g2.figures) || len(g.members) != len(g2.members) {
		return false
	}
	for i, f := range g.figures {
		if len(f) != len(g2.figures[i]) {
			return false
		}
		for j, p := range f {
			if !p.Equal(g2.figures[i][j]) {
				return false
			}
		}
	}
	for i, m := range g.members {
		if !m.Equal(g2.members[i]) {
			return false
		}
	}
	return true
}

// SendTo replays g into p as a complete call sequence.
func (g *Geography) SendTo(p GeographyPipeline) error {
	if p == nil {
		return &ArgumentError{Name: "pipeline"}
	}
	if err := p.SetCoordinateSystem(g.cs); err != nil {
		return err
	}
	return g.send(p)
}

func (g *Geography) send(p GeographyPipeline) error {
	if err := p.BeginGeography(g.typ); err != nil {
		return err
	}
	for _, f := range g.figures {
		if err := p.BeginFigure(f[0]); err != nil {
			return err
		}
		for _, pos := range f[1:] {
			if err := p.LineTo(pos); err != nil {
				return err
			}
		}
		if err := p.EndFigure(); err != nil {
			return err
		}
	}
	for _, m := range g.members {
		if err := m.send(p); err != nil {
			return err
		}
	}
	return p.EndGeography()
}

// Distance returns the distance between g and g2 as computed by the
// operations g was built with.
func (g *Geography) Distance(g2 *Geography) (float64, error) {
	if g.ops == nil {
		return 0, ErrNoOperations
	}
	return g.ops.GeographyDistance(g, g2)
}

// Length returns the length of g.
func (g *Geography) Length() (float64, error) {
	if g.ops == nil {
		return 0, ErrNoOperations
	}
	return g.ops.GeographyLength(g)
}

// Area returns the area of g.
func (g *Geography) Area() (float64, error) {
	if g.ops == nil {
		return 0, ErrNoOperations
	}
	return g.ops.GeographyArea(g)
}

func (g *Geography) String() string {
	return fmt.Sprintf("%s[%s]", g.typ, g.cs)
}

// Geometry is an immutable shape on the geometry rail, as produced by a
// Builder.
type Geometry struct {
	typ     SpatialType
	cs      CoordinateSystem
	figures [][]GeometryPosition
	members []*Geometry
	ops     SpatialOperations
}

// Type returns the spatial type of g.
func (g *Geometry) Type() SpatialType { return g.typ }

// CoordinateSystem returns the coordinate system of g.
func (g *Geometry) CoordinateSystem() CoordinateSystem { return g.cs }

// IsEmpty reports whether g has no positions and no members.
func (g *Geometry) IsEmpty() bool {
	return len(g.figures) == 0 && len(g.members) == 0
}

// Position returns the position of a non-empty point.
func (g *Geometry) Position() (GeometryPosition, bool) {
	if g.typ != Point || len(g.figures) == 0 {
		return GeometryPosition{}, false
	}
	return g.figures[0][0], true
}

// Points returns the positions of a line string.
func (g *Geometry) Points() []GeometryPosition {
	if g.typ != LineString || len(g.figures) == 0 {
		return nil
	}
	return append([]GeometryPosition(nil), g.figures[0]...)
}

// Rings returns the rings of a polygon, outer ring first.
func (g *Geometry) Rings() [][]GeometryPosition {
	if g.typ != Polygon {
		return nil
	}
	rings := make([][]GeometryPosition, len(g.figures))
	for i, f := range g.figures {
		rings[i] = append([]GeometryPosition(nil), f...)
	}
	return rings
}

// Members returns the members of a multi-shape or collection.
func (g *Geometry) Members() []*Geometry {
	return append([]*Geometry(nil), g.members...)
}

// Equal reports whether g and g2 have the same type, coordinate system,
// positions and members.
func (g *Geometry) Equal(g2 *Geometry) bool {
	if g == nil || g2 == nil {
		return g == g2
	}
	if g.typ != g2.typ || g.cs != g2.cs || len(g.figures) != len(g2.figures) || len(g.members) != len(g2.members) {
		return false
	}
	for i, f := range g.figures {
		if len(f) != len(g2.figures[i]) {
			return false
		}
		for j, p := range f {
			if !p.Equal(g2.figures[i][j]) {
				return false
			}
		}
	}
	for i, m := range g.members {
		if !m.Equal(g2.members[i]) {
			return false
		}
	}
	return true
}

// SendTo replays g into p as a complete call sequence.
func (g *Geometry) SendTo(p GeometryPipeline) error {
	if p == nil {
		return &ArgumentError{Name: "pipeline"}
	}
	if err := p.SetCoordinateSystem(g.cs); err != nil {
		return err
	}
	return g.send(p)
}

func (g *Geometry) send(p GeometryPipeline) error {
	if err := p.BeginGeometry(g.typ); err != nil {
		return err
	}
	for _, f := range g.figures {
		if err := p.BeginFigure(f[0]); err != nil {
			return err
		}
		for _, pos := range f[1:] {
			if err := p.LineTo(pos); err != nil {
				return err
			}
		}
		if err := p.EndFigure(); err != nil {
			return err
		}
	}
	for _, m := range g.members {
		if err := m.send(p); err != nil {
			return err
		}
	}
	return p.EndGeometry()
}

// Distance returns the distance between g and g2 as computed by the
// operations g was built with.
func (g *Geometry) Distance(g2 *Geometry) (float64, error) {
	if g.ops == nil {
		return 0, ErrNoOperations
	}
	return g.ops.GeometryDistance(g, g2)
}

// Length returns the length of g.
func (g *Geometry) Length() (float64, error) {
	if g.ops == nil {
		return 0, ErrNoOperations
	}
	return g.ops.GeometryLength(g)
}

// Area returns the area of g.
func (g *Geometry) Area() (float64, error) {
	if g.ops == nil {
		return 0, ErrNoOperations
	}
	return g.ops.GeometryArea(g)
}

func (g *Geometry) String() string {
	return fmt.Sprintf("%s[%s]", g.typ, g.cs)
}
