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
	"fmt"
	"math"
	"strconv"
)

// Ordinate is an optional coordinate value, used for the Z and M
// dimensions. An absent ordinate is distinct from one holding NaN.
type Ordinate struct {
	Value float64
	Valid bool
}

// NewOrdinate returns a present ordinate holding v.
func NewOrdinate(v float64) Ordinate {
	return Ordinate{Value: v, Valid: true}
}

// Equal reports whether o and o2 are both absent or both present with the
// same value. NaN values are equal to each other.
func (o Ordinate) Equal(o2 Ordinate) bool {
	if o.Valid != o2.Valid {
		return false
	}
	if !o.Valid {
		return true
	}
	return sameFloat(o.Value, o2.Value)
}

func (o Ordinate) String() string {
	if !o.Valid {
		return "null"
	}
	return strconv.FormatFloat(o.Value, 'g', -1, 64)
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

// GeographyPosition is a position on the geography rail.
type GeographyPosition struct {
	Latitude, Longitude float64
	Z, M                Ordinate
}

// NewGeographyPosition returns a two-dimensional geography position.
func NewGeographyPosition(latitude, longitude float64) GeographyPosition {
	return GeographyPosition{Latitude: latitude, Longitude: longitude}
}

// Equal reports whether p and p2 hold the same values in every dimension.
func (p GeographyPosition) Equal(p2 GeographyPosition) bool {
	return sameFloat(p.Latitude, p2.Latitude) && sameFloat(p.Longitude, p2.Longitude) &&
		p.Z.Equal(p2.Z) && p.M.Equal(p2.M)
}

func (p GeographyPosition) String() string {
	return formatPosition(p.Latitude, p.Longitude, p.Z, p.M)
}

// GeometryPosition is a position on the geometry rail.
type GeometryPosition struct {
	X, Y float64
	Z, M Ordinate
}

// NewGeometryPosition returns a two-dimensional geometry position.
func NewGeometryPosition(x, y float64) GeometryPosition {
	return GeometryPosition{X: x, Y: y}
}

// Equal reports whether p and p2 hold the same values in every dimension.
func (p GeometryPosition) Equal(p2 GeometryPosition) bool {
	return sameFloat(p.X, p2.X) && sameFloat(p.Y, p2.Y) &&
		p.Z.Equal(p2.Z) && p.M.Equal(p2.M)
}

func (p GeometryPosition) String() string {
	return formatPosition(p.X, p.Y, p.Z, p.M)
}

func formatPosition(c1, c2 float64, z, m Ordinate) string {
	switch {
	case m.Valid:
		return fmt.Sprintf("(%g %g %v %v)", c1, c2, z, m)
	case z.Valid:
		return fmt.Sprintf("(%g %g %v)", c1, c2, z)
	default:
		return fmt.Sprintf("(%g %g)", c1, c2)
	}
}
