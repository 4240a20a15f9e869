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

// Package operations provides implementations of spatial.SpatialOperations.
// Geography measures are in meters and square meters on a sphere;
// geometry measures are in the units of the coordinates.
package operations

import (
	"fmt"

	"github.com/spatialmodel/spatial"
)

// UnsupportedError is returned when an implementation cannot measure the
// given shapes.
type UnsupportedError struct {
	Op  string
	Msg string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operations: %s: %s", e.Op, e.Msg)
}

// New returns the implementation with the given name: "orb", "cartesian",
// or "none", which returns nil.
func New(name string) (spatial.SpatialOperations, error) {
	switch name {
	case "orb":
		return Orb{}, nil
	case "cartesian":
		return Cartesian{}, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("operations: unknown implementation %q", name)
	}
}
