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

// Topology specifies whether a coordinate system is defined on the
// ellipsoid or in the plane.
type Topology int

const (
	// GeographyTopology is ellipsoidal latitude/longitude topology.
	GeographyTopology Topology = iota + 1
	// GeometryTopology is planar x/y topology.
	GeometryTopology
)

func (t Topology) String() string {
	switch t {
	case GeographyTopology:
		return "geography"
	case GeometryTopology:
		return "geometry"
	default:
		return fmt.Sprintf("Topology(%d)", int(t))
	}
}

// CoordinateSystem identifies the reference system of the positions on a
// pipeline rail. An EPSG code of 0 means the system is unset.
type CoordinateSystem struct {
	EPSG     int
	Topology Topology
}

var (
	// DefaultGeography is WGS 84 latitude/longitude.
	DefaultGeography = CoordinateSystem{EPSG: 4326, Topology: GeographyTopology}

	// DefaultGeometry is a planar system with no SRID.
	DefaultGeometry = CoordinateSystem{EPSG: 0, Topology: GeometryTopology}
)

// NewGeographyCoordinateSystem returns the geography coordinate system
// with the given EPSG code.
func NewGeographyCoordinateSystem(epsg int) CoordinateSystem {
	return CoordinateSystem{EPSG: epsg, Topology: GeographyTopology}
}

// NewGeometryCoordinateSystem returns the geometry coordinate system
// with the given EPSG code.
func NewGeometryCoordinateSystem(epsg int) CoordinateSystem {
	return CoordinateSystem{EPSG: epsg, Topology: GeometryTopology}
}

// IsGeography reports whether cs has geography topology.
func (cs CoordinateSystem) IsGeography() bool { return cs.Topology == GeographyTopology }

func (cs CoordinateSystem) String() string {
	return fmt.Sprintf("EPSG:%d (%s)", cs.EPSG, cs.Topology)
}
