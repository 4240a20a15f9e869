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
	"strings"
)

// SpatialType is the kind of a shape or sub-shape.
type SpatialType int

// These are the spatial types. FullGlobe exists on the geography rail only.
const (
	Unknown SpatialType = iota
	Point
	LineString
	Polygon
	MultiPoint
	MultiLineString
	MultiPolygon
	Collection
	FullGlobe
)

var spatialTypeNames = [...]string{
	Unknown:         "Unknown",
	Point:           "Point",
	LineString:      "LineString",
	Polygon:         "Polygon",
	MultiPoint:      "MultiPoint",
	MultiLineString: "MultiLineString",
	MultiPolygon:    "MultiPolygon",
	Collection:      "Collection",
	FullGlobe:       "FullGlobe",
}

func (t SpatialType) String() string {
	if t >= 0 && int(t) < len(spatialTypeNames) {
		return spatialTypeNames[t]
	}
	return fmt.Sprintf("SpatialType(%d)", int(t))
}

// ParseSpatialType returns the spatial type with the given name. Matching
// is case-insensitive and "GeometryCollection" is accepted for Collection.
func ParseSpatialType(s string) (SpatialType, error) {
	if strings.EqualFold(s, "GeometryCollection") {
		return Collection, nil
	}
	for t, name := range spatialTypeNames {
		if SpatialType(t) != Unknown && strings.EqualFold(s, name) {
			return SpatialType(t), nil
		}
	}
	return Unknown, fmt.Errorf("spatial: unknown spatial type %q", s)
}

// valid reports whether t is one of the defined shape types.
func (t SpatialType) valid() bool {
	return t > Unknown && t <= FullGlobe
}

// isMulti reports whether t holds member shapes rather than figures.
func (t SpatialType) isMulti() bool {
	return t == MultiPoint || t == MultiLineString || t == MultiPolygon || t == Collection
}

// member returns the type that members of t must have, or Unknown if
// any type except FullGlobe is allowed.
func (t SpatialType) member() SpatialType {
	switch t {
	case MultiPoint:
		return Point
	case MultiLineString:
		return LineString
	case MultiPolygon:
		return Polygon
	default:
		return Unknown
	}
}
