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

// Package spatial models geographic (latitude/longitude) and planar (x/y)
// shapes and the pipelines that produce and consume them.
//
// Shapes flow through a pipeline as a sequence of calls:
//
//	SetCoordinateSystem(cs)
//	BeginGeography(Polygon)
//	BeginFigure(p0); LineTo(p1); LineTo(p2); LineTo(p0); EndFigure()
//	EndGeography()
//
// There are two independent rails, one for geography and one for geometry.
// A stage implements both through SpatialPipeline. Stages are linked with
// ForwardingSegment or Chain, checked with a Validator and assembled into
// immutable shapes with a Builder. Readers and writers for concrete formats
// live in the encoding packages.
package spatial

// GeographyPipeline receives a call sequence on the geography rail.
//
// SetCoordinateSystem may be called before the first top-level Begin and
// between top-level shapes. BeginFigure is legal directly inside Point,
// LineString and Polygon shapes; LineTo only inside an open figure.
// Reset discards any in-progress sequence and must not fail or panic.
type GeographyPipeline interface {
	SetCoordinateSystem(cs CoordinateSystem) error
	BeginGeography(t SpatialType) error
	BeginFigure(p GeographyPosition) error
	LineTo(p GeographyPosition) error
	EndFigure() error
	EndGeography() error
	Reset()
}

// GeometryPipeline is the geometry rail equivalent of GeographyPipeline.
type GeometryPipeline interface {
	SetCoordinateSystem(cs CoordinateSystem) error
	BeginGeometry(t SpatialType) error
	BeginFigure(p GeometryPosition) error
	LineTo(p GeometryPosition) error
	EndFigure() error
	EndGeometry() error
	Reset()
}

// SpatialPipeline is a pipeline stage. Its two rails are independent
// pipelines that share a lifetime.
type SpatialPipeline interface {
	GeographyPipeline() GeographyPipeline
	GeometryPipeline() GeometryPipeline
}

type pipelinePair struct {
	geography GeographyPipeline
	geometry  GeometryPipeline
}

func (p pipelinePair) GeographyPipeline() GeographyPipeline { return p.geography }
func (p pipelinePair) GeometryPipeline() GeometryPipeline   { return p.geometry }

// NewSpatialPipeline pairs two rail implementations into a stage. A nil
// rail is replaced by one that accepts and discards every call.
func NewSpatialPipeline(geography GeographyPipeline, geometry GeometryPipeline) SpatialPipeline {
	if geography == nil {
		geography = discardGeography{}
	}
	if geometry == nil {
		geometry = discardGeometry{}
	}
	return pipelinePair{geography: geography, geometry: geometry}
}

// Discard is a stage that accepts every call and does nothing.
var Discard SpatialPipeline = pipelinePair{geography: discardGeography{}, geometry: discardGeometry{}}

type discardGeography struct{}

func (discardGeography) SetCoordinateSystem(CoordinateSystem) error { return nil }
func (discardGeography) BeginGeography(SpatialType) error           { return nil }
func (discardGeography) BeginFigure(GeographyPosition) error        { return nil }
func (discardGeography) LineTo(GeographyPosition) error             { return nil }
func (discardGeography) EndFigure() error                           { return nil }
func (discardGeography) EndGeography() error                        { return nil }
func (discardGeography) Reset()                                     {}

type discardGeometry struct{}

func (discardGeometry) SetCoordinateSystem(CoordinateSystem) error { return nil }
func (discardGeometry) BeginGeometry(SpatialType) error            { return nil }
func (discardGeometry) BeginFigure(GeometryPosition) error         { return nil }
func (discardGeometry) LineTo(GeometryPosition) error              { return nil }
func (discardGeometry) EndFigure() error                           { return nil }
func (discardGeometry) EndGeometry() error                         { return nil }
func (discardGeometry) Reset()                                     {}
