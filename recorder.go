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

// Call is one recorded pipeline call.
type Call struct {
	Topology Topology
	Method   string
	Args     []interface{}
}

func (c Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s.%s(%s)", c.Topology, c.Method, strings.Join(args, ", "))
}

// CallRecorder is a pipeline stage that records every call it receives
// on either rail, in order. Reset calls are recorded too.
type CallRecorder struct {
	calls     []Call
	geography recorderGeography
	geometry  recorderGeometry
}

// NewCallRecorder returns an empty recorder.
func NewCallRecorder() *CallRecorder {
	r := new(CallRecorder)
	r.geography.r = r
	r.geometry.r = r
	return r
}

// GeographyPipeline implements SpatialPipeline.
func (r *CallRecorder) GeographyPipeline() GeographyPipeline { return &r.geography }

// GeometryPipeline implements SpatialPipeline.
func (r *CallRecorder) GeometryPipeline() GeometryPipeline { return &r.geometry }

// Calls returns the recorded calls.
func (r *CallRecorder) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// Count returns the number of recorded calls to method.
func (r *CallRecorder) Count(method string) int {
	n := 0
	for _, c := range r.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Clear discards the recorded calls.
func (r *CallRecorder) Clear() { r.calls = nil }

func (r *CallRecorder) record(t Topology, method string, args ...interface{}) {
	r.calls = append(r.calls, Call{Topology: t, Method: method, Args: args})
}

type recorderGeography struct{ r *CallRecorder }

func (g *recorderGeography) SetCoordinateSystem(cs CoordinateSystem) error {
	g.r.record(GeographyTopology, "SetCoordinateSystem", cs)
	return nil
}

func (g *recorderGeography) BeginGeography(t SpatialType) error {
	g.r.record(GeographyTopology, "BeginGeography", t)
	return nil
}

func (g *recorderGeography) BeginFigure(p GeographyPosition) error {
	g.r.record(GeographyTopology, "BeginFigure", p)
	return nil
}

func (g *recorderGeography) LineTo(p GeographyPosition) error {
	g.r.record(GeographyTopology, "LineTo", p)
	return nil
}

func (g *recorderGeography) EndFigure() error {
	g.r.record(GeographyTopology, "EndFigure")
	return nil
}

func (g *recorderGeography) EndGeography() error {
	g.r.record(GeographyTopology, "EndGeography")
	return nil
}

func (g *recorderGeography) Reset() { g.r.record(GeographyTopology, "Reset") }

type recorderGeometry struct{ r *CallRecorder }

func (g *recorderGeometry) SetCoordinateSystem(cs CoordinateSystem) error {
	g.r.record(GeometryTopology, "SetCoordinateSystem", cs)
	return nil
}

func (g *recorderGeometry) BeginGeometry(t SpatialType) error {
	g.r.record(GeometryTopology, "BeginGeometry", t)
	return nil
}

func (g *recorderGeometry) BeginFigure(p GeometryPosition) error {
	g.r.record(GeometryTopology, "BeginFigure", p)
	return nil
}

func (g *recorderGeometry) LineTo(p GeometryPosition) error {
	g.r.record(GeometryTopology, "LineTo", p)
	return nil
}

func (g *recorderGeometry) EndFigure() error {
	g.r.record(GeometryTopology, "EndFigure")
	return nil
}

func (g *recorderGeometry) EndGeometry() error {
	g.r.record(GeometryTopology, "EndGeometry")
	return nil
}

func (g *recorderGeometry) Reset() { g.r.record(GeometryTopology, "Reset") }
