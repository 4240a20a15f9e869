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

// ForwardingSegment wraps a stage and forwards every call first to that
// stage and then to an optional downstream stage. If either side fails,
// by returning an error or by panicking, both sides are reset exactly
// once on that rail before the failure reaches the caller unchanged.
type ForwardingSegment struct {
	current SpatialPipeline
	next    SpatialPipeline

	geography forwardingGeography
	geometry  forwardingGeometry
}

// NewForwardingSegment returns a segment wrapping current.
func NewForwardingSegment(current SpatialPipeline) (*ForwardingSegment, error) {
	if current == nil {
		return nil, &ArgumentError{Name: "current"}
	}
	return newForwardingSegment(current), nil
}

func newForwardingSegment(current SpatialPipeline) *ForwardingSegment {
	f := &ForwardingSegment{current: current}
	f.geography.seg = f
	f.geometry.seg = f
	return f
}

// ChainTo sets the downstream stage of f. A segment has at most one
// downstream stage.
func (f *ForwardingSegment) ChainTo(next SpatialPipeline) error {
	if next == nil {
		return &ArgumentError{Name: "next"}
	}
	if f.next != nil {
		return ErrAlreadyChained
	}
	f.next = next
	return nil
}

// GeographyPipeline implements SpatialPipeline.
func (f *ForwardingSegment) GeographyPipeline() GeographyPipeline { return &f.geography }

// GeometryPipeline implements SpatialPipeline.
func (f *ForwardingSegment) GeometryPipeline() GeometryPipeline { return &f.geometry }

// Chain links stages so that every call reaches them in order and returns
// the head of the chain.
func Chain(stages ...SpatialPipeline) (SpatialPipeline, error) {
	if len(stages) == 0 {
		return nil, &ArgumentError{Name: "stages"}
	}
	for _, s := range stages {
		if s == nil {
			return nil, &ArgumentError{Name: "stages"}
		}
	}
	return chain(stages...), nil
}

func chain(stages ...SpatialPipeline) SpatialPipeline {
	head := stages[len(stages)-1]
	for i := len(stages) - 2; i >= 0; i-- {
		seg := newForwardingSegment(stages[i])
		seg.next = head
		head = seg
	}
	return head
}

// selfResetting is implemented by rails that have already reset
// themselves and their downstream stages when they report a failure.
type selfResetting interface {
	resetsOnFailure()
}

type forwardingGeography struct {
	seg *ForwardingSegment
}

func (*forwardingGeography) resetsOnFailure() {}

func (g *forwardingGeography) rails() (current, next GeographyPipeline) {
	current = g.seg.current.GeographyPipeline()
	if g.seg.next != nil {
		next = g.seg.next.GeographyPipeline()
	}
	return current, next
}

// forward applies call to the current and then the next stage.
func (g *forwardingGeography) forward(call func(GeographyPipeline) error) error {
	current, next := g.rails()
	stages := [2]GeographyPipeline{current, next}
	failed, done := 0, false
	defer func() {
		if done {
			return
		}
		for i, p := range stages {
			if p == nil {
				continue
			}
			if _, ok := p.(selfResetting); ok && i == failed {
				continue
			}
			p.Reset()
		}
	}()
	for i, p := range stages {
		if p == nil {
			continue
		}
		failed = i
		if err := call(p); err != nil {
			return err
		}
	}
	done = true
	return nil
}

func (g *forwardingGeography) SetCoordinateSystem(cs CoordinateSystem) error {
	return g.forward(func(p GeographyPipeline) error { return p.SetCoordinateSystem(cs) })
}

func (g *forwardingGeography) BeginGeography(t SpatialType) error {
	return g.forward(func(p GeographyPipeline) error { return p.BeginGeography(t) })
}

func (g *forwardingGeography) BeginFigure(pos GeographyPosition) error {
	return g.forward(func(p GeographyPipeline) error { return p.BeginFigure(pos) })
}

func (g *forwardingGeography) LineTo(pos GeographyPosition) error {
	return g.forward(func(p GeographyPipeline) error { return p.LineTo(pos) })
}

func (g *forwardingGeography) EndFigure() error {
	return g.forward(func(p GeographyPipeline) error { return p.EndFigure() })
}

func (g *forwardingGeography) EndGeography() error {
	return g.forward(func(p GeographyPipeline) error { return p.EndGeography() })
}

func (g *forwardingGeography) Reset() {
	current, next := g.rails()
	current.Reset()
	if next != nil {
		next.Reset()
	}
}

type forwardingGeometry struct {
	seg *ForwardingSegment
}

func (*forwardingGeometry) resetsOnFailure() {}

func (g *forwardingGeometry) rails() (current, next GeometryPipeline) {
	current = g.seg.current.GeometryPipeline()
	if g.seg.next != nil {
		next = g.seg.next.GeometryPipeline()
	}
	return current, next
}

// forward applies call to the current and then the next stage.
func (g *forwardingGeometry) forward(call func(GeometryPipeline) error) error {
	current, next := g.rails()
	stages := [2]GeometryPipeline{current, next}
	failed, done := 0, false
	defer func() {
		if done {
			return
		}
		for i, p := range stages {
			if p == nil {
				continue
			}
			if _, ok := p.(selfResetting); ok && i == failed {
				continue
			}
			p.Reset()
		}
	}()
	for i, p := range stages {
		if p == nil {
			continue
		}
		failed = i
		if err := call(p); err != nil {
			return err
		}
	}
	done = true
	return nil
}

func (g *forwardingGeometry) SetCoordinateSystem(cs CoordinateSystem) error {
	return g.forward(func(p GeometryPipeline) error { return p.SetCoordinateSystem(cs) })
}

func (g *forwardingGeometry) BeginGeometry(t SpatialType) error {
	return g.forward(func(p GeometryPipeline) error { return p.BeginGeometry(t) })
}

func (g *forwardingGeometry) BeginFigure(pos GeometryPosition) error {
	return g.forward(func(p GeometryPipeline) error { return p.BeginFigure(pos) })
}

func (g *forwardingGeometry) LineTo(pos GeometryPosition) error {
	return g.forward(func(p GeometryPipeline) error { return p.LineTo(pos) })
}

func (g *forwardingGeometry) EndFigure() error {
	return g.forward(func(p GeometryPipeline) error { return p.EndFigure() })
}

func (g *forwardingGeometry) EndGeometry() error {
	return g.forward(func(p GeometryPipeline) error { return p.EndGeometry() })
}

func (g *forwardingGeometry) Reset() {
	current, next := g.rails()
	current.Reset()
	if next != nil {
		next.Reset()
	}
}
