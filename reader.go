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

// ReaderBase is the common part of format readers. A reader owns a
// destination stage and drives one call sequence into it per top-level
// shape. When reading fails the destination rail is reset before the error
// is returned, so the destination is ready for the next input. A
// destination that already reset itself because one of its own calls
// failed, such as a forwarding chain, is not reset again.
type ReaderBase struct {
	dest SpatialPipeline
}

// NewReaderBase returns a reader base driving dest.
func NewReaderBase(dest SpatialPipeline) (*ReaderBase, error) {
	if dest == nil {
		return nil, &ArgumentError{Name: "destination"}
	}
	return &ReaderBase{dest: dest}, nil
}

// Destination returns the destination stage.
func (r *ReaderBase) Destination() SpatialPipeline { return r.dest }

// ReadGeography drives the geography rail of the destination with parse.
func (r *ReaderBase) ReadGeography(parse func(GeographyPipeline) error) error {
	t := &trackingGeography{p: r.dest.GeographyPipeline()}
	ok := false
	defer func() {
		if !ok {
			resetAfterRead(t.p, t.failed)
		}
	}()
	if err := parse(t); err != nil {
		return err
	}
	ok = true
	return nil
}

// ReadGeometry drives the geometry rail of the destination with parse.
func (r *ReaderBase) ReadGeometry(parse func(GeometryPipeline) error) error {
	t := &trackingGeometry{p: r.dest.GeometryPipeline()}
	ok := false
	defer func() {
		if !ok {
			resetAfterRead(t.p, t.failed)
		}
	}()
	if err := parse(t); err != nil {
		return err
	}
	ok = true
	return nil
}

// ReadTypeWashed drives the geography rail if geography is true and the
// geometry rail otherwise, through a type-washed adapter. reverse is
// passed to NewTypeWashedGeography.
func (r *ReaderBase) ReadTypeWashed(geography, reverse bool, parse func(TypeWashedPipeline) error) error {
	if geography {
		return r.ReadGeography(func(p GeographyPipeline) error {
			return parse(NewTypeWashedGeography(p, reverse))
		})
	}
	return r.ReadGeometry(func(p GeometryPipeline) error {
		return parse(NewTypeWashedGeometry(p))
	})
}

func resetAfterRead(p interface{ Reset() }, destFailed bool) {
	if _, ok := p.(selfResetting); ok && destFailed {
		return
	}
	p.Reset()
}

// trackingGeography records whether the last call to p failed.
type trackingGeography struct {
	p      GeographyPipeline
	failed bool
}

func (t *trackingGeography) call(f func() error) error {
	t.failed = true
	err := f()
	t.failed = err != nil
	return err
}

func (t *trackingGeography) SetCoordinateSystem(cs CoordinateSystem) error {
	return t.call(func() error { return t.p.SetCoordinateSystem(cs) })
}

func (t *trackingGeography) BeginGeography(st SpatialType) error {
	return t.call(func() error { return t.p.BeginGeography(st) })
}

func (t *trackingGeography) BeginFigure(pos GeographyPosition) error {
	return t.call(func() error { return t.p.BeginFigure(pos) })
}

func (t *trackingGeography) LineTo(pos GeographyPosition) error {
	return t.call(func() error { return t.p.LineTo(pos) })
}

func (t *trackingGeography) EndFigure() error { return t.call(t.p.EndFigure) }

func (t *trackingGeography) EndGeography() error { return t.call(t.p.EndGeography) }

func (t *trackingGeography) Reset() { t.p.Reset() }

// trackingGeometry records whether the last call to p failed.
type trackingGeometry struct {
	p      GeometryPipeline
	failed bool
}

func (t *trackingGeometry) call(f func() error) error {
	t.failed = true
	err := f()
	t.failed = err != nil
	return err
}

func (t *trackingGeometry) SetCoordinateSystem(cs CoordinateSystem) error {
	return t.call(func() error { return t.p.SetCoordinateSystem(cs) })
}

func (t *trackingGeometry) BeginGeometry(st SpatialType) error {
	return t.call(func() error { return t.p.BeginGeometry(st) })
}

func (t *trackingGeometry) BeginFigure(pos GeometryPosition) error {
	return t.call(func() error { return t.p.BeginFigure(pos) })
}

func (t *trackingGeometry) LineTo(pos GeometryPosition) error {
	return t.call(func() error { return t.p.LineTo(pos) })
}

func (t *trackingGeometry) EndFigure() error { return t.call(t.p.EndFigure) }

func (t *trackingGeometry) EndGeometry() error { return t.call(t.p.EndGeometry) }

func (t *trackingGeometry) Reset() { t.p.Reset() }
