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
	"strings"
	"testing"
)

func TestOperationsRegistry(t *testing.T) {
	r := new(OperationsRegistry)
	if r.Operations() != nil {
		t.Fatal("new registry is not empty")
	}
	first := new(fakeOperations)
	if err := r.Register(first); err != nil {
		t.Fatal(err)
	}
	err := r.Register(new(fakeOperations))
	var regErr *RegistrationError
	if !errors.As(err, &regErr) {
		t.Fatalf("have %v, want a registration error", err)
	}
	if regErr.Slot != "operations" || !strings.Contains(err.Error(), "fakeOperations") {
		t.Errorf("error %q does not name the slot and occupant", err)
	}
	if r.Operations() != first {
		t.Error("failed registration replaced the implementation")
	}
	r.Clear()
	second := new(fakeOperations)
	if err := r.Register(second); err != nil {
		t.Fatal(err)
	}
	if r.Operations() != second {
		t.Error("registration after Clear was not stored")
	}
}

func TestDefaultImplementation(t *testing.T) {
	DefaultRegistry.Clear()
	defer DefaultRegistry.Clear()
	if DefaultImplementation().Operations != nil {
		t.Fatal("default implementation has operations")
	}
	ops := new(fakeOperations)
	if err := DefaultRegistry.Register(ops); err != nil {
		t.Fatal(err)
	}
	shape := buildGeometry(t, DefaultImplementation(), sendSquare)
	if v, err := shape.Length(); err != nil || v != 5 {
		t.Errorf("have %v, %v", v, err)
	}
	if b, err := NewBuilder(DefaultImplementation()); err != nil || b == nil {
		t.Errorf("have %v, %v", b, err)
	}
	var argErr *ArgumentError
	if b, err := NewBuilder(nil); b != nil || !errors.As(err, &argErr) {
		t.Errorf("have %v, %v, want an argument error", b, err)
	}
}
