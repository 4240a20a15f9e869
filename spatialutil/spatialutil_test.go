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

package spatialutil

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/wkt"
	"github.com/stretchr/testify/require"
)

// setDefaults restores the options that the tests change.
func setDefaults() {
	Cfg.Set("from", "wkt")
	Cfg.Set("to", "geojson")
	Cfg.Set("rail", "geometry")
	Cfg.Set("validate", true)
	Cfg.Set("trace", false)
	Cfg.Set("output", "")
	Cfg.Set("operations", "orb")
	Cfg.Set("srid", 0)
	Cfg.Set("loglevel", "info")
}

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	var b bytes.Buffer
	Root.SetOut(&b)
	Root.SetArgs(args)
	err := Root.Execute()
	return b.String(), err
}

func TestVersion(t *testing.T) {
	setDefaults()
	out, err := execute(t, "version")
	require.NoError(t, err)
	if !strings.HasPrefix(out, "spatial v") {
		t.Errorf("have %q", out)
	}
}

func TestConvert(t *testing.T) {
	setDefaults()
	dir := t.TempDir()
	in := writeFile(t, dir, "point.wkt", "SRID=4326;POINT (1 2)")
	out := filepath.Join(dir, "point.json")
	Cfg.Set("output", out)
	_, err := execute(t, "convert", in)
	require.NoError(t, err)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	if !strings.Contains(string(b), `"type":"Point"`) || !strings.Contains(string(b), "4326") {
		t.Errorf("have %s", b)
	}
}

func TestConvertStdin(t *testing.T) {
	setDefaults()
	Cfg.Set("from", "geojson")
	Cfg.Set("to", "wkt")
	Cfg.Set("rail", "geography")
	Root.SetIn(strings.NewReader(`{"type":"LineString","coordinates":[[20,10],[21,11]]}`))
	defer Root.SetIn(nil)
	out, err := execute(t, "convert")
	require.NoError(t, err)
	want := "SRID=4326;LINESTRING (20 10, 21 11)\n"
	if out != want {
		t.Errorf("have %q, want %q", out, want)
	}
}

func TestConvertShapefile(t *testing.T) {
	setDefaults()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.wkt", "POLYGON ((0 0, 0 10, 10 10, 10 0, 0 0))")
	b := writeFile(t, dir, "b.wkt", "POLYGON ((20 0, 20 10, 30 10, 30 0, 20 0))")
	out := filepath.Join(dir, "polygons.shp")
	Cfg.Set("to", "shp")
	Cfg.Set("output", out)
	_, err := execute(t, "convert", a, b)
	require.NoError(t, err)

	setDefaults()
	Cfg.Set("from", "shp")
	Cfg.Set("to", "wkt")
	Cfg.Set("srid", 32615)
	text, err := execute(t, "convert", out)
	require.NoError(t, err)
	want := "SRID=32615;POLYGON ((0 0, 0 10, 10 10, 10 0, 0 0))\n" +
		"SRID=32615;POLYGON ((20 0, 20 10, 30 10, 30 0, 20 0))\n"
	if text != want {
		t.Errorf("have %q, want %q", text, want)
	}
}

func TestValidate(t *testing.T) {
	setDefaults()
	Cfg.Set("rail", "geography")
	dir := t.TempDir()
	good := writeFile(t, dir, "good.wkt", "POINT (20 10)")
	bad := writeFile(t, dir, "bad.wkt", "LINESTRING (0 100, 1 1)")
	out, err := execute(t, "validate", good, bad)
	if err == nil {
		t.Fatal("invalid input accepted")
	}
	if !strings.Contains(out, good+": 1 valid shape(s)") {
		t.Errorf("have %q", out)
	}
	if !strings.Contains(out, bad+": ") || !strings.Contains(out, "invalid latitude") {
		t.Errorf("have %q", out)
	}
}

func TestInfo(t *testing.T) {
	setDefaults()
	dir := t.TempDir()
	a := writeFile(t, dir, "a.wkt", "LINESTRING (0 0, 3 4)")
	b := writeFile(t, dir, "b.wkt", "SRID=0;LINESTRING (0 0, 3 4)")
	out, err := execute(t, "info", a, b)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	if !strings.Contains(lines[0], "LineString EPSG:0 (geometry) length=5 area=0") {
		t.Errorf("have %q", lines[0])
	}
	fingerprint := func(l string) string { return l[strings.Index(l, "fingerprint="):] }
	if fingerprint(lines[0]) != fingerprint(lines[1]) {
		t.Errorf("fingerprints differ: %q, %q", lines[0], lines[1])
	}

	Cfg.Set("operations", "none")
	out, err = execute(t, "info", a)
	require.NoError(t, err)
	if strings.Contains(out, "length=") {
		t.Errorf("have %q", out)
	}
}

func TestDescribe(t *testing.T) {
	g, err := wkt.UnmarshalGeometry("POINT (1 2)", spatial.NewImplementation(nil))
	require.NoError(t, err)
	replay := func(rec *spatial.CallRecorder) error { return g.SendTo(rec.GeometryPipeline()) }
	line, err := describe(g, g.CoordinateSystem(), g.IsEmpty(), replay)
	require.NoError(t, err)
	if !strings.HasPrefix(line, "Point EPSG:0 (geometry) fingerprint=") {
		t.Errorf("have %q", line)
	}

	failed := errors.New("replay failed")
	_, err = describe(g, g.CoordinateSystem(), g.IsEmpty(), func(*spatial.CallRecorder) error { return failed })
	if !errors.Is(err, failed) {
		t.Errorf("have %v, want %v", err, failed)
	}
}

func TestTrace(t *testing.T) {
	setDefaults()
	hook := test.NewLocal(Log)
	defer hook.Reset()
	Cfg.Set("trace", true)
	Cfg.Set("loglevel", "debug")
	Cfg.Set("to", "wkt")
	Root.SetIn(strings.NewReader("POINT (1 2)"))
	defer Root.SetIn(nil)
	_, err := execute(t, "convert")
	require.NoError(t, err)

	var calls []string
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.DebugLevel {
			calls = append(calls, e.Message)
		}
	}
	want := []string{
		"geometry.SetCoordinateSystem(EPSG:0 (geometry))",
		"geometry.BeginGeometry(Point)",
	}
	require.GreaterOrEqual(t, len(calls), len(want))
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("call %d: have %q, want %q", i, calls[i], w)
		}
	}
}

func TestOptionErrors(t *testing.T) {
	for name, set := range map[string]func(){
		"rail":     func() { Cfg.Set("rail", "sphere") },
		"from":     func() { Cfg.Set("from", "kml") },
		"to":       func() { Cfg.Set("to", "kml") },
		"shp":      func() { Cfg.Set("rail", "geography"); Cfg.Set("to", "shp") },
		"maxdepth": func() { Cfg.Set("maxdepth", "deep") },
	} {
		setDefaults()
		Cfg.Set("maxdepth", 28)
		set()
		if _, err := OptionsFromConfig(Cfg); err == nil {
			t.Errorf("%s: invalid option accepted", name)
		}
	}
	setDefaults()
}
