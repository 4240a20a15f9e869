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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spatial"
	"github.com/spatialmodel/spatial/encoding/ewkb"
	"github.com/spatialmodel/spatial/encoding/geojson"
	"github.com/spatialmodel/spatial/encoding/gml"
	"github.com/spatialmodel/spatial/encoding/shp"
	"github.com/spatialmodel/spatial/encoding/wkt"
	"github.com/spatialmodel/spatial/internal/hash"
	"github.com/spatialmodel/spatial/operations"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Options holds the settings of a command.
type Options struct {
	// From and To are the input and output formats.
	From, To string

	// Geography is true if inputs are read as geography shapes.
	Geography bool

	// Validate is true if shapes are validated while converting.
	Validate bool

	// Trace is true if pipeline calls are logged.
	Trace bool

	MaxDepth int

	// SRID is the EPSG code of shapes read from shapefiles.
	SRID int

	// Output is the output file.
	Output string

	// Operations names the spatial operations used to measure shapes.
	Operations string
}

var formats = map[string]bool{"wkt": true, "geojson": true, "gml": true, "ewkb": true, "shp": true}

// OptionsFromConfig reads and checks the options in cfg.
func OptionsFromConfig(cfg *viper.Viper) (*Options, error) {
	o := &Options{
		From:       strings.ToLower(cfg.GetString("from")),
		To:         strings.ToLower(cfg.GetString("to")),
		Validate:   cfg.GetBool("validate"),
		Trace:      cfg.GetBool("trace"),
		Output:     os.ExpandEnv(cfg.GetString("output")),
		Operations: strings.ToLower(cfg.GetString("operations")),
	}
	var err error
	if o.MaxDepth, err = cast.ToIntE(cfg.Get("maxdepth")); err != nil {
		return nil, fmt.Errorf("spatial: invalid maxdepth: %v", err)
	}
	if o.SRID, err = cast.ToIntE(cfg.Get("srid")); err != nil {
		return nil, fmt.Errorf("spatial: invalid srid: %v", err)
	}
	switch rail := strings.ToLower(cfg.GetString("rail")); rail {
	case "geography":
		o.Geography = true
	case "geometry":
	default:
		return nil, fmt.Errorf("spatial: invalid rail %q; it must be geography or geometry", rail)
	}
	if !formats[o.From] {
		return nil, fmt.Errorf("spatial: invalid input format %q", o.From)
	}
	if o.To != "" && !formats[o.To] {
		return nil, fmt.Errorf("spatial: invalid output format %q", o.To)
	}
	if o.Geography && (o.From == "shp" || o.To == "shp") {
		return nil, fmt.Errorf("spatial: shapefiles only hold geometry shapes")
	}
	return o, nil
}

func (o *Options) rail() string {
	if o.Geography {
		return "geography"
	}
	return "geometry"
}

func (o *Options) logger(input string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"input":  input,
		"format": o.From,
		"rail":   o.rail(),
	})
}

// shapeReader reads one shape from an io.Reader.
type shapeReader interface {
	ReadGeography(io.Reader) error
	ReadGeometry(io.Reader) error
}

func newReader(format string, dest spatial.SpatialPipeline) (shapeReader, error) {
	switch format {
	case "wkt":
		return wkt.NewReader(dest)
	case "geojson":
		return geojson.NewReader(dest)
	case "gml":
		return gml.NewReader(dest)
	case "ewkb":
		return ewkb.NewReader(dest)
	default:
		return nil, fmt.Errorf("spatial: %s cannot be read from a stream", format)
	}
}

func newWriter(format string, w io.Writer) (spatial.SpatialPipeline, error) {
	switch format {
	case "wkt":
		return wkt.NewWriter(w), nil
	case "geojson":
		return geojson.NewWriter(w), nil
	case "gml":
		return gml.NewWriter(w), nil
	case "ewkb":
		return ewkb.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("spatial: %s cannot be written to a stream", format)
	}
}

// read sends the shapes in the named input to dest and returns how many
// were sent. The name "-" denotes stdin.
func (o *Options) read(name string, stdin io.Reader, dest spatial.SpatialPipeline) (int, error) {
	if o.From == "shp" {
		r, err := shp.NewReader(dest)
		if err != nil {
			return 0, err
		}
		return r.ReadFile(name, o.SRID)
	}
	r, err := newReader(o.From, dest)
	if err != nil {
		return 0, err
	}
	in := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return 0, err
		}
		defer f.Close()
		in = f
	}
	if o.Geography {
		err = r.ReadGeography(in)
	} else {
		err = r.ReadGeometry(in)
	}
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// pipeline returns the head of a chain ending in dest, with a validator
// if shapes are validated and rec if it is not nil.
func (o *Options) pipeline(dest spatial.SpatialPipeline, rec *spatial.CallRecorder) (spatial.SpatialPipeline, error) {
	var stages []spatial.SpatialPipeline
	if o.Validate {
		stages = append(stages, spatial.NewValidator(spatial.WithMaxDepth(o.MaxDepth)))
	}
	if rec != nil {
		stages = append(stages, rec)
	}
	return spatial.Chain(append(stages, dest)...)
}

func (o *Options) recorder() *spatial.CallRecorder {
	if !o.Trace {
		return nil
	}
	return spatial.NewCallRecorder()
}

// logTrace logs and clears the calls recorded by rec.
func (o *Options) logTrace(input string, rec *spatial.CallRecorder) {
	if rec == nil {
		return
	}
	log := o.logger(input)
	for _, c := range rec.Calls() {
		log.Debug(c)
	}
	rec.Clear()
}

func inputNames(inputs []string) []string {
	if len(inputs) == 0 {
		return []string{"-"}
	}
	return inputs
}

// implementation returns the implementation named by o.Operations.
func (o *Options) implementation() (*spatial.Implementation, error) {
	ops, err := operations.New(o.Operations)
	if err != nil {
		return nil, err
	}
	return spatial.NewImplementation(ops), nil
}

// Convert reads the inputs and writes their shapes to out, or to the
// shapefile o.Output. It returns the number of shapes written.
func Convert(o *Options, inputs []string, stdin io.Reader, out io.Writer) (int, error) {
	var dest spatial.SpatialPipeline
	var shapes []*spatial.Geometry
	if o.To == "shp" {
		if o.Output == "" {
			return 0, fmt.Errorf("spatial: an output file is required for shapefiles")
		}
		impl, err := o.implementation()
		if err != nil {
			return 0, err
		}
		b := impl.NewBuilder()
		b.OnGeometryProduced(func(g *spatial.Geometry) { shapes = append(shapes, g) })
		dest = b
	} else {
		w, err := newWriter(o.To, out)
		if err != nil {
			return 0, err
		}
		dest = w
	}
	rec := o.recorder()
	head, err := o.pipeline(dest, rec)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, name := range inputNames(inputs) {
		k, err := o.read(name, stdin, head)
		o.logTrace(name, rec)
		if err != nil {
			return n, errors.Wrap(err, name)
		}
		n += k
	}
	if o.To == "shp" {
		if err := writeShapefile(o.Output, shapes); err != nil {
			return 0, err
		}
	}
	Log.WithFields(logrus.Fields{
		"from":   o.From,
		"to":     o.To,
		"rail":   o.rail(),
		"shapes": n,
	}).Info("converted shapes")
	return n, nil
}

func writeShapefile(filename string, shapes []*spatial.Geometry) error {
	if len(shapes) == 0 {
		return fmt.Errorf("spatial: no shapes to write to %s", filename)
	}
	w, err := shp.NewWriter(filename, shapes[0].Type())
	if err != nil {
		return err
	}
	defer w.Close()
	for _, g := range shapes {
		if err := g.SendTo(w.GeometryPipeline()); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the shapes in each input and writes one line per input
// to out. It returns an error if any input is invalid.
func Validate(o *Options, inputs []string, stdin io.Reader, out io.Writer) error {
	inputs = inputNames(inputs)
	invalid := 0
	for _, name := range inputs {
		rec := o.recorder()
		stages := []spatial.SpatialPipeline{spatial.NewValidator(spatial.WithMaxDepth(o.MaxDepth))}
		if rec != nil {
			stages = append([]spatial.SpatialPipeline{rec}, stages...)
		}
		dest, err := spatial.Chain(stages...)
		if err != nil {
			return err
		}
		n, err := o.read(name, stdin, dest)
		o.logTrace(name, rec)
		if err != nil {
			invalid++
			o.logger(name).WithError(err).Debug("invalid input")
			fmt.Fprintf(out, "%s: %v\n", name, err)
			continue
		}
		fmt.Fprintf(out, "%s: %d valid shape(s)\n", name, n)
	}
	if invalid > 0 {
		return fmt.Errorf("spatial: %d of %d inputs are invalid", invalid, len(inputs))
	}
	return nil
}

// measured is implemented by Geography and Geometry.
type measured interface {
	Type() spatial.SpatialType
	Length() (float64, error)
	Area() (float64, error)
}

// describe returns one line describing a shape. replay sends the shape to
// a recorder to compute its fingerprint.
func describe(g measured, cs spatial.CoordinateSystem, empty bool, replay func(*spatial.CallRecorder) error) (string, error) {
	rec := spatial.NewCallRecorder()
	if err := replay(rec); err != nil {
		return "", errors.Wrap(err, "fingerprinting shape")
	}
	s := fmt.Sprintf("%v %v", g.Type(), cs)
	if empty {
		s += " empty"
	}
	if l, err := g.Length(); err == nil {
		s += fmt.Sprintf(" length=%g", l)
	}
	if a, err := g.Area(); err == nil {
		s += fmt.Sprintf(" area=%g", a)
	}
	return s + " fingerprint=" + hash.Calls(rec.Calls()), nil
}

// Info writes a description of each shape in the inputs to out.
func Info(o *Options, inputs []string, stdin io.Reader, out io.Writer) error {
	impl, err := o.implementation()
	if err != nil {
		return err
	}
	for _, name := range inputNames(inputs) {
		head, b := impl.NewValidatingBuilder(spatial.WithMaxDepth(o.MaxDepth))
		var lines []string
		var describeErr error
		add := func(line string, err error) {
			if err != nil {
				if describeErr == nil {
					describeErr = err
				}
				return
			}
			lines = append(lines, line)
		}
		b.OnGeographyProduced(func(g *spatial.Geography) {
			add(describe(g, g.CoordinateSystem(), g.IsEmpty(), func(rec *spatial.CallRecorder) error {
				return g.SendTo(rec.GeographyPipeline())
			}))
		})
		b.OnGeometryProduced(func(g *spatial.Geometry) {
			add(describe(g, g.CoordinateSystem(), g.IsEmpty(), func(rec *spatial.CallRecorder) error {
				return g.SendTo(rec.GeometryPipeline())
			}))
		})
		if _, err := o.read(name, stdin, head); err != nil {
			return errors.Wrap(err, name)
		}
		if describeErr != nil {
			return errors.Wrap(describeErr, name)
		}
		for i, l := range lines {
			fmt.Fprintf(out, "%s[%d]: %s\n", name, i, l)
		}
		o.logger(name).WithField("shapes", len(lines)).Debug("described shapes")
	}
	return nil
}
