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

// Package spatialutil contains the command-line interface for reading,
// validating and converting spatial shapes.
package spatialutil

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/spatial"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log is the logger used by the commands.
var Log *logrus.Logger

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Log = logrus.StandardLogger()
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})

	// Options are the configuration options available to the commands.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel specifies the minimum level of log messages:
              panic, fatal, error, warn, info, debug or trace.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "trace",
			usage: `
              trace specifies whether to log every pipeline call made
              while reading each input. The calls are logged at the
              debug level.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "from",
			usage: `
              from specifies the format of the inputs: wkt, geojson, gml,
              ewkb or shp.`,
			shorthand:  "f",
			defaultVal: "wkt",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), validateCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "to",
			usage: `
              to specifies the format of the output: wkt, geojson, gml,
              ewkb or shp.`,
			shorthand:  "t",
			defaultVal: "geojson",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "rail",
			usage: `
              rail specifies whether inputs are read as geography
              (latitude/longitude) or geometry (planar) shapes.`,
			defaultVal: "geometry",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), validateCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "validate",
			usage: `
              validate specifies whether to validate shapes while
              converting them.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "maxdepth",
			usage: `
              maxdepth specifies how deeply shapes may be nested within
              multi-shapes and collections.`,
			defaultVal: spatial.DefaultMaxDepth,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), validateCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "srid",
			usage: `
              srid specifies the EPSG code of shapes read from shapefiles,
              which do not record one.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), validateCmd.Flags(), infoCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies the output file. Shapes are written to
              standard output if it is empty. It is required when
              writing shapefiles.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "operations",
			usage: `
              operations specifies how lengths and areas are measured:
              orb, cartesian or none.`,
			defaultVal: "orb",
			flagsets:   []*pflag.FlagSet{infoCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SPATIAL")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(validateCmd)
	Root.AddCommand(infoCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("spatial: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("loglevel"))
	if err != nil {
		return fmt.Errorf("spatial: %v", err)
	}
	Log.SetLevel(level)
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "spatial",
	Short: "Read, validate and convert spatial shapes.",
	Long: `spatial reads geography (latitude/longitude) and geometry (planar) shapes
from well-known text, GeoJSON, GML, extended well-known binary and shapefiles,
validates them, and writes them in any of these formats.
Use the subcommands specified below to access the functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SPATIAL_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of spatial.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("spatial v%s\n", spatial.Version)
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert [input files]",
	Short: "Convert shapes between formats.",
	Long: `convert reads one shape from each input file, or every shape from each
input shapefile, and writes them in the output format. Standard input is read
if no input files are given or an input file is '-'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := OptionsFromConfig(Cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if o.Output != "" && o.To != "shp" {
			f, err := os.Create(o.Output)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		_, err = Convert(o, args, cmd.InOrStdin(), out)
		return err
	},
	DisableAutoGenTag: true,
}

var validateCmd = &cobra.Command{
	Use:   "validate [input files]",
	Short: "Validate shapes.",
	Long: `validate reads each input and reports whether it holds valid shapes.
It fails if any input is invalid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := OptionsFromConfig(Cfg)
		if err != nil {
			return err
		}
		return Validate(o, args, cmd.InOrStdin(), cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info [input files]",
	Short: "Describe shapes.",
	Long: `info prints the type, coordinate system, length, area and fingerprint
of each shape in the inputs. Shapes with the same fingerprint are made of the
same positions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := OptionsFromConfig(Cfg)
		if err != nil {
			return err
		}
		return Info(o, args, cmd.InOrStdin(), cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
