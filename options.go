package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

//**********************************************************
// run options
//**********************************************************

// Options are the per-run settings from flags, CYCLEFLOW_* environment
// variables and an optional .env file, in that order of precedence.
type Options struct {
	ConfigPath       string `mapstructure:"config"`
	RngSeed          int64  `mapstructure:"rng-seed"`
	NoOutputCSV      bool   `mapstructure:"no-output-csv"`
	NoOutputODPoints bool   `mapstructure:"no-output-od-points"`
	NoOutputOSMTags  bool   `mapstructure:"no-output-osm-tags"`
	OutputMetadata   bool   `mapstructure:"output-metadata"`
	DetailedRoutes   int    `mapstructure:"detailed-routes"`
	Workers          int    `mapstructure:"workers"`
	LogLevel         string `mapstructure:"log-level"`
	LogFormat        string `mapstructure:"log-format"`
}

// Directory is the area directory holding the config and its input,
// intermediate and output folders.
func (o Options) Directory() string {
	return filepath.Dir(o.ConfigPath)
}

func ParseOptions(args []string) (Options, error) {
	_ = godotenv.Load(".env")

	flags := pflag.NewFlagSet("cycleflow", pflag.ContinueOnError)
	flags.Int64("rng-seed", 42, "seed for demand generators that sample")
	flags.Bool("no-output-csv", false, "do not write output/counts.csv")
	flags.Bool("no-output-od-points", false, "do not add origin and destination points to the GeoJSON output")
	flags.Bool("no-output-osm-tags", false, "do not add OSM tags to the GeoJSON output")
	flags.Bool("output-metadata", false, "write output/metadata.json and output/metrics.prom")
	flags.Int("detailed-routes", 0, "write detailed GeoJSON for the first N demands instead of counting")
	flags.Int("workers", 0, "number of routing workers, 0 uses every CPU")
	flags.String("log-level", "info", "debug, info, warn or error")
	flags.String("log-format", "text", "text or json")
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: cycleflow [flags] <area>/config.yaml")
		flags.PrintDefaults()
	}
	if err := flags.Parse(args); err != nil {
		return Options{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("CYCLEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return Options{}, err
	}
	v.SetDefault("config", "")
	if flags.NArg() > 0 {
		v.Set("config", flags.Arg(0))
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	if opts.ConfigPath == "" {
		return Options{}, errors.New("missing path to config.yaml")
	}
	if opts.DetailedRoutes < 0 {
		return Options{}, errors.New("detailed-routes must not be negative")
	}
	return opts, nil
}
