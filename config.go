package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ttpr0/go-cycleflow/attr"
	"github.com/ttpr0/go-cycleflow/cost"
	"github.com/ttpr0/go-cycleflow/network"
	"github.com/ttpr0/go-cycleflow/od"
	"github.com/ttpr0/go-cycleflow/uptake"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

//**********************************************************
// config
//**********************************************************

func ReadConfig(file string) (Config, error) {
	slog.Info("Reading config file", "path", file)
	var config Config
	data, err := os.ReadFile(file)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse config %s: %w", file, err)
	}
	if config.Routing.MaxSnapMeters == 0 {
		config.Routing.MaxSnapMeters = network.DefaultMaxSnapMeters
	}
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config %s: %w", file, err)
	}
	return config, nil
}

type Config struct {
	Requests  RequestsOptions  `yaml:"requests" json:"requests"`
	LTS       LTSOptions       `yaml:"lts" json:"lts"`
	Cost      CostOptions      `yaml:"cost" json:"cost"`
	Uptake    UptakeOptions    `yaml:"uptake" json:"uptake"`
	Elevation ElevationOptions `yaml:"elevation" json:"elevation"`
	Routing   RoutingOptions   `yaml:"routing" json:"routing"`
}

type RoutingOptions struct {
	// Rebuild the routing index when it was built from another network.
	CheckIndexFingerprint bool    `yaml:"check_index_fingerprint" json:"check_index_fingerprint"`
	MaxSnapMeters         float64 `yaml:"max_snap_meters" json:"max_snap_meters"`
}

// ElevationOptions points to a lon,lat,height table of sampled heights. An
// empty path disables slopes.
type ElevationOptions struct {
	Path string `yaml:"path" json:"path,omitempty"`
}

// Validate reports every problem of the config at once.
func (c Config) Validate() error {
	var errs []error
	if c.Requests.Value == nil {
		errs = append(errs, errors.New("requests: missing or unknown type"))
	}
	if c.LTS.Value == nil {
		errs = append(errs, errors.New("lts: missing or unknown type"))
	}
	if c.Cost.Value == nil {
		errs = append(errs, errors.New("cost: missing or unknown type"))
	}
	if v, ok := c.Cost.Value.(cost.ByLTS); ok {
		if err := v.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("cost: %w", err))
		}
	}
	if v, ok := c.Cost.Value.(cost.OsmHighwayType); ok && len(v.Weights) == 0 {
		errs = append(errs, errors.New("cost: osm_highway_type needs weights"))
	}
	if c.Uptake.Value == nil {
		errs = append(errs, errors.New("uptake: missing or unknown type"))
	}
	if v, ok := c.Uptake.Value.(uptake.CutoffMaxDistanceMeters); ok && v.Meters <= 0 {
		errs = append(errs, errors.New("uptake: meters must be positive"))
	}
	if v, ok := c.Requests.Value.(od.BetweenPoints); ok && v.Count <= 0 {
		errs = append(errs, errors.New("requests: count must be positive"))
	}
	if c.Routing.MaxSnapMeters < 0 {
		errs = append(errs, errors.New("routing: max_snap_meters must not be negative"))
	}
	return errors.Join(errs...)
}

//**********************************************************
// tagged options
//**********************************************************

func decodeType(value *yaml.Node) (string, error) {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := value.Decode(&head); err != nil {
		return "", err
	}
	if head.Type == "" {
		return "", fmt.Errorf("line %d: missing type", value.Line)
	}
	return head.Type, nil
}

func decodeAs[T any](value *yaml.Node) (T, error) {
	var val T
	err := value.Decode(&val)
	return val, err
}

// marshalTagged writes value as a JSON object with an added type member.
func marshalTagged(typ string, value any) ([]byte, error) {
	m := map[string]any{}
	if value != nil {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	}
	m["type"] = typ
	return json.Marshal(m)
}

type RequestsOptions struct {
	Type  string
	Value od.IGenerator
}

func (o *RequestsOptions) UnmarshalYAML(value *yaml.Node) error {
	typ, err := decodeType(value)
	if err != nil {
		return err
	}
	o.Type = typ
	switch typ {
	case "csv":
		o.Value, err = decodeAs[od.FromCSV](value)
	case "geojson":
		o.Value, err = decodeAs[od.FromGeoJSON](value)
	case "between_points":
		o.Value, err = decodeAs[od.BetweenPoints](value)
	case "every_origin_to_one_destination":
		o.Value, err = decodeAs[od.FromEveryOriginToOneDestination](value)
	default:
		return fmt.Errorf("line %d: unknown requests type %q", value.Line, typ)
	}
	return err
}

func (o RequestsOptions) MarshalJSON() ([]byte, error) {
	return marshalTagged(o.Type, o.Value)
}

type LTSOptions struct {
	Type  string
	Value attr.ILTSRule
}

func (o *LTSOptions) UnmarshalYAML(value *yaml.Node) error {
	typ, err := decodeType(value)
	if err != nil {
		return err
	}
	o.Type = typ
	switch typ {
	case "speed_limit_only":
		o.Value = attr.SpeedLimitOnly{}
	case "bike_ottawa":
		o.Value = attr.BikeOttawa{}
	case "constant":
		o.Value, err = decodeAs[attr.Constant](value)
	default:
		return fmt.Errorf("line %d: unknown lts type %q", value.Line, typ)
	}
	return err
}

func (o LTSOptions) MarshalJSON() ([]byte, error) {
	return marshalTagged(o.Type, o.Value)
}

type CostOptions struct {
	Type  string
	Value cost.IFunction
}

func (o *CostOptions) UnmarshalYAML(value *yaml.Node) error {
	typ, err := decodeType(value)
	if err != nil {
		return err
	}
	o.Type = typ
	switch typ {
	case "distance":
		o.Value = cost.Distance{}
	case "avoid_main_roads":
		o.Value = cost.AvoidMainRoads{}
	case "by_lts":
		o.Value, err = decodeAs[cost.ByLTS](value)
	case "osm_highway_type":
		o.Value, err = decodeAs[cost.OsmHighwayType](value)
	default:
		return fmt.Errorf("line %d: unknown cost type %q", value.Line, typ)
	}
	return err
}

func (o CostOptions) MarshalJSON() ([]byte, error) {
	return marshalTagged(o.Type, o.Value)
}

type UptakeOptions struct {
	Type  string
	Value uptake.IUptake
}

func (o *UptakeOptions) UnmarshalYAML(value *yaml.Node) error {
	typ, err := decodeType(value)
	if err != nil {
		return err
	}
	o.Type = typ
	switch typ {
	case "identity":
		o.Value = uptake.Identity{}
	case "cutoff_max_distance_meters":
		o.Value, err = decodeAs[uptake.CutoffMaxDistanceMeters](value)
	case "gov_target_pct":
		o.Value = uptake.GovTargetPCT{}
	case "go_dutch_pct":
		o.Value = uptake.GoDutchPCT{}
	default:
		return fmt.Errorf("line %d: unknown uptake type %q", value.Line, typ)
	}
	return err
}

func (o UptakeOptions) MarshalJSON() ([]byte, error) {
	return marshalTagged(o.Type, o.Value)
}
