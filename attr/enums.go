package attr

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

//*******************************************
// road types
//*******************************************

type RoadType int8

const (
	MOTORWAY       RoadType = 1
	MOTORWAY_LINK  RoadType = 2
	TRUNK          RoadType = 3
	TRUNK_LINK     RoadType = 4
	PRIMARY        RoadType = 5
	PRIMARY_LINK   RoadType = 6
	SECONDARY      RoadType = 7
	SECONDARY_LINK RoadType = 8
	TERTIARY       RoadType = 9
	TERTIARY_LINK  RoadType = 10
	RESIDENTIAL    RoadType = 11
	LIVING_STREET  RoadType = 12
	UNCLASSIFIED   RoadType = 13
	ROAD           RoadType = 14
	TRACK          RoadType = 15
	SERVICE        RoadType = 16
	CYCLEWAY       RoadType = 17
	PATH           RoadType = 18
	FOOTWAY        RoadType = 19
	PEDESTRIAN     RoadType = 20
	BRIDLEWAY      RoadType = 21
	STEPS          RoadType = 22
)

var road_type_names = [...]string{
	MOTORWAY:       "motorway",
	MOTORWAY_LINK:  "motorway_link",
	TRUNK:          "trunk",
	TRUNK_LINK:     "trunk_link",
	PRIMARY:        "primary",
	PRIMARY_LINK:   "primary_link",
	SECONDARY:      "secondary",
	SECONDARY_LINK: "secondary_link",
	TERTIARY:       "tertiary",
	TERTIARY_LINK:  "tertiary_link",
	RESIDENTIAL:    "residential",
	LIVING_STREET:  "living_street",
	UNCLASSIFIED:   "unclassified",
	ROAD:           "road",
	TRACK:          "track",
	SERVICE:        "service",
	CYCLEWAY:       "cycleway",
	PATH:           "path",
	FOOTWAY:        "footway",
	PEDESTRIAN:     "pedestrian",
	BRIDLEWAY:      "bridleway",
	STEPS:          "steps",
}

func (t RoadType) String() string {
	if t <= 0 || int(t) >= len(road_type_names) {
		return ""
	}
	return road_type_names[t]
}

// RoadTypeFromString returns 0 for unknown highway values.
func RoadTypeFromString(typ string) RoadType {
	for i, name := range road_type_names {
		if name != "" && name == typ {
			return RoadType(i)
		}
	}
	return 0
}

// IsMainRoad reports trunk, primary and secondary roads including links.
func (t RoadType) IsMainRoad() bool {
	return t >= TRUNK && t <= SECONDARY_LINK
}

// IsResidential reports road types that rarely carry through traffic.
func (t RoadType) IsResidential() bool {
	switch t {
	case RESIDENTIAL, LIVING_STREET, SERVICE, TRACK, UNCLASSIFIED:
		return true
	}
	return false
}

//*******************************************
// level of traffic stress
//*******************************************

// LTS is the level of traffic stress of a way for cyclists; higher is worse.
// NOT_ALLOWED marks ways that cannot be cycled at all.
type LTS uint8

const (
	NOT_ALLOWED LTS = 0
	LTS1        LTS = 1
	LTS2        LTS = 2
	LTS3        LTS = 3
	LTS4        LTS = 4
)

// NumLTS is the number of distinct LTS values including NOT_ALLOWED.
const NumLTS = 5

func (l LTS) String() string {
	switch l {
	case NOT_ALLOWED:
		return "not_allowed"
	case LTS1:
		return "lts1"
	case LTS2:
		return "lts2"
	case LTS3:
		return "lts3"
	case LTS4:
		return "lts4"
	}
	return fmt.Sprintf("LTS(%d)", uint8(l))
}

func LTSFromString(name string) (LTS, error) {
	switch name {
	case "not_allowed":
		return NOT_ALLOWED, nil
	case "lts1", "1":
		return LTS1, nil
	case "lts2", "2":
		return LTS2, nil
	case "lts3", "3":
		return LTS3, nil
	case "lts4", "4":
		return LTS4, nil
	}
	return NOT_ALLOWED, fmt.Errorf("invalid lts %q", name)
}

func (l LTS) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}
func (l *LTS) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	lts, err := LTSFromString(name)
	if err != nil {
		return err
	}
	*l = lts
	return nil
}

func (l *LTS) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	lts, err := LTSFromString(name)
	if err != nil {
		return err
	}
	*l = lts
	return nil
}
