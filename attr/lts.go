package attr

import (
	"strconv"
	"strings"
)

//*******************************************
// lts rules
//*******************************************

// ILTSRule classifies a way by its tags.
type ILTSRule interface {
	Classify(tags Tags) LTS
}

// IsCyclingAllowed rejects ways without a highway tag, motorways, ways under
// construction and ways where bicycles or general access are forbidden.
func IsCyclingAllowed(tags Tags) bool {
	if !tags.Has("highway") {
		return false
	}
	if tags.IsAny("highway", "motorway", "motorway_link", "proposed", "construction") {
		return false
	}
	if tags.Is("bicycle", "no") {
		return false
	}
	if tags.IsAny("access", "no", "private") && !tags.IsAny("bicycle", "yes", "designated", "permissive") {
		return false
	}
	return true
}

// IsSeparated reports dedicated cycling infrastructure away from traffic.
func IsSeparated(tags Tags) bool {
	switch tags.RoadType() {
	case CYCLEWAY:
		return true
	case PATH, FOOTWAY, PEDESTRIAN, BRIDLEWAY, TRACK:
		return tags.IsAny("bicycle", "yes", "designated")
	}
	return tags.Is("cycleway", "track") || tags.HasPrefixValue("cycleway:", "track")
}

func hasBikeLane(tags Tags) bool {
	return tags.Is("cycleway", "lane") || tags.HasPrefixValue("cycleway:", "lane")
}

// SpeedLimit returns the posted limit in km/h, falling back to a default per
// road type.
func SpeedLimit(tags Tags) int32 {
	if speed, ok := parseMaxspeed(tags.Get("maxspeed")); ok {
		return speed
	}
	switch tags.RoadType() {
	case MOTORWAY, TRUNK:
		return 100
	case MOTORWAY_LINK, TRUNK_LINK:
		return 50
	case PRIMARY, SECONDARY:
		return 60
	case TERTIARY:
		return 50
	case PRIMARY_LINK, SECONDARY_LINK, TERTIARY_LINK:
		return 40
	case RESIDENTIAL, UNCLASSIFIED, ROAD:
		return 30
	case LIVING_STREET:
		return 10
	case SERVICE, TRACK:
		return 20
	}
	return 20
}

func parseMaxspeed(maxspeed string) (int32, bool) {
	switch maxspeed {
	case "":
		return 0, false
	case "walk":
		return 10, true
	case "none":
		return 130, true
	}
	factor := 1.0
	if value, ok := strings.CutSuffix(maxspeed, "mph"); ok {
		maxspeed = value
		factor = 1.609344
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(maxspeed), 64)
	if err != nil || t <= 0 {
		return 0, false
	}
	return int32(t*factor + 0.5), true
}

// Lanes returns the lane count, defaulting by road type.
func Lanes(tags Tags) int32 {
	if lanes, err := strconv.Atoi(tags.Get("lanes")); err == nil && lanes > 0 {
		return int32(lanes)
	}
	switch tags.RoadType() {
	case TRUNK, PRIMARY:
		return 4
	}
	return 2
}

// SpeedLimitOnly classifies purely by speed limit; separated infrastructure is LTS1.
type SpeedLimitOnly struct{}

func (SpeedLimitOnly) Classify(tags Tags) LTS {
	if !IsCyclingAllowed(tags) {
		return NOT_ALLOWED
	}
	if IsSeparated(tags) {
		return LTS1
	}
	speed := SpeedLimit(tags)
	switch {
	case speed <= 30:
		return LTS1
	case speed <= 50:
		return LTS2
	case speed <= 65:
		return LTS3
	}
	return LTS4
}

// BikeOttawa is a simplified form of the Bike Ottawa stress model: separated
// ways, painted lanes and mixed traffic are rated by speed and lane count.
type BikeOttawa struct{}

func (BikeOttawa) Classify(tags Tags) LTS {
	if !IsCyclingAllowed(tags) {
		return NOT_ALLOWED
	}
	if IsSeparated(tags) {
		return LTS1
	}
	speed := SpeedLimit(tags)
	lanes := Lanes(tags)
	if hasBikeLane(tags) {
		switch {
		case speed <= 50 && lanes <= 2:
			return LTS2
		case speed <= 65:
			return LTS3
		}
		return LTS4
	}
	switch {
	case speed <= 30 && lanes <= 2 && tags.RoadType().IsResidential():
		return LTS1
	case speed <= 40 && lanes <= 3:
		return LTS2
	case speed <= 50 && lanes <= 3:
		return LTS3
	}
	return LTS4
}

// Constant assigns the same LTS to every cyclable way.
type Constant struct {
	LTS LTS `yaml:"lts" json:"lts"`
}

func (c Constant) Classify(tags Tags) LTS {
	if !IsCyclingAllowed(tags) {
		return NOT_ALLOWED
	}
	return c.LTS
}
