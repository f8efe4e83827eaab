package attr

import "testing"

func TestSpeedLimitOnly(t *testing.T) {
	rule := SpeedLimitOnly{}
	cases := []struct {
		name string
		tags Tags
		want LTS
	}{
		{"no highway", Tags{"building": "yes"}, NOT_ALLOWED},
		{"motorway", Tags{"highway": "motorway"}, NOT_ALLOWED},
		{"bicycle no", Tags{"highway": "residential", "bicycle": "no"}, NOT_ALLOWED},
		{"private", Tags{"highway": "service", "access": "private"}, NOT_ALLOWED},
		{"private with bicycle", Tags{"highway": "service", "access": "private", "bicycle": "yes"}, LTS1},
		{"cycleway", Tags{"highway": "cycleway"}, LTS1},
		{"residential default", Tags{"highway": "residential"}, LTS1},
		{"maxspeed 50", Tags{"highway": "tertiary", "maxspeed": "50"}, LTS2},
		{"maxspeed mph", Tags{"highway": "primary", "maxspeed": "40 mph"}, LTS3},
		{"primary default", Tags{"highway": "primary"}, LTS3},
		{"fast trunk", Tags{"highway": "trunk", "maxspeed": "80"}, LTS4},
		{"unparsable maxspeed", Tags{"highway": "secondary", "maxspeed": "signals"}, LTS3},
	}
	for _, c := range cases {
		if got := rule.Classify(c.tags); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestBikeOttawa(t *testing.T) {
	rule := BikeOttawa{}
	cases := []struct {
		name string
		tags Tags
		want LTS
	}{
		{"track", Tags{"highway": "primary", "cycleway:right": "track"}, LTS1},
		{"designated path", Tags{"highway": "path", "bicycle": "designated"}, LTS1},
		{"lane on quiet road", Tags{"highway": "tertiary", "cycleway": "lane", "maxspeed": "40"}, LTS2},
		{"lane on main road", Tags{"highway": "primary", "cycleway:both": "lane", "maxspeed": "60"}, LTS3},
		{"residential", Tags{"highway": "residential"}, LTS1},
		{"tertiary mixed", Tags{"highway": "tertiary", "maxspeed": "40"}, LTS2},
		{"busy mixed", Tags{"highway": "secondary", "maxspeed": "50", "lanes": "4"}, LTS4},
	}
	for _, c := range cases {
		if got := rule.Classify(c.tags); got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestConstant(t *testing.T) {
	rule := Constant{LTS: LTS3}
	if got := rule.Classify(Tags{"highway": "cycleway"}); got != LTS3 {
		t.Errorf("got %v, want lts3", got)
	}
	if got := rule.Classify(Tags{"highway": "motorway"}); got != NOT_ALLOWED {
		t.Errorf("got %v, want not_allowed", got)
	}
}

func TestRoadTypeFromString(t *testing.T) {
	for typ := MOTORWAY; typ <= STEPS; typ++ {
		if got := RoadTypeFromString(typ.String()); got != typ {
			t.Errorf("%v: got %v", typ, got)
		}
	}
	if RoadTypeFromString("") != 0 || RoadTypeFromString("busway") != 0 {
		t.Errorf("unknown types should map to 0")
	}
}
