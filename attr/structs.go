package attr

import "strings"

//*******************************************
// osm tags
//*******************************************

// Tags holds the raw key/value tags of a way.
type Tags map[string]string

func (t Tags) Get(key string) string {
	return t[key]
}

func (t Tags) Has(key string) bool {
	_, ok := t[key]
	return ok
}

func (t Tags) Is(key, value string) bool {
	return t[key] == value
}

func (t Tags) IsAny(key string, values ...string) bool {
	v, ok := t[key]
	if !ok {
		return false
	}
	for _, value := range values {
		if v == value {
			return true
		}
	}
	return false
}

// HasPrefixValue reports whether any key starting with prefix has value.
func (t Tags) HasPrefixValue(prefix, value string) bool {
	for k, v := range t {
		if strings.HasPrefix(k, prefix) && v == value {
			return true
		}
	}
	return false
}

func (t Tags) RoadType() RoadType {
	return RoadTypeFromString(t["highway"])
}
