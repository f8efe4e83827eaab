package od

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ttpr0/go-cycleflow/geo"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFromCSV(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "od.csv", "origin_lon,origin_lat,destination_lon,destination_lat,weight\n"+
		"-0.1,51.5,-0.2,51.6,0.5\n"+
		"-0.3,51.4,-0.1,51.5,\n")

	demands, err := FromCSV{Path: "od.csv"}.Generate(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(demands) != 2 {
		t.Fatalf("expected 2 demands, got %d", len(demands))
	}
	if demands[0].Weight != 0.5 || demands[1].Weight != 1 {
		t.Errorf("unexpected weights %v %v", demands[0].Weight, demands[1].Weight)
	}
	if demands[0].Origin != geo.FromDegrees(-0.1, 51.5) {
		t.Errorf("unexpected origin %v", demands[0].Origin)
	}
	if demands[1].Destination != geo.FromDegrees(-0.1, 51.5) {
		t.Errorf("unexpected destination %v", demands[1].Destination)
	}
}

func TestFromCSVRejectsWeight(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "od.csv", "origin_lon,origin_lat,destination_lon,destination_lat,weight\n"+
		"-0.1,51.5,-0.2,51.6,1.5\n")
	if _, err := (FromCSV{Path: "od.csv"}).Generate(dir, 0); err == nil {
		t.Error("expected error for weight above 1")
	}

	writeFile(t, dir, "bad.csv", "origin_lon,origin_lat,destination_lon,destination_lat,weight\n"+
		"-0.1,51.5,-0.2,51.6,abc\n")
	if _, err := (FromCSV{Path: "bad.csv"}).Generate(dir, 0); err == nil {
		t.Error("expected error for unparsable weight")
	}
}

func TestFromCSVRejectsMalformedRows(t *testing.T) {
	header := "origin_lon,origin_lat,destination_lon,destination_lat,weight\n"
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bad number", header + "-1.5x,53.8,-1.6,53.9,1\n", "row 1 column origin_lon"},
		{"short row", header + "-1.5,53.8,-1.6,53.9,1\n-1.5,53.8,-1.6\n", "row 2"},
		{"missing column", "origin_lat,destination_lon,destination_lat,weight\n53.8,-1.6,53.9,1\n", "origin_lon"},
		{"empty coordinate", header + ",53.8,-1.6,53.9,1\n", "row 1 column origin_lon"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "od.csv", c.content)
			demands, err := FromCSV{Path: "od.csv"}.Generate(dir, 0)
			if err == nil {
				t.Fatalf("expected error, got %d demands", len(demands))
			}
			if !strings.Contains(err.Error(), c.want) {
				t.Errorf("error %q does not mention %q", err, c.want)
			}
		})
	}
}

func TestFromCSVWithoutWeightColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "od.csv", "origin_lon,origin_lat,destination_lon,destination_lat\n-0.1,51.5,-0.2,51.6\n")
	demands, err := FromCSV{Path: "od.csv"}.Generate(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(demands) != 1 || demands[0].Weight != 1 {
		t.Errorf("got %+v; want one demand with weight 1", demands)
	}
}

func TestFromCSVMissingFile(t *testing.T) {
	if _, err := (FromCSV{Path: "missing.csv"}).Generate(t.TempDir(), 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFromGeoJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "od.geojson", `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"weight":0.25},"geometry":{"type":"LineString","coordinates":[[1,2],[1.5,2.5],[3,4]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[5,6],[7,8]]}}
	]}`)

	demands, err := FromGeoJSON{Path: "od.geojson"}.Generate(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(demands) != 2 {
		t.Fatalf("expected 2 demands, got %d", len(demands))
	}
	if demands[0].Origin != geo.FromDegrees(1, 2) || demands[0].Destination != geo.FromDegrees(3, 4) {
		t.Errorf("unexpected endpoints %v %v", demands[0].Origin, demands[0].Destination)
	}
	if demands[0].Weight != 0.25 || demands[1].Weight != 1 {
		t.Errorf("unexpected weights %v %v", demands[0].Weight, demands[1].Weight)
	}
}

func TestFromGeoJSONRejectsPoint(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "od.geojson", `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,2]}}
	]}`)
	if _, err := (FromGeoJSON{Path: "od.geojson"}).Generate(dir, 0); err == nil {
		t.Error("expected error for point feature")
	}
}

const points = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[1,1]}},
	{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[2,2]}},
	{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[3,3]}}
]}`

func TestBetweenPointsSeeded(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "origins.geojson", points)
	writeFile(t, dir, "destinations.geojson", points)
	gen := BetweenPoints{Origins: "origins.geojson", Destinations: "destinations.geojson", Count: 50}

	a, err := gen.Generate(dir, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := gen.Generate(dir, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 50 {
		t.Fatalf("expected 50 demands, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("demand %d differs between runs with the same seed", i)
		}
	}
}

func TestFromEveryOriginToOneDestination(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "origins.geojson", points)
	gen := FromEveryOriginToOneDestination{Origins: "origins.geojson", Destination: [2]float64{9, 9}}

	demands, err := gen.Generate(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(demands) != 3 {
		t.Fatalf("expected 3 demands, got %d", len(demands))
	}
	for i, d := range demands {
		if d.Destination != geo.FromDegrees(9, 9) {
			t.Errorf("demand %d: unexpected destination %v", i, d.Destination)
		}
		if d.Origin != geo.FromDegrees(float64(i+1), float64(i+1)) {
			t.Errorf("demand %d: unexpected origin %v", i, d.Origin)
		}
	}
}
