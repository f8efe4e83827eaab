package util

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type CSVSimpleTest struct {
	Name   string  `csv:"name"`
	Age    int     `csv:"age"`
	Height float32 `csv:"height"`
	Member bool    `csv:"member"`
}

func TestCSVSimple(t *testing.T) {
	file := "./testdata/simple.csv"

	rows := make([]CSVSimpleTest, 0)
	for row, err := range ReadCSVFromFile[CSVSimpleTest](file, ';') {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rows = append(rows, row)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Name != "John" || rows[0].Age != 30 || rows[0].Height != 170 || rows[0].Member != false {
		t.Errorf("row 0 = %+v; want John", rows[0])
	}
	if rows[1].Name != "Jane" || rows[1].Age != 25 || rows[1].Height != 160 || rows[1].Member != true {
		t.Errorf("row 1 = %+v; want Jane", rows[1])
	}
	if rows[2].Name != "Joe" || rows[2].Age != 35 || rows[2].Height != 175 || rows[2].Member != true {
		t.Errorf("row 2 = %+v; want Joe", rows[2])
	}
}

func TestCSVError(t *testing.T) {
	file := "./testdata/error.csv"

	rows := make([]CSVSimpleTest, 0)
	errs := make([]error, 0)
	for row, err := range ReadCSVFromFile[CSVSimpleTest](file, ';') {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Height != 170.5 {
		t.Errorf("row 0 height = %v; want 170.5", rows[0].Height)
	}
	if rows[1].Name != "Joe" {
		t.Errorf("row 1 name = %v; want Joe", rows[1].Name)
	}
	// the record with an extra field and the one with an empty height
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if !errors.Is(errs[0], csv.ErrFieldCount) || !strings.Contains(errs[0].Error(), "row 2") {
		t.Errorf("got %v; want field count error in row 2", errs[0])
	}
	if !errors.Is(errs[1], ErrEmptyValue) || !strings.Contains(errs[1].Error(), "row 4 column height") {
		t.Errorf("got %v; want empty height in row 4", errs[1])
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestCSVBadNumber(t *testing.T) {
	file := writeCSV(t, "name;age;height;member\nJohn;30;1.5x;false\nJane;25;160;true\n")

	rows := make([]CSVSimpleTest, 0)
	errs := make([]error, 0)
	for row, err := range ReadCSVFromFile[CSVSimpleTest](file, ';') {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rows = append(rows, row)
	}
	if len(errs) != 1 || !errors.Is(errs[0], strconv.ErrSyntax) {
		t.Fatalf("got errors %v; want one syntax error", errs)
	}
	if !strings.Contains(errs[0].Error(), "row 1 column height") {
		t.Errorf("error %q does not name the row and column", errs[0])
	}
	if len(rows) != 1 || rows[0].Name != "Jane" {
		t.Errorf("got rows %+v; want only Jane", rows)
	}
}

func TestCSVMissingColumn(t *testing.T) {
	file := writeCSV(t, "name;height;member\nJohn;170;false\n")

	count := 0
	for _, err := range ReadCSVFromFile[CSVSimpleTest](file, ';') {
		if !errors.Is(err, ErrMissingColumn) || !strings.Contains(err.Error(), "age") {
			t.Errorf("got %v; want missing column age", err)
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected a single error, got %d yields", count)
	}
}

type CSVOptionalTest struct {
	Name  string  `csv:"name"`
	Score float64 `csv:"score,optional"`
}

func TestCSVOptionalColumn(t *testing.T) {
	missing := writeCSV(t, "name\nJohn\n")
	for row, err := range ReadCSVFromFile[CSVOptionalTest](missing, ';') {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if row.Name != "John" || row.Score != 0 {
			t.Errorf("got %+v", row)
		}
	}

	empty := writeCSV(t, "name;score\nJohn;\nJane;2.5\n")
	rows := make([]CSVOptionalTest, 0)
	for row, err := range ReadCSVFromFile[CSVOptionalTest](empty, ';') {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rows = append(rows, row)
	}
	if len(rows) != 2 || rows[0].Score != 0 || rows[1].Score != 2.5 {
		t.Errorf("got rows %+v", rows)
	}
}

func TestCSVMissingFile(t *testing.T) {
	count := 0
	for _, err := range ReadCSVFromFile[CSVSimpleTest]("./testdata/missing.csv", ';') {
		if err == nil {
			t.Errorf("expected error for missing file")
		}
		count++
	}
	if count != 1 {
		t.Errorf("expected a single error, got %d yields", count)
	}
}

type record struct {
	A int32
	B int64
}

func TestBufferRoundTrip(t *testing.T) {
	writer := NewBufferWriter()
	Write(writer, int32(7))
	WriteArray(writer, []record{{1, 2}, {3, 4}})
	Write(writer, uint64(99))

	file := filepath.Join(t.TempDir(), "buffer.bin")
	if err := WriteCompressedFile(writer.Bytes(), file); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := ReadCompressedFile(file)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	reader := NewBufferReader(data)
	if v := Read[int32](reader); v != 7 {
		t.Errorf("got %d, want 7", v)
	}
	arr := ReadArray[record](reader)
	if len(arr) != 2 || arr[1] != (record{3, 4}) {
		t.Errorf("got %v", arr)
	}
	if v := Read[uint64](reader); v != 99 {
		t.Errorf("got %d, want 99", v)
	}
	if reader.Err() != nil {
		t.Errorf("unexpected error: %v", reader.Err())
	}

	// reading past the end keeps the first error
	Read[int64](reader)
	if reader.Err() == nil {
		t.Errorf("expected error when reading past the end")
	}
}

func TestReadArrayRejectsBadLength(t *testing.T) {
	writer := NewBufferWriter()
	Write(writer, int32(1000))
	Write(writer, int32(1))
	reader := NewBufferReader(writer.Bytes())
	if arr := ReadArray[int32](reader); arr != nil {
		t.Errorf("expected nil array, got %v", arr)
	}
	if reader.Err() == nil {
		t.Errorf("expected error for truncated array")
	}
}

func TestPriorityQueue(t *testing.T) {
	pq := NewPriorityQueue[string, int32](4)
	pq.Enqueue("c", 3)
	pq.Enqueue("a", 1)
	pq.Enqueue("b", 2)
	if p, _ := pq.Peek(); p != 1 {
		t.Errorf("peek = %d, want 1", p)
	}
	for _, want := range []string{"a", "b", "c"} {
		got, ok := pq.Dequeue()
		if !ok || got != want {
			t.Errorf("dequeue = %v, want %v", got, want)
		}
	}
	if _, ok := pq.Dequeue(); ok {
		t.Errorf("expected empty queue")
	}
}

func TestFlagsReset(t *testing.T) {
	flags := NewFlags[int32](5, -1)
	*flags.Get(2) = 10
	*flags.Get(4) = 20
	flags.Reset()
	for i := int32(0); i < 5; i++ {
		if *flags.Get(i) != -1 {
			t.Errorf("flag %d not reset", i)
		}
	}
}
