package util

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//*******************************************
// binary buffers
//*******************************************

func NewBufferReader(data []byte) *BufferReader {
	return &BufferReader{
		reader: bytes.NewReader(data),
	}
}

// BufferReader reads little-endian values. The first failure is kept and
// every later read returns zero values, so callers check Err once at the end.
type BufferReader struct {
	reader *bytes.Reader
	err    error
}

func (r *BufferReader) Err() error {
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *BufferReader) Remaining() int {
	return r.reader.Len()
}

func Read[T any](reader *BufferReader) T {
	var value T
	if reader.err != nil {
		return value
	}
	if err := binary.Read(reader.reader, binary.LittleEndian, &value); err != nil {
		reader.err = err
	}
	return value
}

func ReadArray[T any](reader *BufferReader) []T {
	size := Read[int32](reader)
	if reader.err != nil {
		return nil
	}
	var elem T
	elem_size := binary.Size(elem)
	if size < 0 || elem_size <= 0 || int(size)*elem_size > reader.reader.Len() {
		reader.err = fmt.Errorf("invalid array length %d", size)
		return nil
	}
	value := make([]T, size)
	if err := binary.Read(reader.reader, binary.LittleEndian, value); err != nil {
		reader.err = err
		return nil
	}
	return value
}

func NewBufferWriter() *BufferWriter {
	return &BufferWriter{
		buffer: &bytes.Buffer{},
	}
}

type BufferWriter struct {
	buffer *bytes.Buffer
}

func (w *BufferWriter) Bytes() []byte {
	return w.buffer.Bytes()
}

func Write[T any](writer *BufferWriter, value T) {
	// writes into a bytes.Buffer only fail for non fixed-size types
	if err := binary.Write(writer.buffer, binary.LittleEndian, value); err != nil {
		panic(err)
	}
}

func WriteArray[T any](writer *BufferWriter, value []T) {
	Write(writer, int32(len(value)))
	Write(writer, value)
}

//*******************************************
// compressed files
//*******************************************

// WriteCompressedFile zstd-compresses data into file.
func WriteCompressedFile(data []byte, file string) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := enc.Write(data); err != nil {
		enc.Close()
		f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadCompressedFile(file string) ([]byte, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// NewCompressedWriter wraps w in a zstd stream; closing it flushes the frame
// but leaves w open.
func NewCompressedWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w)
}

func NewCompressedReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

//*******************************************
// json files
//*******************************************

func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0o644)
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := os.ReadFile(file)
	if err != nil {
		return value, err
	}
	err = json.Unmarshal(data, &value)
	return value, err
}

//*******************************************
// csv files
//*******************************************

var (
	ErrMissingColumn = errors.New("missing csv column")
	ErrEmptyValue    = errors.New("empty csv value")
)

// ReadCSVFromFile yields one T per record, filling fields by their `csv`
// tag. A tag names a required column unless it carries the `optional` option
// (`csv:"weight,optional"`). A missing required column, a record with a wrong
// field count and a value that does not parse each yield an error; an empty
// value is only accepted for string fields and optional columns. Failing to
// open the file or read its header yields a single error.
func ReadCSVFromFile[T any](filename string, delimiter rune) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		file, err := os.Open(filename)
		if err != nil {
			yield(zero, err)
			return
		}
		defer file.Close()

		reader := csv.NewReader(file)
		reader.Comma = delimiter
		reader.TrimLeadingSpace = true
		header, err := reader.Read()
		if err != nil {
			yield(zero, fmt.Errorf("read csv header of %s: %w", filename, err))
			return
		}
		name_row_mapping := make(map[string]int, len(header))
		for i, name := range header {
			name_row_mapping[name] = i
		}

		typ := reflect.TypeOf(zero)
		type field struct {
			index    int
			row      int
			name     string
			kind     reflect.Kind
			optional bool
		}
		fields := make([]field, 0, typ.NumField())
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			tag := f.Tag.Get("csv")
			if tag == "" {
				continue
			}
			name, opts, _ := strings.Cut(tag, ",")
			optional := opts == "optional"
			row, ok := name_row_mapping[name]
			if !ok {
				if optional {
					continue
				}
				yield(zero, fmt.Errorf("read csv %s: %w: %s", filename, ErrMissingColumn, name))
				return
			}
			var kind reflect.Kind
			switch f.Type.Kind() {
			case reflect.Bool:
				kind = reflect.Bool
			case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
				kind = reflect.Int
			case reflect.Float32, reflect.Float64:
				kind = reflect.Float64
			case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
				kind = reflect.Uint
			case reflect.String:
				kind = reflect.String
			default:
				continue
			}
			fields = append(fields, field{i, row, name, kind, optional})
		}

		row_number := 0
		for {
			record, err := reader.Read()
			if err == io.EOF {
				break
			}
			row_number += 1
			if err != nil {
				if !yield(zero, fmt.Errorf("row %d: %w", row_number, err)) {
					return
				}
				continue
			}
			t := reflect.New(typ).Elem()
			var row_err error
			for _, fd := range fields {
				value := record[fd.row]
				if value == "" {
					if fd.optional || fd.kind == reflect.String {
						continue
					}
					row_err = fmt.Errorf("row %d column %s: %w", row_number, fd.name, ErrEmptyValue)
					break
				}
				f := t.Field(fd.index)
				switch fd.kind {
				case reflect.Bool:
					var v bool
					v, err = strconv.ParseBool(value)
					f.SetBool(v)
				case reflect.Int:
					var v int64
					v, err = strconv.ParseInt(value, 10, f.Type().Bits())
					f.SetInt(v)
				case reflect.Uint:
					var v uint64
					v, err = strconv.ParseUint(value, 10, f.Type().Bits())
					f.SetUint(v)
				case reflect.Float64:
					var v float64
					v, err = strconv.ParseFloat(value, f.Type().Bits())
					f.SetFloat(v)
				case reflect.String:
					f.SetString(value)
				}
				if err != nil {
					row_err = fmt.Errorf("row %d column %s: %w", row_number, fd.name, err)
					break
				}
			}
			if row_err != nil {
				if !yield(zero, row_err) {
					return
				}
				continue
			}
			if !yield(t.Interface().(T), nil) {
				return
			}
		}
	}
}
