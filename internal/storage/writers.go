package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// RecordWriter appends one record at a time, so comment pages can be written
// as they stream in. Close flushes; Count reports rows written so far.
type RecordWriter interface {
	Write(rec map[string]any) error
	Count() int
	Close() error
}

// NewRecordWriter opens a streaming writer at path. CSV needs the column
// order up front; jsonl ignores fields.
func NewRecordWriter(path string, format Format, fields []string) (RecordWriter, error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	if format == FormatCSV {
		w := csv.NewWriter(f)
		if err := w.Write(fields); err != nil {
			f.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		return &csvWriter{f: f, w: w, fields: fields}, nil
	}
	return &jsonlWriter{f: f, w: bufio.NewWriter(f)}, nil
}

type jsonlWriter struct {
	f     *os.File
	w     *bufio.Writer
	count int
}

func (j *jsonlWriter) Write(rec map[string]any) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := j.w.Write(append(data, '\n')); err != nil {
		return err
	}
	j.count++
	return nil
}

func (j *jsonlWriter) Count() int { return j.count }

func (j *jsonlWriter) Close() error {
	if err := j.w.Flush(); err != nil {
		j.f.Close()
		return err
	}
	return j.f.Close()
}

type csvWriter struct {
	f      *os.File
	w      *csv.Writer
	fields []string
	count  int
}

func (c *csvWriter) Write(rec map[string]any) error {
	row := make([]string, len(c.fields))
	for i, field := range c.fields {
		row[i] = csvValue(rec[field])
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.count++
	return nil
}

func (c *csvWriter) Count() int { return c.count }

func (c *csvWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

// csvValue flattens one cell: null becomes empty, booleans lowercase,
// structured values JSON-encoded.
func csvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]any, []any:
		data, _ := json.Marshal(val)
		return string(data)
	default:
		return fmt.Sprint(val)
	}
}

// WriteJSON writes one indented JSON document, creating parent directories.
func WriteJSON(path string, payload any) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0o644)
}

// RecordMap converts a typed record into the map shape the writers take,
// preserving the record's JSON field names. The storage boundary adds
// metadata fields to this map, never to the typed record.
func RecordMap(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	return nil
}
