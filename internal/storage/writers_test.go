package storage

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jsonl")
	w, err := NewRecordWriter(path, FormatJSONL, nil)
	if err != nil {
		t.Fatalf("NewRecordWriter: %v", err)
	}

	recs := []map[string]any{
		{"cid": "c1", "votes": "12", "heart": true},
		{"cid": "c2", "votes": "0", "heart": false},
	}
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	var lines int
	for sc.Scan() {
		var got map[string]any
		if err := json.Unmarshal(sc.Bytes(), &got); err != nil {
			t.Fatalf("line %d not JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("wrote %d lines, want 2", lines)
	}
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	fields := []string{"cid", "votes", "heart", "view_count"}
	w, err := NewRecordWriter(path, FormatCSV, fields)
	if err != nil {
		t.Fatalf("NewRecordWriter: %v", err)
	}
	if err := w.Write(map[string]any{
		"cid":        "c1",
		"votes":      "12",
		"heart":      true,
		"view_count": nil,
		"extra":      "dropped",
	}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !reflect.DeepEqual(rows[0], fields) {
		t.Errorf("header = %v, want %v", rows[0], fields)
	}
	want := []string{"c1", "12", "true", ""}
	if !reflect.DeepEqual(rows[1], want) {
		t.Errorf("row = %v, want %v", rows[1], want)
	}
}

func TestCSVValue(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "true"},
		{float64(123456), "123456"},
		{10.4166, "10.4166"},
		{int64(7), "7"},
		{[]any{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		if got := csvValue(tt.in); got != tt.want {
			t.Errorf("csvValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "videos.json")
	payload := map[string]any{"channel_id": "UCx", "total_videos": 2}
	if err := WriteJSON(path, payload); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output not JSON: %v", err)
	}
	if got["channel_id"] != "UCx" {
		t.Errorf("payload = %v", got)
	}
}

func TestRecordMap(t *testing.T) {
	type rec struct {
		VideoID   string `json:"video_id"`
		ViewCount *int64 `json:"view_count"`
	}
	m, err := RecordMap(rec{VideoID: "abc"})
	if err != nil {
		t.Fatalf("RecordMap: %v", err)
	}
	if m["video_id"] != "abc" {
		t.Errorf("video_id = %v", m["video_id"])
	}
	if v, present := m["view_count"]; !present || v != nil {
		t.Errorf("nil pointer field should map to explicit null, got %v (present %v)", v, present)
	}
}
