package channels

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestExtractRef(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"handle", "@errornil", "@errornil", true},
		{"handle url", "https://www.youtube.com/@errornil", "@errornil", true},
		{"handle url with path", "https://www.youtube.com/@errornil/videos", "@errornil", true},
		{"channel url", "https://www.youtube.com/channel/UCabc_123-XY", "UCabc_123-XY", true},
		{"channel path", "/channel/UCabc_123-XY", "UCabc_123-XY", true},
		{"channel path no slash", "channel/UCabc_123-XY", "UCabc_123-XY", true},
		{"bare id", "UCabc_123-XY", "UCabc_123-XY", true},
		{"whitespace", "  @errornil  ", "@errornil", true},
		{"empty", "", "", false},
		{"garbage", "not a channel", "", false},
		{"video url", "https://www.youtube.com/watch?v=abc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractRef(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ExtractRef(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	content := `# header comment

@first
https://www.youtube.com/@second
this line is invalid
UCthird_channel_id
`
	path := filepath.Join(t.TempDir(), "channels.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	want := []string{"@first", "@second", "UCthird_channel_id"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseFile = %v, want %v", got, want)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
