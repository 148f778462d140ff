package dotenv

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "simple assignment",
			input: "KEY=value\n",
			want:  map[string]string{"KEY": "value"},
		},
		{
			name:  "quoted values",
			input: "A=\"hello world\"\nB='it is fine'\n",
			want:  map[string]string{"A": "hello world", "B": "it is fine"},
		},
		{
			name:  "comments and blanks skipped",
			input: "# header\n\n  # indented, even with = inside\nKEY=value\n",
			want:  map[string]string{"KEY": "value"},
		},
		{
			name:  "line without equals ignored",
			input: "not an assignment\nKEY=value\n",
			want:  map[string]string{"KEY": "value"},
		},
		{
			name:  "empty value",
			input: "KEY=\n",
			want:  map[string]string{"KEY": ""},
		},
		{
			name:  "last assignment wins",
			input: "KEY=1\nKEY=2\n",
			want:  map[string]string{"KEY": "2"},
		},
		{
			name:  "inline comments",
			input: "A=\"value\" # note\nB=value # note\n",
			want:  map[string]string{"A": "value", "B": "value"},
		},
		{
			name:  "split at first equals only",
			input: "DSN=sqlite://a=b&c=d\n",
			want:  map[string]string{"DSN": "sqlite://a=b&c=d"},
		},
		{
			name:  "names trimmed but never unquoted",
			input: "  KEY  =value\n\"Q\"=value\n",
			want:  map[string]string{"KEY": "value", `"Q"`: "value"},
		},
		{
			name:  "no final newline",
			input: "KEY=value",
			want:  map[string]string{"KEY": "value"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormatError(t *testing.T) {
	input := "GOOD=1\nBAD=foo bar\nNEVER=reached\n"

	got, err := Parse(strings.NewReader(input))
	if err == nil {
		t.Fatal("Parse() expected error, got nil")
	}

	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatalf("Parse() error type = %T, want *FormatError", err)
	}
	if ferr.Line != 2 {
		t.Errorf("FormatError.Line = %d, want 2", ferr.Line)
	}

	// fail-fast: variables before the failing line survive, nothing after
	if v := got["GOOD"]; v != "1" {
		t.Errorf("partial result GOOD = %q, want %q", v, "1")
	}
	if _, ok := got["NEVER"]; ok {
		t.Error("Parse() processed lines past the failing one")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "# service config\nHOST=localhost\nPORT=8080\nNAME=\"my app\"\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("write .env: %v", err)
		}

		got, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		want := map[string]string{"HOST": "localhost", "PORT": "8080", "NAME": "my app"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Load() = %v, want %v", got, want)
		}
	})

	t.Run("missing file is a PathError", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
		if err == nil {
			t.Fatal("Load() expected error for missing file")
		}
		var perr *PathError
		if !errors.As(err, &perr) {
			t.Fatalf("Load() error type = %T, want *PathError", err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("Load() error should wrap os.ErrNotExist, got %v", err)
		}
	})

	t.Run("directory is a PathError", func(t *testing.T) {
		_, err := Load(t.TempDir())
		var perr *PathError
		if !errors.As(err, &perr) {
			t.Fatalf("Load() error type = %T, want *PathError", err)
		}
	})

	t.Run("unreadable file is a PathError", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Getuid() == 0 {
			t.Skip("permission bits not enforced here")
		}
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("KEY=value\n"), 0000); err != nil {
			t.Fatalf("write .env: %v", err)
		}
		_, err := Load(path)
		var perr *PathError
		if !errors.As(err, &perr) {
			t.Fatalf("Load() error type = %T, want *PathError", err)
		}
	})
}
