// Package envfile edits .env files in place while preserving their layout.
// Comments, blank lines and unparseable lines survive a Load/Save round trip
// byte for byte; only variables changed through Set are re-rendered.
package envfile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/xmazu/envrun/internal/dotenv"
)

type File struct {
	path     string
	lines    []*Line
	keyIndex map[string]int
}

func New(path string) *File {
	return &File{
		path:     path,
		lines:    []*Line{},
		keyIndex: make(map[string]int),
	}
}

// Load reads the env file at path. A missing file yields an empty File so
// the first Set/Save creates it.
func Load(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(path), nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	f := New(path)

	scanner := bufio.NewScanner(file)
	const maxCapacity = 512 * 1024
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		f.parseLine(scanner.Text(), lineNum)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return f, nil
}

func (f *File) parseLine(raw string, num int) {
	trimmed := strings.TrimSpace(raw)

	line := &Line{Num: num, Raw: raw}
	switch {
	case trimmed == "":
		line.Type = LineTypeEmpty
	case strings.HasPrefix(trimmed, "#"):
		line.Type = LineTypeComment
	case !strings.Contains(raw, "="):
		line.Type = LineTypeOther
	default:
		key, rawValue, _ := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)

		value, err := dotenv.ParseValue(rawValue)
		if err != nil || key == "" {
			line.Type = LineTypeOther
			break
		}

		line.Type = LineTypeVariable
		line.Key = key
		line.Value = value
		f.keyIndex[key] = len(f.lines)
	}

	f.lines = append(f.lines, line)
}

func (f *File) Get(key string) (string, bool) {
	idx, ok := f.keyIndex[key]
	if !ok {
		return "", false
	}
	return f.lines[idx].Value, true
}

func (f *File) Set(key, value string) {
	if idx, exists := f.keyIndex[key]; exists {
		f.lines[idx].Value = value
		f.lines[idx].dirty = true
		return
	}

	idx := len(f.lines)
	f.lines = append(f.lines, &Line{
		Type:  LineTypeVariable,
		Num:   idx + 1,
		Key:   key,
		Value: value,
		dirty: true,
	})
	f.keyIndex[key] = idx
}

// Delete removes the variable line for key. It reports whether the key was
// present.
func (f *File) Delete(key string) bool {
	idx, ok := f.keyIndex[key]
	if !ok {
		return false
	}
	f.lines = append(f.lines[:idx], f.lines[idx+1:]...)
	f.keyIndex = make(map[string]int)
	for i, line := range f.lines {
		if line.Type == LineTypeVariable {
			f.keyIndex[line.Key] = i
		}
	}
	return true
}

// Keys returns variable names in file order. Duplicate assignments report
// once, at the position the parser honors (the last one).
func (f *File) Keys() []string {
	keys := make([]string, 0, len(f.keyIndex))
	for i, line := range f.lines {
		if line.Type == LineTypeVariable && f.keyIndex[line.Key] == i {
			keys = append(keys, line.Key)
		}
	}
	return keys
}

func (f *File) Save() error {
	file, err := os.Create(f.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.path, err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, line := range f.lines {
		if line.Type == LineTypeVariable && line.dirty {
			fmt.Fprintf(writer, "%s=%s\n", line.Key, quoteValue(line.Value))
			continue
		}
		fmt.Fprintln(writer, line.Raw)
	}
	return writer.Flush()
}

// quoteValue renders a value so it re-parses to itself: anything with
// whitespace, a hash, a quote or a backslash gets double quotes with \" and
// \\ escapes.
func quoteValue(v string) string {
	needsQuotes := strings.IndexFunc(v, func(r rune) bool {
		return unicode.IsSpace(r) || r == '#' || r == '"' || r == '\'' || r == '\\'
	}) >= 0

	if !needsQuotes {
		return v
	}
	escaped := strings.ReplaceAll(v, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}
