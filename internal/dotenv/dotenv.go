// Package dotenv parses NAME=VALUE configuration files into string maps.
//
// Full-line comments (first non-space character #) and lines without = are
// skipped. Assignments split at the first =; names are trimmed as-is, values
// are decoded by ParseValue. Later assignments to the same name win.
package dotenv

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 512 * 1024

// Parse reads env assignments from r and returns the resulting mapping.
// Parsing stops at the first undecodable value; the variables decoded before
// the failing line are still returned alongside the *FormatError.
func Parse(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, maxLineBytes), maxLineBytes)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" || isComment(line) || !looksLikeAssignment(line) {
			continue
		}

		name, rawValue := splitAssignment(line)
		value, err := ParseValue(rawValue)
		if err != nil {
			var ferr *FormatError
			if errors.As(err, &ferr) {
				ferr.Line = lineNum
			}
			return vars, err
		}
		vars[name] = value
	}
	if err := scanner.Err(); err != nil {
		return vars, fmt.Errorf("read input: %w", err)
	}

	return vars, nil
}

// Load parses the env file at path. Open and read failures are reported as
// *PathError before any parsing happens.
func Load(path string) (map[string]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &PathError{Path: path, Err: errors.New("not a regular file")}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &PathError{Path: path, Err: err}
	}
	defer f.Close()

	return Parse(f)
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

func looksLikeAssignment(line string) bool {
	return strings.Contains(line, "=")
}

// splitAssignment splits at the first =, never a later one, so values may
// contain = freely.
func splitAssignment(line string) (name, rawValue string) {
	name, rawValue, _ = strings.Cut(line, "=")
	return strings.TrimSpace(name), strings.TrimSpace(rawValue)
}
