// Package audit keeps a tamper-evident JSONL log of envrun operations.
// Each entry carries the SHA-256 of the previous line, so edits anywhere in
// the file break the chain.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	auditDir  = ".envrun"
	auditFile = "audit.jsonl"
)

var (
	ErrNoAuditLog = errors.New("no audit log found")
	mu            sync.Mutex
)

// sessionID ties together all entries written by one envrun invocation.
var sessionID = uuid.NewString()

type Op string

const (
	OpParse Op = "parse"
	OpRun   Op = "run"
	OpSet   Op = "set"
	OpCheck Op = "check"
)

type Entry struct {
	Timestamp time.Time `json:"ts"`
	Op        Op        `json:"op"`
	SessionID string    `json:"sid"`
	Files     []string  `json:"files,omitempty"`
	Keys      []string  `json:"keys,omitempty"`
	Command   string    `json:"cmd,omitempty"`
	ExitCode  int       `json:"exit,omitempty"`
	PrevHash  string    `json:"prev_hash"`
}

func auditPath(workdir string) string {
	if workdir == "" {
		workdir, _ = os.Getwd()
	}
	return filepath.Join(workdir, auditDir, auditFile)
}

func lastHash(workdir string) string {
	f, err := os.Open(auditPath(workdir))
	if err != nil {
		return ""
	}
	defer f.Close()

	var lastLine string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lastLine = scanner.Text()
	}
	if lastLine == "" {
		return ""
	}

	hash := sha256.Sum256([]byte(lastLine))
	return hex.EncodeToString(hash[:])
}

type Option func(*Entry)

func WithFiles(files []string) Option {
	return func(e *Entry) { e.Files = files }
}

func WithKeys(keys []string) Option {
	return func(e *Entry) { e.Keys = keys }
}

func WithCommand(cmd string) Option {
	return func(e *Entry) { e.Command = cmd }
}

func WithExitCode(code int) Option {
	return func(e *Entry) { e.ExitCode = code }
}

// Log appends an entry to the audit log under workdir, creating the log on
// first use.
func Log(workdir string, op Op, opts ...Option) error {
	mu.Lock()
	defer mu.Unlock()

	path := auditPath(workdir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("ensure audit dir: %w", err)
	}

	entry := &Entry{
		Timestamp: time.Now().UTC(),
		Op:        op,
		SessionID: sessionID,
		PrevHash:  lastHash(workdir),
	}
	for _, opt := range opts {
		opt(entry)
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, string(b)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// Show returns the last n entries, oldest first. n <= 0 returns everything.
func Show(workdir string, n int) ([]Entry, error) {
	f, err := os.Open(auditPath(workdir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoAuditLog
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	var entries []Entry
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type VerifyResult struct {
	TotalEntries int
	Breaks       []int // 1-based line numbers where the chain breaks
}

// Verify checks every entry's prev_hash against the hash of the previous
// line.
func Verify(workdir string) (*VerifyResult, error) {
	f, err := os.Open(auditPath(workdir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoAuditLog
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	result := &VerifyResult{TotalEntries: len(lines)}
	if len(lines) == 0 {
		return result, nil
	}

	var first Entry
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil || first.PrevHash != "" {
		result.Breaks = append(result.Breaks, 1)
	}

	for i := 1; i < len(lines); i++ {
		prevHash := sha256.Sum256([]byte(lines[i-1]))

		var entry Entry
		if err := json.Unmarshal([]byte(lines[i]), &entry); err != nil {
			result.Breaks = append(result.Breaks, i+1)
			continue
		}
		if entry.PrevHash != hex.EncodeToString(prevHash[:]) {
			result.Breaks = append(result.Breaks, i+1)
		}
	}
	return result, nil
}
