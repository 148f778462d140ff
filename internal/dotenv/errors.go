package dotenv

import "fmt"

// PathError reports that an env file could not be opened or read. It is
// returned before any parsing is attempted.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("env file %s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// FormatError reports a value that cannot be decoded unambiguously.
// Line is 1-based and zero when the value was parsed outside a file.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}
