package dotenv

import (
	"strings"
	"unicode"
)

const (
	errNoOpeningQuote = "expected value to start with a quote"
	errUnquotedSpace  = "values containing spaces must be surrounded by quotes"
)

type scanState int

const (
	stateInitial scanState = iota
	stateQuoted
	stateEscape
	stateTrailing
	stateComment
)

// ParseValue decodes the right-hand side of an assignment: quotes removed,
// escapes resolved, trailing comment stripped. An empty value (after
// trimming) decodes to the empty string. A value starting with " or ' is
// scanned with matching-quote rules; anything else must not contain raw
// whitespace outside a trailing comment.
func ParseValue(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if raw[0] == '"' || raw[0] == '\'' {
		return scanQuoted(raw, rune(raw[0]))
	}
	return scanUnquoted(raw)
}

// scanQuoted decodes a value opened by the quote character.
//
// NOTE: a missing closing quote is NOT an error. Reaching end of input while
// still inside the quotes (or mid-escape) returns whatever accumulated.
// This looseness is intentional and kept for compatibility with existing env
// files; see TestParseValue/"unterminated quote is accepted" before changing it.
func scanQuoted(raw string, quote rune) (string, error) {
	var buf strings.Builder
	state := stateInitial

	for _, c := range raw {
		switch state {
		case stateInitial:
			if c != quote {
				return "", &FormatError{Msg: errNoOpeningQuote}
			}
			state = stateQuoted

		case stateQuoted:
			switch c {
			case quote:
				state = stateTrailing
			case '\\':
				state = stateEscape
			default:
				buf.WriteRune(c)
			}

		case stateEscape:
			// \" and \\ resolve to the bare character; any other escape
			// keeps its backslash verbatim.
			if c != quote && c != '\\' {
				buf.WriteRune('\\')
			}
			buf.WriteRune(c)
			state = stateQuoted

		case stateTrailing:
			switch {
			case c == '#':
				state = stateComment
			case c == quote || unicode.IsSpace(c):
				// stray quote after the close is treated as whitespace
			default:
				return "", &FormatError{Msg: errUnquotedSpace}
			}

		case stateComment:
			// absorbs everything to end of value
		}
	}

	return strings.TrimSpace(buf.String()), nil
}

// scanUnquoted decodes a value that does not start with a quote. A trailing
// comment begins at the first "space hash" sequence and is discarded; the
// remaining head must be free of whitespace.
func scanUnquoted(raw string) (string, error) {
	head := raw
	if i := strings.Index(raw, " #"); i >= 0 {
		head = raw[:i]
	}
	head = strings.TrimSpace(head)

	if strings.IndexFunc(head, unicode.IsSpace) >= 0 {
		if strings.HasPrefix(head, "#") {
			// the whole "value" was a comment
			return "", nil
		}
		return "", &FormatError{Msg: errUnquotedSpace}
	}

	return strings.TrimSpace(head), nil
}
