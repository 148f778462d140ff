package envfile

type LineType int

const (
	LineTypeEmpty LineType = iota
	LineTypeComment
	LineTypeVariable
	// LineTypeOther covers lines without = and lines whose value the parser
	// rejects. They are preserved verbatim on save.
	LineTypeOther
)

type Line struct {
	Type  LineType
	Num   int
	Raw   string
	Key   string
	Value string // decoded value, only set for LineTypeVariable

	dirty bool // value changed since load; Save re-renders the line
}
