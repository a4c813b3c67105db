// Package fieldpath parses the dotted/bracketed property paths that
// validators report errors against, e.g. "Email", "Child.Name",
// "Items[2].Quantity".
package fieldpath

import (
	"strconv"
	"strings"
)

// Segment is one step of a parsed path: a field name with an optional
// bracketed index into a sequence-valued field.
type Segment struct {
	Name     string
	Index    int
	HasIndex bool
}

// Path is a parsed property path, outermost segment first.
type Path []Segment

// SyntaxError reports a malformed path string. It indicates a programming or
// configuration defect (a validator emitting paths the model layer cannot
// interpret), not a runtime data condition.
type SyntaxError struct {
	Path   string
	Reason string
}

func (e *SyntaxError) Error() string {
	return "invalid field path " + strconv.Quote(e.Path) + ": " + e.Reason
}

// Parse parses a field path string into a Path.
// Supports: "Field", "Nested.Field", "Items[2]", "Items[2].ProductID".
func Parse(path string) (Path, error) {
	if path == "" {
		return nil, &SyntaxError{Path: path, Reason: "empty path"}
	}

	var segments Path

	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, &SyntaxError{Path: path, Reason: "empty segment"}
		}

		seg := Segment{Name: part}

		// Check for index notation
		if open := strings.IndexByte(part, '['); open >= 0 {
			if !strings.HasSuffix(part, "]") {
				return nil, &SyntaxError{Path: path, Reason: "unterminated index in " + strconv.Quote(part)}
			}

			idx, err := strconv.Atoi(part[open+1 : len(part)-1])
			if err != nil || idx < 0 {
				return nil, &SyntaxError{Path: path, Reason: "index in " + strconv.Quote(part) + " is not a non-negative integer"}
			}

			seg.Name = part[:open]
			seg.Index = idx
			seg.HasIndex = true
		}

		if !isValidIdent(seg.Name) {
			return nil, &SyntaxError{Path: path, Reason: "invalid identifier " + strconv.Quote(seg.Name)}
		}

		segments = append(segments, seg)
	}

	return segments, nil
}

// String renders the path back into its canonical form.
func (p Path) String() string {
	var b strings.Builder

	for i, seg := range p {
		if i > 0 {
			b.WriteByte('.')
		}

		b.WriteString(seg.Name)

		if seg.HasIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		}
	}

	return b.String()
}

// Leaf returns the final segment's field name.
func (p Path) Leaf() string {
	return p[len(p)-1].Name
}

// isValidIdent checks if a string is a valid Go identifier.
func isValidIdent(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		if i == 0 {
			if !isLetter(r) && r != '_' {
				return false
			}
		} else {
			if !isLetter(r) && !isDigit(r) && r != '_' {
				return false
			}
		}
	}

	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
