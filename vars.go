package formula

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CollectVariables parses a formula and lists the variables it refers to, in
// order of first appearance and without duplicates. Dotted names are listed
// whole. Function names are not variables. The formula is not evaluated, but
// it must be syntactically valid.
func CollectVariables(src string) ([]string, error) {
	n, err := parse(strings.TrimSpace(src))
	if err != nil {
		return nil, err
	}
	return names(n), nil
}

// Vars returns the variables the formula refers to, as CollectVariables does.
func (f *Formula) Vars() []string {
	return names(f.n)
}

func names(n *node) []string {
	var r []string
	seen := make(map[string]bool)
	n.walk(func(n *node) {
		if n.kind != nodeName || seen[n.name] {
			return
		}
		seen[n.name] = true
		r = append(r, n.name)
	})
	return r
}

// NormalizeVariableKey turns a display label like "Number of Attributes" into
// a variable name like "number_of_attributes". Accents are removed, letters
// are lowercased, and each run of characters other than a-z and 0-9 becomes a
// single underscore, with none at either end.
func NormalizeVariableKey(label string) (string, error) {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(fold, label)
	if err != nil {
		return "", &KeyError{Label: label}
	}
	s = cases.Lower(language.Und).String(s)
	var b strings.Builder
	sep := false
	for _, r := range s {
		if 'a' <= r && r <= 'z' || '0' <= r && r <= '9' {
			if sep && b.Len() > 0 {
				b.WriteByte('_')
			}
			sep = false
			b.WriteRune(r)
			continue
		}
		sep = true
	}
	if b.Len() == 0 {
		return "", &KeyError{Label: label}
	}
	return b.String(), nil
}

// KeyError indicates a label with nothing usable as a variable name.
type KeyError struct {
	// Label is the label given to NormalizeVariableKey.
	Label string
}

func (err *KeyError) Error() string {
	return "no variable key in label " + strconv.Quote(err.Label)
}
