// Package naming infers and renders binding-name conventions.
// It has no I/O; classification and transcoding are pure functions
// over the binding names already present in a deployment config.
package naming

import (
	"regexp"
	"strings"
)

// Style is one of the four recognized binding-name conventions.
type Style string

const (
	// StyleUndetermined means no unanimous convention could be inferred.
	StyleUndetermined Style = ""
	StyleCamel        Style = "camelCase"
	StylePascal       Style = "PascalCase"
	StyleUpperSnake   Style = "UPPER_SNAKE_CASE"
	StyleLowerSnake   Style = "lower_snake_case"
)

// Styles lists the recognized conventions in their fixed matching order.
// The order matters: a name like "kv" satisfies both the camelCase and
// lower_snake_case patterns, and the first unanimous pattern wins.
var Styles = []Style{StyleCamel, StylePascal, StyleUpperSnake, StyleLowerSnake}

var stylePatterns = map[Style]*regexp.Regexp{
	StyleCamel:      regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`),
	StylePascal:     regexp.MustCompile(`^[A-Z][a-zA-Z0-9]*$`),
	StyleUpperSnake: regexp.MustCompile(`^[A-Z0-9]+(_[A-Z0-9]+)*$`),
	StyleLowerSnake: regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`),
}

// Matches reports whether name satisfies the style's recognition pattern.
func (s Style) Matches(name string) bool {
	re, ok := stylePatterns[s]
	if !ok {
		return false
	}
	return re.MatchString(name)
}

// Valid reports whether s is one of the four concrete styles.
func (s Style) Valid() bool {
	_, ok := stylePatterns[s]
	return ok
}

// Category is a group of existing binding names from one section of the
// deployment config (kv namespaces, services, and so on).
type Category struct {
	Name     string
	Bindings []string
}

// Classify infers a Style from existing bindings. Categories are checked
// in the order given; the first non-empty category whose names all match a
// single pattern decides the style. Empty categories cannot match
// vacuously. When no category is unanimous, Classify returns
// StyleUndetermined and ok=false, and the caller falls back to asking the
// operator.
//
// When several categories each unanimously match a different style, the
// first one in the priority order wins; the returned category name lets
// callers surface which section decided.
func Classify(categories []Category) (style Style, category string, ok bool) {
	for _, cat := range categories {
		if len(cat.Bindings) == 0 {
			continue
		}
		if s, found := unanimousStyle(cat.Bindings); found {
			return s, cat.Name, true
		}
	}
	return StyleUndetermined, "", false
}

// unanimousStyle returns the first style that every name matches.
func unanimousStyle(names []string) (Style, bool) {
	for _, s := range Styles {
		all := true
		for _, name := range names {
			if !s.Matches(name) {
				all = false
				break
			}
		}
		if all {
			return s, true
		}
	}
	return StyleUndetermined, false
}

// Transcode renders a PascalCase class identifier in the target style.
// Word boundaries fall before every uppercase letter, so "FooBarActor"
// splits into Foo/Bar/Actor. The transform is total for well-formed
// PascalCase inputs; it never introduces characters outside letters,
// digits, and underscore.
func Transcode(pascal string, style Style) string {
	if style == StylePascal {
		return pascal
	}

	words := splitPascalWords(pascal)
	switch style {
	case StyleCamel:
		if len(words) == 0 {
			return pascal
		}
		words[0] = strings.ToLower(words[0])
		return strings.Join(words, "")
	case StyleUpperSnake:
		for i, w := range words {
			words[i] = strings.ToUpper(w)
		}
		return strings.Join(words, "_")
	case StyleLowerSnake:
		for i, w := range words {
			words[i] = strings.ToLower(w)
		}
		return strings.Join(words, "_")
	}
	return pascal
}

// splitPascalWords splits at each uppercase letter. Digits and lowercase
// letters stay attached to the word opened by the preceding uppercase
// letter.
func splitPascalWords(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			words = append(words, s[start:i])
			start = i
		}
	}
	if start < len(s) {
		words = append(words, s[start:])
	}
	return words
}
