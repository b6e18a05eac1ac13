package extract

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// UnknownModule is the module identifier of documents without a "Modules" name.
const UnknownModule = "Unknown"

var (
	ErrNotText       = errors.New("document is not valid UTF-8 text")
	ErrEmptyDocument = errors.New("document is empty")
	ErrNoQuestions   = errors.New("document has no numbered questions")
)

var moduleNamePattern = regexp.MustCompile(`(?i)modules\s+(\d+(?:\s*-\s*\d+)?)`)

// Document is one source exam sheet, read once and never mutated.
type Document struct {
	Name   string
	Module string
	Text   string
}

// ModuleFromName derives the module identifier from a document name, e.g.
// "Econ Modules 1 - 3 practice.txt" -> "1-3".
func ModuleFromName(name string) string {
	m := moduleNamePattern.FindStringSubmatch(name)
	if m == nil {
		return UnknownModule
	}
	return strings.Join(strings.Fields(m[1]), "")
}

// NewDocument validates and normalizes raw bytes read from name.
func NewDocument(name string, raw []byte) (Document, error) {
	if !utf8.Valid(raw) {
		return Document{}, ErrNotText
	}
	text := Normalize(string(raw))
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyDocument
	}
	return Document{
		Name:   name,
		Module: ModuleFromName(name),
		Text:   text,
	}, nil
}
