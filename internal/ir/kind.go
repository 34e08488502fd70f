package ir

import (
	"fmt"
	"strings"
)

// Kind is the TIMEX3 type of an expression.
type Kind int

// Kinds in extraction order. Ids are assigned in this order within a
// sentence.
const (
	Date Kind = iota + 1
	Time
	Duration
	Set
)

// Kinds lists every kind in extraction order.
var Kinds = []Kind{Date, Time, Duration, Set}

var kindNames = map[Kind]string{
	Date:     "DATE",
	Time:     "TIME",
	Duration: "DURATION",
	Set:      "SET",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind reads a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == up {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown expression kind %q", s)
}

// Resolvable reports whether expressions of this kind go through
// disambiguation.
func (k Kind) Resolvable() bool {
	return k == Date || k == Time
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("invalid kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// DocumentType selects how relative expressions are anchored.
type DocumentType string

const (
	News       DocumentType = "news"
	Narrative  DocumentType = "narrative"
	Colloquial DocumentType = "colloquial"
	Scientific DocumentType = "scientific"
)

// ParseDocumentType validates s. The empty string means News.
func ParseDocumentType(s string) (DocumentType, error) {
	switch t := DocumentType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return News, nil
	case News, Narrative, Colloquial, Scientific:
		return t, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// UsesDCT reports whether documents of this type resolve relative
// expressions against their creation time.
func (t DocumentType) UsesDCT() bool {
	return t == News
}
