package ir

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Token is one tagged word of a sentence.
type Token struct {
	Begin int    `json:"begin" yaml:"begin"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
	POS   string `json:"pos,omitempty" yaml:"pos,omitempty"` // empty when untagged
}

// Sentence is a span of the document with its tokens in reading order.
type Sentence struct {
	Begin  int     `json:"begin" yaml:"begin"`
	End    int     `json:"end" yaml:"end"`
	Tokens []Token `json:"tokens" yaml:"tokens"`
}

// Split returns the tokens wholly before begin and those starting at or
// after end, both in reading order.
func (s Sentence) Split(begin, end int) (before, after []Token) {
	for _, tok := range s.Tokens {
		switch {
		case tok.End <= begin:
			before = append(before, tok)
		case tok.Begin >= end:
			after = append(after, tok)
		}
	}
	return before, after
}

// TokenAt returns the token starting at offset.
func (s Sentence) TokenAt(offset int) (Token, bool) {
	for _, tok := range s.Tokens {
		if tok.Begin == offset {
			return tok, true
		}
	}
	return Token{}, false
}

// Document is one unit of work: text already split into tagged sentences.
type Document struct {
	ID        string       `json:"id" yaml:"id"`
	Text      string       `json:"text" yaml:"text"`
	DCT       string       `json:"dct,omitempty" yaml:"dct,omitempty"`
	Type      DocumentType `json:"type,omitempty" yaml:"type,omitempty"`
	Sentences []Sentence   `json:"sentences" yaml:"sentences"`
}

// Validate checks that every sentence and token lies inside the text and
// that sentences and tokens do not run backwards.
func (d *Document) Validate() error {
	n := utf8.RuneCountInString(d.Text)
	prevEnd := 0
	for i, s := range d.Sentences {
		if s.Begin < prevEnd || s.End < s.Begin || s.End > n {
			return fmt.Errorf("sentence %d: span [%d,%d) out of order or outside text of length %d", i, s.Begin, s.End, n)
		}
		prevEnd = s.End
		tokEnd := s.Begin
		for j, tok := range s.Tokens {
			if tok.Begin < tokEnd || tok.End < tok.Begin || tok.End > s.End {
				return fmt.Errorf("sentence %d token %d: span [%d,%d) out of order or outside sentence", i, j, tok.Begin, tok.End)
			}
			tokEnd = tok.End
		}
	}
	if _, err := NormalizeDCT(d.DCT); err != nil {
		return err
	}
	return nil
}

var (
	compactDCT = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	dashedDCT  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDCT rewrites a YYYYMMDD creation time as YYYY-MM-DD. The empty
// string is passed through.
func NormalizeDCT(dct string) (string, error) {
	switch {
	case dct == "", dashedDCT.MatchString(dct):
		return dct, nil
	case compactDCT.MatchString(dct):
		return compactDCT.ReplaceAllString(dct, "$1-$2-$3"), nil
	}
	return "", fmt.Errorf("document creation time %q: want YYYYMMDD or YYYY-MM-DD", dct)
}
