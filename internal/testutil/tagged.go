package testutil

import (
	"github.com/roach88/timex/internal/ir"
)

// DocOption adjusts a document built by Doc.
type DocOption func(*ir.Document)

// WithDCT sets the document creation time.
func WithDCT(dct string) DocOption {
	return func(d *ir.Document) {
		d.DCT = dct
	}
}

// WithType sets the document type.
func WithType(t ir.DocumentType) DocOption {
	return func(d *ir.Document) {
		d.Type = t
	}
}

// WithID sets the document id.
func WithID(id string) DocOption {
	return func(d *ir.Document) {
		d.ID = id
	}
}

// Doc builds a document from tagged text, one sentence per line, in the
// form accepted by ir.ParseTagged:
//
//	doc := testutil.Doc("He/PP left/VVD on/IN Monday/NP", testutil.WithDCT("2020-01-01"))
func Doc(tagged string, opts ...DocOption) *ir.Document {
	d := ir.ParseTagged(tagged)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Span returns the rune offsets of the n-th (0-based) occurrence of word
// as a whole token in d, or -1, -1.
func Span(d *ir.Document, word string, n int) (begin, end int) {
	for _, s := range d.Sentences {
		for _, tok := range s.Tokens {
			if tok.Text != word {
				continue
			}
			if n == 0 {
				return tok.Begin, tok.End
			}
			n--
		}
	}
	return -1, -1
}
