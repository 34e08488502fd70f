package ir

import (
	"strings"
	"unicode/utf8"
)

// ParseTagged builds a document from tagged text: one sentence per line,
// tokens separated by whitespace, each token written word/TAG. The last
// '/' splits a token, so "and/or/CC" is the word "and/or". A token with
// no '/' is untagged. Blank lines are skipped.
//
// The document text is the words of each sentence joined by single
// spaces, with sentences joined by newlines.
func ParseTagged(src string) *Document {
	doc := &Document{Sentences: []Sentence{}}
	var text strings.Builder
	offset := 0
	for _, line := range strings.Split(src, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(doc.Sentences) > 0 {
			text.WriteByte('\n')
			offset++
		}

		s := Sentence{Begin: offset, Tokens: make([]Token, 0, len(fields))}
		for i, f := range fields {
			if i > 0 {
				text.WriteByte(' ')
				offset++
			}
			word, pos := f, ""
			if slash := strings.LastIndexByte(f, '/'); slash > 0 {
				word, pos = f[:slash], f[slash+1:]
			}
			n := utf8.RuneCountInString(word)
			s.Tokens = append(s.Tokens, Token{Begin: offset, End: offset + n, Text: word, POS: pos})
			text.WriteString(word)
			offset += n
		}
		s.End = offset
		doc.Sentences = append(doc.Sentences, s)
	}
	doc.Text = text.String()
	return doc
}

// Tagged renders doc back into tagged text. Tokens are written in
// order; text between tokens is not preserved.
func (d *Document) Tagged() string {
	var b strings.Builder
	for i, s := range d.Sentences {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, tok := range s.Tokens {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(tok.Text)
			if tok.POS != "" {
				b.WriteByte('/')
				b.WriteString(tok.POS)
			}
		}
	}
	return b.String()
}
