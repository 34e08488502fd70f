// Package tense classifies the grammatical tense around a temporal
// expression from the part-of-speech tags of its sentence.
//
// Classification is a pure function of the tokens before and after the
// expression. Each token is tested against three tag classes in order:
// present/future, past, then future (which also requires the word itself
// to be a future marker such as "will"). The word "since" always reads as
// past. Two strategies pick which token decides:
//
//   - Backward: the nearest classifiable token before the expression,
//     otherwise the first one after it.
//   - Nearest: whichever side has the closer classifiable token, ties
//     going to the token before.
//
// A present/future result is demoted to past when the sentence holds a
// perfect or passive auxiliary chain (VHZ/VBZ/VHP/VBP followed by VVN),
// unless the participle is an exception such as "expected".
package tense
