// Package token defines the lexical vocabulary of ploy.
// Invariants:
//   - Token.Text is the exact source slice covered by Token.Span, except for
//     identifiers, which are NFC-normalized.
//   - Comments and whitespace are trivia; they never appear in the token stream.
//   - Special-form words (define, if, let, fn, ...) are plain identifiers;
//     the grammar recognizes them by text.
package token
