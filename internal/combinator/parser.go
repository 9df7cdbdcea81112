package combinator

import "sync"

// Parser consumes a prefix of the input. A nil error means success.
type Parser[S, O any] func(input S) (rest S, out O, err *Error)

// Map transforms a successful output.
func Map[S, A, B any](p Parser[S, A], f func(A) B) Parser[S, B] {
	return func(input S) (S, B, *Error) {
		rest, a, err := p(input)
		if err != nil {
			var zero B
			return input, zero, err
		}
		return rest, f(a), nil
	}
}

// MapErr transforms a successful output with a function that may reject it.
// The rejection is returned as is, so its severity is the caller's choice.
func MapErr[S, A, B any](p Parser[S, A], f func(input, rest S, a A) (B, *Error)) Parser[S, B] {
	return func(input S) (S, B, *Error) {
		rest, a, err := p(input)
		if err != nil {
			var zero B
			return input, zero, err
		}
		b, err := f(input, rest, a)
		if err != nil {
			var zero B
			return input, zero, err
		}
		return rest, b, nil
	}
}

// Value replaces the output of p with v.
func Value[S, A, B any](p Parser[S, A], v B) Parser[S, B] {
	return Map(p, func(A) B { return v })
}

// Expect relabels failures of p. Severity is untouched.
func Expect[S, O any](p Parser[S, O], expected string) Parser[S, O] {
	return func(input S) (S, O, *Error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err.WithExpected(expected)
		}
		return rest, out, nil
	}
}

// Lazy defers construction of p, which lets recursive grammars refer to
// productions that are defined later.
// The production is built once, on first use.
func Lazy[S, O any](build func() Parser[S, O]) Parser[S, O] {
	get := sync.OnceValue(build)
	return func(input S) (S, O, *Error) {
		return get()(input)
	}
}
