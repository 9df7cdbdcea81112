package combinator

// Alt returns the first success. A Fatal failure stops the search at once and
// later alternatives are never run. If every alternative fails Normal, the
// last failure is returned.
func Alt[S, O any](ps ...Parser[S, O]) Parser[S, O] {
	return func(input S) (S, O, *Error) {
		var (
			zero O
			last *Error
		)
		for _, p := range ps {
			rest, out, err := p(input)
			if err == nil {
				return rest, out, nil
			}
			if err.IsFatal() {
				return input, zero, err
			}
			last = err
		}
		if last == nil {
			last = NewError(NoMatch, Range{}, "")
		}
		return input, zero, last
	}
}

// Cut commits: every failure of p comes back Fatal. Successes pass through.
func Cut[S, O any](p Parser[S, O]) Parser[S, O] {
	return func(input S) (S, O, *Error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err.Escalate()
		}
		return rest, out, nil
	}
}

// Option is the output of Opt.
type Option[O any] struct {
	Value O
	Ok    bool
}

// Opt turns a Normal failure into an empty success without consuming input.
func Opt[S, O any](p Parser[S, O]) Parser[S, Option[O]] {
	return func(input S) (S, Option[O], *Error) {
		rest, out, err := p(input)
		if err != nil {
			if err.IsFatal() {
				return input, Option[O]{}, err
			}
			return input, Option[O]{}, nil
		}
		return rest, Option[O]{Value: out, Ok: true}, nil
	}
}

// Not succeeds without consuming when p fails Normal.
func Not[S Input, O any](p Parser[S, O]) Parser[S, struct{}] {
	return func(input S) (S, struct{}, *Error) {
		_, _, err := p(input)
		switch {
		case err == nil:
			return input, struct{}{}, &Error{Kind: NoMatch, Severity: Normal, Range: Range{Start: input.Pos(), End: input.Pos() + min(1, input.Len())}}
		case err.IsFatal():
			return input, struct{}{}, err
		}
		return input, struct{}{}, nil
	}
}

// All requires p to consume the whole input. A failure of p is raised to
// Fatal; leftovers are a Fatal UnconsumedInput failure pointing at the
// first unconsumed item.
func All[S Input, O any](p Parser[S, O]) Parser[S, O] {
	return func(input S) (S, O, *Error) {
		rest, out, err := p(input)
		if err != nil {
			return input, out, err.Escalate()
		}
		if rest.Len() > 0 {
			return input, out, &Error{
				Kind:     UnconsumedInput,
				Severity: Fatal,
				Range:    Range{Start: rest.Pos(), End: rest.Pos() + 1},
			}
		}
		return rest, out, nil
	}
}

// Peek runs p without consuming input.
func Peek[S, O any](p Parser[S, O]) Parser[S, O] {
	return func(input S) (S, O, *Error) {
		_, out, err := p(input)
		return input, out, err
	}
}
