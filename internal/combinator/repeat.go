package combinator

// Many0 applies p until it fails. A Normal failure ends the loop with the
// input rewound to before the failed attempt; a Fatal one is returned.
// A success that consumes nothing also ends the loop.
func Many0[S Input, O any](p Parser[S, O]) Parser[S, []O] {
	return func(input S) (S, []O, *Error) {
		var out []O
		cur := input
		for {
			next, v, err := p(cur)
			if err != nil {
				if err.IsFatal() {
					return input, nil, err
				}
				return cur, out, nil
			}
			if next.Pos() == cur.Pos() {
				return cur, out, nil
			}
			out = append(out, v)
			cur = next
		}
	}
}

// Many1 is Many0 that needs at least one match.
func Many1[S Input, O any](p Parser[S, O]) Parser[S, []O] {
	return func(input S) (S, []O, *Error) {
		rest, out, err := Many0(p)(input)
		if err != nil {
			return input, nil, err
		}
		if len(out) == 0 {
			_, _, first := p(input)
			e := &Error{Kind: NeededOneOrMore, Severity: Normal, Range: Range{Start: input.Pos(), End: input.Pos() + min(1, input.Len())}}
			if first != nil {
				e.Expected = first.Expected
			}
			return input, nil, e
		}
		return rest, out, nil
	}
}

// ManyUntil applies p while pred does not match. pred is not consumed.
// Running out of input before pred matches fails with UntilNotMatched.
func ManyUntil[S Input, O, P any](p Parser[S, O], pred Parser[S, P]) Parser[S, []O] {
	return func(input S) (S, []O, *Error) {
		var out []O
		cur := input
		for {
			if _, _, perr := pred(cur); perr == nil {
				return cur, out, nil
			} else if perr.IsFatal() {
				return input, nil, perr
			}
			if cur.Len() == 0 {
				return input, nil, &Error{Kind: UntilNotMatched, Severity: Normal, Range: Range{Start: input.Pos(), End: cur.Pos()}}
			}
			next, v, err := p(cur)
			if err != nil {
				return input, nil, err
			}
			if next.Pos() == cur.Pos() {
				return input, nil, &Error{Kind: UntilNotMatched, Severity: Normal, Range: Range{Start: input.Pos(), End: cur.Pos()}}
			}
			out = append(out, v)
			cur = next
		}
	}
}

// SeparatedList0 parses zero or more p separated by sep.
func SeparatedList0[S Input, O, X any](p Parser[S, O], sep Parser[S, X]) Parser[S, []O] {
	return func(input S) (S, []O, *Error) {
		rest, first, err := p(input)
		if err != nil {
			if err.IsFatal() {
				return input, nil, err
			}
			return input, nil, nil
		}
		more, tail, err := Many0(Preceded(sep, p))(rest)
		if err != nil {
			return input, nil, err
		}
		return more, append([]O{first}, tail...), nil
	}
}
