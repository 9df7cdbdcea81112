package combinator

// Tag matches one item of kind k.
func Tag[I Item[K], K comparable](k K, expected string) Parser[Span[I, K], I] {
	return Satisfy[I, K](func(it I) bool { return it.ItemKind() == k }, expected)
}

// TagSeq matches the kinds in order and returns the matched items.
func TagSeq[I Item[K], K comparable](expected string, kinds ...K) Parser[Span[I, K], Span[I, K]] {
	return func(input Span[I, K]) (Span[I, K], Span[I, K], *Error) {
		if input.Len() < len(kinds) {
			return input, Span[I, K]{}, NewError(NoMatch, input.at(), expected)
		}
		for i, k := range kinds {
			if input.items[i].ItemKind() != k {
				return input, Span[I, K]{}, NewError(NoMatch, Range{Start: input.pos + i, End: input.pos + i + 1}, expected)
			}
		}
		head, tail, err := input.Split(len(kinds))
		if err != nil {
			return input, Span[I, K]{}, err
		}
		return tail, head, nil
	}
}

// IsA matches one item whose kind is in the set.
func IsA[I Item[K], K comparable](expected string, kinds ...K) Parser[Span[I, K], I] {
	set := make(map[K]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}
	return Satisfy[I, K](func(it I) bool {
		_, ok := set[it.ItemKind()]
		return ok
	}, expected)
}

// Any matches any single item.
func Any[I Item[K], K comparable]() Parser[Span[I, K], I] {
	return Satisfy[I, K](func(I) bool { return true }, "any item")
}

// Until consumes items up to, not including, the first one accepted by pred
// and returns them. Running out of input first is UntilNotMatched.
func Until[I Item[K], K comparable](pred func(I) bool, expected string) Parser[Span[I, K], Span[I, K]] {
	return func(input Span[I, K]) (Span[I, K], Span[I, K], *Error) {
		for i, it := range input.items {
			if !pred(it) {
				continue
			}
			head, tail, err := input.Split(i)
			if err != nil {
				return input, Span[I, K]{}, err
			}
			return tail, head, nil
		}
		return input, Span[I, K]{}, &Error{
			Kind:     UntilNotMatched,
			Severity: Normal,
			Range:    input.Range(),
			Expected: expected,
		}
	}
}

// Satisfy matches one item accepted by pred.
func Satisfy[I Item[K], K comparable](pred func(I) bool, expected string) Parser[Span[I, K], I] {
	return func(input Span[I, K]) (Span[I, K], I, *Error) {
		it, ok := input.First()
		if !ok || !pred(it) {
			var zero I
			return input, zero, NewError(NoMatch, input.at(), expected)
		}
		rest, err := input.Drop(1)
		if err != nil {
			return input, it, err
		}
		return rest, it, nil
	}
}

// EOI succeeds only on empty input.
func EOI[I Item[K], K comparable]() Parser[Span[I, K], struct{}] {
	return func(input Span[I, K]) (Span[I, K], struct{}, *Error) {
		if !input.IsEmpty() {
			return input, struct{}{}, NewError(NoMatch, input.at(), "end of input")
		}
		return input, struct{}{}, nil
	}
}

// Recognize returns the items p consumed instead of p's output.
func Recognize[I Item[K], K comparable, O any](p Parser[Span[I, K], O]) Parser[Span[I, K], Span[I, K]] {
	return func(input Span[I, K]) (Span[I, K], Span[I, K], *Error) {
		rest, _, err := p(input)
		if err != nil {
			return input, Span[I, K]{}, err
		}
		used, err := input.Between(rest)
		if err != nil {
			return input, Span[I, K]{}, err
		}
		return rest, used, nil
	}
}

// Wrapped parses open, p, close and keeps p's output.
func Wrapped[S, A, O, B any](open Parser[S, A], p Parser[S, O], close Parser[S, B]) Parser[S, O] {
	return Preceded(open, Succeeded(p, close))
}

// WrappedCut is Wrapped where a missing closer, once open and p matched,
// is a Fatal MissingCloser failure ("expected closing <what>") whose Origin is
// the opener. Failures of open and p pass through unchanged.
func WrappedCut[I Item[K], K comparable, A, O, B any](
	open Parser[Span[I, K], A],
	p Parser[Span[I, K], O],
	close Parser[Span[I, K], B],
	what string,
) Parser[Span[I, K], O] {
	return func(input Span[I, K]) (Span[I, K], O, *Error) {
		var zero O
		afterOpen, _, err := open(input)
		if err != nil {
			return input, zero, err
		}
		afterBody, out, err := p(afterOpen)
		if err != nil {
			return input, zero, err
		}
		rest, _, err := close(afterBody)
		if err != nil {
			if err.IsFatal() {
				return input, zero, err
			}
			return input, zero, &Error{
				Kind:     MissingCloser,
				Severity: Fatal,
				Range:    afterBody.at(),
				Expected: "closing " + what,
				Origin:   Range{Start: input.pos, End: afterOpen.pos},
			}
		}
		return rest, out, nil
	}
}
