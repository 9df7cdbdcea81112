package combinator

// Item is anything the engine can match by kind.
type Item[K comparable] interface {
	ItemKind() K
}

// Input is the minimum the repetition combinators need from an input.
type Input interface {
	Pos() int
	Len() int
}

// Span is a read-only window over items starting at absolute offset pos.
type Span[I Item[K], K comparable] struct {
	pos   int
	items []I
}

// NewSpan views all of items, starting at offset 0.
func NewSpan[I Item[K], K comparable](items []I) Span[I, K] {
	return Span[I, K]{items: items}
}

// Pos is the absolute offset of the first item.
func (s Span[I, K]) Pos() int { return s.pos }

func (s Span[I, K]) Len() int { return len(s.items) }

func (s Span[I, K]) IsEmpty() bool { return len(s.items) == 0 }

// End is the absolute offset just past the last item.
func (s Span[I, K]) End() int { return s.pos + len(s.items) }

// Range covers the whole span.
func (s Span[I, K]) Range() Range { return Range{Start: s.pos, End: s.End()} }

// Items exposes the underlying slice. Callers must not modify it.
func (s Span[I, K]) Items() []I { return s.items }

// First returns the first item, if any.
func (s Span[I, K]) First() (I, bool) {
	if len(s.items) == 0 {
		var zero I
		return zero, false
	}
	return s.items[0], true
}

// Take keeps the first n items; the offset is unchanged.
func (s Span[I, K]) Take(n int) (Span[I, K], *Error) {
	if n < 0 || n > len(s.items) {
		return s, s.contract(TookTooMany, n)
	}
	return Span[I, K]{pos: s.pos, items: s.items[:n]}, nil
}

// Drop skips n items and advances the offset by n.
func (s Span[I, K]) Drop(n int) (Span[I, K], *Error) {
	if n < 0 || n > len(s.items) {
		return s, s.contract(SkippedTooMany, n)
	}
	return Span[I, K]{pos: s.pos + n, items: s.items[n:]}, nil
}

// Split returns the first n items and the rest, both with correct offsets.
func (s Span[I, K]) Split(n int) (head, tail Span[I, K], err *Error) {
	if n < 0 || n > len(s.items) {
		return s, s, s.contract(IllegalSplitIndex, n)
	}
	return Span[I, K]{pos: s.pos, items: s.items[:n]},
		Span[I, K]{pos: s.pos + n, items: s.items[n:]}, nil
}

// Between returns the items from s up to (not including) rest, which must be
// a suffix of s.
func (s Span[I, K]) Between(rest Span[I, K]) (Span[I, K], *Error) {
	return s.Take(rest.pos - s.pos)
}

func (s Span[I, K]) contract(kind Kind, n int) *Error {
	return &Error{
		Kind:     kind,
		Severity: Fatal,
		Range:    Range{Start: s.pos, End: s.pos + max(n, 0)},
	}
}

// at is the range of the next item, or an empty range at end of input.
func (s Span[I, K]) at() Range {
	if len(s.items) == 0 {
		return Range{Start: s.pos, End: s.pos}
	}
	return Range{Start: s.pos, End: s.pos + 1}
}
