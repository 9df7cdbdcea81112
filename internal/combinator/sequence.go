package combinator

// Pair runs a then b.
func Pair[S, A, B any](a Parser[S, A], b Parser[S, B]) Parser[S, Tuple2[A, B]] {
	return func(input S) (S, Tuple2[A, B], *Error) {
		var out Tuple2[A, B]
		rest, va, err := a(input)
		if err != nil {
			return input, out, err
		}
		rest, vb, err := b(rest)
		if err != nil {
			return input, out, err
		}
		out.A, out.B = va, vb
		return rest, out, nil
	}
}

// Preceded runs a then b and keeps b's output.
func Preceded[S, A, B any](a Parser[S, A], b Parser[S, B]) Parser[S, B] {
	return Map(Pair(a, b), func(t Tuple2[A, B]) B { return t.B })
}

// Succeeded runs a then b and keeps a's output.
func Succeeded[S, A, B any](a Parser[S, A], b Parser[S, B]) Parser[S, A] {
	return Map(Pair(a, b), func(t Tuple2[A, B]) A { return t.A })
}

// SepPair runs a, sep, b and keeps a and b.
func SepPair[S, A, X, B any](a Parser[S, A], sep Parser[S, X], b Parser[S, B]) Parser[S, Tuple2[A, B]] {
	return func(input S) (S, Tuple2[A, B], *Error) {
		var out Tuple2[A, B]
		rest, va, err := a(input)
		if err != nil {
			return input, out, err
		}
		rest, _, err = sep(rest)
		if err != nil {
			return input, out, err
		}
		rest, vb, err := b(rest)
		if err != nil {
			return input, out, err
		}
		out.A, out.B = va, vb
		return rest, out, nil
	}
}

// Tuple3 runs three parsers in order.
func Tuple3[S, A, B, C any](a Parser[S, A], b Parser[S, B], c Parser[S, C]) Parser[S, Tuple3Of[A, B, C]] {
	return func(input S) (S, Tuple3Of[A, B, C], *Error) {
		var out Tuple3Of[A, B, C]
		rest, ab, err := Pair(a, b)(input)
		if err != nil {
			return input, out, err
		}
		rest, vc, err := c(rest)
		if err != nil {
			return input, out, err
		}
		out.A, out.B, out.C = ab.A, ab.B, vc
		return rest, out, nil
	}
}

// Tuple4 runs four parsers in order.
func Tuple4[S, A, B, C, D any](a Parser[S, A], b Parser[S, B], c Parser[S, C], d Parser[S, D]) Parser[S, Tuple4Of[A, B, C, D]] {
	return func(input S) (S, Tuple4Of[A, B, C, D], *Error) {
		var out Tuple4Of[A, B, C, D]
		rest, abc, err := Tuple3(a, b, c)(input)
		if err != nil {
			return input, out, err
		}
		rest, vd, err := d(rest)
		if err != nil {
			return input, out, err
		}
		out.A, out.B, out.C, out.D = abc.A, abc.B, abc.C, vd
		return rest, out, nil
	}
}

// Tuple2 is the output of Pair and SepPair.
type Tuple2[A, B any] struct {
	A A
	B B
}

// Tuple3Of is the output of Tuple3.
type Tuple3Of[A, B, C any] struct {
	A A
	B B
	C C
}

// Tuple4Of is the output of Tuple4.
type Tuple4Of[A, B, C, D any] struct {
	A A
	B B
	C C
	D D
}
