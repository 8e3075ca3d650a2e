// Package testutil holds helpers shared by tests.
package testutil

// ByteStream reads bytes sequentially from a byte slice.
//
// Used by fuzz tests to deterministically derive operations from fuzz
// input. When the stream is exhausted, all reads return zero values, so the
// same input always produces the same sequence of operations.
type ByteStream struct {
	bytes []byte
	pos   int
}

// NewByteStream creates a stream over the given bytes.
func NewByteStream(b []byte) *ByteStream {
	return &ByteStream{bytes: b}
}

// HasMore reports whether unread bytes remain.
func (s *ByteStream) HasMore() bool {
	return s.pos < len(s.bytes)
}

// NextByte returns the next byte, or 0 if exhausted.
func (s *ByteStream) NextByte() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}

	v := s.bytes[s.pos]
	s.pos++

	return v
}

// NextInt returns an int in [0, maxVal).
func (s *ByteStream) NextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}

	return int(s.NextByte()) % maxVal
}

// NextIntRange returns an int in [minVal, maxVal].
func (s *ByteStream) NextIntRange(minVal, maxVal int) int {
	if maxVal < minVal {
		return minVal
	}

	return minVal + s.NextInt(maxVal-minVal+1)
}

// NextBool returns a boolean derived from the next byte.
func (s *ByteStream) NextBool() bool {
	return s.NextByte()&1 == 1
}

// NextPick returns one of choices.
func (s *ByteStream) NextPick(choices []string) string {
	if len(choices) == 0 {
		return ""
	}

	return choices[s.NextInt(len(choices))]
}

// NextSubset returns the choices whose bit is set in the next byte, in
// order. At most eight choices are considered.
func (s *ByteStream) NextSubset(choices []string) []string {
	mask := s.NextByte()

	var out []string

	for i, choice := range choices {
		if i >= 8 {
			break
		}

		if mask&(1<<i) != 0 {
			out = append(out, choice)
		}
	}

	return out
}
