package buffer

// T is a cursor over a byte slice. Methods take and return values, so
// callers thread the buffer through reads and writes explicitly.
type T struct {
	b   []byte
	pos int
}

func Of(b []byte) T { return T{b: b} }

func (buf T) Len() int       { return len(buf.b) }
func (buf T) Pos() int       { return buf.pos }
func (buf T) Remaining() int { return len(buf.b) - buf.pos }

func (buf T) Reset() T {
	buf.pos = 0
	return buf
}

func (buf T) Advance(n int) T {
	buf.pos += n
	return buf
}

func (buf T) Trim() T {
	buf.b = buf.b[:buf.pos]
	return buf
}

func (buf T) Prefix() []byte { return buf.b[:buf.pos] }
func (buf T) Suffix() []byte { return buf.b[buf.pos:] }

// Front returns the next n bytes without advancing. The caller is
// responsible for checking Remaining first.
func (buf T) Front(n int) []byte { return buf.b[buf.pos : buf.pos+n] }
