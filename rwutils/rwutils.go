package rwutils

import (
	"encoding/binary"

	"github.com/zeebo/errs/v2"

	"github.com/slotarena/slotarena/buffer"
)

var le = binary.LittleEndian

type RW interface {
	AppendTo(w *W)
	ReadFrom(r *R)
}

type W struct {
	b []byte
}

func (w *W) Init(buf buffer.T) { w.b = buf.Prefix() }

func (w *W) Done() buffer.T { return buffer.Of(w.b).Advance(len(w.b)) }

func (w *W) Uint64(x uint64) { w.b = le.AppendUint64(w.b, x) }
func (w *W) Uint32(x uint32) { w.b = le.AppendUint32(w.b, x) }
func (w *W) Uint16(x uint16) { w.b = le.AppendUint16(w.b, x) }
func (w *W) Uint8(x uint8)   { w.b = append(w.b, x) }

func (w *W) Varint(x uint64) { w.b = binary.AppendUvarint(w.b, x) }

func (w *W) Bytes(buf []byte) { w.b = append(w.b, buf...) }

// R reads values from a buffer. The first failed read sets a sticky
// error and every later read returns the zero value.
type R struct {
	buf buffer.T
	err error
}

func (r *R) Init(buf buffer.T) { *r = R{buf: buf} }

func (r *R) Done() (buffer.T, error) { return r.buf, r.err }

func (r *R) Remaining() int { return r.buf.Remaining() }

// Invalid marks the buffer contents as unusable. The first error is
// kept and the remaining bytes are skipped.
func (r *R) Invalid(err error) {
	if r.err == nil {
		r.err = err
	}
	r.buf = r.buf.Advance(r.buf.Remaining())
}

func (r *R) Uint64() (x uint64) {
	if r.err == nil {
		if r.buf.Remaining() >= 8 {
			x = le.Uint64(r.buf.Front(8))
			r.buf = r.buf.Advance(8)
		} else {
			r.bad(8)
		}
	}
	return
}

func (r *R) Uint32() (x uint32) {
	if r.err == nil {
		if r.buf.Remaining() >= 4 {
			x = le.Uint32(r.buf.Front(4))
			r.buf = r.buf.Advance(4)
		} else {
			r.bad(4)
		}
	}
	return
}

func (r *R) Uint16() (x uint16) {
	if r.err == nil {
		if r.buf.Remaining() >= 2 {
			x = le.Uint16(r.buf.Front(2))
			r.buf = r.buf.Advance(2)
		} else {
			r.bad(2)
		}
	}
	return
}

func (r *R) Uint8() (x uint8) {
	if r.err == nil {
		if r.buf.Remaining() >= 1 {
			x = r.buf.Front(1)[0]
			r.buf = r.buf.Advance(1)
		} else {
			r.bad(1)
		}
	}
	return
}

func (r *R) Varint() (x uint64) {
	if r.err == nil {
		x2, n := binary.Uvarint(r.buf.Suffix())
		if n <= 0 {
			r.bad(1)
			return 0
		}
		x = x2
		r.buf = r.buf.Advance(n)
	}
	return
}

func (r *R) Bytes(n int) (x []byte) {
	if r.err == nil {
		if uint(n) <= uint(r.buf.Remaining()) {
			x = r.buf.Front(n)
			r.buf = r.buf.Advance(n)
		} else {
			r.bad(n)
		}
	}
	return
}

func (r *R) bad(n int) {
	r.err = errs.Errorf("short buffer: needed %d bytes", n)
	r.buf = r.buf.Advance(r.buf.Remaining())
}
