package binary

import (
	"bytes"
	stderrors "errors"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/wippyai/nucleide/errors"
)

func TestCursorFixedWidth(t *testing.T) {
	data := []byte{
		0x01,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0x01, 0, 0, 0, 0, 0, 0, 0, 0x02, 0, 0, 0, 0, 0, 0, 0,
	}
	c := NewCursor(data)

	u8, err := c.U8()
	if err != nil || u8 != 0x01 {
		t.Fatalf("U8: got 0x%02x, %v", u8, err)
	}
	u16, err := c.U16()
	if err != nil || u16 != 0x0102 {
		t.Fatalf("U16: got 0x%04x, %v", u16, err)
	}
	u32, err := c.U32()
	if err != nil || u32 != 0x01020304 {
		t.Fatalf("U32: got 0x%08x, %v", u32, err)
	}
	u64, err := c.U64()
	if err != nil || u64 != 0x0102030405060708 {
		t.Fatalf("U64: got 0x%016x, %v", u64, err)
	}
	u128, err := c.U128()
	if err != nil || u128 != (Uint128{Lo: 1, Hi: 2}) {
		t.Fatalf("U128: got %+v, %v", u128, err)
	}
	if !c.End() {
		t.Errorf("expected end of input, %d bytes left", c.Len())
	}
	if c.Offset() != len(data) {
		t.Errorf("offset: got %d, want %d", c.Offset(), len(data))
	}

	_, err = c.U32()
	if !stderrors.Is(err, errors.ErrTruncated) {
		t.Errorf("read past end: got %v, want truncated", err)
	}
}

func TestCursorBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0x05}

	t.Run("owned copy", func(t *testing.T) {
		c := NewCursor(data)
		got, err := c.Bytes(3)
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		if !bytes.Equal(got, []byte{0x01, 0x02, 0x03}) {
			t.Errorf("Bytes: got %v", got)
		}
		got[0] = 0xff
		if data[0] != 0x01 {
			t.Error("owned read aliases the input buffer")
		}
	})

	t.Run("borrowed view", func(t *testing.T) {
		buf := append([]byte(nil), data...)
		c := NewBorrowedCursor(buf)
		got, err := c.Bytes(2)
		if err != nil {
			t.Fatalf("Bytes: %v", err)
		}
		buf[0] = 0xee
		if got[0] != 0xee {
			t.Error("borrowed read does not alias the input buffer")
		}
	})

	t.Run("insufficient input", func(t *testing.T) {
		c := NewCursor(data)
		if _, err := c.Bytes(10); !stderrors.Is(err, errors.ErrTruncated) {
			t.Errorf("got %v, want truncated", err)
		}
		if c.Len() != len(data) {
			t.Errorf("failed read consumed input: %d left", c.Len())
		}
	})
}

func TestCursorString(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		n       int
		want    string
		wantErr bool
	}{
		{name: "ascii", data: []byte("hello"), n: 5, want: "hello"},
		{name: "prefix", data: []byte("hello"), n: 2, want: "he"},
		{name: "empty", data: nil, n: 0, want: ""},
		{name: "multibyte", data: []byte("héllo"), n: 6, want: "héllo"},
		{name: "too long", data: []byte("hi"), n: 3, wantErr: true},
		{name: "invalid utf8", data: []byte{0xff, 0xfe}, n: 2, wantErr: true},
		{name: "split rune", data: []byte("é"), n: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range []*Cursor{NewCursor(tt.data), NewBorrowedCursor(tt.data)} {
				got, err := c.String(tt.n)
				if tt.wantErr {
					if !stderrors.Is(err, errors.ErrMalformedString) {
						t.Errorf("got %v, want malformed string", err)
					}
					continue
				}
				if err != nil {
					t.Fatalf("String: %v", err)
				}
				if got != tt.want {
					t.Errorf("String: got %q, want %q", got, tt.want)
				}
			}
		})
	}
}

func TestCursorSub(t *testing.T) {
	c := NewCursor([]byte{0xaa, 0x01, 0x02, 0x03, 0xbb})
	if _, err := c.U8(); err != nil {
		t.Fatal(err)
	}

	sub, err := c.Sub(3)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	if sub.Offset() != 1 {
		t.Errorf("sub offset: got %d, want 1", sub.Offset())
	}
	if _, err := sub.Bytes(4); err == nil {
		t.Error("sub-cursor read past its boundary")
	}
	if err := sub.Finish(); !stderrors.Is(err, errors.ErrTrailingBytes) {
		t.Errorf("Finish on unread sub-cursor: got %v, want trailing bytes", err)
	}
	if _, err := sub.Bytes(3); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if err := sub.Finish(); err != nil {
		t.Errorf("Finish: %v", err)
	}

	b, err := c.U8()
	if err != nil || b != 0xbb {
		t.Errorf("parent after sub: got 0x%02x, %v", b, err)
	}
	if _, err := c.Sub(1); !stderrors.Is(err, errors.ErrTruncated) {
		t.Errorf("Sub past end: got %v, want truncated", err)
	}
}

func TestVaruint32(t *testing.T) {
	tests := []struct {
		encoded []byte
		value   uint32
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0x01}, 255},
		{[]byte{0xe5, 0x8e, 0x26}, 624485},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, math.MaxUint32},
	}

	for _, tt := range tests {
		a := NewAppender()
		a.Varuint32(tt.value)
		if !bytes.Equal(a.Bytes(), tt.encoded) {
			t.Errorf("encode %d: got %x, want %x", tt.value, a.Bytes(), tt.encoded)
		}

		c := NewCursor(tt.encoded)
		got, err := c.Varuint32()
		if err != nil {
			t.Errorf("decode %x: %v", tt.encoded, err)
			continue
		}
		if got != tt.value {
			t.Errorf("decode %x: got %d, want %d", tt.encoded, got, tt.value)
		}
		if !c.End() {
			t.Errorf("decode %x: %d bytes left", tt.encoded, c.Len())
		}
	}
}

func TestUvarintRejects(t *testing.T) {
	tests := []struct {
		name    string
		encoded []byte
		bits    uint
	}{
		{"truncated continuation", []byte{0x80}, 32},
		{"truncated multi byte", []byte{0xff, 0xff}, 32},
		{"empty", nil, 32},
		{"sixth byte", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 32},
		{"fifth byte high bits", []byte{0xff, 0xff, 0xff, 0xff, 0x1f}, 32},
		{"two to the 32", []byte{0x80, 0x80, 0x80, 0x80, 0x10}, 32},
		{"u8 overflow", []byte{0x80, 0x02}, 8},
		{"u16 overflow", []byte{0xff, 0xff, 0x04}, 16},
		{"u64 overflow", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x02}, 64},
		{"u64 too long", []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x00}, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.encoded)
			_, err := c.Uvarint(tt.bits)
			if !stderrors.Is(err, errors.ErrMalformedInteger) {
				t.Fatalf("got %v, want malformed integer", err)
			}
			if c.Len() != len(tt.encoded) {
				t.Errorf("failed decode consumed input: %d left", c.Len())
			}
		})
	}
}

func TestUvarintWidthBoundaries(t *testing.T) {
	tests := []struct {
		bits uint
		max  uint64
	}{
		{8, math.MaxUint8},
		{16, math.MaxUint16},
		{32, math.MaxUint32},
		{64, math.MaxUint64},
	}

	for _, tt := range tests {
		enc := AppendUvarint(nil, tt.max)
		if len(enc) != MaxVarintLen(tt.bits) {
			t.Errorf("u%d max encodes to %d bytes, want %d", tt.bits, len(enc), MaxVarintLen(tt.bits))
		}
		got, err := NewCursor(enc).Uvarint(tt.bits)
		if err != nil || got != tt.max {
			t.Errorf("u%d max: got %d, %v", tt.bits, got, err)
		}
		if tt.bits < 64 {
			over := AppendUvarint(nil, tt.max+1)
			if _, err := NewCursor(over).Uvarint(tt.bits); err == nil {
				t.Errorf("u%d accepted %d", tt.bits, tt.max+1)
			}
		}
	}
}

func TestVaruint128(t *testing.T) {
	values := []Uint128{
		{},
		{Lo: 1},
		{Lo: math.MaxUint64},
		{Lo: 0, Hi: 1},
		{Lo: 1 << 63, Hi: 0x7f},
		{Lo: math.MaxUint64, Hi: math.MaxUint64},
	}

	for _, v := range values {
		a := NewAppender()
		a.Varuint128(v)
		if a.Len() > MaxVarintLen(128) {
			t.Errorf("%s: encoded to %d bytes", v, a.Len())
		}
		got, err := NewCursor(a.Bytes()).Varuint128()
		if err != nil {
			t.Errorf("%s: %v", v, err)
			continue
		}
		if got != v {
			t.Errorf("round trip: got %s, want %s", got, v)
		}
	}

	// 19 bytes with bits beyond 128 on the last byte
	over := bytes.Repeat([]byte{0xff}, 18)
	over = append(over, 0x04)
	if _, err := NewCursor(over).Varuint128(); !stderrors.Is(err, errors.ErrMalformedInteger) {
		t.Errorf("got %v, want malformed integer", err)
	}
}

func TestAppenderFixedWidth(t *testing.T) {
	a := NewAppender()
	a.U8(0x01)
	a.U16(0x0102)
	a.U32(0x01020304)
	a.U64(0x0102030405060708)
	a.U128(Uint128{Lo: 1, Hi: 2})
	a.String("ok")
	a.Write([]byte{0xaa})

	c := NewCursor(a.Bytes())
	if v, _ := c.U8(); v != 0x01 {
		t.Errorf("U8: %x", v)
	}
	if v, _ := c.U16(); v != 0x0102 {
		t.Errorf("U16: %x", v)
	}
	if v, _ := c.U32(); v != 0x01020304 {
		t.Errorf("U32: %x", v)
	}
	if v, _ := c.U64(); v != 0x0102030405060708 {
		t.Errorf("U64: %x", v)
	}
	if v, _ := c.U128(); v != (Uint128{Lo: 1, Hi: 2}) {
		t.Errorf("U128: %+v", v)
	}
	if s, _ := c.String(2); s != "ok" {
		t.Errorf("String: %q", s)
	}
	if b, _ := c.U8(); b != 0xaa {
		t.Errorf("Write: %x", b)
	}
	if err := c.Finish(); err != nil {
		t.Error(err)
	}
}

func TestVaruint32Agreement(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint32().Draw(t, "v")
		enc := AppendUvarint(nil, uint64(v))
		if len(enc) > 5 {
			t.Fatalf("%d encoded to %d bytes", v, len(enc))
		}
		c := NewCursor(enc)
		got, err := c.Varuint32()
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if got != v || !c.End() {
			t.Fatalf("got %d with %d bytes left, want %d", got, c.Len(), v)
		}
	})
}

func TestVaruint32RejectsWide(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64Range(1<<32, 1<<32+1<<16-1).Draw(t, "v")
		if _, err := NewCursor(AppendUvarint(nil, v)).Varuint32(); err == nil {
			t.Fatalf("decoded %d as u32", v)
		}
	})
}

func TestVaruint32Exhaustive(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive range")
	}
	var buf []byte
	check := func(v uint32) {
		buf = AppendUvarint(buf[:0], uint64(v))
		got, err := NewCursor(buf).Varuint32()
		if err != nil || got != v {
			t.Fatalf("%d: got %d, %v", v, got, err)
		}
	}
	for v := uint32(0); v <= math.MaxUint16; v++ {
		check(v)
	}
	for v := uint64(math.MaxUint32 - math.MaxUint16); v <= math.MaxUint32; v++ {
		check(uint32(v))
	}
	for v := uint64(math.MaxUint32) + 1; v < uint64(math.MaxUint32)+math.MaxUint16; v++ {
		buf = AppendUvarint(buf[:0], v)
		if _, err := NewCursor(buf).Varuint32(); err == nil {
			t.Fatalf("decoded %d as u32", v)
		}
	}
}

func FuzzUvarint(f *testing.F) {
	f.Add([]byte{0x00}, uint8(32))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, uint8(32))
	f.Add([]byte{0x80, 0x80, 0x80, 0x80, 0x10}, uint8(32))
	f.Add([]byte{0x80}, uint8(8))

	f.Fuzz(func(t *testing.T, data []byte, width uint8) {
		bits := uint(width%64) + 1
		c := NewCursor(data)
		v, err := c.Uvarint(bits)
		if err != nil {
			return
		}
		if bits < 64 && v>>bits != 0 {
			t.Fatalf("u%d decoded %d", bits, v)
		}
		// canonical re-encoding decodes to the same value
		got, err := NewCursor(AppendUvarint(nil, v)).Uvarint(bits)
		if err != nil || got != v {
			t.Fatalf("re-decode %d: got %d, %v", v, got, err)
		}
	})
}
