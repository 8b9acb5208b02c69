package protocol

import (
	"errors"
	"io"
	"math"
	"testing"
)

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()

	e.WriteByte(0x42)
	e.WriteUvarint(12345)
	e.WriteSvarint(-9876)
	e.WriteString("hello world")
	e.WriteBool(true)
	e.WriteBool(false)
	e.WriteUint16(0x1234)
	e.WriteUint64(0x123456789ABCDEF0)
	e.WriteFloat64(2.718281828459045)

	d := NewDecoder(e.Bytes())

	b, err := d.ReadByte()
	if err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v; want 0x42, nil", b, err)
	}
	uv, err := d.ReadUvarint()
	if err != nil || uv != 12345 {
		t.Errorf("ReadUvarint() = %d, %v; want 12345, nil", uv, err)
	}
	sv, err := d.ReadSvarint()
	if err != nil || sv != -9876 {
		t.Errorf("ReadSvarint() = %d, %v; want -9876, nil", sv, err)
	}
	s, err := d.ReadString()
	if err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v; want \"hello world\", nil", s, err)
	}
	bt, err := d.ReadBool()
	if err != nil || !bt {
		t.Errorf("ReadBool() = %v, %v; want true, nil", bt, err)
	}
	bf, err := d.ReadBool()
	if err != nil || bf {
		t.Errorf("ReadBool() = %v, %v; want false, nil", bf, err)
	}
	u16, err := d.ReadUint16()
	if err != nil || u16 != 0x1234 {
		t.Errorf("ReadUint16() = %x, %v; want 0x1234, nil", u16, err)
	}
	u64, err := d.ReadUint64()
	if err != nil || u64 != 0x123456789ABCDEF0 {
		t.Errorf("ReadUint64() = %x, %v", u64, err)
	}
	f64, err := d.ReadFloat64()
	if err != nil || f64 != 2.718281828459045 {
		t.Errorf("ReadFloat64() = %v, %v", f64, err)
	}

	if !d.EOF() || d.Remaining() != 0 {
		t.Errorf("decoder not at EOF, %d bytes remaining", d.Remaining())
	}
}

func TestSvarintExtremes(t *testing.T) {
	tests := []struct {
		name  string
		value int64
	}{
		{"zero", 0},
		{"neg_one", -1},
		{"max_int32", math.MaxInt32},
		{"min_int32", math.MinInt32},
		{"max_int64", math.MaxInt64},
		{"min_int64", math.MinInt64},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEncoder()
			e.WriteSvarint(tc.value)
			got, err := NewDecoder(e.Bytes()).ReadSvarint()
			if err != nil || got != tc.value {
				t.Errorf("round trip = %d, %v; want %d", got, err, tc.value)
			}
		})
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoder()
	e.WriteString("abc")
	if e.Len() != 4 {
		t.Errorf("Len() = %d, want 4", e.Len())
	}
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d", e.Len())
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		read func(*Decoder) error
		want error
	}{
		{"byte empty", nil, func(d *Decoder) error { _, err := d.ReadByte(); return err }, io.ErrUnexpectedEOF},
		{"uvarint truncated", []byte{0x80}, func(d *Decoder) error { _, err := d.ReadUvarint(); return err }, io.ErrUnexpectedEOF},
		{"uvarint overflow", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}, func(d *Decoder) error { _, err := d.ReadUvarint(); return err }, ErrVarintOverflow},
		{"string truncated", []byte{0x05, 'a', 'b'}, func(d *Decoder) error { _, err := d.ReadString(); return err }, io.ErrUnexpectedEOF},
		{"bool invalid", []byte{0x02}, func(d *Decoder) error { _, err := d.ReadBool(); return err }, ErrInvalidBool},
		{"uint16 truncated", []byte{0x01}, func(d *Decoder) error { _, err := d.ReadUint16(); return err }, io.ErrUnexpectedEOF},
		{"float truncated", []byte{0x01, 0x02}, func(d *Decoder) error { _, err := d.ReadFloat64(); return err }, io.ErrUnexpectedEOF},
		{"count exceeds input", []byte{0x05, 0x00}, func(d *Decoder) error { _, err := d.ReadCollectionCount(); return err }, io.ErrUnexpectedEOF},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.read(NewDecoder(tc.data)); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}
