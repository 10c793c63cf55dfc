package rlp

import (
	"io"
	"math/big"
	"reflect"
)

// Kind represents the type of an RLP value.
type Kind int

const (
	Byte   Kind = iota // single byte in [0x00, 0x7f]
	String             // RLP string, including the empty string
	List               // RLP list
)

// Decode reads an RLP-encoded value from r into the value pointed to by val.
func Decode(r io.Reader, val interface{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return DecodeBytes(data, val)
}

// DecodeBytes decodes an RLP-encoded byte slice into the value pointed to by val.
func DecodeBytes(b []byte, val interface{}) error {
	return NewStreamFromBytes(b).decodeValue(reflect.ValueOf(val))
}

// Stream provides sequential access to the items of an RLP-encoded buffer.
// List/ListEnd establish nested scopes; reads never cross the innermost
// open list boundary.
type Stream struct {
	data  []byte
	pos   int
	stack []int // exclusive end offsets of open lists
}

// NewStream creates a Stream reading the whole of r.
func NewStream(r io.Reader) *Stream {
	data, _ := io.ReadAll(r)
	return NewStreamFromBytes(data)
}

// NewStreamFromBytes creates a Stream over b.
func NewStreamFromBytes(b []byte) *Stream {
	return &Stream{data: b}
}

// limit returns the exclusive upper bound for reads at the current nesting level.
func (s *Stream) limit() int {
	if len(s.stack) == 0 {
		return len(s.data)
	}
	return s.stack[len(s.stack)-1]
}

// Kind returns the type and content size of the next value without consuming it.
func (s *Stream) Kind() (Kind, uint64, error) {
	kind, payload, _, err := s.peekItem()
	if err != nil {
		return 0, 0, err
	}
	return kind, uint64(len(payload)), nil
}

// peekItem parses the header of the next item, returning its kind, payload
// slice and total encoded size, without advancing the stream.
func (s *Stream) peekItem() (Kind, []byte, int, error) {
	if s.pos >= s.limit() {
		if len(s.stack) > 0 {
			return 0, nil, 0, ErrEOL
		}
		return 0, nil, 0, io.EOF
	}
	b := s.data[s.pos]
	lim := s.limit()

	switch {
	case b <= 0x7f:
		return Byte, s.data[s.pos : s.pos+1], 1, nil

	case b <= 0xb7:
		n := int(b - 0x80)
		if s.pos+1+n > lim {
			return 0, nil, 0, ErrTruncated
		}
		payload := s.data[s.pos+1 : s.pos+1+n]
		if n == 1 && payload[0] <= 0x7f {
			return 0, nil, 0, ErrCanonSize
		}
		return String, payload, 1 + n, nil

	case b <= 0xbf:
		lenSize := int(b - 0xb7)
		n, consumed, err := s.readSize(lenSize, lim)
		if err != nil {
			return 0, nil, 0, err
		}
		if n <= 55 {
			return 0, nil, 0, ErrCanonSize
		}
		return String, s.data[s.pos+consumed : s.pos+consumed+n], consumed + n, nil

	case b <= 0xf7:
		n := int(b - 0xc0)
		if s.pos+1+n > lim {
			return 0, nil, 0, ErrTruncated
		}
		return List, s.data[s.pos+1 : s.pos+1+n], 1 + n, nil

	default:
		lenSize := int(b - 0xf7)
		n, consumed, err := s.readSize(lenSize, lim)
		if err != nil {
			return 0, nil, 0, err
		}
		if n <= 55 {
			return 0, nil, 0, ErrCanonSize
		}
		return List, s.data[s.pos+consumed : s.pos+consumed+n], consumed + n, nil
	}
}

// readSize reads a multi-byte big-endian length of lenSize bytes starting after
// the tag byte, validating canonical form and bounds. It returns the payload
// size and the total header size (tag plus length bytes).
func (s *Stream) readSize(lenSize, lim int) (int, int, error) {
	if s.pos+1+lenSize > lim {
		return 0, 0, ErrTruncated
	}
	lenBytes := s.data[s.pos+1 : s.pos+1+lenSize]
	if lenBytes[0] == 0 {
		return 0, 0, ErrCanonSize
	}
	var n uint64
	for _, c := range lenBytes {
		n = n<<8 | uint64(c)
	}
	if n > uint64(lim-s.pos) {
		return 0, 0, ErrTruncated
	}
	total := 1 + lenSize
	if s.pos+total+int(n) > lim {
		return 0, 0, ErrTruncated
	}
	return int(n), total, nil
}

// Bytes reads the next value as a byte string.
func (s *Stream) Bytes() ([]byte, error) {
	kind, payload, size, err := s.peekItem()
	if err != nil {
		return nil, err
	}
	if kind == List {
		return nil, ErrExpectedString
	}
	s.pos += size
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, nil
}

// RawItem reads the next value and returns its complete encoding, header included.
func (s *Stream) RawItem() ([]byte, error) {
	_, _, size, err := s.peekItem()
	if err != nil {
		return nil, err
	}
	raw := make([]byte, size)
	copy(raw, s.data[s.pos:s.pos+size])
	s.pos += size
	return raw, nil
}

// List enters the next value, which must be a list, and returns its payload size.
func (s *Stream) List() (uint64, error) {
	kind, payload, size, err := s.peekItem()
	if err != nil {
		return 0, err
	}
	if kind != List {
		return 0, ErrExpectedList
	}
	headerSize := size - len(payload)
	s.pos += headerSize
	s.stack = append(s.stack, s.pos+len(payload))
	return uint64(len(payload)), nil
}

// AtListEnd reports whether the current list scope has been fully consumed.
func (s *Stream) AtListEnd() bool {
	return len(s.stack) > 0 && s.pos >= s.stack[len(s.stack)-1]
}

// ListEnd exits the innermost list scope. All of the list's payload must have
// been consumed.
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return ErrExpectedList
	}
	end := s.stack[len(s.stack)-1]
	if s.pos < end {
		return ErrEOL
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Uint64 reads the next value as a canonical unsigned integer.
func (s *Stream) Uint64() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) > 8 {
		return 0, ErrUint64Range
	}
	if len(b) > 0 && b[0] == 0 {
		return 0, ErrCanonInt
	}
	var u uint64
	for _, c := range b {
		u = u<<8 | uint64(c)
	}
	return u, nil
}

// BigInt reads the next value as a canonical arbitrary-precision integer.
func (s *Stream) BigInt() (*big.Int, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, ErrCanonInt
	}
	return new(big.Int).SetBytes(b), nil
}

// decodeValue decodes the next stream item into the pointed-to value.
func (s *Stream) decodeValue(v reflect.Value) error {
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return ErrUnsupportedType
	}
	return s.decodeInto(v.Elem())
}

func (s *Stream) decodeInto(v reflect.Value) error {
	if v.Type() == bigIntType {
		bi, err := s.BigInt()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(*bi))
		return nil
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return s.decodeInto(v.Elem())

	case reflect.Bool:
		u, err := s.Uint64()
		if err != nil {
			return err
		}
		v.SetBool(u != 0)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := s.Uint64()
		if err != nil {
			return err
		}
		v.SetUint(u)
		return nil

	case reflect.String:
		b, err := s.Bytes()
		if err != nil {
			return err
		}
		v.SetString(string(b))
		return nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			v.SetBytes(b)
			return nil
		}
		return s.decodeSequence(v)

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := s.Bytes()
			if err != nil {
				return err
			}
			if len(b) != v.Len() {
				return ErrCanonSize
			}
			reflect.Copy(v, reflect.ValueOf(b))
			return nil
		}
		return ErrUnsupportedType

	case reflect.Struct:
		return s.decodeStruct(v)

	default:
		return ErrUnsupportedType
	}
}

func (s *Stream) decodeSequence(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	out := reflect.MakeSlice(v.Type(), 0, 4)
	for !s.AtListEnd() {
		elem := reflect.New(v.Type().Elem())
		if err := s.decodeInto(elem.Elem()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	if err := s.ListEnd(); err != nil {
		return err
	}
	v.Set(out)
	return nil
}

func (s *Stream) decodeStruct(v reflect.Value) error {
	if _, err := s.List(); err != nil {
		return err
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		if err := s.decodeInto(v.Field(i)); err != nil {
			return err
		}
	}
	return s.ListEnd()
}
