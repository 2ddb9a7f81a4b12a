package artifact

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field is one decoded top-level protobuf field. Only varint and
// length-delimited fields are surfaced; other wire types are skipped.
type Field struct {
	Num    protowire.Number
	Type   protowire.Type
	Varint uint64
	Bytes  []byte
}

// Walk calls fn for every varint or length-delimited field in data, in
// encoding order.
func Walk(data []byte, fn func(Field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]

		f := Field{Num: num, Type: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %w", ErrMalformed, num, protowire.ParseError(n))
			}
			f.Varint = v
			data = data[n:]
		case protowire.BytesType:
			b, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %w", ErrMalformed, num, protowire.ParseError(n))
			}
			f.Bytes = b
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %w", ErrMalformed, num, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// AppendStrings appends each value as a repeated string field.
func AppendStrings(b []byte, num protowire.Number, values []string) []byte {
	for _, v := range values {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, v)
	}
	return b
}

// AppendUint appends a varint field.
func AppendUint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// AppendFloats appends values as a packed repeated fixed32 field.
func AppendFloats(b []byte, num protowire.Number, values []float32) []byte {
	packed := make([]byte, 0, 4*len(values))
	for _, v := range values {
		packed = protowire.AppendFixed32(packed, math.Float32bits(v))
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, packed)
}

// ParseFloats decodes a packed repeated fixed32 field.
func ParseFloats(packed []byte) ([]float32, error) {
	if len(packed)%4 != 0 {
		return nil, fmt.Errorf("%w: packed floats length %d", ErrMalformed, len(packed))
	}
	out := make([]float32, 0, len(packed)/4)
	for len(packed) > 0 {
		v, n := protowire.ConsumeFixed32(packed)
		if n < 0 {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		out = append(out, math.Float32frombits(v))
		packed = packed[n:]
	}
	return out, nil
}
