package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the wire encoding:
//
//	message Document { uint64 width = 1; uint64 height = 2; uint64 frame = 3; repeated Record boids = 4; }
//	message Record   { uint64 id = 1; double x = 2; double y = 3; double vx = 4; double vy = 5;
//	                   double speed = 6; uint32 color = 7; } // color is 0xRRGGBB
const (
	fieldWidth  protowire.Number = 1
	fieldHeight protowire.Number = 2
	fieldFrame  protowire.Number = 3
	fieldBoid   protowire.Number = 4

	fieldID    protowire.Number = 1
	fieldX     protowire.Number = 2
	fieldY     protowire.Number = 3
	fieldVX    protowire.Number = 4
	fieldVY    protowire.Number = 5
	fieldSpeed protowire.Number = 6
	fieldColor protowire.Number = 7
)

// EncodeWire writes d in protobuf wire format.
func EncodeWire(w io.Writer, d *Document) error {
	bw := bufio.NewWriter(w)

	var b []byte
	b = appendVarint(b, fieldWidth, uint64(d.Width))
	b = appendVarint(b, fieldHeight, uint64(d.Height))
	b = appendVarint(b, fieldFrame, d.Frame)
	if _, err := bw.Write(b); err != nil {
		return err
	}

	var rec []byte
	for i := range d.Boids {
		rec = appendRecord(rec[:0], &d.Boids[i])
		b = protowire.AppendTag(b[:0], fieldBoid, protowire.BytesType)
		b = protowire.AppendBytes(b, rec)
		if _, err := bw.Write(b); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendRecord(b []byte, r *Record) []byte {
	b = appendVarint(b, fieldID, uint64(r.ID))
	b = appendDouble(b, fieldX, r.X)
	b = appendDouble(b, fieldY, r.Y)
	b = appendDouble(b, fieldVX, r.VX)
	b = appendDouble(b, fieldVY, r.VY)
	b = appendDouble(b, fieldSpeed, r.Speed)
	color := uint64(r.Color[0])<<16 | uint64(r.Color[1])<<8 | uint64(r.Color[2])
	return appendVarint(b, fieldColor, color)
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendDouble(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

// DecodeWire reads a snapshot in protobuf wire format. Unknown fields are skipped.
func DecodeWire(r io.Reader) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	d := &Document{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, wireError(n)
		}
		b = b[n:]

		switch {
		case num == fieldWidth && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			d.Width = int(v)
			b = b[n:]
		case num == fieldHeight && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			d.Height = int(v)
			b = b[n:]
		case num == fieldFrame && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, wireError(n)
			}
			d.Frame = v
			b = b[n:]
		case num == fieldBoid && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, wireError(n)
			}
			rec, err := consumeRecord(v)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", len(d.Boids), err)
			}
			d.Boids = append(d.Boids, rec)
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return nil, wireError(n)
			}
			b = b[n:]
		}
	}
	return d, nil
}

func consumeRecord(b []byte) (Record, error) {
	var r Record
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return r, wireError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return r, wireError(n)
			}
			switch num {
			case fieldID:
				r.ID = int(v)
			case fieldColor:
				r.Color = [3]uint8{uint8(v >> 16), uint8(v >> 8), uint8(v)}
			}
			b = b[n:]
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return r, wireError(n)
			}
			f := math.Float64frombits(v)
			switch num {
			case fieldX:
				r.X = f
			case fieldY:
				r.Y = f
			case fieldVX:
				r.VX = f
			case fieldVY:
				r.VY = f
			case fieldSpeed:
				r.Speed = f
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return r, wireError(n)
			}
			b = b[n:]
		}
	}
	return r, nil
}

func wireError(n int) error {
	return fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
}
