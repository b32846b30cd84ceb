package core

import (
	"curvedb/calendar"
	"errors"
	"fmt"
	"github.com/tinylib/msgp/msgp"
)

// NOTE: Tests are in deser_test.go

var ErrCorrupt = errors.New("corrupt record")

// Every record is a msgpack array whose first element is a tag byte naming
// its type.
const (
	seriesTag byte = 'S'
	resultTag byte = 'R'
	curveTag  byte = 'C'
	dbTag     byte = 'D'
)

const (
	seriesFields = 3
	resultFields = 5
	curveFields  = 3
	dbFields     = 3
)

func appendInt64s(buf []byte, vs []int64) []byte {
	buf = msgp.AppendArrayHeader(buf, uint32(len(vs)))
	for _, v := range vs {
		buf = msgp.AppendInt64(buf, v)
	}
	return buf
}

func appendFloat64s(buf []byte, vs []float64) []byte {
	buf = msgp.AppendArrayHeader(buf, uint32(len(vs)))
	for _, v := range vs {
		buf = msgp.AppendFloat64(buf, v)
	}
	return buf
}

func appendHeader(buf []byte, tag byte, fields uint32) []byte {
	buf = msgp.AppendArrayHeader(buf, fields)
	return msgp.AppendByte(buf, tag)
}

// decoder walks a record, keeping the first error.
type decoder struct {
	buf []byte
	err error
}

func newDecoder(tag byte, fields uint32, buf []byte) *decoder {
	dec := &decoder{buf: buf}
	sz, rest, err := msgp.ReadArrayHeaderBytes(buf)
	if err != nil {
		dec.fail(err)
		return dec
	}
	if sz != fields {
		dec.err = fmt.Errorf("%w: expected %d fields, got %d", ErrCorrupt, fields, sz)
		return dec
	}
	got, rest, err := msgp.ReadByteBytes(rest)
	if err != nil {
		dec.fail(err)
		return dec
	}
	if got != tag {
		dec.err = fmt.Errorf("%w: expected tag %q, got %q", ErrCorrupt, tag, got)
		return dec
	}
	dec.buf = rest
	return dec
}

func (dec *decoder) fail(err error) {
	if dec.err == nil {
		dec.err = fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
}

func (dec *decoder) readInt64() int64 {
	if dec.err != nil {
		return 0
	}
	v, rest, err := msgp.ReadInt64Bytes(dec.buf)
	if err != nil {
		dec.fail(err)
		return 0
	}
	dec.buf = rest
	return v
}

func (dec *decoder) readFloat64() float64 {
	if dec.err != nil {
		return 0
	}
	v, rest, err := msgp.ReadFloat64Bytes(dec.buf)
	if err != nil {
		dec.fail(err)
		return 0
	}
	dec.buf = rest
	return v
}

func (dec *decoder) readString() string {
	if dec.err != nil {
		return ""
	}
	s, rest, err := msgp.ReadStringBytes(dec.buf)
	if err != nil {
		dec.fail(err)
		return ""
	}
	dec.buf = rest
	return s
}

// count reads an array header, rejecting lengths the remaining bytes cannot
// hold given the smallest encoding of one element.
func (dec *decoder) count(minWidth int) int {
	if dec.err != nil {
		return 0
	}
	sz, rest, err := msgp.ReadArrayHeaderBytes(dec.buf)
	if err != nil {
		dec.fail(err)
		return 0
	}
	if int64(sz)*int64(minWidth) > int64(len(rest)) {
		dec.err = fmt.Errorf("%w: bad length %d", ErrCorrupt, sz)
		return 0
	}
	dec.buf = rest
	return int(sz)
}

func (dec *decoder) readInt64s() []int64 {
	vs := make([]int64, dec.count(1))
	for i := range vs {
		vs[i] = dec.readInt64()
	}
	return vs
}

func (dec *decoder) readFloat64s() []float64 {
	vs := make([]float64, dec.count(msgp.Float64Size))
	for i := range vs {
		vs[i] = dec.readFloat64()
	}
	return vs
}

func (dec *decoder) finish() error {
	if dec.err == nil && len(dec.buf) != 0 {
		dec.err = fmt.Errorf("%w: %d trailing bytes", ErrCorrupt, len(dec.buf))
	}
	return dec.err
}

func SeriesToBytes(times []int64, values []float64) []byte {
	size := msgp.ArrayHeaderSize + msgp.Uint8Size +
		2*msgp.ArrayHeaderSize + len(times)*msgp.Int64Size + len(values)*msgp.Float64Size
	buf := appendHeader(make([]byte, 0, size), seriesTag, seriesFields)
	buf = appendInt64s(buf, times)
	return appendFloat64s(buf, values)
}

func BytesToSeries(buf []byte) ([]int64, []float64, error) {
	dec := newDecoder(seriesTag, seriesFields, buf)
	times := dec.readInt64s()
	values := dec.readFloat64s()
	if err := dec.finish(); err != nil {
		return nil, nil, err
	}
	if len(times) != len(values) {
		return nil, nil, fmt.Errorf("%w: %d times, %d values", ErrCorrupt, len(times), len(values))
	}
	return times, values, nil
}

func (result *Result) Msgsize() int {
	return msgp.ArrayHeaderSize + msgp.Uint8Size + 2*msgp.Int64Size +
		2*msgp.ArrayHeaderSize + len(result.TimeSteps)*msgp.Int64Size + len(result.Values)*msgp.Float64Size
}

func (result *Result) MarshalMsg(b []byte) ([]byte, error) {
	o := msgp.Require(b, result.Msgsize())
	o = appendHeader(o, resultTag, resultFields)
	o = msgp.AppendInt64(o, int64(result.Policy))
	o = msgp.AppendInt64(o, int64(result.Kind))
	o = appendInt64s(o, result.TimeSteps)
	return appendFloat64s(o, result.Values), nil
}

// UnmarshalMsg decodes exactly one result record from b.
func (result *Result) UnmarshalMsg(b []byte) ([]byte, error) {
	dec := newDecoder(resultTag, resultFields, b)
	policy := Policy(dec.readInt64())
	kind := calendar.PeriodKind(dec.readInt64())
	timeSteps := dec.readInt64s()
	values := dec.readFloat64s()
	if err := dec.finish(); err != nil {
		return b, err
	}
	if len(timeSteps) != len(values) {
		return b, fmt.Errorf("%w: %d time steps, %d values", ErrCorrupt, len(timeSteps), len(values))
	}
	if !policy.Valid() || !kind.Valid() {
		return b, fmt.Errorf("%w: result for %s/%s", ErrCorrupt, policy, kind)
	}
	result.Policy = policy
	result.Kind = kind
	result.TimeSteps = timeSteps
	result.Values = values
	return dec.buf, nil
}

func ResultToBytes(result *Result) []byte {
	buf, _ := result.MarshalMsg(nil)
	return buf
}

func BytesToResult(buf []byte) (*Result, error) {
	result := &Result{}
	if _, err := result.UnmarshalMsg(buf); err != nil {
		return nil, err
	}
	return result, nil
}

func curveToBytes(curve *Curve) []byte {
	buf := appendHeader(nil, curveTag, curveFields)
	buf = msgp.AppendInt64(buf, curve.id)
	return msgp.AppendString(buf, curve.name)
}

func bytesToCurveMeta(buf []byte) (int64, string, error) {
	dec := newDecoder(curveTag, curveFields, buf)
	id := dec.readInt64()
	name := dec.readString()
	if err := dec.finish(); err != nil {
		return 0, "", err
	}
	return id, name, nil
}

// The DB record holds the next curve ID followed by the live curve IDs.
func dbToBytes(nextID int64, curveIDs []int64) []byte {
	buf := appendHeader(nil, dbTag, dbFields)
	buf = msgp.AppendInt64(buf, nextID)
	return appendInt64s(buf, curveIDs)
}

func bytesToDB(buf []byte) (int64, []int64, error) {
	dec := newDecoder(dbTag, dbFields, buf)
	nextID := dec.readInt64()
	ids := dec.readInt64s()
	if err := dec.finish(); err != nil {
		return 0, nil, err
	}
	return nextID, ids, nil
}
