package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// ErrMalformedRecordData indicates stored bytes that cannot be decoded
// back into a Record.
var ErrMalformedRecordData = errors.New("malformed record data")

// RecordMUS is the MUS format serializer for Record.
//
// The codec is hand-maintained. Field order is fixed (seq, text, vector,
// source, docType, checksum, insertedAt) and InsertedAt travels as
// microseconds since the Unix epoch; changing either breaks every
// existing store.
var RecordMUS = recordMUS{}

type recordMUS struct{}

func (recordMUS) Marshal(r Record, bs []byte) (n int) {
	n = varint.Uint64.Marshal(r.Seq, bs)
	n += ord.String.Marshal(r.Text, bs[n:])
	n += varint.Int.Marshal(len(r.Vector), bs[n:])
	for _, v := range r.Vector {
		n += raw.Float32.Marshal(v, bs[n:])
	}
	n += ord.String.Marshal(r.Source, bs[n:])
	n += ord.String.Marshal(string(r.DocType), bs[n:])
	n += varint.Uint64.Marshal(r.Checksum, bs[n:])
	n += varint.Int64.Marshal(r.InsertedAt.UnixMicro(), bs[n:])
	return n
}

func (recordMUS) Unmarshal(bs []byte) (r Record, n int, err error) {
	r.Seq, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	r.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var length int
	length, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if length < 0 {
		err = fmt.Errorf("%w: vector length %d", ErrMalformedRecordData, length)
		return
	}
	if length > 0 {
		r.Vector = make([]float32, length)
		for i := range r.Vector {
			r.Vector[i], n1, err = raw.Float32.Unmarshal(bs[n:])
			n += n1
			if err != nil {
				return
			}
		}
	}
	r.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var docType string
	docType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.DocType = DocType(docType)
	r.Checksum, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.InsertedAt = time.UnixMicro(micros).UTC()
	return
}

func (recordMUS) Size(r Record) (size int) {
	size = varint.Uint64.Size(r.Seq)
	size += ord.String.Size(r.Text)
	size += varint.Int.Size(len(r.Vector))
	for _, v := range r.Vector {
		size += raw.Float32.Size(v)
	}
	size += ord.String.Size(r.Source)
	size += ord.String.Size(string(r.DocType))
	size += varint.Uint64.Size(r.Checksum)
	size += varint.Int64.Size(r.InsertedAt.UnixMicro())
	return size
}
