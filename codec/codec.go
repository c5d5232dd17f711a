// Package codec implements the wire format used by inter-node transports
// (TCP push/pull nodes, the dptool probe). It is a thin, symmetric wrapper
// around MessagePack: Encode/Decode for single values, and a Framer for
// stream consumers that need to feed arbitrary byte chunks and iterate
// complete messages as they arrive.
package codec

import (
	"bufio"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Encode packs a value into its MessagePack wire representation. Values
// drawn from {nil, bool, int64, float64, string, []byte, []interface{},
// map[string]interface{}} round-trip exactly through Encode/Decode.
func Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Decode is the exact inverse of Encode.
func Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

// DecodeValue decodes a single message into a generic interface{}, useful
// when the caller does not know the message shape ahead of time (e.g. the
// dptool probe).
func DecodeValue(data []byte) (interface{}, error) {
	var v interface{}
	if err := msgpack.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Framer incrementally decodes a stream of MessagePack-encoded values from
// an io.Reader, yielding one complete message at a time. It is the
// streaming counterpart of Encode/Decode, used by the TCP source/sink node
// types to read messages off a net.Conn without needing to know message
// boundaries in advance.
type Framer struct {
	dec *msgpack.Decoder
}

// NewFramer wraps r in a buffered MessagePack decoder.
func NewFramer(r io.Reader) *Framer {
	return &Framer{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

// Next blocks until a complete message is available, decodes it into v, and
// returns. It returns io.EOF when the underlying reader is exhausted and no
// partial message remains buffered.
func (f *Framer) Next(v interface{}) error {
	return f.dec.Decode(v)
}

// NextValue is the generic-interface{} counterpart of Next.
func (f *Framer) NextValue() (interface{}, error) {
	var v interface{}
	if err := f.dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Writer encodes successive values onto an io.Writer using the same wire
// format a Framer reads back, so a TCP sink and a TCP source remain
// interoperable without sharing a framing length prefix of their own —
// MessagePack's own type tags are self-describing.
type Writer struct {
	enc *msgpack.Encoder
}

// NewWriter wraps w in a MessagePack encoder.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: msgpack.NewEncoder(w)}
}

// Write encodes v and flushes it to the underlying writer.
func (w *Writer) Write(v interface{}) error {
	return w.enc.Encode(v)
}
