// Package encoding marshals diagnosis payloads with pooled buffers. HTML
// escaping is off so narrative text and Korean labels are stored verbatim.
package encoding

import (
	"bytes"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
)

// Encoder is safe for concurrent use.
type Encoder struct {
	pool      sync.Pool
	marshaled atomic.Int64
	bytesOut  atomic.Int64
	decoded   atomic.Int64
}

// NewEncoder creates an encoder with an empty buffer pool
func NewEncoder() *Encoder {
	return &Encoder{
		pool: sync.Pool{
			New: func() interface{} { return new(bytes.Buffer) },
		},
	}
}

func (e *Encoder) encode(v interface{}, indent string) ([]byte, error) {
	buf := e.pool.Get().(*bytes.Buffer)
	buf.Reset()
	defer e.pool.Put(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	// Encode appends a newline
	data := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	out := make([]byte, len(data))
	copy(out, data)

	e.marshaled.Add(1)
	e.bytesOut.Add(int64(len(out)))
	return out, nil
}

// Marshal encodes v compactly
func (e *Encoder) Marshal(v interface{}) ([]byte, error) {
	return e.encode(v, "")
}

// MarshalIndent encodes v with the given indent per level
func (e *Encoder) MarshalIndent(v interface{}, indent string) ([]byte, error) {
	return e.encode(v, indent)
}

// Unmarshal decodes data into v
func (e *Encoder) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	e.decoded.Add(1)
	return nil
}

// GetStats returns encoder counters
func (e *Encoder) GetStats() map[string]interface{} {
	marshaled := e.marshaled.Load()
	avg := float64(0)
	if marshaled > 0 {
		avg = float64(e.bytesOut.Load()) / float64(marshaled)
	}
	return map[string]interface{}{
		"marshaled":       marshaled,
		"decoded":         e.decoded.Load(),
		"bytes_out":       e.bytesOut.Load(),
		"avg_payload_len": avg,
	}
}

var defaultEncoder = NewEncoder()

// Default returns the process-wide encoder
func Default() *Encoder { return defaultEncoder }

// MarshalJSON encodes v with the default encoder
func MarshalJSON(v interface{}) ([]byte, error) {
	return defaultEncoder.Marshal(v)
}

// UnmarshalJSON decodes data with the default encoder
func UnmarshalJSON(data []byte, v interface{}) error {
	return defaultEncoder.Unmarshal(data, v)
}
