// Package boundary is the messaging edge of the engine: the framed stdio
// codec spoken with the browser, the command controller that fans out to the
// scanner, executor and autofiller, and the page channel used by the
// companion site to sync data.
package boundary

import (
	"encoding/binary"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
)

// MaxMessageSize bounds a single inbound frame. Browsers cap messages to a
// native host at 4 GB but anything near that is hostile input here.
const MaxMessageSize = 64 << 20

var wireJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// Codec speaks the native-messaging wire format: a 4-byte little-endian
// length prefix followed by that many bytes of JSON.
type Codec struct {
	r io.Reader
	w io.Writer
}

func NewCodec(r io.Reader, w io.Writer) *Codec {
	return &Codec{r: r, w: w}
}

// Read returns the next raw JSON frame. io.EOF on a clean end of stream.
func (c *Codec) Read() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read frame header: %w", err)
	}

	size := binary.LittleEndian.Uint32(header[:])
	if size == 0 {
		return nil, fmt.Errorf("zero-length frame")
	}
	if size > MaxMessageSize {
		return nil, fmt.Errorf("frame of %d bytes exceeds limit", size)
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(c.r, payload); err != nil {
		return nil, fmt.Errorf("failed to read frame body: %w", err)
	}
	return payload, nil
}

// Decode reads the next frame and unmarshals it into out.
func (c *Codec) Decode(out interface{}) error {
	payload, err := c.Read()
	if err != nil {
		return err
	}
	if err := wireJSON.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode frame: %w", err)
	}
	return nil
}

// Encode marshals v and writes it as one frame.
func (c *Codec) Encode(v interface{}) error {
	payload, err := wireJSON.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode frame: %w", err)
	}
	var header [4]byte
	binary.LittleEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := c.w.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write frame header: %w", err)
	}
	if _, err := c.w.Write(payload); err != nil {
		return fmt.Errorf("failed to write frame body: %w", err)
	}
	return nil
}
