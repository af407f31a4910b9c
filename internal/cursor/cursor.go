// Package cursor provides a forward-only tokenizer over a JSON document with
// byte-offset bookkeeping. It is the single-owner handle around the underlying
// stream: offsets are only observable at token boundaries.
package cursor

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// Kind identifies the category of a JSON token.
type Kind int

const (
	KindInvalid Kind = iota
	KindObjectStart
	KindObjectEnd
	KindArrayStart
	KindArrayEnd
	KindString
	KindNumber
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindObjectStart:
		return "object start"
	case KindObjectEnd:
		return "object end"
	case KindArrayStart:
		return "array start"
	case KindArrayEnd:
		return "array end"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "invalid"
	}
}

// Token is a single JSON token. Text carries the value for scalar kinds.
type Token struct {
	Kind Kind
	Text string
}

// Cursor wraps an encoding/json Decoder as a pull-based token stream.
// It must not be shared across goroutines.
type Cursor struct {
	src io.Reader
	dec *json.Decoder
}

// New returns a Cursor reading from r. If r is also an io.Closer, Close
// releases it.
func New(r io.Reader) *Cursor {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Cursor{src: r, dec: dec}
}

// Next consumes and returns the next token. io.EOF is returned untouched at
// end of input.
func (c *Cursor) Next() (Token, error) {
	tok, err := c.dec.Token()
	if err != nil {
		if err == io.EOF {
			return Token{}, io.EOF
		}
		return Token{}, errors.Wrap(err, "failed to read JSON token")
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return Token{Kind: KindObjectStart}, nil
		case '}':
			return Token{Kind: KindObjectEnd}, nil
		case '[':
			return Token{Kind: KindArrayStart}, nil
		case ']':
			return Token{Kind: KindArrayEnd}, nil
		}
	case string:
		return Token{Kind: KindString, Text: v}, nil
	case json.Number:
		return Token{Kind: KindNumber, Text: v.String()}, nil
	case bool:
		if v {
			return Token{Kind: KindBool, Text: "true"}, nil
		}
		return Token{Kind: KindBool, Text: "false"}, nil
	case nil:
		return Token{Kind: KindNull}, nil
	}
	return Token{}, errors.Errorf("unrecognized JSON token %v", tok)
}

// Offset reports the byte offset just past the most recently consumed token.
func (c *Cursor) Offset() int64 {
	return c.dec.InputOffset()
}

// CaptureRaw materializes the next whole value (scalar or subtree) as its
// compacted textual representation. The cursor must be positioned at a value.
func (c *Cursor) CaptureRaw() (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to capture JSON value")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, errors.Wrap(err, "failed to compact JSON value")
	}
	return buf.Bytes(), nil
}

// Close releases the underlying stream when it owns one.
func (c *Cursor) Close() error {
	if closer, ok := c.src.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
