package orga

import (
	"bytes"
	"encoding/base64"
	"fmt"
)

// Obfuscator turns the serialized organization into something that is not
// recognizable at a glance, and back. It is a presentation layer, not a
// security boundary.
type Obfuscator interface {
	Conceal(plain []byte) []byte
	Reveal(blob []byte) ([]byte, error)
}

// Base64 conceals with standard base64 on a single line.
type Base64 struct{}

func (Base64) Conceal(plain []byte) []byte {
	out := make([]byte, base64.StdEncoding.EncodedLen(len(plain)), base64.StdEncoding.EncodedLen(len(plain))+1)
	base64.StdEncoding.Encode(out, plain)
	return append(out, '\n')
}

func (Base64) Reveal(blob []byte) ([]byte, error) {
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 {
		return nil, fmt.Errorf("empty organization file")
	}
	out := make([]byte, base64.StdEncoding.DecodedLen(len(blob)))
	n, err := base64.StdEncoding.Strict().Decode(out, blob)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}
