// Package orga persists an organization. A Codec serializes the assignment
// into a checksummed, line-oriented text form and hands the result to an
// Obfuscator; a Store writes the blob to the game directory atomically.
package orga

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"paranoia/internal/types"
)

// formatTag opens every serialized organization.
const formatTag = "paranoia-organization/1"

// Codec couples the serialization format with an obfuscation layer.
type Codec struct {
	Obfuscator Obfuscator
}

// DefaultCodec conceals with base64.
var DefaultCodec = Codec{Obfuscator: Base64{}}

// Encode serializes a with the default codec.
func Encode(a *types.Assignment) ([]byte, error) {
	return DefaultCodec.Encode(a)
}

// Decode parses data with the default codec.
func Decode(data []byte) (*types.Assignment, error) {
	return DefaultCodec.Decode(data)
}

// Encode serializes and conceals a.
func (c Codec) Encode(a *types.Assignment) ([]byte, error) {
	plain, err := Marshal(a)
	if err != nil {
		return nil, err
	}
	return c.Obfuscator.Conceal(plain), nil
}

// Decode reveals and parses data. Every failure is a *types.CodecError.
func (c Codec) Decode(data []byte) (*types.Assignment, error) {
	plain, err := c.Obfuscator.Reveal(data)
	if err != nil {
		return nil, &types.CodecError{Stage: "reveal", Err: err}
	}
	return Unmarshal(plain)
}

type document struct {
	ID      string      `yaml:"id"`
	Target  string      `yaml:"target"`
	Fields  []string    `yaml:"fields,flow"`
	Players []playerDoc `yaml:"players"`
}

type playerDoc struct {
	Name   string            `yaml:"name"`
	Serial int               `yaml:"serial"`
	Target string            `yaml:"target"`
	Values map[string]string `yaml:"values,omitempty"`
}

// Marshal renders a as "<tag> <sha256>\n<yaml body>", players in canonical
// order. The output is identical for identical assignments.
func Marshal(a *types.Assignment) ([]byte, error) {
	doc := document{
		ID:      a.ID.String(),
		Target:  a.TargetField,
		Fields:  a.Fields,
		Players: make([]playerDoc, 0, len(a.Players)),
	}
	for _, p := range a.Players {
		rec, ok := a.Records[p]
		if !ok {
			return nil, fmt.Errorf("no record for player %q", p)
		}
		pd := playerDoc{Name: p, Serial: rec.Serial, Target: rec.Target}
		if len(rec.Values) > 0 {
			pd.Values = rec.Values
		}
		doc.Players = append(doc.Players, pd)
	}

	var body bytes.Buffer
	enc := yaml.NewEncoder(&body)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode organization: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode organization: %w", err)
	}

	var out bytes.Buffer
	out.WriteString(formatTag)
	out.WriteByte(' ')
	out.WriteString(checksum(body.Bytes()))
	out.WriteByte('\n')
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// Unmarshal is the inverse of Marshal. Empty field lists and value maps
// come back non-nil, so a nil and an empty collection decode the same.
func Unmarshal(plain []byte) (*types.Assignment, error) {
	header, body, ok := bytes.Cut(plain, []byte("\n"))
	if !ok {
		return nil, &types.CodecError{Stage: "header", Err: errors.New("missing header line")}
	}
	tag, digest, ok := strings.Cut(string(header), " ")
	if !ok || tag != formatTag {
		return nil, &types.CodecError{Stage: "header", Err: fmt.Errorf("unknown format %q", truncate(string(header), 40))}
	}
	if digest != checksum(body) {
		return nil, &types.CodecError{Stage: "header", Err: errors.New("checksum mismatch")}
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(body))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &types.CodecError{Stage: "body", Err: err}
	}

	a, err := fromDocument(doc)
	if err != nil {
		return nil, &types.CodecError{Stage: "structure", Err: err}
	}
	return a, nil
}

func fromDocument(doc document) (*types.Assignment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("organization id: %w", err)
	}
	if doc.Target == "" {
		return nil, errors.New("missing target field name")
	}

	fields := make(map[string]bool, len(doc.Fields))
	for _, f := range doc.Fields {
		if f == "" || f == doc.Target || fields[f] || hasControl(f) {
			return nil, fmt.Errorf("invalid field list")
		}
		fields[f] = true
	}

	n := len(doc.Players)
	a := &types.Assignment{
		ID:          id,
		TargetField: doc.Target,
		Fields:      append([]string{}, doc.Fields...),
		Players:     make([]string, 0, n),
		Records:     make(map[string]types.Record, n),
	}
	serials := make([]bool, n)
	for i, pd := range doc.Players {
		if pd.Name == "" {
			return nil, fmt.Errorf("player %d has no name", i)
		}
		if _, dup := a.Records[pd.Name]; dup {
			return nil, fmt.Errorf("player %q listed twice", pd.Name)
		}
		if pd.Serial < 0 || pd.Serial >= n || serials[pd.Serial] {
			return nil, fmt.Errorf("player %q has invalid serial %d", pd.Name, pd.Serial)
		}
		serials[pd.Serial] = true

		values := make(map[string]string, len(pd.Values))
		for k, v := range pd.Values {
			if !fields[k] {
				return nil, fmt.Errorf("player %q has value for unknown field %q", pd.Name, k)
			}
			values[k] = v
		}
		a.Players = append(a.Players, pd.Name)
		a.Records[pd.Name] = types.Record{Serial: pd.Serial, Target: pd.Target, Values: values}
	}

	if err := a.CheckLoop(); err != nil {
		return nil, err
	}
	return a, nil
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
