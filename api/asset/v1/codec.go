package assetv1

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Decode unmarshals the JSON object held by in into v. Unknown fields are rejected. A nil in decodes as {}.
func Decode(in *structpb.Struct, v any) error {
	if in == nil {
		in = &structpb.Struct{}
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// Encode marshals v (which must encode as a JSON object) into a Struct.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}

// DecodeJSON parses a raw JSON object (e.g. a CLI argument) into a Struct.
func DecodeJSON(raw []byte) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("parse JSON object: %w", err)
	}
	return out, nil
}

// EncodeJSON renders s as indented JSON.
func EncodeJSON(s *structpb.Struct) ([]byte, error) {
	if s == nil {
		s = &structpb.Struct{}
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
}
