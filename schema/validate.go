package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// Schema is a compiled, immutable schema contract. A nil *Schema accepts
// every value, so optional contracts need no special casing at call sites.
type Schema struct {
	node *node
	raw  json.RawMessage
}

// Compile checks a builder's schema for internal consistency and returns
// the compiled contract.
func Compile(b Builder) (*Schema, error) {
	raw, err := b.Build()
	if err != nil {
		return nil, err
	}
	return &Schema{node: b.schema(), raw: raw}, nil
}

// MustCompile is like Compile but panics on error. Schemas are configuration
// built at process start, so a panic here is a programming error.
func MustCompile(b Builder) *Schema {
	s, err := Compile(b)
	if err != nil {
		panic(err)
	}
	return s
}

// FromJSON compiles a schema from a serialized JSON Schema document, as
// received from an external source such as an MCP server's tool listing.
// Unrecognized keywords are ignored rather than rejected.
func FromJSON(raw json.RawMessage) (*Schema, error) {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("schema: parse: %w", err)
	}
	if err := n.check(); err != nil {
		return nil, err
	}
	return &Schema{node: &n, raw: raw}, nil
}

// JSON returns the serialized JSON Schema, e.g. for passing to a Generator
// as a response schema. Returns nil for a nil Schema.
func (s *Schema) JSON() json.RawMessage {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks a value against the schema. Struct values are normalized
// through a JSON round-trip before structural validation, so any
// JSON-serializable Go value can cross a stage boundary. A nil Schema
// accepts everything.
func (s *Schema) Validate(value any) error {
	if s == nil {
		return nil
	}
	v, err := normalize(value)
	if err != nil {
		return &ValidationError{Message: fmt.Sprintf("value is not JSON-serializable: %v", err), Err: err}
	}
	return s.node.validateValue("", v)
}

// normalize converts a Go value into the generic JSON shape
// (map[string]any, []any, float64, string, bool, nil) the validator walks.
func normalize(value any) (any, error) {
	switch value.(type) {
	case nil, string, bool, float64:
		return value, nil
	}
	// Maps and slices round-trip too: their elements may hold ints or
	// structs that need the same normalization.
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (n *node) validateValue(path string, v any) error {
	if len(n.Enum) > 0 {
		if err := n.checkEnum(path, v); err != nil {
			return err
		}
	}

	switch n.Type {
	case "":
		return nil

	case "string":
		s, ok := v.(string)
		if !ok {
			return typeError(path, "string", v)
		}
		length := len([]rune(s))
		if n.MinLength != nil && length < *n.MinLength {
			return &ValidationError{Path: path, Message: fmt.Sprintf("length %d below minLength %d", length, *n.MinLength)}
		}
		if n.MaxLength != nil && length > *n.MaxLength {
			return &ValidationError{Path: path, Message: fmt.Sprintf("length %d above maxLength %d", length, *n.MaxLength)}
		}
		if n.Pattern != "" {
			re, err := regexp.Compile(n.Pattern)
			if err != nil {
				return &ValidationError{Path: path, Message: fmt.Sprintf("invalid pattern %q", n.Pattern), Err: ErrInvalidPattern}
			}
			if !re.MatchString(s) {
				return &ValidationError{Path: path, Message: fmt.Sprintf("%q does not match pattern %q", s, n.Pattern)}
			}
		}
		return nil

	case "integer":
		f, ok := v.(float64)
		if !ok {
			return typeError(path, "integer", v)
		}
		if f != math.Trunc(f) {
			return &ValidationError{Path: path, Message: fmt.Sprintf("%v is not an integer", f)}
		}
		return n.checkBounds(path, f)

	case "number":
		f, ok := v.(float64)
		if !ok {
			return typeError(path, "number", v)
		}
		return n.checkBounds(path, f)

	case "boolean":
		if _, ok := v.(bool); !ok {
			return typeError(path, "boolean", v)
		}
		return nil

	case "array":
		items, ok := v.([]any)
		if !ok {
			return typeError(path, "array", v)
		}
		if n.MinItems != nil && len(items) < *n.MinItems {
			return &ValidationError{Path: path, Message: fmt.Sprintf("%d items below minItems %d", len(items), *n.MinItems)}
		}
		if n.MaxItems != nil && len(items) > *n.MaxItems {
			return &ValidationError{Path: path, Message: fmt.Sprintf("%d items above maxItems %d", len(items), *n.MaxItems)}
		}
		for i, item := range items {
			if err := n.Items.validateValue(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
				return err
			}
		}
		return nil

	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			return typeError(path, "object", v)
		}
		for _, req := range n.Required {
			if _, present := obj[req]; !present {
				return &ValidationError{Path: joinPath(path, req), Message: "required field is missing"}
			}
		}
		for name, prop := range n.Properties {
			fv, present := obj[name]
			if !present || fv == nil {
				// Absent and JSON-null optional fields are equivalent:
				// Go zero values for slices and pointers marshal to null.
				continue
			}
			if err := prop.validateValue(joinPath(path, name), fv); err != nil {
				return err
			}
		}
		if n.AdditionalProperties != nil && !*n.AdditionalProperties {
			var extra []string
			for name := range obj {
				if _, declared := n.Properties[name]; !declared {
					extra = append(extra, name)
				}
			}
			if len(extra) > 0 {
				sort.Strings(extra)
				return &ValidationError{Path: path, Message: fmt.Sprintf("undeclared fields: %s", strings.Join(extra, ", "))}
			}
		}
		return nil

	default:
		return &ValidationError{Path: path, Message: fmt.Sprintf("unknown schema type %q", n.Type)}
	}
}

func (n *node) checkBounds(path string, f float64) error {
	if n.Minimum != nil && f < *n.Minimum {
		return &ValidationError{Path: path, Message: fmt.Sprintf("%v below minimum %v", f, *n.Minimum)}
	}
	if n.Maximum != nil && f > *n.Maximum {
		return &ValidationError{Path: path, Message: fmt.Sprintf("%v above maximum %v", f, *n.Maximum)}
	}
	return nil
}

func (n *node) checkEnum(path string, v any) error {
	for _, allowed := range n.Enum {
		if v == allowed {
			return nil
		}
	}
	return &ValidationError{Path: path, Message: fmt.Sprintf("%v is not one of the allowed values", v)}
}

func typeError(path, want string, got any) error {
	return &ValidationError{Path: path, Message: fmt.Sprintf("expected %s, got %T", want, got)}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
