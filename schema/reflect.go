package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// For builds a compiled Schema by reflecting on a struct type. Field names
// come from json tags; `desc` tags set descriptions, `required:"true"` marks
// fields required, and `enum:"a,b,c"` restricts string fields.
//
//	type Review struct {
//	    Score    int    `json:"score" required:"true" desc:"Quality score 0-100"`
//	    Feedback string `json:"feedback" required:"true"`
//	}
//
//	reviewSchema := schema.MustFor[Review]()
func For[T any]() (*Schema, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("schema: cannot reflect schema for interface type")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: For requires a struct type, got %s", t.Kind())
	}

	n, err := structNode(t)
	if err != nil {
		return nil, err
	}
	if err := n.check(); err != nil {
		return nil, err
	}
	raw, err := build(n)
	if err != nil {
		return nil, err
	}
	return &Schema{node: n, raw: raw}, nil
}

// MustFor is like For but panics on error.
func MustFor[T any]() *Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func structNode(t reflect.Type) (*node, error) {
	n := &node{Type: "object", Properties: make(map[string]*node)}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop, err := fieldNode(field.Type)
		if err != nil {
			return nil, fmt.Errorf("schema: field %q: %w", name, err)
		}
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" && prop.Type == "string" {
			for _, v := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(v))
			}
		}
		n.Properties[name] = prop
		if field.Tag.Get("required") == "true" {
			n.Required = append(n.Required, name)
		}
	}

	return n, nil
}

func fieldNode(t reflect.Type) (*node, error) {
	if t.Kind() == reflect.Ptr {
		return fieldNode(t.Elem())
	}

	switch t.Kind() {
	case reflect.String:
		return &node{Type: "string"}, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &node{Type: "integer"}, nil

	case reflect.Float32, reflect.Float64:
		return &node{Type: "number"}, nil

	case reflect.Bool:
		return &node{Type: "boolean"}, nil

	case reflect.Slice, reflect.Array:
		items, err := fieldNode(t.Elem())
		if err != nil {
			return nil, err
		}
		return &node{Type: "array", Items: items}, nil

	case reflect.Struct:
		return structNode(t)

	case reflect.Map:
		// Maps become open objects with no declared properties.
		return &node{Type: "object"}, nil

	default:
		return nil, fmt.Errorf("unsupported kind %s", t.Kind())
	}
}
