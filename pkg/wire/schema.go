package wire

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// maxRefDepth bounds $ref expansion so self-referential schemas cannot hang
// the client.
const maxRefDepth = 32

// NormalizeSchema turns a caller-supplied output schema into the plain JSON
// object the API expects. It accepts a raw map, a *jsonschema.Schema, or any
// other Go value, for which a schema is generated from its type. Local $ref
// pointers are inlined against $defs/definitions since the backend does not
// resolve them.
func NormalizeSchema(schema any) (map[string]any, error) {
	switch v := schema.(type) {
	case nil:
		return nil, nil

	case map[string]any:
		return inlineRefs(v)

	case *jsonschema.Schema:
		return schemaToMap(v)

	default:
		generated, err := jsonschema.ForType(reflect.TypeOf(schema), &jsonschema.ForOptions{IgnoreInvalidTypes: true})

		if err != nil {
			return nil, fmt.Errorf("generate schema for %T: %w", schema, err)
		}

		return schemaToMap(generated)
	}
}

func schemaToMap(s *jsonschema.Schema) (map[string]any, error) {
	data, err := s.MarshalJSON()

	if err != nil {
		return nil, err
	}

	var m map[string]any

	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	return inlineRefs(m)
}

func inlineRefs(schema map[string]any) (map[string]any, error) {
	defs := map[string]any{}

	for _, key := range []string{"$defs", "definitions"} {
		if d, ok := schema[key].(map[string]any); ok {
			for name, def := range d {
				defs[name] = def
			}
		}
	}

	resolved, err := resolveNode(schema, defs, 0)

	if err != nil {
		return nil, err
	}

	result, ok := resolved.(map[string]any)

	if !ok {
		return nil, fmt.Errorf("schema resolved to %T, expected object", resolved)
	}

	delete(result, "$defs")
	delete(result, "definitions")

	return result, nil
}

func resolveNode(node any, defs map[string]any, depth int) (any, error) {
	if depth > maxRefDepth {
		return nil, fmt.Errorf("schema $ref nesting exceeds %d levels (self-referential schema?)", maxRefDepth)
	}

	switch v := node.(type) {
	case map[string]any:
		if ref, ok := v["$ref"].(string); ok {
			target, err := lookupRef(ref, defs)

			if err != nil {
				return nil, err
			}

			return resolveNode(target, defs, depth+1)
		}

		result := make(map[string]any, len(v))

		for key, value := range v {
			resolved, err := resolveNode(value, defs, depth+1)

			if err != nil {
				return nil, err
			}

			result[key] = resolved
		}

		return result, nil

	case []any:
		result := make([]any, len(v))

		for i, value := range v {
			resolved, err := resolveNode(value, defs, depth+1)

			if err != nil {
				return nil, err
			}

			result[i] = resolved
		}

		return result, nil

	default:
		return node, nil
	}
}

func lookupRef(ref string, defs map[string]any) (any, error) {
	name := ref

	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if strings.HasPrefix(ref, prefix) {
			name = strings.TrimPrefix(ref, prefix)
			break
		}
	}

	target, ok := defs[name]

	if !ok {
		return nil, fmt.Errorf("unresolvable schema reference %q", ref)
	}

	return target, nil
}
