package schema

import (
	"fmt"
)

// Parse builds a Validator from a decoded config mapping. The mapping is the
// YAML/JSON value of a route's validate entry, e.g.
//
//	type: object
//	required: [name]
//	properties:
//	  name: {type: string, minLength: 1}
//
// Alternative forms: {expr: "value > 0"} for an expression validator and
// {schema: {...}} for a raw JSON Schema document.
func Parse(spec map[string]any) (Validator, error) {
	if spec == nil {
		return Any{}, nil
	}

	if src, ok := spec["expr"]; ok {
		source, ok := src.(string)
		if !ok {
			return nil, fmt.Errorf("expr must be a string, got %T", src)
		}
		msg, _ := spec["message"].(string)
		return &Expr{Source: source, Message: msg}, nil
	}

	if doc, ok := spec["schema"]; ok {
		return &JSONSchema{Document: doc}, nil
	}

	typ, _ := spec["type"].(string)
	switch typ {
	case "", "any":
		return Any{}, nil
	case "string":
		return parseString(spec)
	case "number", "integer":
		return parseNumber(spec, typ == "integer")
	case "boolean":
		v := &Boolean{}
		if d, ok := spec["default"].(bool); ok {
			v.Default = &d
		}
		return v, nil
	case "object":
		return parseObject(spec)
	case "array":
		return parseArray(spec)
	default:
		return nil, fmt.Errorf("unknown validator type %q", typ)
	}
}

func parseString(spec map[string]any) (Validator, error) {
	v := &String{}
	if n, ok := intOpt(spec["minLength"]); ok {
		v.MinLength = &n
	}
	if n, ok := intOpt(spec["maxLength"]); ok {
		v.MaxLength = &n
	}
	if p, ok := spec["pattern"].(string); ok {
		v.Pattern = p
	}
	if d, ok := spec["default"].(string); ok {
		v.Default = &d
	}
	if raw, ok := spec["enum"].([]any); ok {
		for _, e := range raw {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("string enum values must be strings, got %T", e)
			}
			v.Enum = append(v.Enum, s)
		}
	}
	return v, nil
}

func parseNumber(spec map[string]any, integer bool) (Validator, error) {
	v := &Number{Integer: integer}
	if f, ok := floatOpt(spec["min"]); ok {
		v.Min = &f
	}
	if f, ok := floatOpt(spec["max"]); ok {
		v.Max = &f
	}
	if f, ok := floatOpt(spec["default"]); ok {
		v.Default = &f
	}
	return v, nil
}

func parseObject(spec map[string]any) (Validator, error) {
	v := &Object{}
	if raw, ok := spec["properties"].(map[string]any); ok {
		v.Properties = make(map[string]Validator, len(raw))
		for name, propSpec := range raw {
			propMap, ok := propSpec.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("property %q must be a mapping, got %T", name, propSpec)
			}
			prop, err := Parse(propMap)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			v.Properties[name] = prop
		}
	}
	if raw, ok := spec["required"].([]any); ok {
		for _, r := range raw {
			name, ok := r.(string)
			if !ok {
				return nil, fmt.Errorf("required entries must be strings, got %T", r)
			}
			v.Required = append(v.Required, name)
		}
	}
	if ap, ok := spec["additionalProperties"].(bool); ok {
		v.AdditionalProperties = ap
	}
	return v, nil
}

func parseArray(spec map[string]any) (Validator, error) {
	v := &Array{}
	if raw, ok := spec["items"].(map[string]any); ok {
		items, err := Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		v.Items = items
	}
	if n, ok := intOpt(spec["minItems"]); ok {
		v.MinItems = &n
	}
	if n, ok := intOpt(spec["maxItems"]); ok {
		v.MaxItems = &n
	}
	return v, nil
}

// intOpt reads an optional integer config value. YAML decodes integers as
// int, JSON as float64.
func intOpt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func floatOpt(raw any) (float64, bool) {
	switch n := raw.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
