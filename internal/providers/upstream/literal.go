package upstream

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Literal renders v as an inline GraphQL input value.
// v goes through its JSON encoding first, so json tags decide the field names.
func Literal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal literal: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return "", fmt.Errorf("failed to decode literal: %w", err)
	}

	var sb strings.Builder
	if err := writeLiteral(&sb, generic); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// writeLiteral writes JSON-shaped values in GraphQL syntax: object keys are bare names
func writeLiteral(sb *strings.Builder, v interface{}) error {
	switch val := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		if val {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case json.Number:
		sb.WriteString(val.String())
	case string:
		// JSON string escapes are valid GraphQL string escapes
		quoted, err := json.Marshal(val)
		if err != nil {
			return err
		}
		sb.Write(quoted)
	case []interface{}:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteByte(',')
			}
			if err := writeLiteral(sb, elem); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(k)
			sb.WriteByte(':')
			if err := writeLiteral(sb, val[k]); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	default:
		return fmt.Errorf("unsupported literal type %T", v)
	}
	return nil
}
