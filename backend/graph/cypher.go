package graph

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
)

// node renders a node pattern like (n:Guild {ID: "1234"}).
func node(key, label string, props map[string]any) string {
	rendered := renderProps(props)
	if rendered == "" {
		return fmt.Sprintf("(%s:%s)", key, label)
	}
	return fmt.Sprintf("(%s:%s %s)", key, label, rendered)
}

// renderProps renders a property map literal. Keys are sorted so statements
// are stable, nil and empty-string values are left out, empty maps render
// empty.
func renderProps(props map[string]any) string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	builder := strings.Builder{}
	for _, key := range keys {
		property, ok := renderValue(props[key])
		if !ok {
			continue
		}
		if builder.Len() > 0 {
			builder.WriteString(", ")
		}
		builder.WriteString(key + ": " + property)
	}
	if builder.Len() == 0 {
		return ""
	}
	return "{" + builder.String() + "}"
}

func renderValue(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if v == "" {
			return "", false
		}
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, `"`, `\"`)
		return `"` + v + `"`, true
	case snowflake.ID:
		return `"` + v.String() + `"`, true
	case []any:
		rendered := make([]string, 0, len(v))
		for _, element := range v {
			property, ok := renderValue(element)
			if !ok {
				continue
			}
			rendered = append(rendered, property)
		}
		return "[" + strings.Join(rendered, ", ") + "]", true
	case map[string]any:
		return "", false
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// toProps flattens a record into a property map through its JSON form, so
// snowflakes and timestamps land as strings the way they do on the wire.
func toProps(row any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var props map[string]any
	if err := json.Unmarshal(raw, &props); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return props, nil
}

// decodeProps turns a properties value from a query result back into a
// record. A nil value means the node was absent.
func decodeProps[T any](value any) (*T, error) {
	props, ok := value.(map[string]any)
	if !ok {
		return nil, nil
	}
	var row T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
			stringToSnowflakeHook,
		),
		Result: &row,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}
	if err := decoder.Decode(props); err != nil {
		return nil, fmt.Errorf("decode node: %w", err)
	}
	return &row, nil
}

var snowflakeType = reflect.TypeOf(snowflake.ID(0))

func stringToSnowflakeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != snowflakeType {
		return data, nil
	}
	return snowflake.Parse(data.(string))
}

// first returns the named value of the first record, nil when there are no
// records.
func first(records []*db.Record, key string) any {
	if len(records) == 0 {
		return nil
	}
	value, ok := records[0].Get(key)
	if !ok {
		return nil
	}
	return value
}

func join(stmts ...string) string {
	return strings.Join(stmts, " ")
}
