package score

import (
	"encoding/json"
	"fmt"
	"math"
)

var renames = map[string]int{
	"false":          0,
	"False":          0,
	"true":           1,
	"True":           1,
	"neutral":        0,
	"not_entailment": 0,
	"entailment":     1,
	"contradiction":  2,
}

var entailmentRenames = map[string]int{
	"not_entailment": 0,
	"entailment":     1,
}

// Canonical maps a raw label to its class id. Integers pass through.
func Canonical(raw json.RawMessage) (int, error) {
	return canonical(raw, renames)
}

func canonical(raw json.RawMessage, table map[string]int) (int, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing label")
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("bad label %s: %w", raw, err)
	}
	switch v := v.(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case string:
		if id, ok := table[v]; ok {
			return id, nil
		}
	case float64:
		if v == math.Trunc(v) && v >= 0 {
			return int(v), nil
		}
	}
	return 0, fmt.Errorf("unknown label %s", raw)
}
