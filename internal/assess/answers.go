package assess

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the shapes a raw answer can arrive in.
type ValueKind int

const (
	ValueEmpty  ValueKind = iota
	ValueString           // letter code or free choice
	ValueNumber           // likert value, possibly string-encoded on the wire
	ValueList             // multi-select choice
	ValuePair             // forced-choice {most, least}
	ValueTable            // table-checkbox {columnKey: [rowIndex, ...]}
)

// AnswerValue is a tagged variant over the answer shapes the platform records.
// Only the field matching Kind is meaningful.
type AnswerValue struct {
	Kind  ValueKind
	Str   string
	Num   float64
	List  []string
	Most  string
	Least string
	Table map[string][]int
}

func StringValue(s string) AnswerValue  { return AnswerValue{Kind: ValueString, Str: s} }
func NumberValue(n float64) AnswerValue { return AnswerValue{Kind: ValueNumber, Num: n} }
func ListValue(vs ...string) AnswerValue {
	return AnswerValue{Kind: ValueList, List: vs}
}
func PairValue(most, least string) AnswerValue {
	return AnswerValue{Kind: ValuePair, Most: most, Least: least}
}
func TableValue(t map[string][]int) AnswerValue { return AnswerValue{Kind: ValueTable, Table: t} }

// UnmarshalJSON decodes the heterogeneous wire shapes into the tagged variant:
// plain scalar, {"value": ...} wrapper, {"most","least"} pair, column->rows map,
// or list of strings. A shape it cannot place decodes as ValueEmpty; the
// per-type normalizers treat that as a malformed answer.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = AnswerValue{}
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = NumberValue(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		if str == "" {
			*v = AnswerValue{}
			return nil
		}
		*v = StringValue(str)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = ListValue(list...)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("answer value: %w", err)
	}
	if raw, ok := obj["value"]; ok {
		return v.UnmarshalJSON(raw)
	}
	if rawMost, ok := obj["most"]; ok {
		var most, least string
		if err := json.Unmarshal(rawMost, &most); err != nil {
			*v = AnswerValue{}
			return nil
		}
		if rawLeast, ok := obj["least"]; ok {
			if err := json.Unmarshal(rawLeast, &least); err != nil {
				*v = AnswerValue{}
				return nil
			}
		}
		*v = PairValue(most, least)
		return nil
	}

	// Remaining shape: column key -> list of row indices.
	table := make(map[string][]int, len(obj))
	for k, raw := range obj {
		var rows []int
		if err := json.Unmarshal(raw, &rows); err != nil {
			*v = AnswerValue{}
			return nil
		}
		table[k] = rows
	}
	if len(table) == 0 {
		*v = AnswerValue{}
		return nil
	}
	*v = TableValue(table)
	return nil
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueString:
		return json.Marshal(v.Str)
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueList:
		return json.Marshal(v.List)
	case ValuePair:
		return json.Marshal(map[string]string{"most": v.Most, "least": v.Least})
	case ValueTable:
		return json.Marshal(v.Table)
	default:
		return []byte("null"), nil
	}
}

// likert extracts a 1..5 likert value. String-encoded numbers are accepted;
// anything else (or out of range) is malformed.
func (v AnswerValue) likert() (int, bool) {
	var f float64
	switch v.Kind {
	case ValueNumber:
		f = v.Num
	case ValueString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	n := int(f)
	if f != math.Trunc(f) || n < 1 || n > 5 {
		return 0, false
	}
	return n, true
}

// choice extracts a single categorical selection (letter code or option text).
// Numbers are accepted and rendered back to their canonical string form.
func (v AnswerValue) choice() (string, bool) {
	switch v.Kind {
	case ValueString:
		s := strings.TrimSpace(v.Str)
		return s, s != ""
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64), true
	case ValueList:
		if len(v.List) == 1 {
			s := strings.TrimSpace(v.List[0])
			return s, s != ""
		}
		return "", false
	default:
		return "", false
	}
}

// choiceSet extracts a multi-select answer as a set of strings.
func (v AnswerValue) choiceSet() ([]string, bool) {
	switch v.Kind {
	case ValueList:
		out := make([]string, 0, len(v.List))
		for _, s := range v.List {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		return out, len(out) > 0
	default:
		if s, ok := v.choice(); ok {
			return []string{s}, true
		}
		return nil, false
	}
}

// pair extracts a forced-choice most/least selection.
func (v AnswerValue) pair() (most, least string, ok bool) {
	if v.Kind != ValuePair {
		return "", "", false
	}
	most = strings.TrimSpace(v.Most)
	least = strings.TrimSpace(v.Least)
	return most, least, most != "" && least != ""
}

// table extracts a column->rows selection map.
func (v AnswerValue) table() (map[string][]int, bool) {
	if v.Kind != ValueTable || len(v.Table) == 0 {
		return nil, false
	}
	return v.Table, true
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
