package entity

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Condition codes offered for patient and family history.
var ConditionVocabulary = []string{"DM", "HTN", "CHOL", "IHD", "CA"}

// EncodeConditions serializes a condition list for storage. A nil list is stored as NULL,
// an empty list as "[]".
func EncodeConditions(list []string) *string {
	if list == nil {
		return nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// DecodeConditions parses a stored list strictly. NULL, blank or unparsable
// values yield an empty list.
func DecodeConditions(raw *string) []string {
	list := []string{}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return list
	}
	if err := json.Unmarshal([]byte(*raw), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

// CoerceConditions parses a stored list leniently. A JSON array is returned as is,
// any other JSON value becomes a single-element list, and text that is not JSON
// at all becomes a list holding that text.
func CoerceConditions(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return []string{}
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(*raw), &parsed); err != nil {
		return []string{*raw}
	}

	switch v := parsed.(type) {
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			list = append(list, conditionText(item))
		}
		return list
	case nil:
		return []string{}
	default:
		return []string{conditionText(v)}
	}
}

func conditionText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
