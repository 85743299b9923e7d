package assist

import (
	"encoding/json"
	"fmt"
	"strconv"

	"digestsim/internal/logging"
	"digestsim/internal/registry"
)

// Extraction holds parameter values and explanations salvaged from an AI
// response, split by domain. All four maps are always non-nil; extraction of
// a key records its value and explanation together or not at all.
type Extraction struct {
	FeedstockValues map[string]float64
	FeedstockNotes  map[string]string
	KineticValues   map[string]float64
	KineticNotes    map[string]string
}

func emptyExtraction() Extraction {
	return Extraction{
		FeedstockValues: map[string]float64{},
		FeedstockNotes:  map[string]string{},
		KineticValues:   map[string]float64{},
		KineticNotes:    map[string]string{},
	}
}

// Empty reports whether nothing was extracted.
func (e Extraction) Empty() bool {
	return len(e.FeedstockValues) == 0 && len(e.KineticValues) == 0
}

// Extract locates a JSON object inside the raw response text and splits its
// well-formed entries into feedstock and kinetic maps. It is total: malformed
// input of any kind yields an empty result, and a single bad entry is dropped
// without aborting its siblings. Kinetic keys are ignored unless
// includeKinetics is set; keys outside both registries are discarded.
func Extract(raw string, includeKinetics bool) Extraction {
	result := emptyExtraction()

	obj, ok := locateObject(raw)
	if !ok {
		logging.ExtractWarn("no JSON object found in response (%d bytes)", len(raw))
		return result
	}

	feedstockKeys := registry.FeedstockNames()
	kineticKeys := registry.KineticNames()

	for key, rawEntry := range obj {
		value, note, ok := parseEntry(rawEntry)
		if !ok {
			logging.ExtractDebug("skipping malformed entry for key %q", key)
			continue
		}

		switch {
		case feedstockKeys[key]:
			result.FeedstockValues[key] = value
			result.FeedstockNotes[key] = note
		case includeKinetics && kineticKeys[key]:
			result.KineticValues[key] = value
			result.KineticNotes[key] = note
		default:
			// Unknown key, or kinetics explicitly excluded by the caller.
		}
	}

	logging.Extract("extracted %d feedstock and %d kinetic values",
		len(result.FeedstockValues), len(result.KineticValues))
	return result
}

// locateObject finds the first substring of raw that parses as a JSON object.
// The scanner tracks brace depth and string/escape state so braces inside
// quoted text or markdown fences do not confuse it.
func locateObject(raw string) (map[string]json.RawMessage, bool) {
	for _, candidate := range jsonCandidates(raw) {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}

// jsonCandidates returns the top-level balanced `{...}` substrings of s in
// order of appearance. Iterating bytes is safe for the ASCII delimiters:
// UTF-8 never embeds them in multi-byte sequences.
func jsonCandidates(s string) []string {
	var candidates []string
	var depth int
	start := -1
	var inString, escape bool

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}
		if inString {
			if b == '\\' {
				escape = true
			} else if b == '"' {
				inString = false
			}
			continue
		}
		if b == '"' {
			inString = true
			continue
		}

		if b == '{' {
			if depth == 0 {
				start = i
			}
			depth++
		} else if b == '}' {
			if depth > 0 {
				depth--
				if depth == 0 && start != -1 {
					candidates = append(candidates, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return candidates
}

// parseEntry validates one schema entry: a 3+ element array whose first
// element is numeric (a JSON number or a numeric string) and whose third
// element is the explanation. Anything else fails the entry as a whole.
func parseEntry(raw json.RawMessage) (float64, string, bool) {
	var arr []interface{}
	if err := json.Unmarshal(raw, &arr); err != nil {
		return 0, "", false
	}
	if len(arr) < 3 {
		return 0, "", false
	}

	value, ok := toFloat(arr[0])
	if !ok {
		return 0, "", false
	}

	note, ok := arr[2].(string)
	if !ok {
		note = fmt.Sprint(arr[2])
	}
	return value, note, true
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
