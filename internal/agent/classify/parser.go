package classify

import (
	"encoding/json"
	"regexp"
	"strings"
)

// basic safety limit to avoid pathological model outputs
const maxOutputLen = 32 * 1024 // 32KB

var jsonBlockRe = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseOutput extracts a Result from raw model output. It first looks for a
// JSON object of the form {"intent":"...","explanation":"..."}; failing that
// it falls back to keyword matching over the supported labels. Unparseable
// output yields an empty intent with the raw text as explanation, never an
// error: an undecided classifier must not fail the turn.
func ParseOutput(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{}
	}
	if len(raw) > maxOutputLen {
		raw = raw[:maxOutputLen]
	}

	if block := jsonBlockRe.FindString(raw); block != "" {
		var obj struct {
			Intent      string `json:"intent"`
			Explanation string `json:"explanation"`
		}
		if err := json.Unmarshal([]byte(block), &obj); err == nil {
			if intent := normalizeIntent(obj.Intent); intent != "" {
				return Result{Intent: intent, Explanation: obj.Explanation}
			}
		}
	}

	// fallback: keyword-based detection
	normalized := strings.ToLower(raw)
	for _, label := range SupportedIntents {
		if strings.Contains(normalized, label) {
			return Result{Intent: label, Explanation: "detected keyword '" + label + "'"}
		}
	}

	return Result{Explanation: raw}
}

// normalizeIntent lowercases and validates a label against the supported set.
// Unknown labels are dropped so a hallucinated intent reads as "uncertain".
func normalizeIntent(intent string) string {
	intent = strings.ToLower(strings.TrimSpace(intent))
	for _, label := range SupportedIntents {
		if intent == label {
			return label
		}
	}
	return ""
}
