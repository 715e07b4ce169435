package matcher

import "strings"

// stopwords are ignored when tokenizing instruction text; they match every
// event and would drown the real signal.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "me": {}, "my": {}, "i": {}, "to": {},
	"of": {}, "for": {}, "on": {}, "in": {}, "at": {}, "is": {}, "are": {},
	"and": {}, "or": {}, "any": {}, "all": {}, "with": {}, "from": {},
	"when": {}, "whenever": {}, "always": {}, "if": {}, "it": {}, "that": {},
}

// Score computes the relevance of an ongoing instruction against an event.
// It counts instruction keywords found in the event type or payload values
// and normalizes by the keyword count, so the score is monotonic: more
// overlapping terms never lowers it. Range [0, 1].
func Score(instruction string, eventType string, payload map[string]interface{}) float64 {
	keywords := Tokenize(instruction)
	if len(keywords) == 0 {
		return 0
	}

	haystack := buildHaystack(eventType, payload)

	matched := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}

	return float64(matched) / float64(len(keywords))
}

// Tokenize lowercases, splits on non-alphanumeric runes, and drops stopwords
// and single-character fragments.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isAlnum := r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		return !isAlnum
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, skip := stopwords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func buildHaystack(eventType string, payload map[string]interface{}) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(eventType))
	sb.WriteByte(' ')
	flattenInto(&sb, payload)
	return sb.String()
}

// flattenInto appends every string-ish payload value, recursing into nested
// maps and sequences so subject/body/attendee fields all count.
func flattenInto(sb *strings.Builder, value interface{}) {
	switch v := value.(type) {
	case string:
		sb.WriteString(strings.ToLower(v))
		sb.WriteByte(' ')
	case map[string]interface{}:
		for key, nested := range v {
			sb.WriteString(strings.ToLower(key))
			sb.WriteByte(' ')
			flattenInto(sb, nested)
		}
	case []interface{}:
		for _, item := range v {
			flattenInto(sb, item)
		}
	}
}
