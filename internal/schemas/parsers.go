// Package schemas recovers structured turn data from raw model output.
// Local models wrap their JSON in prose, code fences, or both, and often
// emit trailing commas; every extraction attempt here is total and the
// chain as a whole never fails, it at worst reports "no structured result".
package schemas

import (
	"encoding/json"
	"regexp"
	"strings"

	"liferestart-server/internal/models"
)

var (
	jsonFenceRe     = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	anyFenceRe      = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractTurnResult tries a fixed sequence of recovery strategies against
// text that is supposed to contain a JSON-encoded turn result:
//
//  1. a fenced block explicitly labeled json
//  2. any fenced block
//  3. the span from the first '{' to the last '}'
//  4. the whole trimmed text
//  5. the brace span again after stripping trailing commas
//
// The first attempt that parses wins. Missing optional fields are filled
// with defaults. When nothing parses, ok is false and the caller decides
// what to do with the raw text.
func ExtractTurnResult(text string) (result *models.TurnResult, ok bool) {
	cleaned := strings.TrimSpace(text)

	if m := jsonFenceRe.FindStringSubmatch(cleaned); m != nil {
		if r, ok := parseTurnResult(m[1]); ok {
			return r, true
		}
	}
	if m := anyFenceRe.FindStringSubmatch(cleaned); m != nil {
		if r, ok := parseTurnResult(m[1]); ok {
			return r, true
		}
	}
	if span, found := braceSpan(cleaned); found {
		if r, ok := parseTurnResult(span); ok {
			return r, true
		}
	}
	if r, ok := parseTurnResult(cleaned); ok {
		return r, true
	}

	repaired := trailingCommaRe.ReplaceAllString(cleaned, "$1")
	if span, found := braceSpan(repaired); found {
		if r, ok := parseTurnResult(span); ok {
			return r, true
		}
	}

	return nil, false
}

// braceSpan returns the substring from the first '{' to the last '}'.
func braceSpan(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// parseTurnResult attempts a single strict-ish decode. The candidate must
// be a JSON object; anything else (arrays, bare strings, invalid JSON)
// fails this attempt without affecting the others.
func parseTurnResult(candidate string) (*models.TurnResult, bool) {
	candidate = strings.TrimSpace(candidate)
	if !strings.HasPrefix(candidate, "{") {
		return nil, false
	}
	var result models.TurnResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil, false
	}
	result.Normalize()
	return &result, true
}
