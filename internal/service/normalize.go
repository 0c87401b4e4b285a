package service

import (
	"encoding/json"
	"fmt"
	"strings"
)

const rawPreviewLimit = 200

// ParsedRecipe is the canonical shape every agent response is reduced to.
// Decoded reports whether a structured recipe payload was actually
// recovered; when it is false the record is a fail-closed placeholder and
// SafetyNotes explains what went wrong.
type ParsedRecipe struct {
	RecipeName  string `json:"recipe_name"`
	RecipeText  string `json:"recipe_text"`
	IsSafe      bool   `json:"is_safe"`
	SafetyNotes string `json:"safety_notes"`
	Decoded     bool   `json:"-"`
}

const (
	defaultRecipeName = "Untitled Recipe"
	defaultRecipeText = "No recipe text provided."
)

// NormalizeAgentOutput converts whatever the agent returned into a
// ParsedRecipe. It is total: any input, including nil, yields a usable
// record. Three historical response shapes are accepted, tried in order:
//
//  1. a "result" field holding either a JSON-encoded string or a nested object
//  2. an "output" field holding either a nested object or a string with one
//     embedded JSON object
//  3. a bare payload carrying the recipe fields directly
//
// When the is_safe field is absent the record defaults to unsafe. That is
// the strict fail-closed reading; the orchestrator documents how the final
// verdict is derived.
func NormalizeAgentOutput(raw map[string]interface{}) ParsedRecipe {
	if raw == nil {
		return failClosed("Invalid agent output: no structured response received.")
	}

	if msg, ok := raw["error"]; ok {
		if _, hasResult := raw["result"]; !hasResult {
			if _, hasOutput := raw["output"]; !hasOutput {
				return failClosed(fmt.Sprintf("Agent call failed: %v", msg))
			}
		}
	}

	payload, errRecord := extractPayload(raw)
	if errRecord != nil {
		return *errRecord
	}

	return normalizeFields(payload)
}

// extractPayload resolves the wrapped/bare shape ambiguity with a single
// ordered rule set. It returns either a structured payload or a ready
// fail-closed record describing why none could be recovered.
func extractPayload(raw map[string]interface{}) (map[string]interface{}, *ParsedRecipe) {
	if result, ok := raw["result"]; ok {
		switch v := result.(type) {
		case string:
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(v), &payload); err != nil {
				rec := failClosed(fmt.Sprintf("Failed to parse JSON from result string: %v", err))
				return nil, &rec
			}
			return payload, nil
		case map[string]interface{}:
			return v, nil
		default:
			rec := failClosed(fmt.Sprintf("Unexpected result payload of type %T", result))
			return nil, &rec
		}
	}

	output, ok := raw["output"]
	if !ok {
		// Bare shape: the recipe fields sit directly on the response.
		return raw, nil
	}

	switch v := output.(type) {
	case map[string]interface{}:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		first := strings.Index(s, "{")
		last := strings.LastIndex(s, "}")
		if first == -1 || last == -1 || last <= first {
			rec := failClosed(fmt.Sprintf("No JSON object found in agent output: %s", preview(s)))
			return nil, &rec
		}
		var payload map[string]interface{}
		if err := json.Unmarshal([]byte(s[first:last+1]), &payload); err != nil {
			rec := failClosed(fmt.Sprintf("Failed to parse JSON from agent string: %s", preview(s)))
			return nil, &rec
		}
		return payload, nil
	default:
		rec := failClosed(fmt.Sprintf("Unexpected output payload of type %T", output))
		return nil, &rec
	}
}

// normalizeFields maps a structured payload onto the canonical record,
// accepting historical aliases and defaulting what is missing. Missing
// keys are reported in the safety notes: an incomplete agent response is
// a safety signal for the end user, not just a debug detail.
func normalizeFields(payload map[string]interface{}) ParsedRecipe {
	var missing []string

	name, ok := stringField(payload, "recipe_name", "title")
	if !ok {
		name = defaultRecipeName
		missing = append(missing, "recipe_name")
	}

	text, ok := stringField(payload, "recipe_text", "text")
	if !ok {
		text = defaultRecipeText
		missing = append(missing, "recipe_text")
	}

	isSafe := false
	if v, ok := payload["is_safe"]; ok {
		isSafe = truthy(v)
	} else {
		missing = append(missing, "is_safe")
	}

	var notes string
	if v, ok := payload["safety_notes"]; ok {
		if s, isStr := v.(string); isStr {
			notes = s
		} else {
			notes = fmt.Sprintf("%v", v)
		}
	} else {
		missing = append(missing, "safety_notes")
		if isSafe {
			notes = "Agent reported the recipe as safe."
		} else {
			notes = "Agent did not report the recipe as safe."
		}
	}

	if len(missing) > 0 {
		notes = strings.TrimSpace(notes + fmt.Sprintf(" [agent response missing keys: %s]", strings.Join(missing, ", ")))
	}

	return ParsedRecipe{
		RecipeName:  name,
		RecipeText:  text,
		IsSafe:      isSafe,
		SafetyNotes: notes,
		Decoded:     true,
	}
}

func stringField(payload map[string]interface{}, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := payload[key]; ok {
			if s, isStr := v.(string); isStr && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// truthy accepts a native bool or the usual textual spellings; anything
// else counts as false.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
	}
	return false
}

func failClosed(notes string) ParsedRecipe {
	return ParsedRecipe{
		RecipeName:  defaultRecipeName,
		RecipeText:  defaultRecipeText,
		IsSafe:      false,
		SafetyNotes: notes,
		Decoded:     false,
	}
}

// preview truncates echoed raw content so a misbehaving agent cannot
// inflate notes or logs without bound.
func preview(s string) string {
	if len(s) > rawPreviewLimit {
		return s[:rawPreviewLimit]
	}
	return s
}
