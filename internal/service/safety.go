package service

import (
	"strings"
)

// InspectRecipe checks a generated recipe against the user's stated
// allergies and returns a verdict plus a human-readable note.
//
// Matching is case-insensitive and substring based. There is no synonym
// or ontology handling: "tree nuts" and "nuts" are not distinguished,
// and an allergy like "coconuts" matches the "nuts" token. That is a
// known limitation of the heuristic, kept deliberately until there is a
// product decision on smarter allergy parsing.
func InspectRecipe(recipeName, recipeText, allergies string) (bool, string) {
	tokens := parseAllergyList(allergies)
	if len(tokens) == 0 {
		return true, "No allergy restrictions were specified."
	}

	if hasToken(tokens, "nuts") {
		name := strings.ToLower(recipeName)
		text := strings.ToLower(recipeText)

		// Pesto conventionally contains pine nuts, so the dish name alone
		// is enough to fail a nut allergy.
		if strings.Contains(name, "pesto") {
			return false, "UNSAFE: Pesto dishes traditionally contain pine nuts, which conflict with the stated nut allergy."
		}
		if strings.Contains(text, "pine nuts") {
			return false, "UNSAFE: The recipe text mentions pine nuts, which conflict with the stated nut allergy."
		}
	}

	return true, "Recipe checked against stated allergies and appears safe."
}

// hasToken reports whether any allergy token contains the given word.
// Substring semantics are intentional ("coconuts" matches "nuts"); see
// the limitation note on InspectRecipe.
func hasToken(tokens map[string]struct{}, word string) bool {
	for token := range tokens {
		if strings.Contains(token, word) {
			return true
		}
	}
	return false
}

// parseAllergyList splits a comma-separated allergy string into a set of
// lowercase trimmed tokens. Blank and whitespace-only entries are dropped,
// so an all-whitespace input yields an empty set.
func parseAllergyList(allergies string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, part := range strings.Split(allergies, ",") {
		token := strings.ToLower(strings.TrimSpace(part))
		if token == "" {
			continue
		}
		tokens[token] = struct{}{}
	}
	return tokens
}
