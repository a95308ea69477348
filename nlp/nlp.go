// Package nlp classifies free-text messages against fixed keyword lists.
// Matching is intentionally rule-first: the generative fallback only runs
// when nothing here matches.
package nlp

import (
	"regexp"
	"strings"

	"go-vedura/types"
)

// devanagari matches any codepoint in the Devanagari block (U+0900-U+097F).
var devanagari = regexp.MustCompile(`[\x{0900}-\x{097F}]`)

// DetectLanguage returns "hi" when the message contains Devanagari script,
// "en" otherwise.
func DetectLanguage(message string) string {
	if devanagari.MatchString(message) {
		return "hi"
	}
	return "en"
}

// symptomKeywords maps each category to its English and Hindi trigger
// words. Substring matching against the lowercased message, same as the
// production word lists these were taken from.
var symptomKeywords = map[types.Symptom][]string{
	types.Fever:       {"fever", "temperature", "hot", "burning", "बुखार", "तेज़ बुखार", "तापमान"},
	types.Cough:       {"cough", "coughing", "throat", "खांसी", "खाँसी", "गला"},
	types.Headache:    {"headache", "head pain", "migraine", "सिरदर्द", "सर में दर्द", "सिर दर्द"},
	types.Vaccination: {"vaccine", "vaccination", "immunize", "टीका", "टीकाकरण", "वैक्सीन"},
}

// ExtractSymptoms returns the symptom categories mentioned in the message,
// in the fixed category order. May be empty. Each category appears at most
// once no matter how many of its keywords hit.
func ExtractSymptoms(message string) []types.Symptom {
	msg := strings.ToLower(message)

	var symptoms []types.Symptom
	for _, category := range types.AllSymptoms {
		for _, word := range symptomKeywords[category] {
			if strings.Contains(msg, word) {
				symptoms = append(symptoms, category)
				break
			}
		}
	}
	return symptoms
}
