// Package knowledge holds the static bilingual health knowledge base and
// builds the chatbot's rule-based replies.
package knowledge

import (
	"fmt"
	"regexp"
	"strings"

	"go-vedura/types"
)

// Advice is the guidance stored for one symptom in one language. Regular
// symptoms carry Symptoms/Treatment/Prevention; vaccination carries
// Info/Schedule instead.
type Advice struct {
	Symptoms   string
	Treatment  string
	Prevention string
	Info       string
	Schedule   string
}

var base = map[types.Symptom]map[string]Advice{
	types.Fever: {
		"en": {
			Symptoms:   "High temperature (>100.4°F), chills, sweating, headache, body aches",
			Treatment:  "Rest, drink plenty of fluids, take paracetamol. Consult doctor if fever persists >3 days or exceeds 102°F",
			Prevention: "Maintain good hygiene, avoid crowded places, get adequate sleep",
		},
		"hi": {
			Symptoms:   "तेज बुखार (>100.4°F), कंपकंपी, पसीना, सिरदर्द, शरीर में दर्द",
			Treatment:  "आराम करें, खूब पानी पिएं, पैरासिटामोल लें। 3 दिन से ज्यादा या 102°F से ज्यादा बुखार हो तो डॉक्टर से मिलें",
			Prevention: "स्वच्छता बनाए रखें, भीड़भाड़ से बचें, पर्याप्त नींद लें",
		},
	},
	types.Cough: {
		"en": {
			Symptoms:   "Persistent coughing, throat irritation, phlegm production, chest discomfort",
			Treatment:  "Warm water gargling, honey, steam inhalation, avoid cold drinks. See doctor if persistent >2 weeks",
			Prevention: "Avoid smoking, wear mask in dusty areas, stay hydrated, avoid cold exposure",
		},
		"hi": {
			Symptoms:   "लगातार खांसी, गले में जलन, कफ निकलना, छाती में परेशानी",
			Treatment:  "गुनगुने पानी से गरारे करें, शहद लें, भाप लें, ठंडा न पिएं। 2 हफ्ते से ज्यादा हो तो डॉक्टर को दिखाएं",
			Prevention: "धूम्रपान न करें, धूल भरी जगह मास्क पहनें, पानी पिएं, ठंड से बचें",
		},
	},
	types.Headache: {
		"en": {
			Symptoms:   "Head pain, sensitivity to light/sound, nausea, neck stiffness",
			Treatment:  "Rest in dark room, apply cold/warm compress, take paracetamol, stay hydrated",
			Prevention: "Regular sleep schedule, avoid stress, limit screen time, stay hydrated",
		},
		"hi": {
			Symptoms:   "सिर में दर्द, रोशनी/आवाज से परेशानी, जी मिचलाना, गर्दन में अकड़न",
			Treatment:  "अंधेरे कमरे में आराम करें, ठंडी/गर्म पट्टी लगाएं, पैरासिटामोल लें, पानी पिएं",
			Prevention: "नियमित नींद लें, तनाव से बचें, स्क्रीन टाइम कम करें, पानी पिएं",
		},
	},
	types.Vaccination: {
		"en": {
			Info:     "Visit nearest Primary Health Center (PHC) or Community Health Center (CHC) for vaccination. Carry Aadhar card and vaccination certificate.",
			Schedule: "COVID-19: Available for age 18+, Polio: For children under 5 years, Hepatitis B: Birth to 6 months, DPT: 6 weeks to 5 years",
		},
		"hi": {
			Info:     "टीकाकरण के लिए नजदीकी प्राथमिक स्वास्थ्य केंद्र (PHC) या सामुदायिक स्वास्थ्य केंद्र (CHC) जाएं। आधार कार्ड और टीकाकरण प्रमाणपत्र साथ लें।",
			Schedule: "कोविड-19: 18+ उम्र के लिए, पोलियो: 5 साल से कम बच्चों के लिए, हेपेटाइटिस बी: जन्म से 6 महीने तक, डीपीटी: 6 सप्ताह से 5 साल तक",
		},
	},
}

// Lookup returns the advice entry for a symptom in the given language.
func Lookup(symptom types.Symptom, lang string) (Advice, bool) {
	byLang, ok := base[symptom]
	if !ok {
		return Advice{}, false
	}
	advice, ok := byLang[normalizeLang(lang)]
	return advice, ok
}

func normalizeLang(lang string) string {
	if lang == "hi" {
		return "hi"
	}
	return "en"
}

func title(s types.Symptom) string {
	str := string(s)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}

// BuildResponse renders the rule-based reply for the matched symptoms. The
// output uses light HTML markup for the web client; ToPlainText strips it
// for the WhatsApp channel.
func BuildResponse(symptoms []types.Symptom, lang string) string {
	lang = normalizeLang(lang)
	var parts []string

	for _, symptom := range symptoms {
		advice, ok := Lookup(symptom, lang)
		if !ok {
			continue
		}
		if lang == "hi" {
			if symptom == types.Vaccination {
				parts = append(parts,
					fmt.Sprintf("<strong>%s की जानकारी:</strong><br>", title(symptom)),
					fmt.Sprintf("📍 कहाँ जाएं: %s<br>", advice.Info),
					fmt.Sprintf("📅 टीकाकरण शेड्यूल: %s<br>", advice.Schedule),
				)
			} else {
				parts = append(parts,
					fmt.Sprintf("<strong>%s के बारे में:</strong><br>", title(symptom)),
					fmt.Sprintf("🔸 लक्षण: %s<br>", advice.Symptoms),
					fmt.Sprintf("💊 इलाज: %s<br>", advice.Treatment),
				)
				if advice.Prevention != "" {
					parts = append(parts, fmt.Sprintf("🛡️ बचाव: %s<br>", advice.Prevention))
				}
			}
		} else {
			if symptom == types.Vaccination {
				parts = append(parts,
					"<strong>Vaccination Information:</strong><br>",
					fmt.Sprintf("📍 Where to go: %s<br>", advice.Info),
					fmt.Sprintf("📅 Schedule: %s<br>", advice.Schedule),
				)
			} else {
				parts = append(parts,
					fmt.Sprintf("<strong>About %s:</strong><br>", title(symptom)),
					fmt.Sprintf("🔸 Symptoms: %s<br>", advice.Symptoms),
					fmt.Sprintf("💊 Treatment: %s<br>", advice.Treatment),
				)
				if advice.Prevention != "" {
					parts = append(parts, fmt.Sprintf("🛡️ Prevention: %s<br>", advice.Prevention))
				}
			}
		}
	}

	if lang == "hi" {
		parts = append(parts, "<br>⚠️ <strong>महत्वपूर्ण:</strong> गंभीर लक्षण हों तो तुरंत डॉक्टर से मिलें। आपातकाल में 108 पर कॉल करें।")
	} else {
		parts = append(parts, "<br>⚠️ <strong>Important:</strong> Consult a doctor immediately for severe symptoms. Call 108 for emergencies.")
	}

	return strings.Join(parts, "<br>")
}

// FallbackMessage is the last-resort reply when no rule matched and the
// generative fallback was unavailable or failed.
func FallbackMessage(lang string) string {
	if normalizeLang(lang) == "hi" {
		return "मुझे आपकी समस्या समझने में मदद चाहिए। कृपया अपने लक्षण बताएं जैसे बुखार, खांसी, सिरदर्द आदि।"
	}
	return "I need help understanding your concern. Please describe your symptoms like fever, cough, headache, etc."
}

// AlertNotice renders the user-facing note appended to a reply when the
// message triggered an outbreak alert.
func AlertNotice(lang string, caseCount int) string {
	if normalizeLang(lang) == "hi" {
		return fmt.Sprintf("📍 **स्थान आधारित अलर्ट:** आपके क्षेत्र में %d मामले देखे गए हैं। स्वास्थ्य विभाग को सूचित कर दिया गया है।", caseCount)
	}
	return fmt.Sprintf("📍 **Location Alert:** %d cases detected in your area. Health authorities have been notified.", caseCount)
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// ToPlainText converts the marked-up reply to plain text for WhatsApp:
// bold becomes **, line breaks become newlines, other tags are dropped.
func ToPlainText(html string) string {
	text := strings.ReplaceAll(html, "<strong>", "**")
	text = strings.ReplaceAll(text, "</strong>", "**")
	text = strings.ReplaceAll(text, "<br><br>", "\n\n")
	text = strings.ReplaceAll(text, "<br>", "\n")
	return tagPattern.ReplaceAllString(text, "")
}
