package importer

// DefaultCategoryMap assigns each legacy article to its category slug.
// Articles not listed here are filed under the fallback category.
var DefaultCategoryMap = map[string]string{
	// United Kingdom
	"uk-skilled-worker-visa-nigeria-2025":   "uk",
	"uk-care-worker-visa-nigeria-2025":      "uk",
	"uk-student-visa-nigeria-2025":          "uk",
	"how-to-get-job-uk-nigeria":             "uk",
	"uk-dependent-visa-families-nigeria":    "uk",
	"open-uk-bank-account-nigeria":          "uk",
	"uk-accommodation-new-arrivals-nigeria": "uk",
	"uk-cv-guide-nigerians":                 "uk",
	"uk-global-talent-visa-nigerians-2025":  "uk",
	"uk-graduate-visa-nigeria-2025":         "uk",

	// Canada
	"canada-express-entry-nigeria-2025":              "canada",
	"canada-study-permit-nigerians-2025":             "canada",
	"canada-provincial-nominee-program-nigeria-2025": "canada",

	"germany-opportunity-card-nigeria-2025":                  "germany",
	"australia-skilled-migration-nigerians-2025":             "australia",
	"usa-visa-nigerians-2025":                                "usa",
	"nigeria-to-ireland-work-visa-2025":                      "ireland",
	"netherlands-highly-skilled-migrant-visa-nigerians-2025": "netherlands",
	"new-zealand-skilled-worker-visa-nigerians-2025":         "new-zealand",
	"portugal-d7-visa-nigerians-2025":                        "portugal",
	"dubai-uae-work-visa-nigerians-2025":                     "uae",

	// Healthcare
	"nursing-abroad-nigerian-nurses-guide":   "healthcare",
	"nmc-cbt-osce-nigerian-nurses-guide":     "healthcare",
	"healthcare-abroad-nigerians-guide-2025": "healthcare",

	// IELTS
	"ielts-preparation-nigeria-complete-guide": "ielts",
	"ielts-vs-pte-nigerians":                   "ielts",

	// Study abroad
	"masters-abroad-nigeria-scholarships-2025":         "study",
	"statement-of-purpose-guide-nigerians-2025":        "study",
	"study-abroad-application-timeline-nigerians-2025": "study",

	"tech-jobs-abroad-nigerian-developers": "tech",

	// Planning & finance
	"proof-of-funds-visa-application-nigeria":     "planning",
	"cost-of-living-abroad-nigerian-comparison":   "planning",
	"how-much-save-before-relocating-nigeria":     "planning",
	"best-cities-nigerians-abroad":                "planning",
	"common-visa-mistakes-nigerians":              "planning",
	"building-credit-score-abroad-nigerians-2025": "planning",
	"sending-money-nigeria-abroad-2025":           "planning",
	"cultural-adjustment-nigerians-abroad-2025":   "planning",
	"visa-interview-tips-nigerians-2025":          "planning",
}
