package expand

// synonyms maps catalog query tokens to alternative phrasings. Substitution
// happens one synonym at a time so each variant stays close to the original.
var synonyms = map[string][]string{
	"gift":      {"present"},
	"gifts":     {"presents"},
	"present":   {"gift"},
	"presents":  {"gifts"},
	"mom":       {"mother"},
	"dad":       {"father"},
	"grandma":   {"grandmother"},
	"grandpa":   {"grandfather"},
	"kids":      {"children"},
	"kid":       {"child"},
	"tech":      {"electronics", "gadget"},
	"gadget":    {"device"},
	"gadgets":   {"devices"},
	"cheap":     {"affordable", "budget"},
	"luxury":    {"premium"},
	"cozy":      {"warm"},
	"funny":     {"humorous"},
	"cooking":   {"kitchen"},
	"workout":   {"fitness"},
	"jewelry":   {"jewellery"},
	"handmade":  {"artisan"},
	"laptop":    {"notebook"},
	"headphone": {"earphone"},
}

// categoryHints appends a category-scoped variant when a keyword family is
// detected in the query. Key is the trigger token, value the hint suffix.
var categoryHints = map[string]string{
	"tech":       "electronics",
	"gadget":     "electronics",
	"gadgets":    "electronics",
	"electronic": "electronics",
	"digital":    "electronics",
	"smart":      "electronics",
	"cooking":    "kitchen",
	"baking":     "kitchen",
	"chef":       "kitchen",
	"workout":    "fitness",
	"gym":        "fitness",
	"yoga":       "fitness",
}
