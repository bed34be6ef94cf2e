package domain

// countryCurrency maps a beneficiary country to its settlement currency.
// Countries absent from the map settle in the caller-supplied currency.
var countryCurrency = map[string]string{
	"Côte d’Ivoire": "FCFA",
	"Mali":          "FCFA",
	"Guinée":        "GNF",
	"Ghana":         "GHS",
	"Russie":        "RUB",
	"Benin":         "FCFA",
	"Togo":          "FCFA",
	"Burkina-Faso":  "FCFA",
	"Niger":         "FCFA",
	"Senegal":       "FCFA",
}

// ResolveTargetCurrency returns the settlement currency for a destination
// country, falling back to the supplied currency when the country is unknown.
// It never fails.
func ResolveTargetCurrency(country, suppliedCurrency string) string {
	if currency, ok := countryCurrency[country]; ok {
		return currency
	}
	return suppliedCurrency
}

// NormalizeCurrency folds known aliases before any rate lookup. XOF is the
// ISO code for the CFA franc, which the rate table stores as FCFA.
func NormalizeCurrency(code string) string {
	if code == "XOF" {
		return "FCFA"
	}
	return code
}
