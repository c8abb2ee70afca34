// Package geo implements the Geotagger (§4.5): it turns article text and
// LOC entities into a ranked list of sovereign countries, using a
// hand-rolled multilingual alias index in place of a GeoNames-backed
// Aho-Corasick scanner (no such library appears in the retrieval pack;
// see DESIGN.md).
package geo

// Country is one row of the ISO-3166 enrichment table used in step 7 of
// the Geotagger algorithm.
type Country struct {
	Name   string
	Alpha2 string
	Alpha3 string
}

// isoTable covers the countries the alias index can actually resolve.
// It is not the full 249-entry ISO-3166 list -- see DESIGN.md for why a
// curated subset covering the world's major news-generating nations was
// chosen over transcribing the complete standard by hand.
var isoTable = map[string]Country{
	"US": {"United States", "US", "USA"},
	"GB": {"United Kingdom", "GB", "GBR"},
	"FR": {"France", "FR", "FRA"},
	"DE": {"Germany", "DE", "DEU"},
	"IT": {"Italy", "IT", "ITA"},
	"ES": {"Spain", "ES", "ESP"},
	"PT": {"Portugal", "PT", "PRT"},
	"NL": {"Netherlands", "NL", "NLD"},
	"BE": {"Belgium", "BE", "BEL"},
	"CH": {"Switzerland", "CH", "CHE"},
	"AT": {"Austria", "AT", "AUT"},
	"SE": {"Sweden", "SE", "SWE"},
	"NO": {"Norway", "NO", "NOR"},
	"DK": {"Denmark", "DK", "DNK"},
	"FI": {"Finland", "FI", "FIN"},
	"PL": {"Poland", "PL", "POL"},
	"UA": {"Ukraine", "UA", "UKR"},
	"RU": {"Russia", "RU", "RUS"},
	"TR": {"Turkey", "TR", "TUR"},
	"GR": {"Greece", "GR", "GRC"},
	"IE": {"Ireland", "IE", "IRL"},
	"CZ": {"Czechia", "CZ", "CZE"},
	"RO": {"Romania", "RO", "ROU"},
	"HU": {"Hungary", "HU", "HUN"},
	"CN": {"China", "CN", "CHN"},
	"JP": {"Japan", "JP", "JPN"},
	"KR": {"South Korea", "KR", "KOR"},
	"KP": {"North Korea", "KP", "PRK"},
	"IN": {"India", "IN", "IND"},
	"PK": {"Pakistan", "PK", "PAK"},
	"BD": {"Bangladesh", "BD", "BGD"},
	"ID": {"Indonesia", "ID", "IDN"},
	"PH": {"Philippines", "PH", "PHL"},
	"VN": {"Vietnam", "VN", "VNM"},
	"TH": {"Thailand", "TH", "THA"},
	"MY": {"Malaysia", "MY", "MYS"},
	"SG": {"Singapore", "SG", "SGP"},
	"TW": {"Taiwan", "TW", "TWN"},
	"AU": {"Australia", "AU", "AUS"},
	"NZ": {"New Zealand", "NZ", "NZL"},
	"CA": {"Canada", "CA", "CAN"},
	"MX": {"Mexico", "MX", "MEX"},
	"BR": {"Brazil", "BR", "BRA"},
	"AR": {"Argentina", "AR", "ARG"},
	"CL": {"Chile", "CL", "CHL"},
	"CO": {"Colombia", "CO", "COL"},
	"PE": {"Peru", "PE", "PER"},
	"VE": {"Venezuela", "VE", "VEN"},
	"CU": {"Cuba", "CU", "CUB"},
	"EG": {"Egypt", "EG", "EGY"},
	"ZA": {"South Africa", "ZA", "ZAF"},
	"NG": {"Nigeria", "NG", "NGA"},
	"KE": {"Kenya", "KE", "KEN"},
	"ET": {"Ethiopia", "ET", "ETH"},
	"MA": {"Morocco", "MA", "MAR"},
	"DZ": {"Algeria", "DZ", "DZA"},
	"IL": {"Israel", "IL", "ISR"},
	"PS": {"Palestine", "PS", "PSE"},
	"SA": {"Saudi Arabia", "SA", "SAU"},
	"AE": {"United Arab Emirates", "AE", "ARE"},
	"QA": {"Qatar", "QA", "QAT"},
	"IR": {"Iran", "IR", "IRN"},
	"IQ": {"Iraq", "IQ", "IRQ"},
	"SY": {"Syria", "SY", "SYR"},
	"LB": {"Lebanon", "LB", "LBN"},
	"JO": {"Jordan", "JO", "JOR"},
	"YE": {"Yemen", "YE", "YEM"},
	"AF": {"Afghanistan", "AF", "AFG"},
}

// CountryByAlpha2 returns the enrichment row for alpha2, or the zero
// Country and false if alpha2 isn't in the table.
func CountryByAlpha2(alpha2 string) (Country, bool) {
	c, ok := isoTable[alpha2]
	return c, ok
}
