package geo

// countryNames holds the official name plus common multilingual and
// historical alternates, and its capital(s), for one country. Modeled on
// original_source's country_mappings/city_mappings tables (see
// DESIGN.md), trimmed to the subset isoTable enriches.
type countryNames struct {
	official  []string
	alternate []string
	capitals  []string
}

// aliasSeed is deliberately not exhaustive -- it covers the major
// English/Spanish/French/German/Portuguese/Russian alternate spellings a
// newsroom feed is likely to use, plus each country's capital, which is
// frequently a stronger geographic signal than the country name itself.
var aliasSeed = map[string]countryNames{
	"US": {[]string{"united states", "united states of america", "usa", "u.s.", "u.s.a.", "america"}, nil, []string{"washington", "washington dc"}},
	"GB": {[]string{"united kingdom", "uk", "great britain", "britain"}, []string{"angleterre", "royaume-uni"}, []string{"london"}},
	"FR": {[]string{"france"}, []string{"francia", "frankreich"}, []string{"paris"}},
	"DE": {[]string{"germany"}, []string{"allemagne", "deutschland", "alemania"}, []string{"berlin"}},
	"IT": {[]string{"italy"}, []string{"italia", "italie"}, []string{"rome"}},
	"ES": {[]string{"spain"}, []string{"espana", "espagne"}, []string{"madrid"}},
	"PT": {[]string{"portugal"}, nil, []string{"lisbon", "lisboa"}},
	"NL": {[]string{"netherlands", "holland"}, []string{"pays-bas", "niederlande"}, []string{"amsterdam"}},
	"BE": {[]string{"belgium"}, []string{"belgique", "belgien"}, []string{"brussels"}},
	"CH": {[]string{"switzerland"}, []string{"suisse", "schweiz", "svizzera"}, []string{"bern"}},
	"AT": {[]string{"austria"}, []string{"autriche", "osterreich"}, []string{"vienna"}},
	"SE": {[]string{"sweden"}, []string{"suede", "schweden"}, []string{"stockholm"}},
	"NO": {[]string{"norway"}, []string{"norvege", "norwegen"}, []string{"oslo"}},
	"DK": {[]string{"denmark"}, []string{"danemark", "danemark"}, []string{"copenhagen"}},
	"FI": {[]string{"finland"}, []string{"finlande", "finnland"}, []string{"helsinki"}},
	"PL": {[]string{"poland"}, []string{"pologne", "polen"}, []string{"warsaw"}},
	"UA": {[]string{"ukraine"}, nil, []string{"kyiv", "kiev"}},
	"RU": {[]string{"russia", "russian federation"}, []string{"rossiya"}, []string{"moscow"}},
	"TR": {[]string{"turkey", "turkiye"}, nil, []string{"ankara"}},
	"GR": {[]string{"greece"}, []string{"grece", "griechenland", "hellas"}, []string{"athens"}},
	"IE": {[]string{"ireland"}, []string{"irlande", "irland", "eire"}, []string{"dublin"}},
	"CZ": {[]string{"czechia", "czech republic"}, nil, []string{"prague"}},
	"RO": {[]string{"romania"}, []string{"roumanie"}, []string{"bucharest"}},
	"HU": {[]string{"hungary"}, []string{"hongrie", "ungarn"}, []string{"budapest"}},
	"CN": {[]string{"china", "people's republic of china", "prc"}, []string{"zhongguo"}, []string{"beijing"}},
	"JP": {[]string{"japan"}, []string{"nippon", "nihon"}, []string{"tokyo"}},
	"KR": {[]string{"south korea", "republic of korea"}, nil, []string{"seoul"}},
	"KP": {[]string{"north korea", "dprk"}, nil, []string{"pyongyang"}},
	"IN": {[]string{"india"}, []string{"bharat"}, []string{"new delhi"}},
	"PK": {[]string{"pakistan"}, nil, []string{"islamabad"}},
	"BD": {[]string{"bangladesh"}, nil, []string{"dhaka"}},
	"ID": {[]string{"indonesia"}, nil, []string{"jakarta"}},
	"PH": {[]string{"philippines"}, nil, []string{"manila"}},
	"VN": {[]string{"vietnam"}, nil, []string{"hanoi"}},
	"TH": {[]string{"thailand"}, nil, []string{"bangkok"}},
	"MY": {[]string{"malaysia"}, nil, []string{"kuala lumpur"}},
	"SG": {[]string{"singapore"}, nil, nil},
	"TW": {[]string{"taiwan"}, nil, []string{"taipei"}},
	"AU": {[]string{"australia"}, nil, []string{"canberra"}},
	"NZ": {[]string{"new zealand"}, nil, []string{"wellington"}},
	"CA": {[]string{"canada"}, nil, []string{"ottawa"}},
	"MX": {[]string{"mexico"}, []string{"mexico"}, []string{"mexico city"}},
	"BR": {[]string{"brazil"}, []string{"brasil"}, []string{"brasilia"}},
	"AR": {[]string{"argentina"}, nil, []string{"buenos aires"}},
	"CL": {[]string{"chile"}, nil, []string{"santiago"}},
	"CO": {[]string{"colombia"}, nil, []string{"bogota"}},
	"PE": {[]string{"peru"}, nil, []string{"lima"}},
	"VE": {[]string{"venezuela"}, nil, []string{"caracas"}},
	"CU": {[]string{"cuba"}, nil, []string{"havana"}},
	"EG": {[]string{"egypt"}, nil, []string{"cairo"}},
	"ZA": {[]string{"south africa"}, nil, []string{"pretoria", "cape town"}},
	"NG": {[]string{"nigeria"}, nil, []string{"abuja"}},
	"KE": {[]string{"kenya"}, nil, []string{"nairobi"}},
	"ET": {[]string{"ethiopia"}, nil, []string{"addis ababa"}},
	"MA": {[]string{"morocco"}, []string{"maroc"}, []string{"rabat"}},
	"DZ": {[]string{"algeria"}, []string{"algerie"}, []string{"algiers"}},
	"IL": {[]string{"israel"}, nil, []string{"jerusalem", "tel aviv"}},
	"PS": {[]string{"palestine"}, nil, []string{"ramallah"}},
	"SA": {[]string{"saudi arabia"}, nil, []string{"riyadh"}},
	"AE": {[]string{"united arab emirates", "uae"}, nil, []string{"abu dhabi"}},
	"QA": {[]string{"qatar"}, nil, []string{"doha"}},
	"IR": {[]string{"iran"}, nil, []string{"tehran"}},
	"IQ": {[]string{"iraq"}, nil, []string{"baghdad"}},
	"SY": {[]string{"syria"}, nil, []string{"damascus"}},
	"LB": {[]string{"lebanon"}, nil, []string{"beirut"}},
	"JO": {[]string{"jordan"}, nil, []string{"amman"}},
	"YE": {[]string{"yemen"}, nil, []string{"sanaa"}},
	"AF": {[]string{"afghanistan"}, nil, []string{"kabul"}},
}
