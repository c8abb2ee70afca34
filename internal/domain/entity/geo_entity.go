package entity

// GeoEntity is a sovereign country resolved from article text or LOC
// mentions, with an accumulated mention count and score. Uniqueness within
// a result is by Alpha2.
type GeoEntity struct {
	Name     string  `json:"name"`
	Alpha2   string  `json:"alpha2"`
	Alpha3   string  `json:"alpha3"`
	Count    int     `json:"count"`
	AvgScore float64 `json:"avg_score"`
}
