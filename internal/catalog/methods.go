package catalog

// Method describes one ranking method offered by the engine.
type Method struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

var methods = []Method{
	{
		ID:   "ahp",
		Name: "AHP (Analytic Hierarchy Process)",
		Description: "Derives weights from pairwise comparisons synthesised from the data, " +
			"checks each matrix for consistency and aggregates per-criterion alternative weights.",
	},
	{
		ID:   "topsis",
		Name: "TOPSIS (Technique for Order Preference by Similarity to Ideal Solution)",
		Description: "Ranks alternatives by their relative closeness to the ideal and " +
			"negative-ideal points of the weighted, vector-normalised decision matrix.",
	},
	{
		ID:   "promethee",
		Name: "PROMETHEE II (Preference Ranking Organization Method for Enrichment Evaluations)",
		Description: "Outranking method: per-criterion preference functions produce pairwise " +
			"preference degrees that are aggregated into positive, negative and net flows.",
	},
	{
		ID:   "waspas",
		Name: "WASPAS (Weighted Aggregated Sum Product Assessment)",
		Description: "Blends the Weighted Sum Model and the Weighted Product Model " +
			"through a coefficient lambda in [0, 1].",
	},
	{
		ID:          "wsm",
		Name:        "WSM (Weighted Sum Model)",
		Description: "Weighted sum of the linearly normalised criteria. Assumes additive, independent criteria.",
	},
	{
		ID:          "wpm",
		Name:        "WPM (Weighted Product Model)",
		Description: "Product of the normalised criteria raised to their weights. Requires strictly positive values.",
	},
}

// Methods returns the method catalog in display order.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// HasMethod reports whether id names a catalogued method.
func HasMethod(id string) bool {
	for _, m := range methods {
		if m.ID == id {
			return true
		}
	}
	return false
}
