package models

// Intent is the classifier's output for one request.
type Intent struct {
	// Type is the primary intent label (code, research, devops, design,
	// analysis, planning, or general when nothing matched).
	Type string `json:"type"`
	// Cluster is the registry cluster associated with the primary intent.
	Cluster string `json:"cluster"`
	// Confidence is min(matchedKeywords/3, 1.0); 0.3 for the general fallback.
	Confidence float64 `json:"confidence"`
	// Matched lists the keywords found in the request.
	Matched []string `json:"matched"`
	// Secondary lists the remaining matching intents, strongest first.
	Secondary []SecondaryIntent `json:"secondary"`
}

// SecondaryIntent is a non-primary intent that also matched the request.
type SecondaryIntent struct {
	// Type is the intent label.
	Type string `json:"type"`
	// Confidence is min(matchedKeywords/3, 1.0).
	Confidence float64 `json:"confidence"`
}
