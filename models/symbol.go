package models

// Symbol is a single token returned by an OCR engine. Confidence is on the
// engine's 0..100 scale.
type Symbol struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// ClassProbability is one entry of a classifier's probability vector.
type ClassProbability struct {
	Label string  `json:"className"`
	Score float64 `json:"probability"`
}
