package model

// Service describes one offering in the static service catalog.
type Service struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Pricing     string   `json:"pricing"`
}
