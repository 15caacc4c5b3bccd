package entity

type Category string

const (
	CategoryProductive   Category = "productive"
	CategoryUnproductive Category = "unproductive"
	CategoryNeutral      Category = "neutral"
)

// Categories holds the user-configured domain sets. Productive and
// Unproductive are disjoint; a domain in neither is neutral.
type Categories struct {
	Productive   []string `json:"productive"`
	Unproductive []string `json:"unproductive"`
}

type CategoryDomainRequest struct {
	Domain   string   `json:"domain" binding:"required"`
	Category Category `json:"category" binding:"required"`
}
