// Package catalog holds the static reference data served by the API:
// the writing-services catalog, API metadata and the fixed figures
// reported alongside contact statistics.
package catalog

import "github.com/writingportfolio/backend/internal/model"

const (
	APIName    = "Professional Writing Services API"
	APIVersion = "1.0.0"

	// ExperienceYears and SuccessRate are marketing figures, not derived from data.
	ExperienceYears = 5
	SuccessRate     = "100%"
)

const contactForQuote = "Contact for quote"

var services = []model.Service{
	{
		ID:          "academic-writing",
		Name:        "Academic Writing",
		Description: "Comprehensive academic writing services including thesis, proposals, dissertations, and research papers.",
		Features: []string{
			"Thesis & Dissertations",
			"Research Proposals",
			"Academic Assignments",
			"Literature Reviews",
			"All Referencing Styles",
		},
		Pricing: contactForQuote,
	},
	{
		ID:          "technical-writing",
		Name:        "Technical Writing",
		Description: "Professional technical documentation and specialized content creation for various industries.",
		Features: []string{
			"Cryptocurrency Whitepapers",
			"Technical Documentation",
			"User Manuals",
			"API Documentation",
			"Industry Reports",
		},
		Pricing: contactForQuote,
	},
	{
		ID:          "content-editing",
		Name:        "Content & Editing",
		Description: "Expert editing and content creation services for websites, blogs, and marketing materials.",
		Features: []string{
			"Website Content",
			"Blog Articles",
			"Copy Editing",
			"Proofreading",
			"SEO-Optimized Content",
		},
		Pricing: contactForQuote,
	},
}

// headline is the list advertised by GET /. It includes whitepapers as a
// headline offering even though they are a technical-writing feature.
var headline = []string{
	"Academic Writing",
	"Technical Writing",
	"Content & Editing",
	"Cryptocurrency Whitepapers",
}

// Services returns a deep copy of the catalog so callers cannot mutate it.
func Services() []model.Service {
	out := make([]model.Service, len(services))
	for i, s := range services {
		s.Features = append([]string(nil), s.Features...)
		out[i] = s
	}
	return out
}

// Headline returns the service names advertised by the metadata endpoint.
func Headline() []string {
	return append([]string(nil), headline...)
}
