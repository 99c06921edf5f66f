package constants

// SubEventTemplate is a preset stage offered by the CMS when building a program.
type SubEventTemplate struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	DressCode string `json:"dress_code"`
}

// GroupTemplate is a preset invitation group. DefaultAll links every sub-event.
type GroupTemplate struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Color        string   `json:"color"`
	DefaultAll   bool     `json:"default_all,omitempty"`
	DefaultSlugs []string `json:"default_slugs,omitempty"`
}

var SubEventTemplates = []SubEventTemplate{
	{Slug: "mairie", Name: "Cérémonie civile", DressCode: "Tenue de ville"},
	{Slug: "henne", Name: "Soirée Henné", DressCode: "Tenue traditionnelle"},
	{Slug: "houppa", Name: "Cérémonie religieuse & Houppa", DressCode: "Tenue de soirée"},
	{Slug: "party", Name: "Soirée & Dîner", DressCode: "Tenue de gala"},
	{Slug: "chabbat", Name: "Chabbat Hatan", DressCode: "Chic décontracté"},
	{Slug: "cocktail", Name: "Cocktail", DressCode: "Tenue de soirée"},
	{Slug: "brunch", Name: "Brunch du lendemain", DressCode: "Décontracté"},
}

var GroupTemplates = []GroupTemplate{
	{Key: "full", Name: "Full invitation", Description: "Invités à tous les événements", Color: "#22C55E", DefaultAll: true},
	{Key: "ceremony_party", Name: "Cérémonie + Soirée", Description: "Invités à la cérémonie et à la soirée", Color: "#3B82F6", DefaultSlugs: []string{"mairie", "houppa", "party"}},
	{Key: "party_only", Name: "Soirée uniquement", Description: "Invités uniquement à la soirée", Color: "#F59E0B", DefaultSlugs: []string{"party"}},
	{Key: "ceremony_only", Name: "Cérémonie uniquement", Description: "Invités uniquement à la cérémonie", Color: "#8B5CF6", DefaultSlugs: []string{"mairie", "houppa"}},
}

func FindGroupTemplate(key string) (GroupTemplate, bool) {
	for _, t := range GroupTemplates {
		if t.Key == key {
			return t, true
		}
	}
	return GroupTemplate{}, false
}
