package artifact

import "strings"

// Defaults applied to drafts whose fields are missing.
const (
	DefaultNo              = "1"
	DefaultTitle           = "Unknown Artifact"
	DefaultDescription     = "No description available"
	DefaultStory           = "No story available"
	DefaultRecommendations = "No recommendations available"
)

// Draft is an artifact produced by the enrichment webhook, before it has a
// document id.
type Draft struct {
	No               string `json:"no"`
	Slot             string `json:"slot,omitempty"`
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Story            string `json:"story"`
	Recommendations  string `json:"recommendations"`
}

// WithDefaults fills every empty field with its default.
func (d Draft) WithDefaults() Draft {
	d.No = orDefault(d.No, DefaultNo)
	d.Title = orDefault(d.Title, DefaultTitle)
	d.ShortDescription = orDefault(d.ShortDescription, DefaultDescription)
	d.Story = orDefault(d.Story, DefaultStory)
	d.Recommendations = orDefault(d.Recommendations, DefaultRecommendations)
	return d
}

// Document returns the stored form of the draft, using the field names the
// map reads.
func (d Draft) Document() Document {
	doc := Document{
		"no":                d.No,
		"Title":             d.Title,
		"artifact Name":     d.Title,
		"Short Description": d.ShortDescription,
		"Story":             d.Story,
		"Recommendations":   d.Recommendations,
	}
	if d.Slot != "" {
		doc["slot"] = d.Slot
	}
	return doc
}

// Record converts the draft to a record with the given id.
func (d Draft) Record(id string) (Record, error) {
	return FromDocument(id, d.Document())
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
