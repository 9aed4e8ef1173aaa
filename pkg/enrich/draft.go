package enrich

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/matzehuels/museummap/pkg/artifact"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// ParseDraft decodes a cleaned webhook output into an artifact draft.
// Missing fields take the artifact package defaults.
func ParseDraft(output string) (artifact.Draft, error) {
	output = strings.TrimSpace(output)
	var doc map[string]any
	if err := json.Unmarshal([]byte(output), &doc); err != nil {
		return artifact.Draft{}, mmerrors.Wrap(mmerrors.ErrCodeInvalidFormat, err, "webhook output is not a JSON object")
	}

	d := artifact.Draft{
		No:               text(doc, "no"),
		Slot:             text(doc, "slot", "slotNo"),
		Title:            text(doc, "artifact Name", "Title", "title"),
		ShortDescription: text(doc, "Short Description", "ShortDescription", "shortDescription"),
		Story:            text(doc, "Story", "story"),
		Recommendations:  text(doc, "Recommendations", "recommendations"),
	}
	return d.WithDefaults(), nil
}

// text returns the first non-empty value among keys, formatting numbers
// without a fractional part when they are integral.
func text(doc map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := doc[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
