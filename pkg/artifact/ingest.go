package artifact

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// Document is a raw artifact as stored: field name to value.
type Document map[string]any

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// FromDocument converts a raw document into a validated Record. When id is
// empty the document's own "id" or "_id" field is used.
func FromDocument(id string, doc Document) (Record, error) {
	if id == "" {
		id = stringField(doc, "id", "_id")
	}
	r := Record{
		ID:              id,
		ParentID:        intField(doc, 0, "no", "parentId"),
		SlotNo:          slotField(doc),
		Title:           stringField(doc, "Title", "title"),
		Desc:            stringField(doc, "Short Description", "shortDescription", "ShortDescription", "desc"),
		Story:           stringField(doc, "Story", "story"),
		Recommendations: stringField(doc, "Recommendations", "recommendations"),
	}
	r.Name = stringField(doc, "artifact Name", "name")
	if r.Name == "" {
		r.Name = r.Title
	}

	if err := Validate(r); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks a record against the schema.
func Validate(r Record) error {
	if err := mmerrors.ValidateDocumentID(r.ID); err != nil {
		return err
	}
	err := validatorInstance().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return mmerrors.Wrap(mmerrors.ErrCodeInvalidArtifact, err,
			"artifact %q: field %s fails %q", r.ID, fe.Field(), fe.Tag())
	}
	return mmerrors.Wrap(mmerrors.ErrCodeInvalidArtifact, err, "artifact %q", r.ID)
}

// Ingest converts every document, keeping input order. Documents that fail
// validation are skipped and reported in skipped; ingestion itself never fails.
func Ingest(docs []Document) (records []Record, skipped []error) {
	records = make([]Record, 0, len(docs))
	for i, doc := range docs {
		r, err := FromDocument("", doc)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("document %d: %w", i, err))
			continue
		}
		records = append(records, r)
	}
	return records, skipped
}

// stringField returns the first non-empty value among keys.
func stringField(doc Document, keys ...string) string {
	for _, k := range keys {
		v, ok := doc[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case fmt.Stringer:
			s = t.String()
		default:
			s = fmt.Sprint(t)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// intField returns the first present value among keys parsed as an integer.
// Present but unparseable values yield 0; absent keys yield def.
func intField(doc Document, def int, keys ...string) int {
	for _, k := range keys {
		v, ok := doc[k]
		if !ok || v == nil {
			continue
		}
		if s, isStr := v.(string); isStr && s == "" {
			continue
		}
		n, _ := toInt(v)
		return n
	}
	return def
}

// slotField reads the 1-based slot number. Missing, empty, false and
// numeric zero or NaN all mean slot 1; a string that does not parse (and
// the string "0") gives 0, which never binds.
func slotField(doc Document) int {
	for _, k := range []string{"slot", "slotNo"} {
		switch v := doc[k].(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
			n, _ := leadingInt(v)
			return n
		case bool:
			if v {
				return 0
			}
			return 1
		default:
			if n, _ := toInt(v); n != 0 {
				return n
			}
			return 1
		}
	}
	return 1
}

func toInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case float32:
		return toInt(float64(t))
	case string:
		return leadingInt(t)
	default:
		return 0, false
	}
}

// leadingInt parses the integer prefix of s: "3", " 3 ", "3rd" and "+3" all
// give 3; "abc" gives 0, false.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
