package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Document returns the stored form of r, using the field names the
// ingestion path reads. Empty optional fields are left out.
func (r Record) Document() Document {
	doc := Document{
		"id":    r.ID,
		"no":    strconv.Itoa(r.ParentID),
		"slot":  strconv.Itoa(r.SlotNo),
		"Title": r.Title,
	}
	for k, v := range map[string]string{
		"artifact Name":     r.Name,
		"Short Description": r.Desc,
		"Story":             r.Story,
		"Recommendations":   r.Recommendations,
	} {
		if v != "" {
			doc[k] = v
		}
	}
	return doc
}

// WriteJSON encodes records as an indented document array. The output
// can be read back with [DecodeDocuments] and [Ingest], or appended to a
// store with [Importer].
func WriteJSON(records []Record, w io.Writer) error {
	docs := make([]Document, len(records))
	for i, r := range records {
		docs[i] = r.Document()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes records to a JSON file at path.
func ExportJSON(records []Record, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(records, f)
}

// ReadJSON decodes documents from r and ingests them. Documents that fail
// validation are returned in skipped rather than failing the read.
func ReadJSON(r io.Reader) (records []Record, skipped []error, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read: %w", err)
	}
	docs, err := DecodeDocuments(data)
	if err != nil {
		return nil, nil, err
	}
	records, skipped = Ingest(docs)
	return records, skipped, nil
}
