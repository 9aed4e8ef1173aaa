package artifact

import (
	"strconv"
	"strings"

	"github.com/matzehuels/museummap/pkg/cache"
)

// Record is one validated artifact.
type Record struct {
	ID              string `json:"id" validate:"required,max=128"`
	ParentID        int    `json:"parentId"`
	SlotNo          int    `json:"slotNo"`
	Title           string `json:"title,omitempty" validate:"max=2000"`
	Name            string `json:"name,omitempty" validate:"max=2000"`
	Desc            string `json:"desc,omitempty"`
	Story           string `json:"story,omitempty"`
	Recommendations string `json:"recommendations,omitempty"`
}

// Key identifies the slot a record claims.
type Key struct {
	ParentID int `json:"parentId"`
	SlotNo   int `json:"slotNo"`
}

// String formats the key as "parent/slot".
func (k Key) String() string {
	return strconv.Itoa(k.ParentID) + "/" + strconv.Itoa(k.SlotNo)
}

// Key returns the (parentId, slotNo) pair the record claims.
func (r Record) Key() Key {
	return Key{ParentID: r.ParentID, SlotNo: r.SlotNo}
}

// DisplayName is the name shown on slot markers and overlay headers.
func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Title
}

// Label is the short text drawn next to a bound slot: the first word of the
// display name, capped at 12 runes.
func (r Record) Label() string {
	name := strings.TrimSpace(r.DisplayName())
	if i := strings.IndexAny(name, " \t"); i > 0 {
		name = name[:i]
	}
	if runes := []rune(name); len(runes) > 12 {
		name = string(runes[:11]) + "…"
	}
	return name
}

// Hash returns a stable digest of a record list, used for cache keys.
func Hash(records []Record) string {
	return cache.HashJSON(records)
}
