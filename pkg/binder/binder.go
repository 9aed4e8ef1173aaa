// Package binder matches artifact records to anchor slots.
//
// A slot is identified by its anchor id and 1-based slot number, the same
// pair an [artifact.Record] claims through its parentId and slotNo. [Bind]
// is the plain linear scan; [Binder] precomputes the bindings once per
// snapshot under an explicit [Policy] for records that claim the same slot.
package binder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/matzehuels/museummap/pkg/artifact"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

// Bind returns the first record, in input order, whose (parentId, slotNo)
// equals (anchorID, slotNo). It never mutates records.
func Bind(anchorID, slotNo int, records []artifact.Record) (artifact.Record, bool) {
	for _, r := range records {
		if r.ParentID == anchorID && r.SlotNo == slotNo {
			return r, true
		}
	}
	return artifact.Record{}, false
}

// Policy decides which record binds when several claim the same slot.
type Policy string

const (
	// PolicyFirst binds the first record in input order.
	PolicyFirst Policy = "first"

	// PolicyLowestID binds the record whose id sorts first. Numeric ids
	// compare numerically, other ids lexically.
	PolicyLowestID Policy = "lowest-id"

	// PolicyReject refuses snapshots with duplicate claims.
	PolicyReject Policy = "reject"
)

// Policies lists the accepted policy names.
var Policies = []Policy{PolicyFirst, PolicyLowestID, PolicyReject}

// ParsePolicy validates a policy name. The empty string is PolicyFirst.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyFirst, nil
	case PolicyFirst, PolicyLowestID, PolicyReject:
		return p, nil
	default:
		return "", mmerrors.New(mmerrors.ErrCodeInvalidConfig,
			"unknown duplicate policy %q (want first, lowest-id or reject)", s)
	}
}

// Conflict reports a slot claimed by more than one record.
type Conflict struct {
	Key     artifact.Key `json:"key"`
	Winner  string       `json:"winner,omitempty"`
	Ignored []string     `json:"ignored"`
}

// String formats the conflict for logs.
func (c Conflict) String() string {
	return fmt.Sprintf("slot %s: %s wins over %s", c.Key, c.Winner, strings.Join(c.Ignored, ", "))
}

// Binder holds the resolved bindings of one artifact snapshot.
// It is immutable after New and safe for concurrent reads.
type Binder struct {
	policy    Policy
	records   []artifact.Record
	bound     map[artifact.Key]artifact.Record
	conflicts []Conflict
}

// New resolves every slot claim in records under policy. Only PolicyReject
// can fail, with an ErrCodeDuplicateSlot error listing the conflicts.
func New(records []artifact.Record, policy Policy) (*Binder, error) {
	if policy == "" {
		policy = PolicyFirst
	}
	b := &Binder{
		policy:  policy,
		records: append([]artifact.Record(nil), records...),
		bound:   make(map[artifact.Key]artifact.Record, len(records)),
	}

	claims := make(map[artifact.Key][]artifact.Record)
	var order []artifact.Key
	for _, r := range b.records {
		k := r.Key()
		if _, seen := claims[k]; !seen {
			order = append(order, k)
		}
		claims[k] = append(claims[k], r)
	}

	for _, k := range order {
		rs := claims[k]
		win := 0
		if policy == PolicyLowestID {
			for i, r := range rs[1:] {
				if lessID(r.ID, rs[win].ID) {
					win = i + 1
				}
			}
		}
		winner := rs[win]
		b.bound[k] = winner
		if len(rs) > 1 {
			c := Conflict{Key: k, Winner: winner.ID}
			for i, r := range rs {
				if i != win {
					c.Ignored = append(c.Ignored, r.ID)
				}
			}
			b.conflicts = append(b.conflicts, c)
		}
	}

	if policy == PolicyReject && len(b.conflicts) > 0 {
		msgs := make([]string, len(b.conflicts))
		for i, c := range b.conflicts {
			msgs[i] = fmt.Sprintf("slot %s claimed by %d records", c.Key, len(c.Ignored)+1)
		}
		return nil, mmerrors.New(mmerrors.ErrCodeDuplicateSlot, "%s", strings.Join(msgs, "; "))
	}
	return b, nil
}

// Bind returns the record bound to (anchorID, slotNo).
func (b *Binder) Bind(anchorID, slotNo int) (artifact.Record, bool) {
	r, ok := b.bound[artifact.Key{ParentID: anchorID, SlotNo: slotNo}]
	return r, ok
}

// Find returns the record with the given id, bound or not.
func (b *Binder) Find(id string) (artifact.Record, bool) {
	for _, r := range b.records {
		if r.ID == id {
			return r, true
		}
	}
	return artifact.Record{}, false
}

// Conflicts returns the slots claimed by more than one record, in the order
// their first claim appeared.
func (b *Binder) Conflicts() []Conflict {
	return append([]Conflict(nil), b.conflicts...)
}

// Policy returns the policy the bindings were resolved with.
func (b *Binder) Policy() Policy { return b.policy }

// Records returns the snapshot the binder was built from.
func (b *Binder) Records() []artifact.Record {
	return append([]artifact.Record(nil), b.records...)
}

// Keys returns the bound slot keys sorted by anchor then slot.
func (b *Binder) Keys() []artifact.Key {
	keys := make([]artifact.Key, 0, len(b.bound))
	for k := range b.bound {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].ParentID != keys[j].ParentID {
			return keys[i].ParentID < keys[j].ParentID
		}
		return keys[i].SlotNo < keys[j].SlotNo
	})
	return keys
}

// lessID orders numeric ids by value ("2" < "01" is false, "2" < "10"
// is true) and everything else lexically. Equal numeric values fall back
// to the lexical order so the result stays total.
func lessID(a, b string) bool {
	if isDigits(a) && isDigits(b) {
		na, nb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(na) != len(nb) {
			return len(na) < len(nb)
		}
		if na != nb {
			return na < nb
		}
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
