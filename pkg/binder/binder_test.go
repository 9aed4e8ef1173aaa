package binder

import (
	"strings"
	"testing"

	"github.com/matzehuels/museummap/pkg/artifact"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

func rec(id string, parent, slot int) artifact.Record {
	return artifact.Record{ID: id, ParentID: parent, SlotNo: slot}
}

func TestBind(t *testing.T) {
	records := []artifact.Record{rec("a", 1, 1), rec("b", 2, 5), rec("c", 1, 1)}

	tests := []struct {
		name   string
		anchor int
		slot   int
		wantID string
		wantOK bool
	}{
		{"exact match", 2, 5, "b", true},
		{"first of duplicates", 1, 1, "a", true},
		{"unbound slot", 1, 2, "", false},
		{"unknown anchor", 7, 1, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := Bind(tt.anchor, tt.slot, records)
			if ok != tt.wantOK || r.ID != tt.wantID {
				t.Errorf("Bind(%d, %d) = %q, %v; want %q, %v", tt.anchor, tt.slot, r.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}

	if _, ok := Bind(1, 1, nil); ok {
		t.Error("Bind on empty collection should be unbound")
	}
}

func TestBindDoesNotMutate(t *testing.T) {
	records := []artifact.Record{rec("a", 1, 1)}
	Bind(1, 1, records)
	if records[0] != rec("a", 1, 1) {
		t.Error("Bind mutated its input")
	}
}

func TestBinderPolicies(t *testing.T) {
	records := []artifact.Record{rec("20", 1, 1), rec("3", 1, 1), rec("x", 2, 2), rec("100", 1, 1)}

	tests := []struct {
		policy Policy
		want   string
	}{
		{PolicyFirst, "20"},
		{PolicyLowestID, "3"},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			b, err := New(records, tt.policy)
			if err != nil {
				t.Fatal(err)
			}
			r, ok := b.Bind(1, 1)
			if !ok || r.ID != tt.want {
				t.Errorf("Bind(1,1) = %q, want %q", r.ID, tt.want)
			}
			conflicts := b.Conflicts()
			if len(conflicts) != 1 || conflicts[0].Winner != tt.want || len(conflicts[0].Ignored) != 2 {
				t.Errorf("Conflicts = %+v", conflicts)
			}
		})
	}
}

func TestBinderFirstMatchesBind(t *testing.T) {
	records := []artifact.Record{rec("a", 1, 1), rec("b", 1, 1), rec("c", 3, 9)}
	b, err := New(records, PolicyFirst)
	if err != nil {
		t.Fatal(err)
	}
	for anchor := 1; anchor <= 3; anchor++ {
		for slot := 1; slot <= 9; slot++ {
			want, wantOK := Bind(anchor, slot, records)
			got, ok := b.Bind(anchor, slot)
			if got != want || ok != wantOK {
				t.Errorf("(%d,%d): Binder=%v,%v Bind=%v,%v", anchor, slot, got, ok, want, wantOK)
			}
		}
	}
}

func TestBinderReject(t *testing.T) {
	_, err := New([]artifact.Record{rec("a", 1, 1), rec("b", 1, 1)}, PolicyReject)
	if !mmerrors.Is(err, mmerrors.ErrCodeDuplicateSlot) {
		t.Errorf("err = %v, want DUPLICATE_SLOT", err)
	}

	b, err := New([]artifact.Record{rec("a", 1, 1), rec("b", 1, 2)}, PolicyReject)
	if err != nil {
		t.Fatalf("no duplicates should pass: %v", err)
	}
	if len(b.Conflicts()) != 0 {
		t.Error("expected no conflicts")
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyFirst, false},
		{"first", PolicyFirst, false},
		{" Lowest-ID ", PolicyLowestID, false},
		{"reject", PolicyReject, false},
		{"newest", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if got != tt.want || (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestBinderFindAndKeys(t *testing.T) {
	b, _ := New([]artifact.Record{rec("z", 3, 2), rec("y", 1, 4), rec("dup", 1, 4)}, PolicyFirst)
	if _, ok := b.Find("dup"); !ok {
		t.Error("Find should see unbound duplicates")
	}
	keys := b.Keys()
	if len(keys) != 2 || keys[0] != (artifact.Key{ParentID: 1, SlotNo: 4}) {
		t.Errorf("Keys = %v", keys)
	}
}

func TestLessID(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"9", "10", true},
		{"10", "9", false},
		{"2", "01", false},
		{"01", "2", true},
		{"007", "7", true},
		{"7", "007", false},
		{"0", "00", true},
		{"abc", "abd", true},
		{"10", "abc", true},
	}
	for _, tt := range tests {
		if got := lessID(tt.a, tt.b); got != tt.want {
			t.Errorf("lessID(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBinderLowestIDLeadingZeros(t *testing.T) {
	b, err := New([]artifact.Record{rec("2", 1, 1), rec("01", 1, 1)}, PolicyLowestID)
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := b.Bind(1, 1); r.ID != "01" {
		t.Errorf("Bind(1,1) = %q, want 01", r.ID)
	}
}

func TestBinderSharedIDConflicts(t *testing.T) {
	records := []artifact.Record{rec("a", 1, 1), rec("a", 1, 1)}

	for _, policy := range []Policy{PolicyFirst, PolicyLowestID} {
		t.Run(string(policy), func(t *testing.T) {
			b, err := New(records, policy)
			if err != nil {
				t.Fatal(err)
			}
			conflicts := b.Conflicts()
			if len(conflicts) != 1 || len(conflicts[0].Ignored) != 1 || conflicts[0].Ignored[0] != "a" {
				t.Fatalf("Conflicts = %+v", conflicts)
			}
			if got := conflicts[0].String(); !strings.HasSuffix(got, "a wins over a") {
				t.Errorf("String() = %q", got)
			}
		})
	}

	_, err := New(records, PolicyReject)
	if err == nil || !strings.Contains(err.Error(), "claimed by 2 records") {
		t.Errorf("reject err = %v, want claimed by 2 records", err)
	}
}
