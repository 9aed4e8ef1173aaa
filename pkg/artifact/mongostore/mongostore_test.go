package mongostore

import (
	"context"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/museummap/pkg/artifact"
	mmerrors "github.com/matzehuels/museummap/pkg/errors"
)

func TestToDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := toDocument(bson.M{"_id": oid, "no": int32(2), "slot": "5", "Title": "Coin"})

	r, err := artifact.FromDocument("", doc)
	if err != nil {
		t.Fatal(err)
	}
	if r.ID != oid.Hex() || r.ParentID != 2 || r.SlotNo != 5 || r.Name != "Coin" {
		t.Errorf("record = %+v", r)
	}
	if _, ok := doc["_id"]; ok {
		t.Error("_id should be replaced by id")
	}
}

func TestFromDocument(t *testing.T) {
	oid := primitive.NewObjectID()
	m := fromDocument(artifact.Document{"id": oid.Hex(), "no": "2"})
	if m["_id"] != oid || m["no"] != "2" {
		t.Errorf("fromDocument = %v", m)
	}
	if _, ok := m["id"]; ok {
		t.Error("id should be moved to _id")
	}

	m = fromDocument(artifact.Document{"id": "lion"})
	if m["_id"] != "lion" {
		t.Errorf("non-hex id = %v, want lion", m["_id"])
	}
}

func TestOpenRequiresURI(t *testing.T) {
	_, err := Open(context.Background(), Config{}, nil)
	if !mmerrors.Is(err, mmerrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	uri := os.Getenv("MUSEUMMAP_MONGO_URI")
	if uri == "" {
		t.Skip("MUSEUMMAP_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, Config{URI: uri, Database: "museummap_test", Collection: primitive.NewObjectID().Hex()}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close(ctx)
	}()

	id, err := s.Add(ctx, artifact.Draft{No: "3", Slot: "2", Title: "Priest King"}.WithDefaults())
	if err != nil {
		t.Fatal(err)
	}
	records, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ID != id || records[0].Key() != (artifact.Key{ParentID: 3, SlotNo: 2}) {
		t.Errorf("records = %+v", records)
	}
}
