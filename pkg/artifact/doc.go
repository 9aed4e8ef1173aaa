// Package artifact defines the artifact record schema and the sources that
// load it.
//
// Artifacts arrive from a document store as loosely typed documents. They are
// converted to [Record] exactly once, at ingestion ([FromDocument], [Ingest]),
// where every optional field gets its default and the record is validated.
// Nothing downstream inspects raw documents.
//
// # Field mapping
//
//	id              document id
//	parentId        "no" (integer or leading-digit string, default 0)
//	slotNo          "slot" (same parsing, default 1)
//	title           "Title" | "title"
//	name            "artifact Name" | "name" | title
//	desc            "Short Description" | "shortDescription"
//	story           "Story" | "story"
//	recommendations "Recommendations" | "recommendations"
//
// A parentId of 0 or a slotNo outside 1..9 is accepted but never binds to a
// slot on the map.
//
// # Sources
//
// [Source] is the read side used by the map; [Store] adds writes for the
// enrichment flow. Implementations: [MemoryStore], [FileStore],
// [CachedSource] and the MongoDB store in the mongostore subpackage.
package artifact
