// Package enrich talks to the enrichment webhook: the workflow endpoint that
// turns recognized museum-label text into artifact copy, and answers visitor
// follow-up questions.
//
// # Describe
//
// [Client.Describe] posts {"message": text} and returns the webhook response
// with every string "output" field cleaned (code fences, escaped and literal
// newlines, and stray backslashes removed, see [CleanOutput]). The response
// may be a single object or an array of objects; both are preserved.
// [ParseDraft] turns a cleaned output into an [artifact.Draft] ready to store.
//
// # Ask
//
// [Client.Ask] posts {"body": {"text": question}} to the follow-up endpoint
// and returns the "output" or "reply" field, or [FallbackReply].
//
// # Failure Handling
//
// Failures map to structured errors from pkg/errors:
//
//   - connection refused, unknown host, open breaker: UPSTREAM_UNAVAILABLE
//   - request deadline (default 15s): TIMEOUT
//   - non-2xx response: UPSTREAM_ERROR carrying the upstream status; the
//     response body is available through [Details]
//
// Calls run through a circuit breaker (github.com/sony/gobreaker) and retry
// 502, 503 and 504 responses and connection resets with backoff. Describe
// results can be cached by message.
//
// [artifact.Draft]: github.com/matzehuels/museummap/pkg/artifact
package enrich
