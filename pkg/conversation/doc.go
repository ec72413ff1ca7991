// Package conversation implements a branching chat conversation as a tree of
// immutable messages.
//
// Messages are never edited: re-querying an earlier point of the
// conversation inserts sibling branches instead, so the full history of
// alternatives is kept. The tree is stored as a flat id-keyed arena with
// parent back-references; child lists are derived from those references.
//
// A Conversation bundles one tree with default completion parameters, a
// display name and its storage path. Completions go through the Provider
// interface, which is injected per call so the core stays independent of any
// particular chat API.
//
// Concurrency: a conversation is single-writer. Reads (Frontier, PathTo,
// iteration) are pure and may interleave with each other, but nothing may
// mutate the tree while a Complete call is in flight. Distinct conversations
// are fully independent.
package conversation
