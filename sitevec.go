// Package sitevec crawls a website breadth-first, stages the text of every
// page as a transient file, and ingests the files in bounded batches into a
// remote vector store.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, openai/, sqlite/).
package sitevec
