// Package store persists the story and timeline documents and the
// publish history in SQLite.
//
// Each document kind occupies one row of the documents table and every
// write replaces the whole body. Reads of a document that was never
// saved return the kind's empty default, except LoadStory, which callers
// use to tell "nothing saved" apart from an empty story.
package store
