// Package storage persists listing snapshots between runs.
//
// Snapshots live in a SQLite database (listings.db) inside the data
// directory, one row per scope in snapshots and one row per tracked record in
// entries. Saving a scope replaces its previous contents in one transaction.
package storage
