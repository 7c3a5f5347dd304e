// Package listing provides the records scraped from event and scholarship
// sites and the snapshot diffing used to report what is new since the last run.
//
// Each record carries a deterministic SHA1-based ID derived from its source and
// canonical link, so the same listing is recognized across runs even when its
// title or date text changes.
package listing
