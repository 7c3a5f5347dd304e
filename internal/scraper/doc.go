// Package scraper fetches listing pages from Turkish ticketing and
// scholarship sites and extracts structured records from their HTML.
//
// Biletinial and Bubilet return events whose date text is normalized with
// the site's datenorm policy. Microfon returns scholarship announcements.
// Cards that cannot be read are skipped; only transport and status errors
// fail a fetch.
package scraper
