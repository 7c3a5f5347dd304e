package scraper

import (
	"github.com/gosimple/slug"
)

// Slug turns a Turkish city or category name into the ASCII path segment
// the sites use: "Eskişehir" -> "eskisehir", "Stand Up" -> "stand-up".
func Slug(s string) string {
	return slug.MakeLang(s, "tr")
}
