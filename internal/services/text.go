package services

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yukikurage/taskboard-api/internal/constants"
)

// descriptionPolicy keeps basic formatting in descriptions and drops anything executable.
var descriptionPolicy = bluemonday.UGCPolicy()

// titlePolicy strips all markup from single-line fields.
var titlePolicy = bluemonday.StrictPolicy()

// cleanTitle strips markup. Titles are plain text, so the entities the
// policy escapes (quotes, ampersands) are turned back into characters.
func cleanTitle(s string) string {
	return strings.TrimSpace(html.UnescapeString(titlePolicy.Sanitize(s)))
}

func cleanDescription(s string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(s))
}

func checkTitle(errs fieldErrors, field, title string) {
	n := utf8.RuneCountInString(title)
	switch {
	case n == 0:
		errs[field] = "is required"
	case n < constants.MinTitleLength:
		errs[field] = "must be at least 3 characters"
	case n > constants.MaxTitleLength:
		errs[field] = "must be at most 100 characters"
	}
}
