package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy removes all HTML tags and attributes. Event names and
// descriptions are stored as plain text; whatever markup a user pastes in
// is stripped before the record is persisted.
var strictPolicy = bluemonday.StrictPolicy()

// Text strips all HTML from user-supplied input and trims surrounding
// whitespace.
func Text(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}
