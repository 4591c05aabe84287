package blog

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const maxTitleLength = 256

var markup = bluemonday.StrictPolicy()

// plainText strips every tag from s. The sanitizer escapes what it keeps, so the
// entities are decoded again: stored values are plain text and escaping is left
// to whoever renders them.
func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(markup.Sanitize(s)))
}

func cleanTitle(raw string) (string, error) {
	title, err := cleanText("title", raw)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must be at most %d characters", maxTitleLength),
		}
	}
	return title, nil
}

// cleanText rejects a value that is empty once its markup is gone.
func cleanText(field, raw string) (string, error) {
	text := plainText(raw)
	if text == "" {
		return "", &ValidationError{Field: field, Message: field + " is required"}
	}
	return text, nil
}
