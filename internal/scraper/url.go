package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// IDPlaceholder is substituted with the page id in URL templates.
const IDPlaceholder = "{id}"

// DefaultURLTemplate points at the text lookup endpoint.
const DefaultURLTemplate = "https://typeracerdata.com/text?id=" + IDPlaceholder

// ErrMissingPlaceholder is returned for templates without an {id} marker.
var ErrMissingPlaceholder = errors.New("url template must contain " + IDPlaceholder)

// ValidateURLTemplate checks that a template contains the id placeholder and
// yields an absolute http(s) URL.
func ValidateURLTemplate(template string) error {
	if !strings.Contains(template, IDPlaceholder) {
		return ErrMissingPlaceholder
	}
	u, err := url.Parse(PageURL(template, 1))
	if err != nil {
		return fmt.Errorf("parse url template: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url template scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("url template %q has no host", template)
	}
	return nil
}

// PageURL interpolates id into template.
func PageURL(template string, id int64) string {
	return strings.ReplaceAll(template, IDPlaceholder, strconv.FormatInt(id, 10))
}
