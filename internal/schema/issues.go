// Package schema declares the accepted shapes of user submissions.
//
// Parsers take the raw field map of a form or JSON body and return either a
// typed, bound-checked record or the list of issues found. They never fail in
// any other way.
package schema

import (
	"errors"
	"net/url"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Issue is one validation failure, addressed by field name.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Fields is the raw input of a submission: field name to submitted value.
type Fields map[string]string

// first returns the first non-empty value among keys.
func (f Fields) first(keys ...string) string {
	for _, k := range keys {
		if v := f[k]; v != "" {
			return v
		}
	}
	return ""
}

func issuesFrom(err error) []Issue {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []Issue{{Field: "", Message: err.Error()}}
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for field, fe := range fieldErrs {
		if fe == nil {
			continue
		}
		issues = append(issues, Issue{Field: field, Message: fe.Error()})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Field < issues[j].Field })
	return issues
}

// absoluteHTTPURL rejects image URLs without an http(s) scheme and a host; is.URL
// alone accepts "example.com/pic.jpg".
func absoluteHTTPURL(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_absolute_url", "Please enter a valid URL for the image.")
	}
	return nil
}

// minMax returns the rule set for a required string with rune length bounds.
// An empty value reports the minimum message. max <= 0 means unbounded.
func minMax(min, max int, minMsg, maxMsg string) []validation.Rule {
	rules := []validation.Rule{
		validation.Required.Error(minMsg),
		validation.RuneLength(min, 0).Error(minMsg),
	}
	if max > 0 {
		rules = append(rules, validation.RuneLength(0, max).Error(maxMsg))
	}
	return rules
}
