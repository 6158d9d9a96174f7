package schema

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Alijeyrad/vlog_backend/pkg/util/htmltext"
	"github.com/Alijeyrad/vlog_backend/pkg/util/slug"
)

const (
	VlogTitleMin   = 5
	VlogTitleMax   = 200
	VlogAuthorMin  = 2
	VlogAuthorMax  = 100
	VlogContentMin = 50
)

// VlogPostInput is a validated vlog post submission. Content is HTML from
// the rich-text editor and is stored as given.
type VlogPostInput struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	Content          string `json:"content"`
	FeaturedImageURL string `json:"featuredImageUrl"`
}

func (in *VlogPostInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, append(minMax(VlogTitleMin, VlogTitleMax,
			"Title must be at least 5 characters.",
			"Title cannot exceed 200 characters."),
			validation.By(sluggable))...),
		validation.Field(&in.Author, minMax(VlogAuthorMin, VlogAuthorMax,
			"Author must be at least 2 characters.",
			"Author cannot exceed 100 characters.")...),
		validation.Field(&in.Content,
			validation.Required.Error("Content must be at least 50 characters."),
			validation.RuneLength(VlogContentMin, 0).Error("Content must be at least 50 characters."),
			validation.By(hasVisibleText),
		),
		validation.Field(&in.FeaturedImageURL,
			is.URL.Error("Please enter a valid URL for the image."),
			validation.By(absoluteHTTPURL),
		),
	)
}

func hasVisibleText(value any) error {
	s, _ := value.(string)
	if s != "" && htmltext.Text(s) == "" {
		return validation.NewError("validation_content_text", "Content must contain text.")
	}
	return nil
}

// sluggable rejects titles that would produce an empty slug. Slugs keep only
// ASCII letters and digits, so "!!!!!" and an all-Cyrillic title both fail.
func sluggable(value any) error {
	s, _ := value.(string)
	if s != "" && slug.Make(s) == "" {
		return validation.NewError("validation_title_slug", "Title must contain at least one Latin letter or digit.")
	}
	return nil
}

// ParseVlogPost validates a raw vlog post form. The image URL is read from
// "featuredImageUrl", falling back to the older "imageUrl" key.
func ParseVlogPost(f Fields) (VlogPostInput, []Issue) {
	in := VlogPostInput{
		Title:            f["title"],
		Author:           f["author"],
		Content:          f["content"],
		FeaturedImageURL: f.first("featuredImageUrl", "imageUrl"),
	}
	if issues := issuesFrom(in.validate()); len(issues) > 0 {
		return VlogPostInput{}, issues
	}
	return in, nil
}
