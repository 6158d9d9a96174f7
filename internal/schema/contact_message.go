package schema

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	ContactNameMin    = 2
	ContactNameMax    = 50
	ContactSubjectMin = 5
	ContactSubjectMax = 100
	ContactMessageMin = 10
	ContactMessageMax = 1000
)

// ContactMessageInput is a validated contact form submission.
type ContactMessageInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (in *ContactMessageInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, minMax(ContactNameMin, ContactNameMax,
			"Name must be at least 2 characters.",
			"Name cannot exceed 50 characters.")...),
		validation.Field(&in.Email,
			validation.Required.Error("Please enter a valid email address."),
			is.EmailFormat.Error("Please enter a valid email address."),
		),
		validation.Field(&in.Subject, minMax(ContactSubjectMin, ContactSubjectMax,
			"Subject must be at least 5 characters.",
			"Subject cannot exceed 100 characters.")...),
		validation.Field(&in.Message, minMax(ContactMessageMin, ContactMessageMax,
			"Message must be at least 10 characters.",
			"Message cannot exceed 1000 characters.")...),
	)
}

// ParseContactMessage validates a raw contact form.
func ParseContactMessage(f Fields) (ContactMessageInput, []Issue) {
	in := ContactMessageInput{
		Name:    f["name"],
		Email:   f["email"],
		Subject: f["subject"],
		Message: f["message"],
	}
	if issues := issuesFrom(in.validate()); len(issues) > 0 {
		return ContactMessageInput{}, issues
	}
	return in, nil
}
