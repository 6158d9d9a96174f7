package schema

// Result is what every submission returns to the presentation layer.
type Result struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	ID      string  `json:"id,omitempty"`
	Issues  []Issue `json:"issues,omitempty"`
}

const MsgInvalidForm = "Invalid form data."

// Rejected builds the result for a submission that failed validation.
func Rejected(issues []Issue) Result {
	return Result{Success: false, Message: MsgInvalidForm, Issues: issues}
}
