package auth

const (
	// MessageLoginSuccess is returned by the login action. The spelling is
	// part of the public response and clients match on it.
	MessageLoginSuccess = "Authenticated Sucessfully!"
	// MessageRegisterSuccess is returned by the register action
	MessageRegisterSuccess = "Confirmation email sent!"
	// MessageResetSuccess is returned by the forgot password action
	MessageResetSuccess = "Reset email sent!"
	// MessageInvalidFields is returned when strict validation rejects a payload
	MessageInvalidFields = "Invalid fields!"
)

// ActionResult is the outcome of a server action. Exactly one of the
// fields is set.
type ActionResult struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Succeeded reports whether the result carries a success message
func (r ActionResult) Succeeded() bool {
	return r.Error == "" && r.Success != ""
}

// SuccessResult builds a success outcome
func SuccessResult(msg string) ActionResult {
	return ActionResult{Success: msg}
}

// ErrorResult builds an error outcome
func ErrorResult(msg string) ActionResult {
	return ActionResult{Error: msg}
}
