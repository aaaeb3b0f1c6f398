package signin

import "github.com/noteshive/noteshive/internal/api"

// LoginResultMsg carries the outcome of a login or OTP verification.
type LoginResultMsg struct {
	Email  string
	Result *api.LoginResult
	Err    error
	Seq    uint64
}

// SignupResultMsg carries the outcome of a sign-up request.
type SignupResultMsg struct {
	Email   string
	Message string
	Err     error
	Seq     uint64
}

// ResendResultMsg carries the outcome of a resend-code request.
type ResendResultMsg struct {
	Message string
	Err     error
	Seq     uint64
}
