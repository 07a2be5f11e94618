package account

import "errors"

var (
	ErrLoginFailed = errors.New("login failed")
	ErrSignupGate  = errors.New("please fix validation errors before submitting")
)

// Messages shown by the login and signup screens.
const (
	MsgLoginFailed   = "Invalid credentials or server error"
	MsgLoginSuccess  = "Login successful!"
	MsgSignupGate    = "Please fix validation errors before submitting."
	MsgSignupSuccess = "Registration Successful!"
	MsgSignupFailed  = "Registration failed: "
)
