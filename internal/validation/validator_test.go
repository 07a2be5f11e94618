package validation

import (
	"errors"
	"testing"
)

type signupForm struct {
	Email    string `json:"email" validate:"required,hms_email"`
	Password string `json:"passwordHash" validate:"hms_password"`
	Gender   string `json:"gender" validate:"omitempty,oneof=Male Female Other"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(signupForm{Email: "a@b.co", Password: "Abcdef1!", Gender: "Other"})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestStruct_FieldErrorsUseJSONNames(t *testing.T) {
	err := Struct(signupForm{Email: "", Password: "weak", Gender: "male"})

	var fe FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("Expected FieldErrors, got %T", err)
	}
	if fe["email"] != MsgRequiredField {
		t.Errorf("Expected required message for email, got %q", fe["email"])
	}
	if fe["passwordHash"] != MsgWeakPassword {
		t.Errorf("Expected password message, got %q", fe["passwordHash"])
	}
	if fe["gender"] == "" {
		t.Errorf("Expected gender error for a wrong-case value")
	}
}

func TestFieldErrors_ErrorIsSorted(t *testing.T) {
	fe := FieldErrors{"b": "two", "a": "one"}
	want := "validation failed: a: one; b: two"
	if fe.Error() != want {
		t.Errorf("Expected %q, got %q", want, fe.Error())
	}
}
