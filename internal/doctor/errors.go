package doctor

import (
	"errors"
	"fmt"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAlreadyCompleted    = errors.New("appointment already completed")
)

// Step names one backend call of the consultation flow.
type Step string

const (
	StepUploadReport Step = "upload_report"
	StepUpdateStatus Step = "update_status"
)

// StepError is a failed consultation step. When Step is StepUpdateStatus the
// report was already filed and stays filed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("consultation step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Partial reports whether an earlier step had already succeeded.
func (e *StepError) Partial() bool {
	return e.Step == StepUpdateStatus
}
