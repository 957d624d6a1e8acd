package types

import "fmt"

type TransferStep int

const (
	StepApprove TransferStep = iota
	StepDeposit
)

func (s TransferStep) String() string {
	switch s {
	case StepApprove:
		return "approve"
	case StepDeposit:
		return "deposit"
	default:
		return "unknown"
	}
}

// StepError records which step of a transfer failed.
type StepError struct {
	Step TransferStep
	Err  error
}

func NewStepError(step TransferStep, err error) error {
	return &StepError{Step: step, Err: err}
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
