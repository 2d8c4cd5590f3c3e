package domain

import (
	"errors"
	"strings"
)

var (
	// ErrInvalidInput marks a submission rejected before any side effect.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDeliveryFailure marks a submission whose emails could not all be sent.
	ErrDeliveryFailure = errors.New("delivery failure")
)

// ValidationError lists every constraint the submission violates, in field order.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidInput.Error()
	}
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// DeliveryStep identifies which of the two sends failed.
type DeliveryStep string

const (
	StepCompanyNotification DeliveryStep = "company_notification"
	StepThankYou            DeliveryStep = "thank_you"
)

// DeliveryError wraps the transport error of a failed send. When Step is
// StepThankYou the business notification has already been delivered.
type DeliveryError struct {
	Step DeliveryStep
	Err  error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return ErrDeliveryFailure.Error()
	}
	return e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

func (e *DeliveryError) Is(target error) bool {
	return target == ErrDeliveryFailure
}
