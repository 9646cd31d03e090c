package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // Report produced, all thresholds met
	ExitValidationFailed = 1 // Input data failed validation
	ExitError            = 2 // Configuration or runtime error
)

// ValidationFailureError indicates the command ran, but the input payload
// was rejected at the validation boundary.
type ValidationFailureError struct {
	Message string
}

func (e *ValidationFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var validationErr *ValidationFailureError
		if errors.As(err, &validationErr) {
			os.Exit(ExitValidationFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
