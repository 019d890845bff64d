package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Artifacts written
	ExitNoData  = 1 // No log files or no records for the study
	ExitError   = 2 // Configuration or runtime error
)

// NoDataError indicates that the pipeline ran, but there was nothing to
// analyze: no log file matched or no record belonged to the study.
type NoDataError struct {
	Err error
}

func (e *NoDataError) Error() string {
	return e.Err.Error()
}

func (e *NoDataError) Unwrap() error {
	return e.Err
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var noDataErr *NoDataError
		if errors.As(err, &noDataErr) {
			os.Exit(ExitNoData)
		}

		os.Exit(ExitError)
	}
}
