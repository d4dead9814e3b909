package ai

import "fmt"

// RemoteServiceError reports a failure of the underlying generation call itself
// (network, auth, quota, malformed request). It wraps the provider error.
type RemoteServiceError struct {
	Op  string
	Err error
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("%s: remote service: %v", e.Op, e.Err)
}

func (e *RemoteServiceError) Unwrap() error { return e.Err }

// GenerationParseError means the service answered but the payload did not
// decode into the expected structure.
type GenerationParseError struct {
	Raw string
	Err error
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("could not parse AI response: %v", e.Err)
}

func (e *GenerationParseError) Unwrap() error { return e.Err }

func remoteErr(op string, err error) error {
	return &RemoteServiceError{Op: op, Err: err}
}
