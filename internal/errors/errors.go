package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the cryptographic operation taxonomy. Callers branch
// on these with errors.Is; the concrete cause travels alongside in the
// wrapped chain.
var (
	// ErrAllocation indicates a zero-sized or unsatisfiable secure buffer request
	ErrAllocation = errors.New("secure memory allocation failed")

	// ErrEncoding indicates malformed transcoded input (e.g. bad Base64)
	ErrEncoding = errors.New("malformed encoded input")

	// ErrEntropy indicates an unhealthy or exhausted randomness source
	ErrEntropy = errors.New("entropy source unavailable")

	// ErrSecurity indicates the security-level invariant is no longer maintained
	ErrSecurity = errors.New("security level not maintained")

	// ErrKeyGeneration indicates the algorithm provider failed to produce a key pair
	ErrKeyGeneration = errors.New("key generation failed")

	// ErrSigning indicates the algorithm provider failed to produce a signature
	ErrSigning = errors.New("signing failed")

	// ErrVerification indicates verification could not be performed at all.
	// A signature that is merely invalid is reported as a boolean result,
	// never as this error.
	ErrVerification = errors.New("verification could not be performed")

	// ErrEncapsulation indicates the KEM provider failed to encapsulate
	ErrEncapsulation = errors.New("encapsulation failed")

	// ErrDecapsulation indicates the KEM provider failed to decapsulate
	ErrDecapsulation = errors.New("decapsulation failed")
)

// OperationError ties a failure to the engine operation that produced it.
// It unwraps to both the taxonomy sentinel and the underlying cause so that
// errors.Is matches either.
type OperationError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OperationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Kind)
}

func (e *OperationError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Wrap builds an OperationError. A nil cause records only the kind.
func Wrap(op string, kind, cause error) error {
	return &OperationError{Op: op, Kind: kind, Err: cause}
}

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Details != "" {
		msg += "\n  Details: " + e.Details
	}
	if e.Suggestion != "" {
		msg += "\n  💡 Try: " + e.Suggestion
	}
	return msg
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in field '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}
