package provision

import "fmt"

// ConfigurationError reports a missing credential or template. It is always
// fatal and never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("provision: configuration: %s", e.Reason)
}

// ValidationError reports a request that cannot be provisioned as submitted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("provision: invalid %s: %s", e.Field, e.Reason)
}
