package credential

import "fmt"

// ConfigError reports an unusable credential configuration, such as an
// empty pool after all environment sources were merged.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "credential config: " + e.Reason
}

// SessionInitError reports a failed upstream handshake for one
// credential.
type SessionInitError struct {
	Name string
	Err  error
}

func (e *SessionInitError) Error() string {
	return fmt.Sprintf("init session for %s: %v", e.Name, e.Err)
}

func (e *SessionInitError) Unwrap() error { return e.Err }

// ExhaustedError reports that every credential in rotation was tried
// and none produced a working session. Cause carries the last
// underlying failure, if any attempt was made at all.
type ExhaustedError struct {
	Cause error
}

func (e *ExhaustedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("all cookies failed, last error: %v", e.Cause)
	}
	return "no available cookies in pool"
}

func (e *ExhaustedError) Unwrap() error { return e.Cause }
