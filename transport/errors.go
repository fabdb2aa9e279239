package transport

import "errors"

// ErrAuthentication signals the bearer credential could not be acquired
var ErrAuthentication = errors.New("failed to acquire upstream credential")

// ErrCredentialExpired signals the held credential was rejected mid-session
var ErrCredentialExpired = errors.New("upstream credential expired or rejected")

// ErrQueryRejected signals a non-retryable client-side error (malformed query
// or any 4xx besides the authorization ones)
var ErrQueryRejected = errors.New("upstream rejected the query")

// ErrRetriesExhausted signals a transient failure that persisted past the
// configured attempt bound
var ErrRetriesExhausted = errors.New("upstream call failed after all retry attempts")
