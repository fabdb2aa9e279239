package normalize

import "errors"

// ErrMalformedResponse signals an upstream payload missing a required part of
// its envelope. Deep-index lookups translate into this error instead of
// failing the process.
var ErrMalformedResponse = errors.New("malformed upstream response")
