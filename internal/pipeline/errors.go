package pipeline

import "errors"

// ErrValidation indicates the request itself was malformed, most commonly a
// missing handle. It is one of the three fatal conditions; the others
// (githubapi.ErrUserNotFound, githubapi.ErrRateLimited) originate in the
// hosting collector and pass through Assemble unwrapped.
var ErrValidation = errors.New("invalid resume request")
