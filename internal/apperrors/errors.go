package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// For conversions this means no exchange rate is stored for the pair and
// the caller should trigger a rate refresh first.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUpstream indicates that the Riksbank API was unreachable or returned
// an empty or malformed payload. Callers may retry the whole refresh later;
// nothing inside the service retries automatically.
var ErrUpstream = errors.New("riksbank api error")
