package submit

import "errors"

// ErrUnsupportedScheduler is spec.md §7's UnsupportedScheduler taxonomy
// member: a user-facing submission-time misconfiguration, such as
// submitting a non-Job node or one that fails structural validation.
var ErrUnsupportedScheduler = errors.New("submit: unsupported scheduler configuration")
