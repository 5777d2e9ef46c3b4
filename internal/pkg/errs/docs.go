// Package errs provides the structured error types shared by the dispatch
// domain, its use cases and its adapters.
//
// The package includes:
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsInvalidError: a value failed validation (bad status name, bad
//     schedule, disallowed transition input)
//   - ValueIsOutOfRangeError: a numeric setting is outside its bounds
//   - ObjectNotFoundError: a job, alert or audit record does not exist
//
// Each type pairs a sentinel (ErrValueIsRequired, ...) with a struct carrying
// the details, constructors with and without a cause, and an Unwrap method
// returning the sentinel so callers classify with errors.Is.
package errs
