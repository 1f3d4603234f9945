// Package domain contains the core entities of devicereport.
//
// This package is the innermost layer: it has no dependencies on HTTP, the
// host environment or logging, and everything in it can be tested without
// mocks.
//
// # Entities
//
//   - [DeviceProfile]: device attributes gathered from the environment
//   - [GeoReport]: the public IP and its open-ended geolocation attributes
//   - [Field] and [Payload]: the webhook message
//   - [StepResult] and [Outcome]: per-step results of one pipeline run
//
// Composing and filtering report fields ([ComposeFields], [FilterFields]) are
// pure functions.
package domain
