// Package ports defines the interfaces that connect the application layer to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [IPResolver]: resolves the public IP address
//   - [GeoResolver]: resolves geolocation attributes for an IP
//   - [DeviceSource]: reads device attributes from the environment
//   - [HintProvider]: optional capability of a DeviceSource exposing
//     high-entropy platform details
//   - [ReportSender]: delivers the composed report to the webhook
//   - [Logger]: structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them.
package ports
