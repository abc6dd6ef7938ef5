// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go; the only third-party import is the OpenTelemetry
// API, which is a no-op until a tracer provider is registered.
package services
