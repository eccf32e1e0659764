// Package providers holds the built-in API endpoints and registers them with
// a registry. Each subpackage adapts one remote service.
package providers
