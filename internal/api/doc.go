// Package api exposes the local REST surface for running the todo
// aggregation on demand, alongside health and metrics endpoints. It mirrors
// the behaviour of the serverless entrypoint without requiring a hosting
// runtime.
package api
