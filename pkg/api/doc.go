// Package api provides the HTTP API of addon-check.
//
// # Overview
//
// The API exposes a loaded repository index and the dependency checks over
// HTTP. It is built on gorilla/mux; every response is JSON.
//
// # Endpoints
//
//	GET  /v1/branches                                  branches in release order with add-on counts
//	GET  /v1/branches/{branch}/addons/{id}             summary of a published add-on
//	GET  /v1/branches/{branch}/addons/{id}/dependents  reverse dependencies of an id
//	POST /v1/branches/{branch}/check                   check the addon.xml in the body
//	GET  /healthz                                      readiness, 503 until an index is loaded
//	GET  /metrics                                      Prometheus metrics
//
// The check endpoint accepts an optional min_severity query parameter that
// hides lower records from the response. The summary always counts every record.
//
// # Usage Example
//
//	server := api.NewServer(api.Options{
//		Index:   index,
//		Checker: dependencies.NewChecker(policy.Default(), log),
//		Metrics: metrics,
//		Logger:  log,
//	})
//	http.ListenAndServe(":8080", server)
//
// SetIndex swaps the served index atomically, so a repository reload never
// blocks in-flight requests.
package api
