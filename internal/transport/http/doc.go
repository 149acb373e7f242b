// Package http exposes a built dataset over a read-only JSON API.
//
// The pipeline runs once per source refresh, not per request: the server
// builds the dataset at startup and every endpoint reads the same immutable
// snapshot from a Store. Endpoints:
//
//	GET /healthz                liveness and dataset presence
//	GET /metrics                Prometheus metrics
//	GET /api/dataset            the full dataset
//	GET /api/batters/{id}       one batter record
//	GET /api/leaders            top batters by a sortable column
//	GET /api/references         league reference values for the run
//	GET /api/audit              data-quality counters for the run
package http
