// Package server provides the read-only JSON API that dashboards consume.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns internally.
//
// # Endpoints
//
//	GET /health                           liveness
//	GET /api/correlations?limit=N         best correlations overall
//	GET /api/correlations?track_id=ID     correlations of one track
//	GET /api/regions                      regional statistics, most viewed first
//	GET /api/regions/{code}               one region
//	GET /api/runs?limit=N                 pipeline runs, newest first
//	GET /api/stats                        record counts and the latest run
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface and register their own routes, which keeps
// route definitions within the implementation.
package server
