// Package server provides HTTP routing, middleware and the tool endpoints of the wrapped service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
// [Recover] and [Logging] are the stock middleware; logging uses charmbracelet/log with the level chosen by status.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Tools
//
// [ToolsHandler] exposes the two wrapped operations:
//
//	GET  /tools                          tool catalog with JSON schemas (invopop/jsonschema)
//	POST /tools/wrapped_summary          {"time_range"?}
//	POST /tools/create_wrapped_playlist  {"time_range"?, "public"?}
//
// Missing arguments default to short_term and false. Errors are returned as {"error": "..."}; [StatusFor]
// maps validation failures to 400, provider failures to 502 and everything else to 500.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
// The fixtures package's handler is mounted the same way.
package server
