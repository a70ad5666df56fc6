package routes

// Package routes wires the Gin HTTP surface for the forward-search
// service.
//
// Layout:
// - api.go: API routes (/v1/*), root health probes, and the
//   SetupAllRoutes entry point
// - web.go: informational routes (/, /docs)
