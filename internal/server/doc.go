// Package server exposes the recipe feed and fetch state as a small JSON API
// for `galley serve`.
//
// Routes:
//
//	GET  /healthz
//	GET  /api/state
//	GET  /api/recipes?cuisine=&q=
//	GET  /api/recipes/:id
//	GET  /api/recipes/:id/thumbnail
//	POST /api/refresh[?wait=true]
package server
