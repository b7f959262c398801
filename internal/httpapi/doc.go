// Package httpapi serves the JSON API: read-only chart and report views plus
// a trigger that runs one reconciliation.
//
// Errors are rendered as {"error": "..."} with a status derived from
// apperr.HTTPStatus so the CLI and the API agree on how failures classify.
package httpapi
