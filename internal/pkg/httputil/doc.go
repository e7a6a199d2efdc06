// Package httputil provides the JSON response and request helpers shared by
// all HTTP handlers, so every endpoint emits the same envelope and logs
// encoding failures the same way.
package httputil
