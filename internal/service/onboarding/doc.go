// Package onboarding registers clients and their metric targets.
//
// It is the write side used by n8n flows and measurectl: a client row names
// the warehouse tables, and target rows give each metric a MIN, MAX or RANGE
// goal for a period. Writes are idempotent.
package onboarding
