// Package measure orchestrates a single DMAIC measure request.
//
// A request resolves the client's warehouse location, pulls actuals and
// active targets for the period, evaluates every requested metric and
// summarizes the result. Collaborators are reached through the interfaces in
// repository.go; the package never imports net/http or database/sql.
package measure
