// Package evaluation classifies metric actuals against their targets and
// condenses the results into a score, an overall status and ranked insights.
//
// Everything here is pure: no I/O, no logging, no shared state. The request
// orchestrator in service/measure feeds it the two maps it needs.
package evaluation
