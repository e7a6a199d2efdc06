// Package domain defines the core business types for the DMAIC measure agent.
//
// Types in this package are value objects shared by handlers, services, and
// repositories. They carry JSON/DB tags and pure helpers only.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - Constants and enums belong here
package domain
