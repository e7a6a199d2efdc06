package domain

import "errors"

// Sentinel errors shared across the service and repository layers.
var (
	ErrClientNotFound     = errors.New("client not found")
	ErrTablePrefixMissing = errors.New("client warehouse table_prefix missing")
)
