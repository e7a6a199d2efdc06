package measure

import "errors"

// Sentinel errors for the measure service layer.
var (
	ErrInvalidRequest = errors.New("invalid measure request")
)
