package onboarding

import "errors"

// Sentinel errors for the onboarding service layer.
var (
	ErrInvalidClient = errors.New("invalid client config")
	ErrInvalidTarget = errors.New("invalid target")
)
