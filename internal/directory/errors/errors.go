package errors

import (
	"fmt"
)

var (
	ErrNotFound      = fmt.Errorf("not found")
	ErrDuplicateName = fmt.Errorf("duplicate name")
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrNotReady      = fmt.Errorf("store not ready")
	ErrUnavailable   = fmt.Errorf("persistence unavailable")
)
