package access

import "errors"

// Error taxonomy of the resolution engine. Every class denies by
// default; ErrStoreUnavailable is the only one a caller may retry.
var (
	ErrInvalidArgument  = errors.New("access: invalid argument")
	ErrModuleNotFound   = errors.New("access: module not found")
	ErrNoAccessMatrix   = errors.New("access: no access matrix")
	ErrForbidden        = errors.New("access: forbidden")
	ErrDuplicateKey     = errors.New("access: duplicate key")
	ErrRestoreConflict  = errors.New("access: restore conflict")
	ErrStoreUnavailable = errors.New("access: store unavailable")
)
