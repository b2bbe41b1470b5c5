package pins

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrEntitlementDenied    = errors.New("no remaining pin generations")
	ErrFetch                = errors.New("could not fetch source url")
	ErrGenerationFailed     = errors.New("no pins could be generated")
	ErrRender               = errors.New("image render failed")
	ErrStorage              = errors.New("image storage failed")
	ErrGenerationInProgress = errors.New("a generation is already running for this user")
	ErrNotFound             = errors.New("not found")
)
