package searchapi

import "github.com/kailas-cloud/searchapi/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidParameters  = domain.ErrInvalidParameters
	ErrUnknownType        = domain.ErrUnknownType
	ErrAuth               = domain.ErrAuth
	ErrUnknownIndex       = domain.ErrUnknownIndex
	ErrSearchEngine       = domain.ErrSearchEngine
	ErrNoAccessGroup      = domain.ErrNoAccessGroup
	ErrUserProfileService = domain.ErrUserProfileService
	ErrNoUserProfile      = domain.ErrNoUserProfile
)
