// Package access models which documents a caller may read: the requested
// public/private mode and the resolved workspace scope.
package access

import (
	"slices"

	"github.com/kailas-cloud/searchapi/internal/domain"
)

// Mode selects public data, private data, or both.
type Mode int

const (
	// Both reads public documents and private documents the caller can read.
	Both Mode = iota
	// PublicOnly reads public documents only.
	PublicOnly
	// PrivateOnly reads documents in the caller's readable workspaces that are not public.
	PrivateOnly
)

func (m Mode) String() string {
	switch m {
	case PublicOnly:
		return "public"
	case PrivateOnly:
		return "private"
	default:
		return "both"
	}
}

// FromWith derives the mode from the tri-state with_private/with_public pair.
// Unset values mean "no preference"; both explicitly false is an input error.
func FromWith(withPrivate, withPublic *bool) (Mode, error) {
	if withPrivate == nil && withPublic == nil {
		return Both, nil
	}
	private := withPrivate != nil && *withPrivate
	public := withPublic != nil && *withPublic
	switch {
	case private && public:
		return Both, nil
	case private:
		return PrivateOnly, nil
	case public:
		return PublicOnly, nil
	default:
		return Both, domain.InvalidParams("May not specify no private data and no public data")
	}
}

// FromOnly derives the mode from the only_public/only_private pair.
// Setting both asks for no data at all, which is an input error.
func FromOnly(onlyPublic, onlyPrivate bool) (Mode, error) {
	switch {
	case onlyPublic && onlyPrivate:
		return Both, domain.InvalidParams("May not specify no private data and no public data")
	case onlyPublic:
		return PublicOnly, nil
	case onlyPrivate:
		return PrivateOnly, nil
	default:
		return Both, nil
	}
}

// Scope is the resolved set of readable workspace IDs plus the filter shape.
// It is computed once per request.
type Scope struct {
	ids         []int64
	onlyPublic  bool
	onlyPrivate bool
}

// NewScope creates a scope for an authenticated caller.
func NewScope(ids []int64, mode Mode) Scope {
	return Scope{
		ids:         slices.Clone(ids),
		onlyPublic:  mode == PublicOnly,
		onlyPrivate: mode == PrivateOnly,
	}
}

// Anonymous returns the scope of a caller without a credential: public data only.
func Anonymous() Scope {
	return Scope{onlyPublic: true}
}

// IDs returns the readable workspace IDs.
func (s Scope) IDs() []int64 { return s.ids }

// OnlyPublic reports whether the filter is restricted to public documents.
func (s Scope) OnlyPublic() bool { return s.onlyPublic }

// OnlyPrivate reports whether the filter is restricted to non-public documents.
func (s Scope) OnlyPrivate() bool { return s.onlyPrivate }

// Mode returns the filter shape of the scope.
func (s Scope) Mode() Mode {
	switch {
	case s.onlyPublic:
		return PublicOnly
	case s.onlyPrivate:
		return PrivateOnly
	default:
		return Both
	}
}
