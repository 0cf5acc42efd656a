package ir

import "github.com/weft-analysis/weft/utils"

// Site identifies the originating program location of a value or memory
// object. The same site may define entities many times along a path (loops,
// re-entered calls); versioning disambiguates those, not the site itself.
type Site interface {
	Hash() uint32
	Equal(Site) bool
	// Name is a short identifier for rendering, e.g. an SSA register name.
	Name() string
	// Pos is the source position, or "" when unknown.
	Pos() string
}

// SiteHasher makes sites usable as hashed-container keys.
type SiteHasher struct{}

func (SiteHasher) Hash(s Site) uint32   { return s.Hash() }
func (SiteHasher) Equal(a, b Site) bool { return a.Equal(b) }

// StringSite is a site identified by name alone. The trace frontend and
// tests use it; SSA-backed frontends carry their own implementation.
type StringSite struct {
	name string
	pos  string
}

func NewSite(name string) StringSite {
	return StringSite{name: name}
}

func NewSiteAt(name, pos string) StringSite {
	return StringSite{name: name, pos: pos}
}

func (s StringSite) Hash() uint32 {
	return utils.HashString(s.name)
}

func (s StringSite) Equal(o Site) bool {
	os, ok := o.(StringSite)
	return ok && s.name == os.name
}

func (s StringSite) Name() string { return s.name }

func (s StringSite) Pos() string { return s.pos }

func (s StringSite) String() string { return s.name }
