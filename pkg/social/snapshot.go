package social

import (
	"slices"

	"github.com/openvlog/vlogkit/pkg/api"
)

// Kind identifies a toggleable social-graph relation.
type Kind string

const (
	KindFollow   Kind = "follow"
	KindLike     Kind = "like"
	KindBookmark Kind = "bookmark"
)

// apiKind maps a Kind onto the transport-level relation kind.
func (k Kind) apiKind() (api.RelationKind, bool) {
	switch k {
	case KindFollow:
		return api.RelationFollow, true
	case KindLike:
		return api.RelationLike, true
	case KindBookmark:
		return api.RelationBookmark, true
	default:
		return "", false
	}
}

// Snapshot is the last-known server-derived state of one entity, as cached
// by the engine. Relation lists are only meaningful on the authenticated
// viewer's own snapshot ("ids I follow"); counters are meaningful on target
// snapshots.
type Snapshot struct {
	ID string

	// Relation lists held by the viewer.
	Following  []string
	Liked      []string
	Bookmarked []string

	// Counters held by targets.
	FollowerCount int64
	LikeCount     int64
	BookmarkCount int64
}

// relationList returns a pointer to the list backing kind.
func (s *Snapshot) relationList(kind Kind) *[]string {
	switch kind {
	case KindLike:
		return &s.Liked
	case KindBookmark:
		return &s.Bookmarked
	default:
		return &s.Following
	}
}

// counter returns a pointer to the counter backing kind.
func (s *Snapshot) counter(kind Kind) *int64 {
	switch kind {
	case KindLike:
		return &s.LikeCount
	case KindBookmark:
		return &s.BookmarkCount
	default:
		return &s.FollowerCount
	}
}

// Has reports whether the snapshot's relation list for kind contains id.
func (s *Snapshot) Has(kind Kind, id string) bool {
	return slices.Contains(*s.relationList(kind), id)
}

// toggleMembership adds or removes id from the relation list for kind.
func (s *Snapshot) toggleMembership(kind Kind, id string, member bool) {
	list := s.relationList(kind)
	if member {
		if !slices.Contains(*list, id) {
			*list = append(*list, id)
		}
		return
	}
	*list = slices.DeleteFunc(*list, func(v string) bool { return v == id })
}

// empty reports whether the snapshot carries no relations and no counters.
func (s Snapshot) empty() bool {
	return len(s.Following) == 0 && len(s.Liked) == 0 && len(s.Bookmarked) == 0 &&
		s.FollowerCount == 0 && s.LikeCount == 0 && s.BookmarkCount == 0
}

// clone returns a deep copy; relation lists do not share backing arrays with
// the original. Get and Prime depend on this.
func (s Snapshot) clone() Snapshot {
	out := s
	out.Following = slices.Clone(s.Following)
	out.Liked = slices.Clone(s.Liked)
	out.Bookmarked = slices.Clone(s.Bookmarked)
	return out
}
