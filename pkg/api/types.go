package api

// Profile is the display identity of an authenticated user.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

// Credentials is the normalized pair of tokens issued by the API: a
// short-lived access token authorizing calls and a longer-lived renewal
// token used solely to obtain a fresh access token.
type Credentials struct {
	Access  string `json:"access"`
	Renewal string `json:"renewal"`
}

// IsZero reports whether both tokens are absent.
func (c Credentials) IsZero() bool {
	return c.Access == "" && c.Renewal == ""
}

// RegisterDetails is the payload for account creation.
type RegisterDetails struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePatch updates a subset of profile fields. Nil fields are left
// untouched server-side.
type ProfilePatch struct {
	DisplayName *string `json:"display_name,omitempty"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	Bio         *string `json:"bio,omitempty"`
}

// RelationKind identifies a toggleable social-graph relation.
type RelationKind string

const (
	RelationFollow   RelationKind = "follow"
	RelationLike     RelationKind = "like"
	RelationBookmark RelationKind = "bookmark"
)

// Direction says whether a relation toggle applies or removes the relation.
type Direction string

const (
	DirectionApply  Direction = "apply"
	DirectionRemove Direction = "remove"
)

// RelationResult carries the optional authoritative fields a relation toggle
// response may include. A nil Counter means the server sent none and the
// client keeps its optimistic value.
type RelationResult struct {
	Message string `json:"message,omitempty"`
	Counter *int64 `json:"counter,omitempty"`
}
