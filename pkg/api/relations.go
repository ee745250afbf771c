package api

import (
	"context"
	"fmt"
	"net/http"
)

// relationPath maps a relation kind to its endpoint template. Follow targets
// user resources; like and bookmark target video resources.
func relationPath(targetID string, kind RelationKind) (string, error) {
	switch kind {
	case RelationFollow:
		return fmt.Sprintf("/users/%s/follow", targetID), nil
	case RelationLike:
		return fmt.Sprintf("/videos/%s/like", targetID), nil
	case RelationBookmark:
		return fmt.Sprintf("/videos/%s/bookmark", targetID), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRelationKind, kind)
	}
}

// ToggleRelation applies or removes a social-graph relation on the target
// entity. Apply maps to POST, remove to DELETE. The result may carry an
// authoritative counter the caller can reconcile its cache with.
func (c *Client) ToggleRelation(ctx context.Context, targetID string, kind RelationKind, direction Direction) (RelationResult, error) {
	path, err := relationPath(targetID, kind)
	if err != nil {
		return RelationResult{}, err
	}

	method := http.MethodPost
	if direction == DirectionRemove {
		method = http.MethodDelete
	}

	var result RelationResult
	if err := c.do(ctx, method, path, nil, &result, ""); err != nil {
		return RelationResult{}, err
	}
	return result, nil
}
