package content

// IsOwner reports whether the acting identity owns a resource. Every
// mutation checks resource existence first and ownership second, so a
// non-owner probing a nonexistent id learns nothing beyond "not found".
func IsOwner(actorID, resourceOwnerID string) bool {
	return actorID != "" && actorID == resourceOwnerID
}

// requireOwner converts a failed ownership check into the forbidden kind.
func requireOwner(actorID, resourceOwnerID string) error {
	if !IsOwner(actorID, resourceOwnerID) {
		return ErrForbidden
	}
	return nil
}
