package catalog

// EntityStatus represents the lifecycle status of a catalog entity
type EntityStatus string

const (
	// StatusActive means the entity is in use
	StatusActive EntityStatus = "ACTIVE"
	// StatusInactive means the entity is temporarily out of use but may be reactivated
	StatusInactive EntityStatus = "INACTIVE"
	// StatusDeleted means the entity is soft-deleted and hidden from lookups
	StatusDeleted EntityStatus = "DELETED"
	// StatusDeprecated means the entity must not be attached to new data
	StatusDeprecated EntityStatus = "DEPRECATED"
)

// String returns the string representation of EntityStatus
func (s EntityStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value
func (s EntityStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted, StatusDeprecated:
		return true
	}
	return false
}

// IsVisible reports whether entities with this status appear in lookups.
// Soft-deleted entities are hidden everywhere.
func (s EntityStatus) IsVisible() bool {
	return s != StatusDeleted
}
