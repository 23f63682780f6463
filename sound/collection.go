package sound

import (
	"fmt"
	"strings"
	"time"
)

// reservedCollectionKeys are the fixed Collection field names custom entries
// may not shadow.
var reservedCollectionKeys = map[string]struct{}{
	"name":        {},
	"description": {},
}

// Collection is a named, user-defined grouping of sounds, many-to-many.
// Deleting a collection removes its memberships but never the member sounds.
type Collection struct {
	ID          string
	Name        string
	Description string
	Custom      map[string]string
	CreatedAt   time.Time
}

// NewCollection builds a collection with a fresh id. Callers validate before
// persisting.
func NewCollection(name, description string) Collection {
	return Collection{
		ID:          NewID(),
		Name:        name,
		Description: description,
	}
}

// Validate enforces the non-empty-name rule and the reserved-key rule for
// collection custom metadata.
func (c Collection) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return Wrap(ErrMetadataInvalid, "validate collection", "id must not be empty", nil)
	}
	if strings.TrimSpace(c.Name) == "" {
		return Wrap(ErrMetadataInvalid, "validate collection", "name must not be empty", nil)
	}
	for key := range c.Custom {
		if _, reserved := reservedCollectionKeys[NormalizeTag(key)]; reserved {
			return Wrap(ErrMetadataInvalid, "validate collection", fmt.Sprintf("custom key %q shadows a reserved field", key), nil)
		}
	}
	return nil
}

// Clone returns a deep copy safe to mutate independently.
func (c Collection) Clone() Collection {
	out := c
	if c.Custom != nil {
		out.Custom = make(map[string]string, len(c.Custom))
		for key, value := range c.Custom {
			out.Custom[key] = value
		}
	}
	return out
}
