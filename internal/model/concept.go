package model

import (
	"strings"
	"time"
)

// Concept is a single vocabulary item: a word or phrase tagged with one
// or more semantic type labels ("dog" -> animal, pet). The vocabulary
// grows at scoring time from answers that multiple players agreed on.
type Concept struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	ConceptTypes []string  `json:"conceptTypes" bson:"conceptTypes"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// NormalizeConceptName trims and lowercases a name before storage.
func NormalizeConceptName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AddConceptType appends a normalized type label. The label set stays
// free of duplicates; re-adding an existing label is a no-op.
func (c *Concept) AddConceptType(conceptType string) {
	cleaned := NormalizeConceptName(conceptType)
	if cleaned == "" {
		return
	}
	for _, t := range c.ConceptTypes {
		if t == cleaned {
			return
		}
	}
	c.ConceptTypes = append(c.ConceptTypes, cleaned)
}

// HasType reports whether the concept carries the given type label.
func (c *Concept) HasType(conceptType string) bool {
	cleaned := NormalizeConceptName(conceptType)
	for _, t := range c.ConceptTypes {
		if t == cleaned {
			return true
		}
	}
	return false
}
