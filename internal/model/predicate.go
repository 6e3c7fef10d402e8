package model

import (
	"fmt"
	"strings"
)

// PredicateRecord is one row of the predicate ledger: how often a
// (predicate, typed argument list) combination has been observed in
// scored answers. Identity is the full tuple; frequency only grows.
type PredicateRecord struct {
	ID            string   `json:"id" bson:"_id,omitempty"`
	Predicate     string   `json:"predicate" bson:"predicate"`
	Arguments     []string `json:"arguments" bson:"arguments"`
	ArgumentTypes []string `json:"argumentTypes" bson:"argumentTypes"`
	Frequency     int      `json:"frequency" bson:"frequency"`
}

// FancyForm renders the record as a typed predicate string,
// e.g. eats(dog:animal, bone:food).
func (p *PredicateRecord) FancyForm() string {
	pairs := make([]string, 0, len(p.Arguments))
	for i, arg := range p.Arguments {
		argType := ""
		if i < len(p.ArgumentTypes) {
			argType = p.ArgumentTypes[i]
		}
		pairs = append(pairs, fmt.Sprintf("%s:%s", arg, argType))
	}
	return fmt.Sprintf("%s(%s)", p.Predicate, strings.Join(pairs, ", "))
}
