package model

import (
	"sort"
	"strings"
)

// Question is a grounding of a template: the text with every [TYPE]
// placeholder substituted by a sampled concept. Groundings are memoized,
// so there is at most one Question per (template, concept set) pair.
type Question struct {
	ID          string   `json:"id" bson:"_id,omitempty"`
	TemplateID  string   `json:"templateId" bson:"templateId"`
	Text        string   `json:"text" bson:"text"`
	ArgumentIDs []string `json:"argumentIds" bson:"argumentIds"`
	GroundKey   string   `json:"-" bson:"groundKey"`
	AnswerType  string   `json:"answerType" bson:"answerType"`
}

// GroundingKey builds the memoization key for a grounding. Concept ids
// are sorted so the key does not depend on placeholder order.
func GroundingKey(templateID string, argumentIDs []string) string {
	ids := append([]string(nil), argumentIDs...)
	sort.Strings(ids)
	return templateID + "|" + strings.Join(ids, ",")
}
