package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// argPattern matches the [TYPE] placeholders inside a template's question text.
var argPattern = regexp.MustCompile(`\[(.*?)\]`)

// QuestionTemplate is an ungrounded question: a text with [TYPE]
// placeholders plus the predicate it encodes and the concept type its
// answers belong to.
type QuestionTemplate struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	Question      string    `json:"question" bson:"question"`
	PredicateName string    `json:"predicateName" bson:"predicateName"`
	ArgumentTypes []string  `json:"argumentTypes" bson:"argumentTypes"`
	AnswerType    string    `json:"answerType" bson:"answerType"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// ExtractArgumentTypes returns the placeholder types in order of
// appearance in the question text. ArgumentTypes is derived from this
// exactly once, when the template is created.
func (t *QuestionTemplate) ExtractArgumentTypes() []string {
	var types []string
	for _, match := range argPattern.FindAllStringSubmatch(t.Question, -1) {
		types = append(types, match[1])
	}
	return types
}

// Arity returns the number of arguments of the encoded predicate.
func (t *QuestionTemplate) Arity() int {
	return len(t.ArgumentTypes)
}

// Validate reports any mismatch between the stored argument types and
// the placeholders actually present in the question text. An empty
// result means the template is well formed.
func (t *QuestionTemplate) Validate() []string {
	var problems []string
	for _, arg := range t.ArgumentTypes {
		placeholder := fmt.Sprintf("[%s]", arg)
		if !strings.Contains(t.Question, placeholder) {
			problems = append(problems, fmt.Sprintf("%s not in question", placeholder))
		}
	}
	return problems
}
