package service

import "errors"

var (
	// ErrNoConceptsOfType means grounding could not sample a concept
	// for a required type. Recoverable: the caller retries with a
	// different template.
	ErrNoConceptsOfType = errors.New("no concepts of required type")

	// ErrGroundingExhausted means round creation ran out of grounding
	// attempts. Fatal for that creation call.
	ErrGroundingExhausted = errors.New("grounding attempts exhausted")

	// ErrNoTemplates means the template collection is empty, so no
	// round can be created at all.
	ErrNoTemplates = errors.New("no question templates available")

	// ErrDuplicateUsername is returned on account creation conflicts.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrNotFound means a referenced record (concept, player, question)
	// is missing. Referential integrity is assumed, so this is fatal
	// for the operation that hit it.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned on failed logins.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken is returned for bad or expired session tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)
