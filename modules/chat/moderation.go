package chat

import (
	goaway "github.com/TwiN/go-away"
)

// Moderator decides whether outbound text content is acceptable. The
// coordinator treats it as an opaque predicate; only text messages pass
// through it, location shares do not.
type Moderator interface {
	Allow(text string) bool
}

// ModeratorFunc adapts a plain function to the Moderator interface.
type ModeratorFunc func(text string) bool

// Allow calls f.
func (f ModeratorFunc) Allow(text string) bool { return f(text) }

// NewProfanityModerator returns the default moderator, backed by the go-away
// profanity detector.
func NewProfanityModerator() Moderator {
	detector := goaway.NewProfanityDetector()
	return ModeratorFunc(func(text string) bool {
		return !detector.IsProfane(text)
	})
}
