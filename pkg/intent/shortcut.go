// Package intent recognizes conversational openers and closers that are
// answered without touching the model or the datastore.
package intent

import "strings"

// Kind identifies a recognized shortcut.
type Kind int

const (
	KindNone Kind = iota
	KindGreeting
	KindFarewell
)

func (k Kind) String() string {
	switch k {
	case KindGreeting:
		return "greeting"
	case KindFarewell:
		return "farewell"
	default:
		return "none"
	}
}

// Match is the result of a successful shortcut lookup.
type Match struct {
	Kind Kind
	Term string // the normalized utterance that matched
}

var (
	DefaultGreetings = []string{"hi", "hello", "hey", "hola", "hii", "hiii", "greetings"}
	DefaultFarewells = []string{"ok", "bye", "goodbye", "thank you", "thanks", "see you"}
)

// Shortcut matches whole utterances against fixed phrase sets.
// Matching is exact after lowercasing and trimming: "hi there" is not a greeting.
type Shortcut struct {
	terms map[string]Kind
}

// NewShortcut builds a matcher. Greetings win if a phrase is in both sets.
func NewShortcut(greetings, farewells []string) *Shortcut {
	terms := make(map[string]Kind, len(greetings)+len(farewells))
	for _, f := range farewells {
		terms[normalize(f)] = KindFarewell
	}
	for _, g := range greetings {
		terms[normalize(g)] = KindGreeting
	}
	delete(terms, "")
	return &Shortcut{terms: terms}
}

// Default returns the matcher for the built-in English phrase sets.
func Default() *Shortcut {
	return NewShortcut(DefaultGreetings, DefaultFarewells)
}

// Match reports whether utterance is a greeting or farewell.
func (s *Shortcut) Match(utterance string) (Match, bool) {
	term := normalize(utterance)
	kind, ok := s.terms[term]
	if !ok {
		return Match{}, false
	}
	return Match{Kind: kind, Term: term}, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
