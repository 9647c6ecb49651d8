// Package engine implements the business-model elicitation engine: a pure,
// schema-driven state machine over advisor.internal/model types. It parses
// topic outlines, extracts signals from free-text answers, accumulates typed
// evidence, derives per-topic completion, composes short narratives and builds
// a deterministic cash-flow projection. The engine performs no I/O and never
// mutates its inputs; every transform returns a new ModelState.
package engine

import (
	"regexp"
	"strings"

	"advisor/internal/model"
)

const (
	topicIDMaxLen    = 60
	questionIDMaxLen = 64
)

var (
	reqMarkerRe = regexp.MustCompile(`(?i)\(req\)`)
	nonWordRe   = regexp.MustCompile(`[^a-z0-9_\s]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseTopicsFromPrompt parses a topic/question outline into topics.
//
// Grammar: a line "## <name>" starts a topic, a line "- <text>" adds a key
// question to the current topic, and a "(req)" marker anywhere in the question
// text marks it required (the marker is stripped from the stored text).
// Parsing is lenient: malformed lines are ignored and topics that end up with
// zero questions are dropped. Duplicate ids from slugification are not
// detected; two headings that slugify identically will collide.
func ParseTopicsFromPrompt(outline string) []model.Topic {
	var topics []model.Topic
	var current *model.Topic

	for _, line := range strings.Split(outline, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "## "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			if name == "" {
				current = nil
				continue
			}
			topics = append(topics, model.Topic{
				ID:   slugify(name, topicIDMaxLen),
				Name: name,
			})
			current = &topics[len(topics)-1]

		case strings.HasPrefix(line, "- "):
			if current == nil {
				continue
			}
			text := strings.TrimSpace(strings.TrimPrefix(line, "- "))
			required := reqMarkerRe.MatchString(text)
			text = strings.TrimSpace(whitespaceRe.ReplaceAllString(reqMarkerRe.ReplaceAllString(text, ""), " "))
			if text == "" {
				continue
			}
			current.KeyQuestions = append(current.KeyQuestions, model.KeyQuestion{
				ID:       slugify(text, questionIDMaxLen),
				Text:     text,
				Required: required,
			})
		}
	}

	// Drop empty topics
	out := topics[:0]
	for _, t := range topics {
		if len(t.KeyQuestions) > 0 {
			out = append(out, t)
		}
	}
	return out
}

// slugify lower-cases, strips non-word characters, collapses whitespace to
// underscores and truncates to max bytes.
func slugify(s string, max int) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonWordRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), "_")
	if len(s) > max {
		s = s[:max]
	}
	return s
}

// NewState builds the initial state for a parsed outline. The first topic is
// active; derived fields are computed immediately.
func NewState(topics []model.Topic) model.ModelState {
	state := model.ModelState{
		Topics:       topics,
		CrossSignals: map[string]model.CrossSignal{},
	}
	if len(topics) > 0 {
		state.ActiveTopicID = topics[0].ID
	}
	return RecomputeAll(state)
}
