// Package prompts renders FVP questions and normalizes user answers.
package prompts

import "strings"

// Decision is a normalized answer to a prompt.
type Decision int

const (
	Unrecognized Decision = iota
	Affirmative
	Negative
	Quit
	List
	Help
)

func (d Decision) String() string {
	switch d {
	case Affirmative:
		return "affirmative"
	case Negative:
		return "negative"
	case Quit:
		return "quit"
	case List:
		return "list"
	case Help:
		return "help"
	default:
		return "unrecognized"
	}
}

// Kind identifies which question is being asked.
type Kind string

const (
	// KindCompare asks whether the candidate is preferred over the benchmark.
	KindCompare Kind = "compare"
	// KindDone asks whether the active task is finished.
	KindDone Kind = "done"
)

// Question is a single prompt posed by the evaluation loop.
type Question struct {
	Kind      Kind
	Candidate string
	Benchmark string
	Active    string
}

// CompareQuestion builds the "do you want to X more than Y" question.
func CompareQuestion(candidate, benchmark string) Question {
	return Question{Kind: KindCompare, Candidate: candidate, Benchmark: benchmark}
}

// DoneQuestion builds the "is X done" question.
func DoneQuestion(active string) Question {
	return Question{Kind: KindDone, Active: active}
}

var (
	affirmativeWords = []string{"y", "yes"}
	negativeWords    = []string{"n", "no"}
	quitWords        = []string{"q", "quit", "exit"}
	listWords        = []string{"l", "list", "ls"}
	helpWords        = []string{"h", "help", "?"}

	doneAffirmativeWords = []string{"d", "done"}
	doneNegativeWords    = []string{"not yet"}
)

// Normalize maps a raw response to a Decision for the given question kind.
// Matching is case-insensitive and ignores surrounding whitespace.
func Normalize(kind Kind, raw string) Decision {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Unrecognized
	}
	if kind == KindDone {
		switch {
		case contains(doneAffirmativeWords, s):
			return Affirmative
		case contains(doneNegativeWords, s):
			return Negative
		}
	}
	switch {
	case contains(affirmativeWords, s):
		return Affirmative
	case contains(negativeWords, s):
		return Negative
	case contains(quitWords, s):
		return Quit
	case contains(listWords, s):
		return List
	case contains(helpWords, s):
		return Help
	}
	return Unrecognized
}

func contains(words []string, s string) bool {
	for _, w := range words {
		if w == s {
			return true
		}
	}
	return false
}
