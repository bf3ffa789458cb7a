package stats

import (
	"strings"

	"basket-stats-mcp/internal/model"
)

// Action is the substitution meaning of a movement-log entry.
type Action int

const (
	ActionOther Action = iota
	ActionEnter
	ActionExit
)

func (a Action) String() string {
	switch a {
	case ActionEnter:
		return "enter"
	case ActionExit:
		return "exit"
	default:
		return "other"
	}
}

// Vocabulary holds the lowercase substrings that mark an entry as a player
// entering or leaving the court. Enter terms win when both match.
type Vocabulary struct {
	Enter []string
	Exit  []string
}

// DefaultVocabulary matches the federation's Catalan scorer sheets
// ("Entra a pista", "Surt de pista").
var DefaultVocabulary = Vocabulary{
	Enter: []string{"entra"},
	Exit:  []string{"surt"},
}

// With returns a copy of v extended with extra terms.
func (v Vocabulary) With(enter, exit []string) Vocabulary {
	out := Vocabulary{
		Enter: append([]string(nil), v.Enter...),
		Exit:  append([]string(nil), v.Exit...),
	}
	for _, t := range enter {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out.Enter = append(out.Enter, t)
		}
	}
	for _, t := range exit {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out.Exit = append(out.Exit, t)
		}
	}
	return out
}

func (v Vocabulary) empty() bool {
	return len(v.Enter) == 0 && len(v.Exit) == 0
}

// Classify tags an event from its description, or from its type when the
// description is blank.
func (v Vocabulary) Classify(ev model.SubstitutionEvent) Action {
	text := ev.Description
	if text == "" {
		text = ev.Type
	}
	text = strings.ToLower(text)
	if text == "" {
		return ActionOther
	}
	for _, term := range v.Enter {
		if term != "" && strings.Contains(text, term) {
			return ActionEnter
		}
	}
	for _, term := range v.Exit {
		if term != "" && strings.Contains(text, term) {
			return ActionExit
		}
	}
	return ActionOther
}
