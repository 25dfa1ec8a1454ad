package model

import (
	"errors"
	"fmt"
	"strings"
)

type Task struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	IsEditing bool   `json:"isEditing"`
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

// Matches reports whether t belongs to the subset selected by f.
// The zero Filter behaves like FilterAll.
func (f Filter) Matches(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return true
	}
}

func (f Filter) Label() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterPending:
		return "Pending"
	default:
		return "All"
	}
}

// Next cycles All -> Completed -> Pending -> All.
func (f Filter) Next() Filter {
	for i, x := range Filters {
		if x == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

var ErrUnknownFilter = errors.New("unknown filter")

func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "pending", "todo":
		return FilterPending, nil
	default:
		return "", fmt.Errorf("%w: %q (want all|completed|pending)", ErrUnknownFilter, s)
	}
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeOf maps the persisted theme value to the dark flag. Anything other than
// "dark" is light.
func ThemeOf(v string) bool {
	return v == string(ThemeDark)
}

func ThemeValue(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
