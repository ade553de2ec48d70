package engine

import (
	"fmt"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
)

// NewState returns a contest on the landing screen with default team names.
func NewState(rules Rules) State {
	s := State{
		Phase:  PhaseLanding,
		Locale: bank.LocaleEnglish,
		Rules:  rules,
		UsedR1: UsedSet{},
		UsedR2: UsedSet{},
	}
	for i := range s.Teams {
		s.Teams[i] = Team{ID: TeamID(i), Name: DefaultTeamName(i)}
	}
	return s
}

func NewEmptyState() State {
	return NewState(DefaultRules())
}

func TeamID(i int) string          { return fmt.Sprintf("team-%d", i+1) }
func DefaultTeamName(i int) string { return fmt.Sprintf("Team %d", i+1) }

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func clampInt(n, lo, hi int) int {
	return max(lo, min(hi, n))
}

func validTeam(i int) bool { return i >= 0 && i < TeamCount }
