package engine

import (
	"strings"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
)

func startSetup(s *State) ([]Event, error) {
	return transition(s, PhaseSetup)
}

// goToLanding resets nothing. The open round payload is parked until that
// round is entered again.
func goToLanding(s *State) ([]Event, error) {
	return transition(s, PhaseLanding)
}

func setLocale(s *State, locale bank.Locale) ([]Event, error) {
	if s.Phase != PhaseLanding && s.Phase != PhaseSetup {
		return nil, ErrWrongPhase
	}
	if !locale.Valid() {
		return nil, ErrInvalidLocale
	}
	s.Locale = locale
	return []Event{{Type: EvtLocaleChanged}}, nil
}

func renameTeam(s *State, team int, name string) ([]Event, error) {
	if s.Phase != PhaseSetup {
		return nil, ErrWrongPhase
	}
	if !validTeam(team) {
		return nil, ErrInvalidTeam
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidName
	}
	s.Teams[team].Name = name
	return []Event{{Type: EvtTeamRenamed, TeamID: s.Teams[team].ID}}, nil
}

func startRound1(s *State) ([]Event, error) {
	return transition(s, PhaseRound1)
}

func startRound2(s *State, b *bank.Bank) ([]Event, error) {
	if s.Phase != PhaseRound1 {
		return nil, ErrWrongPhase
	}
	if !round1Done(*s, b) {
		return nil, ErrNotReady
	}
	return transition(s, PhaseRound2)
}

// goToFinal locks the top two when the ranking is unambiguous and otherwise
// hands the choice to the host through the tiebreak phase. Qualifiers that
// were locked earlier in this contest stay locked.
func goToFinal(s *State, b *bank.Bank) ([]Event, error) {
	if s.Phase != PhaseRound2 {
		return nil, ErrWrongPhase
	}
	if !round2Done(*s, b) {
		return nil, ErrNotReady
	}
	if len(s.Qualified) == 2 {
		return transition(s, PhaseFinal)
	}
	if HasTieForFinal(s.Teams) {
		return transition(s, PhaseTiebreak)
	}

	s.Qualified = TopTwo(s.Teams)
	events := []Event{{Type: EvtQualified, TeamID: s.Qualified[0]}, {Type: EvtQualified, TeamID: s.Qualified[1]}}
	phaseEvents, err := transition(s, PhaseFinal)
	if err != nil {
		return nil, err
	}
	return append(events, phaseEvents...), nil
}

func toggleElimination(s *State, teamID string) ([]Event, error) {
	st, ok := s.Tiebreak()
	if !ok {
		return nil, ErrWrongPhase
	}
	if _, ok := s.TeamIndex(teamID); !ok {
		return nil, ErrInvalidTeam
	}
	if st.Eliminated == teamID {
		st.Eliminated = ""
	} else {
		st.Eliminated = teamID
	}
	s.Stage = st
	return []Event{{Type: EvtEliminationMarked, TeamID: st.Eliminated}}, nil
}

// confirmTiebreak qualifies the two teams the host did not eliminate, in
// registry order.
func confirmTiebreak(s *State) ([]Event, error) {
	st, ok := s.Tiebreak()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Eliminated == "" {
		return nil, ErrNoElimination
	}

	qualified := make([]string, 0, 2)
	for _, t := range s.Teams {
		if t.ID != st.Eliminated {
			qualified = append(qualified, t.ID)
		}
	}
	s.Qualified = qualified

	events := []Event{{Type: EvtQualified, TeamID: qualified[0]}, {Type: EvtQualified, TeamID: qualified[1]}}
	return append(events, enter(s, PhaseFinal)...), nil
}

func endFinal(s *State) ([]Event, error) {
	return transition(s, PhaseDone)
}

func newContest(s *State) ([]Event, error) {
	if s.Phase != PhaseDone {
		return nil, ErrWrongPhase
	}
	return resetContest(s)
}

// resetContest zeroes scores, counters, used sets, selection and the final,
// keeps team ids and names, and returns to setup from any phase.
func resetContest(s *State) ([]Event, error) {
	events := []Event{{Type: EvtContestReset}}
	if s.Running() {
		events = append(events, Event{Type: EvtTimerStopped, Reason: StopLeftFinal})
	}

	for i := range s.Teams {
		s.Teams[i].Score = 0
		s.Teams[i].R1Answered = 0
		s.Teams[i].R2Answered = 0
	}
	s.ActiveTeam = 0
	s.UsedR1 = UsedSet{}
	s.UsedR2 = UsedSet{}
	s.Qualified = nil
	s.Phase = PhaseSetup
	s.Stage = nil
	s.Paused = nil
	return append(events, Event{Type: EvtPhaseChanged, Phase: PhaseSetup}), nil
}
