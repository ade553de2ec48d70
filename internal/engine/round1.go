package engine

import "github.com/DoyleJ11/quiz-contest-backend/internal/bank"

func teamBlocked(s State, team int) bool {
	return s.Teams[team].R1Answered >= s.Rules.Round1PerTeam
}

// round1Done is true once every team has used all its draws or the board is empty.
func round1Done(s State, b *bank.Bank) bool {
	if s.UsedR1.Len() >= len(b.Round1) {
		return true
	}
	for i := range s.Teams {
		if !teamBlocked(s, i) {
			return false
		}
	}
	return true
}

func round1Remaining(s State, b *bank.Bank) int {
	n := 0
	for _, q := range b.Round1 {
		if !s.UsedR1.Has(q.ID) {
			n++
		}
	}
	return n
}

// selectTeam changes the acting team in the board and hints rounds. It is
// refused while a question is open so the open question is always credited to
// the team that drew it.
func selectTeam(s *State, team int) ([]Event, error) {
	if !validTeam(team) {
		return nil, ErrInvalidTeam
	}
	switch s.Phase {
	case PhaseRound1:
		st, _ := s.Round1()
		if st.Selected != 0 {
			return nil, ErrQuestionOpen
		}
	case PhaseRound2:
		st, _ := s.Round2()
		if st.Selected != 0 {
			return nil, ErrQuestionOpen
		}
	default:
		return nil, ErrWrongPhase
	}
	s.ActiveTeam = team
	return []Event{{Type: EvtTeamSelected, TeamID: s.Teams[team].ID}}, nil
}

func pickQuestion(s *State, b *bank.Bank, id int) ([]Event, error) {
	st, ok := s.Round1()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Selected != 0 {
		return nil, ErrQuestionOpen
	}
	if st.WheelOpen {
		return nil, ErrWheelOpen
	}
	if teamBlocked(*s, s.ActiveTeam) {
		return nil, ErrTeamBlocked
	}
	if _, ok := b.Round1Question(id); !ok {
		return nil, ErrInvalidQuestion
	}
	if s.UsedR1.Has(id) {
		return nil, ErrQuestionUsed
	}

	st.Selected = id
	st.ShowingAnswer = false
	s.Stage = st
	return []Event{{Type: EvtQuestionOpened, TeamID: s.Teams[s.ActiveTeam].ID, QuestionID: id}}, nil
}

func openWheel(s *State, b *bank.Bank) ([]Event, error) {
	st, ok := s.Round1()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Selected != 0 {
		return nil, ErrQuestionOpen
	}
	if st.WheelOpen {
		return nil, ErrWheelOpen
	}
	if teamBlocked(*s, s.ActiveTeam) {
		return nil, ErrTeamBlocked
	}
	if round1Remaining(*s, b) == 0 {
		return nil, ErrPoolExhausted
	}
	st.WheelOpen = true
	s.Stage = st
	return []Event{{Type: EvtWheelOpened}}, nil
}

func closeWheel(s *State) ([]Event, error) {
	st, ok := s.Round1()
	if !ok {
		return nil, ErrWrongPhase
	}
	if !st.WheelOpen {
		return nil, ErrWheelClosed
	}
	st.WheelOpen = false
	s.Stage = st
	return []Event{{Type: EvtWheelClosed}}, nil
}

// spinWheel lands on a uniformly random unused board question. The landing is
// always recorded, but the question only opens if the acting team can still
// draw at the moment the wheel stops.
func (e *Engine) spinWheel(s *State, b *bank.Bank) ([]Event, error) {
	st, ok := s.Round1()
	if !ok {
		return nil, ErrWrongPhase
	}
	if !st.WheelOpen {
		return nil, ErrWheelClosed
	}
	id, ok := e.draw(b.Round1IDs(), s.UsedR1)
	if !ok {
		return nil, ErrPoolExhausted
	}

	st.WheelOpen = false
	st.LastSpin = id
	events := []Event{{Type: EvtWheelSpun, QuestionID: id}}
	if !teamBlocked(*s, s.ActiveTeam) {
		st.Selected = id
		st.ShowingAnswer = false
		events = append(events, Event{Type: EvtQuestionOpened, TeamID: s.Teams[s.ActiveTeam].ID, QuestionID: id})
	}
	s.Stage = st
	return events, nil
}

func markRound1(s *State, correct bool) ([]Event, error) {
	st, _ := s.Round1()
	if st.Selected == 0 {
		return nil, ErrNothingSelected
	}
	if teamBlocked(*s, s.ActiveTeam) {
		return nil, ErrTeamBlocked
	}

	team := &s.Teams[s.ActiveTeam]
	points := 0
	if correct {
		points = s.Rules.PointsPerCorrect
	}
	s.UsedR1[st.Selected] = true
	team.R1Answered++
	team.Score += points

	event := Event{Type: EvtAnswerMarked, TeamID: team.ID, QuestionID: st.Selected, Correct: correct, Points: points}
	st.Selected = 0
	st.ShowingAnswer = false
	s.Stage = st
	return []Event{event}, nil
}
