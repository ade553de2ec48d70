package engine

import "github.com/DoyleJ11/quiz-contest-backend/internal/bank"

// revealAnswer shows the open question's answer without consuming it.
func revealAnswer(s *State) ([]Event, error) {
	switch s.Phase {
	case PhaseRound1:
		st, _ := s.Round1()
		if st.Selected == 0 {
			return nil, ErrNothingSelected
		}
		st.ShowingAnswer = true
		s.Stage = st
		return []Event{{Type: EvtAnswerRevealed, QuestionID: st.Selected}}, nil

	case PhaseRound2:
		st, _ := s.Round2()
		if st.Selected == 0 {
			return nil, ErrNothingSelected
		}
		st.ShowingAnswer = true
		s.Stage = st
		return []Event{{Type: EvtAnswerRevealed, QuestionID: st.Selected}}, nil

	case PhaseFinal:
		st, _ := s.Final()
		if !st.Running {
			return nil, ErrTimerStopped
		}
		if st.Current == 0 {
			return nil, ErrNothingSelected
		}
		st.ShowingAnswer = true
		s.Stage = st
		return []Event{{Type: EvtAnswerRevealed, QuestionID: st.Current}}, nil
	}
	return nil, ErrWrongPhase
}

// closeQuestion is "Back": the question goes back to the pool untouched.
func closeQuestion(s *State) ([]Event, error) {
	switch s.Phase {
	case PhaseRound1:
		st, _ := s.Round1()
		if st.Selected == 0 {
			return nil, ErrNothingSelected
		}
		id := st.Selected
		st.Selected = 0
		st.ShowingAnswer = false
		s.Stage = st
		return []Event{{Type: EvtQuestionClosed, QuestionID: id}}, nil

	case PhaseRound2:
		st, _ := s.Round2()
		if st.Selected == 0 {
			return nil, ErrNothingSelected
		}
		s.Stage = Round2Stage{}
		return []Event{{Type: EvtQuestionClosed, QuestionID: st.Selected}}, nil
	}
	return nil, ErrWrongPhase
}

func (e *Engine) markAnswer(s *State, b *bank.Bank, correct bool) ([]Event, error) {
	switch s.Phase {
	case PhaseRound1:
		return markRound1(s, correct)
	case PhaseRound2:
		return markRound2(s, correct)
	case PhaseFinal:
		return e.markFinal(s, b, correct)
	}
	return nil, ErrWrongPhase
}
