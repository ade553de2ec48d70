package engine

import "github.com/DoyleJ11/quiz-contest-backend/internal/bank"

const maxHintStep = 3

func round2Done(s State, b *bank.Bank) bool {
	return s.UsedR2.Len() >= len(b.Round2)
}

// startHintQuestion opens the first unused riddle assigned to team and makes
// it the acting team. A team with both riddles used is left alone.
func startHintQuestion(s *State, b *bank.Bank, team int) ([]Event, error) {
	st, ok := s.Round2()
	if !ok {
		return nil, ErrWrongPhase
	}
	if !validTeam(team) {
		return nil, ErrInvalidTeam
	}
	if st.Selected != 0 {
		return nil, ErrQuestionOpen
	}

	next := 0
	for _, id := range b.TeamHintQuestions(team) {
		if !s.UsedR2.Has(id) {
			next = id
			break
		}
	}
	if next == 0 {
		return nil, ErrTeamDone
	}

	s.ActiveTeam = team
	s.Stage = Round2Stage{Selected: next, Owner: team}
	return []Event{{Type: EvtQuestionOpened, TeamID: s.Teams[team].ID, QuestionID: next}}, nil
}

func nextHint(s *State) ([]Event, error) {
	st, ok := s.Round2()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Selected == 0 {
		return nil, ErrNothingSelected
	}
	if st.HintStep >= maxHintStep {
		return nil, ErrHintsExhausted
	}
	st.HintStep = clampInt(st.HintStep+1, 0, maxHintStep)
	s.Stage = st
	return []Event{{Type: EvtHintRevealed, QuestionID: st.Selected}}, nil
}

func markRound2(s *State, correct bool) ([]Event, error) {
	st, _ := s.Round2()
	if st.Selected == 0 {
		return nil, ErrNothingSelected
	}

	team := &s.Teams[st.Owner]
	points := 0
	if correct {
		points = s.Rules.PointsPerCorrect
	}
	s.UsedR2[st.Selected] = true
	team.R2Answered++
	team.Score += points

	event := Event{Type: EvtAnswerMarked, TeamID: team.ID, QuestionID: st.Selected, Correct: correct, Points: points}
	s.Stage = Round2Stage{}
	return []Event{event}, nil
}
