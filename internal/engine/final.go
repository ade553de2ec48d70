package engine

import "github.com/DoyleJ11/quiz-contest-backend/internal/bank"

func switchTurn(s *State) ([]Event, error) {
	st, ok := s.Final()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Running {
		return nil, ErrTimerRunning
	}
	if len(s.Qualified) != 2 {
		return nil, ErrNoQualifiers
	}
	st.Turn = 1 - st.Turn
	s.Stage = st
	return []Event{{Type: EvtTurnSwitched, TeamID: s.Qualified[st.Turn]}}, nil
}

func selectTurn(s *State, turn int) ([]Event, error) {
	st, ok := s.Final()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Running {
		return nil, ErrTimerRunning
	}
	if len(s.Qualified) != 2 {
		return nil, ErrNoQualifiers
	}
	if turn != 0 && turn != 1 {
		return nil, ErrInvalidTeam
	}
	st.Turn = turn
	s.Stage = st
	return []Event{{Type: EvtTurnSwitched, TeamID: s.Qualified[turn]}}, nil
}

// startTurn resets the countdown and draws the first question. With the pool
// exhausted the countdown still starts and no question is shown; used ids
// are never recycled within a final.
func (e *Engine) startTurn(s *State, b *bank.Bank) ([]Event, error) {
	st, ok := s.Final()
	if !ok {
		return nil, ErrWrongPhase
	}
	if st.Running {
		return nil, ErrTimerRunning
	}
	team, ok := s.FinalTeam()
	if !ok {
		return nil, ErrNoQualifiers
	}

	st.SecondsLeft = s.Rules.FinalSeconds
	st.Asked = 0
	st.Running = true
	st.ShowingAnswer = false
	st.Current = 0
	events := []Event{{Type: EvtTurnStarted, TeamID: s.Teams[team].ID, SecondsLeft: st.SecondsLeft}}

	if id, ok := e.draw(b.Round3IDs(), st.Used); ok {
		st.Current = id
		st.Used[id] = true
		st.Asked = 1
		events = append(events, Event{Type: EvtQuestionDrawn, QuestionID: id})
	}
	events = append(events, stopAtCap(s, &st)...)
	s.Stage = st
	return events, nil
}

func (e *Engine) nextQuestion(s *State, b *bank.Bank) ([]Event, error) {
	st, ok := s.Final()
	if !ok {
		return nil, ErrWrongPhase
	}
	events, err := e.advance(s, &st, b)
	if err != nil {
		return nil, err
	}
	s.Stage = st
	return events, nil
}

// advance draws the next speed-round question into st.
func (e *Engine) advance(s *State, st *FinalStage, b *bank.Bank) ([]Event, error) {
	if !st.Running {
		return nil, ErrTimerStopped
	}
	if st.Asked >= s.Rules.FinalMaxQuestions {
		return nil, ErrCapReached
	}
	id, ok := e.draw(b.Round3IDs(), st.Used)
	if !ok {
		return nil, ErrPoolExhausted
	}

	st.Current = id
	st.Used[id] = true
	st.Asked++
	st.ShowingAnswer = false
	events := []Event{{Type: EvtQuestionDrawn, QuestionID: id}}
	return append(events, stopAtCap(s, st)...), nil
}

func stopAtCap(s *State, st *FinalStage) []Event {
	if !st.Running || st.Asked < s.Rules.FinalMaxQuestions {
		return nil
	}
	st.Running = false
	st.ShowingAnswer = false
	return []Event{{Type: EvtTimerStopped, Reason: StopCap, SecondsLeft: st.SecondsLeft}}
}

// markFinal credits a correct answer and moves straight on to the next
// question. A wrong answer changes nothing; the host advances by hand.
func (e *Engine) markFinal(s *State, b *bank.Bank, correct bool) ([]Event, error) {
	st, _ := s.Final()
	if !st.Running {
		return nil, ErrTimerStopped
	}
	team, ok := s.FinalTeam()
	if !ok {
		return nil, ErrNoQualifiers
	}

	if !correct {
		return []Event{{Type: EvtAnswerMarked, TeamID: s.Teams[team].ID, QuestionID: st.Current}}, nil
	}

	points := s.Rules.PointsPerCorrect
	s.Teams[team].Score += points
	events := []Event{{Type: EvtAnswerMarked, TeamID: s.Teams[team].ID, QuestionID: st.Current, Correct: true, Points: points}}

	// Cap or exhaustion only means no further question; the points stand.
	if more, err := e.advance(s, &st, b); err == nil {
		events = append(events, more...)
	}
	s.Stage = st
	return events, nil
}

func stopTimer(s *State) ([]Event, error) {
	st, ok := s.Final()
	if !ok {
		return nil, ErrWrongPhase
	}
	if !st.Running {
		return nil, ErrTimerStopped
	}
	st.Running = false
	st.ShowingAnswer = false
	s.Stage = st
	return []Event{{Type: EvtTimerStopped, Reason: StopManual, SecondsLeft: st.SecondsLeft}}, nil
}

// tick advances the countdown by one second. Reaching zero stops the turn;
// the last CueFromSecond seconds each emit a cue.
func tick(s *State) ([]Event, error) {
	st, ok := s.Final()
	if !ok {
		return nil, ErrWrongPhase
	}
	if !st.Running || st.SecondsLeft <= 0 {
		return nil, ErrTimerStopped
	}

	st.SecondsLeft = clampInt(st.SecondsLeft-1, 0, s.Rules.FinalSeconds)
	events := []Event{{Type: EvtTimerTicked, SecondsLeft: st.SecondsLeft}}
	if st.SecondsLeft == 0 {
		st.Running = false
		st.ShowingAnswer = false
		events = append(events, Event{Type: EvtTimerStopped, Reason: StopExpired})
	} else if st.SecondsLeft <= s.Rules.CueFromSecond {
		events = append(events, Event{Type: EvtCountdownCue, SecondsLeft: st.SecondsLeft})
	}
	s.Stage = st
	return events, nil
}
