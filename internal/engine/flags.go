package engine

// Flags are the gating booleans the presentation layer reads instead of
// deciding eligibility itself.
type Flags struct {
	R1TeamBlocked      bool
	R1Done             bool
	CanOpenWheel       bool
	CanStartRound2     bool
	R2Done             bool
	CanGoToFinal       bool
	TieForFinal        bool
	CanConfirmTiebreak bool
	CanSwitchTurn      bool
	CanStartTurn       bool
	CanNextQuestion    bool
	CanRevealAnswer    bool
	CanMarkAnswer      bool
	FinalCapReached    bool
}

func (e *Engine) Flags(s State) Flags {
	b := e.Bank(s)
	f := Flags{
		R1TeamBlocked: validTeam(s.ActiveTeam) && teamBlocked(s, s.ActiveTeam),
		R1Done:        round1Done(s, b),
		R2Done:        round2Done(s, b),
		TieForFinal:   HasTieForFinal(s.Teams),
	}

	switch s.Phase {
	case PhaseRound1:
		st, _ := s.Round1()
		f.CanOpenWheel = st.Selected == 0 && !st.WheelOpen && !f.R1TeamBlocked && round1Remaining(s, b) > 0
		f.CanStartRound2 = f.R1Done
		f.CanRevealAnswer = st.Selected != 0
		f.CanMarkAnswer = st.Selected != 0 && !f.R1TeamBlocked
	case PhaseRound2:
		st, _ := s.Round2()
		f.CanGoToFinal = f.R2Done
		f.CanRevealAnswer = st.Selected != 0
		f.CanMarkAnswer = st.Selected != 0
	case PhaseTiebreak:
		st, _ := s.Tiebreak()
		f.CanConfirmTiebreak = st.Eliminated != ""
	case PhaseFinal:
		st, _ := s.Final()
		_, hasTeam := s.FinalTeam()
		f.FinalCapReached = st.Asked >= s.Rules.FinalMaxQuestions
		f.CanSwitchTurn = !st.Running && len(s.Qualified) == 2
		f.CanStartTurn = !st.Running && hasTeam
		f.CanNextQuestion = st.Running && !f.FinalCapReached && len(st.Used) < len(b.Round3)
		f.CanRevealAnswer = st.Running && st.Current != 0
		f.CanMarkAnswer = st.Running && hasTeam
	}
	return f
}
