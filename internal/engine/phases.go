package engine

import "slices"

type Phase string

const (
	PhaseLanding  Phase = "landing"
	PhaseSetup    Phase = "setup"
	PhaseRound1   Phase = "round1"
	PhaseRound2   Phase = "round2"
	PhaseTiebreak Phase = "tiebreak"
	PhaseFinal    Phase = "final"
	PhaseDone     Phase = "done"
)

// Landing is reachable from everywhere and setup is reachable through a reset,
// so neither is listed here.
var phaseTransitions = map[Phase][]Phase{
	PhaseLanding:  {PhaseSetup},
	PhaseSetup:    {PhaseRound1},
	PhaseRound1:   {PhaseRound2},
	PhaseRound2:   {PhaseTiebreak, PhaseFinal},
	PhaseTiebreak: {PhaseFinal},
	PhaseFinal:    {PhaseDone},
	PhaseDone:     {PhaseSetup},
}

func (p Phase) CanTransitionTo(target Phase) bool {
	if target == PhaseLanding {
		return p != PhaseLanding
	}
	return slices.Contains(phaseTransitions[p], target)
}

// enter switches phase and installs the stage payload for it. Going to landing
// parks the open payload, and entering its round again resumes it; the final
// always starts a fresh session. Leaving a running final stops the countdown.
func enter(s *State, target Phase) []Event {
	var events []Event
	if st, ok := s.Final(); ok && st.Running {
		st.Running = false
		s.Stage = st
		events = append(events, Event{Type: EvtTimerStopped, Reason: StopLeftFinal})
	}

	s.Phase = target
	switch target {
	case PhaseLanding:
		if s.Stage != nil {
			s.Paused = s.Stage
		}
		s.Stage = nil
	case PhaseRound1:
		s.Stage = resume(s, Round1Stage{})
	case PhaseRound2:
		s.Stage = resume(s, Round2Stage{})
	case PhaseTiebreak:
		s.Stage = resume(s, TiebreakStage{})
	case PhaseFinal:
		s.Paused = nil
		s.Stage = FinalStage{SecondsLeft: s.Rules.FinalSeconds, Used: UsedSet{}}
	default:
		s.Stage = nil
	}
	return append(events, Event{Type: EvtPhaseChanged, Phase: target})
}

// resume returns the parked payload when it belongs to fresh's round.
func resume(s *State, fresh Stage) Stage {
	if s.Paused == nil || s.Paused.stagePhase() != fresh.stagePhase() {
		return fresh
	}
	st := s.Paused
	s.Paused = nil
	return st
}

func transition(s *State, target Phase) ([]Event, error) {
	if !s.Phase.CanTransitionTo(target) {
		return nil, ErrWrongPhase
	}
	return enter(s, target), nil
}
