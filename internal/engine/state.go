package engine

import (
	"maps"
	"slices"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
)

const TeamCount = bank.TeamCount

type Team struct {
	ID         string
	Name       string
	Score      int
	R1Answered int
	R2Answered int
}

type Rules struct {
	Round1PerTeam     int
	PointsPerCorrect  int
	FinalSeconds      int
	FinalMaxQuestions int
	// CueFromSecond is the highest seconds-left value that still fires the countdown cue.
	CueFromSecond int
}

func DefaultRules() Rules {
	return Rules{
		Round1PerTeam:     8,
		PointsPerCorrect:  10,
		FinalSeconds:      60,
		FinalMaxQuestions: 12,
		CueFromSecond:     10,
	}
}

// UsedSet holds consumed question ids for one round or final session.
type UsedSet map[int]bool

func (u UsedSet) Has(id int) bool { return u[id] }
func (u UsedSet) Len() int        { return len(u) }

// Sorted returns the ids in ascending order.
func (u UsedSet) Sorted() []int {
	return slices.Sorted(maps.Keys(u))
}

func (u UsedSet) clone() UsedSet {
	out := make(UsedSet, len(u))
	maps.Copy(out, u)
	return out
}

// Stage is the payload that only exists while the contest is in one phase.
// Landing, setup and done carry none.
type Stage interface {
	stagePhase() Phase
}

type Round1Stage struct {
	Selected      int // 0 when no question is open
	ShowingAnswer bool
	WheelOpen     bool
	LastSpin      int
}

type Round2Stage struct {
	Selected      int
	Owner         int
	HintStep      int
	ShowingAnswer bool
}

type TiebreakStage struct {
	Eliminated string
}

type FinalStage struct {
	Turn          int
	SecondsLeft   int
	Running       bool
	Asked         int
	Current       int
	Used          UsedSet
	ShowingAnswer bool
}

func (Round1Stage) stagePhase() Phase   { return PhaseRound1 }
func (Round2Stage) stagePhase() Phase   { return PhaseRound2 }
func (TiebreakStage) stagePhase() Phase { return PhaseTiebreak }
func (FinalStage) stagePhase() Phase    { return PhaseFinal }

type State struct {
	Phase      Phase
	Stage      Stage
	Locale     bank.Locale
	Rules      Rules
	Teams      [TeamCount]Team
	ActiveTeam int
	UsedR1     UsedSet
	UsedR2     UsedSet
	// Qualified is nil until locked, then exactly two team ids in final order.
	Qualified []string
	// Paused holds the payload of the round left for landing until that round
	// is entered again.
	Paused Stage
}

// Clone returns a copy that shares no mutable storage with s.
func (s State) Clone() State {
	out := s
	out.UsedR1 = s.UsedR1.clone()
	out.UsedR2 = s.UsedR2.clone()
	out.Qualified = slices.Clone(s.Qualified)
	out.Stage = cloneStage(s.Stage)
	out.Paused = cloneStage(s.Paused)
	return out
}

func cloneStage(st Stage) Stage {
	if fs, ok := st.(FinalStage); ok {
		fs.Used = fs.Used.clone()
		return fs
	}
	return st
}

func (s State) Round1() (Round1Stage, bool) {
	st, ok := s.Stage.(Round1Stage)
	return st, ok && s.Phase == PhaseRound1
}

func (s State) Round2() (Round2Stage, bool) {
	st, ok := s.Stage.(Round2Stage)
	return st, ok && s.Phase == PhaseRound2
}

func (s State) Tiebreak() (TiebreakStage, bool) {
	st, ok := s.Stage.(TiebreakStage)
	return st, ok && s.Phase == PhaseTiebreak
}

func (s State) Final() (FinalStage, bool) {
	st, ok := s.Stage.(FinalStage)
	return st, ok && s.Phase == PhaseFinal
}

// Running reports whether the speed-round countdown is live.
func (s State) Running() bool {
	st, ok := s.Final()
	return ok && st.Running
}

func (s State) TeamIndex(id string) (int, bool) {
	for i, t := range s.Teams {
		if t.ID == id {
			return i, true
		}
	}
	return 0, false
}

// Qualifiers returns the locked finalists in final order.
func (s State) Qualifiers() []Team {
	out := make([]Team, 0, len(s.Qualified))
	for _, id := range s.Qualified {
		if i, ok := s.TeamIndex(id); ok {
			out = append(out, s.Teams[i])
		}
	}
	return out
}

func (s State) IsQualified(id string) bool {
	return slices.Contains(s.Qualified, id)
}

// FinalTeam returns the registry index of the team whose speed-round turn it is.
func (s State) FinalTeam() (int, bool) {
	st, ok := s.Final()
	if !ok || st.Turn < 0 || st.Turn >= len(s.Qualified) {
		return 0, false
	}
	return s.TeamIndex(s.Qualified[st.Turn])
}
