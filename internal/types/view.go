package types

import (
	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
)

// ContestView is the read-only projection the presentation layer renders.
// Answers only appear once the host has revealed them.
type ContestView struct {
	Phase      string         `json:"phase"`
	Locale     string         `json:"locale"`
	Teams      []TeamView     `json:"teams"`
	ActiveTeam int            `json:"activeTeam"`
	UsedR1     []int          `json:"usedR1"`
	UsedR2     []int          `json:"usedR2"`
	Qualified  []string       `json:"qualified"`
	Round1     *Round1View    `json:"round1,omitempty"`
	Round2     *Round2View    `json:"round2,omitempty"`
	Tiebreak   *TiebreakView  `json:"tiebreak,omitempty"`
	Final      *FinalView     `json:"final,omitempty"`
	Standings  []StandingView `json:"standings"`
	Flags      FlagsView      `json:"flags"`
}

type TeamView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	R1Answered int    `json:"r1Answered"`
	R2Answered int    `json:"r2Answered"`
}

type QuestionView struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer,omitempty"`
}

type Round1View struct {
	Open          *QuestionView `json:"open,omitempty"`
	ShowingAnswer bool          `json:"showingAnswer"`
	WheelOpen     bool          `json:"wheelOpen"`
	LastSpin      int           `json:"lastSpin,omitempty"`
	Remaining     int           `json:"remaining"`
}

type Round2View struct {
	Open          int      `json:"open,omitempty"`
	Owner         string   `json:"owner,omitempty"`
	HintStep      int      `json:"hintStep"`
	Hints         []string `json:"hints,omitempty"` // revealed so far
	Answer        string   `json:"answer,omitempty"`
	ShowingAnswer bool     `json:"showingAnswer"`
}

type TiebreakView struct {
	Eliminated string `json:"eliminated,omitempty"`
}

type FinalView struct {
	Turn          int           `json:"turn"`
	TeamID        string        `json:"teamId,omitempty"`
	SecondsLeft   int           `json:"secondsLeft"`
	Running       bool          `json:"running"`
	Asked         int           `json:"asked"`
	MaxQuestions  int           `json:"maxQuestions"`
	Used          int           `json:"used"`
	Current       *QuestionView `json:"current,omitempty"`
	ShowingAnswer bool          `json:"showingAnswer"`
}

type StandingView struct {
	Rank       int    `json:"rank"`
	TeamID     string `json:"teamId"`
	Name       string `json:"name"`
	Score      int    `json:"score"`
	Qualified  bool   `json:"qualified"`
	Eliminated bool   `json:"eliminated"`
}

// FlagsView mirrors engine.Flags field for field so it converts directly.
type FlagsView struct {
	R1TeamBlocked      bool `json:"r1TeamBlocked"`
	R1Done             bool `json:"r1Done"`
	CanOpenWheel       bool `json:"canOpenWheel"`
	CanStartRound2     bool `json:"canStartRound2"`
	R2Done             bool `json:"r2Done"`
	CanGoToFinal       bool `json:"canGoToFinal"`
	TieForFinal        bool `json:"tieForFinal"`
	CanConfirmTiebreak bool `json:"canConfirmTiebreak"`
	CanSwitchTurn      bool `json:"canSwitchTurn"`
	CanStartTurn       bool `json:"canStartTurn"`
	CanNextQuestion    bool `json:"canNextQuestion"`
	CanRevealAnswer    bool `json:"canRevealAnswer"`
	CanMarkAnswer      bool `json:"canMarkAnswer"`
	FinalCapReached    bool `json:"finalCapReached"`
}

func NewContestView(e *engine.Engine, s engine.State) ContestView {
	b := e.Bank(s)
	v := ContestView{
		Phase:      string(s.Phase),
		Locale:     string(s.Locale),
		Teams:      make([]TeamView, len(s.Teams)),
		ActiveTeam: s.ActiveTeam,
		UsedR1:     s.UsedR1.Sorted(),
		UsedR2:     s.UsedR2.Sorted(),
		Qualified:  append([]string{}, s.Qualified...),
		Flags:      FlagsView(e.Flags(s)),
	}
	for i, t := range s.Teams {
		v.Teams[i] = TeamView{ID: t.ID, Name: t.Name, Score: t.Score, R1Answered: t.R1Answered, R2Answered: t.R2Answered}
	}
	for _, st := range engine.Standings(s) {
		v.Standings = append(v.Standings, StandingView{
			Rank:       st.Rank,
			TeamID:     st.Team.ID,
			Name:       st.Team.Name,
			Score:      st.Team.Score,
			Qualified:  st.Qualified,
			Eliminated: st.Eliminated,
		})
	}

	if st, ok := s.Round1(); ok {
		r1 := &Round1View{
			ShowingAnswer: st.ShowingAnswer,
			WheelOpen:     st.WheelOpen,
			LastSpin:      st.LastSpin,
			Remaining:     len(b.Round1) - s.UsedR1.Len(),
		}
		if q, ok := b.Round1Question(st.Selected); ok {
			r1.Open = &QuestionView{ID: q.ID, Question: q.Question}
			if st.ShowingAnswer {
				r1.Open.Answer = q.Answer
			}
		}
		v.Round1 = r1
	}

	if st, ok := s.Round2(); ok {
		r2 := &Round2View{HintStep: st.HintStep, ShowingAnswer: st.ShowingAnswer}
		if q, ok := b.HintQuestion(st.Selected); ok {
			r2.Open = q.ID
			r2.Owner = s.Teams[st.Owner].ID
			r2.Hints = append([]string{}, q.Hints[:st.HintStep+1]...)
			if st.ShowingAnswer {
				r2.Answer = q.Answer
			}
		}
		v.Round2 = r2
	}

	if st, ok := s.Tiebreak(); ok {
		v.Tiebreak = &TiebreakView{Eliminated: st.Eliminated}
	}

	if st, ok := s.Final(); ok {
		f := &FinalView{
			Turn:          st.Turn,
			SecondsLeft:   st.SecondsLeft,
			Running:       st.Running,
			Asked:         st.Asked,
			MaxQuestions:  s.Rules.FinalMaxQuestions,
			Used:          st.Used.Len(),
			ShowingAnswer: st.ShowingAnswer,
		}
		if team, ok := s.FinalTeam(); ok {
			f.TeamID = s.Teams[team].ID
		}
		if q, ok := b.Round3Question(st.Current); ok {
			f.Current = &QuestionView{ID: q.ID, Question: q.Question}
			if st.ShowingAnswer {
				f.Current.Answer = q.Answer
			}
		}
		v.Final = f
	}
	return v
}
