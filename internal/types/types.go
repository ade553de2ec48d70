package types

import (
	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
	"github.com/DoyleJ11/quiz-contest-backend/internal/engine"
)

const (
	MsgStateSnapshot = "StateSnapshot"
	MsgCue           = "Cue"
	MsgError         = "Error"
)

// ClientMessage is one host intent. Only the field its type needs is read.
// Team and Turn are pointers so an absent target is not read as the first one.
type ClientMessage struct {
	Type       string `json:"type"`
	Team       *int   `json:"team,omitempty"`
	TeamID     string `json:"teamId,omitempty"`
	QuestionID int    `json:"questionId,omitempty"`
	Correct    bool   `json:"correct,omitempty"`
	Turn       *int   `json:"turn,omitempty"`
	Name       string `json:"name,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

type ServerMessage struct {
	Type        string       `json:"type"` // "StateSnapshot" | "Cue" | "Error"
	Version     int          `json:"version,omitempty"`
	Contest     *ContestView `json:"contest,omitempty"`
	SecondsLeft int          `json:"secondsLeft,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// clientIntents is every command a client may send. Tick belongs to the
// lobby's countdown and is deliberately absent.
var clientIntents = map[string]engine.CommandType{}

func init() {
	for _, t := range []engine.CommandType{
		engine.CmdStartSetup, engine.CmdGoToLanding, engine.CmdSetLocale, engine.CmdRenameTeam,
		engine.CmdStartRound1, engine.CmdSelectTeam, engine.CmdPickQuestion, engine.CmdOpenWheel,
		engine.CmdCloseWheel, engine.CmdSpinWheel, engine.CmdRevealAnswer, engine.CmdCloseQuestion,
		engine.CmdMarkAnswer, engine.CmdStartRound2, engine.CmdStartHintQuestion, engine.CmdNextHint,
		engine.CmdGoToFinal, engine.CmdToggleElimination, engine.CmdConfirmTiebreak, engine.CmdSwitchTurn,
		engine.CmdSelectTurn, engine.CmdStartTurn, engine.CmdNextQuestion, engine.CmdStopTimer,
		engine.CmdEndFinal, engine.CmdNewContest, engine.CmdResetContest,
	} {
		clientIntents[string(t)] = t
	}
}

func ToCommand(m ClientMessage) (engine.Command, bool) {
	t, ok := clientIntents[m.Type]
	if !ok {
		return engine.Command{}, false
	}
	return engine.Command{
		Type:       t,
		Team:       target(m.Team),
		TeamID:     m.TeamID,
		QuestionID: m.QuestionID,
		Correct:    m.Correct,
		Turn:       target(m.Turn),
		Name:       m.Name,
		Locale:     bank.Locale(m.Locale),
	}, true
}

// target maps a missing index to -1, which no team or turn accepts.
func target(i *int) int {
	if i == nil {
		return -1
	}
	return *i
}

type BankIndex struct {
	Locale     string  `json:"locale"`
	Round1     []int   `json:"round1"`
	Round2     [][]int `json:"round2"` // hint question ids per team
	Round3Size int     `json:"round3Size"`
}

func NewBankIndex(locale bank.Locale, b *bank.Bank) BankIndex {
	idx := BankIndex{
		Locale:     string(locale),
		Round1:     b.Round1IDs(),
		Round2:     make([][]int, bank.TeamCount),
		Round3Size: len(b.Round3),
	}
	for team := range idx.Round2 {
		idx.Round2[team] = b.TeamHintQuestions(team)
	}
	return idx
}
