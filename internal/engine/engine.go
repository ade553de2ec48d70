package engine

import (
	"errors"
	"math/rand/v2"

	"github.com/DoyleJ11/quiz-contest-backend/internal/bank"
)

var ErrWrongPhase = errors.New("wrong phase")
var ErrInvalidTeam = errors.New("invalid team")
var ErrInvalidQuestion = errors.New("invalid question")
var ErrTeamBlocked = errors.New("team has no draws left")
var ErrTeamDone = errors.New("team has no questions left")
var ErrQuestionUsed = errors.New("question already used")
var ErrQuestionOpen = errors.New("a question is already open")
var ErrNothingSelected = errors.New("no question selected")
var ErrWheelClosed = errors.New("wheel is not open")
var ErrWheelOpen = errors.New("wheel is open")
var ErrHintsExhausted = errors.New("all hints shown")
var ErrNotReady = errors.New("round not finished")
var ErrNoElimination = errors.New("no team selected for elimination")
var ErrTimerRunning = errors.New("timer is running")
var ErrTimerStopped = errors.New("timer is not running")
var ErrCapReached = errors.New("question cap reached")
var ErrPoolExhausted = errors.New("question pool exhausted")
var ErrNoQualifiers = errors.New("qualifiers not locked")
var ErrInvalidName = errors.New("invalid team name")
var ErrInvalidLocale = errors.New("unsupported locale")
var ErrUnsupportedCommand = errors.New("unsupported command")

type CommandType string

const (
	CmdStartSetup        CommandType = "StartSetup"
	CmdGoToLanding       CommandType = "GoToLanding"
	CmdSetLocale         CommandType = "SetLocale"
	CmdRenameTeam        CommandType = "RenameTeam"
	CmdStartRound1       CommandType = "StartRound1"
	CmdSelectTeam        CommandType = "SelectTeam"
	CmdPickQuestion      CommandType = "PickQuestion"
	CmdOpenWheel         CommandType = "OpenWheel"
	CmdCloseWheel        CommandType = "CloseWheel"
	CmdSpinWheel         CommandType = "SpinWheel"
	CmdRevealAnswer      CommandType = "RevealAnswer"
	CmdCloseQuestion     CommandType = "CloseQuestion"
	CmdMarkAnswer        CommandType = "MarkAnswer"
	CmdStartRound2       CommandType = "StartRound2"
	CmdStartHintQuestion CommandType = "StartHintQuestion"
	CmdNextHint          CommandType = "NextHint"
	CmdGoToFinal         CommandType = "GoToFinal"
	CmdToggleElimination CommandType = "ToggleElimination"
	CmdConfirmTiebreak   CommandType = "ConfirmTiebreak"
	CmdSwitchTurn        CommandType = "SwitchTurn"
	CmdSelectTurn        CommandType = "SelectTurn"
	CmdStartTurn         CommandType = "StartTurn"
	CmdNextQuestion      CommandType = "NextQuestion"
	CmdStopTimer         CommandType = "StopTimer"
	CmdTick              CommandType = "Tick"
	CmdEndFinal          CommandType = "EndFinal"
	CmdNewContest        CommandType = "NewContest"
	CmdResetContest      CommandType = "ResetContest"
)

/*
	Intents carry at most one target:
	Team       -> RenameTeam, SelectTeam, StartHintQuestion (registry index 0..2)
	TeamID     -> ToggleElimination
	QuestionID -> PickQuestion
	Correct    -> MarkAnswer
	Turn       -> SelectTurn (0 or 1)
	Name       -> RenameTeam
	Locale     -> SetLocale
	Tick is only sent by the lobby's countdown ticker.
*/

type Command struct {
	Type       CommandType
	Team       int
	TeamID     string
	QuestionID int
	Correct    bool
	Turn       int
	Name       string
	Locale     bank.Locale
}

type EventType string

const (
	EvtPhaseChanged      EventType = "PhaseChanged"
	EvtLocaleChanged     EventType = "LocaleChanged"
	EvtTeamRenamed       EventType = "TeamRenamed"
	EvtTeamSelected      EventType = "TeamSelected"
	EvtQuestionOpened    EventType = "QuestionOpened"
	EvtQuestionClosed    EventType = "QuestionClosed"
	EvtAnswerRevealed    EventType = "AnswerRevealed"
	EvtAnswerMarked      EventType = "AnswerMarked"
	EvtWheelOpened       EventType = "WheelOpened"
	EvtWheelClosed       EventType = "WheelClosed"
	EvtWheelSpun         EventType = "WheelSpun"
	EvtHintRevealed      EventType = "HintRevealed"
	EvtEliminationMarked EventType = "EliminationMarked"
	EvtQualified         EventType = "Qualified"
	EvtTurnSwitched      EventType = "TurnSwitched"
	EvtTurnStarted       EventType = "TurnStarted"
	EvtQuestionDrawn     EventType = "QuestionDrawn"
	EvtTimerTicked       EventType = "TimerTicked"
	EvtCountdownCue      EventType = "CountdownCue"
	EvtTimerStopped      EventType = "TimerStopped"
	EvtContestReset      EventType = "ContestReset"
)

// Reasons carried by EvtTimerStopped.
const (
	StopManual    = "manual"
	StopExpired   = "expired"
	StopCap       = "cap"
	StopLeftFinal = "left_final"
)

type Event struct {
	Type        EventType
	Phase       Phase
	TeamID      string
	QuestionID  int
	Correct     bool
	Points      int
	SecondsLeft int
	Reason      string
}

// Rand is the uniform source used by the wheel and the speed-round draw.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type Option func(*Engine)

// WithBank pins every locale to b instead of the built-in bank.
func WithBank(b *bank.Bank) Option {
	return func(e *Engine) {
		if b != nil {
			e.banks = func(bank.Locale) *bank.Bank { return b }
		}
	}
}

// WithRand overrides the random source.
func WithRand(r Rand) Option {
	return func(e *Engine) {
		if r != nil {
			e.rng = r
		}
	}
}

// Engine applies commands to contest states. It holds no contest state of its
// own, so one Engine can serve any number of contests from a single goroutine.
type Engine struct {
	banks func(bank.Locale) *bank.Bank
	rng   Rand
}

func New(opts ...Option) *Engine {
	e := &Engine{banks: bank.ForLocale, rng: globalRand{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Bank returns the question bank the state's locale resolves to.
func (e *Engine) Bank(s State) *bank.Bank {
	return e.banks(s.Locale)
}

func (e *Engine) BankFor(locale bank.Locale) *bank.Bank {
	return e.banks(locale)
}

// Apply validates cmd against s and returns the events it produced and the
// next state. On error the original state is returned unchanged.
func (e *Engine) Apply(s State, cmd Command) ([]Event, State, error) {
	next := s.Clone()
	b := e.Bank(s)

	var (
		events []Event
		err    error
	)

	switch cmd.Type {
	case CmdStartSetup:
		events, err = startSetup(&next)
	case CmdGoToLanding:
		events, err = goToLanding(&next)
	case CmdSetLocale:
		events, err = setLocale(&next, cmd.Locale)
	case CmdRenameTeam:
		events, err = renameTeam(&next, cmd.Team, cmd.Name)
	case CmdStartRound1:
		events, err = startRound1(&next)
	case CmdSelectTeam:
		events, err = selectTeam(&next, cmd.Team)
	case CmdPickQuestion:
		events, err = pickQuestion(&next, b, cmd.QuestionID)
	case CmdOpenWheel:
		events, err = openWheel(&next, b)
	case CmdCloseWheel:
		events, err = closeWheel(&next)
	case CmdSpinWheel:
		events, err = e.spinWheel(&next, b)
	case CmdRevealAnswer:
		events, err = revealAnswer(&next)
	case CmdCloseQuestion:
		events, err = closeQuestion(&next)
	case CmdMarkAnswer:
		events, err = e.markAnswer(&next, b, cmd.Correct)
	case CmdStartRound2:
		events, err = startRound2(&next, b)
	case CmdStartHintQuestion:
		events, err = startHintQuestion(&next, b, cmd.Team)
	case CmdNextHint:
		events, err = nextHint(&next)
	case CmdGoToFinal:
		events, err = goToFinal(&next, b)
	case CmdToggleElimination:
		events, err = toggleElimination(&next, cmd.TeamID)
	case CmdConfirmTiebreak:
		events, err = confirmTiebreak(&next)
	case CmdSwitchTurn:
		events, err = switchTurn(&next)
	case CmdSelectTurn:
		events, err = selectTurn(&next, cmd.Turn)
	case CmdStartTurn:
		events, err = e.startTurn(&next, b)
	case CmdNextQuestion:
		events, err = e.nextQuestion(&next, b)
	case CmdStopTimer:
		events, err = stopTimer(&next)
	case CmdTick:
		events, err = tick(&next)
	case CmdEndFinal:
		events, err = endFinal(&next)
	case CmdNewContest:
		events, err = newContest(&next)
	case CmdResetContest:
		events, err = resetContest(&next)
	default:
		err = ErrUnsupportedCommand
	}

	if err != nil {
		return nil, s, err
	}
	return events, next, nil
}

// draw picks uniformly among ids not yet in used.
func (e *Engine) draw(ids []int, used UsedSet) (int, bool) {
	available := make([]int, 0, len(ids))
	for _, id := range ids {
		if !used.Has(id) {
			available = append(available, id)
		}
	}
	if len(available) == 0 {
		return 0, false
	}
	return available[e.rng.IntN(len(available))], true
}
