package bank

import (
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TeamCount is the number of teams the bank's round-2 assignment table covers.
const TeamCount = 3

var ErrInvalidBank = errors.New("invalid question bank")

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleKurdish Locale = "ku"
	LocaleArabic  Locale = "ar"
)

var Locales = []Locale{LocaleEnglish, LocaleKurdish, LocaleArabic}

func (l Locale) Valid() bool {
	switch l {
	case LocaleEnglish, LocaleKurdish, LocaleArabic:
		return true
	}
	return false
}

// Question is a round-1 board question or a round-3 speed question.
type Question struct {
	ID       int    `yaml:"id" json:"id"`
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

// HintQuestion is a round-2 riddle revealed one hint at a time.
type HintQuestion struct {
	ID     int       `yaml:"id" json:"id"`
	Hints  [4]string `yaml:"hints" json:"hints"`
	Answer string    `yaml:"answer" json:"answer"`
}

type Bank struct {
	Round1 []Question     `yaml:"round1"`
	Round2 []HintQuestion `yaml:"round2"`
	// Round2Assignments[i] is the team index that owns Round2[i].
	Round2Assignments []int      `yaml:"round2_assignments"`
	Round3            []Question `yaml:"round3"`
}

//go:embed questions.yaml
var defaultYAML []byte

var defaultBank = mustParse(defaultYAML)

// Parse decodes and validates a bank document.
func Parse(data []byte) (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("bank: decode: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func mustParse(data []byte) *Bank {
	b, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return b
}

// Default returns the built-in bank.
func Default() *Bank { return defaultBank }

// ForLocale returns the bank for a locale. Only English content exists, so
// every locale resolves to it.
func ForLocale(_ Locale) *Bank { return defaultBank }

// Validate checks the structural rules the contest relies on.
func (b *Bank) Validate() error {
	if len(b.Round1) == 0 {
		return fmt.Errorf("%w: round1 is empty", ErrInvalidBank)
	}
	if err := uniqueIDs("round1", b.Round1); err != nil {
		return err
	}
	if err := uniqueIDs("round3", b.Round3); err != nil {
		return err
	}
	if len(b.Round2) != 2*TeamCount {
		return fmt.Errorf("%w: round2 needs %d questions, got %d", ErrInvalidBank, 2*TeamCount, len(b.Round2))
	}
	if len(b.Round2Assignments) != len(b.Round2) {
		return fmt.Errorf("%w: %d round2 assignments for %d questions", ErrInvalidBank, len(b.Round2Assignments), len(b.Round2))
	}
	perTeam := make([]int, TeamCount)
	seen := make(map[int]bool, len(b.Round2))
	for i, q := range b.Round2 {
		if q.ID <= 0 {
			return fmt.Errorf("%w: round2 id %d is not positive", ErrInvalidBank, q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate round2 id %d", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = true
		for _, h := range q.Hints {
			if h == "" {
				return fmt.Errorf("%w: round2 id %d has an empty hint", ErrInvalidBank, q.ID)
			}
		}
		team := b.Round2Assignments[i]
		if team < 0 || team >= TeamCount {
			return fmt.Errorf("%w: round2 id %d assigned to team %d", ErrInvalidBank, q.ID, team)
		}
		perTeam[team]++
	}
	for team, n := range perTeam {
		if n != 2 {
			return fmt.Errorf("%w: team %d owns %d round2 questions", ErrInvalidBank, team, n)
		}
	}
	return nil
}

func uniqueIDs(pool string, qs []Question) error {
	seen := make(map[int]bool, len(qs))
	for _, q := range qs {
		if q.ID <= 0 {
			return fmt.Errorf("%w: %s id %d is not positive", ErrInvalidBank, pool, q.ID)
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate %s id %d", ErrInvalidBank, pool, q.ID)
		}
		seen[q.ID] = true
	}
	return nil
}

func (b *Bank) Round1Question(id int) (Question, bool) {
	return find(b.Round1, id)
}

func (b *Bank) Round3Question(id int) (Question, bool) {
	return find(b.Round3, id)
}

func (b *Bank) HintQuestion(id int) (HintQuestion, bool) {
	for _, q := range b.Round2 {
		if q.ID == id {
			return q, true
		}
	}
	return HintQuestion{}, false
}

// TeamHintQuestions returns the ids assigned to a team, in bank order.
func (b *Bank) TeamHintQuestions(team int) []int {
	var out []int
	for i, q := range b.Round2 {
		if b.Round2Assignments[i] == team {
			out = append(out, q.ID)
		}
	}
	return out
}

func (b *Bank) Round1IDs() []int { return ids(b.Round1) }
func (b *Bank) Round3IDs() []int { return ids(b.Round3) }

func ids(qs []Question) []int {
	out := make([]int, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func find(qs []Question, id int) (Question, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
