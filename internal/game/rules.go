// Package game implements the Daily Draft round: question generation, leader
// resolution, eligibility filtering, scoring and share text.
package game

import (
	"strings"
	"time"

	"github.com/jcturnbull/DailyDraft/internal/config"
)

// QuestionsPerRound is the number of draft slots in a round.
const QuestionsPerRound = 5

// Slot is a draft position label. Duplicate positions carry a numeric suffix.
type Slot string

const (
	SlotQB  Slot = "QB"
	SlotWR1 Slot = "WR1"
	SlotWR2 Slot = "WR2"
	SlotRB  Slot = "RB"
	SlotTE  Slot = "TE"
)

// DraftSlots is the fixed question order of every round.
var DraftSlots = []Slot{SlotQB, SlotWR1, SlotWR2, SlotRB, SlotTE}

// Position strips the ordinal suffix from the slot label.
func (s Slot) Position() string {
	return strings.TrimRight(string(s), "0123456789")
}

// StatMenu lists the statistics a question may ask about, per position.
var StatMenu = map[string][]string{
	"QB": {"passing_yards", "passing_tds", "completions", "attempts"},
	"WR": {"receptions", "receiving_yards", "receiving_tds", "targets"},
	"RB": {"rushing_yards", "rushing_tds", "carries", "receptions"},
	"TE": {"receptions", "receiving_yards", "receiving_tds", "targets"},
}

// opportunityField is the usage statistic that marks a player as active.
var opportunityField = map[string]string{
	"QB": "attempts",
	"WR": "targets",
	"TE": "targets",
	"RB": "carries",
}

// YearRange bounds the seasons a question may draw from.
type YearRange struct {
	Floor   int
	Ceiling int
}

// DefaultYears is the full span of seasons with data.
var DefaultYears = YearRange{Floor: config.DefaultMinYear, Ceiling: config.DefaultMaxYear}

// Upper returns the latest completed season at now: the prior calendar year
// before September and the current year from September on, never above the
// ceiling.
func (r YearRange) Upper(now time.Time) int {
	upper := now.Year()
	if now.Month() < time.September {
		upper--
	}
	if upper > r.Ceiling {
		upper = r.Ceiling
	}
	return upper
}

// Pick draws a year uniformly from [Floor, Upper(now)]. If the floor is past
// the upper bound the upper bound is returned without drawing.
func (r YearRange) Pick(rng Rand, now time.Time) int {
	upper := r.Upper(now)
	if r.Floor > upper {
		return upper
	}
	return r.Floor + rng.IntN(upper-r.Floor+1)
}
