package extract

import (
	"sort"
	"time"

	"edupulse/internal/model"
)

// Block order mirrors the vector layout: the weekday four then the
// weekend four, each morning, afternoon, evening, night.
const (
	blockWeekdayMorning = iota
	blockWeekdayAfternoon
	blockWeekdayEvening
	blockWeekdayNight
	blockWeekendMorning
	blockWeekendAfternoon
	blockWeekendEvening
	blockWeekendNight
	numBlocks
)

// Bands: morning 06-12, afternoon 12-18, evening 18-24, night 00-06.
func classifyBlock(t time.Time) int {
	t = t.UTC()
	wd := t.Weekday()
	var band int
	switch h := t.Hour(); {
	case h < 6:
		band = blockWeekdayNight
	case h < 12:
		band = blockWeekdayMorning
	case h < 18:
		band = blockWeekdayAfternoon
	default:
		band = blockWeekdayEvening
	}
	if wd == time.Saturday || wd == time.Sunday {
		return band + blockWeekendMorning
	}
	return band
}

type TimeBlocks struct {
	Proportions          [numBlocks]float64
	MorningConsistency   float64
	AfternoonConsistency float64
	WeekendConsistency   float64
	Defined              bool
}

type weekTally struct {
	morning   float64
	afternoon float64
	weekend   float64
	total     float64
}

// AnalyzeTimeBlocks computes the eight block proportions over the whole
// timeline plus habit-consistency deviations across active ISO weeks.
// Consistency is the population deviation of a week-level proportion;
// a single active week deviates by zero.
func AnalyzeTimeBlocks(tl model.Timeline) TimeBlocks {
	if len(tl) == 0 {
		return TimeBlocks{}
	}
	var blocks TimeBlocks
	blocks.Defined = true

	weeks := make(map[int64]*weekTally)
	for _, ts := range tl {
		b := classifyBlock(ts)
		blocks.Proportions[b]++

		key := startOfWeek(ts).Unix()
		w := weeks[key]
		if w == nil {
			w = &weekTally{}
			weeks[key] = w
		}
		w.total++
		switch {
		case b == blockWeekdayMorning:
			w.morning++
		case b == blockWeekdayAfternoon:
			w.afternoon++
		case b >= blockWeekendMorning:
			w.weekend++
		}
	}
	total := float64(len(tl))
	for i := range blocks.Proportions {
		blocks.Proportions[i] /= total
	}

	keys := make([]int64, 0, len(weeks))
	for k := range weeks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	morning := make([]float64, 0, len(keys))
	afternoon := make([]float64, 0, len(keys))
	weekend := make([]float64, 0, len(keys))
	for _, k := range keys {
		w := weeks[k]
		morning = append(morning, w.morning/w.total)
		afternoon = append(afternoon, w.afternoon/w.total)
		weekend = append(weekend, w.weekend/w.total)
	}
	blocks.MorningConsistency = popStd(morning)
	blocks.AfternoonConsistency = popStd(afternoon)
	blocks.WeekendConsistency = popStd(weekend)
	return blocks
}
