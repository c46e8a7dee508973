package models

import "time"

type Badge string

const (
	BadgeBeginner     Badge = "beginner"
	BadgeIntermediate Badge = "intermediate"
	BadgeAdvanced     Badge = "advanced"
)

type BadgeThreshold struct {
	Badge     Badge
	Completed int
}

// BadgeThresholds is ordered by Completed ascending.
var BadgeThresholds = []BadgeThreshold{
	{Badge: BadgeBeginner, Completed: 5},
	{Badge: BadgeIntermediate, Completed: 10},
	{Badge: BadgeAdvanced, Completed: 15},
}

func (b Badge) Title() string {
	switch b {
	case BadgeBeginner:
		return "Beginner"
	case BadgeIntermediate:
		return "Intermediate"
	case BadgeAdvanced:
		return "Advanced"
	default:
		return string(b)
	}
}

const (
	MinLevel = 1
	MaxLevel = 3
)

// LevelFor maps the number of distinct completed words to a mastery level.
func LevelFor(completed int) int {
	switch {
	case completed >= 10:
		return 3
	case completed >= 5:
		return 2
	default:
		return 1
	}
}

// BadgesFor lists every badge whose threshold is reached by completed, in threshold order.
func BadgesFor(completed int) []Badge {
	var badges []Badge
	for _, th := range BadgeThresholds {
		if completed >= th.Completed {
			badges = append(badges, th.Badge)
		}
	}
	return badges
}

func LevelTitle(level int) string {
	switch level {
	case 3:
		return "Advanced"
	case 2:
		return "Intermediate"
	default:
		return "Beginner"
	}
}

type GameProgress struct {
	UserID         int64
	CompletedWords []string
	Accuracy       map[string]float64
	Level          int
	Badges         []Badge
	LastPlayed     time.Time
	Revision       int64
}

func (p *GameProgress) HasCompleted(wordID string) bool {
	for _, id := range p.CompletedWords {
		if id == wordID {
			return true
		}
	}
	return false
}

func (p *GameProgress) CompletionCount(wordID string) int {
	count := 0
	for _, id := range p.CompletedWords {
		if id == wordID {
			count++
		}
	}
	return count
}

func (p *GameProgress) HasBadge(badge Badge) bool {
	for _, b := range p.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share slices or maps with the original.
func (p *GameProgress) Clone() *GameProgress {
	clone := *p
	clone.CompletedWords = append([]string(nil), p.CompletedWords...)
	clone.Badges = append([]Badge(nil), p.Badges...)
	clone.Accuracy = make(map[string]float64, len(p.Accuracy))
	for id, acc := range p.Accuracy {
		clone.Accuracy[id] = acc
	}
	return &clone
}

// RecentWords returns up to limit completed ids, most recent first.
func (p *GameProgress) RecentWords(limit int) []string {
	n := len(p.CompletedWords)
	if limit <= 0 || limit > n {
		limit = n
	}
	recent := make([]string, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		recent = append(recent, p.CompletedWords[i])
	}
	return recent
}
