package models

import (
	"testing"

	"pgregory.net/rapid"
)

func TestProperty18_LevelFollowsCompletedCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 100).Draw(t, "completed")
		level := LevelFor(n)

		var expected int
		switch {
		case n >= 10:
			expected = 3
		case n >= 5:
			expected = 2
		default:
			expected = 1
		}
		if level != expected {
			t.Fatalf("LevelFor(%d) = %d, expected %d", n, level, expected)
		}
		if level < MinLevel || level > MaxLevel {
			t.Fatalf("level %d out of range", level)
		}
	})
}

func TestProperty19_BadgesGrowWithCompletedCount(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.IntRange(0, 30).Draw(t, "a")
		b := rapid.IntRange(a, 40).Draw(t, "b")

		fewer := BadgesFor(a)
		more := BadgesFor(b)
		if len(fewer) > len(more) {
			t.Fatalf("BadgesFor(%d)=%v has more badges than BadgesFor(%d)=%v", a, fewer, b, more)
		}
		for i := range fewer {
			if fewer[i] != more[i] {
				t.Fatalf("badge order differs: %v vs %v", fewer, more)
			}
		}
	})
}

func TestBadgesForThresholds(t *testing.T) {
	cases := map[int][]Badge{
		0:  nil,
		4:  nil,
		5:  {BadgeBeginner},
		9:  {BadgeBeginner},
		10: {BadgeBeginner, BadgeIntermediate},
		15: {BadgeBeginner, BadgeIntermediate, BadgeAdvanced},
	}
	for n, expected := range cases {
		got := BadgesFor(n)
		if len(got) != len(expected) {
			t.Fatalf("BadgesFor(%d) = %v, expected %v", n, got, expected)
		}
		for i := range got {
			if got[i] != expected[i] {
				t.Fatalf("BadgesFor(%d) = %v, expected %v", n, got, expected)
			}
		}
	}
}

func TestGameProgressCloneIsIndependent(t *testing.T) {
	original := &GameProgress{
		UserID:         7,
		CompletedWords: []string{"animal-1"},
		Accuracy:       map[string]float64{"animal-1": 100},
		Level:          1,
		Badges:         []Badge{BadgeBeginner},
	}

	clone := original.Clone()
	clone.CompletedWords = append(clone.CompletedWords, "animal-2")
	clone.CompletedWords[0] = "car-1"
	clone.Accuracy["animal-1"] = 0
	clone.Badges[0] = BadgeAdvanced

	if original.CompletedWords[0] != "animal-1" || len(original.CompletedWords) != 1 {
		t.Errorf("original completed words changed: %v", original.CompletedWords)
	}
	if original.Accuracy["animal-1"] != 100 {
		t.Errorf("original accuracy changed: %v", original.Accuracy)
	}
	if original.Badges[0] != BadgeBeginner {
		t.Errorf("original badges changed: %v", original.Badges)
	}
}

func TestRecentWords(t *testing.T) {
	p := &GameProgress{CompletedWords: []string{"a", "b", "c", "d"}}

	got := p.RecentWords(2)
	if len(got) != 2 || got[0] != "d" || got[1] != "c" {
		t.Errorf("RecentWords(2) = %v, expected [d c]", got)
	}

	all := p.RecentWords(0)
	if len(all) != 4 || all[0] != "d" || all[3] != "a" {
		t.Errorf("RecentWords(0) = %v, expected all words newest first", all)
	}

	empty := (&GameProgress{}).RecentWords(5)
	if len(empty) != 0 {
		t.Errorf("expected no recent words, got %v", empty)
	}
}
