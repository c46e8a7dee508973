package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/catalog"
	"github.com/ad/go-telegram-wordwizard/internal/models"
)

var ErrNotParent = errors.New("user is not a parent")

const (
	recentWordsLimit   = 5
	trickyWordsLimit   = 5
	recentAnswersLimit = 5
)

type Completion struct {
	Completed  int
	Total      int
	Percentage int
}

func newCompletion(completed, total int) Completion {
	c := Completion{Completed: completed, Total: total}
	if total > 0 {
		c.Percentage = int(math.Round(float64(completed) / float64(total) * 100))
	}
	return c
}

type CategoryProgress struct {
	Category models.Category
	Completion
}

type DifficultyProgress struct {
	Difficulty models.Difficulty
	Completion
}

// WordStat puts the logged attempt counts for a word next to its stored accuracy.
type WordStat struct {
	Word     models.Word
	Accuracy int
	Attempts models.AttemptStats
}

func (s WordStat) Misses() int {
	return s.Attempts.Attempts - s.Attempts.Correct
}

type Dashboard struct {
	User         *models.User
	Overall      Completion
	Categories   []CategoryProgress
	Difficulties []DifficultyProgress
	MeanAccuracy int
	Level        int
	LevelTitle   string
	Badges       []models.Badge
	RecentWords  []models.Word
	Attempts     models.AttemptStats
	Words        []WordStat
	Answers      []models.WordAttempt
	LastPlayed   time.Time
}

// BuildDashboard summarises progress against the catalog. Completed ids that
// the catalog no longer knows are ignored in per-category and per-tier counts.
func BuildDashboard(c *catalog.Catalog, progress *models.GameProgress, attempts models.AttemptStats) *Dashboard {
	d := &Dashboard{
		Level:      progress.Level,
		LevelTitle: models.LevelTitle(progress.Level),
		Badges:     append([]models.Badge(nil), progress.Badges...),
		Attempts:   attempts,
		LastPlayed: progress.LastPlayed,
	}

	byCategory := make(map[models.Category]int)
	byDifficulty := make(map[models.Difficulty]int)
	known := 0
	for _, id := range progress.CompletedWords {
		w, ok := c.ByID(id)
		if !ok {
			continue
		}
		known++
		byCategory[w.Category]++
		byDifficulty[w.Difficulty]++
	}
	d.Overall = newCompletion(known, c.Len())

	for _, cat := range models.Categories {
		d.Categories = append(d.Categories, CategoryProgress{
			Category:   cat,
			Completion: newCompletion(byCategory[cat], len(c.ByCategory(cat))),
		})
	}
	for _, diff := range models.Difficulties {
		d.Difficulties = append(d.Difficulties, DifficultyProgress{
			Difficulty: diff,
			Completion: newCompletion(byDifficulty[diff], len(c.ByDifficulty(diff))),
		})
	}

	if len(progress.Accuracy) > 0 {
		sum := 0.0
		for _, acc := range progress.Accuracy {
			sum += acc
		}
		d.MeanAccuracy = int(math.Round(sum / float64(len(progress.Accuracy))))
	}

	for _, id := range progress.RecentWords(0) {
		if len(d.RecentWords) == recentWordsLimit {
			break
		}
		if w, ok := c.ByID(id); ok {
			d.RecentWords = append(d.RecentWords, w)
		}
	}
	return d
}

// WordBreakdown joins per-word attempt counts with stored accuracy. Words the
// catalog no longer knows are dropped. The result is ordered by misses, most
// first, then by id.
func WordBreakdown(c *catalog.Catalog, progress *models.GameProgress, byWord map[string]models.AttemptStats) []WordStat {
	ids := make(map[string]bool, len(byWord)+len(progress.Accuracy))
	for id := range byWord {
		ids[id] = true
	}
	for id := range progress.Accuracy {
		ids[id] = true
	}

	stats := make([]WordStat, 0, len(ids))
	for id := range ids {
		w, ok := c.ByID(id)
		if !ok {
			continue
		}
		stats = append(stats, WordStat{
			Word:     w,
			Accuracy: int(math.Round(progress.Accuracy[id])),
			Attempts: byWord[id],
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Misses() != stats[j].Misses() {
			return stats[i].Misses() > stats[j].Misses()
		}
		return stats[i].Word.ID < stats[j].Word.ID
	})
	return stats
}

type UserLookup interface {
	GetByID(id int64) (*models.User, error)
	GetChildren(parentID int64) ([]*models.User, error)
}

type AttemptStatsSource interface {
	TotalStats(userID int64) (models.AttemptStats, error)
	StatsByWord(userID int64) (map[string]models.AttemptStats, error)
	Recent(userID int64, limit int) ([]models.WordAttempt, error)
}

type DashboardService struct {
	catalog  *catalog.Catalog
	progress ProgressStore
	attempts AttemptStatsSource
	users    UserLookup
}

func NewDashboardService(c *catalog.Catalog, progress ProgressStore, attempts AttemptStatsSource, users UserLookup) *DashboardService {
	return &DashboardService{
		catalog:  c,
		progress: progress,
		attempts: attempts,
		users:    users,
	}
}

func (s *DashboardService) ForUser(user *models.User) (*Dashboard, error) {
	progress, err := s.progress.Load(user.ID)
	if err != nil {
		if !isNotFound(err) {
			return nil, fmt.Errorf("load progress for user %d: %w", user.ID, err)
		}
		progress = NewProgress(user.ID)
	}

	stats, err := s.attempts.TotalStats(user.ID)
	if err != nil {
		return nil, fmt.Errorf("load attempts for user %d: %w", user.ID, err)
	}

	byWord, err := s.attempts.StatsByWord(user.ID)
	if err != nil {
		return nil, fmt.Errorf("load word attempts for user %d: %w", user.ID, err)
	}
	answers, err := s.attempts.Recent(user.ID, recentAnswersLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent answers for user %d: %w", user.ID, err)
	}

	d := BuildDashboard(s.catalog, progress, stats)
	d.User = user
	d.Words = WordBreakdown(s.catalog, progress, byWord)
	d.Answers = answers
	return d, nil
}

// ForParent builds a dashboard for every child linked to parentID.
func (s *DashboardService) ForParent(parentID int64) ([]*Dashboard, error) {
	parent, err := s.users.GetByID(parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParent {
		return nil, ErrNotParent
	}

	children, err := s.users.GetChildren(parentID)
	if err != nil {
		return nil, fmt.Errorf("list children of %d: %w", parentID, err)
	}

	dashboards := make([]*Dashboard, 0, len(children))
	for _, child := range children {
		d, err := s.ForUser(child)
		if err != nil {
			return nil, err
		}
		dashboards = append(dashboards, d)
	}
	return dashboards, nil
}

func FormatDashboard(d *Dashboard, now time.Time) string {
	var sb strings.Builder

	name := "Player"
	if d.User != nil {
		name = d.User.DisplayName()
	}
	sb.WriteString(fmt.Sprintf("📊 %s\n\n", FormatBold(name)))
	sb.WriteString(fmt.Sprintf("Words learned: %d/%d\n", d.Overall.Completed, d.Overall.Total))
	sb.WriteString(fmt.Sprintf("Average accuracy: %d%%\n", d.MeanAccuracy))
	sb.WriteString(fmt.Sprintf("Level: %d (%s)\n", d.Level, d.LevelTitle))
	if d.Attempts.Attempts > 0 {
		sb.WriteString(fmt.Sprintf("Answers: %d, correct %d (%d%%)\n", d.Attempts.Attempts, d.Attempts.Correct, d.Attempts.Accuracy()))
	}
	sb.WriteString(fmt.Sprintf("Last played: %s\n", FormatTimeAgo(d.LastPlayed, now)))

	sb.WriteString("\n" + FormatBold("Categories") + "\n")
	for _, cp := range d.Categories {
		sb.WriteString(fmt.Sprintf("%s %s %d/%d\n", FormatProgressBar(cp.Percentage), cp.Category.Title(), cp.Completed, cp.Total))
	}

	sb.WriteString("\n" + FormatBold("Difficulty") + "\n")
	for _, dp := range d.Difficulties {
		sb.WriteString(fmt.Sprintf("%s %s %d/%d\n", FormatProgressBar(dp.Percentage), dp.Difficulty.String(), dp.Completed, dp.Total))
	}

	if len(d.Badges) > 0 {
		titles := make([]string, len(d.Badges))
		for i, b := range d.Badges {
			titles[i] = b.Title()
		}
		sb.WriteString("\n🏅 " + strings.Join(titles, ", ") + "\n")
	}

	if len(d.RecentWords) > 0 {
		words := make([]string, len(d.RecentWords))
		for i, w := range d.RecentWords {
			words[i] = FormatBold(w.Text)
		}
		sb.WriteString("\nRecent words: " + strings.Join(words, ", ") + "\n")
	}

	var tricky []string
	for _, ws := range d.Words {
		if len(tricky) == trickyWordsLimit || ws.Misses() == 0 {
			break
		}
		tricky = append(tricky, fmt.Sprintf("%s %d/%d correct, accuracy %d%%",
			FormatBold(ws.Word.Text), ws.Attempts.Correct, ws.Attempts.Attempts, ws.Accuracy))
	}
	if len(tricky) > 0 {
		sb.WriteString("\n" + FormatBold("Tricky words") + "\n" + strings.Join(tricky, "\n") + "\n")
	}

	if len(d.Answers) > 0 {
		lines := make([]string, len(d.Answers))
		for i, a := range d.Answers {
			mark := "❌"
			if a.IsCorrect {
				mark = "✅"
			}
			lines[i] = fmt.Sprintf("%s %s", mark, FormatItalic(a.Answer))
		}
		sb.WriteString("\n" + FormatBold("Last answers") + "\n" + strings.Join(lines, "\n") + "\n")
	}

	return sb.String()
}
