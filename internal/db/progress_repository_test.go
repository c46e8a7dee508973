package db

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ad/go-telegram-wordwizard/internal/models"
	"pgregory.net/rapid"
)

func newProgress(userID int64) *models.GameProgress {
	return &models.GameProgress{
		UserID:         userID,
		CompletedWords: []string{},
		Accuracy:       map[string]float64{},
		Level:          1,
		Badges:         []models.Badge{},
	}
}

func TestProgressLoadMissing(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))
	_, err := repo.Load(42)
	if !errors.Is(err, ErrProgressNotFound) {
		t.Fatalf("expected ErrProgressNotFound, got %v", err)
	}
}

func TestProgressSaveAndLoad(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))

	p := newProgress(7)
	p.CompletedWords = []string{"animal-1", "car-2"}
	p.Accuracy = map[string]float64{"animal-1": 100, "car-2": 50, "car-3": 0}
	p.Badges = []models.Badge{models.BadgeBeginner}
	p.LastPlayed = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := repo.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if p.Revision != 1 {
		t.Errorf("expected revision 1 after insert, got %d", p.Revision)
	}

	loaded, err := repo.Load(7)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.CompletedWords, p.CompletedWords) {
		t.Errorf("completed words: got %v, want %v", loaded.CompletedWords, p.CompletedWords)
	}
	if !reflect.DeepEqual(loaded.Accuracy, p.Accuracy) {
		t.Errorf("accuracy: got %v, want %v", loaded.Accuracy, p.Accuracy)
	}
	if _, ok := loaded.Accuracy["car-3"]; !ok {
		t.Error("zero accuracy entry must survive a round trip")
	}
	if !loaded.LastPlayed.Equal(p.LastPlayed) {
		t.Errorf("last played: got %v, want %v", loaded.LastPlayed, p.LastPlayed)
	}
	if loaded.Revision != 1 {
		t.Errorf("expected loaded revision 1, got %d", loaded.Revision)
	}
}

func TestProgressSaveNilCollections(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))
	p := &models.GameProgress{UserID: 3, Level: 1}
	if err := repo.Save(p); err != nil {
		t.Fatal(err)
	}
	loaded, err := repo.Load(3)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.CompletedWords == nil || loaded.Accuracy == nil || loaded.Badges == nil {
		t.Errorf("expected empty collections, got %+v", loaded)
	}
}

func TestProgressSaveDetectsConflict(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))

	if err := repo.Save(newProgress(1)); err != nil {
		t.Fatal(err)
	}

	first, err := repo.Load(1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := repo.Load(1)
	if err != nil {
		t.Fatal(err)
	}

	first.CompletedWords = append(first.CompletedWords, "animal-1")
	if err := repo.Save(first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	second.CompletedWords = append(second.CompletedWords, "animal-2")
	if err := repo.Save(second); !errors.Is(err, ErrProgressConflict) {
		t.Fatalf("expected ErrProgressConflict, got %v", err)
	}

	stored, err := repo.Load(1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(stored.CompletedWords, []string{"animal-1"}) {
		t.Errorf("stale save leaked through: %v", stored.CompletedWords)
	}
}

func TestProgressInsertTwiceConflicts(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))
	if err := repo.Save(newProgress(5)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(newProgress(5)); !errors.Is(err, ErrProgressConflict) {
		t.Fatalf("expected ErrProgressConflict, got %v", err)
	}
}

func TestProgressGetAll(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))
	for _, id := range []int64{3, 1, 2} {
		if err := repo.Save(newProgress(id)); err != nil {
			t.Fatal(err)
		}
	}
	all, err := repo.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].UserID != 1 || all[2].UserID != 3 {
		t.Errorf("unexpected GetAll result: %+v", all)
	}
}

// Property 8: every successful save advances the revision by exactly one.
func TestProperty8_RevisionAdvances(t *testing.T) {
	repo := NewProgressRepository(setupTestDB(t))
	var userID int64

	rapid.Check(t, func(t *rapid.T) {
		userID++
		saves := rapid.IntRange(1, 6).Draw(t, "saves")
		p := newProgress(userID)
		for i := 0; i < saves; i++ {
			p.CompletedWords = append(p.CompletedWords, rapid.StringMatching(`animal-[0-9]`).Draw(t, "word"))
			if err := repo.Save(p); err != nil {
				t.Fatalf("save %d failed: %v", i, err)
			}
			if p.Revision != int64(i+1) {
				t.Fatalf("expected revision %d, got %d", i+1, p.Revision)
			}
		}
		loaded, err := repo.Load(userID)
		if err != nil {
			t.Fatal(err)
		}
		if loaded.Revision != int64(saves) {
			t.Fatalf("stored revision %d, want %d", loaded.Revision, saves)
		}
	})
}
