package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SaveBestScore("2048", 640); err != nil {
		t.Fatalf("SaveBestScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	best, err := store.BestScore("2048")
	if err != nil || best != 640 {
		t.Errorf("BestScore() after reopen = %d, %v; want 640", best, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("2048", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	// Different game
	if _, err := store.SaveScore("other", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].GameID != "2048" {
		t.Errorf("GameID = %q, want 2048", scores[0].GameID)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	// Save 5 scores
	for i := range 5 {
		store.SaveScore("2048", (i+1)*100)
	}

	// Request only top 3
	scores, err := store.TopScores("2048", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No scores yet
	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 300)
	store.SaveScore("2048", 200)

	high, err = store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreBestScore(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore("2048")
	if err != nil || best != 0 {
		t.Fatalf("BestScore() on empty db = %d, %v; want 0", best, err)
	}

	// Best score never goes down
	for _, score := range []int{400, 1200, 800} {
		if err := store.SaveBestScore("2048", score); err != nil {
			t.Fatalf("SaveBestScore(%d) failed: %v", score, err)
		}
	}
	if best, _ := store.BestScore("2048"); best != 1200 {
		t.Errorf("BestScore() = %d, want 1200", best)
	}

	// A higher finished game counts too
	store.SaveScore("2048", 5000)
	if best, _ := store.BestScore("2048"); best != 5000 {
		t.Errorf("BestScore() = %d, want 5000 from scores", best)
	}

	if best, _ := store.BestScore("other"); best != 0 {
		t.Errorf("BestScore(other) = %d, want 0", best)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 200)
	store.SaveBestScore("2048", 300)
	store.SaveScore("other", 300)

	// Clear only 2048 scores
	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	scores, _ := store.TopScores("2048", 10)
	if len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if best, _ := store.BestScore("2048"); best != 0 {
		t.Errorf("BestScore() after clear = %d, want 0", best)
	}

	otherScores, _ := store.TopScores("other", 10)
	if len(otherScores) != 1 {
		t.Errorf("Other scores should not be affected by clearing 2048")
	}
}

func TestStoreSaveSlots(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.LoadGame("2048", "quick"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("LoadGame() on empty slot error = %v, want ErrNotFound", err)
	}

	first := []byte(`{"score":4}`)
	if err := store.SaveGame("2048", "quick", first); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}
	got, err := store.LoadGame("2048", "quick")
	if err != nil || !bytes.Equal(got, first) {
		t.Fatalf("LoadGame() = %s, %v; want %s", got, err, first)
	}

	// Overwrite
	second := []byte(`{"score":128}`)
	if err := store.SaveGame("2048", "quick", second); err != nil {
		t.Fatalf("SaveGame() overwrite failed: %v", err)
	}
	if got, _ := store.LoadGame("2048", "quick"); !bytes.Equal(got, second) {
		t.Errorf("LoadGame() after overwrite = %s, want %s", got, second)
	}

	store.SaveGame("2048", "other", first)
	slots, err := store.ListGames("2048")
	if err != nil {
		t.Fatalf("ListGames() failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("ListGames() returned %d slots, want 2", len(slots))
	}
	for _, sl := range slots {
		if sl.Slot == "quick" && sl.Size != len(second) {
			t.Errorf("quick slot size = %d, want %d", sl.Size, len(second))
		}
	}

	if err := store.DeleteGame("2048", "quick"); err != nil {
		t.Fatalf("DeleteGame() failed: %v", err)
	}
	if _, err := store.LoadGame("2048", "quick"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadGame() after delete error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteGame("2048", "missing"); err != nil {
		t.Errorf("DeleteGame() on missing slot failed: %v", err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.SaveScore("2048", 100)
	store.SaveScore("2048", 300)
	store.SaveBestScore("2048", 2500)
	store.SaveGame("2048", "quick", []byte("{}"))

	stats, err = store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v, want 2 games, high 300, total 400", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.BestScore != 2500 {
		t.Errorf("BestScore = %d, want 2500", stats.BestScore)
	}
	if stats.SavedGames != 1 {
		t.Errorf("SavedGames = %d, want 1", stats.SavedGames)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	store, err := Open("~/.t2048/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	home, _ := os.UserHomeDir()
	if _, err := os.Stat(filepath.Join(home, ".t2048", "test.db")); err != nil {
		t.Errorf("Database file was not created under home: %v", err)
	}
}
