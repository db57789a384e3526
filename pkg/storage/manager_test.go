package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trendscout/pkg/models"
)

func sampleRecords() []models.TrendRecord {
	return []models.TrendRecord{
		{
			TrendID: "Cxy123Abc",
			Analysis: models.Analysis{
				ViralityScore:  6.06,
				Type:           "Image",
				EngagementRate: 8.13,
				PostedDate:     "2024-03-15",
			},
			Content: models.Content{
				HookPreview: "Minimalist landing page breakdown — fünf Stück 💡",
				FullCaption: "Minimalist landing page breakdown — fünf Stück 💡 #webdesign",
				Tags:        []string{"#webdesign"},
			},
			Resource: "https://cdn.example.com/p/Cxy123Abc.jpg",
			PostURL:  "https://www.instagram.com/p/Cxy123Abc/",
			Creator:  models.Creator{Username: "studiopixel", Followers: 8000},
			Metrics:  models.Metrics{Likes: 600, Comments: 50},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "trends.json")

	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	records := sampleRecords()
	if err := manager.Save(records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 record, got %d", len(loaded))
	}
	if loaded[0].TrendID != records[0].TrendID {
		t.Errorf("trend id mismatch: %s", loaded[0].TrendID)
	}
	if loaded[0].Analysis.ViralityScore != 6.06 {
		t.Errorf("score mismatch: %v", loaded[0].Analysis.ViralityScore)
	}
	if loaded[0].Content.FullCaption != records[0].Content.FullCaption {
		t.Errorf("caption mismatch: %s", loaded[0].Content.FullCaption)
	}
}

func TestSavePreservesNonASCII(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	records := sampleRecords()
	records[0].Content.FullCaption = "fünf Stück 💡 <design & code>"
	if err := manager.Save(records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot failed: %v", err)
	}

	// Multi-byte and HTML-significant text lands in the file as-is
	if !strings.Contains(string(data), "fünf Stück 💡 <design & code>") {
		t.Error("expected caption text to be stored unescaped")
	}
	if strings.Contains(string(data), "\\u003c") || strings.Contains(string(data), "\\u0026") {
		t.Error("HTML escaping should be disabled")
	}
}

func TestSaveFieldNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := manager.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot failed: %v", err)
	}

	// The snapshot keys are a stable contract with downstream consumers
	for _, key := range []string{
		`"trend_id"`, `"analysis"`, `"virality_score"`, `"engagement_rate"`,
		`"posted_date"`, `"hook_preview"`, `"full_caption"`, `"tags"`,
		`"resource"`, `"post_url"`, `"creator"`, `"followers"`,
		`"metrics"`, `"likes"`, `"comments"`,
	} {
		if !strings.Contains(string(data), key) {
			t.Errorf("snapshot missing key %s", key)
		}
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trends.json")
	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := manager.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after save")
	}
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trends.json")
	manager, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if err := manager.Save(sampleRecords()); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := manager.Save(nil); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := manager.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("expected empty snapshot after overwrite, got %d records", len(loaded))
	}
}
