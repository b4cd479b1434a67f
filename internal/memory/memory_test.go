package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

func record(cluster string, duration int64) models.PerformanceRecord {
	return models.PerformanceRecord{
		Timestamp: time.Now(),
		AgentID:   "agent_one",
		TaskID:    "task0001",
		Duration:  duration,
		Success:   true,
		Cluster:   cluster,
	}
}

func TestSessionIsProcessLocal(t *testing.T) {
	s := NewStore()
	s.SetSession("key", "value")

	if v, ok := s.Session("key"); !ok || v != "value" {
		t.Errorf("Session = %v/%v, expected value/true", v, ok)
	}
	if _, ok := s.Session("missing"); ok {
		t.Error("expected missing key to report absent")
	}
}

func TestAppendPerformanceTruncation(t *testing.T) {
	s := NewStore()
	for i := 0; i < 1001; i++ {
		s.AppendPerformance(record("coding", int64(i)))
	}

	log := s.PerformanceLog()
	if len(log) != 500 {
		t.Fatalf("log = %d records, expected overflow to keep 500", len(log))
	}
	// The newest records survive.
	if log[0].Duration != 501 || log[len(log)-1].Duration != 1000 {
		t.Errorf("retained window [%d..%d], expected [501..1000]",
			log[0].Duration, log[len(log)-1].Duration)
	}
}

func TestClusterAvgDuration(t *testing.T) {
	s := NewStore()

	if _, ok := s.ClusterAvgDuration("coding"); ok {
		t.Error("expected no average for empty cluster")
	}

	s.AppendPerformance(record("coding", 100))
	s.AppendPerformance(record("coding", 200))
	s.AppendPerformance(record("devops", 900))

	avg, ok := s.ClusterAvgDuration("coding")
	if !ok || avg != 150 {
		t.Errorf("avg = %v/%v, expected 150/true", avg, ok)
	}
}

func TestRecordPatternDeduplicates(t *testing.T) {
	s := NewStore()

	s.RecordPattern("code:medium", "works well", 0.9, 120)
	s.RecordPattern("code:medium", "works well", 0.95, 110)
	s.RecordPattern("fast_execution:code", "fast", 0.9, 50)

	if _, patterns, _ := s.Sizes(); patterns != 2 {
		t.Fatalf("patterns = %d, expected 2 distinct keys", patterns)
	}

	p := s.Pattern("code:medium")
	if p.AppliedCount != 2 {
		t.Errorf("appliedCount = %d, expected 2", p.AppliedCount)
	}
	if p.LastApplied == nil {
		t.Error("expected LastApplied set after second recording")
	}
	if p.Quality != 0.95 {
		t.Errorf("quality = %v, expected refreshed to 0.95", p.Quality)
	}

	order := s.Patterns()
	if order[0].Key != "code:medium" || order[1].Key != "fast_execution:code" {
		t.Errorf("pattern order = %v, expected discovery order", []string{order[0].Key, order[1].Key})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "memory.json")

	s := NewStore()
	s.SetSession("ephemeral", "secret")
	s.AppendPerformance(record("coding", 100))
	s.RecordPattern("code:simple", "quick wins", 0.9, 80)
	s.StoreSolution(models.TaskSolution{
		TaskDescription: "build a parser",
		Solution:        `{"quality":0.9}`,
		StoredAt:        time.Now(),
	})

	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := NewStore()
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	performance, patterns, solutions := loaded.Sizes()
	if performance != 1 || patterns != 1 || solutions != 1 {
		t.Errorf("sizes = %d/%d/%d, expected 1/1/1", performance, patterns, solutions)
	}

	// Session memory never crosses a snapshot.
	if _, ok := loaded.Session("ephemeral"); ok {
		t.Error("session data leaked into the snapshot")
	}

	if p := loaded.Pattern("code:simple"); p == nil || p.AppliedCount != 1 {
		t.Errorf("pattern = %+v, expected restored ledger entry", p)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	s := NewStore()
	if err := s.Load(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Errorf("Load of missing snapshot = %v, expected nil", err)
	}
}

func TestLoadRejectsCorruptSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := NewStore().Load(path); err == nil {
		t.Error("expected error for corrupt snapshot")
	}
}
