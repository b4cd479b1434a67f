package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ebuckley/cascade/pkg/models"
)

// snapshot is the on-disk JSON document. Session memory is never included.
type snapshot struct {
	PerformanceMemory []models.PerformanceRecord `json:"performanceMemory"`
	SkillEvolution    []models.Pattern           `json:"skillEvolution"`
	VectorMemory      []models.TaskSolution      `json:"vectorMemory"`
	SavedAt           int64                      `json:"savedAt"`
}

// Save writes the persisted layers to a single JSON document at path,
// creating parent directories as needed.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	snap := snapshot{
		PerformanceMemory: append([]models.PerformanceRecord(nil), s.performance...),
		SkillEvolution:    make([]models.Pattern, 0, len(s.patternOrder)),
		VectorMemory:      append([]models.TaskSolution(nil), s.solutions...),
		SavedAt:           time.Now().UnixMilli(),
	}
	for _, key := range s.patternOrder {
		snap.SkillEvolution = append(snap.SkillEvolution, *s.patterns[key])
	}
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load replaces the persisted layers with the snapshot at path.
// A missing file is not an error; the store starts fresh.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.performance = snap.PerformanceMemory
	s.solutions = snap.VectorMemory
	s.patterns = make(map[string]*models.Pattern, len(snap.SkillEvolution))
	s.patternOrder = s.patternOrder[:0]
	for i := range snap.SkillEvolution {
		p := snap.SkillEvolution[i]
		s.patterns[p.Key] = &p
		s.patternOrder = append(s.patternOrder, p.Key)
	}
	return nil
}
