package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/amyrzhang/productionSchedule/internal/model"
)

// SnapshotVersion is written into every plan snapshot.
const SnapshotVersion = "1.0.0"

// PlanSnapshot is the top-level structure of a JSON plan export.
type PlanSnapshot struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Summary   model.PlanSummary `json:"summary"`
	Plan      model.Plan        `json:"plan"`
}

func newSnapshot(plan model.Plan) PlanSnapshot {
	return PlanSnapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Summary:   plan.Summary(),
		Plan:      plan,
	}
}

// WriteJSON writes the plan snapshot as indented JSON to w.
func WriteJSON(w io.Writer, plan model.Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newSnapshot(plan)); err != nil {
		return fmt.Errorf("failed to encode plan snapshot: %w", err)
	}
	return nil
}

// ExportJSON writes the plan and its summary to a JSON file at path.
func ExportJSON(path string, plan model.Plan) error {
	data, err := json.MarshalIndent(newSnapshot(plan), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan snapshot: %w", err)
	}
	return nil
}

// ImportJSON reads a plan snapshot written by ExportJSON.
func ImportJSON(path string) (PlanSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PlanSnapshot{}, fmt.Errorf("failed to read plan snapshot: %w", err)
	}
	var snapshot PlanSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return PlanSnapshot{}, fmt.Errorf("failed to parse plan snapshot: %w", err)
	}
	if snapshot.Version == "" {
		return PlanSnapshot{}, fmt.Errorf("invalid plan snapshot: missing version field")
	}
	if snapshot.Plan.Rows == nil {
		snapshot.Plan.Rows = []model.PlanRow{}
	}
	if snapshot.Plan.Patterns == nil {
		snapshot.Plan.Patterns = []model.Pattern{}
	}
	return snapshot, nil
}
