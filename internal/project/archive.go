// Package project keeps an on-disk archive of built plans so that earlier
// schedules can be listed, reopened and pruned.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/amyrzhang/productionSchedule/internal/export"
	"github.com/amyrzhang/productionSchedule/internal/model"
)

const indexFile = "index.json"

// ArchiveEntry describes one archived plan.
type ArchiveEntry struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	Source    string            `json:"source"` // Order book the plan was built from
	Summary   model.PlanSummary `json:"summary"`
}

// Archive is the index of archived plans, newest first.
type Archive struct {
	Entries []ArchiveEntry `json:"entries"`
}

// Find returns the entry with the given ID, or nil.
func (a *Archive) Find(id string) *ArchiveEntry {
	for i := range a.Entries {
		if a.Entries[i].ID == id {
			return &a.Entries[i]
		}
	}
	return nil
}

// DefaultArchiveDir returns ~/.schedule/plans.
func DefaultArchiveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".schedule", "plans")
}

// LoadArchive reads the archive index in dir.
// If the index does not exist, it returns an empty archive.
func LoadArchive(dir string) (Archive, error) {
	data, err := os.ReadFile(filepath.Join(dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return Archive{Entries: []ArchiveEntry{}}, nil
		}
		return Archive{}, err
	}
	var archive Archive
	if err := json.Unmarshal(data, &archive); err != nil {
		return Archive{}, fmt.Errorf("failed to parse archive index: %w", err)
	}
	if archive.Entries == nil {
		archive.Entries = []ArchiveEntry{}
	}
	return archive, nil
}

func saveArchive(dir string, archive Archive) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, indexFile), data, 0644)
}

// SavePlan writes the plan snapshot to dir and records it in the index.
// Saving a plan whose ID is already archived replaces the earlier entry.
func SavePlan(dir string, plan model.Plan, source string) (ArchiveEntry, error) {
	archive, err := LoadArchive(dir)
	if err != nil {
		return ArchiveEntry{}, err
	}
	if err := export.ExportJSON(planPath(dir, plan.ID), plan); err != nil {
		return ArchiveEntry{}, err
	}

	entry := ArchiveEntry{
		ID:        plan.ID,
		CreatedAt: plan.CreatedAt.UTC().Format(time.RFC3339),
		Source:    source,
		Summary:   plan.Summary(),
	}
	entries := []ArchiveEntry{entry}
	for _, e := range archive.Entries {
		if e.ID != plan.ID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
	archive.Entries = entries

	if err := saveArchive(dir, archive); err != nil {
		return ArchiveEntry{}, err
	}
	return entry, nil
}

// LoadPlan reads an archived plan by ID.
func LoadPlan(dir, id string) (model.Plan, error) {
	archive, err := LoadArchive(dir)
	if err != nil {
		return model.Plan{}, err
	}
	if archive.Find(id) == nil {
		return model.Plan{}, fmt.Errorf("plan %q is not archived", id)
	}
	snapshot, err := export.ImportJSON(planPath(dir, id))
	if err != nil {
		return model.Plan{}, err
	}
	return snapshot.Plan, nil
}

// RemovePlan deletes an archived plan and its index entry.
// It reports whether the plan was archived.
func RemovePlan(dir, id string) (bool, error) {
	archive, err := LoadArchive(dir)
	if err != nil {
		return false, err
	}
	for i, e := range archive.Entries {
		if e.ID != id {
			continue
		}
		archive.Entries = append(archive.Entries[:i], archive.Entries[i+1:]...)
		if err := os.Remove(planPath(dir, id)); err != nil && !os.IsNotExist(err) {
			return false, err
		}
		return true, saveArchive(dir, archive)
	}
	return false, nil
}

func planPath(dir, id string) string {
	return filepath.Join(dir, id+".json")
}
