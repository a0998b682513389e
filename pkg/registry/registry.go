// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultPath is where the worker manager looks for the registry.
const DefaultPath = "configs/activity-registry.json"

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return &reg, nil
}

// SaveRegistry writes reg to path as indented JSON, creating the directory.
func SaveRegistry(reg *ActivityRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Validate checks required fields and that IDs and task types are unique.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	taskTypes := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if taskTypes[activity.TaskType] {
			return fmt.Errorf("duplicate task type: %s", activity.TaskType)
		}
		taskTypes[activity.TaskType] = true

		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
	}
	return nil
}

// Lookup finds the activity bound to taskType.
func (r *ActivityRegistry) Lookup(taskType string) (Activity, bool) {
	for _, activity := range r.Activities {
		if activity.TaskType == taskType {
			return activity, true
		}
	}
	return Activity{}, false
}

// Unregistered returns the task types from taskTypes the registry does not
// describe, sorted.
func (r *ActivityRegistry) Unregistered(taskTypes []string) []string {
	var missing []string
	for _, taskType := range taskTypes {
		if _, ok := r.Lookup(taskType); !ok {
			missing = append(missing, taskType)
		}
	}
	sort.Strings(missing)
	return missing
}
