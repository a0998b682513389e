// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"purpose-workers/internal/common/errors"
	"purpose-workers/pkg/registry"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now func() time.Time) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "list":
		return listCmd(args[1:], out)
	case "update":
		return updateCmd(args[1:], out, now)
	case "validate":
		return validateCmd(args[1:], out)
	case "help", "-h", "--help":
		help(out)
		return nil
	default:
		help(out)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func listCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	for _, activity := range reg.Activities {
		fmt.Fprintf(out, "%-28s %-8s %-4s retries=%d %s\n",
			activity.TaskType, activity.Timeout, activity.Version, activity.Retries, strings.Join(activity.ErrorCodes, ","))
	}
	return nil
}

func updateCmd(args []string, out io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	id := fs.String("id", "", "Activity ID to update")
	field := fs.String("field", "", "Field to update (version, displayName, description, timeout, retries)")
	value := fs.String("value", "", "New value for the field")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *field == "" || *value == "" {
		fs.Usage()
		return fmt.Errorf("id, field, and value are required for update")
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	idx := -1
	for i := range reg.Activities {
		if reg.Activities[i].ID == *id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("activity with ID %s not found", *id)
	}

	activity := &reg.Activities[idx]
	switch *field {
	case "version":
		activity.Version = *value
	case "displayName":
		activity.DisplayName = *value
	case "description":
		activity.Description = *value
	case "timeout":
		if _, err := time.ParseDuration(*value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		activity.Timeout = *value
	case "retries":
		retries, err := strconv.Atoi(*value)
		if err != nil || retries < 0 {
			return fmt.Errorf("invalid retries value %q", *value)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", *field)
	}

	reg.LastUpdated = now().UTC().Format(time.RFC3339)
	if err := registry.SaveRegistry(reg, *path); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *id, *field, *value)
	return nil
}

// validateCmd runs the structural checks and also requires every declared
// error code to be one the workers can throw.
func validateCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	path := fs.String("path", registry.DefaultPath, "Path to registry file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg, err := registry.LoadRegistry(*path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("registry validation failed: %w", err)
	}
	for _, activity := range reg.Activities {
		if _, err := time.ParseDuration(activity.Timeout); err != nil {
			return fmt.Errorf("activity %s has invalid timeout %q", activity.ID, activity.Timeout)
		}
		for _, code := range activity.ErrorCodes {
			if _, ok := errors.BPMNErrorMapping[errors.ErrorCode(code)]; !ok {
				return fmt.Errorf("activity %s declares unknown error code %s", activity.ID, code)
			}
		}
	}

	fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
	return nil
}

func help(out io.Writer) {
	fmt.Fprint(out, `
Usage: registry-updater <command> [flags]

Commands:
  list     Print every activity with its timeout and error codes
  update   Update an existing activity's field
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater list
  registry-updater update -id score-submission -field timeout -value 8s
  registry-updater validate -path configs/activity-registry.json
`)
}
