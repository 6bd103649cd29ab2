// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"faculty-ranking-workers/internal/scoring"
	"faculty-ranking-workers/pkg/registry"
)

const defaultRegistryPath = "pkg/registry/scoring-registry.json"

func main() {
	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "set-weight":
		cmd := flag.NewFlagSet("set-weight", flag.ExitOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		name := cmd.String("criterion", "", "Criterion name (e.g., research)")
		weight := cmd.Float64("weight", -1, "New weight in [0,1]")
		cmd.Parse(os.Args[2:])
		if *name == "" || *weight < 0 {
			fmt.Println("Error: criterion and weight are required for set-weight.")
			cmd.Usage()
			os.Exit(1)
		}
		if err = update(*path, func(reg *registry.ScoringRegistry) error { return setWeight(reg, *name, *weight) }); err == nil {
			fmt.Printf("Set %s weight to %v\n", *name, *weight)
		}

	case "add-university":
		cmd := flag.NewFlagSet("add-university", flag.ExitOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		key := cmd.String("key", "", "Canonical lowercase name (e.g., iit hyderabad)")
		aliases := cmd.String("aliases", "", "Comma-separated alternative names")
		nirf := cmd.Int("nirf", 0, "NIRF rank (0 = unranked)")
		qs := cmd.Int("qs", 0, "QS world rank (0 = unranked)")
		cmd.Parse(os.Args[2:])
		if *key == "" || (*nirf <= 0 && *qs <= 0) {
			fmt.Println("Error: key and at least one of nirf or qs are required for add-university.")
			cmd.Usage()
			os.Exit(1)
		}
		u := registry.University{Key: strings.ToLower(strings.TrimSpace(*key)), Aliases: splitList(*aliases)}
		if *nirf > 0 {
			u.NIRF = nirf
		}
		if *qs > 0 {
			u.QS = qs
		}
		if err = update(*path, func(reg *registry.ScoringRegistry) error { return addUniversity(reg, u) }); err == nil {
			fmt.Printf("Added university: %s\n", u.Key)
		}

	case "update":
		cmd := flag.NewFlagSet("update", flag.ExitOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		id := cmd.String("id", "", "Activity ID to update")
		field := cmd.String("field", "", "Field to update (status, version, etc.)")
		value := cmd.String("value", "", "New value for the field")
		cmd.Parse(os.Args[2:])
		if *id == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			cmd.Usage()
			os.Exit(1)
		}
		if err = update(*path, func(reg *registry.ScoringRegistry) error { return updateActivity(reg, *id, *field, *value) }); err == nil {
			fmt.Printf("Updated activity %s, field %s to %s\n", *id, *field, *value)
		}

	case "validate":
		cmd := flag.NewFlagSet("validate", flag.ExitOnError)
		path := cmd.String("path", defaultRegistryPath, "Path to registry file")
		cmd.Parse(os.Args[2:])
		var reg *registry.ScoringRegistry
		if reg, err = load(*path); err == nil {
			fmt.Printf("Registry validation passed. %d criteria, %d universities, %d activities.\n",
				len(reg.Criteria), len(reg.Universities), len(reg.Activities))
		}

	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// load reads the registry and checks it both structurally and by building the scorers
// the workers would build from it.
func load(path string) (*registry.ScoringRegistry, error) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	if err := check(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func check(reg *registry.ScoringRegistry) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	if _, _, err := scoring.FromRegistry(reg, nil); err != nil {
		return err
	}
	return nil
}

// update applies fn and saves only if the result is still a valid registry.
func update(path string, fn func(*registry.ScoringRegistry) error) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}
	if err := fn(reg); err != nil {
		return err
	}
	if err := check(reg); err != nil {
		return fmt.Errorf("change rejected: %w", err)
	}
	reg.LastUpdated = time.Now().UTC().Format(time.RFC3339)
	return registry.Save(reg, path)
}

func setWeight(reg *registry.ScoringRegistry, name string, weight float64) error {
	for i := range reg.Criteria {
		if reg.Criteria[i].Name == name {
			reg.Criteria[i].Weight = weight
			return nil
		}
	}
	return fmt.Errorf("criterion %s not found", name)
}

func addUniversity(reg *registry.ScoringRegistry, u registry.University) error {
	for _, existing := range reg.Universities {
		if existing.Key == u.Key {
			return fmt.Errorf("university %s already exists", u.Key)
		}
	}
	reg.Universities = append(reg.Universities, u)
	return nil
}

func updateActivity(reg *registry.ScoringRegistry, id, field, value string) error {
	a := findActivity(reg, id)
	if a == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		a.ImplementationStatus = value
	case "version":
		a.Version = value
	case "displayName":
		a.DisplayName = value
	case "description":
		a.Description = value
	case "timeout":
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid timeout value: %w", err)
		}
		a.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		a.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}
	return nil
}

func findActivity(reg *registry.ScoringRegistry, id string) *registry.Activity {
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			return &reg.Activities[i]
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func help() {
	fmt.Print(`
Usage: registry-updater <command> [flags]

Commands:
  set-weight      Change one criterion weight
  add-university  Add an institution to the reputation table
  update          Update an activity's field
  validate        Validate the registry file
  help            Show this help message

Examples:
  registry-updater set-weight -criterion research -weight 0.2
  registry-updater add-university -key "iit hyderabad" -aliases "indian institute of technology hyderabad" -nirf 8
  registry-updater update -id notify-reviewers -field timeout -value 15s
  registry-updater validate -path pkg/registry/scoring-registry.json

Use 'registry-updater <command> -h' for more information about a command.
` + "\n")
}
