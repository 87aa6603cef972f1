package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/secmetrics-io/kb4/pkg/kb4"
	"github.com/secmetrics-io/kb4/pkg/kb4client"
)

// Common string constants used throughout the commands package.
const (
	NotAvailable = "N/A"

	// Output formats.
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"

	// JSON formatting.
	defaultJSONIndent = 2
)

// createClient builds a reporting API client from the active viper
// configuration.
func createClient() (kb4.Client, error) {
	config := &kb4.Config{
		APIKey:       viper.GetString("key"),
		Region:       viper.GetString("region"),
		APIEndpoint:  viper.GetString("api"),
		PromptForKey: true,
	}

	if viper.GetBool("verbose") {
		config.Debug = true
		config.Logger = newCLILogger()
	}

	client, err := kb4client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// renderOutput writes data as indented JSON or YAML depending on the
// configured output format. It returns false when the format is tabular so
// callers can render their own table.
func renderOutput(data interface{}) (bool, error) {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(data); err != nil {
			return true, fmt.Errorf("encoding JSON: %w", err)
		}

		return true, nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)
		encoder.SetIndent(defaultJSONIndent)

		if err := encoder.Encode(data); err != nil {
			return true, fmt.Errorf("encoding YAML: %w", err)
		}

		return true, nil
	default:
		return false, nil
	}
}

// parseID parses a positional numeric id argument.
func parseID(arg, what string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s ID %q: %w", what, arg, errInvalidID)
	}

	return id, nil
}

// formatTime renders an optional timestamp for table output.
func formatTime(t *time.Time) string {
	if t == nil {
		return NotAvailable
	}

	return t.Format(time.RFC3339)
}

// formatFloat renders a score with one decimal.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// groupNames renders hydrated group references as a comma-joined name list.
func groupNames(refs []kb4.GroupRef) string {
	if len(refs) == 0 {
		return NotAvailable
	}

	names := ""

	for i, ref := range refs {
		if i > 0 {
			names += ", "
		}

		if ref.Resolved() {
			names += ref.Group.Name
		} else {
			names += strconv.Itoa(ref.ID)
		}
	}

	return names
}
