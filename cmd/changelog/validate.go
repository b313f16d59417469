package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

// ValidationError represents a single validation issue
type ValidationError struct {
	Line    int
	Message string
}

// ValidationResult holds all validation errors
type ValidationResult struct {
	Errors []ValidationError
}

func (r *ValidationResult) AddError(line int, message string) {
	r.Errors = append(r.Errors, ValidationError{Line: line, Message: message})
}

func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a changelog follows Keep a Changelog spec",
	Long: `Validate that a changelog file follows the Keep a Changelog specification.

Checks include:
- File has a title (# Changelog)
- Has an [Unreleased] section
- Version entries use correct format: ## [X.Y.Z] - YYYY-MM-DD
- Dates are in ISO 8601 format (YYYY-MM-DD)
- Versions appear in reverse chronological order
- Change types are valid (Added, Changed, Deprecated, Removed, Fixed, Security)
- Link definitions exist for all versions`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")

		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		result := Validate(content)

		if result.IsValid() {
			fmt.Println("✓ Changelog is valid")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(result.Errors))
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Printf("  Line %d: %s\n", e.Line, e.Message)
			} else {
				fmt.Printf("  %s\n", e.Message)
			}
		}

		os.Exit(1)
		return nil
	},
}

var (
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	versionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
	validTypes   = map[string]bool{
		"Added":      true,
		"Changed":    true,
		"Deprecated": true,
		"Removed":    true,
		"Fixed":      true,
		"Security":   true,
	}
)

// validationState carries the facts accumulated while scanning the file.
type validationState struct {
	hasTitle      bool
	hasUnreleased bool
	versions      map[string]bool
	lastDate      string
}

// Validate checks a changelog against the Keep a Changelog spec
func Validate(source []byte) *ValidationResult {
	result := &ValidationResult{}
	state := &validationState{versions: make(map[string]bool)}
	lines := strings.Split(string(source), "\n")

	for i, line := range lines {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "### "):
			checkChangeType(result, lineNum, trimmed)
		case strings.HasPrefix(trimmed, "## ["):
			checkVersionHeading(result, state, lineNum, trimmed)
		case strings.HasPrefix(trimmed, "# "):
			state.hasTitle = true
			if !strings.Contains(strings.ToLower(trimmed), "changelog") {
				result.AddError(lineNum, "Title should contain 'Changelog'")
			}
		}
	}

	if !state.hasTitle {
		result.AddError(0, "Missing changelog title (# Changelog)")
	}
	if !state.hasUnreleased {
		result.AddError(0, "Missing [Unreleased] section")
	}

	checkLinkDefinitions(result, state, source)

	return result
}

func checkChangeType(result *ValidationResult, lineNum int, trimmed string) {
	changeType := strings.TrimPrefix(trimmed, "### ")
	if !validTypes[changeType] {
		result.AddError(lineNum, fmt.Sprintf("Invalid change type '%s'. Valid types: Added, Changed, Deprecated, Removed, Fixed, Security", changeType))
	}
}

func checkVersionHeading(result *ValidationResult, state *validationState, lineNum int, trimmed string) {
	end := strings.Index(trimmed, "]")
	if end <= 4 {
		return
	}
	version := trimmed[4:end]

	if strings.EqualFold(version, "unreleased") {
		state.hasUnreleased = true
		return
	}
	state.versions[version] = true

	// Check version format
	if !versionRegex.MatchString(version) {
		result.AddError(lineNum, fmt.Sprintf("Version '%s' should follow semantic versioning (X.Y.Z)", version))
	}

	// Check date format
	if !strings.Contains(trimmed, " - ") {
		result.AddError(lineNum, fmt.Sprintf("Version '%s' is missing a release date", version))
		return
	}
	parts := strings.SplitN(trimmed[end+1:], " - ", 2)
	if len(parts) != 2 {
		return
	}
	date := strings.TrimSpace(parts[1])
	if !dateRegex.MatchString(date) {
		result.AddError(lineNum, fmt.Sprintf("Date '%s' should be in ISO 8601 format (YYYY-MM-DD)", date))
		return
	}

	// Entries must run newest to oldest. ISO dates compare lexically.
	if state.lastDate != "" && date > state.lastDate {
		result.AddError(lineNum, fmt.Sprintf("Version '%s' is out of order, entries should be in reverse chronological order", version))
	}
	state.lastDate = date
}

func checkLinkDefinitions(result *ValidationResult, state *validationState, source []byte) {
	changelog, _ := Parse(source)
	if changelog == nil {
		return
	}

	for version := range state.versions {
		if _, ok := changelog.Links[version]; !ok {
			result.AddError(0, fmt.Sprintf("Missing link definition for version [%s]", version))
		}
	}

	if state.hasUnreleased {
		if _, ok := changelog.Links["Unreleased"]; !ok {
			result.AddError(0, "Missing link definition for [Unreleased]")
		}
	}
}

func init() {
	validateCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	rootCmd.AddCommand(validateCmd)
}
