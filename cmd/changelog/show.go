package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
)

var linkDefPattern = regexp.MustCompile(`(?m)^\[[^\]]+\]:\s+\S+\s*$`)

// stripLinkDefinitions removes link definition lines that trail the last
// entry's content.
func stripLinkDefinitions(content string) string {
	lines := strings.Split(content, "\n")
	var result []string
	for _, line := range lines {
		if !linkDefPattern.MatchString(line) {
			result = append(result, line)
		}
	}
	return strings.TrimSpace(strings.Join(result, "\n"))
}

func printEntry(changelog *Changelog, entry *Entry) {
	// Output the version header
	if entry.Date != "" {
		fmt.Printf("## [%s] - %s\n\n", entry.Version, entry.Date)
	} else {
		fmt.Printf("## [%s]\n\n", entry.Version)
	}

	fmt.Print(stripLinkDefinitions(entry.Content))

	// Append the version's link definition if it exists
	if url, ok := changelog.Links[entry.Version]; ok {
		fmt.Printf("\n\n[%s]: %s\n", entry.Version, url)
	}
}

func parseChangelogFile(cmd *cobra.Command) (*Changelog, error) {
	file, _ := cmd.Flags().GetString("file")

	content, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	changelog, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parsing changelog: %w", err)
	}
	return changelog, nil
}

var showCmd = &cobra.Command{
	Use:   "show <version>",
	Short: "Show a version's changelog entry",
	Long: `Show the changelog content for a specific version.

The version may be given with or without a 'v' prefix.

Example:
  changelog show 0.1.0
  changelog show v0.1.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		changelog, err := parseChangelogFile(cmd)
		if err != nil {
			return err
		}

		entry := changelog.FindVersion(args[0])
		if entry == nil {
			return fmt.Errorf("version %s not found in changelog", args[0])
		}

		printEntry(changelog, entry)
		return nil
	},
}

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the most recent released version",
	Long: `Show the entry for the most recent released version, skipping [Unreleased].

Use --version-only to print just the version string, e.g. to drive tagging
in release scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changelog, err := parseChangelogFile(cmd)
		if err != nil {
			return err
		}

		entry := changelog.Latest()
		if entry == nil {
			return fmt.Errorf("no released versions found in changelog")
		}

		versionOnly, _ := cmd.Flags().GetBool("version-only")
		if versionOnly {
			fmt.Println(entry.Version)
			return nil
		}

		printEntry(changelog, entry)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all versions in the changelog",
	Long:  `List all version entries found in a Keep a Changelog file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changelog, err := parseChangelogFile(cmd)
		if err != nil {
			return err
		}

		for _, entry := range changelog.Entries {
			if entry.Date != "" {
				fmt.Printf("%s (%s)\n", entry.Version, entry.Date)
			} else {
				fmt.Println(entry.Version)
			}
		}

		return nil
	},
}

func init() {
	showCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	latestCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")
	latestCmd.Flags().Bool("version-only", false, "Print only the version string")
	listCmd.Flags().StringP("file", "f", "CHANGELOG.md", "Path to the changelog file")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(listCmd)
}
