package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validChangelog = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

## [Unreleased]

### Added
- New feature in progress

## [0.2.0] - 2026-08-01

### Added
- Event bookmarks
- Image uploads for events

### Fixed
- Tag filter ignored when combined with search

## [0.1.0] - 2026-06-15

### Added
- Initial release

[Unreleased]: https://github.com/eventdeckhq/eventdeck/compare/v0.2.0...HEAD
[0.2.0]: https://github.com/eventdeckhq/eventdeck/compare/v0.1.0...v0.2.0
[0.1.0]: https://github.com/eventdeckhq/eventdeck/releases/tag/v0.1.0
`

func TestParse(t *testing.T) {
	cl, err := Parse([]byte(validChangelog))
	require.NoError(t, err)
	require.Len(t, cl.Entries, 3)

	versions := make([]string, 0, len(cl.Entries))
	for _, e := range cl.Entries {
		versions = append(versions, e.Version)
	}
	assert.Equal(t, []string{"Unreleased", "0.2.0", "0.1.0"}, versions)

	rel := cl.Entries[1]
	assert.Equal(t, "2026-08-01", rel.Date)
	assert.Equal(t,
		"### Added\n- Event bookmarks\n- Image uploads for events\n\n### Fixed\n- Tag filter ignored when combined with search",
		rel.Content, "entry bodies must cover exactly their own section")
	assert.Empty(t, cl.Entries[0].Date)

	assert.Len(t, cl.Links, 3)
	assert.Equal(t, "https://github.com/eventdeckhq/eventdeck/compare/v0.1.0...v0.2.0", cl.Links["0.2.0"])
}

func TestFindVersion(t *testing.T) {
	cl, err := Parse([]byte(validChangelog))
	require.NoError(t, err)

	for _, tt := range []struct {
		lookup string
		want   string
	}{
		{"0.2.0", "0.2.0"},
		{"v0.2.0", "0.2.0"}, // tag names work too
		{"0.1.0", "0.1.0"},
		{"Unreleased", "Unreleased"},
		{"9.9.9", ""},
	} {
		entry := cl.FindVersion(tt.lookup)
		if tt.want == "" {
			assert.Nil(t, entry, "lookup %q", tt.lookup)
			continue
		}
		require.NotNil(t, entry, "lookup %q", tt.lookup)
		assert.Equal(t, tt.want, entry.Version)
	}
}

func TestLatest(t *testing.T) {
	cl, err := Parse([]byte(validChangelog))
	require.NoError(t, err)

	entry := cl.Latest()
	require.NotNil(t, entry)
	assert.Equal(t, "0.2.0", entry.Version, "Latest skips the unreleased section")
	assert.Equal(t, "2026-08-01", entry.Date)
}

func TestLatestNoReleases(t *testing.T) {
	cl, err := Parse([]byte("# Changelog\n\n## [Unreleased]\n"))
	require.NoError(t, err)
	assert.Nil(t, cl.Latest())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		changelog  string
		wantErrors []string // substrings expected among reported errors, empty means valid
	}{
		{
			name:      "well formed",
			changelog: validChangelog,
		},
		{
			name: "missing title",
			changelog: "## [Unreleased]\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- Organizer pages\n\n" +
				"[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n",
			wantErrors: []string{"Missing changelog title"},
		},
		{
			name: "missing unreleased section",
			changelog: "# Changelog\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- Organizer pages\n\n" +
				"[1.0.0]: https://example.com\n",
			wantErrors: []string{"Missing [Unreleased] section"},
		},
		{
			name: "date not ISO 8601",
			changelog: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 15-01-2026\n\n### Added\n- Organizer pages\n\n" +
				"[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n",
			wantErrors: []string{"ISO 8601"},
		},
		{
			name: "missing release date",
			changelog: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0]\n\n### Added\n- Organizer pages\n\n" +
				"[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n",
			wantErrors: []string{"missing a release date"},
		},
		{
			name: "version not semver",
			changelog: "# Changelog\n\n## [Unreleased]\n\n## [1.0] - 2026-01-15\n\n### Added\n- Organizer pages\n\n" +
				"[Unreleased]: https://example.com\n[1.0]: https://example.com\n",
			wantErrors: []string{"semantic versioning"},
		},
		{
			name:       "unknown change type",
			changelog:  "# Changelog\n\n## [Unreleased]\n\n### New\n- Organizer pages\n\n[Unreleased]: https://example.com\n",
			wantErrors: []string{"Invalid change type"},
		},
		{
			name: "versions out of order",
			changelog: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- Organizer pages\n\n" +
				"## [1.1.0] - 2026-03-01\n\n### Added\n- Misfiled newer release\n\n" +
				"[Unreleased]: https://example.com\n[1.0.0]: https://example.com\n[1.1.0]: https://example.com\n",
			wantErrors: []string{"reverse chronological order"},
		},
		{
			name:      "missing link definitions",
			changelog: "# Changelog\n\n## [Unreleased]\n\n## [1.0.0] - 2026-01-15\n\n### Added\n- Organizer pages\n",
			wantErrors: []string{
				"Missing link definition for [Unreleased]",
				"Missing link definition for version [1.0.0]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate([]byte(tt.changelog))
			if len(tt.wantErrors) == 0 {
				assert.True(t, result.IsValid(), "unexpected errors: %v", result.Errors)
				return
			}
			assert.False(t, result.IsValid())
			for _, want := range tt.wantErrors {
				assert.True(t, reportsError(result, want), "missing %q in errors: %v", want, result.Errors)
			}
		})
	}
}

func reportsError(result *ValidationResult, substr string) bool {
	for _, e := range result.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
