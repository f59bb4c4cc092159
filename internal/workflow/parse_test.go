package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxislabs/sdlcwiz/internal/quality"
)

func TestParseStories(t *testing.T) {
	t.Parallel()

	text := `1. As a user, I want to create tasks, so that I stay organized

- As a user, I want to delete tasks, so that old work disappears
* As an admin, I want reports, so that I can track usage
`
	got := ParseStories(text)
	require.Len(t, got, 3)
	assert.Equal(t, "As a user, I want to create tasks, so that I stay organized", got[0])
	assert.Equal(t, "As an admin, I want reports, so that I can track usage", got[2])

	assert.Empty(t, ParseStories("   \n\n  "))
}

func TestParseDesign(t *testing.T) {
	t.Parallel()

	text := `# Task Tracker Design

## Functional Design
- Users create and update tasks
- Users register accounts

## Technical Design
- REST API with token authentication
- SQLite storage schema

## Assumptions
- Single region deployment
`
	doc := ParseDesign(text)
	require.NotNil(t, doc)
	assert.Len(t, doc.Functional, 2)
	assert.Len(t, doc.Technical, 2)
	assert.Equal(t, []string{"Single region deployment"}, doc.Assumptions)
}

func TestParseDesignUnstructured(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ParseDesign("just a wall of prose with no headings"))
}

func TestBuildArtifact(t *testing.T) {
	t.Parallel()

	stories := buildArtifact(quality.KindStories, "1. As a user, I want things", "python")
	assert.Len(t, stories.Stories, 1)
	assert.Empty(t, stories.Language)

	code := buildArtifact(quality.KindCode, "def main(): pass", "python")
	assert.Equal(t, "python", code.Language)
	assert.Nil(t, code.Design)

	design := buildArtifact(quality.KindDesign, "## Functional Design\n- a thing", "python")
	require.NotNil(t, design.Design)
	assert.Equal(t, []string{"a thing"}, design.Design.Functional)
}
