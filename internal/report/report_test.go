// ABOUTME: Tests for markdown report content and HTML conversion
// ABOUTME: Builds fixture users and progress records directly

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/math-adventure/internal/catalog"
	"github.com/2389/math-adventure/internal/store"
)

func fixtureUser() *store.User {
	return &store.User{
		ID:         "u1",
		Username:   "alice",
		Level:      2,
		TotalGems:  25,
		TotalStars: 13,
		CreatedAt:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestMarkdown_IncludesQuestsAndBadges(t *testing.T) {
	cat, err := catalog.Builtin()
	require.NoError(t, err)

	record := store.UserProgress{
		UserID: "u1",
		QuestProgress: map[string]store.QuestProgress{
			"counting-meadow": {
				QuestID:        "counting-meadow",
				Status:         store.QuestCompleted,
				Attempts:       1,
				CorrectAnswers: 5,
				TotalAnswers:   5,
			},
		},
		EarnedBadges:  []string{"first-steps"},
		OwnedItems:    []string{"hat-wizard"},
		EquippedItems: []string{"hat-wizard"},
	}

	md := Markdown(fixtureUser(), record, cat)

	assert.Contains(t, md, "# Progress Report: alice")
	assert.Contains(t, md, "Counting in the Meadow")
	assert.Contains(t, md, "completed")
	assert.Contains(t, md, "First Steps")
	assert.Contains(t, md, "1 items owned, 1 equipped")
}

func TestMarkdown_EmptyProgress(t *testing.T) {
	cat, err := catalog.Builtin()
	require.NoError(t, err)

	md := Markdown(fixtureUser(), store.UserProgress{UserID: "u1"}, cat)

	assert.Contains(t, md, "No quests started yet.")
	assert.Contains(t, md, "No badges earned yet.")
}

func TestHTML_ProducesFullPage(t *testing.T) {
	cat, err := catalog.Builtin()
	require.NoError(t, err)

	record := store.UserProgress{
		UserID: "u1",
		QuestProgress: map[string]store.QuestProgress{
			"counting-meadow": {QuestID: "counting-meadow", Status: store.QuestInProgress, Attempts: 1},
		},
	}

	page, err := HTML(fixtureUser(), record, cat)
	require.NoError(t, err)

	html := string(page)
	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<title>Progress Report: alice</title>")
	assert.Contains(t, html, "<h1")
	assert.Contains(t, html, "<table>", "quest table should render as GFM")
}

func TestHTML_EscapesUsername(t *testing.T) {
	cat, err := catalog.Builtin()
	require.NoError(t, err)

	user := fixtureUser()
	user.Username = `<script>alert("hi")</script>`

	page, err := HTML(user, store.UserProgress{UserID: "u1"}, cat)
	require.NoError(t, err)

	html := string(page)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestLevelSummary(t *testing.T) {
	summary := LevelSummary(fixtureUser())
	assert.Contains(t, summary, "level 2")
	assert.Contains(t, summary, "25 gems")
	assert.Contains(t, summary, "13 stars")
}
