// ABOUTME: Markdown progress report generation with HTML conversion via goldmark
// ABOUTME: Summarizes level, balances, quest progress, badges, and owned items

package report

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/math-adventure/internal/catalog"
	"github.com/2389/math-adventure/internal/ledger"
	"github.com/2389/math-adventure/internal/store"
)

// Markdown renders the progress report for one user as markdown.
func Markdown(user *store.User, record store.UserProgress, cat *catalog.Catalog) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Progress Report: %s\n\n", user.Username)
	fmt.Fprintf(&b, "**Level %d** — %d gems, %d stars (%d stars to the next level)\n\n",
		user.Level, user.TotalGems, user.TotalStars,
		10-user.TotalStars%10)

	b.WriteString("## Quests\n\n")
	if len(record.QuestProgress) == 0 {
		b.WriteString("No quests started yet.\n\n")
	} else {
		b.WriteString("| Quest | Status | Correct | Attempts |\n")
		b.WriteString("|-------|--------|---------|----------|\n")
		for _, quest := range cat.Quests {
			progress, ok := record.QuestProgress[quest.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %d/%d | %d |\n",
				quest.Name, progress.Status,
				progress.CorrectAnswers, progress.TotalAnswers,
				progress.Attempts)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Badges\n\n")
	if len(record.EarnedBadges) == 0 {
		b.WriteString("No badges earned yet.\n\n")
	} else {
		for _, id := range record.EarnedBadges {
			if badge, ok := cat.Badge(id); ok {
				fmt.Fprintf(&b, "- **%s** — %s\n", badge.Name, badge.Description)
			} else {
				fmt.Fprintf(&b, "- %s\n", id)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Collection\n\n")
	fmt.Fprintf(&b, "%d items owned, %d equipped.\n",
		len(record.OwnedItems), len(record.EquippedItems))

	return b.String()
}

// LevelSummary is a one-line summary suitable for CLI output.
func LevelSummary(user *store.User) string {
	return fmt.Sprintf("level %d, %d gems, %d stars (%.0f%% to level %d)",
		user.Level, user.TotalGems, user.TotalStars,
		float64(user.TotalStars%10)/10*100,
		ledger.LevelForStars(user.TotalStars)+1)
}

// HTML converts the markdown report into a standalone HTML page.
func HTML(user *store.User, record store.UserProgress, cat *catalog.Catalog) ([]byte, error) {
	md := Markdown(user, record, cat)

	// GFM for the quest table
	md2html := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md2html.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("converting report markdown: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	page.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>Progress Report: %s</title>\n", html.EscapeString(user.Username))
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")

	return page.Bytes(), nil
}
