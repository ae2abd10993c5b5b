// ABOUTME: Subcommand implementations for the adventure CLI
// ABOUTME: Each run* method maps one command onto the component APIs

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fatih/color"

	"github.com/2389/math-adventure/internal/catalog"
	"github.com/2389/math-adventure/internal/report"
	"github.com/2389/math-adventure/internal/store"
)

// defaultConfig is the commented starter config written by init.
const defaultConfig = `# math-adventure configuration
storage:
  # bolt, sqlite, or memory
  driver: bolt
  # empty means the default data directory
  path: ""

catalog:
  # directory with items.toml, badges.toml, quests.toml;
  # empty means the builtin catalog
  dir: ""

logging:
  level: info
  format: text
`

func (a *app) runInit() error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config already exists at %s\n", path)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	color.Green("Wrote default config to %s", path)
	return nil
}

func (a *app) runRegister(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure register <username>")
	}
	username := args[0]

	password, err := promptPassword()
	if err != nil {
		return err
	}

	user, err := a.session.Register(ctx, username, password)
	if errors.Is(err, store.ErrUsernameTaken) {
		return fmt.Errorf("username %q is already taken", username)
	}
	if err != nil {
		return err
	}

	color.Green("Welcome, %s! Your adventure begins at level %d.", user.Username, user.Level)
	return nil
}

func (a *app) runLogin(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure login <username>")
	}
	username := args[0]

	password, err := promptPassword()
	if err != nil {
		return err
	}

	ok, err := a.session.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("invalid username or password")
	}

	color.Green("Welcome back, %s!", a.session.CurrentUser().Username)
	return nil
}

func (a *app) runLogout(ctx context.Context) error {
	if !a.session.IsAuthenticated() {
		fmt.Println("Nobody is logged in.")
		return nil
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *app) runSwitch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure switch <user-id>")
	}

	before := ""
	if user := a.session.CurrentUser(); user != nil {
		before = user.ID
	}

	if err := a.session.SwitchUser(ctx, args[0]); err != nil {
		return err
	}

	user := a.session.CurrentUser()
	if user == nil || user.ID == before && args[0] != before {
		return fmt.Errorf("no user with id %q", args[0])
	}
	color.Green("Switched to %s.", user.Username)
	return nil
}

func (a *app) runUsers(ctx context.Context) error {
	users := a.session.Users(ctx)
	if len(users) == 0 {
		fmt.Println("No players yet. Create one with: adventure register <username>")
		return nil
	}

	current := a.session.CurrentUser()
	for _, u := range users {
		marker := " "
		if current != nil && u.ID == current.ID {
			marker = "*"
		}
		fmt.Printf("%s %-16s level %-3d %s\n", marker, u.Username, u.Level, u.ID)
	}
	return nil
}

func (a *app) runStats(ctx context.Context) error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	fmt.Printf("%s: %s\n", user.Username, report.LevelSummary(user))
	fmt.Printf("Next level in %d stars.\n", a.ledger.StarsToNextLevel())

	completed, err := a.tracker.CompletedCount(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Quests completed: %d of %d.\n", completed, len(a.catalog.Quests))
	return nil
}

func (a *app) runQuests(ctx context.Context) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}

	for _, q := range a.catalog.Quests {
		progress, err := a.tracker.Progress(ctx, q.ID)
		if err != nil {
			return err
		}

		status := "not started"
		detail := ""
		if progress != nil {
			status = string(progress.Status)
			detail = fmt.Sprintf(" (%d/%d correct, %d attempts)",
				progress.CorrectAnswers, progress.TotalAnswers, progress.Attempts)
		}
		fmt.Printf("%-20s %-12s %2d gems, %d stars%s\n",
			q.ID, status, q.RewardsGems, q.RewardsStars, detail)
	}
	return nil
}

func (a *app) runStart(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure start <quest-id>")
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	quest, ok := a.catalog.Quest(args[0])
	if !ok {
		return fmt.Errorf("no quest with id %q", args[0])
	}

	if err := a.tracker.Start(ctx, quest.ID); err != nil {
		return err
	}

	color.Green("Quest started: %s", quest.Name)
	fmt.Println(quest.Description)
	return nil
}

// runUpdate handles both the update and complete commands. Completing a
// quest for the first time pays out its gem and star rewards and re-checks
// every badge.
func (a *app) runUpdate(ctx context.Context, args []string, complete bool) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: adventure %s <quest-id> <correct> <total>",
			map[bool]string{false: "update", true: "complete"}[complete])
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	quest, ok := a.catalog.Quest(args[0])
	if !ok {
		return fmt.Errorf("no quest with id %q", args[0])
	}
	correct, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("correct must be a number: %q", args[1])
	}
	total, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("total must be a number: %q", args[2])
	}

	alreadyCompleted, err := a.tracker.IsCompleted(ctx, quest.ID)
	if err != nil {
		return err
	}

	if err := a.tracker.Update(ctx, quest.ID, correct, total, complete); err != nil {
		return err
	}

	if !complete {
		fmt.Printf("Progress saved: %d/%d on %s.\n", correct, total, quest.Name)
		return nil
	}

	color.Green("Quest completed: %s", quest.Name)

	// Rewards pay out on the first completion only; replays keep their
	// answer counters but earn nothing.
	if !alreadyCompleted {
		if err := a.ledger.AddGems(ctx, quest.RewardsGems); err != nil {
			return err
		}
		levelUp, err := a.ledger.AddStars(ctx, quest.RewardsStars)
		if err != nil {
			return err
		}

		a.notices.ShowSuccess(fmt.Sprintf("You earned %d gems and %d stars!",
			quest.RewardsGems, quest.RewardsStars))
		if levelUp.LeveledUp {
			a.notices.ShowSuccess(fmt.Sprintf("Level up! You reached level %d!", levelUp.NewLevel))
		}

		if err := a.awardEligibleBadges(ctx); err != nil {
			return err
		}
	}

	a.flushNotices()
	return nil
}

// awardEligibleBadges evaluates every catalog badge against the active
// user's state and awards the ones that unlock, queueing a notification
// per award. The quest-based criteria are evaluated here with tracker
// state; the balance-based ones go through the rewards manager.
func (a *app) awardEligibleBadges(ctx context.Context) error {
	for _, badge := range a.catalog.Badges {
		earned, err := a.rewards.HasBadge(ctx, badge.ID)
		if err != nil {
			return err
		}
		if earned {
			continue
		}

		unlock := false
		switch badge.UnlockCriteria.Type {
		case catalog.CriteriaQuestComplete:
			unlock, err = a.tracker.IsCompleted(ctx, badge.UnlockCriteria.QuestID())
		case catalog.CriteriaQuestsCompleted:
			var count int
			count, err = a.tracker.CompletedCount(ctx)
			unlock = count >= badge.UnlockCriteria.Threshold()
		default:
			unlock, err = a.rewards.CheckUnlock(ctx, badge)
		}
		if err != nil {
			return err
		}
		if !unlock {
			continue
		}

		if err := a.rewards.AwardBadge(ctx, badge.ID); err != nil {
			return err
		}
		a.notices.ShowSuccess(fmt.Sprintf("Badge earned: %s — %s", badge.Name, badge.Description))
	}
	return nil
}

func (a *app) runShop(ctx context.Context) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}

	fmt.Printf("Your gems: %d\n\n", a.ledger.TotalGems())
	for _, item := range a.catalog.Items {
		owned, err := a.rewards.Owns(ctx, item.ID)
		if err != nil {
			return err
		}
		equipped, err := a.rewards.IsEquipped(ctx, item.ID)
		if err != nil {
			return err
		}

		state := ""
		if equipped {
			state = " [equipped]"
		} else if owned {
			state = " [owned]"
		}
		fmt.Printf("%-16s %-10s %3d gems  %s%s\n",
			item.ID, item.Type, item.CostGems, item.Name, state)
	}
	return nil
}

func (a *app) runBuy(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure buy <item-id>")
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	item, ok := a.catalog.Item(args[0])
	if !ok {
		return fmt.Errorf("no item with id %q", args[0])
	}

	owned, err := a.rewards.Owns(ctx, item.ID)
	if err != nil {
		return err
	}
	if owned {
		fmt.Printf("You already own %s.\n", item.Name)
		return nil
	}
	if !a.ledger.CanPurchase(item.CostGems) {
		return fmt.Errorf("not enough gems: %s costs %d, you have %d",
			item.Name, item.CostGems, a.ledger.TotalGems())
	}

	bought, err := a.rewards.Purchase(ctx, item)
	if err != nil {
		return err
	}
	if !bought {
		return fmt.Errorf("purchase failed")
	}

	color.Green("You bought %s! Gems left: %d.", item.Name, a.ledger.TotalGems())
	fmt.Println("Equip it with: adventure equip", item.ID)
	return nil
}

func (a *app) runEquip(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure equip <item-id>")
	}
	if _, err := a.requireUser(); err != nil {
		return err
	}

	item, ok := a.catalog.Item(args[0])
	if !ok {
		return fmt.Errorf("no item with id %q", args[0])
	}

	err := a.rewards.Equip(ctx, item.ID)
	if errors.Is(err, store.ErrItemNotOwned) {
		return fmt.Errorf("you don't own %s yet (buy it first)", item.Name)
	}
	if err != nil {
		return err
	}

	equipped, err := a.rewards.IsEquipped(ctx, item.ID)
	if err != nil {
		return err
	}
	if equipped {
		color.Green("Equipped %s.", item.Name)
	} else {
		fmt.Printf("Unequipped %s.\n", item.Name)
	}
	return nil
}

func (a *app) runBadges(ctx context.Context) error {
	if _, err := a.requireUser(); err != nil {
		return err
	}

	for _, badge := range a.catalog.Badges {
		earned, err := a.rewards.HasBadge(ctx, badge.ID)
		if err != nil {
			return err
		}
		marker := " "
		if earned {
			marker = "★"
		}
		fmt.Printf("%s %-16s %s\n", marker, badge.ID, badge.Description)
	}
	return nil
}

func (a *app) runReport(ctx context.Context, args []string) error {
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	record, err := a.store.UserProgress(ctx, user.ID)
	if err != nil {
		return err
	}

	if len(args) > 0 && args[0] == "html" {
		page, err := report.HTML(user, record, a.catalog)
		if err != nil {
			return err
		}
		os.Stdout.Write(page)
		return nil
	}

	fmt.Print(report.Markdown(user, record, a.catalog))
	return nil
}

func (a *app) runExport(ctx context.Context) error {
	payload, err := a.store.ExportData(ctx)
	if err != nil {
		return err
	}
	fmt.Println(string(payload))
	return nil
}

func (a *app) runImport(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: adventure import <file>")
	}

	payload, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading snapshot: %w", err)
	}

	if errImport := a.store.ImportData(ctx, payload); errImport != nil {
		if errors.Is(errImport, store.ErrInvalidData) {
			return fmt.Errorf("snapshot is not valid: %v", errImport)
		}
		return errImport
	}

	// The replaced tables may no longer contain the active user
	a.session.Load(ctx)

	color.Green("Snapshot imported.")
	return nil
}

func (a *app) runReset(ctx context.Context) error {
	fmt.Print("This erases every player and all progress. Type 'yes' to continue: ")
	answer, err := promptLine()
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Reset cancelled.")
		return nil
	}

	if err := a.store.ClearAllData(ctx); err != nil {
		return err
	}
	a.session.Load(ctx)

	color.Yellow("All data erased.")
	return nil
}
