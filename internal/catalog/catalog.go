// ABOUTME: Catalog types and TOML loading for items, badges, and quests
// ABOUTME: Ships a builtin embedded catalog with optional directory override

package catalog

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed builtin/*.toml
var builtinFS embed.FS

// Item categories.
const (
	ItemClothing  = "clothing"
	ItemPet       = "pet"
	ItemAccessory = "accessory"
	ItemFurniture = "furniture"
)

// Unlock criterion kinds for badges.
const (
	CriteriaQuestComplete   = "quest_complete"
	CriteriaQuestsCompleted = "quests_completed"
	CriteriaGemsEarned      = "gems_earned"
	CriteriaStarsEarned     = "stars_earned"
)

// Item is a purchasable cosmetic.
type Item struct {
	ID          string `toml:"id"`
	Type        string `toml:"type"`
	Category    string `toml:"category"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	CostGems    int    `toml:"cost_gems"`
	ImageURL    string `toml:"image_url"`
}

// Badge is an earnable achievement.
type Badge struct {
	ID             string         `toml:"id"`
	Name           string         `toml:"name"`
	Description    string         `toml:"description"`
	ImageURL       string         `toml:"image_url"`
	UnlockCriteria UnlockCriteria `toml:"unlock_criteria"`
}

// UnlockCriteria describes when a badge unlocks. Value is a threshold for
// the counting kinds and a quest id for quest_complete.
type UnlockCriteria struct {
	Type  string `toml:"type"`
	Value any    `toml:"value"`
}

// Threshold returns the numeric criterion value, or 0 when it is not a number.
func (c UnlockCriteria) Threshold() int {
	switch v := c.Value.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// QuestID returns the string criterion value, or "" when it is not a string.
func (c UnlockCriteria) QuestID() string {
	s, _ := c.Value.(string)
	return s
}

// Quest is a content unit composed of an ordered sequence of activities.
type Quest struct {
	ID              string       `toml:"id"`
	Name            string       `toml:"name"`
	Description     string       `toml:"description"`
	QuestType       string       `toml:"quest_type"`
	VocabularyTerms []string     `toml:"vocabulary_terms"`
	RewardsGems     int          `toml:"rewards_gems"`
	RewardsStars    int          `toml:"rewards_stars"`
	Content         QuestContent `toml:"content"`
}

// QuestContent holds a quest's activities in play order.
type QuestContent struct {
	Activities []Activity `toml:"activities"`
}

// Activity is one exercise inside a quest.
type Activity struct {
	Type          string   `toml:"type"`
	Instructions  string   `toml:"instructions"`
	CorrectAnswer any      `toml:"correct_answer"`
	Objects       []string `toml:"objects"`
	Options       []Option `toml:"options"`
	Hint          string   `toml:"hint"`
}

// Option is a multiple-choice answer.
type Option struct {
	ID        string `toml:"id"`
	Text      string `toml:"text"`
	IsCorrect bool   `toml:"is_correct"`
}

// Catalog holds the loaded content with id lookup maps.
type Catalog struct {
	Items  []Item
	Badges []Badge
	Quests []Quest

	itemsByID  map[string]Item
	badgesByID map[string]Badge
	questsByID map[string]Quest
}

// catalogFiles maps each catalog section to its TOML file.
type itemsFile struct {
	Items []Item `toml:"items"`
}

type badgesFile struct {
	Badges []Badge `toml:"badges"`
}

type questsFile struct {
	Quests []Quest `toml:"quests"`
}

// Builtin loads the catalog embedded in the binary.
func Builtin() (*Catalog, error) {
	read := func(name string) ([]byte, error) {
		// embed.FS paths always use forward slashes
		return builtinFS.ReadFile("builtin/" + name)
	}
	return load(read)
}

// LoadDir loads a catalog from items.toml, badges.toml, and quests.toml in
// the given directory. An empty dir falls back to the builtin catalog.
func LoadDir(dir string) (*Catalog, error) {
	if dir == "" {
		return Builtin()
	}
	read := func(name string) ([]byte, error) {
		return os.ReadFile(filepath.Join(dir, name))
	}
	return load(read)
}

func load(read func(name string) ([]byte, error)) (*Catalog, error) {
	c := &Catalog{}

	itemsData, err := read("items.toml")
	if err != nil {
		return nil, fmt.Errorf("reading items catalog: %w", err)
	}
	var items itemsFile
	if err := toml.Unmarshal(itemsData, &items); err != nil {
		return nil, fmt.Errorf("parsing items catalog: %w", err)
	}
	c.Items = items.Items

	badgesData, err := read("badges.toml")
	if err != nil {
		return nil, fmt.Errorf("reading badges catalog: %w", err)
	}
	var badges badgesFile
	if err := toml.Unmarshal(badgesData, &badges); err != nil {
		return nil, fmt.Errorf("parsing badges catalog: %w", err)
	}
	c.Badges = badges.Badges

	questsData, err := read("quests.toml")
	if err != nil {
		return nil, fmt.Errorf("reading quests catalog: %w", err)
	}
	var quests questsFile
	if err := toml.Unmarshal(questsData, &quests); err != nil {
		return nil, fmt.Errorf("parsing quests catalog: %w", err)
	}
	c.Quests = quests.Quests

	c.index()
	return c, nil
}

func (c *Catalog) index() {
	c.itemsByID = make(map[string]Item, len(c.Items))
	for _, item := range c.Items {
		c.itemsByID[item.ID] = item
	}
	c.badgesByID = make(map[string]Badge, len(c.Badges))
	for _, badge := range c.Badges {
		c.badgesByID[badge.ID] = badge
	}
	c.questsByID = make(map[string]Quest, len(c.Quests))
	for _, quest := range c.Quests {
		c.questsByID[quest.ID] = quest
	}
}

// Item looks up an item by id.
func (c *Catalog) Item(id string) (Item, bool) {
	item, ok := c.itemsByID[id]
	return item, ok
}

// Badge looks up a badge by id.
func (c *Catalog) Badge(id string) (Badge, bool) {
	badge, ok := c.badgesByID[id]
	return badge, ok
}

// Quest looks up a quest by id.
func (c *Catalog) Quest(id string) (Quest, bool) {
	quest, ok := c.questsByID[id]
	return quest, ok
}
