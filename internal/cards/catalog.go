package cards

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Catalog holds the canonical card definitions for a server instance.
type Catalog struct {
	byID  map[string]Card
	order []string
}

// LoadCatalog reads a YAML card file, normalizes every entry and returns the
// catalog. Duplicate ids are an error.
func LoadCatalog(path string, logger *zap.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card file: %w", err)
	}

	var doc struct {
		Cards []map[string]any `yaml:"cards"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing card file %s: %w", path, err)
	}

	cat := &Catalog{byID: make(map[string]Card, len(doc.Cards))}
	for i, raw := range doc.Cards {
		card, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("card entry %d: %w", i, err)
		}
		if _, dup := cat.byID[card.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %s", card.ID)
		}
		cat.byID[card.ID] = card
		cat.order = append(cat.order, card.ID)
	}

	if logger != nil {
		logger.Info("card catalog loaded",
			zap.String("path", path),
			zap.Int("cards", len(cat.byID)),
		)
	}
	return cat, nil
}

// NewCatalog builds a catalog from already-canonical cards. Used by tests and
// by callers that supply definitions from elsewhere.
func NewCatalog(cards []Card) (*Catalog, error) {
	cat := &Catalog{byID: make(map[string]Card, len(cards))}
	for _, c := range cards {
		if c.ID == "" {
			return nil, fmt.Errorf("card with empty id")
		}
		if _, dup := cat.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %s", c.ID)
		}
		cat.byID[c.ID] = c
		cat.order = append(cat.order, c.ID)
	}
	return cat, nil
}

// Get returns the card definition for id.
func (c *Catalog) Get(id string) (Card, bool) {
	card, ok := c.byID[id]
	return card, ok
}

// Len returns the number of cards in the catalog.
func (c *Catalog) Len() int { return len(c.byID) }

// All returns every card in load order.
func (c *Catalog) All() []Card {
	out := make([]Card, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Deck resolves a list of card ids into card definitions, preserving order
// and allowing repeats. Unknown ids are an error.
func (c *Catalog) Deck(ids []string) ([]Card, error) {
	deck := make([]Card, 0, len(ids))
	for _, id := range ids {
		card, ok := c.byID[id]
		if !ok {
			return nil, fmt.Errorf("unknown card id %s", id)
		}
		deck = append(deck, card)
	}
	return deck, nil
}
