package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/duelforge/duel-server-go/internal/cards"
)

// Converts a legacy CSV card export into the canonical cards.yaml the server
// loads. The CSV header names may use any of the legacy spellings understood
// by the normalizer; rows that fail normalization abort the import so a bad
// export never produces a half-usable catalog.
//
// Usage: go run scripts/import_cards.go [input.csv] [output.yaml]

func main() {
	csvPath := "data/cards_export.csv"
	outPath := "cards.yaml"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	absPath, err := filepath.Abs(csvPath)
	if err != nil {
		log.Fatalf("Failed to get absolute path: %v", err)
	}

	fmt.Println("=== Card Data Import ===")
	fmt.Printf("CSV file: %s\n", absPath)

	file, err := os.Open(absPath)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatalf("CSV has no data rows")
	}

	header := records[0]
	var out struct {
		Cards []map[string]any `yaml:"cards"`
	}

	for i, row := range records[1:] {
		raw := rowToMap(header, row)

		// Normalize first so malformed rows fail here, not at server boot.
		card, err := cards.Normalize(raw)
		if err != nil {
			log.Fatalf("Row %d: %v", i+2, err)
		}
		out.Cards = append(out.Cards, cardToMap(card))
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		log.Fatalf("Failed to marshal catalog: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", outPath, err)
	}

	fmt.Printf("Imported %d cards into %s\n", len(out.Cards), outPath)
}

// rowToMap zips a CSV row with the header, skipping empty cells so the
// normalizer's alias lookup only sees populated keys. Nested ability and
// spell payloads use dotted headers (ability.kind, spell.heal, ...).
func rowToMap(header, row []string) map[string]any {
	raw := make(map[string]any, len(header))
	for i, key := range header {
		if i >= len(row) {
			break
		}
		val := strings.TrimSpace(row[i])
		if val == "" {
			continue
		}
		key = strings.TrimSpace(key)
		if parent, child, ok := strings.Cut(key, "."); ok {
			sub, _ := raw[parent].(map[string]any)
			if sub == nil {
				sub = make(map[string]any)
				raw[parent] = sub
			}
			sub[child] = val
			continue
		}
		raw[key] = val
	}
	return raw
}

// cardToMap renders a canonical card as the YAML shape LoadCatalog expects,
// omitting zero-valued fields to keep the file reviewable.
func cardToMap(c cards.Card) map[string]any {
	m := map[string]any{
		"id":   c.ID,
		"name": c.Name,
		"type": string(c.Type),
		"cost": c.Cost,
	}
	if c.Attack != 0 {
		m["attack"] = c.Attack
	}
	if c.Defense != 0 {
		m["defense"] = c.Defense
	}
	if c.Life != 0 {
		m["life"] = c.Life
	}
	if c.Passive != cards.PassiveNone {
		m["passive"] = string(c.Passive)
		if c.PassiveAmount != 0 {
			m["passive_amount"] = c.PassiveAmount
		}
	}
	if c.Ability != nil {
		ab := map[string]any{"kind": string(c.Ability.Kind), "limit": c.Ability.Limit}
		if c.Ability.Cost != 0 {
			ab["cost"] = c.Ability.Cost
		}
		if c.Ability.Amount != 0 {
			ab["amount"] = c.Ability.Amount
		}
		if c.Ability.OnSummon {
			ab["on_summon"] = true
		}
		m["ability"] = ab
	}
	if c.Spell != nil {
		sp := map[string]any{"kind": string(c.Spell.Kind)}
		if c.Spell.Stat != "" {
			sp["stat"] = string(c.Spell.Stat)
		}
		if c.Spell.Amount != 0 {
			sp["amount"] = c.Spell.Amount
		}
		if c.Spell.Heal != 0 {
			sp["heal"] = c.Spell.Heal
		}
		if c.Spell.Duration != 0 {
			sp["duration"] = c.Spell.Duration
		}
		if c.Spell.Redirect {
			sp["redirect"] = true
		}
		if c.Spell.Percent != 0 {
			sp["percent"] = c.Spell.Percent
		}
		m["spell"] = sp
	}
	return m
}
