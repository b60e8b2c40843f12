package cards

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const catalogYAML = `
cards:
  - id: recruit
    name: Recruit
    type: unit
    cost: 1
    attack: 10
    life: 20
  - codigo: guerreiro
    nome: Guerreiro
    tipo: criatura
    custo: 2
    ataque: 15
    vida: 25
    passiva: perfurar
    passive_amount: 5
  - id: mend
    type: spell
    cost: 2
    effect:
      kind: mend
      heal: 20
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(writeCatalog(t, catalogYAML), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())

	c, ok := cat.Get("guerreiro")
	require.True(t, ok)
	assert.Equal(t, TypeUnit, c.Type)
	assert.Equal(t, PassivePierce, c.Passive)
	assert.Equal(t, 5, c.PassiveAmount)

	all := cat.All()
	require.Len(t, all, 3)
	assert.Equal(t, "recruit", all[0].ID, "load order preserved")
}

func TestLoadCatalogDuplicateID(t *testing.T) {
	dup := `
cards:
  - id: twin
    type: unit
    life: 10
  - id: twin
    type: unit
    life: 10
`
	_, err := LoadCatalog(writeCatalog(t, dup), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "absent.yaml"), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestDeckResolution(t *testing.T) {
	cat, err := LoadCatalog(writeCatalog(t, catalogYAML), zaptest.NewLogger(t))
	require.NoError(t, err)

	deck, err := cat.Deck([]string{"recruit", "recruit", "mend"})
	require.NoError(t, err)
	require.Len(t, deck, 3)
	assert.Equal(t, "recruit", deck[0].ID)
	assert.Equal(t, "recruit", deck[1].ID, "repeats are allowed")

	_, err = cat.Deck([]string{"ghost"})
	assert.Error(t, err)
}
