package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastellan/enhancer/internal/adapters/catalog"
)

const fixture = `{
	"version": "2026-08-01",
	"items": [
		{
			"id": "iron_sword",
			"name": "Iron Sword",
			"item_level": 10,
			"enhancement_materials": [
				{"item_id": "whetstone", "count": 1},
				{"item_id": "iron_bar", "count": 2}
			],
			"protection_items": ["sword_guard"]
		},
		{
			"id": "whetstone",
			"name": "Whetstone",
			"item_level": 1
		},
		{
			"id": "",
			"name": "corrupt entry"
		}
	],
	"recipes": [
		{
			"outputs": [{"item_id": "iron_sword", "count": 1}],
			"inputs": [{"item_id": "iron_bar", "count": 6}],
			"upgrade_item_id": "bronze_sword"
		},
		{
			"outputs": [{"item_id": "whetstone", "count": 5}],
			"inputs": [
				{"item_id": "rough_stone", "count": 2},
				{"item_id": "", "count": 9}
			]
		},
		{
			"outputs": [{"item_id": "whetstone", "count": 99}],
			"inputs": [{"item_id": "should_be_ignored", "count": 1}]
		}
	]
}`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCatalog_LoadsItemsAndMaterials(t *testing.T) {
	cat, err := catalog.NewFileCatalog(writeCatalog(t, fixture))
	require.NoError(t, err)

	item, ok := cat.Item("iron_sword")
	require.True(t, ok)
	assert.Equal(t, "Iron Sword", item.Name)
	assert.Equal(t, 10, item.Level)

	mats := cat.EnhancementMaterials("iron_sword")
	require.Len(t, mats, 2)
	assert.Equal(t, "whetstone", mats[0].ItemID)
	assert.InDelta(t, 2.0, mats[1].Count, 0.001)

	assert.Equal(t, []string{"sword_guard"}, cat.ProtectionOptions("iron_sword"))

	// El whetstone no tiene materiales → no es mejorable
	assert.Empty(t, cat.EnhancementMaterials("whetstone"))
	assert.Equal(t, []string{"iron_sword"}, cat.EnhanceableItems())
}

func TestFileCatalog_SkipsEntriesWithoutID(t *testing.T) {
	cat, err := catalog.NewFileCatalog(writeCatalog(t, fixture))
	require.NoError(t, err)

	// 3 entries en el fixture, una sin ID
	assert.Equal(t, 2, cat.Len())
	_, ok := cat.Item("")
	assert.False(t, ok)
}

func TestFileCatalog_RecipeByFirstOutput(t *testing.T) {
	cat, err := catalog.NewFileCatalog(writeCatalog(t, fixture))
	require.NoError(t, err)

	recipe, ok := cat.Recipe("iron_sword")
	require.True(t, ok)
	assert.Equal(t, "bronze_sword", recipe.UpgradeItemID)
	assert.InDelta(t, 1.0, recipe.OutputCount, 0.001)
	require.Len(t, recipe.Inputs, 1)
	assert.Equal(t, "iron_bar", recipe.Inputs[0].ItemID)
}

func TestFileCatalog_DuplicateRecipeFirstWins(t *testing.T) {
	cat, err := catalog.NewFileCatalog(writeCatalog(t, fixture))
	require.NoError(t, err)

	recipe, ok := cat.Recipe("whetstone")
	require.True(t, ok)
	assert.InDelta(t, 5.0, recipe.OutputCount, 0.001)

	// El input vacío del fixture se descarta
	require.Len(t, recipe.Inputs, 1)
	assert.Equal(t, "rough_stone", recipe.Inputs[0].ItemID)
}

func TestFileCatalog_MissingFile(t *testing.T) {
	_, err := catalog.NewFileCatalog(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFileCatalog_MalformedJSON(t *testing.T) {
	_, err := catalog.NewFileCatalog(writeCatalog(t, `{"items": [`))
	assert.Error(t, err)
}
