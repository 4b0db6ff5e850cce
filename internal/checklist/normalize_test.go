package checklist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeItemsLegacyStrings(t *testing.T) {
	items, err := DecodeItems([]byte(`["  Review PRs ", "", "   ", "File timesheet"]`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Review PRs", items[0].Label)
	require.Equal(t, "File timesheet", items[1].Label)
	require.Nil(t, items[0].BonusPoints)
}

func TestDecodeItemsObjects(t *testing.T) {
	payload := []byte(`[
		{"text": "Attend standup", "bonusPoints": 2, "finePoints": 1.5},
		{"label": "Legacy labelled item", "bonusCurrency": 250},
		{"text": "No weights here"}
	]`)
	items, err := DecodeItems(payload)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, "Attend standup", items[0].Label)
	require.NotNil(t, items[0].BonusPoints)
	require.Equal(t, 2.0, *items[0].BonusPoints)
	require.NotNil(t, items[0].FinePoints)
	require.Equal(t, 1.5, *items[0].FinePoints)
	require.Nil(t, items[0].BonusAmount)

	require.Equal(t, "Legacy labelled item", items[1].Label)
	require.NotNil(t, items[1].BonusAmount)
	require.Equal(t, 250.0, *items[1].BonusAmount)

	require.Nil(t, items[2].BonusPoints)
	require.Nil(t, items[2].FinePoints)
}

func TestDecodeItemsNonNumericWeightsOmitted(t *testing.T) {
	payload := []byte(`[{"text": "Item", "bonusPoints": "5", "finePoints": null, "fineCurrency": true}]`)
	items, err := DecodeItems(payload)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Nil(t, items[0].BonusPoints, "string numbers are not numeric weights")
	require.Nil(t, items[0].FinePoints)
	require.Nil(t, items[0].FineAmount)
}

func TestDecodeItemsDropsUnusableEntries(t *testing.T) {
	payload := []byte(`[{"bonusPoints": 3}, {"text": "  "}, 42, "Keep me"]`)
	items, err := DecodeItems(payload)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Keep me", items[0].Label)
}

func TestDecodeItemsEmptyPayload(t *testing.T) {
	items, err := DecodeItems(nil)
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = DecodeItems([]byte(`{"not": "a list"}`))
	require.Error(t, err)
}

func TestNormalizeSkills(t *testing.T) {
	out := NormalizeSkills([]string{" React ", "NODE.js", "", "  "})
	require.Equal(t, []string{"react", "node.js"}, out)
}
