package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResult(t *testing.T) {
	res, err := parseResult(`{"medicines":["Paracetamol 500mg","Ibuprofen 200mg"],"warning":"See a doctor if the fever persists."}`)
	require.NoError(t, err)
	require.Equal(t, []string{"Paracetamol 500mg", "Ibuprofen 200mg"}, res.Medicines)
	require.Equal(t, "See a doctor if the fever persists.", res.Warning)
}

func TestParseResultFenced(t *testing.T) {
	res, err := parseResult("```json\n{\"medicines\":[\"Antacid Tablets\"]}\n```")
	require.NoError(t, err)
	require.Equal(t, []string{"Antacid Tablets"}, res.Medicines)
	require.Empty(t, res.Warning)
}

func TestParseResultEmptyList(t *testing.T) {
	res, err := parseResult(`{"medicines":null}`)
	require.NoError(t, err)
	require.NotNil(t, res.Medicines)
	require.Empty(t, res.Medicines)
}

func TestParseResultGarbage(t *testing.T) {
	_, err := parseResult("sorry, I cannot help with that")
	require.Error(t, err)
}
