package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDestinationCatalog(t *testing.T) {
	catalog := DefaultDestinationCatalog()

	assert.Equal(t, "Barcelona", catalog.Default)
	assert.Equal(t, map[string]string{
		"relaxation": "Bali",
		"adventure":  "Cape Town",
		"romantic":   "Paris",
		"budget":     "Bangkok",
		"luxury":     "Dubai",
	}, catalog.Destinations)
}

func TestLoadDestinationCatalog(t *testing.T) {
	catalog, err := LoadDestinationCatalog([]byte("default: Lisbon\ndestinations:\n  Ski: Zermatt\n"))
	require.NoError(t, err)

	recs := catalog.Recommend(" ski ", "3000 EUR").Recommendations
	require.Len(t, recs, 1)
	assert.Equal(t, "Zermatt", recs[0].Place)
	assert.Equal(t, "Great for ski trips", recs[0].Reason)
	assert.Equal(t, "3000 EUR", recs[0].EstimatedBudget)

	assert.Equal(t, "Lisbon", catalog.Recommend("romantic", "").Recommendations[0].Place)
}

func TestLoadDestinationCatalog_Invalid(t *testing.T) {
	_, err := LoadDestinationCatalog([]byte("destinations:\n  ski: Zermatt\n"))
	assert.Error(t, err)

	_, err = LoadDestinationCatalog([]byte("default: [unclosed"))
	assert.Error(t, err)
}
