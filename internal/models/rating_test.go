package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAspectScores_Valid(t *testing.T) {
	cases := []struct {
		name    string
		scores  AspectScores
		wantErr bool
	}{
		{"single valid aspect", AspectScores{"sincerity": 3}, false},
		{"all aspects at bounds", AspectScores{
			"sincerity": 1, "kindness": 5, "punctuality": 1, "respect": 5, "communication": 3,
		}, false},
		{"unknown aspect", AspectScores{"charisma": 3}, true},
		{"score below minimum", AspectScores{"kindness": 0}, true},
		{"score above maximum", AspectScores{"kindness": 6}, true},
		{"one bad aspect among good", AspectScores{"sincerity": 3, "style": 3}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.scores.Valid()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAspectScores_ValueScanRoundTrip(t *testing.T) {
	in := AspectScores{"sincerity": 4, "respect": 2}

	val, err := in.Value()
	require.NoError(t, err)

	var out AspectScores
	require.NoError(t, out.Scan(val))
	assert.Equal(t, in, out)
}
