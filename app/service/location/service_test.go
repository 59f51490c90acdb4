package location

import (
	"testing"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) *Service {
	t.Helper()

	svc, err := New(do.New())
	require.NoError(t, err)

	return svc
}

func TestExtractClassification(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantText string
		wantType SpanType
	}{
		{"city with state code", "She lives in Austin, TX now.", "Austin, TX", TypeCity},
		{"city with country", "Flights to Paris, France are cheap.", "Paris, France", TypeCity},
		{"street address", "The office is at 123 Main Street.", "123 Main Street", TypeAddress},
		{"lowercase street suffix", "Ship it to 42 Elm st today.", "42 Elm st", TypeAddress},
		{"landmark keyword", "We climbed Mount Rainier.", "Mount Rainier", TypeLandmark},
		{"abbreviated mount", "We climbed Mt. Fuji.", "Mt. Fuji", TypeLandmark},
		{"state name", "He grew up in Wyoming.", "Wyoming", TypeState},
		{"multi-word state", "They moved to North Carolina.", "North Carolina", TypeState},
		{"country name", "She flew to Japan.", "Japan", TypeCountry},
		{"multi-word country", "Exports to United Kingdom rose.", "United Kingdom", TypeCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spans := newService(t).Extract(tt.text)

			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantText, spans[0].Text)
			assert.Equal(t, tt.wantType, spans[0].Type)
		})
	}
}

func TestExtractDeterminism(t *testing.T) {
	spans := newService(t).Extract("I visited Paris, France and also Lake Tahoe.")

	require.Len(t, spans, 2)
	assert.Equal(t, Span{Text: "Paris, France", Type: TypeCity, Start: 10, End: 23}, spans[0])
	assert.Equal(t, Span{Text: "Lake Tahoe", Type: TypeLandmark, Start: 33, End: 43}, spans[1])
}

func TestExtractOverlapKeepsEarliestStart(t *testing.T) {
	// the address starts before the landmark nested inside it
	spans := newService(t).Extract("The office is at 123 Lake Shore Drive downtown.")

	require.Len(t, spans, 1)
	assert.Equal(t, "123 Lake Shore Drive", spans[0].Text)
	assert.Equal(t, TypeAddress, spans[0].Type)
}

func TestExtractTieBreakPrefersEarlierPattern(t *testing.T) {
	// city and landmark both start at "Lake"; the city pattern runs first
	spans := newService(t).Extract("We hiked around Lake Tahoe, Nevada last summer.")

	require.Len(t, spans, 1)
	assert.Equal(t, "Lake Tahoe, Nevada", spans[0].Text)
	assert.Equal(t, TypeCity, spans[0].Type)
}

func TestExtractOrdersByStart(t *testing.T) {
	spans := newService(t).Extract("From Texas we drove to Denver, Colorado past Lake Powell.")

	require.Len(t, spans, 3)
	assert.Equal(t, "Texas", spans[0].Text)
	assert.Equal(t, TypeState, spans[0].Type)
	assert.Equal(t, "Denver, Colorado", spans[1].Text)
	assert.Equal(t, TypeCity, spans[1].Type)
	assert.Equal(t, "Lake Powell", spans[2].Text)
	assert.Equal(t, TypeLandmark, spans[2].Type)

	for i := 1; i < len(spans); i++ {
		assert.Less(t, spans[i-1].Start, spans[i].Start)
	}
}

func TestExtractStateWhitespaceFlexibility(t *testing.T) {
	spans := newService(t).Extract("Registered in New  York yesterday.")

	require.Len(t, spans, 1)
	assert.Equal(t, "New  York", spans[0].Text)
	assert.Equal(t, TypeState, spans[0].Type)
}

func TestExtractNoMatches(t *testing.T) {
	svc := newService(t)

	assert.Empty(t, svc.Extract(""))
	assert.Empty(t, svc.Extract("nothing geographic in here"))
}
