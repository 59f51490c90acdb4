package location

type SpanType string

const (
	TypeCity     SpanType = "city"
	TypeAddress  SpanType = "address"
	TypeLandmark SpanType = "landmark"
	TypeState    SpanType = "state"
	TypeCountry  SpanType = "country"
)

// Span is a single location mention found in a text. Start and End are
// byte offsets into the scanned string, End exclusive.
type Span struct {
	Text  string   `json:"text"`
	Type  SpanType `json:"type"`
	Start int      `json:"start"`
	End   int      `json:"end"`
}
