package location

import "regexp"

type pattern struct {
	spanType SpanType
	re       *regexp.Regexp
}

// Patterns run in this order; when two spans start at the same offset, the
// earlier pattern wins the tie.
var patterns = []pattern{
	{
		spanType: TypeCity,
		re:       regexp.MustCompile(`[A-Z][a-z]+(?: [A-Z][a-z]+)*,\s*(?:[A-Z]{2}\b|[A-Z][a-z]+(?: [A-Z][a-z]+)*)`),
	},
	{
		spanType: TypeAddress,
		re:       regexp.MustCompile(`\b\d+\s+(?:[A-Z][a-z]+\s+)+(?i:street|st|avenue|ave|road|rd|boulevard|blvd|drive|dr|way|lane|ln)\b`),
	},
	{
		spanType: TypeLandmark,
		re:       regexp.MustCompile(`\b(?:Mount|Mt\.|Lake|River|Park|Bridge|University|Hospital|Airport|Station) [A-Z][a-z]+(?: [A-Z][a-z]+)*`),
	},
	{
		spanType: TypeState,
		re: regexp.MustCompile(`\b(?:Alabama|Alaska|Arizona|Arkansas|California|Colorado|Connecticut|Delaware|Florida|Georgia|Hawaii|Idaho|Illinois|Indiana|Iowa|Kansas|Kentucky|Louisiana|Maine|Maryland|Massachusetts|Michigan|Minnesota|Mississippi|Missouri|Montana|Nebraska|Nevada|New\s+Hampshire|New\s+Jersey|New\s+Mexico|New\s+York|North\s+Carolina|North\s+Dakota|Ohio|Oklahoma|Oregon|Pennsylvania|Rhode\s+Island|South\s+Carolina|South\s+Dakota|Tennessee|Texas|Utah|Vermont|Virginia|Washington|West\s+Virginia|Wisconsin|Wyoming)\b`),
	},
	{
		spanType: TypeCountry,
		re: regexp.MustCompile(`\b(?:United\s+States|United\s+Kingdom|USA|UK|Canada|Mexico|France|Germany|Italy|Spain|Japan|China|India|Australia|Brazil|Russia)\b`),
	},
}
