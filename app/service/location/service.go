package location

import (
	"sort"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

func (s *Service) Extract(text string) []Span {
	pool := make([]Span, 0)

	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			pool = append(pool, Span{
				Text:  strings.TrimSpace(text[loc[0]:loc[1]]),
				Type:  p.spanType,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Start < pool[j].Start
	})

	kept := make([]Span, 0, len(pool))
	for _, span := range pool {
		if overlapsAny(kept, span) {
			continue
		}
		kept = append(kept, span)
	}

	return kept
}

func overlapsAny(kept []Span, s Span) bool {
	return pie.Any(kept, func(k Span) bool {
		return s.Start < k.End && k.Start < s.End
	})
}
