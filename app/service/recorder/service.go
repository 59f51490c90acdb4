package recorder

import (
	"fmt"
	"log/slog"
	"mematlas/app/service/graph"
	"mematlas/app/service/location"
	"strings"

	"github.com/samber/do"
)

const (
	entityTypeLocation = "location"
	relationMentions   = "mentions_location"
	relationLocatedIn  = "located_in"

	snippetPadding = 20
)

type Service struct {
	graphSvc    *graph.Service
	locationSvc *location.Service
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		graphSvc:    do.MustInvoke[*graph.Service](di),
		locationSvc: do.MustInvoke[*location.Service](di),
	}, nil
}

func (s *Service) Record(text, sourceEntity string) (*Result, error) {
	spans := s.locationSvc.Extract(text)

	entities := make([]*graph.Entity, 0, len(spans))
	relations := make([]*graph.Relation, 0, len(spans))

	for _, span := range spans {
		entities = append(entities, &graph.Entity{
			Name:       span.Text,
			EntityType: entityTypeLocation,
			Observations: []string{
				fmt.Sprintf("Location type: %s", span.Type),
				fmt.Sprintf("Context: %s", snippet(text, span.Start, span.End)),
				fmt.Sprintf("Offsets %d-%d", span.Start, span.End),
			},
		})

		if sourceEntity != "" {
			relations = append(relations, &graph.Relation{
				From:         sourceEntity,
				To:           span.Text,
				RelationType: relationMentions,
			})
		}

		if span.Type != location.TypeCity {
			continue
		}

		parent, ok := cityParent(span.Text)
		if !ok {
			continue
		}

		parentType := "country"
		if len(parent) <= 3 {
			parentType = "state"
		}

		entities = append(entities, &graph.Entity{
			Name:         parent,
			EntityType:   parentType,
			Observations: []string{},
		})
		relations = append(relations, &graph.Relation{
			From:         span.Text,
			To:           parent,
			RelationType: relationLocatedIn,
		})
	}

	addedEntities, err := s.graphSvc.CreateEntities(entities)
	if err != nil {
		return nil, err
	}

	addedRelations, err := s.graphSvc.CreateRelations(relations)
	if err != nil {
		return nil, err
	}

	slog.Info("Recorded locations",
		"spans", len(spans),
		"entities_added", len(addedEntities),
		"relations_added", len(addedRelations),
	)

	return &Result{
		Spans:          spans,
		AddedEntities:  addedEntities,
		AddedRelations: addedRelations,
	}, nil
}

// cityParent splits a "City, Region" span into its region part. Only spans
// with exactly one comma and two non-empty halves qualify.
func cityParent(text string) (string, bool) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return "", false
	}

	city := strings.TrimSpace(parts[0])
	parent := strings.TrimSpace(parts[1])
	if city == "" || parent == "" {
		return "", false
	}

	return parent, true
}

func snippet(text string, start, end int) string {
	from := max(start-snippetPadding, 0)
	to := min(end+snippetPadding, len(text))

	return text[from:to]
}
