package recorder

import (
	"mematlas/app/service/graph"
	"mematlas/app/service/location"
)

type Result struct {
	Spans          []location.Span   `json:"spans"`
	AddedEntities  []*graph.Entity   `json:"addedEntities"`
	AddedRelations []*graph.Relation `json:"addedRelations"`
}
