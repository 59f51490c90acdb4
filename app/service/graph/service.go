package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mematlas/app/config"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/elliotchance/pie/v2"
	"github.com/samber/do"
)

type Service struct {
	storage Storage
	mu      sync.RWMutex
}

func New(di *do.Injector) (*Service, error) {
	cfg := do.MustInvoke[*config.Config](di)

	_ = os.MkdirAll(filepath.Dir(cfg.Storage.File), 0755)

	return NewWithStorage(NewFileStorage(cfg.Storage.File)), nil
}

func NewWithStorage(storage Storage) *Service {
	return &Service{storage: storage}
}

func (s *Service) loadGraph() (*KnowledgeGraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	graph := &KnowledgeGraph{
		Entities:  []*Entity{},
		Relations: []*Relation{},
	}

	data, err := s.storage.Read()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return graph, nil
		}
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item jsonLineItem
		if err = json.Unmarshal([]byte(line), &item); err != nil {
			return nil, fmt.Errorf("failed to parse JSON line: %w", err)
		}

		switch item.Type {
		case lineTypeEntity:
			observations := item.Observations
			if observations == nil {
				observations = []string{}
			}
			graph.Entities = append(graph.Entities, &Entity{
				Name:         item.Name,
				EntityType:   item.EntityType,
				Observations: observations,
			})
		case lineTypeRelation:
			graph.Relations = append(graph.Relations, &Relation{
				From:         item.From,
				To:           item.To,
				RelationType: item.RelationType,
			})
		}
	}

	return graph, nil
}

func (s *Service) saveGraph(graph *KnowledgeGraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]string, 0, len(graph.Entities)+len(graph.Relations))

	for _, e := range graph.Entities {
		data, err := json.Marshal(jsonLineItem{
			Type:         lineTypeEntity,
			Name:         e.Name,
			EntityType:   e.EntityType,
			Observations: e.Observations,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal entity: %w", err)
		}
		lines = append(lines, string(data))
	}

	for _, r := range graph.Relations {
		data, err := json.Marshal(jsonLineItem{
			Type:         lineTypeRelation,
			From:         r.From,
			To:           r.To,
			RelationType: r.RelationType,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal relation: %w", err)
		}
		lines = append(lines, string(data))
	}

	if err := s.storage.Write([]byte(strings.Join(lines, "\n"))); err != nil {
		return fmt.Errorf("failed to write graph file: %w", err)
	}

	return nil
}

func (s *Service) CreateEntities(entities []*Entity) ([]*Entity, error) {
	graph, err := s.loadGraph()
	if err != nil {
		return nil, err
	}

	existing := make(map[string]bool, len(graph.Entities))
	for _, e := range graph.Entities {
		existing[e.Name] = true
	}

	added := []*Entity{}
	for _, e := range entities {
		if existing[e.Name] {
			continue
		}
		if e.Observations == nil {
			e.Observations = []string{}
		}
		added = append(added, e)
	}

	graph.Entities = append(graph.Entities, added...)

	if err = s.saveGraph(graph); err != nil {
		return nil, err
	}

	slog.Info("Created entities",
		"requested", len(entities),
		"added", len(added),
	)

	return added, nil
}

func (s *Service) CreateRelations(relations []*Relation) ([]*Relation, error) {
	graph, err := s.loadGraph()
	if err != nil {
		return nil, err
	}

	existing := make(map[Relation]bool, len(graph.Relations))
	for _, r := range graph.Relations {
		existing[*r] = true
	}

	added := []*Relation{}
	for _, r := range relations {
		if existing[*r] {
			continue
		}
		added = append(added, r)
	}

	graph.Relations = append(graph.Relations, added...)

	if err = s.saveGraph(graph); err != nil {
		return nil, err
	}

	slog.Info("Created relations",
		"requested", len(relations),
		"added", len(added),
	)

	return added, nil
}

func (s *Service) AddObservations(requests []AddObservationsRequest) ([]AddObservationsResult, error) {
	graph, err := s.loadGraph()
	if err != nil {
		return nil, err
	}

	results := make([]AddObservationsResult, 0, len(requests))

	for _, req := range requests {
		idx := pie.FindFirstUsing(graph.Entities, func(e *Entity) bool {
			return e.Name == req.EntityName
		})
		if idx < 0 {
			return nil, fmt.Errorf("entity with name %s not found", req.EntityName)
		}

		entity := graph.Entities[idx]

		seen := make(map[string]bool, len(entity.Observations))
		for _, obs := range entity.Observations {
			seen[obs] = true
		}

		added := []string{}
		for _, content := range req.Contents {
			if seen[content] {
				continue
			}
			seen[content] = true
			added = append(added, content)
		}

		entity.Observations = append(entity.Observations, added...)

		results = append(results, AddObservationsResult{
			EntityName:        req.EntityName,
			AddedObservations: added,
		})
	}

	if err = s.saveGraph(graph); err != nil {
		return nil, err
	}

	slog.Info("Added observations", "entities", len(results))

	return results, nil
}

func (s *Service) DeleteEntities(names []string) error {
	graph, err := s.loadGraph()
	if err != nil {
		return err
	}

	toDelete := make(map[string]bool, len(names))
	for _, name := range names {
		toDelete[name] = true
	}

	graph.Entities = pie.Filter(graph.Entities, func(e *Entity) bool {
		return !toDelete[e.Name]
	})
	graph.Relations = pie.Filter(graph.Relations, func(r *Relation) bool {
		return !toDelete[r.From] && !toDelete[r.To]
	})

	if err = s.saveGraph(graph); err != nil {
		return err
	}

	slog.Info("Deleted entities", "names", names)

	return nil
}

func (s *Service) DeleteObservations(deletions []DeleteObservationsRequest) error {
	graph, err := s.loadGraph()
	if err != nil {
		return err
	}

	for _, d := range deletions {
		idx := pie.FindFirstUsing(graph.Entities, func(e *Entity) bool {
			return e.Name == d.EntityName
		})
		if idx < 0 {
			continue
		}

		entity := graph.Entities[idx]

		toDelete := make(map[string]bool, len(d.Observations))
		for _, obs := range d.Observations {
			toDelete[obs] = true
		}

		entity.Observations = pie.Filter(entity.Observations, func(obs string) bool {
			return !toDelete[obs]
		})
	}

	if err = s.saveGraph(graph); err != nil {
		return err
	}

	slog.Info("Deleted observations", "deletions", len(deletions))

	return nil
}

func (s *Service) DeleteRelations(relations []*Relation) error {
	graph, err := s.loadGraph()
	if err != nil {
		return err
	}

	toDelete := make(map[Relation]bool, len(relations))
	for _, r := range relations {
		toDelete[*r] = true
	}

	graph.Relations = pie.Filter(graph.Relations, func(r *Relation) bool {
		return !toDelete[*r]
	})

	if err = s.saveGraph(graph); err != nil {
		return err
	}

	slog.Info("Deleted relations", "count", len(relations))

	return nil
}

func (s *Service) ReadGraph() (*KnowledgeGraph, error) {
	return s.loadGraph()
}

func (s *Service) SearchNodes(query string) (*KnowledgeGraph, error) {
	graph, err := s.loadGraph()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)

	result := &KnowledgeGraph{
		Entities:  []*Entity{},
		Relations: []*Relation{},
	}

	matched := make(map[string]bool)
	for _, e := range graph.Entities {
		if !entityMatches(e, q) {
			continue
		}
		result.Entities = append(result.Entities, e)
		matched[e.Name] = true
	}

	for _, r := range graph.Relations {
		if matched[r.From] && matched[r.To] {
			result.Relations = append(result.Relations, r)
		}
	}

	slog.Info("Search completed",
		"query", query,
		"entities_count", len(result.Entities),
		"relations_count", len(result.Relations),
	)

	return result, nil
}

func entityMatches(e *Entity, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.EntityType), q) {
		return true
	}

	return pie.Any(e.Observations, func(obs string) bool {
		return strings.Contains(strings.ToLower(obs), q)
	})
}

func (s *Service) OpenNodes(names []string) (*KnowledgeGraph, error) {
	graph, err := s.loadGraph()
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(names))
	for _, name := range names {
		requested[name] = true
	}

	result := &KnowledgeGraph{
		Entities:  []*Entity{},
		Relations: []*Relation{},
	}

	for _, e := range graph.Entities {
		if requested[e.Name] {
			result.Entities = append(result.Entities, e)
		}
	}

	for _, r := range graph.Relations {
		if requested[r.From] && requested[r.To] {
			result.Relations = append(result.Relations, r)
		}
	}

	return result, nil
}
