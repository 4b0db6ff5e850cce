package checklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/crewdesk/crewdesk/internal/shared"
)

type memoryStore struct {
	defs   []Definition
	nextID int64
}

func newMemoryStore(defs ...Definition) *memoryStore {
	store := &memoryStore{nextID: 100}
	store.defs = append(store.defs, defs...)
	return store
}

func (s *memoryStore) ListByType(ctx context.Context, t SourceType) ([]Definition, error) {
	out := make([]Definition, 0)
	for _, def := range s.defs {
		if def.Type == t {
			out = append(out, def)
		}
	}
	return out, nil
}

func (s *memoryStore) Get(ctx context.Context, id int64) (Definition, error) {
	for _, def := range s.defs {
		if def.ID == id {
			return def, nil
		}
	}
	return Definition{}, shared.ErrNotFound
}

func (s *memoryStore) Create(ctx context.Context, def Definition) (Definition, error) {
	if def.Type == SourceGlobal {
		for _, existing := range s.defs {
			if existing.Type == SourceGlobal {
				return Definition{}, ErrGlobalExists
			}
		}
	}
	s.nextID++
	def.ID = s.nextID
	def.CreatedAt = time.Now().UTC()
	s.defs = append(s.defs, def)
	return def, nil
}

func (s *memoryStore) Update(ctx context.Context, def Definition) (Definition, error) {
	for i, existing := range s.defs {
		if existing.ID == def.ID {
			def.CreatedAt = existing.CreatedAt
			s.defs[i] = def
			return def, nil
		}
	}
	return Definition{}, shared.ErrNotFound
}

func (s *memoryStore) Delete(ctx context.Context, id int64) error {
	for i, existing := range s.defs {
		if existing.ID == id {
			s.defs = append(s.defs[:i], s.defs[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

func itemsOf(labels ...string) []Item {
	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{Label: label}
	}
	return items
}

func labelsOf(items []ResolvedItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestResolveCustomOverridesSkillAndGlobal(t *testing.T) {
	store := newMemoryStore(
		Definition{ID: 1, Type: SourceGlobal, Items: itemsOf("global item")},
		Definition{ID: 2, Type: SourceSkill, Skills: []string{"react"}, Items: itemsOf("skill item")},
		Definition{ID: 3, Type: SourceCustom, EmployeeIDs: []int64{42}, Items: itemsOf("custom item")},
	)
	svc := NewService(store, nil)

	res, err := svc.Resolve(context.Background(), Employee{ID: 42, Skills: []string{"React"}})
	require.NoError(t, err)
	require.Equal(t, SourceCustom, res.Source)
	require.Equal(t, []string{"custom item"}, labelsOf(res.Items))
	for _, item := range res.Items {
		require.Equal(t, SourceCustom, item.Source, "tiers are never mixed")
	}
}

func TestResolveSkillMatchIsFuzzyAndCaseInsensitive(t *testing.T) {
	store := newMemoryStore(
		Definition{ID: 1, Type: SourceSkill, Skills: []string{"react"}, Items: itemsOf("frontend duties")},
	)
	svc := NewService(store, nil)

	res, err := svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"React", "Node.js"}})
	require.NoError(t, err)
	require.Equal(t, SourceSkill, res.Source)
	require.Equal(t, []string{"frontend duties"}, labelsOf(res.Items))

	// Substring relation holds in either direction.
	res, err = svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"js"}})
	require.NoError(t, err)
	require.Equal(t, SourceNone, res.Source)

	store = newMemoryStore(
		Definition{ID: 2, Type: SourceSkill, Skills: []string{"node"}, Items: itemsOf("backend duties")},
	)
	svc = NewService(store, nil)
	res, err = svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"Node.js"}})
	require.NoError(t, err)
	require.Equal(t, SourceNone, res.Source, "neither string contains the other")

	res, err = svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{" NODEJS-Platform "}})
	require.NoError(t, err)
	require.Equal(t, SourceSkill, res.Source)
}

func TestResolveFirstSkillDefinitionWins(t *testing.T) {
	store := newMemoryStore(
		Definition{ID: 1, Type: SourceSkill, Skills: []string{"go"}, Items: itemsOf("first")},
		Definition{ID: 2, Type: SourceSkill, Skills: []string{"golang"}, Items: itemsOf("second")},
	)
	svc := NewService(store, nil)

	res, err := svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"golang"}})
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, labelsOf(res.Items), "enumeration order decides, no best-match scoring")
}

func TestResolveFallsThroughToGlobal(t *testing.T) {
	store := newMemoryStore(
		Definition{ID: 1, Type: SourceGlobal, Name: "House rules", Items: itemsOf("be excellent")},
		Definition{ID: 2, Type: SourceSkill, Skills: []string{"rust"}, Items: itemsOf("rust duties")},
	)
	svc := NewService(store, nil)

	res, err := svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"cobol"}})
	require.NoError(t, err)
	require.Equal(t, SourceGlobal, res.Source)
	require.Equal(t, "House rules", res.Name)
}

func TestResolveNoDefinitionsYieldsNone(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	res, err := svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"go"}})
	require.NoError(t, err)
	require.Equal(t, SourceNone, res.Source)
	require.NotNil(t, res.Items)
	require.Empty(t, res.Items)
}

func TestResolveClearedCustomOverrideFallsThrough(t *testing.T) {
	store := newMemoryStore(
		Definition{ID: 1, Type: SourceCustom, EmployeeIDs: []int64{}, Items: itemsOf("stale override")},
		Definition{ID: 2, Type: SourceGlobal, Items: itemsOf("global item")},
	)
	svc := NewService(store, nil)

	res, err := svc.Resolve(context.Background(), Employee{ID: 42})
	require.NoError(t, err)
	require.Equal(t, SourceGlobal, res.Source, "an emptied custom override must not stay authoritative")
}

func TestResolveSkillTierSkippedWithoutSkills(t *testing.T) {
	store := newMemoryStore(
		Definition{ID: 1, Type: SourceSkill, Skills: []string{"go"}, Items: itemsOf("skill item")},
		Definition{ID: 2, Type: SourceGlobal, Items: itemsOf("global item")},
	)
	svc := NewService(store, nil)

	res, err := svc.Resolve(context.Background(), Employee{ID: 7, Skills: []string{"  ", ""}})
	require.NoError(t, err)
	require.Equal(t, SourceGlobal, res.Source)
}

func TestCreateValidatesTierInvariant(t *testing.T) {
	svc := NewService(newMemoryStore(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Definition{Type: SourceSkill, Items: itemsOf("x")})
	require.ErrorIs(t, err, ErrInvalidDefinition)

	_, err = svc.Create(ctx, Definition{Type: SourceGlobal, Skills: []string{"go"}, Items: itemsOf("x")})
	require.ErrorIs(t, err, ErrInvalidDefinition)

	_, err = svc.Create(ctx, Definition{Type: SourceCustom, Skills: []string{"go"}, Items: itemsOf("x")})
	require.ErrorIs(t, err, ErrInvalidDefinition)

	_, err = svc.Create(ctx, Definition{Type: "weekly", Items: itemsOf("x")})
	require.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestCreateSecondGlobalRejected(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, Definition{Type: SourceGlobal, Items: itemsOf("first")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, Definition{Type: SourceGlobal, Items: itemsOf("second")})
	require.ErrorIs(t, err, ErrGlobalExists)
}
