package movie_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"moviecatalog/movie"

	"github.com/google/uuid"
)

// fakeStore evaluates composed queries over an in-memory slice and records
// the predicates it was handed.
type fakeStore struct {
	mu     sync.Mutex
	movies []movie.Projection

	filtered    []movie.Predicate
	counted     []movie.Predicate
	materialize int
	countErr    error
	listErr     error
}

type fakeQuery struct {
	store  *fakeStore
	pred   movie.Predicate
	user   uuid.UUID
	keys   []movie.SortKey
	skip   int
	take   int
	hasPag bool
}

func newFakeStore(movies ...movie.Projection) *fakeStore {
	return &fakeStore{movies: movies}
}

func (s *fakeStore) FilterBy(p movie.Predicate) movie.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = append(s.filtered, p)
	return fakeQuery{store: s, pred: p}
}

func (s *fakeStore) CountMatching(ctx context.Context, p movie.Predicate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counted = append(s.counted, p)
	if s.countErr != nil {
		return 0, s.countErr
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return int64(len(s.matching(p))), nil
}

func (s *fakeStore) matching(p movie.Predicate) []movie.Projection {
	var out []movie.Projection
	for _, m := range s.movies {
		if matches(p, m) {
			out = append(out, m)
		}
	}
	return out
}

func matches(p movie.Predicate, m movie.Projection) bool {
	for _, c := range p.Clauses() {
		switch {
		case c.Field == movie.FieldTitle && c.Operator == movie.ContainsFold:
			if !strings.Contains(strings.ToLower(m.Title), strings.ToLower(c.Value.(string))) {
				return false
			}
		case c.Field == movie.FieldYear && c.Operator == movie.Equal:
			if m.YearOfRelease != c.Value.(int) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (q fakeQuery) ForUser(userID uuid.UUID) movie.Query {
	q.user = userID
	return q
}

func (q fakeQuery) OrderBy(keys ...movie.SortKey) movie.Query {
	q.keys = append(append([]movie.SortKey{}, q.keys...), keys...)
	return q
}

func (q fakeQuery) Paginate(skip, take int) movie.Query {
	q.skip, q.take, q.hasPag = skip, take, true
	return q
}

func (q fakeQuery) Materialize(ctx context.Context) ([]movie.Projection, error) {
	q.store.mu.Lock()
	defer q.store.mu.Unlock()
	q.store.materialize++
	if q.store.listErr != nil {
		return nil, q.store.listErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := q.store.matching(q.pred)
	sort.SliceStable(rows, func(i, j int) bool {
		for _, k := range q.keys {
			c := compare(rows[i], rows[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Direction == movie.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if q.hasPag {
		if q.skip >= len(rows) {
			return []movie.Projection{}, nil
		}
		end := q.skip + q.take
		if end > len(rows) {
			end = len(rows)
		}
		rows = rows[q.skip:end]
	}
	return rows, nil
}

func compare(a, b movie.Projection, f movie.Field) int {
	switch f {
	case movie.FieldTitle:
		return strings.Compare(a.Title, b.Title)
	case movie.FieldYear:
		return a.YearOfRelease - b.YearOfRelease
	case movie.FieldID:
		return strings.Compare(a.ID.String(), b.ID.String())
	}
	return 0
}
