package association

import (
	"context"
	"errors"
	"sync"
	"testing"

	"asset-hierarchy/internal/platform/apperr"
)

// memStore is an in-memory Store. WithinTx holds the lock for the whole callback and
// restores the association rows when fn fails, mimicking a rollback.
type memStore struct {
	mu         sync.Mutex
	objects    map[int64]bool
	datapoints map[int64]bool
	rows       []assocRow
	failInsert error
}

type assocRow struct{ objectID, datapointID int64 }

func newMemStore(objects, datapoints []int64) *memStore {
	s := &memStore{objects: map[int64]bool{}, datapoints: map[int64]bool{}}
	for _, id := range objects {
		s.objects[id] = true
	}
	for _, id := range datapoints {
		s.datapoints[id] = true
	}
	return s
}

func (s *memStore) WithinTx(ctx context.Context, fn func(Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := append([]assocRow(nil), s.rows...)
	if err := fn(memTx{s}); err != nil {
		s.rows = snapshot
		return err
	}
	return nil
}

func (s *memStore) rowsFor(datapointID int64) []assocRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []assocRow
	for _, r := range s.rows {
		if r.datapointID == datapointID {
			out = append(out, r)
		}
	}
	return out
}

type memTx struct{ s *memStore }

func (t memTx) LockDatapoint(ctx context.Context, id int64) (bool, error) {
	return t.s.datapoints[id], nil
}
func (t memTx) ObjectExists(ctx context.Context, id int64) (bool, error) { return t.s.objects[id], nil }

func (t memTx) DeleteByDatapoint(ctx context.Context, id int64) error {
	kept := t.s.rows[:0]
	for _, r := range t.s.rows {
		if r.datapointID != id {
			kept = append(kept, r)
		}
	}
	t.s.rows = kept
	return nil
}

func (t memTx) Insert(ctx context.Context, objectID, datapointID int64) error {
	if t.s.failInsert != nil {
		return t.s.failInsert
	}
	t.s.rows = append(t.s.rows, assocRow{objectID, datapointID})
	return nil
}

func (t memTx) OwnerOf(ctx context.Context, id int64) (*int64, error) {
	for _, r := range t.s.rows {
		if r.datapointID == id {
			o := r.objectID
			return &o, nil
		}
	}
	return nil, nil
}

func TestAssociate_ReplacesPreviousOwner(t *testing.T) {
	store := newMemStore([]int64{1, 2}, []int64{10})
	m := NewManager(store)
	ctx := context.Background()

	if err := m.Associate(ctx, 10, 1); err != nil {
		t.Fatalf("Associate(10, 1): %v", err)
	}
	if err := m.Associate(ctx, 10, 2); err != nil {
		t.Fatalf("Associate(10, 2): %v", err)
	}
	rows := store.rowsFor(10)
	if len(rows) != 1 {
		t.Fatalf("associations for datapoint 10 = %d, want 1", len(rows))
	}
	if rows[0].objectID != 2 {
		t.Errorf("owner = %d, want 2", rows[0].objectID)
	}
}

func TestAssociate_Idempotent(t *testing.T) {
	store := newMemStore([]int64{1}, []int64{10})
	m := NewManager(store)
	for i := 0; i < 3; i++ {
		if err := m.Associate(context.Background(), 10, 1); err != nil {
			t.Fatalf("Associate #%d: %v", i, err)
		}
	}
	if rows := store.rowsFor(10); len(rows) != 1 || rows[0].objectID != 1 {
		t.Errorf("rows = %+v, want one association to object 1", rows)
	}
}

func TestAssociate_ObjectNotFound(t *testing.T) {
	store := newMemStore([]int64{1}, []int64{10})
	m := NewManager(store)
	if err := m.Associate(context.Background(), 10, 1); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	err := m.Associate(context.Background(), 10, 99)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if rows := store.rowsFor(10); len(rows) != 1 || rows[0].objectID != 1 {
		t.Errorf("failed associate must keep the previous owner, rows = %+v", rows)
	}
}

func TestAssociate_DatapointNotFound(t *testing.T) {
	m := NewManager(newMemStore([]int64{1}, nil))
	err := m.Associate(context.Background(), 10, 1)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAssociate_InsertFailureRollsBack(t *testing.T) {
	store := newMemStore([]int64{1, 2}, []int64{10})
	m := NewManager(store)
	if err := m.Associate(context.Background(), 10, 1); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	store.failInsert = errors.New("connection reset")
	err := m.Associate(context.Background(), 10, 2)
	if err == nil {
		t.Fatal("Associate should fail when insert fails")
	}
	if errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("storage failure must not look like not found: %v", err)
	}
	if rows := store.rowsFor(10); len(rows) != 1 || rows[0].objectID != 1 {
		t.Errorf("rollback should keep the previous owner, rows = %+v", rows)
	}
}

func TestAssociate_ConcurrentLeavesSingleOwner(t *testing.T) {
	store := newMemStore([]int64{1, 2, 3, 4}, []int64{10})
	m := NewManager(store)
	var wg sync.WaitGroup
	for obj := int64(1); obj <= 4; obj++ {
		wg.Add(1)
		go func(obj int64) {
			defer wg.Done()
			if err := m.Associate(context.Background(), 10, obj); err != nil {
				t.Errorf("Associate(10, %d): %v", obj, err)
			}
		}(obj)
	}
	wg.Wait()
	if rows := store.rowsFor(10); len(rows) != 1 {
		t.Errorf("associations = %d, want 1", len(rows))
	}
}

func TestDissociateAndOwner(t *testing.T) {
	store := newMemStore([]int64{1}, []int64{10})
	m := NewManager(store)
	ctx := context.Background()

	owner, err := m.Owner(ctx, 10)
	if err != nil || owner != nil {
		t.Fatalf("Owner before associate = %v, %v; want nil, nil", owner, err)
	}
	if err := m.Associate(ctx, 10, 1); err != nil {
		t.Fatalf("Associate: %v", err)
	}
	owner, err = m.Owner(ctx, 10)
	if err != nil || owner == nil || *owner != 1 {
		t.Fatalf("Owner = %v, %v; want 1", owner, err)
	}
	if err := m.Dissociate(ctx, 10); err != nil {
		t.Fatalf("Dissociate: %v", err)
	}
	if rows := store.rowsFor(10); len(rows) != 0 {
		t.Errorf("rows after Dissociate = %+v", rows)
	}
}
