package service

import (
	"context"
	"sort"
	"sync"
	"time"

	dpdomain "asset-hierarchy/internal/datapoint/domain"
	"asset-hierarchy/internal/hierarchy"
	objdomain "asset-hierarchy/internal/object/domain"
	"asset-hierarchy/internal/platform/apperr"
	"asset-hierarchy/internal/telemetry"
)

// memWorld is the shared in-memory state behind the object, datapoint and association fakes.
type memWorld struct {
	mu         sync.Mutex
	nextID     int64
	objects    map[int64]*objdomain.Object
	datapoints map[int64]*dpdomain.Datapoint
	owners     map[int64]int64 // datapoint id -> object id

	lastFilter objdomain.ListFilter
}

func newMemWorld() *memWorld {
	return &memWorld{
		objects:    map[int64]*objdomain.Object{},
		datapoints: map[int64]*dpdomain.Datapoint{},
		owners:     map[int64]int64{},
	}
}

func (w *memWorld) id() int64 {
	w.nextID++
	return w.nextID
}

func (w *memWorld) sortedObjectIDs() []int64 {
	ids := make([]int64, 0, len(w.objects))
	for id := range w.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (w *memWorld) ownedBy(objectID int64) []*dpdomain.Datapoint {
	var out []*dpdomain.Datapoint
	for dpID, objID := range w.owners {
		if objID == objectID {
			out = append(out, w.datapoints[dpID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (w *memWorld) joinedRows(id int64) []hierarchy.JoinedRow {
	o := w.objects[id]
	row := hierarchy.RowFromObject(o)
	dps := w.ownedBy(id)
	if len(dps) == 0 {
		return []hierarchy.JoinedRow{{ObjectRow: row}}
	}
	out := make([]hierarchy.JoinedRow, 0, len(dps))
	for _, d := range dps {
		cp := *d
		out = append(out, hierarchy.JoinedRow{ObjectRow: row, Datapoint: &cp})
	}
	return out
}

type memObjects struct{ w *memWorld }

func (m memObjects) Create(ctx context.Context, o *objdomain.Object) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	o.ID = m.w.id()
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	cp := *o
	m.w.objects[o.ID] = &cp
	return nil
}

func (m memObjects) GetByID(ctx context.Context, id int64) (*objdomain.Object, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	o, ok := m.w.objects[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m memObjects) List(ctx context.Context, f objdomain.ListFilter) ([]*objdomain.Object, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	m.w.lastFilter = f
	var out []*objdomain.Object
	for _, id := range m.w.sortedObjectIDs() {
		o := m.w.objects[id]
		if (f.ParentID == nil) != (o.ParentID == nil) || (f.ParentID != nil && *f.ParentID != *o.ParentID) {
			continue
		}
		if f.Type != nil && *f.Type != o.Type {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m memObjects) Update(ctx context.Context, id int64, u objdomain.Update, checkParent func([]hierarchy.ObjectRow) error) (*objdomain.Object, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	if u.ParentID != nil && !u.ClearParent && checkParent != nil {
		if err := checkParent(m.w.ancestors(*u.ParentID)); err != nil {
			return nil, err
		}
	}
	o, ok := m.w.objects[id]
	if !ok {
		return nil, nil
	}
	if u.Name != nil {
		o.Name = *u.Name
	}
	if u.LocationDetails != nil {
		o.LocationDetails = u.LocationDetails
	}
	switch {
	case u.ClearParent:
		o.ParentID = nil
	case u.ParentID != nil:
		p := *u.ParentID
		o.ParentID = &p
	}
	o.UpdatedAt = time.Now().UTC()
	cp := *o
	return &cp, nil
}

func (m memObjects) Delete(ctx context.Context, id int64) (bool, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	if _, ok := m.w.objects[id]; !ok {
		return false, nil
	}
	var drop func(int64)
	drop = func(id int64) {
		delete(m.w.objects, id)
		for dpID, objID := range m.w.owners {
			if objID == id {
				delete(m.w.owners, dpID)
			}
		}
		for childID, c := range m.w.objects {
			if c.ParentID != nil && *c.ParentID == id {
				drop(childID)
			}
		}
	}
	drop(id)
	return true, nil
}

func (m memObjects) ListAll(ctx context.Context) ([]hierarchy.ObjectRow, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var out []hierarchy.ObjectRow
	for _, id := range m.w.sortedObjectIDs() {
		out = append(out, hierarchy.RowFromObject(m.w.objects[id]))
	}
	return out, nil
}

func (m memObjects) ListJoined(ctx context.Context) ([]hierarchy.JoinedRow, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	var out []hierarchy.JoinedRow
	for _, id := range m.w.sortedObjectIDs() {
		out = append(out, m.w.joinedRows(id)...)
	}
	return out, nil
}

func (m memObjects) SubtreeJoined(ctx context.Context, rootID int64) ([]hierarchy.JoinedRow, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	if _, ok := m.w.objects[rootID]; !ok {
		return nil, nil
	}
	var out []hierarchy.JoinedRow
	level := []int64{rootID}
	for len(level) > 0 {
		var next []int64
		for _, id := range level {
			out = append(out, m.w.joinedRows(id)...)
		}
		for _, id := range m.w.sortedObjectIDs() {
			o := m.w.objects[id]
			for _, p := range level {
				if o.ParentID != nil && *o.ParentID == p {
					next = append(next, id)
				}
			}
		}
		level = next
	}
	return out, nil
}

func (m memObjects) Ancestors(ctx context.Context, id int64) ([]hierarchy.ObjectRow, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	return m.w.ancestors(id), nil
}

// ancestors returns the chain from the root down to id. Callers hold w.mu.
func (w *memWorld) ancestors(id int64) []hierarchy.ObjectRow {
	var chain []hierarchy.ObjectRow
	seen := map[int64]bool{}
	for cur, ok := w.objects[id]; ok && !seen[cur.ID]; {
		seen[cur.ID] = true
		chain = append([]hierarchy.ObjectRow{hierarchy.RowFromObject(cur)}, chain...)
		if cur.ParentID == nil {
			break
		}
		cur, ok = w.objects[*cur.ParentID]
	}
	return chain
}

// interleavedObjects runs during once, on the first Update call, before that update touches any state.
// It stands in for a concurrent request that commits between two steps of an update.
type interleavedObjects struct {
	memObjects
	during func()
	fired  bool
}

func (m *interleavedObjects) Update(ctx context.Context, id int64, u objdomain.Update, checkParent func([]hierarchy.ObjectRow) error) (*objdomain.Object, error) {
	if !m.fired && m.during != nil {
		m.fired = true
		m.during()
	}
	return m.memObjects.Update(ctx, id, u, checkParent)
}

type memDatapoints struct{ w *memWorld }

func (m memDatapoints) Create(ctx context.Context, d *dpdomain.Datapoint) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	d.ID = m.w.id()
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.w.datapoints[d.ID] = &cp
	return nil
}

func (m memDatapoints) GetByID(ctx context.Context, id int64) (*dpdomain.Datapoint, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	d, ok := m.w.datapoints[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (m memDatapoints) Update(ctx context.Context, id int64, u dpdomain.Update) (*dpdomain.Datapoint, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	d, ok := m.w.datapoints[id]
	if !ok {
		return nil, nil
	}
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Value != nil {
		d.Value = *u.Value
	}
	if u.Unit != nil {
		d.Unit = u.Unit
	}
	if u.Type != nil {
		d.Type = u.Type
	}
	if u.IsFresh != nil {
		d.IsFresh = *u.IsFresh
	}
	cp := *d
	return &cp, nil
}

func (m memDatapoints) Delete(ctx context.Context, id int64) (bool, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	if _, ok := m.w.datapoints[id]; !ok {
		return false, nil
	}
	delete(m.w.datapoints, id)
	delete(m.w.owners, id)
	return true, nil
}

func (m memDatapoints) ListByObject(ctx context.Context, objectID int64) ([]*dpdomain.Datapoint, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	return m.w.ownedBy(objectID), nil
}

type memAssoc struct{ w *memWorld }

func (m memAssoc) Associate(ctx context.Context, datapointID, objectID int64) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	if _, ok := m.w.datapoints[datapointID]; !ok {
		return apperr.NotFound("datapoint", datapointID)
	}
	if _, ok := m.w.objects[objectID]; !ok {
		return apperr.NotFound("object", objectID)
	}
	m.w.owners[datapointID] = objectID
	return nil
}

func (m memAssoc) Dissociate(ctx context.Context, datapointID int64) error {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	delete(m.w.owners, datapointID)
	return nil
}

func (m memAssoc) Owner(ctx context.Context, datapointID int64) (*int64, error) {
	m.w.mu.Lock()
	defer m.w.mu.Unlock()
	objID, ok := m.w.owners[datapointID]
	if !ok {
		return nil, nil
	}
	return &objID, nil
}

// chanEmitter forwards emitted events to a channel so tests can wait for async emits.
type chanEmitter struct {
	events chan *telemetry.Event
}

func newChanEmitter() *chanEmitter {
	return &chanEmitter{events: make(chan *telemetry.Event, 64)}
}

func (c *chanEmitter) Emit(ctx context.Context, event *telemetry.Event) error {
	c.events <- event
	return nil
}
