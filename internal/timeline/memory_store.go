package timeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonathan/recruitment-timeline/internal/db"
)

// MemoryStore is a Store kept in process memory. It enforces the same
// (timeline, step category) uniqueness as the database and discards the
// writes of a failed transaction. Transactions are serialized.
type MemoryStore struct {
	mu   sync.Mutex
	data *memoryData
}

// NewMemoryStore returns an empty MemoryStore whose clock is time.Now.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: newMemoryData(time.Now)}
}

// SetClock replaces the timestamp source used for new rows.
func (m *MemoryStore) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data.now = now
}

// AddRecruiter inserts a recruiter and returns it with its id.
func (m *MemoryStore) AddRecruiter(r db.Recruiter) db.Recruiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.data
	r.ID = d.next("recruiters")
	r.CreatedAt, r.UpdatedAt = d.stamp()
	d.recruiters[r.ID] = r
	return r
}

// AddStepCategory inserts a step category with an English title.
func (m *MemoryStore) AddStepCategory(title string) db.StepCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.data
	c := db.StepCategory{ID: d.next("step_categories"), Title: map[string]string{"en": title}}
	c.CreatedAt, c.UpdatedAt = d.stamp()
	d.stepCategories[c.ID] = c
	return c
}

// AddStatusCategory inserts a status category.
func (m *MemoryStore) AddStatusCategory(title string) db.StatusCategory {
	m.mu.Lock()
	defer m.mu.Unlock()
	d := m.data
	c := db.StatusCategory{ID: d.next("status_categories"), Title: title}
	c.CreatedAt, c.UpdatedAt = d.stamp()
	d.statusCategories[c.ID] = c
	return c
}

// SeedDefaults inserts the default recruiters and categories.
func (m *MemoryStore) SeedDefaults() {
	for _, r := range db.DefaultRecruiters {
		m.AddRecruiter(r)
	}
	for _, title := range db.DefaultStepCategories {
		m.AddStepCategory(title)
	}
	for _, title := range db.DefaultStatusCategories {
		m.AddStatusCategory(title)
	}
}

// InTx runs fn against a snapshot-protected view of the store.
func (m *MemoryStore) InTx(ctx context.Context, fn func(r Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.data.clone()
	if err := fn(m.data); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

func (m *MemoryStore) RecruiterExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.RecruiterExists(ctx, id)
}

func (m *MemoryStore) CandidateExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CandidateExists(ctx, id)
}

func (m *MemoryStore) TimelineExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.TimelineExists(ctx, id)
}

func (m *MemoryStore) StepCategoryExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.StepCategoryExists(ctx, id)
}

func (m *MemoryStore) StatusCategoryExists(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.StatusCategoryExists(ctx, id)
}

func (m *MemoryStore) GetCandidate(ctx context.Context, id int64) (*db.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetCandidate(ctx, id)
}

func (m *MemoryStore) GetTimeline(ctx context.Context, id int64) (*db.Timeline, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetTimeline(ctx, id)
}

func (m *MemoryStore) GetStep(ctx context.Context, id int64) (*db.Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.GetStep(ctx, id)
}

func (m *MemoryStore) ListStepsByTimeline(ctx context.Context, timelineID int64) ([]db.Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListStepsByTimeline(ctx, timelineID)
}

func (m *MemoryStore) ListStatusesBySteps(ctx context.Context, stepIDs []int64) (map[int64][]db.StepStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ListStatusesBySteps(ctx, stepIDs)
}

func (m *MemoryStore) StepCategoryUsed(ctx context.Context, timelineID, stepCategoryID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.StepCategoryUsed(ctx, timelineID, stepCategoryID)
}

func (m *MemoryStore) CreateCandidate(ctx context.Context, c *db.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CreateCandidate(ctx, c)
}

func (m *MemoryStore) CreateTimeline(ctx context.Context, t *db.Timeline) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CreateTimeline(ctx, t)
}

func (m *MemoryStore) CreateStep(ctx context.Context, s *db.Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CreateStep(ctx, s)
}

func (m *MemoryStore) CreateStepStatus(ctx context.Context, s *db.StepStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.CreateStepStatus(ctx, s)
}

// memoryData holds the rows. Its methods assume the caller holds MemoryStore.mu.
type memoryData struct {
	now func() time.Time
	seq map[string]int64

	recruiters       map[int64]db.Recruiter
	candidates       map[int64]db.Candidate
	timelines        map[int64]db.Timeline
	steps            map[int64]db.Step
	statuses         map[int64]db.StepStatus
	stepCategories   map[int64]db.StepCategory
	statusCategories map[int64]db.StatusCategory
}

func newMemoryData(now func() time.Time) *memoryData {
	return &memoryData{
		now:              now,
		seq:              map[string]int64{},
		recruiters:       map[int64]db.Recruiter{},
		candidates:       map[int64]db.Candidate{},
		timelines:        map[int64]db.Timeline{},
		steps:            map[int64]db.Step{},
		statuses:         map[int64]db.StepStatus{},
		stepCategories:   map[int64]db.StepCategory{},
		statusCategories: map[int64]db.StatusCategory{},
	}
}

func (d *memoryData) clone() *memoryData {
	c := newMemoryData(d.now)
	for k, v := range d.seq {
		c.seq[k] = v
	}
	copyMap(c.recruiters, d.recruiters)
	copyMap(c.candidates, d.candidates)
	copyMap(c.timelines, d.timelines)
	copyMap(c.steps, d.steps)
	copyMap(c.statuses, d.statuses)
	copyMap(c.stepCategories, d.stepCategories)
	copyMap(c.statusCategories, d.statusCategories)
	return c
}

func copyMap[V any](dst, src map[int64]V) {
	for k, v := range src {
		dst[k] = v
	}
}

// next returns the next id of a table, starting at 1.
func (d *memoryData) next(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

func (d *memoryData) stamp() (time.Time, time.Time) {
	t := d.now().UTC()
	return t, t
}

func (d *memoryData) RecruiterExists(_ context.Context, id int64) (bool, error) {
	_, ok := d.recruiters[id]
	return ok, nil
}

func (d *memoryData) CandidateExists(_ context.Context, id int64) (bool, error) {
	_, ok := d.candidates[id]
	return ok, nil
}

func (d *memoryData) TimelineExists(_ context.Context, id int64) (bool, error) {
	_, ok := d.timelines[id]
	return ok, nil
}

func (d *memoryData) StepCategoryExists(_ context.Context, id int64) (bool, error) {
	_, ok := d.stepCategories[id]
	return ok, nil
}

func (d *memoryData) StatusCategoryExists(_ context.Context, id int64) (bool, error) {
	_, ok := d.statusCategories[id]
	return ok, nil
}

func (d *memoryData) GetCandidate(_ context.Context, id int64) (*db.Candidate, error) {
	c, ok := d.candidates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (d *memoryData) GetTimeline(_ context.Context, id int64) (*db.Timeline, error) {
	t, ok := d.timelines[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (d *memoryData) GetStep(_ context.Context, id int64) (*db.Step, error) {
	s, ok := d.steps[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (d *memoryData) ListStepsByTimeline(_ context.Context, timelineID int64) ([]db.Step, error) {
	var out []db.Step
	for _, s := range d.steps {
		if s.TimelineID == timelineID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memoryData) ListStatusesBySteps(_ context.Context, stepIDs []int64) (map[int64][]db.StepStatus, error) {
	out := make(map[int64][]db.StepStatus, len(stepIDs))
	want := make(map[int64]bool, len(stepIDs))
	for _, id := range stepIDs {
		want[id] = true
	}
	for _, s := range d.statuses {
		if want[s.StepID] {
			out[s.StepID] = append(out[s.StepID], s)
		}
	}
	for id := range out {
		list := out[id]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}
	return out, nil
}

func (d *memoryData) StepCategoryUsed(_ context.Context, timelineID, stepCategoryID int64) (bool, error) {
	for _, s := range d.steps {
		if s.TimelineID == timelineID && s.StepCategoryID == stepCategoryID {
			return true, nil
		}
	}
	return false, nil
}

func (d *memoryData) CreateCandidate(_ context.Context, c *db.Candidate) error {
	c.ID = d.next("candidates")
	c.CreatedAt, c.UpdatedAt = d.stamp()
	d.candidates[c.ID] = *c
	return nil
}

func (d *memoryData) CreateTimeline(_ context.Context, t *db.Timeline) error {
	t.ID = d.next("timelines")
	t.CreatedAt, t.UpdatedAt = d.stamp()
	d.timelines[t.ID] = *t
	return nil
}

func (d *memoryData) CreateStep(ctx context.Context, s *db.Step) error {
	used, _ := d.StepCategoryUsed(ctx, s.TimelineID, s.StepCategoryID)
	if used {
		return db.ErrDuplicateStepCategory
	}
	s.ID = d.next("steps")
	s.CreatedAt, s.UpdatedAt = d.stamp()
	d.steps[s.ID] = *s
	return nil
}

func (d *memoryData) CreateStepStatus(_ context.Context, s *db.StepStatus) error {
	s.ID = d.next("step_statuses")
	s.CreatedAt, s.UpdatedAt = d.stamp()
	d.statuses[s.ID] = *s
	return nil
}
