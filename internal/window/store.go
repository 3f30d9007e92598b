package window

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// DefaultZBase is the first stacking value handed out.
const DefaultZBase = 100

// Store holds the open window records in insertion order together with the
// active window and the stacking counter. It is not safe for concurrent use;
// Manager serializes access.
type Store struct {
	records  []*Record
	byID     map[string]*Record
	activeID string
	nextZ    int

	newID func() string
	now   func() time.Time
}

// NewStore creates an empty store whose first window gets zBase.
func NewStore(zBase int) *Store {
	return &Store{
		byID:  make(map[string]*Record),
		nextZ: zBase,
		newID: func() string { return uuid.NewString() },
		now:   time.Now,
	}
}

// Open inserts a new record on top of the stack and makes it active.
func (s *Store) Open(d Descriptor) string {
	id := s.newID()
	for s.byID[id] != nil {
		id = s.newID()
	}

	rec := &Record{
		ID:        id,
		Title:     d.Title,
		Icon:      d.Icon,
		Component: d.Component,
		Props:     maps.Clone(d.Props),
		Maximized: d.Maximized,
		ZIndex:    s.allocZ(),
		OpenedAt:  s.now(),
	}
	rec.setBounds(d.Bounds)

	s.records = append(s.records, rec)
	s.byID[id] = rec
	s.activeID = id
	return id
}

// Close removes the record. When it was active, nothing becomes active.
func (s *Store) Close(id string) bool {
	if s.byID[id] == nil {
		return false
	}
	delete(s.byID, id)
	for i, rec := range s.records {
		if rec.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
	}
	return true
}

// UpdatePosition moves a window. Unknown ids are ignored.
func (s *Store) UpdatePosition(id string, x, y int) bool {
	rec := s.byID[id]
	if rec == nil {
		return false
	}
	rec.X, rec.Y = x, y
	return true
}

// UpdateSize resizes a window. Unknown ids are ignored.
func (s *Store) UpdateSize(id string, width, height int) bool {
	rec := s.byID[id]
	if rec == nil {
		return false
	}
	rec.Width, rec.Height = width, height
	return true
}

// Get returns a copy of the record.
func (s *Store) Get(id string) (Record, bool) {
	rec := s.byID[id]
	if rec == nil {
		return Record{}, false
	}
	return rec.clone(), true
}

// List returns copies of all records in insertion order.
func (s *Store) List() []Record {
	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.clone())
	}
	return out
}

// ActiveID returns the active window id, or "" when none is active.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Len returns the number of open windows.
func (s *Store) Len() int {
	return len(s.records)
}

// NextZ reports the value the next stacking allocation will return.
func (s *Store) NextZ() int {
	return s.nextZ
}

func (s *Store) lookup(id string) *Record {
	return s.byID[id]
}

func (s *Store) setActive(id string) {
	s.activeID = id
}

// allocZ hands out strictly increasing stacking values.
func (s *Store) allocZ() int {
	z := s.nextZ
	s.nextZ++
	return z
}
