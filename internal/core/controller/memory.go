package controller

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// DefaultHistory is the number of records kept when no capacity is given.
const DefaultHistory = 3600

// ringMemory keeps the most recent decision records with gob persistence.
// Once full, head marks the oldest record and new records overwrite it.
type ringMemory struct {
	mu    sync.RWMutex
	limit int
	head  int
	list  []DecisionRecord
}

// NewMemory creates a memory that retains at most capacity records,
// dropping the oldest first. Non-positive capacities use DefaultHistory.
func NewMemory(capacity int) Memory {
	if capacity <= 0 {
		capacity = DefaultHistory
	}
	return &ringMemory{limit: capacity, list: make([]DecisionRecord, 0, min(capacity, 128))}
}

func (m *ringMemory) AppendDecision(rec DecisionRecord) {
	m.mu.Lock()
	if len(m.list) < m.limit {
		m.list = append(m.list, rec)
	} else {
		m.list[m.head] = rec
		m.head = (m.head + 1) % m.limit
	}
	m.mu.Unlock()
}

// ordered returns the records oldest first. Callers hold the lock.
func (m *ringMemory) ordered() []DecisionRecord {
	cp := make([]DecisionRecord, 0, len(m.list))
	cp = append(cp, m.list[m.head:]...)
	return append(cp, m.list[:m.head]...)
}

func (m *ringMemory) History() []DecisionRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ordered()
}

func (m *ringMemory) Last() (DecisionRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.list) == 0 {
		return DecisionRecord{}, false
	}
	i := m.head - 1
	if i < 0 {
		i = len(m.list) - 1
	}
	return m.list[i], true
}

func (m *ringMemory) Reset() {
	m.mu.Lock()
	m.list = m.list[:0]
	m.head = 0
	m.mu.Unlock()
}

func (m *ringMemory) Save() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m.ordered()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load replaces the history. Records beyond capacity are dropped oldest
// first.
func (m *ringMemory) Load(b []byte) error {
	var list []DecisionRecord
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&list); err != nil {
		return err
	}
	if over := len(list) - m.limit; over > 0 {
		list = list[over:]
	}
	m.mu.Lock()
	m.list = append(m.list[:0], list...)
	m.head = 0
	m.mu.Unlock()
	return nil
}
