package service

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"aiinterviewer/internal/config"
	"aiinterviewer/internal/model"
)

// stubBackend answers per task; tasks without a reply fail
type stubBackend struct {
	mu      sync.Mutex
	replies map[Task]string
	calls   map[Task]int
}

func newStubBackend(replies map[Task]string) *stubBackend {
	if replies == nil {
		replies = map[Task]string{}
	}
	return &stubBackend{replies: replies, calls: map[Task]int{}}
}

func (b *stubBackend) Complete(_ context.Context, req CompletionRequest) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[req.Task]++
	if r, ok := b.replies[req.Task]; ok {
		return r, nil
	}
	return "", errors.Errorf("stub: no reply for %s", req.Task)
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) count(task Task) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[task]
}

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{Provider: "stub", TimeoutMS: 1000}
}

func testPolicy() config.Policy {
	return config.Policy{
		ProbeBudget:           1,
		ExhaustedProbeAction:  config.ExhaustedAdvance,
		DefaultMaxTurns:       5,
		ShallowMaxWords:       2,
		VagueMaxWords:         8,
		ExcellentMinWords:     20,
		FallbackGoodMinWords:  5,
		ShortAnswerWords:      8,
		DismissiveStreak:      3,
		ShortNegativeMaxWords: 2,
		TemplateProbeMaxWords: 4,
		RelevanceLongWords:    10,
		KeywordLimit:          5,
	}
}

// memStore is an in-memory store recording the order of writes
type memStore struct {
	mu         sync.Mutex
	sessions   map[string]model.Session
	archived   map[string]model.Session
	responses  []*model.ResponseRecord
	insights   []*model.InsightRecord
	summaries  map[string]*model.Summary
	templates  map[string]*model.Template
	writes     []string
	failWrites bool
}

func newMemStore() *memStore {
	return &memStore{
		sessions:  map[string]model.Session{},
		archived:  map[string]model.Session{},
		summaries: map[string]*model.Summary{},
		templates: map[string]*model.Template{},
	}
}

var errStoreDown = errors.New("store down")

func (m *memStore) record(op string) error {
	m.writes = append(m.writes, op)
	if m.failWrites {
		return errStoreDown
	}
	return nil
}

func (m *memStore) PutSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("session"); err != nil {
		return err
	}
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	c := s.Clone()
	return &c, nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("release"); err != nil {
		return err
	}
	delete(m.sessions, id)
	return nil
}

func (m *memStore) ArchiveSession(_ context.Context, s *model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("archive"); err != nil {
		return err
	}
	m.archived[s.ID] = s.Clone()
	return nil
}

func (m *memStore) GetArchivedSession(_ context.Context, id string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.archived[id]
	if !ok {
		return nil, nil
	}
	c := s.Clone()
	return &c, nil
}

func (m *memStore) SaveResponse(_ context.Context, r *model.ResponseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("response"); err != nil {
		return err
	}
	m.responses = append(m.responses, r)
	return nil
}

func (m *memStore) AppendInsight(_ context.Context, i *model.InsightRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("insight"); err != nil {
		return err
	}
	m.insights = append(m.insights, i)
	return nil
}

func (m *memStore) ListResponses(_ context.Context, sessionID string) ([]*model.ResponseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ResponseRecord
	for _, r := range m.responses {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) ListInsights(_ context.Context, sessionID string) ([]*model.InsightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.InsightRecord
	for _, i := range m.insights {
		if i.SessionID == sessionID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memStore) SaveSummary(_ context.Context, s *model.Summary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("summary"); err != nil {
		return err
	}
	if _, ok := m.summaries[s.SessionID]; !ok {
		m.summaries[s.SessionID] = s
	}
	return nil
}

func (m *memStore) GetSummary(_ context.Context, id string) (*model.Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summaries[id], nil
}

func (m *memStore) CreateTemplate(_ context.Context, t *model.Template) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = "tpl-" + t.Name
	}
	m.templates[t.ID] = t
	return t.ID, nil
}

func (m *memStore) UpsertTemplate(_ context.Context, t *model.Template) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
	return nil
}

func (m *memStore) GetTemplate(_ context.Context, id string) (*model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.templates[id], nil
}

func (m *memStore) ListTemplates(_ context.Context, ownerID string) ([]*model.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Template
	for _, t := range m.templates {
		if t.BuiltIn || t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) writeLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}

func (m *memStore) resetLog() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes = nil
}

// recordingBroadcaster captures published events
type recordingBroadcaster struct {
	mu           sync.Mutex
	events       []string
	disconnected []string
}

func (r *recordingBroadcaster) BroadcastToWatchers(_ string, msgType string, _ interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, msgType)
}

func (r *recordingBroadcaster) DisconnectSession(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnected = append(r.disconnected, sessionID)
}

type fixture struct {
	svc     *InterviewService
	store   *memStore
	backend *stubBackend
	events  *recordingBroadcaster
}

func newFixture(t *testing.T, policy config.Policy, replies map[Task]string) *fixture {
	t.Helper()
	store := newMemStore()
	backend := newStubBackend(replies)
	evaluator := NewEvaluatorService(backend, testAIConfig())
	auth := NewAuthService(config.AuthConfig{ResearcherUsername: "r", ResearcherPassword: "p", JWTSecret: "test-secret"})
	templates := NewTemplateService(store, policy, time.Second)
	summaries := NewSummaryService(evaluator, store, time.Second)
	svc := NewInterviewService(store, store, store, templates, summaries, auth, evaluator, policy, time.Second, rand.New(rand.NewSource(7)))
	events := &recordingBroadcaster{}
	svc.SetBroadcaster(events)
	return &fixture{svc: svc, store: store, backend: backend, events: events}
}
