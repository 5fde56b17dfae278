package service

import (
	"context"
	"sort"
	"sync"

	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/repository/contract"
	"synaptiq-be/internal/repository/specification"
	"synaptiq-be/internal/repository/unitofwork"
	"synaptiq-be/pkg/llm"
	"synaptiq-be/pkg/rag/orchestrator"
	"synaptiq-be/pkg/rag/retriever"

	"github.com/google/uuid"
)

// memStore backs the fake repositories with plain maps and slices so
// service behavior can be exercised without a database.
type memStore struct {
	mu sync.Mutex

	sessions  map[uuid.UUID]*entity.Session
	sources   []*entity.Source
	mindmaps  map[uuid.UUID]*entity.Mindmap // keyed by session id
	fragments []*entity.Fragment
	chats     map[uuid.UUID]*entity.Chat
	messages  []*entity.Message
	files     map[uuid.UUID]*entity.File

	nextSeq int64
}

func newMemStore() *memStore {
	return &memStore{
		sessions: make(map[uuid.UUID]*entity.Session),
		mindmaps: make(map[uuid.UUID]*entity.Mindmap),
		chats:    make(map[uuid.UUID]*entity.Chat),
		files:    make(map[uuid.UUID]*entity.File),
	}
}

func specID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *session
	r.store.sessions[session.Id] = &copied
	return nil
}

func (r *memSessionRepo) UpdateTitle(ctx context.Context, id uuid.UUID, title string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if session, ok := r.store.sessions[id]; ok {
		session.Title = &title
	}
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		if session, found := r.store.sessions[id]; found {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Session, 0, len(r.store.sessions))
	for _, session := range r.store.sessions {
		copied := *session
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type memSourceRepo struct{ store *memStore }

func (r *memSourceRepo) Create(ctx context.Context, source *entity.Source) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *source
	r.store.sources = append(r.store.sources, &copied)
	return nil
}

func (r *memSourceRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.sources[:0]
	for _, source := range r.store.sources {
		if source.SessionId != sessionId {
			kept = append(kept, source)
		}
	}
	r.store.sources = kept
	return nil
}

func (r *memSourceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var sessionId uuid.UUID
	for _, s := range specs {
		if bySession, ok := s.(specification.BySessionID); ok {
			sessionId = bySession.SessionID
		}
	}
	var out []*entity.Source
	for _, source := range r.store.sources {
		if sessionId == uuid.Nil || source.SessionId == sessionId {
			copied := *source
			out = append(out, &copied)
		}
	}
	return out, nil
}

type memMindmapRepo struct{ store *memStore }

func (r *memMindmapRepo) Create(ctx context.Context, mindmap *entity.Mindmap) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *mindmap
	r.store.mindmaps[mindmap.SessionId] = &copied
	return nil
}

func (r *memMindmapRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.mindmaps, sessionId)
	return nil
}

func (r *memMindmapRepo) FindBySessionId(ctx context.Context, sessionId uuid.UUID) (*entity.Mindmap, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if mindmap, ok := r.store.mindmaps[sessionId]; ok {
		copied := *mindmap
		return &copied, nil
	}
	return nil, nil
}

type memFragmentRepo struct{ store *memStore }

func (r *memFragmentRepo) CreateBulk(ctx context.Context, fragments []*entity.Fragment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, fragment := range fragments {
		copied := *fragment
		r.store.fragments = append(r.store.fragments, &copied)
	}
	return nil
}

func (r *memFragmentRepo) DeleteBySessionIdUnscoped(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.fragments[:0]
	for _, fragment := range r.store.fragments {
		if fragment.SessionId != sessionId {
			kept = append(kept, fragment)
		}
	}
	r.store.fragments = kept
	return nil
}

func (r *memFragmentRepo) FindBySessionId(ctx context.Context, sessionId uuid.UUID) ([]*entity.Fragment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Fragment
	for _, fragment := range r.store.fragments {
		if fragment.SessionId == sessionId {
			copied := *fragment
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memFragmentRepo) SearchSimilar(ctx context.Context, embedding []float32, limit int, sessionId uuid.UUID) ([]*entity.Fragment, error) {
	fragments, _ := r.FindBySessionId(ctx, sessionId)
	if limit > 0 && len(fragments) > limit {
		fragments = fragments[:limit]
	}
	return fragments, nil
}

type memChatRepo struct{ store *memStore }

func (r *memChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *chat
	r.store.chats[chat.Id] = &copied
	return nil
}

func (r *memChatRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.chats, id)
	return nil
}

func (r *memChatRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for id, chat := range r.store.chats {
		if chat.SessionId == sessionId {
			delete(r.store.chats, id)
		}
	}
	return nil
}

func matchChat(chat *entity.Chat, specs []specification.Specification) bool {
	for _, s := range specs {
		switch spec := s.(type) {
		case specification.ByID:
			if chat.Id != spec.ID {
				return false
			}
		case specification.BySessionID:
			if chat.SessionId != spec.SessionID {
				return false
			}
		case specification.ByNodeID:
			if chat.NodeID != spec.NodeID {
				return false
			}
		case specification.ByChatType:
			if string(chat.Type) != spec.Type {
				return false
			}
		}
	}
	return true
}

func (r *memChatRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, chat := range r.store.chats {
		if matchChat(chat, specs) {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Chat
	for _, chat := range r.store.chats {
		if matchChat(chat, specs) {
			copied := *chat
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type memMessageRepo struct{ store *memStore }

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.nextSeq++
	message.Seq = r.store.nextSeq
	copied := *message
	r.store.messages = append(r.store.messages, &copied)
	return nil
}

func (r *memMessageRepo) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0]
	for _, message := range r.store.messages {
		if message.ChatId != chatId {
			kept = append(kept, message)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *memMessageRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	chatIds := make(map[uuid.UUID]bool)
	for id, chat := range r.store.chats {
		if chat.SessionId == sessionId {
			chatIds[id] = true
		}
	}
	kept := r.store.messages[:0]
	for _, message := range r.store.messages {
		if !chatIds[message.ChatId] {
			kept = append(kept, message)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *memMessageRepo) FindByChatId(ctx context.Context, chatId uuid.UUID, desc bool) ([]*entity.Message, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Message
	for _, message := range r.store.messages {
		if message.ChatId == chatId {
			copied := *message
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Seq > out[j].Seq
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (r *memMessageRepo) FindLast(ctx context.Context, chatId uuid.UUID) (*entity.Message, error) {
	messages, _ := r.FindByChatId(ctx, chatId, true)
	if len(messages) == 0 {
		return nil, nil
	}
	return messages[0], nil
}

type memFileRepo struct{ store *memStore }

func (r *memFileRepo) Create(ctx context.Context, file *entity.File) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	copied := *file
	r.store.files[file.Id] = &copied
	return nil
}

func (r *memFileRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.files, id)
	return nil
}

func (r *memFileRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := specID(specs); ok {
		if file, found := r.store.files[id]; found {
			copied := *file
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memFileRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.File, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.File, 0, len(r.store.files))
	for _, file := range r.store.files {
		copied := *file
		out = append(out, &copied)
	}
	return out, nil
}

// memUnitOfWork satisfies the unit-of-work contract over the shared store.
// Begin, Commit and Rollback are no-ops; the fakes apply writes directly.
type memUnitOfWork struct{ store *memStore }

func (u *memUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *memUnitOfWork) Commit() error                   { return nil }
func (u *memUnitOfWork) Rollback() error                 { return nil }

func (u *memUnitOfWork) SessionRepository() contract.SessionRepository {
	return &memSessionRepo{store: u.store}
}
func (u *memUnitOfWork) SourceRepository() contract.SourceRepository {
	return &memSourceRepo{store: u.store}
}
func (u *memUnitOfWork) MindmapRepository() contract.MindmapRepository {
	return &memMindmapRepo{store: u.store}
}
func (u *memUnitOfWork) FragmentRepository() contract.FragmentRepository {
	return &memFragmentRepo{store: u.store}
}
func (u *memUnitOfWork) ChatRepository() contract.ChatRepository {
	return &memChatRepo{store: u.store}
}
func (u *memUnitOfWork) MessageRepository() contract.MessageRepository {
	return &memMessageRepo{store: u.store}
}
func (u *memUnitOfWork) FileRepository() contract.FileRepository {
	return &memFileRepo{store: u.store}
}

type memFactory struct{ store *memStore }

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

// stubLLM scripts the model: every call returns reply (or err). Chat
// histories are recorded so tests can inspect what the model saw.
type stubLLM struct {
	mu        sync.Mutex
	reply     string
	err       error
	histories [][]llm.Message
}

func (s *stubLLM) record(history []llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories = append(s.histories, history)
}

func (s *stubLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.histories)
}

func (s *stubLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.record(history)
	return s.reply, s.err
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	s.record([]llm.Message{{Role: "user", Content: prompt}})
	return s.reply, s.err
}

func (s *stubLLM) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.ToolSpec, options ...llm.Option) (*llm.ToolResponse, error) {
	s.record(history)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ToolResponse{Text: s.reply}, nil
}

type stubEmbedder struct{}

func (stubEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// newTestOrchestrator builds a real orchestrator over the fake store so
// service tests exercise the genuine retrieve-prompt-generate path.
func newTestOrchestrator(store *memStore, provider llm.ToolCapableProvider) *orchestrator.Orchestrator {
	ret := retriever.New(stubEmbedder{}, &memFragmentRepo{store: store})
	return orchestrator.New(provider, ret)
}

// seededTree is a two-node mindmap in stored form.
const seededTree = `{"title":"Photosynthesis","description":"How plants make food","node_id":1,"children":[{"title":"Light Reactions","description":"The light-dependent stage","node_id":2}]}`
