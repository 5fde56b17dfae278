package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"synaptiq-be/internal/apperror"
	"synaptiq-be/internal/constant"
	"synaptiq-be/internal/dto"
	"synaptiq-be/internal/entity"
	"synaptiq-be/internal/pkg/logger"
	"synaptiq-be/internal/repository/memory"
	"synaptiq-be/internal/repository/specification"
	"synaptiq-be/internal/repository/unitofwork"
	"synaptiq-be/pkg/ingest"
	"synaptiq-be/pkg/mindmap"

	"github.com/google/uuid"
)

type ISessionService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	GetAll(ctx context.Context) ([]*dto.GetAllSessionsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	ingestor         *ingest.Ingestor
	generator        *mindmap.Generator
	youtubeLoader    *ingest.YoutubeLoader
	webpageLoader    *ingest.WebpageLoader
	pdfLoader        *ingest.PdfLoader
	chatLocks        *memory.ChatLockRegistry
	uploadDir        string
	log              logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	ingestor *ingest.Ingestor,
	generator *mindmap.Generator,
	chatLocks *memory.ChatLockRegistry,
	uploadDir string,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		ingestor:         ingestor,
		generator:        generator,
		youtubeLoader:    ingest.NewYoutubeLoader(),
		webpageLoader:    ingest.NewWebpageLoader(),
		pdfLoader:        ingest.NewPdfLoader(),
		chatLocks:        chatLocks,
		uploadDir:        uploadDir,
		log:              log,
	}
}

// loadedSource pairs a persisted-to-be source row with its full text.
type loadedSource struct {
	source   entity.Source
	document string
}

func (s *sessionService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := entity.Session{
		Id:        uuid.New(),
		CreatedAt: time.Now(),
	}
	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	// Everything past this point compensates by removing the session again:
	// a session without a mindmap must not survive.
	response, err := s.buildSession(ctx, uow, &session, req)
	if err != nil {
		s.compensate(ctx, session.Id)
		return nil, err
	}
	return response, nil
}

func (s *sessionService) buildSession(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	loaded, err := s.loadSources(ctx, uow, session.Id, req.Sources)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(loaded))
	for _, l := range loaded {
		texts = append(texts, l.document)
	}
	combined := strings.Join(texts, "\n\n")

	title, tree, err := s.generator.Generate(ctx, combined)
	if err != nil {
		return nil, err
	}

	fragments, err := s.embedSources(ctx, session.Id, loaded)
	if err != nil {
		return nil, err
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	for i := range loaded {
		if err := uow.SourceRepository().Create(ctx, &loaded[i].source); err != nil {
			return nil, err
		}
	}

	if len(fragments) > 0 {
		if err := uow.FragmentRepository().CreateBulk(ctx, fragments); err != nil {
			return nil, err
		}
	}

	mindmapEntity := entity.Mindmap{
		Id:            uuid.New(),
		SessionId:     session.Id,
		Tree:          tree,
		SchemaVersion: constant.MindmapSchemaVersion,
		CreatedAt:     time.Now(),
	}
	if err := uow.MindmapRepository().Create(ctx, &mindmapEntity); err != nil {
		return nil, err
	}

	if err := uow.SessionRepository().UpdateTitle(ctx, session.Id, title); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("session", "session created", map[string]interface{}{
		"session_id": session.Id,
		"sources":    len(loaded),
		"fragments":  len(fragments),
	})

	return &dto.CreateSessionResponse{
		Id:      session.Id,
		Title:   title,
		Mindmap: *mindmapToDTO(&mindmapEntity),
	}, nil
}

func (s *sessionService) loadSources(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID, inputs []dto.SourceInput) ([]loadedSource, error) {
	loaded := make([]loadedSource, 0, len(inputs))
	for _, input := range inputs {
		sourceType, ok := constant.ParseSourceType(input.Type)
		if !ok {
			return nil, apperror.NewValidation("unknown source type: %s", input.Type)
		}

		var document *ingest.Document
		var err error
		switch sourceType {
		case constant.SourceTypeYoutube:
			if input.URL == "" {
				return nil, apperror.NewValidation("youtube source requires a url")
			}
			document, err = s.youtubeLoader.Load(ctx, input.URL)
		case constant.SourceTypeWebPage:
			if input.URL == "" {
				return nil, apperror.NewValidation("web_page source requires a url")
			}
			document, err = s.webpageLoader.Load(ctx, input.URL)
		case constant.SourceTypePDF:
			document, err = s.loadPdf(ctx, uow, input)
		default:
			return nil, apperror.NewValidation("unknown source type: %s", input.Type)
		}
		if err != nil {
			return nil, err
		}

		loaded = append(loaded, loadedSource{
			source: entity.Source{
				Id:        uuid.New(),
				Title:     document.Title,
				Type:      string(sourceType),
				URL:       input.URL,
				SessionId: sessionId,
				CreatedAt: time.Now(),
			},
			document: document.Text,
		})
	}
	return loaded, nil
}

func (s *sessionService) loadPdf(ctx context.Context, uow unitofwork.UnitOfWork, input dto.SourceInput) (*ingest.Document, error) {
	if input.FileId == nil {
		return nil, apperror.NewValidation("pdf source requires a file_id")
	}
	file, err := uow.FileRepository().FindOne(ctx, specification.ByID{ID: *input.FileId})
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, apperror.NewNotFound("file %s not found", input.FileId)
	}
	return s.pdfLoader.Load(filepath.Join(s.uploadDir, file.Filename), file.OriginalName)
}

func (s *sessionService) embedSources(ctx context.Context, sessionId uuid.UUID, loaded []loadedSource) ([]*entity.Fragment, error) {
	var fragments []*entity.Fragment
	for _, l := range loaded {
		chunks, err := s.ingestor.Ingest(ctx, l.document)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			fragments = append(fragments, &entity.Fragment{
				Id:         uuid.New(),
				Document:   chunk.Document,
				Embedding:  chunk.Embedding,
				SessionId:  sessionId,
				SourceId:   l.source.Id,
				ChunkIndex: chunk.Index,
				CreatedAt:  time.Now(),
			})
		}
	}
	return fragments, nil
}

// compensate removes a session whose build failed halfway. Best effort:
// a failure here only leaves an empty session row behind.
func (s *sessionService) compensate(ctx context.Context, sessionId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FragmentRepository().DeleteBySessionIdUnscoped(ctx, sessionId); err != nil {
		s.log.Warn("session", "compensation failed to delete fragments", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}
	if err := uow.MindmapRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		s.log.Warn("session", "compensation failed to delete mindmap", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}
	if err := uow.SourceRepository().DeleteBySessionId(ctx, sessionId); err != nil {
		s.log.Warn("session", "compensation failed to delete sources", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}
	if err := uow.SessionRepository().Delete(ctx, sessionId); err != nil {
		s.log.Warn("session", "compensation failed to delete session", map[string]interface{}{"session_id": sessionId, "error": err.Error()})
	}
}

func (s *sessionService) GetAll(ctx context.Context) ([]*dto.GetAllSessionsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.SessionRepository().FindAll(ctx, specification.OrderBy{Field: "created_at", Desc: true})
	if err != nil {
		return nil, err
	}

	res := make([]*dto.GetAllSessionsResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, &dto.GetAllSessionsResponse{
			Id:        session.Id,
			Title:     titleOf(session),
			CreatedAt: session.CreatedAt,
		})
	}
	return res, nil
}

func (s *sessionService) Show(ctx context.Context, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFound("session %s not found", id)
	}

	sources, err := uow.SourceRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	mindmapEntity, err := uow.MindmapRepository().FindBySessionId(ctx, id)
	if err != nil {
		return nil, err
	}

	res := dto.ShowSessionResponse{
		Id:        session.Id,
		Title:     titleOf(session),
		Sources:   make([]dto.SourceResponse, 0, len(sources)),
		CreatedAt: session.CreatedAt,
	}
	for _, source := range sources {
		res.Sources = append(res.Sources, dto.SourceResponse{
			Id:        source.Id,
			Title:     source.Title,
			Type:      source.Type,
			URL:       source.URL,
			CreatedAt: source.CreatedAt,
		})
	}
	if mindmapEntity != nil {
		res.Mindmap = mindmapToDTO(mindmapEntity)
	}
	return &res, nil
}

func (s *sessionService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if session == nil {
		return apperror.NewNotFound("session %s not found", id)
	}

	// collected up front so their turn locks can be dropped after commit
	chats, err := uow.ChatRepository().FindAll(ctx, specification.BySessionID{SessionID: id})
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.ChatRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.MindmapRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.SourceRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}
	if err := uow.SessionRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	for _, chat := range chats {
		s.chatLocks.Forget(chat.Id)
	}

	// Fragments are bulky; their hard delete runs async off the queue.
	payload, err := json.Marshal(dto.PublishPurgeSessionMessage{SessionId: id})
	if err != nil {
		return err
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.log.Error("session", "failed to publish purge message", map[string]interface{}{"session_id": id, "error": err.Error()})
	}
	return nil
}

func titleOf(session *entity.Session) string {
	if session.Title != nil {
		return *session.Title
	}
	return ""
}

func mindmapToDTO(m *entity.Mindmap) *dto.MindmapResponse {
	var tree interface{}
	if err := json.Unmarshal([]byte(m.Tree), &tree); err != nil {
		tree = m.Tree
	}
	return &dto.MindmapResponse{
		Id:            m.Id,
		Tree:          tree,
		SchemaVersion: m.SchemaVersion,
		CreatedAt:     m.CreatedAt,
	}
}
