package service

import (
	"context"
	"fmt"
	"sort"

	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/contract"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/imagegen"
	"ai-chat-be/pkg/llm"

	"github.com/google/uuid"
)

// nopLogger satisfies logger.ILogger without writing anywhere.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// fakeUnitOfWork backs every repository with in-memory slices. Specifications
// are interpreted structurally, mirroring what the SQL layer would do.
type fakeUnitOfWork struct {
	chats         *fakeChatRepository
	messages      *fakeChatMessageRepository
	usage         *fakeTokenUsageRepository
	projects      *fakeProjectRepository
	users         *fakeUserRepository
	subscriptions *fakeSubscriptionRepository
	favorites     *fakeFavoriteToolRepository

	begun      bool
	committed  bool
	rolledBack bool
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		chats:         &fakeChatRepository{},
		messages:      &fakeChatMessageRepository{},
		usage:         &fakeTokenUsageRepository{},
		projects:      &fakeProjectRepository{},
		users:         &fakeUserRepository{},
		subscriptions: &fakeSubscriptionRepository{},
		favorites:     &fakeFavoriteToolRepository{},
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun = true; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed = true; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolledBack = true; return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository                 { return u.users }
func (u *fakeUnitOfWork) ChatRepository() contract.ChatRepository                 { return u.chats }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository   { return u.messages }
func (u *fakeUnitOfWork) ProjectRepository() contract.ProjectRepository           { return u.projects }
func (u *fakeUnitOfWork) SubscriptionRepository() contract.SubscriptionRepository { return u.subscriptions }
func (u *fakeUnitOfWork) TokenUsageRepository() contract.TokenUsageRepository     { return u.usage }
func (u *fakeUnitOfWork) FavoriteToolRepository() contract.FavoriteToolRepository { return u.favorites }

// fakeRepositoryFactory hands out the same unit of work on every call so
// tests can seed and inspect state across service boundaries.
type fakeRepositoryFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeRepositoryFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeChatRepository struct {
	rows []*entity.Chat
}

func (r *fakeChatRepository) Create(ctx context.Context, chat *entity.Chat) error {
	clone := *chat
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	for i, row := range r.rows {
		if row.Id == chat.Id {
			clone := *chat
			r.rows[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("chat %s not found", chat.Id)
}

func (r *fakeChatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, row := range r.rows {
		if row.Id == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeChatRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserId != userId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeChatRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	for _, row := range r.rows {
		if chatMatches(row, specs) {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeChatRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Chat, error) {
	var out []*entity.Chat
	for _, row := range r.rows {
		if chatMatches(row, specs) {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeChatRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

func chatMatches(row *entity.Chat, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if row.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if row.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

type fakeChatMessageRepository struct {
	rows       []*entity.ChatMessage
	embeddings map[uuid.UUID][]float32
}

func (r *fakeChatMessageRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	clone := *message
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeChatMessageRepository) Update(ctx context.Context, message *entity.ChatMessage) error {
	for i, row := range r.rows {
		if row.Id == message.Id {
			clone := *message
			r.rows[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("message %s not found", message.Id)
}

func (r *fakeChatMessageRepository) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	if r.embeddings == nil {
		r.embeddings = make(map[uuid.UUID][]float32)
	}
	r.embeddings[id] = embedding
	return nil
}

func (r *fakeChatMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, row := range r.rows {
		if row.Id == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeChatMessageRepository) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.ChatId != chatId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

// DeleteAllByUserIdUnscoped joins through chats in the real repository;
// the fake has no chat linkage, so it is a no-op here.
func (r *fakeChatMessageRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	return nil
}

func (r *fakeChatMessageRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	rows, err := r.FindAll(ctx, specs...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *fakeChatMessageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	for _, row := range r.rows {
		if messageMatches(row, specs) {
			clone := *row
			out = append(out, &clone)
		}
	}

	limit := 0
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.OrderBy:
			desc := s.Desc
			sort.SliceStable(out, func(i, j int) bool {
				if desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		case specification.Limit:
			limit = s.N
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeChatMessageRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	rows, _ := r.FindAll(ctx, specs...)
	return int64(len(rows)), nil
}

func messageMatches(row *entity.ChatMessage, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if row.Id != s.ID {
				return false
			}
		case specification.ByChatID:
			if row.ChatId != s.ChatID {
				return false
			}
		case specification.InChatIDs:
			found := false
			for _, id := range s.ChatIDs {
				if row.ChatId == id {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

type fakeTokenUsageRepository struct {
	rows []*entity.TokenUsage
}

func (r *fakeTokenUsageRepository) Create(ctx context.Context, usage *entity.TokenUsage) error {
	clone := *usage
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeTokenUsageRepository) CreateBulk(ctx context.Context, usages []*entity.TokenUsage) error {
	for _, u := range usages {
		clone := *u
		r.rows = append(r.rows, &clone)
	}
	return nil
}

func (r *fakeTokenUsageRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserId != userId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeTokenUsageRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TokenUsage, error) {
	return r.rows, nil
}

type fakeProjectRepository struct {
	rows []*entity.Project
}

func (r *fakeProjectRepository) Create(ctx context.Context, project *entity.Project) error {
	clone := *project
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeProjectRepository) Update(ctx context.Context, project *entity.Project) error {
	for i, row := range r.rows {
		if row.Id == project.Id {
			clone := *project
			r.rows[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("project %s not found", project.Id)
}

func (r *fakeProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for i, row := range r.rows {
		if row.Id == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeProjectRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserId != userId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeProjectRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Project, error) {
	for _, row := range r.rows {
		if projectMatches(row, specs) {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProjectRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	var out []*entity.Project
	for _, row := range r.rows {
		if projectMatches(row, specs) {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func projectMatches(row *entity.Project, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if row.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if row.UserId != s.UserID {
				return false
			}
		}
	}
	return true
}

type fakeUserRepository struct {
	rows []*entity.User
}

func (r *fakeUserRepository) Create(ctx context.Context, user *entity.User) error {
	clone := *user
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeUserRepository) Update(ctx context.Context, user *entity.User) error {
	for i, row := range r.rows {
		if row.Id == user.Id {
			clone := *user
			r.rows[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("user %s not found", user.Id)
}

func (r *fakeUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DeleteUnscoped(ctx, id)
}

func (r *fakeUserRepository) DeleteUnscoped(ctx context.Context, id uuid.UUID) error {
	for i, row := range r.rows {
		if row.Id == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeUserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	for _, row := range r.rows {
		if userMatches(row, specs) {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	var out []*entity.User
	for _, row := range r.rows {
		if userMatches(row, specs) {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

func userMatches(row *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok && row.Id != s.ID {
			return false
		}
	}
	return true
}

type fakeSubscriptionRepository struct {
	rows []*entity.UserSubscription
}

func (r *fakeSubscriptionRepository) Upsert(ctx context.Context, sub *entity.UserSubscription) error {
	clone := *sub
	for i, row := range r.rows {
		if row.UserId == sub.UserId {
			r.rows[i] = &clone
			return nil
		}
	}
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeSubscriptionRepository) DeleteByUserId(ctx context.Context, userId uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserId != userId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeSubscriptionRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UserSubscription, error) {
	for _, row := range r.rows {
		match := true
		for _, spec := range specs {
			if s, ok := spec.(specification.UserOwnedBy); ok && row.UserId != s.UserID {
				match = false
			}
		}
		if match {
			clone := *row
			return &clone, nil
		}
	}
	return nil, nil
}

type fakeFavoriteToolRepository struct {
	rows []*entity.FavoriteTool
}

func (r *fakeFavoriteToolRepository) Create(ctx context.Context, favorite *entity.FavoriteTool) error {
	clone := *favorite
	r.rows = append(r.rows, &clone)
	return nil
}

func (r *fakeFavoriteToolRepository) DeleteByUserIdAndTool(ctx context.Context, userId uuid.UUID, toolName string) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserId != userId || row.ToolName != toolName {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeFavoriteToolRepository) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.UserId != userId {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

func (r *fakeFavoriteToolRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.FavoriteTool, error) {
	var out []*entity.FavoriteTool
	for _, row := range r.rows {
		match := true
		for _, spec := range specs {
			if s, ok := spec.(specification.UserOwnedBy); ok && row.UserId != s.UserID {
				match = false
			}
		}
		if match {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out, nil
}

// fakeLLMProvider replays a scripted result and records what it was asked.
type fakeLLMProvider struct {
	result      *llm.ChatResult
	chatReply   string
	err         error
	lastHistory []llm.Message
	lastOptions llm.Options
	calls       int
}

func (p *fakeLLMProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.calls++
	p.lastHistory = history
	p.recordOptions(options)
	return p.chatReply, p.err
}

func (p *fakeLLMProvider) ChatWithTools(ctx context.Context, history []llm.Message, tools []llm.Tool, options ...llm.Option) (*llm.ChatResult, error) {
	p.calls++
	p.lastHistory = history
	p.recordOptions(options)
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *fakeLLMProvider) recordOptions(options []llm.Option) {
	p.lastOptions = llm.Options{}
	for _, opt := range options {
		opt(&p.lastOptions)
	}
}

type fakeImageProvider struct {
	url   string
	err   error
	calls int
}

func (p *fakeImageProvider) Generate(ctx context.Context, prompt string) (*imagegen.Result, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &imagegen.Result{URL: p.url}, nil
}

type fakeEmbeddingProvider struct {
	vector []float32
	calls  int
}

func (p *fakeEmbeddingProvider) Generate(ctx context.Context, text string) ([]float32, error) {
	p.calls++
	return p.vector, nil
}

type publishedJob struct {
	topic   string
	payload []byte
}

type fakePublisherService struct {
	jobs []publishedJob
}

func (p *fakePublisherService) Publish(ctx context.Context, topic string, payload []byte) error {
	p.jobs = append(p.jobs, publishedJob{topic: topic, payload: payload})
	return nil
}
