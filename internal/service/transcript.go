package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"geoloc193/internal/model"
	"geoloc193/internal/mpostgres"

	"github.com/go-redis/redis"
	"github.com/useinsider/go-pkg/inslogger"
)

const maxMessageLength = 4000

// CacheClient is the subset of *redis.Client the transcript cache uses.
type CacheClient interface {
	Get(key string) *redis.StringCmd
	Set(key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(keys ...string) *redis.IntCmd
	Incr(key string) *redis.IntCmd
	Expire(key string, expiration time.Duration) *redis.BoolCmd
}

// transcriptGenerationTTL outlives any cached transcript so a reset counter can never
// match an entry that is still cached.
const transcriptGenerationTTL = 24 * time.Hour

// cachedTranscript is stamped with the generation read before the database query.
// Entries from an older generation are ignored.
type cachedTranscript struct {
	Generation int64           `json:"generation"`
	Messages   []model.Message `json:"messages"`
}

// TranscriptService is the append-only message log of a request. Both sides poll List;
// there are no cursors.
type TranscriptService interface {
	Append(ctx context.Context, requestID int64, role model.SenderRole, payload model.AppendMessagePayload) (model.Message, error)
	List(ctx context.Context, requestID int64) ([]model.Message, error)
	MarkRead(ctx context.Context, requestID int64, reader model.SenderRole) (int64, error)
	AppendAsCaller(ctx context.Context, token string, payload model.AppendMessagePayload) (model.Message, error)
	ListForCaller(ctx context.Context, token string) ([]model.Message, error)
}

type transcriptService struct {
	messages mpostgres.MessageStore
	requests RequestService
	cache    CacheClient
	cacheTTL time.Duration
	events   EventPublisher
	logger   inslogger.Interface
}

func NewTranscriptService(
	messages mpostgres.MessageStore,
	requests RequestService,
	cache CacheClient,
	cacheTTL time.Duration,
	events EventPublisher,
	logger inslogger.Interface,
) TranscriptService {
	if events == nil {
		events = NewNopPublisher()
	}
	return &transcriptService{
		messages: messages,
		requests: requests,
		cache:    cache,
		cacheTTL: cacheTTL,
		events:   events,
		logger:   logger,
	}
}

func transcriptCacheKey(requestID int64) string {
	return fmt.Sprintf("transcript:%d", requestID)
}

func transcriptGenerationKey(requestID int64) string {
	return fmt.Sprintf("transcript:%d:gen", requestID)
}

// Append stores a message from the operator side. The request must exist.
func (s *transcriptService) Append(ctx context.Context, requestID int64, role model.SenderRole, payload model.AppendMessagePayload) (model.Message, error) {
	req, err := s.requests.Get(ctx, requestID)
	if err != nil {
		return model.Message{}, err
	}
	return s.append(ctx, req, role, payload)
}

// AppendAsCaller stores a message from the caller's device. The role is always requester.
func (s *transcriptService) AppendAsCaller(ctx context.Context, token string, payload model.AppendMessagePayload) (model.Message, error) {
	req, err := s.requests.AuthorizeToken(ctx, token)
	if err != nil {
		return model.Message{}, err
	}
	return s.append(ctx, req, model.SenderRequester, payload)
}

func (s *transcriptService) append(ctx context.Context, req model.Request, role model.SenderRole, payload model.AppendMessagePayload) (model.Message, error) {
	msg, err := newMessage(req.ID, role, payload)
	if err != nil {
		return model.Message{}, err
	}

	created, err := s.messages.AppendMessage(ctx, msg)
	if err != nil {
		return model.Message{}, fmt.Errorf("append message: %w", err)
	}
	s.invalidate(req.ID)

	if err := s.events.Publish(ctx, model.Event{
		Type:       model.EventMessageAppended,
		RequestID:  req.ID,
		OperatorID: req.OperatorID,
		Attributes: map[string]string{
			"sender_role":  string(created.SenderRole),
			"content_type": string(created.ContentType),
		},
		OccurredAt: created.CreatedAt,
	}); err != nil {
		s.logger.Warnf("Failed to publish message event for request %d: %v", req.ID, err)
	}
	return created, nil
}

func newMessage(requestID int64, role model.SenderRole, payload model.AppendMessagePayload) (model.Message, error) {
	content := strings.TrimSpace(payload.Content)
	mediaRef := strings.TrimSpace(payload.MediaRef)

	contentType := payload.ContentType
	if contentType == "" {
		contentType = model.ContentText
	}
	if !contentType.Valid() {
		return model.Message{}, validationError("unknown content type %q", contentType)
	}

	switch {
	case contentType == model.ContentText && content == "":
		return model.Message{}, validationError("message content is required")
	case contentType != model.ContentText && mediaRef == "":
		return model.Message{}, validationError("%s messages need a media reference", contentType)
	case len(content) > maxMessageLength:
		return model.Message{}, validationError("message exceeds %d characters", maxMessageLength)
	}

	return model.Message{
		RequestID:   requestID,
		SenderRole:  role,
		Content:     content,
		ContentType: contentType,
		MediaRef:    mediaRef,
	}, nil
}

func (s *transcriptService) List(ctx context.Context, requestID int64) ([]model.Message, error) {
	if _, err := s.requests.Get(ctx, requestID); err != nil {
		return nil, err
	}
	return s.list(ctx, requestID)
}

func (s *transcriptService) ListForCaller(ctx context.Context, token string) ([]model.Message, error) {
	req, err := s.requests.AuthorizeToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, req.ID)
}

// list is a read-through cache over the store. Writers bump the transcript generation,
// so a read that raced an append can cache its result but never serve it.
// Cache errors only cost a database read.
func (s *transcriptService) list(ctx context.Context, requestID int64) ([]model.Message, error) {
	if s.cache == nil {
		return s.listFromStore(ctx, requestID)
	}

	generation, err := s.generation(requestID)
	if err != nil {
		s.logger.Warnf("Redis error while reading transcript generation: %v", err)
		return s.listFromStore(ctx, requestID)
	}

	cacheKey := transcriptCacheKey(requestID)
	cached, err := s.cache.Get(cacheKey).Result()
	switch {
	case err == nil:
		var entry cachedTranscript
		if jsonErr := json.Unmarshal([]byte(cached), &entry); jsonErr != nil {
			s.logger.Warnf("Discarding unreadable transcript cache entry %s", cacheKey)
		} else if entry.Generation == generation {
			return entry.Messages, nil
		}
	case err != redis.Nil:
		s.logger.Warnf("Redis error while reading transcript cache: %v", err)
	}

	messages, err := s.listFromStore(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if s.cacheTTL > 0 {
		payload, err := json.Marshal(cachedTranscript{Generation: generation, Messages: messages})
		if err != nil {
			s.logger.Warnf("Failed to marshal transcript for cache: %v", err)
		} else if err := s.cache.Set(cacheKey, payload, s.cacheTTL).Err(); err != nil {
			s.logger.Warnf("Failed to cache transcript %d: %v", requestID, err)
		}
	}
	return messages, nil
}

func (s *transcriptService) listFromStore(ctx context.Context, requestID int64) ([]model.Message, error) {
	messages, err := s.messages.ListMessages(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// generation returns the current transcript generation; a missing counter is 0.
func (s *transcriptService) generation(requestID int64) (int64, error) {
	generation, err := s.cache.Get(transcriptGenerationKey(requestID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return generation, err
}

// MarkRead flags the other party's messages as read by reader.
func (s *transcriptService) MarkRead(ctx context.Context, requestID int64, reader model.SenderRole) (int64, error) {
	if _, err := s.requests.Get(ctx, requestID); err != nil {
		return 0, err
	}

	sender := model.SenderRequester
	if reader == model.SenderRequester {
		sender = model.SenderAttendant
	}

	n, err := s.messages.MarkRead(ctx, requestID, sender)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	if n > 0 {
		s.invalidate(requestID)
	}
	return n, nil
}

func (s *transcriptService) invalidate(requestID int64) {
	if s.cache == nil {
		return
	}
	generationKey := transcriptGenerationKey(requestID)
	if err := s.cache.Incr(generationKey).Err(); err != nil {
		s.logger.Warnf("Failed to bump transcript generation %d: %v", requestID, err)
	} else if err := s.cache.Expire(generationKey, transcriptGenerationTTL).Err(); err != nil {
		s.logger.Warnf("Failed to set transcript generation TTL %d: %v", requestID, err)
	}
	if err := s.cache.Del(transcriptCacheKey(requestID)).Err(); err != nil {
		s.logger.Warnf("Failed to invalidate transcript cache %d: %v", requestID, err)
	}
}
