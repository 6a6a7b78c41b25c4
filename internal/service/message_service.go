package service

import (
	"time"

	"jobboard/internal/data"
	"jobboard/internal/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// MessageService is the message store: message rows, conversation summaries
// and the per-pair unread counters, kept consistent with each other.
//
// Counter policy: send increments the receiver's counter by one through a
// keyed upsert; MarkAsRead rewrites the counter from a live recount so the
// denormalized value converges even when sends and reads race on the same
// pair. UnreadCount reads the counter row (fast path), TotalUnreadCount
// counts message rows directly because it spans every sender.
type MessageService interface {
	Send(sender, receiver entity.Participant, text string) (*entity.Message, error)
	GetMessages(a, b entity.Participant) ([]*entity.Message, error) // Never marks anything as read
	GetConversations(p entity.Participant) ([]*entity.ConversationSummary, error)
	MarkAsRead(owner, other entity.Participant) (int64, error) // Returns rows flipped
	UnreadCount(owner, other entity.Participant) int64
	TotalUnreadCount(owner entity.Participant) int64
	Clear() error
	Stats() *MessageStats
}

// MessageStats reports table sizes for the ops endpoints.
type MessageStats struct {
	TotalMessages      int64 `json:"totalMessages"`
	TotalConversations int64 `json:"totalConversations"`
	TotalUnreadCounts  int64 `json:"totalUnreadCounts"`
}

type dbMessageService struct {
	storage *data.Storage
	logger  logrus.FieldLogger
}

func NewMessageService(storage *data.Storage, logger logrus.FieldLogger) MessageService {
	return &dbMessageService{storage: storage, logger: logger}
}

func (s *dbMessageService) Send(sender, receiver entity.Participant, text string) (*entity.Message, error) {
	if err := requireFields(
		field{"senderType", sender.Type},
		field{"senderId", sender.ID},
		field{"receiverType", receiver.Type},
		field{"receiverId", receiver.ID},
		field{"text", text},
	); err != nil {
		return nil, err
	}

	key, err := entity.ConversationKey(sender, receiver)
	if err != nil {
		return nil, &ValidationError{Field: "participants"}
	}

	message := &entity.Message{
		ID:           uuid.New().String(),
		SenderType:   sender.Type,
		SenderID:     sender.ID,
		ReceiverType: receiver.Type,
		ReceiverID:   receiver.ID,
		Text:         text,
		Timestamp:    time.Now(),
		Seen:         false,
	}
	if err := s.storage.Messages().Create(message); err != nil {
		return nil, &PersistenceError{Op: "insert message", Err: err}
	}

	first, second := entity.OrderParticipants(sender, receiver)
	conversation := &entity.Conversation{
		ID:            key,
		User1Type:     first.Type,
		User1ID:       first.ID,
		User2Type:     second.Type,
		User2ID:       second.ID,
		LastMessage:   message.Text,
		LastTimestamp: message.Timestamp,
	}
	if err := s.storage.Conversations().Upsert(conversation); err != nil {
		// The message row is already committed; a blind retry of Send would
		// duplicate it, so the failure is surfaced instead of swallowed.
		return nil, &PersistenceError{Op: "upsert conversation", Err: err}
	}

	if err := s.storage.UnreadCounts().Increment(receiver, sender); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"receiver": receiver.Room(),
			"sender":   sender.Room(),
		}).Warn("unread counter increment failed, counter converges on next mark-read")
	}

	return message, nil
}

func (s *dbMessageService) GetMessages(a, b entity.Participant) ([]*entity.Message, error) {
	if err := requireFields(
		field{"userType", a.Type},
		field{"userId", a.ID},
		field{"otherType", b.Type},
		field{"otherId", b.ID},
	); err != nil {
		return nil, err
	}
	messages, err := s.storage.Messages().GetBetween(a, b)
	if err != nil {
		return nil, &PersistenceError{Op: "load messages", Err: err}
	}
	return messages, nil
}

func (s *dbMessageService) GetConversations(p entity.Participant) ([]*entity.ConversationSummary, error) {
	if err := requireFields(
		field{"userType", p.Type},
		field{"userId", p.ID},
	); err != nil {
		return nil, err
	}

	conversations, err := s.storage.Conversations().ListFor(p)
	if err != nil {
		return nil, &PersistenceError{Op: "load conversations", Err: err}
	}

	summaries := make([]*entity.ConversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		other := conversation.Other(p)
		summaries = append(summaries, &entity.ConversationSummary{
			OtherType:     other.Type,
			OtherID:       other.ID,
			LastMessage:   conversation.LastMessage,
			LastTimestamp: conversation.LastTimestamp,
			UnreadCount:   s.UnreadCount(p, other),
		})
	}
	return summaries, nil
}

func (s *dbMessageService) MarkAsRead(owner, other entity.Participant) (int64, error) {
	if err := requireFields(
		field{"userType", owner.Type},
		field{"userId", owner.ID},
		field{"otherType", other.Type},
		field{"otherId", other.ID},
	); err != nil {
		return 0, err
	}

	affected, err := s.storage.Messages().MarkSeen(owner, other)
	if err != nil {
		return 0, &PersistenceError{Op: "mark messages seen", Err: err}
	}

	// Rewrite the counter from a recount rather than decrementing: a send
	// racing this call would otherwise leave the counter drifted.
	count, err := s.storage.Messages().CountUnseen(owner, other)
	if err == nil {
		err = s.storage.UnreadCounts().Set(owner, other, count)
	}
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"owner": owner.Room(),
			"other": other.Room(),
		}).Warn("unread counter recount failed")
	}

	return affected, nil
}

func (s *dbMessageService) UnreadCount(owner, other entity.Participant) int64 {
	count, err := s.storage.UnreadCounts().Get(owner, other)
	if err != nil {
		s.logger.WithError(err).Warn("unread count read failed, reporting 0")
		return 0
	}
	return count
}

func (s *dbMessageService) TotalUnreadCount(owner entity.Participant) int64 {
	count, err := s.storage.Messages().CountUnseenTotal(owner)
	if err != nil {
		s.logger.WithError(err).Warn("total unread count read failed, reporting 0")
		return 0
	}
	return count
}

func (s *dbMessageService) Clear() error {
	if err := s.storage.Messages().Clear(); err != nil {
		return &PersistenceError{Op: "clear messages", Err: err}
	}
	if err := s.storage.Conversations().Clear(); err != nil {
		return &PersistenceError{Op: "clear conversations", Err: err}
	}
	if err := s.storage.UnreadCounts().Clear(); err != nil {
		return &PersistenceError{Op: "clear unread counts", Err: err}
	}
	return nil
}

func (s *dbMessageService) Stats() *MessageStats {
	stats := &MessageStats{}
	var err error
	if stats.TotalMessages, err = s.storage.Messages().Count(); err != nil {
		s.logger.WithError(err).Warn("message count failed")
	}
	if stats.TotalConversations, err = s.storage.Conversations().Count(); err != nil {
		s.logger.WithError(err).Warn("conversation count failed")
	}
	if stats.TotalUnreadCounts, err = s.storage.UnreadCounts().Count(); err != nil {
		s.logger.WithError(err).Warn("unread count rows count failed")
	}
	return stats
}
