package contact

import (
	"context"
	"fmt"
	"strings"

	"spirit-hunts/internal/kafka"
	"spirit-hunts/internal/logger"
	"spirit-hunts/internal/models"
	"spirit-hunts/internal/store"
	"spirit-hunts/internal/utils"
)

const (
	SuccessMessage = "Thank you for your message! We'll get back to you within 24 hours."
	FailureMessage = "Failed to send message. Please try again."
)

type Service struct {
	messages  store.Table[models.Message]
	publisher kafka.Publisher
	topic     string
	logger    *logger.Logger
}

func NewService(messages store.Table[models.Message], publisher kafka.Publisher, topic string, log *logger.Logger) *Service {
	if publisher == nil {
		publisher = kafka.NoopPublisher{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Service{messages: messages, publisher: publisher, topic: topic, logger: log}
}

func Validate(form models.ContactRequest) error {
	switch {
	case strings.TrimSpace(form.Name) == "":
		return utils.NewValidationError("name", "Name is required")
	case strings.TrimSpace(form.Email) == "":
		return utils.NewValidationError("email", "Email is required")
	case !form.Subject.Valid():
		return utils.NewValidationError("subject", "Please choose a subject")
	case strings.TrimSpace(form.Message) == "":
		return utils.NewValidationError("message", "Message is required")
	}
	return nil
}

// Submit stores the form as an unread message.
func (s *Service) Submit(ctx context.Context, form models.ContactRequest) (*models.Message, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}

	msg := &models.Message{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Subject: form.Subject,
		Message: form.Message,
		Status:  models.MessageStatusUnread,
	}
	if err := s.messages.Insert(ctx, msg); err != nil {
		s.logger.Error("CONTACT", fmt.Sprintf("Error sending message: %v", err))
		return nil, err
	}
	s.logger.Info("CONTACT", fmt.Sprintf("Message %s received (%s)", msg.ID, msg.Subject))

	if err := s.publisher.PublishJSON(ctx, s.topic, msg.ID, msg); err != nil {
		s.logger.Warn("CONTACT", fmt.Sprintf("Notification for message %s not published: %v", msg.ID, err))
	}
	return msg, nil
}
