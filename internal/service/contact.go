package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/mirskikh/inkwell/internal/events"
	"github.com/mirskikh/inkwell/internal/logging"
	"github.com/mirskikh/inkwell/internal/models"
	"github.com/mirskikh/inkwell/internal/repo"
)

type ContactService struct {
	Repo     *repo.GormRepo
	Producer Publisher
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*models.ContactMessage, error) {
	l := logging.FromContext(ctx).With("svc", "contact.submit")

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Body = strings.TrimSpace(in.Body)
	if in.Name == "" || in.Email == "" || !strings.Contains(in.Email, "@") || in.Body == "" {
		return nil, ErrValidation
	}

	msg := models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Subject: in.Subject,
		Body:    in.Body,
	}
	if err := s.Repo.CreateContactMessage(ctx, &msg); err != nil {
		l.Error("contact_submit_failed", "status", 500, "error", err)
		return nil, err
	}

	if err := s.Producer.Publish(ctx, fmt.Sprint(msg.ID), map[string]any{
		"type":       events.TypeContactReceived,
		"message_id": msg.ID,
		"email":      msg.Email,
	}); err != nil {
		l.Error("event_publish_failed", "type", events.TypeContactReceived, "error", err)
	}

	l.Info("contact_message_received", "message_id", msg.ID)
	return &msg, nil
}

func (s *ContactService) List(ctx context.Context, offset, limit int) (int64, []models.ContactMessage, error) {
	return s.Repo.GetContactMessages(ctx, offset, limit)
}

func (s *ContactService) MarkRead(ctx context.Context, id uint) error {
	return s.Repo.MarkContactMessageRead(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	return s.Repo.DeleteContactMessage(ctx, id)
}
