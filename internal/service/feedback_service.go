package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"deepmirror/internal/domain"
	"deepmirror/internal/notify"
	"deepmirror/internal/repository"
)

// FeedbackThanksMessage acompana cada recibo de feedback.
const FeedbackThanksMessage = "¡Gracias por tu valiosa opinion!"

const feedbackNotificationTemplate = "📢 [DeepMirror] Llego un nuevo mensaje!\n- De: %s (%s)\n- Contenido: %s"

type SubmitFeedbackInput struct {
	SenderName string `json:"sender_name"`
	Email      string `json:"email"`
	Content    string `json:"content"`
}

type FeedbackReceipt struct {
	ID         int64     `json:"id"`
	SenderName string    `json:"sender_name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	Message    string    `json:"message"`
}

// FeedbackService persiste comentarios y avisa al canal de operadores.
type FeedbackService struct {
	logger   *zap.Logger
	feedback repository.FeedbackRepository
	notifier notify.Notifier
	validate *validator.Validate
	now      func() time.Time
}

func NewFeedbackService(logger *zap.Logger, feedback repository.FeedbackRepository, notifier notify.Notifier) *FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewDisabledNotifier(logger)
	}
	return &FeedbackService{
		logger:   logger,
		feedback: feedback,
		notifier: notifier,
		validate: newValidator(),
		now:      time.Now,
	}
}

func (s *FeedbackService) Submit(ctx context.Context, in SubmitFeedbackInput) (FeedbackReceipt, error) {
	if s.feedback == nil {
		return FeedbackReceipt{}, errors.New("feedback service not configured")
	}

	in.SenderName = strings.TrimSpace(in.SenderName)
	in.Email = strings.TrimSpace(in.Email)
	in.Content = strings.TrimSpace(in.Content)

	if err := s.validateInput(in); err != nil {
		return FeedbackReceipt{}, err
	}

	s.logger.Info("feedback submitted", zap.String("sender", in.SenderName), zap.String("email", in.Email))

	fb := &domain.Feedback{
		SenderName: in.SenderName,
		Email:      in.Email,
		Content:    in.Content,
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.feedback.Create(ctx, fb); err != nil {
		s.logger.Error("feedback persist failed", zap.Error(err))
		return FeedbackReceipt{}, fmt.Errorf("%w: create feedback: %w", ErrStorage, err)
	}
	s.logger.Info("feedback stored", zap.Int64("feedback_id", fb.ID))

	msg := fmt.Sprintf(feedbackNotificationTemplate, fb.SenderName, fb.Email, fb.Content)
	if err := s.notifier.Notify(ctx, msg); err != nil {
		s.logger.Warn("feedback notification failed", zap.Error(err), zap.Int64("feedback_id", fb.ID))
	}

	return FeedbackReceipt{
		ID:         fb.ID,
		SenderName: fb.SenderName,
		Email:      fb.Email,
		CreatedAt:  fb.CreatedAt,
		Message:    FeedbackThanksMessage,
	}, nil
}

// validateInput respeta el orden: nombre, email, contenido y por ultimo formato de email.
func (s *FeedbackService) validateInput(in SubmitFeedbackInput) error {
	checks := []struct {
		field string
		value string
		tag   string
	}{
		{field: "sender_name", value: in.SenderName, tag: "required,max=100"},
		{field: "email", value: in.Email, tag: "required"},
		{field: "content", value: in.Content, tag: "required"},
		{field: "email", value: in.Email, tag: "feedbackemail,max=255"},
	}
	for _, c := range checks {
		if err := toValidationError(s.validate.Var(c.value, c.tag), c.field); err != nil {
			return err
		}
	}
	return nil
}
