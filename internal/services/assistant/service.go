// Package assistant answers free-form help questions with the AI model.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/gemini"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
)

// Apology is returned whenever the model cannot answer.
const Apology = "Muraho! I'm having trouble connecting right now. Please try again later."

const (
	maxQueryLength = 2000
	defaultTimeout = 20 * time.Second
)

type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (string, error)
}

type Service struct {
	gen     Generator
	model   string
	timeout time.Duration
	log     *zap.Logger
}

// NewService builds the helper. model overrides the client's default model
// when set.
func NewService(gen Generator, model string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{gen: gen, model: model, timeout: defaultTimeout, log: log}
}

const systemInstruction = "You are RebaLive's assistant, a Rwandan streaming platform for movies, music, " +
	"books, podcasts and live TV. Answer briefly and kindly. Reply in the user's preferred language " +
	"when you can, otherwise in English."

// Help answers query for user. It never fails; problems yield Apology.
func (s *Service) Help(ctx context.Context, user *models.User, query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return Apology
	}
	if len(query) > maxQueryLength {
		query = query[:maxQueryLength]
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.gen.Generate(ctx, gemini.Request{
		Model:             s.model,
		SystemInstruction: systemInstruction,
		Prompt:            userContext(user) + "\n\nQuestion: " + query,
	})
	if err != nil {
		s.log.Warn("assistant request failed", zap.Error(err))
		return Apology
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return Apology
	}
	return reply
}

func userContext(u *models.User) string {
	if u == nil {
		return "User: anonymous guest."
	}
	lang := u.Language
	if lang == "" {
		lang = models.LanguageEnglish
	}
	return fmt.Sprintf("User: %s (role %s, subscription %s, preferred language %s, %d credits).",
		u.Name, u.Role, u.Subscription, lang, u.Credits)
}
