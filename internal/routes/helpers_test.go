package routes

import (
	"context"
	"errors"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/gemini"
)

type failingGenerator struct{}

func (failingGenerator) Generate(context.Context, gemini.Request) (string, error) {
	return "", errors.New("model unavailable")
}
