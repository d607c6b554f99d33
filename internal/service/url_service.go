package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/jotonsd/url-shortener/internal/errors"
	"github.com/jotonsd/url-shortener/internal/model"
	"github.com/jotonsd/url-shortener/internal/repository"
	"github.com/jotonsd/url-shortener/internal/utils"
)

// MaxAttempts bounds the number of insert attempts per Shorten call.
const MaxAttempts = 5

// URLService maps long URLs to short codes and back.
//
// Dedup and insert are not wrapped in a transaction: two concurrent Shorten
// calls for the same new URL can both miss the lookup and store two codes.
// Short code uniqueness is always guaranteed by the backend.
type URLService struct {
	urlRepo     repository.URLRepository
	baseURL     string
	maxAttempts int
	logger      *slog.Logger
}

func NewURLService(urlRepo repository.URLRepository, baseURL string, logger *slog.Logger) *URLService {
	if logger == nil {
		logger = slog.Default()
	}
	return &URLService{
		urlRepo:     urlRepo,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxAttempts: MaxAttempts,
		logger:      logger,
	}
}

// Shorten returns the short code for longURL, creating a mapping if none
// exists yet. Calling it again with the same URL returns the same code.
func (s *URLService) Shorten(ctx context.Context, longURL string) (string, error) {
	if err := utils.ValidateURL(longURL); err != nil {
		return "", err
	}

	existing, err := s.urlRepo.FindByOriginalURL(ctx, longURL)
	if err == nil {
		return existing.ShortCode, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return "", fmt.Errorf("failed to look up existing mapping: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := utils.GenerateShortCode()
		if err != nil {
			return "", apperrors.NewGenerationError(fmt.Errorf("failed to read random source: %w", err))
		}

		url := &model.URL{
			OriginalURL: longURL,
			ShortCode:   code,
		}

		err = s.urlRepo.Insert(ctx, url)
		if err == nil {
			s.logger.DebugContext(ctx, "short code created",
				"short_code", code,
				"attempt", attempt,
			)
			return code, nil
		}

		if !errors.Is(err, apperrors.ErrShortCodeExists) {
			return "", apperrors.NewGenerationError(err)
		}

		s.logger.WarnContext(ctx, "short code collision, retrying",
			"short_code", code,
			"attempt", attempt,
		)
	}

	return "", apperrors.NewGenerationError(fmt.Errorf("%d attempts collided", s.maxAttempts))
}

// Resolve returns the original URL for shortCode and counts the access.
//
// The counter is bumped before the row is read back, as two statements. An
// unknown code makes the update a no-op.
func (s *URLService) Resolve(ctx context.Context, shortCode string) (string, error) {
	updated, err := s.urlRepo.IncrementAccessCount(ctx, shortCode)
	if err != nil {
		return "", fmt.Errorf("failed to record access: %w", err)
	}

	url, err := s.urlRepo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return "", err
	}

	s.logger.DebugContext(ctx, "short code resolved",
		"short_code", shortCode,
		"counted", updated,
	)

	return url.OriginalURL, nil
}

// CreateShortURL is Shorten for the JSON API.
func (s *URLService) CreateShortURL(ctx context.Context, req *model.CreateURLRequest) (*model.CreateURLResponse, error) {
	code, err := s.Shorten(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	return &model.CreateURLResponse{
		ShortCode:   code,
		OriginalURL: req.URL,
		ShortURL:    s.ShortURL(code),
	}, nil
}

// GetURL returns a mapping without counting an access. The access count is
// read from the backend, never from a cached mapping.
func (s *URLService) GetURL(ctx context.Context, shortCode string) (*model.URLResponse, error) {
	url, err := s.urlRepo.FindByShortCode(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	count, err := s.urlRepo.AccessCount(ctx, shortCode)
	if err != nil {
		return nil, err
	}

	return &model.URLResponse{
		ID:          url.ID,
		ShortCode:   url.ShortCode,
		OriginalURL: url.OriginalURL,
		ShortURL:    s.ShortURL(url.ShortCode),
		AccessCount: count,
		CreatedAt:   url.CreatedAt,
	}, nil
}

// ShortURL is the public redirect address of shortCode.
func (s *URLService) ShortURL(shortCode string) string {
	return fmt.Sprintf("%s/s/%s", s.baseURL, shortCode)
}
