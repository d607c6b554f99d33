package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jotonsd/url-shortener/internal/errors"
	"github.com/jotonsd/url-shortener/internal/logger"
	"github.com/jotonsd/url-shortener/internal/model"
	"github.com/jotonsd/url-shortener/internal/utils"
	"github.com/jotonsd/url-shortener/internal/web"
)

// Shortener is the part of service.URLService the handlers use.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
	Resolve(ctx context.Context, shortCode string) (string, error)
	CreateShortURL(ctx context.Context, req *model.CreateURLRequest) (*model.CreateURLResponse, error)
	GetURL(ctx context.Context, shortCode string) (*model.URLResponse, error)
	ShortURL(shortCode string) string
}

const (
	msgInvalidURL       = "Invalid URL provided"
	msgEmptyURL         = "Please enter a valid URL"
	msgShortened        = "URL shortened successfully!"
	msgNotFound         = "Short URL not found"
	msgNoShortCode      = "Short code not provided"
	msgGenerationFailed = "Failed to generate unique short code"
	msgInternal         = "An unexpected error occurred"
)

type URLHandler struct {
	urlService Shortener
	logger     *slog.Logger
}

func NewURLHandler(urlService Shortener, logger *slog.Logger) *URLHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &URLHandler{
		urlService: urlService,
		logger:     logger,
	}
}

// IndexPage renders the empty shortening form.
func (h *URLHandler) IndexPage(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", web.IndexPage{})
}

// ShortenForm handles the form post from IndexPage.
func (h *URLHandler) ShortenForm(c *gin.Context) {
	longURL := utils.SanitizeInput(c.PostForm("url"))
	if longURL == "" {
		c.HTML(http.StatusBadRequest, "index.html", web.IndexPage{Message: msgEmptyURL})
		return
	}

	code, err := h.urlService.Shorten(c.Request.Context(), longURL)
	if err != nil {
		status, message := h.describe(c.Request.Context(), err)
		c.HTML(status, "index.html", web.IndexPage{URL: longURL, Message: message})
		return
	}

	c.HTML(http.StatusOK, "index.html", web.IndexPage{
		Message:  msgShortened,
		Success:  true,
		ShortURL: h.urlService.ShortURL(code),
	})
}

func (h *URLHandler) CreateURL(c *gin.Context) {
	var req model.CreateURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Invalid JSON format",
		})
		return
	}

	response, err := h.urlService.CreateShortURL(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *URLHandler) GetURL(c *gin.Context) {
	shortCode := c.Param("shortCode")
	if shortCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Short code is required",
		})
		return
	}

	response, err := h.urlService.GetURL(c.Request.Context(), shortCode)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RedirectURL sends the client to the original URL and counts the access.
// Responses other than the redirect are plain text.
func (h *URLHandler) RedirectURL(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)

	shortCode := c.Param("shortCode")
	log.DebugContext(ctx, "received short code", "short_code", shortCode)

	if shortCode == "" {
		c.String(http.StatusNotFound, msgNoShortCode)
		return
	}

	originalURL, err := h.urlService.Resolve(ctx, shortCode)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			c.String(http.StatusNotFound, msgNotFound)
			return
		}
		log.ErrorContext(ctx, "failed to resolve short code", "short_code", shortCode, "error", err)
		c.String(http.StatusInternalServerError, msgInternal)
		return
	}

	log.DebugContext(ctx, "redirecting", "short_code", shortCode, "target", originalURL)
	c.Redirect(http.StatusFound, originalURL)
}

// handleError writes the JSON error body for err.
func (h *URLHandler) handleError(c *gin.Context, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		body := gin.H{
			"error":   "validation_error",
			"message": msgInvalidURL,
		}
		if validationErr := apperrors.GetValidationError(err); validationErr != nil {
			body["message"] = validationErr.Message
			body["field"] = validationErr.Field
		}
		c.JSON(http.StatusBadRequest, body)

	case apperrors.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "url_not_found",
			"message": msgNotFound,
		})

	case apperrors.KindGenerationFailed:
		h.logger.ErrorContext(c.Request.Context(), "short code generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "generation_failed",
			"message": msgGenerationFailed,
			"code":    apperrors.CodeGenerationFailed,
		})

	default:
		h.logger.ErrorContext(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": msgInternal,
		})
	}
}

// describe maps err to a status code and a message fit for the HTML page.
func (h *URLHandler) describe(ctx context.Context, err error) (int, string) {
	switch apperrors.KindOf(err) {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest, msgInvalidURL
	case apperrors.KindNotFound:
		return http.StatusNotFound, msgNotFound
	case apperrors.KindGenerationFailed:
		h.logger.ErrorContext(ctx, "short code generation failed", "error", err)
		return http.StatusInternalServerError, msgGenerationFailed
	default:
		h.logger.ErrorContext(ctx, "request failed", "error", err)
		return http.StatusInternalServerError, msgInternal
	}
}
