// Package quizapi is the HTTP client of the quiz generation backend.
package quizapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wikiquiz-bot/internal/domain/entities"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	DefaultTimeout = 60 * time.Second

	// Fallback messages when the backend gives no detail.
	MsgGenerateFailed = "Failed to generate quiz"
	MsgHistoryFailed  = "Failed to fetch history"
	MsgDetailsFailed  = "Failed to fetch quiz details"
	MsgDeleteFailed   = "Failed to delete quiz"

	maxErrorBody = 64 << 10
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the quiz backend. It is safe for concurrent use.
type Client struct {
	log        *zap.Logger
	baseURL    string
	httpClient *http.Client
}

// New returns a client with defaults applied to the zero fields of cfg.
func New(cfg Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		return nil, errors.New("logger required")
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		log:        log.With(zap.String("client", "quizapi")),
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type generateRequest struct {
	URL string `json:"url"`
}

// Generate asks the backend to build a quiz from a Wikipedia article.
// The URL is validated locally first.
func (c *Client) Generate(ctx context.Context, articleURL string) (*entities.Quiz, error) {
	articleURL, err := ValidateArticleURL(articleURL)
	if err != nil {
		return nil, err
	}

	var quiz entities.Quiz
	if err := c.do(ctx, http.MethodPost, "/api/quiz/generate", generateRequest{URL: articleURL}, &quiz, MsgGenerateFailed); err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	c.log.Info("quiz generated",
		zap.Int64("quiz_id", quiz.ID),
		zap.String("url", articleURL),
		zap.Int("questions", len(quiz.Questions)),
	)
	return &quiz, nil
}

// History lists previously generated quizzes in the order the backend returns them.
func (c *Client) History(ctx context.Context) ([]entities.QuizSummary, error) {
	var rows []entities.QuizSummary
	if err := c.do(ctx, http.MethodGet, "/api/quiz/history", nil, &rows, MsgHistoryFailed); err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return rows, nil
}

// Get fetches a stored quiz. A missing quiz matches ErrQuizNotFound.
func (c *Client) Get(ctx context.Context, id int64) (*entities.Quiz, error) {
	var quiz entities.Quiz
	if err := c.do(ctx, http.MethodGet, quizPath(id), nil, &quiz, MsgDetailsFailed); err != nil {
		return nil, fmt.Errorf("fetch quiz %d: %w", id, err)
	}
	return &quiz, nil
}

// Delete removes a stored quiz. A missing quiz matches ErrQuizNotFound.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, quizPath(id), nil, nil, MsgDeleteFailed); err != nil {
		return fmt.Errorf("delete quiz %d: %w", id, err)
	}
	c.log.Info("quiz deleted", zap.Int64("quiz_id", id))
	return nil
}

func quizPath(id int64) string {
	return "/api/quiz/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any, fallback string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		detail := decodeDetail(raw)
		if detail == "" {
			detail = fallback
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
