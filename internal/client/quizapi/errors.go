package quizapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrQuizNotFound      = errors.New("quiz not found")
	ErrInvalidArticleURL = errors.New("invalid wikipedia article url")
)

// APIError is a non-2xx response of the quiz backend.
type APIError struct {
	StatusCode int
	Detail     string // message to show the user
}

func (e *APIError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Detail)
}

// Is makes a 404 match ErrQuizNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrQuizNotFound && e.StatusCode == http.StatusNotFound
}

// Detail returns the user-facing message carried by err, or fallback.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	if errors.Is(err, ErrInvalidArticleURL) {
		return err.Error()
	}
	return fallback
}

// errorBody is the backend error payload. Detail is either a string or,
// for request validation failures, a list of objects with a msg field.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

func decodeDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var issues []validationIssue
	if err := json.Unmarshal(eb.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
