package quizapi

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateArticleURL checks that raw points at a Wikipedia article and returns it trimmed.
// Accepted: http(s)://<lang>.wikipedia.org/wiki/<Article>, mobile hosts included.
func ValidateArticleURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: please enter a Wikipedia URL", ErrInvalidArticleURL)
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not a valid URL", ErrInvalidArticleURL, raw)
	}

	host := strings.ToLower(u.Hostname())
	lang, ok := strings.CutSuffix(host, ".wikipedia.org")
	lang = strings.TrimSuffix(lang, ".m")
	if !ok || lang == "" || strings.Contains(lang, ".") {
		return "", fmt.Errorf("%w: must be a Wikipedia article (https://en.wikipedia.org/wiki/...)", ErrInvalidArticleURL)
	}

	article, ok := strings.CutPrefix(u.Path, "/wiki/")
	if !ok || article == "" {
		return "", fmt.Errorf("%w: must link to an article under /wiki/", ErrInvalidArticleURL)
	}

	return raw, nil
}

// LooksLikeURL reports whether text is worth treating as a link.
func LooksLikeURL(text string) bool {
	text = strings.TrimSpace(text)
	return strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://")
}

// ArticleURL returns the English Wikipedia link of a topic title.
func ArticleURL(topic string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(strings.TrimSpace(topic), " ", "_"))
}
