package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"regexp"
	"testing"

	"github.com/fwojciec/howto"
	"github.com/fwojciec/howto/mock"
	hslog "github.com/fwojciec/howto/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingSitemapService_DiscoverURLs(t *testing.T) {
	t.Parallel()

	t.Run("logs candidate count per site section", func(t *testing.T) {
		t.Parallel()

		// Given: a sitemap listing guides and a blog post
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *howto.URLFilter) ([]string, error) {
				return []string{
					"https://example.com/guide/shelf",
					"https://example.com/blog/news",
					"https://example.com/guide/lamp",
					"https://example.com/",
				}, nil
			},
		}

		// When: discovering
		svc := hslog.NewLoggingSitemapService(inner, logger)
		urls, err := svc.DiscoverURLs(context.Background(), "https://example.com", nil)

		// Then: the log line breaks the candidates down by section
		require.NoError(t, err)
		assert.Len(t, urls, 4)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "sitemap discovery")
		assert.Contains(t, output, "site=https://example.com")
		assert.Contains(t, output, "candidates=4")
		assert.Contains(t, output, "filtered=false")
		assert.Contains(t, output, `sections="guide=2 /=1 blog=1"`)
	})

	t.Run("summarizes long section lists", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *howto.URLFilter) ([]string, error) {
				return []string{
					"https://example.com/a/1", "https://example.com/b/1", "https://example.com/c/1",
					"https://example.com/d/1", "https://example.com/e/1", "https://example.com/f/1",
					"https://example.com/g/1",
				}, nil
			},
		}
		filter := &howto.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`.`)}}

		_, err := hslog.NewLoggingSitemapService(inner, logger).DiscoverURLs(context.Background(), "https://example.com", filter)

		require.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "filtered=true")
		assert.Contains(t, output, `sections="a=1 b=1 c=1 d=1 e=1 +2 more"`)
	})

	t.Run("logs failures at warn with the error code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(ctx context.Context, baseURL string, filter *howto.URLFilter) ([]string, error) {
				return nil, howto.Errorf(howto.ENOTFOUND, "no sitemap")
			},
		}

		svc := hslog.NewLoggingSitemapService(inner, logger)
		_, err := svc.DiscoverURLs(context.Background(), "https://example.com", nil)

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "code=not_found")
		assert.NotContains(t, output, "candidates=")
	})

	t.Run("logs plain errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.SitemapService{
			DiscoverURLsFn: func(context.Context, string, *howto.URLFilter) ([]string, error) {
				return nil, errors.New("connection failed")
			},
		}

		_, err := hslog.NewLoggingSitemapService(inner, logger).DiscoverURLs(context.Background(), "https://example.com", nil)

		require.Error(t, err)
		assert.Contains(t, buf.String(), `err="connection failed"`)
	})
}
