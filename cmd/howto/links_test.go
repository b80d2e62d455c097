package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/howto"
	main "github.com/fwojciec/howto/cmd/howto"
	"github.com/fwojciec/howto/goquery"
	"github.com/fwojciec/howto/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinksCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints guide links", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					return `<a href="/guide/shelf/">How to Build a Shelf</a><a href="/about">About</a>`, nil
				},
			},
			Links: goquery.LinkFinder{},
		}

		err := (&main.LinksCmd{URL: "https://example.com/wood/"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/guide/shelf/\n", stdout.String())
	})

	t.Run("reports fetch errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					return "", howto.Errorf(howto.ENOTFOUND, "HTTP 404 for page")
				},
			},
		}

		err := (&main.LinksCmd{URL: "https://example.com/gone"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "HTTP 404")
	})
}

func TestLocateToolsCmd_Run(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	deps := &main.Dependencies{
		Ctx:    context.Background(),
		Stdout: stdout,
		Stderr: &bytes.Buffer{},
		Locator: &mock.ToolLocator{
			LocateToolsFn: func(_ context.Context, _ string, tools []string) ([]howto.ToolLocation, error) {
				assert.Equal(t, []string{"hammer"}, tools)
				return []howto.ToolLocation{{ToolName: "hammer", BBox: [4]int{1, 2, 3, 4}}}, nil
			},
		},
	}

	err := (&main.LocateToolsCmd{ImageURL: "https://example.com/a.jpg", Tools: []string{"hammer"}}).Run(deps)

	require.NoError(t, err)
	assert.JSONEq(t, `[{"tool_name":"hammer","bbox_2d":[1,2,3,4]}]`, stdout.String())
}

func TestListCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("passes author filter", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Guides: &mock.GuideService{
				FindGuidesFn: func(_ context.Context, f howto.GuideFilter) ([]*howto.StoredGuide, error) {
					require.NotNil(t, f.Author)
					assert.Equal(t, "Ada", *f.Author)
					return []*howto.StoredGuide{{
						ID:    "g-1",
						Guide: howto.Guide{Title: "Shelf", Author: "Ada", URL: "https://example.com/shelf"},
					}}, nil
				},
			},
		}

		err := (&main.ListCmd{Author: "Ada"}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, "g-1  Shelf  Ada  https://example.com/shelf\n", stdout.String())
	})

	t.Run("reports empty database", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Guides: &mock.GuideService{
				FindGuidesFn: func(context.Context, howto.GuideFilter) ([]*howto.StoredGuide, error) {
					return []*howto.StoredGuide{}, nil
				},
			},
		}

		require.NoError(t, (&main.ListCmd{}).Run(deps))
		assert.Contains(t, stdout.String(), "No guides found")
	})
}
