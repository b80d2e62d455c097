package howto_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/howto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("builds a guide from a complete candidate", func(t *testing.T) {
		t.Parallel()

		guide, err := howto.Validate(&howto.Candidate{
			Title:     "Build a Shelf",
			Author:    "jane",
			Supplies:  []string{"wood", "screws"},
			Steps:     []string{"Cut the wood", "Screw it together"},
			ImageURLs: []string{"https://example.com/a.jpg"},
			SourceURL: "https://example.com/shelf/",
		})

		require.NoError(t, err)
		assert.Equal(t, "Build a Shelf", guide.Title)
		assert.Equal(t, "jane", guide.Author)
		assert.Equal(t, []string{"wood", "screws"}, guide.Supplies)
		assert.Equal(t, []string{"Cut the wood", "Screw it together"}, guide.Steps)
		assert.Equal(t, []string{"https://example.com/a.jpg"}, guide.ImageURLs)
		assert.Equal(t, "https://example.com/shelf/", guide.URL)
	})

	t.Run("rejects a blank title", func(t *testing.T) {
		t.Parallel()

		_, err := howto.Validate(&howto.Candidate{
			Title: "   ",
			Steps: []string{"Cut the wood"},
		})

		require.Error(t, err)
		assert.Equal(t, howto.EMISSING, howto.ErrorCode(err))
		assert.Equal(t, howto.FieldTitle, howto.ErrorField(err))
	})

	t.Run("rejects a nil candidate as missing title", func(t *testing.T) {
		t.Parallel()

		_, err := howto.Validate(nil)

		assert.Equal(t, howto.FieldTitle, howto.ErrorField(err))
	})

	t.Run("checks title before steps", func(t *testing.T) {
		t.Parallel()

		_, err := howto.Validate(&howto.Candidate{})

		assert.Equal(t, howto.FieldTitle, howto.ErrorField(err))
	})

	t.Run("rejects candidates without steps", func(t *testing.T) {
		t.Parallel()

		_, err := howto.Validate(&howto.Candidate{
			Title:    "Build a Shelf",
			Author:   "jane",
			Supplies: []string{"wood"},
		})

		require.Error(t, err)
		assert.Equal(t, howto.EMISSING, howto.ErrorCode(err))
		assert.Equal(t, howto.FieldSteps, howto.ErrorField(err))
	})

	t.Run("treats blank-only steps as missing", func(t *testing.T) {
		t.Parallel()

		_, err := howto.Validate(&howto.Candidate{
			Title: "Build a Shelf",
			Steps: []string{"", "  \n"},
		})

		assert.Equal(t, howto.FieldSteps, howto.ErrorField(err))
	})

	t.Run("defaults soft fields", func(t *testing.T) {
		t.Parallel()

		guide, err := howto.Validate(&howto.Candidate{
			Title: "Build a Shelf",
			Steps: []string{"Cut the wood"},
		})

		require.NoError(t, err)
		assert.Equal(t, howto.UnknownAuthor, guide.Author)
		assert.NotNil(t, guide.Supplies)
		assert.Empty(t, guide.Supplies)
		assert.NotNil(t, guide.ImageURLs)
		assert.Empty(t, guide.ImageURLs)
	})

	t.Run("drops blank supplies and steps", func(t *testing.T) {
		t.Parallel()

		guide, err := howto.Validate(&howto.Candidate{
			Title:    "Build a Shelf",
			Supplies: []string{"wood", " ", "glue"},
			Steps:    []string{"Cut the wood", ""},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"wood", "glue"}, guide.Supplies)
		assert.Equal(t, []string{"Cut the wood"}, guide.Steps)
	})

	t.Run("deduplicates image URLs keeping first position", func(t *testing.T) {
		t.Parallel()

		guide, err := howto.Validate(&howto.Candidate{
			Title: "Build a Shelf",
			Steps: []string{"Cut the wood"},
			ImageURLs: []string{
				"https://example.com/b.jpg",
				"https://example.com/a.jpg",
				"https://example.com/b.jpg",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/b.jpg", "https://example.com/a.jpg"}, guide.ImageURLs)
	})

	t.Run("does not share slices with the candidate", func(t *testing.T) {
		t.Parallel()

		c := &howto.Candidate{
			Title: "Build a Shelf",
			Steps: []string{"Cut the wood"},
		}
		guide, err := howto.Validate(c)
		require.NoError(t, err)

		c.Steps[0] = "changed"

		assert.Equal(t, "Cut the wood", guide.Steps[0])
	})
}

func TestGuide_JSON(t *testing.T) {
	t.Parallel()

	guide, err := howto.Validate(&howto.Candidate{
		Title: "Build a Shelf",
		Steps: []string{"Cut the wood"},
	})
	require.NoError(t, err)

	data, err := json.Marshal(guide)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"title": "Build a Shelf",
		"author": "Unknown",
		"supplies": [],
		"steps": ["Cut the wood"],
		"image_urls": []
	}`, string(data))
}
