//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/howto/gemini"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestLocator_Integration_ReturnsValidBoxes(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	imageURL := os.Getenv("HOWTO_TEST_IMAGE_URL")
	if apiKey == "" || imageURL == "" {
		t.Skip("GEMINI_API_KEY or HOWTO_TEST_IMAGE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	locs, err := gemini.NewLocator(client.Models).LocateTools(ctx, imageURL, []string{"hammer", "screwdriver", "saw"})

	require.NoError(t, err)
	for _, loc := range locs {
		require.NoError(t, loc.Validate())
	}
}
