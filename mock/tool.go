package mock

import (
	"context"

	"github.com/fwojciec/howto"
)

var _ howto.ToolLocator = (*ToolLocator)(nil)

// ToolLocator is a mock implementation of howto.ToolLocator.
type ToolLocator struct {
	LocateToolsFn func(ctx context.Context, imageURL string, tools []string) ([]howto.ToolLocation, error)
}

func (l *ToolLocator) LocateTools(ctx context.Context, imageURL string, tools []string) ([]howto.ToolLocation, error) {
	return l.LocateToolsFn(ctx, imageURL, tools)
}
