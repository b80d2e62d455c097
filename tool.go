package howto

import "context"

// BoundingBoxScale is the upper bound of normalized bounding box
// coordinates. (0,0) is the top-left corner of the image and
// (1000,1000) the bottom-right corner.
const BoundingBoxScale = 1000

// ToolLocation is a tool detected in a guide image.
type ToolLocation struct {
	ToolName string `json:"tool_name"`

	// BBox is [ymin, xmin, ymax, xmax] in 0..BoundingBoxScale.
	BBox [4]int `json:"bbox_2d"`
}

// Validate returns an error if the location has no name or its bounding
// box is out of range or inverted.
func (l *ToolLocation) Validate() error {
	if l.ToolName == "" {
		return Errorf(EINVALID, "tool name required")
	}
	for _, v := range l.BBox {
		if v < 0 || v > BoundingBoxScale {
			return Errorf(EINVALID, "bbox coordinates must be in 0-%d range", BoundingBoxScale)
		}
	}
	ymin, xmin, ymax, xmax := l.BBox[0], l.BBox[1], l.BBox[2], l.BBox[3]
	if ymin >= ymax {
		return Errorf(EINVALID, "ymin (%d) must be less than ymax (%d)", ymin, ymax)
	}
	if xmin >= xmax {
		return Errorf(EINVALID, "xmin (%d) must be less than xmax (%d)", xmin, xmax)
	}
	return nil
}

// ToolLocator finds tools in guide images.
type ToolLocator interface {
	// LocateTools returns the visible tools from the given list found in
	// the image at imageURL. Returns an empty result for an empty list.
	LocateTools(ctx context.Context, imageURL string, tools []string) ([]ToolLocation, error)
}
