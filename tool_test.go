package howto_test

import (
	"testing"

	"github.com/fwojciec/howto"
	"github.com/stretchr/testify/assert"
)

func TestToolLocation_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a well-formed box", func(t *testing.T) {
		t.Parallel()

		loc := howto.ToolLocation{ToolName: "hammer", BBox: [4]int{100, 200, 300, 400}}

		assert.NoError(t, loc.Validate())
	})

	for _, tc := range []struct {
		name string
		loc  howto.ToolLocation
		msg  string
	}{
		{name: "missing name", loc: howto.ToolLocation{BBox: [4]int{0, 0, 10, 10}}, msg: "tool name required"},
		{name: "out of range", loc: howto.ToolLocation{ToolName: "saw", BBox: [4]int{0, 0, 1001, 10}}, msg: "0-1000"},
		{name: "negative", loc: howto.ToolLocation{ToolName: "saw", BBox: [4]int{-1, 0, 10, 10}}, msg: "0-1000"},
		{name: "inverted vertical", loc: howto.ToolLocation{ToolName: "saw", BBox: [4]int{500, 0, 400, 10}}, msg: "ymin"},
		{name: "inverted horizontal", loc: howto.ToolLocation{ToolName: "saw", BBox: [4]int{0, 50, 10, 50}}, msg: "xmin"},
	} {
		t.Run("rejects "+tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.loc.Validate()

			assert.Equal(t, howto.EINVALID, howto.ErrorCode(err))
			assert.Contains(t, howto.ErrorMessage(err), tc.msg)
		})
	}
}
