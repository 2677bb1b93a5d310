package dom

import (
	"github.com/aretw0/hyperway/pkg/domain"
)

// FrameOf parses the frame marker of el. It reports false when el is not a frame.
func FrameOf(el *Element) (domain.Frame, bool) {
	raw, ok := el.Attr(domain.AttrFrame)
	if !ok {
		return domain.Frame{}, false
	}
	return domain.ParseFrame(raw), true
}
