package stream

import (
	"time"

	"github.com/dweve-ai/hedl-sub002/pkg/hedltype"
)

// Options extends hedltype.Options with the streaming decoder's one
// addition: an optional wall-clock budget for the whole decode, checked
// between events so a pathological document cannot hang a consumer that
// is pumping Next in a loop. Zero means no deadline.
type Options struct {
	hedltype.Options
	Timeout time.Duration
}

// DefaultOptions returns hedltype.DefaultOptions() with no timeout.
func DefaultOptions() Options {
	return Options{Options: hedltype.DefaultOptions()}
}
