package progress

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

// Reporter reports progress of a long-running stage.
type Reporter interface {
	Start(description string, total int)
	Add(n int)
	Finish()
}

// Nop discards all progress events.
type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Add(int)           {}
func (Nop) Finish()           {}

// Bar renders a progress bar on stderr.
type Bar struct {
	bar *progressbar.ProgressBar
}

func NewBar() *Bar { return &Bar{} }

func (b *Bar) Start(description string, total int) {
	if total <= 0 {
		return
	}
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(32),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (b *Bar) Add(n int) {
	if b.bar != nil {
		_ = b.bar.Add(n)
	}
}

func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
		b.bar = nil
	}
}
