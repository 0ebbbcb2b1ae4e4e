package innertext

import (
	"io"
	"log/slog"

	"github.com/dgallion1/rendertext/internal/style"
	"golang.org/x/net/html"
)

// Mode selects how closely collection follows the HTML standard.
type Mode string

const (
	// ModeVisual mimics what is painted: elements the oracle reports as not
	// visible are skipped with their subtree.
	ModeVisual Mode = "visual"
	// ModeStandards follows the rendered text collection steps.
	ModeStandards Mode = "standards"
)

// ParseMode maps a configuration string to a Mode, defaulting to visual.
func ParseMode(s string) Mode {
	if Mode(s) == ModeStandards {
		return ModeStandards
	}
	return ModeVisual
}

// Options configures collection.
type Options struct {
	Mode Mode

	// Oracle supplies computed style. When nil a style.Resolver is built
	// for the document the collected node belongs to.
	Oracle style.Oracle

	// Include, when set, filters elements: those it rejects are skipped
	// along with their subtree.
	Include func(el *html.Node) bool

	Logger *slog.Logger
}

func (o Options) withDefaults(node *html.Node) Options {
	if o.Mode == "" {
		o.Mode = ModeVisual
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Oracle == nil {
		o.Oracle = style.NewResolver(node, o.Logger)
	}
	return o
}
