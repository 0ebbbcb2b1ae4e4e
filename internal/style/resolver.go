package style

import (
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/dgallion1/rendertext/internal/dom"
	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type origin int

const (
	originUserAgent origin = iota
	originAuthor
	originInline
)

// declaration is a single property assignment tagged with what the cascade
// needs to order it.
type declaration struct {
	property  string
	value     string
	important bool
	origin    origin
	order     int
}

func (d declaration) outranks(o declaration) bool {
	if d.important != o.important {
		return d.important
	}
	if d.origin != o.origin {
		return d.origin > o.origin
	}
	return d.order > o.order
}

// Resolver is the default Oracle. It matches the user-agent stylesheet and
// the document's <style> sheets once, then computes values on demand from
// those matches plus the live inline style attribute.
//
// Selector specificity is not computed. Declarations are ordered by
// !important, then origin (user agent, author, inline), then source order,
// so a later rule beats an earlier, more specific one.
type Resolver struct {
	root *html.Node
	log  *slog.Logger

	mu      sync.RWMutex
	matched map[*html.Node][]declaration
}

var userAgentSheet = sync.OnceValues(func() (*css.Stylesheet, error) {
	return parser.Parse(userAgentCSS)
})

// NewResolver builds a Resolver for the tree containing root.
func NewResolver(root *html.Node, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := &Resolver{
		root: dom.Root(root),
		log:  log.With("component", "style"),
	}
	r.Refresh()
	return r
}

// Refresh re-reads the document's stylesheets and re-matches selectors.
// Call it after structural edits; inline style edits need no refresh.
func (r *Resolver) Refresh() {
	matched := make(map[*html.Node][]declaration)
	order := 0

	apply := func(sheet *css.Stylesheet, o origin) {
		for _, rule := range sheet.Rules {
			if rule.Kind != css.QualifiedRule || len(rule.Declarations) == 0 {
				continue
			}
			for _, s := range rule.Selectors {
				s = strings.TrimSpace(s)
				sel, err := selcss.Parse(s)
				if err != nil {
					r.log.Debug("skipping selector", "selector", s, "error", err)
					continue
				}
				for _, n := range sel.Select(r.root) {
					for _, d := range rule.Declarations {
						order++
						matched[n] = append(matched[n], declaration{
							property:  strings.ToLower(d.Property),
							value:     d.Value,
							important: d.Important,
							origin:    o,
							order:     order,
						})
					}
				}
			}
		}
	}

	if ua, err := userAgentSheet(); err != nil {
		r.log.Error("user agent stylesheet", "error", err)
	} else {
		apply(ua, originUserAgent)
	}

	for _, text := range styleSheets(r.root) {
		sheet, err := parser.Parse(text)
		if err != nil {
			r.log.Debug("skipping stylesheet", "error", err)
			continue
		}
		apply(sheet, originAuthor)
	}

	r.mu.Lock()
	r.matched = matched
	r.mu.Unlock()
}

// ComputedStyle resolves el's computed values, inheriting from its parent
// element where a property is inherited and not set.
func (r *Resolver) ComputedStyle(el *html.Node) Computed {
	return r.compute(el, r.ComputedStyle)
}

// compute resolves el, taking inherited values from parentStyle.
func (r *Resolver) compute(el *html.Node, parentStyle func(*html.Node) Computed) Computed {
	if el == nil || el.Type != html.ElementNode {
		return Initial()
	}
	specified := r.cascade(el)

	var parent *Computed
	inherited := func() Computed {
		if parent == nil {
			var c Computed
			if el.Parent != nil && el.Parent.Type == html.ElementNode {
				c = parentStyle(el.Parent)
			} else {
				c = Initial()
			}
			parent = &c
		}
		return *parent
	}

	var c Computed
	for _, p := range properties {
		v, ok := specified[p.name]
		switch {
		case !ok && p.inherited, v == "inherit", v == "unset" && p.inherited:
			ps := inherited()
			v = *p.field(&ps)
		case !ok, v == "initial", v == "unset":
			v = p.initial
		}
		*p.field(&c) = v
	}
	return c
}

// Visible reports whether el takes part in visual rendering.
func (r *Resolver) Visible(el *html.Node) bool {
	return IsVisible(el, r.ComputedStyle(el))
}

func (r *Resolver) cascade(el *html.Node) map[string]string {
	r.mu.RLock()
	decls := r.matched[el]
	r.mu.RUnlock()

	winners := make(map[string]declaration, len(decls))
	consider := func(d declaration) {
		d.property, d.value = normalize(d.property, d.value)
		if d.property == "" {
			return
		}
		if cur, ok := winners[d.property]; !ok || d.outranks(cur) {
			winners[d.property] = d
		}
	}
	for _, d := range decls {
		consider(d)
	}
	for i, d := range inlineDeclarations(el, r.log) {
		consider(declaration{
			property:  strings.ToLower(d.Property),
			value:     d.Value,
			important: d.Important,
			origin:    originInline,
			order:     i,
		})
	}

	out := make(map[string]string, len(winners))
	for k, d := range winners {
		out[k] = d.value
	}
	return out
}

func inlineDeclarations(el *html.Node, log *slog.Logger) []*css.Declaration {
	text, _ := dom.Attr(el, "style")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	// the declaration parser wants a terminating semicolon
	if !strings.HasSuffix(strings.TrimSpace(text), ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		log.Debug("skipping inline style", "style", text, "error", err)
		return nil
	}
	return decls
}

// normalize lower-cases a declaration and maps the white-space shorthand
// onto white-space-collapse. Unknown properties come back unchanged and are
// simply never read.
func normalize(prop, value string) (string, string) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch prop {
	case "white-space":
		switch value {
		case "pre", "pre-wrap":
			return "white-space-collapse", "preserve"
		case "break-spaces":
			return "white-space-collapse", "break-spaces"
		case "pre-line":
			return "white-space-collapse", "preserve-breaks"
		case "inherit", "initial", "unset":
			return "white-space-collapse", value
		default:
			return "white-space-collapse", "collapse"
		}
	case "display":
		// "block flow" and friends: the outer display type decides line breaks
		if f := strings.Fields(value); len(f) > 1 && f[1] == "flow" {
			return prop, f[0]
		}
	}
	return prop, value
}

func styleSheets(root *html.Node) []string {
	var sheets []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if dom.Is(n, atom.Style) {
			sheets = append(sheets, dom.TextContent(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return sheets
}
