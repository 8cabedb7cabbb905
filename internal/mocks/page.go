// Package mocks provides shared test doubles. PageMock implements
// schemas.Page over an in-memory DOM so the fill engine's logic can be
// exercised without a real browser.
package mocks

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

var _ schemas.Page = (*PageMock)(nil)

// PageMock is an in-memory schemas.Page backed by a parsed x/net/html tree.
// Control state (values, checked flags, file lists) lives beside the tree so
// writes are observable by tests, and attribute writes are reflected in
// subsequent Snapshot calls, which is what the scanner's marker idempotence
// relies on.
type PageMock struct {
	mu  sync.Mutex
	doc *html.Node
	url string

	values   map[*html.Node]string
	checked  map[*html.Node]bool
	selected map[*html.Node]int
	files    map[*html.Node]schemas.FileStub

	events      []string
	highlighted []string
	blurred     []string
	inserted    []string

	// InsertTextErr, when set, makes InsertText fail for every control,
	// forcing callers onto their fallback path.
	InsertTextErr error
	// OnClick, when set, replaces the default click behavior. Returning false
	// emulates a page that intercepts the click without changing state.
	OnClick func(selector string) bool
	// failing maps selectors to forced errors on every operation.
	failing map[string]error
	// panicking selectors make every operation panic, emulating a hostile page.
	panicking map[string]bool
}

// NewPage parses the given HTML document into a PageMock.
func NewPage(rawHTML string) (*PageMock, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("mock page parse: %w", err)
	}
	return &PageMock{
		doc:       doc,
		url:       "https://jobs.example.com/apply",
		values:    make(map[*html.Node]string),
		checked:   make(map[*html.Node]bool),
		selected:  make(map[*html.Node]int),
		files:     make(map[*html.Node]schemas.FileStub),
		failing:   make(map[string]error),
		panicking: make(map[string]bool),
	}, nil
}

// MustNewPage is NewPage for test setup where the HTML is a literal.
func MustNewPage(rawHTML string) *PageMock {
	p, err := NewPage(rawHTML)
	if err != nil {
		panic(err)
	}
	return p
}

// FailWith forces every operation on the selector to return err.
func (p *PageMock) FailWith(selector string, err error) { p.failing[selector] = err }

// PanicOn makes every operation on the selector panic.
func (p *PageMock) PanicOn(selector string) { p.panicking[selector] = true }

// SetURL overrides the reported document URL.
func (p *PageMock) SetURL(u string) { p.url = u }

// Events returns the dispatched events as "selector:type" strings, in order.
func (p *PageMock) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// Highlighted returns the selectors that received visual feedback.
func (p *PageMock) Highlighted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.highlighted...)
}

// Blurred returns the selectors that were blurred, in order.
func (p *PageMock) Blurred() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.blurred...)
}

// Inserted returns the payloads delivered through the native insertion path.
func (p *PageMock) Inserted() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.inserted...)
}

// Attr reads an attribute straight off the matched node, for assertions.
func (p *PageMock) Attr(selector, name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.find(selector)
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// -- schemas.Page implementation --

func (p *PageMock) URL() string { return p.url }

func (p *PageMock) Snapshot(ctx context.Context) (io.Reader, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var sb strings.Builder
	if err := html.Render(&sb, p.doc); err != nil {
		return nil, err
	}
	return strings.NewReader(sb.String()), nil
}

func (p *PageMock) Resolve(ctx context.Context, selector string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.find(selector) != nil, nil
}

func (p *PageMock) Value(ctx context.Context, selector string) (string, error) {
	n, err := p.guarded(selector)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.values[n]; ok {
		return v, nil
	}
	if strings.EqualFold(n.Data, "select") {
		opts := optionNodes(n)
		idx := p.selectedIndexLocked(n, opts)
		if idx >= 0 && idx < len(opts) {
			return optionValue(opts[idx]), nil
		}
		return "", nil
	}
	return attr(n, "value"), nil
}

func (p *PageMock) SetValue(ctx context.Context, selector, value string) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[n] = value
	return nil
}

func (p *PageMock) InsertText(ctx context.Context, selector, text string) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	if p.InsertTextErr != nil {
		return p.InsertTextErr
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[n] = p.values[n] + text
	p.inserted = append(p.inserted, text)
	return nil
}

func (p *PageMock) SetAttribute(ctx context.Context, selector, name, value string) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, a := range n.Attr {
		if a.Key == name {
			n.Attr[i].Val = value
			return nil
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: value})
	return nil
}

func (p *PageMock) DispatchEvent(ctx context.Context, selector, event string) error {
	if _, err := p.guarded(selector); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, selector+":"+event)
	return nil
}

func (p *PageMock) Click(ctx context.Context, selector string) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	if p.OnClick != nil && !p.OnClick(selector) {
		return nil // intercepted: no state change
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch strings.ToLower(attr(n, "type")) {
	case "checkbox":
		p.checked[n] = !p.checkedLocked(n)
	case "radio":
		p.checked[n] = true
	}
	return nil
}

func (p *PageMock) Blur(ctx context.Context, selector string) error {
	if _, err := p.guarded(selector); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.blurred = append(p.blurred, selector)
	return nil
}

func (p *PageMock) Checked(ctx context.Context, selector string) (bool, error) {
	n, err := p.guarded(selector)
	if err != nil {
		return false, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.checkedLocked(n), nil
}

func (p *PageMock) SetChecked(ctx context.Context, selector string, checked bool) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checked[n] = checked
	return nil
}

func (p *PageMock) Options(ctx context.Context, selector string) ([]schemas.SelectOption, error) {
	n, err := p.guarded(selector)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []schemas.SelectOption
	for _, opt := range optionNodes(n) {
		out = append(out, schemas.SelectOption{
			Value: optionValue(opt),
			Text:  strings.TrimSpace(htmlquery.InnerText(opt)),
		})
	}
	return out, nil
}

func (p *PageMock) SelectIndex(ctx context.Context, selector string, index int) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected[n] = index
	delete(p.values, n)
	return nil
}

func (p *PageMock) SetFiles(ctx context.Context, selector, filename, mimeType string, data []byte) error {
	n, err := p.guarded(selector)
	if err != nil {
		return err
	}
	if !strings.EqualFold(attr(n, "type"), "file") {
		return fmt.Errorf("control %s is not a file input", selector)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files[n] = schemas.FileStub{Name: filename, Type: mimeType, Size: len(data)}
	return nil
}

func (p *PageMock) Files(ctx context.Context, selector string) ([]schemas.FileStub, error) {
	n, err := p.guarded(selector)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.files[n]; ok {
		return []schemas.FileStub{f}, nil
	}
	return nil, nil
}

func (p *PageMock) Highlight(ctx context.Context, selector string) error {
	if _, err := p.guarded(selector); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.highlighted = append(p.highlighted, selector)
	return nil
}

// -- selector resolution --

// guarded resolves the selector and applies injected failure modes.
func (p *PageMock) guarded(selector string) (*html.Node, error) {
	if p.panicking[selector] {
		panic(fmt.Sprintf("mock page: forced panic on %s", selector))
	}
	if err, ok := p.failing[selector]; ok {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	n := p.find(selector)
	if n == nil {
		return nil, fmt.Errorf("selector %q resolved to nothing", selector)
	}
	return n, nil
}

// find supports the selector grammar the engine actually produces: #id,
// [attr="value"] and XPath (leading slash). Must be called with p.mu held.
func (p *PageMock) find(selector string) *html.Node {
	if strings.HasPrefix(selector, "/") {
		return htmlquery.FindOne(p.doc, selector)
	}
	if strings.HasPrefix(selector, "#") {
		return p.findByAttr("id", selector[1:])
	}
	if strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]") {
		inner := selector[1 : len(selector)-1]
		key, val, ok := strings.Cut(inner, "=")
		if !ok {
			return nil
		}
		val = strings.Trim(val, `"'`)
		return p.findByAttr(key, val)
	}
	return nil
}

func (p *PageMock) findByAttr(key, val string) *html.Node {
	var walk func(n *html.Node) *html.Node
	walk = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && attr(n, key) == val {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(p.doc)
}

func (p *PageMock) checkedLocked(n *html.Node) bool {
	if v, ok := p.checked[n]; ok {
		return v
	}
	return hasAttr(n, "checked")
}

func (p *PageMock) selectedIndexLocked(n *html.Node, opts []*html.Node) int {
	if idx, ok := p.selected[n]; ok {
		return idx
	}
	for i, opt := range opts {
		if hasAttr(opt, "selected") {
			return i
		}
	}
	if len(opts) > 0 {
		return 0
	}
	return -1
}

func optionNodes(selectNode *html.Node) []*html.Node {
	return htmlquery.Find(selectNode, ".//option")
}

// optionValue mirrors HTML semantics: a missing value attribute means the
// option's text is its value.
func optionValue(opt *html.Node) string {
	for _, a := range opt.Attr {
		if a.Key == "value" {
			return a.Val
		}
	}
	return strings.TrimSpace(htmlquery.InnerText(opt))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
