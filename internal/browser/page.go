package browser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	jsoniter "github.com/json-iterator/go"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
)

var _ schemas.Page = (*Session)(nil)

var pageJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// jsString renders a Go string as a JS string literal.
func jsString(s string) string {
	encoded, err := pageJSON.MarshalToString(s)
	if err != nil {
		return `""`
	}
	return encoded
}

// jsFind returns a JS expression resolving the selector to an element or
// null. Selectors starting with "/" are XPath, everything else is CSS.
func jsFind(selector string) string {
	if strings.HasPrefix(selector, "/") {
		return fmt.Sprintf(
			`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`,
			jsString(selector))
	}
	return fmt.Sprintf(`document.querySelector(%s)`, jsString(selector))
}

func (s *Session) eval(ctx context.Context, expr string, out interface{}) error {
	return s.run(ctx, chromedp.Evaluate(expr, out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithReturnByValue(true).WithSilent(true)
	}))
}

// boolEval runs an expression returning true when it acted on the element;
// false means the selector resolved to nothing.
func (s *Session) boolEval(ctx context.Context, selector, expr string) error {
	var ok bool
	if err := s.eval(ctx, expr, &ok); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("selector %q resolved to nothing", selector)
	}
	return nil
}

type stringResult struct {
	Found bool   `json:"found"`
	Value string `json:"value"`
}

type boolResult struct {
	Found bool `json:"found"`
	Value bool `json:"value"`
}

// URL returns the address recorded at the last navigation.
func (s *Session) URL() string { return s.currentURL }

func (s *Session) Snapshot(ctx context.Context) (io.Reader, error) {
	var html string
	if err := s.eval(ctx, `document.documentElement.outerHTML`, &html); err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}
	return strings.NewReader(html), nil
}

func (s *Session) Resolve(ctx context.Context, selector string) (bool, error) {
	var found bool
	err := s.eval(ctx, fmt.Sprintf(`%s !== null`, jsFind(selector)), &found)
	return found, err
}

func (s *Session) Value(ctx context.Context, selector string) (string, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return {found: false, value: ""};
		return {found: true, value: String(el.value ?? "")};
	})()`, jsFind(selector))

	var res stringResult
	if err := s.eval(ctx, expr, &res); err != nil {
		return "", err
	}
	if !res.Found {
		return "", fmt.Errorf("selector %q resolved to nothing", selector)
	}
	return res.Value, nil
}

// SetValue writes through the prototype's native value setter so that
// framework-level property overrides never see (and swallow) the write.
func (s *Session) SetValue(ctx context.Context, selector, value string) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype
			: el instanceof HTMLSelectElement ? HTMLSelectElement.prototype
			: HTMLInputElement.prototype;
		const desc = Object.getOwnPropertyDescriptor(proto, 'value');
		if (desc && desc.set) { desc.set.call(el, %s); } else { el.value = %s; }
		return true;
	})()`, jsFind(selector), jsString(value), jsString(value))
	return s.boolEval(ctx, selector, expr)
}

// InsertText focuses the control and asks the browser for a native
// text-insertion, which fires the page's own input tracking.
func (s *Session) InsertText(ctx context.Context, selector, text string) error {
	focus := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.focus();
		return document.activeElement === el;
	})()`, jsFind(selector))
	if err := s.boolEval(ctx, selector, focus); err != nil {
		return fmt.Errorf("focus failed: %w", err)
	}
	return s.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return input.InsertText(text).Do(c)
	}))
}

func (s *Session) SetAttribute(ctx context.Context, selector, name, value string) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.setAttribute(%s, %s);
		return true;
	})()`, jsFind(selector), jsString(name), jsString(value))
	return s.boolEval(ctx, selector, expr)
}

func (s *Session) DispatchEvent(ctx context.Context, selector, event string) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.dispatchEvent(new Event(%s, {bubbles: true}));
		return true;
	})()`, jsFind(selector), jsString(event))
	return s.boolEval(ctx, selector, expr)
}

func (s *Session) Click(ctx context.Context, selector string) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.click();
		return true;
	})()`, jsFind(selector))
	return s.boolEval(ctx, selector, expr)
}

func (s *Session) Blur(ctx context.Context, selector string) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.blur();
		return true;
	})()`, jsFind(selector))
	return s.boolEval(ctx, selector, expr)
}

func (s *Session) Checked(ctx context.Context, selector string) (bool, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return {found: false, value: false};
		return {found: true, value: !!el.checked};
	})()`, jsFind(selector))

	var res boolResult
	if err := s.eval(ctx, expr, &res); err != nil {
		return false, err
	}
	if !res.Found {
		return false, fmt.Errorf("selector %q resolved to nothing", selector)
	}
	return res.Value, nil
}

func (s *Session) SetChecked(ctx context.Context, selector string, checked bool) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		const desc = Object.getOwnPropertyDescriptor(HTMLInputElement.prototype, 'checked');
		if (desc && desc.set) { desc.set.call(el, %t); } else { el.checked = %t; }
		return true;
	})()`, jsFind(selector), checked, checked)
	return s.boolEval(ctx, selector, expr)
}

func (s *Session) Options(ctx context.Context, selector string) ([]schemas.SelectOption, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || !el.options) return null;
		return Array.from(el.options).map(o => ({Value: o.value, Text: (o.textContent || "").trim()}));
	})()`, jsFind(selector))

	var options []schemas.SelectOption
	if err := s.eval(ctx, expr, &options); err != nil {
		return nil, err
	}
	if options == nil {
		return nil, fmt.Errorf("selector %q is not a choice control", selector)
	}
	return options, nil
}

func (s *Session) SelectIndex(ctx context.Context, selector string, index int) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || !el.options || %d >= el.options.length) return false;
		el.selectedIndex = %d;
		return true;
	})()`, jsFind(selector), index, index)
	return s.boolEval(ctx, selector, expr)
}

// SetFiles materializes the payload as a real file and hands its path to the
// browser's file-input API. The file must outlive the page's lazy reads, so
// it is removed at session close, not here.
func (s *Session) SetFiles(ctx context.Context, selector, filename, mimeType string, data []byte) error {
	dir, err := os.MkdirTemp("", "jobswipe-upload-*")
	if err != nil {
		return fmt.Errorf("failed to stage upload: %w", err)
	}
	s.trackTempDir(dir)

	if filename == "" {
		filename = "upload.bin"
	}
	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to stage upload: %w", err)
	}

	opt := chromedp.ByQuery
	if strings.HasPrefix(selector, "/") {
		opt = chromedp.BySearch
	}
	if err := s.run(ctx, chromedp.SetUploadFiles(selector, []string{path}, opt)); err != nil {
		return fmt.Errorf("failed to assign file list: %w", err)
	}
	s.logger.Debug("File staged into control")
	return nil
}

func (s *Session) Files(ctx context.Context, selector string) ([]schemas.FileStub, error) {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el || !el.files) return null;
		return Array.from(el.files).map(f => ({Name: f.name, Type: f.type, Size: f.size}));
	})()`, jsFind(selector))

	var files []schemas.FileStub
	if err := s.eval(ctx, expr, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *Session) Highlight(ctx context.Context, selector string) error {
	expr := fmt.Sprintf(`(() => {
		const el = %s;
		if (!el) return false;
		el.style.backgroundColor = '#d4edda';
		el.style.transition = 'background-color 0.3s';
		return true;
	})()`, jsFind(selector))
	return s.boolEval(ctx, selector, expr)
}
