// Package scan walks all form controls of a live page and builds the
// addressable, serializable model handed to the planner. Each control gets a
// resolved human-readable label, a selector guaranteed to resolve back to
// that control and no other, and a best-effort semantic classification.
package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/classify"
)

// DefaultMarkerAttr is the synthetic marker attribute written onto controls
// that have neither an id nor a name.
const DefaultMarkerAttr = "data-jsa-id"

// A self-axis union keeps a single traversal, so controls come back in
// document order; "//input | //textarea | //select" would group by tag.
const controlXPath = "//*[self::input or self::textarea or self::select]"

// Config tunes the scanner. Zero values fall back to the defaults.
type Config struct {
	// MarkerAttr is the attribute name used for synthetic selectors.
	MarkerAttr string
	// OptionCap bounds the option list carried in descriptors.
	OptionCap int
}

// Scanner discovers and describes the form controls of a page.
type Scanner struct {
	logger     *zap.Logger
	markerAttr string
	optionCap  int

	// newMarker generates synthetic marker tokens; injectable for tests.
	newMarker func() string
}

// New creates a scanner.
func New(logger *zap.Logger, cfg Config) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MarkerAttr == "" {
		cfg.MarkerAttr = DefaultMarkerAttr
	}
	if cfg.OptionCap <= 0 {
		cfg.OptionCap = schemas.OptionCap
	}
	return &Scanner{
		logger:     logger.Named("scan"),
		markerAttr: cfg.MarkerAttr,
		optionCap:  cfg.OptionCap,
		newMarker:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:9] },
	}
}

// Scan returns one descriptor per visible, enabled, writable control, in
// document order. Descriptors are constructed fresh on every call and never
// cached; only the synthetic markers persist, written onto the live page so
// that a selector captured now still resolves when a plan executes later.
func (s *Scanner) Scan(ctx context.Context, page schemas.Page) ([]schemas.FormControl, error) {
	snapshot, err := page.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("page snapshot: %w", err)
	}
	doc, err := htmlquery.Parse(snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot parse: %w", err)
	}

	var controls []schemas.FormControl
	for _, node := range htmlquery.Find(doc, controlXPath) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		meta := metaFromNode(doc, node)
		if meta.Hidden || meta.Disabled || meta.ReadOnly {
			continue
		}

		selector, err := s.selectorFor(ctx, page, node, meta)
		if err != nil {
			s.logger.Warn("Skipping control without addressable selector",
				zap.String("tag", meta.TagName), zap.Error(err))
			continue
		}

		ctl := schemas.FormControl{
			Selector:     selector,
			ControlType:  meta.Type,
			TagName:      meta.TagName,
			Label:        meta.Label,
			Name:         meta.Name,
			Placeholder:  meta.Placeholder,
			InferredType: classify.Classify(meta),
		}
		if meta.TagName == "select" {
			ctl.Options = s.optionTexts(node)
		}
		controls = append(controls, ctl)
	}
	return controls, nil
}

// DetectedTypes returns the deduplicated semantic types found on the page,
// in first-seen order. Display aid for the popup's analyze action.
func DetectedTypes(controls []schemas.FormControl) []schemas.SemanticFieldType {
	seen := make(map[schemas.SemanticFieldType]bool)
	var types []schemas.SemanticFieldType
	for _, c := range controls {
		if c.InferredType == schemas.FieldNone || seen[c.InferredType] {
			continue
		}
		seen[c.InferredType] = true
		types = append(types, c.InferredType)
	}
	return types
}

// selectorFor assigns the control's selector: id-based if an id exists, else
// name-based, else a synthetic marker attribute. Marker assignment is
// idempotent: a marker already present on the control is reused, never
// reassigned, so repeated scans yield stable selectors.
func (s *Scanner) selectorFor(ctx context.Context, page schemas.Page, node *html.Node, meta schemas.ControlMeta) (string, error) {
	if meta.ID != "" {
		return "#" + meta.ID, nil
	}
	if meta.Name != "" {
		return fmt.Sprintf(`[name=%q]`, meta.Name), nil
	}

	marker := htmlquery.SelectAttr(node, s.markerAttr)
	if marker == "" {
		marker = s.newMarker()
		// The parsed snapshot is detached from the live page; address the
		// node by structural XPath to write the marker onto the real control.
		xp := uniqueXPath(node)
		if xp == "" {
			return "", fmt.Errorf("no unique xpath for unnamed control")
		}
		if err := page.SetAttribute(ctx, xp, s.markerAttr, marker); err != nil {
			return "", fmt.Errorf("marker write: %w", err)
		}
	}
	return fmt.Sprintf(`[%s=%q]`, s.markerAttr, marker), nil
}

func (s *Scanner) optionTexts(selectNode *html.Node) []string {
	var texts []string
	for _, opt := range htmlquery.Find(selectNode, ".//option") {
		if len(texts) >= s.optionCap {
			break
		}
		texts = append(texts, collapseWhitespace(htmlquery.InnerText(opt)))
	}
	return texts
}

// metaFromNode extracts the classifier-facing metadata of one control node.
func metaFromNode(doc, node *html.Node) schemas.ControlMeta {
	tag := strings.ToLower(node.Data)
	typ := strings.ToLower(htmlquery.SelectAttr(node, "type"))
	if typ == "" {
		switch tag {
		case "input":
			typ = "text"
		case "textarea":
			typ = "textarea"
		case "select":
			typ = "select"
		}
	}

	meta := schemas.ControlMeta{
		TagName:     tag,
		Type:        typ,
		Name:        htmlquery.SelectAttr(node, "name"),
		ID:          htmlquery.SelectAttr(node, "id"),
		Placeholder: htmlquery.SelectAttr(node, "placeholder"),
		Hidden:      typ == "hidden" || hasAttr(node, "hidden"),
		Disabled:    hasAttr(node, "disabled"),
		ReadOnly:    hasAttr(node, "readonly"),
	}
	meta.Label = resolveLabel(doc, node, meta)
	return meta
}

// resolveLabel resolves the control's caption: associated <label> elements
// first, then a label[for=id] lookup, then the accessibility label, then the
// placeholder. Whitespace is collapsed to single spaces and trimmed.
func resolveLabel(doc, node *html.Node, meta schemas.ControlMeta) string {
	for parent := node.Parent; parent != nil; parent = parent.Parent {
		if parent.Type == html.ElementNode && strings.EqualFold(parent.Data, "label") {
			if text := collapseWhitespace(htmlquery.InnerText(parent)); text != "" {
				return text
			}
		}
	}
	if meta.ID != "" {
		if labelNode := htmlquery.FindOne(doc, fmt.Sprintf(`//label[@for='%s']`, meta.ID)); labelNode != nil {
			if text := collapseWhitespace(htmlquery.InnerText(labelNode)); text != "" {
				return text
			}
		}
	}
	if aria := htmlquery.SelectAttr(node, "aria-label"); aria != "" {
		return collapseWhitespace(aria)
	}
	return collapseWhitespace(meta.Placeholder)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
