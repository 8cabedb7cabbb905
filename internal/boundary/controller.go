package boundary

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/api/schemas"
	"github.com/jobswipe/jobswipe-cli/internal/fill"
	"github.com/jobswipe/jobswipe-cli/internal/offer"
	"github.com/jobswipe/jobswipe-cli/internal/scan"
)

// Command action names, part of the wire contract with the controller side.
const (
	ActionFillForm      = "fill_form"
	ActionAnalyzeForm   = "analyze_form"
	ActionScanContext   = "scan_form_context"
	ActionExecuteAIPlan = "execute_ai_plan"
	ActionScanJobOffer  = "scan_job_offer"
)

// Command is one inbound request. Only the fields relevant to the named
// action are populated; everything is untrusted.
type Command struct {
	Action   string              `json:"action"`
	Data     jsoniter.RawMessage `json:"data,omitempty"`
	Plan     jsoniter.RawMessage `json:"plan,omitempty"`
	UserData jsoniter.RawMessage `json:"userData,omitempty"`
}

// Response covers every command's reply shape; unused fields stay absent on
// the wire.
type Response struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`

	// Fields and Context keep their key even when empty: an empty form is
	// a valid answer, not an absent one. Handlers leave them nil on the
	// commands that do not reply with them.
	Fields  []schemas.SemanticFieldType `json:"fields"`
	Context []schemas.FormControl       `json:"context"`
	Data    *schemas.JobOffer           `json:"data,omitempty"`
}

func errorResponse(format string, args ...interface{}) Response {
	return Response{Status: "error", Message: fmt.Sprintf(format, args...)}
}

// Controller dispatches inbound commands to the engine components.
type Controller struct {
	scanner    *scan.Scanner
	autofiller *fill.Autofiller
	executor   *fill.Executor
	scraper    *offer.Scraper
	store      schemas.ProfileStore
	logger     *zap.Logger
}

func NewController(scanner *scan.Scanner, autofiller *fill.Autofiller, executor *fill.Executor, scraper *offer.Scraper, store schemas.ProfileStore, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		scanner:    scanner,
		autofiller: autofiller,
		executor:   executor,
		scraper:    scraper,
		store:      store,
		logger:     logger.Named("boundary"),
	}
}

// Handle runs one command against the page and returns its reply. A failure
// is a reply with status "error"; Handle itself never fails the transport.
func (c *Controller) Handle(ctx context.Context, page schemas.Page, cmd Command) Response {
	c.logger.Debug("Handling command", zap.String("action", cmd.Action))

	switch cmd.Action {
	case ActionFillForm:
		return c.fillForm(ctx, page, cmd)
	case ActionAnalyzeForm:
		return c.analyzeForm(ctx, page)
	case ActionScanContext:
		return c.scanContext(ctx, page)
	case ActionExecuteAIPlan:
		return c.executePlan(ctx, page, cmd)
	case ActionScanJobOffer:
		return c.scanJobOffer(ctx, page)
	default:
		return errorResponse("unknown action %q", cmd.Action)
	}
}

func (c *Controller) fillForm(ctx context.Context, page schemas.Page, cmd Command) Response {
	var profile schemas.UserProfileData
	if len(cmd.Data) == 0 {
		return errorResponse("fill_form requires a data payload")
	}
	if err := wireJSON.Unmarshal(cmd.Data, &profile); err != nil {
		return errorResponse("fill_form payload is not a profile: %v", err)
	}

	count, err := c.autofiller.Fill(ctx, page, &profile)
	if err != nil {
		return errorResponse("fill failed: %v", err)
	}
	return Response{Status: "success", Count: &count}
}

func (c *Controller) analyzeForm(ctx context.Context, page schemas.Page) Response {
	controls, err := c.scanner.Scan(ctx, page)
	if err != nil {
		return errorResponse("scan failed: %v", err)
	}
	fields := scan.DetectedTypes(controls)
	if fields == nil {
		fields = []schemas.SemanticFieldType{}
	}
	return Response{Fields: fields}
}

func (c *Controller) scanContext(ctx context.Context, page schemas.Page) Response {
	controls, err := c.scanner.Scan(ctx, page)
	if err != nil {
		return errorResponse("scan failed: %v", err)
	}
	if controls == nil {
		controls = []schemas.FormControl{}
	}
	return Response{Context: controls}
}

func (c *Controller) executePlan(ctx context.Context, page schemas.Page, cmd Command) Response {
	plan := schemas.DecodePlan(cmd.Plan)

	var profile *schemas.UserProfileData
	if len(cmd.UserData) > 0 {
		profile = &schemas.UserProfileData{}
		if err := wireJSON.Unmarshal(cmd.UserData, profile); err != nil {
			c.logger.Warn("Ignoring malformed userData payload", zap.Error(err))
			profile = nil
		}
	}

	result := c.executor.Execute(ctx, page, plan, profile)
	return Response{Count: &result.SuccessCount}
}

// scanJobOffer scrapes the offer and, when a store is attached, persists it
// so the companion site can request it later.
func (c *Controller) scanJobOffer(ctx context.Context, page schemas.Page) Response {
	scraped, err := c.scraper.Scrape(ctx, page)
	if err != nil {
		return errorResponse("scrape failed: %v", err)
	}
	if c.store != nil {
		if err := c.store.SaveOffer(ctx, scraped); err != nil {
			c.logger.Warn("Failed to persist scraped offer", zap.Error(err))
		}
	}
	return Response{Data: scraped}
}
