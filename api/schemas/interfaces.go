// Canonical interface definitions live here, at the API level, so that the
// engine packages, the browser implementation, and the test fakes all share
// one contract without import cycles.
package schemas

import (
	"context"
	"io"
)

// Page is the injected capability over a live document. The fill engine never
// touches a browser directly; everything it needs (resolve a selector, read
// and write control properties, dispatch events) goes through this
// interface, so the core logic is testable against an in-memory fake.
//
// Selectors are CSS (#id, [name="..."], [data-jsa-id="..."]) except those
// starting with "/", which are XPath. Implementations resolve the selector
// fresh on every call; nothing holds a stale element reference.
type Page interface {
	// URL returns the address of the current document.
	URL() string
	// Snapshot returns the current serialized HTML of the document.
	Snapshot(ctx context.Context) (io.Reader, error)
	// Resolve reports whether the selector matches at least one element.
	Resolve(ctx context.Context, selector string) (bool, error)

	// Value reads the control's current value property.
	Value(ctx context.Context, selector string) (string, error)
	// SetValue writes the value through the control's underlying native
	// property setter, bypassing framework-level overrides. No events fire.
	SetValue(ctx context.Context, selector, value string) error
	// InsertText focuses the control and performs the host environment's
	// native text-insertion command. Fails when the host refuses the command.
	InsertText(ctx context.Context, selector, text string) error

	SetAttribute(ctx context.Context, selector, name, value string) error
	// DispatchEvent dispatches a bubbling event of the given type on the
	// control.
	DispatchEvent(ctx context.Context, selector, event string) error
	Click(ctx context.Context, selector string) error
	Blur(ctx context.Context, selector string) error

	Checked(ctx context.Context, selector string) (bool, error)
	SetChecked(ctx context.Context, selector string, checked bool) error

	// Options returns the control's full live option set, in document order.
	Options(ctx context.Context, selector string) ([]SelectOption, error)
	SelectIndex(ctx context.Context, selector string, index int) error

	// SetFiles places a single named file into the control's file list.
	SetFiles(ctx context.Context, selector, filename, mimeType string, data []byte) error
	Files(ctx context.Context, selector string) ([]FileStub, error)

	// Highlight applies the visual fill-confirmation feedback to the control.
	// Best-effort; not a correctness requirement.
	Highlight(ctx context.Context, selector string) error
}

// ProfileStore is the key-value storage behind the messaging boundary's page
// channel. Lifecycle is write-on-sync, read-on-request, last-write-wins;
// a nil result with nil error means the key holds nothing yet.
type ProfileStore interface {
	SaveProfile(ctx context.Context, profile *UserProfileData) error
	LoadProfile(ctx context.Context) (*UserProfileData, error)
	SaveOffer(ctx context.Context, offer *JobOffer) error
	LoadOffer(ctx context.Context) (*JobOffer, error)
	Close() error
}

// Planner turns a scanned form and a user profile into an action plan. It is
// an external collaborator; the engine only consumes its output, and treats
// that output as untrusted.
type Planner interface {
	BuildPlan(ctx context.Context, profile *UserProfileData, controls []FormControl) (*Plan, error)
}
