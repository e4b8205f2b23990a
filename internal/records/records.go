// ABOUTME: Record CRUD and pagination controller for the scoped collection
// ABOUTME: Clamps paging inputs, reconciles server metadata, and re-lists after deletes

package records

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/mstanton/taskstash/internal/api"
	"github.com/mstanton/taskstash/internal/auth"
	"github.com/mstanton/taskstash/internal/errs"
)

const (
	// DefaultLimit is the page size used before the first explicit list.
	DefaultLimit = 20

	// MaxLimit is the largest page size the service accepts.
	MaxLimit = 100

	// OrderAsc and OrderDesc are the supported list orders over creation time.
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Filter is a local projection over the currently loaded page. It never
// changes the server query, so it only reflects records on that page.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// PageState is the server-authoritative pagination state after a list.
type PageState struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Controller owns the in-memory view of the collection: the loaded page of
// records and its pagination state, rebuilt from the server after each
// list and kept consistent across mutations. Every operation requires a
// valid session and fails without a network call when there is none.
type Controller struct {
	api  *api.Client
	auth *auth.Flow

	records []api.Record
	page    PageState
	order   string
}

// New creates a controller over the given client and auth flow.
func New(client *api.Client, flow *auth.Flow) *Controller {
	return &Controller{api: client, auth: flow, order: OrderDesc}
}

// Records returns the currently loaded page of records.
func (c *Controller) Records() []api.Record {
	return c.records
}

// Page returns the current pagination state.
func (c *Controller) Page() PageState {
	return c.page
}

// List fetches one page. page is clamped to >=1, limit to [1,100], and
// order to asc|desc (default desc). The returned PageState comes from the
// server when it reports metadata; otherwise it is synthesized from the
// returned count. That synthesis approximates total as the current page's
// length, which understates it beyond a single page.
func (c *Controller) List(ctx context.Context, page, limit int, order string) ([]api.Record, PageState, error) {
	sess, err := c.auth.Current()
	if err != nil {
		return nil, c.page, err
	}

	page = clampPage(page)
	limit = clampLimit(limit)
	order = normalizeOrder(order)

	recs, meta, err := c.api.ListRecords(ctx, sess.Token, order, limit, page)
	if err != nil {
		return nil, c.page, err
	}

	state := PageState{Page: page, Limit: limit}
	if meta != nil {
		state = PageState{Page: meta.Page, Limit: meta.Limit, Total: meta.Total, Pages: meta.Pages}
	} else {
		state.Total = len(recs)
		state.Pages = (state.Total + limit - 1) / limit
		if state.Pages < 1 {
			state.Pages = 1
		}
	}

	c.records = recs
	c.page = state
	c.order = order
	return recs, state, nil
}

// Create adds a record. The title is required after trimming; title and
// notes are sent trimmed. The new record is not spliced into the loaded
// page, since its position under the current ordering is unknown; callers
// re-list page 1 for a consistent view.
func (c *Controller) Create(ctx context.Context, fields api.Fields) (*api.Record, error) {
	sess, err := c.auth.Current()
	if err != nil {
		return nil, err
	}

	fields, err = cleanFields(fields)
	if err != nil {
		return nil, err
	}

	return c.api.CreateRecord(ctx, sess.Token, fields)
}

// Update replaces all fields of the record with the given id and swaps the
// result into the loaded page in place, preserving list position.
func (c *Controller) Update(ctx context.Context, id string, fields api.Fields) (*api.Record, error) {
	sess, err := c.auth.Current()
	if err != nil {
		return nil, err
	}

	fields, err = cleanFields(fields)
	if err != nil {
		return nil, err
	}

	rec, err := c.api.UpdateRecord(ctx, sess.Token, id, fields)
	if err != nil {
		return nil, err
	}

	for i := range c.records {
		if c.records[i].ID == rec.ID {
			c.records[i] = *rec
			break
		}
	}
	return rec, nil
}

// Toggle flips the record's completion flag via the same full-field
// replacement as Update.
func (c *Controller) Toggle(ctx context.Context, rec api.Record) (*api.Record, error) {
	return c.Update(ctx, rec.ID, api.Fields{
		Title:     rec.Title,
		Notes:     rec.Notes,
		Completed: !rec.Completed,
	})
}

// Delete removes the record and re-lists to restore a consistent view. If
// the deleted record was the only item on a page beyond page 1, the
// previous page is fetched instead of leaving the caller on an empty one.
// A failed delete leaves the loaded page and its state untouched.
func (c *Controller) Delete(ctx context.Context, id string) ([]api.Record, PageState, error) {
	sess, err := c.auth.Current()
	if err != nil {
		return nil, c.page, err
	}

	if err := c.api.DeleteRecord(ctx, sess.Token, id); err != nil {
		return nil, c.page, err
	}

	next := c.page.Page
	if next < 1 {
		next = 1
	}
	if next > 1 && len(c.records) == 1 && c.records[0].ID == id {
		next--
	}

	limit := c.page.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	return c.List(ctx, next, limit, c.order)
}

// Apply projects the given records through a completion filter. Pure and
// local: no network, no re-sort.
func Apply(recs []api.Record, filter Filter) []api.Record {
	if filter == FilterAll || filter == "" {
		return recs
	}
	wantCompleted := filter == FilterCompleted
	out := make([]api.Record, 0, len(recs))
	for _, r := range recs {
		if r.Completed == wantCompleted {
			out = append(out, r)
		}
	}
	return out
}

// Filtered applies the filter to the currently loaded page.
func (c *Controller) Filtered(filter Filter) []api.Record {
	return Apply(c.records, filter)
}

func cleanFields(fields api.Fields) (api.Fields, error) {
	fields.Title = strings.TrimSpace(fields.Title)
	fields.Notes = strings.TrimSpace(fields.Notes)
	if err := validation.Validate(fields.Title, validation.Required); err != nil {
		return fields, fmt.Errorf("%w: title %v", errs.ErrValidation, err)
	}
	return fields, nil
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

func normalizeOrder(order string) string {
	if strings.EqualFold(order, OrderAsc) {
		return OrderAsc
	}
	return OrderDesc
}
