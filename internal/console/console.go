// Package console implements the interactive terminal front end: a line-based
// command loop over the product facade, with a form wizard for create/edit.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/xenking/product-desk/internal/domain/product"
	"github.com/xenking/product-desk/internal/facade"
	"github.com/xenking/product-desk/internal/form"
	"github.com/xenking/product-desk/internal/notify"
	"github.com/xenking/product-desk/pkg/health"
)

// fieldLabels maps form fields to the labels used in prompts and error
// messages.
var fieldLabels = map[form.Field]string{
	form.FieldID:           "ID",
	form.FieldName:         "Name",
	form.FieldDescription:  "Description",
	form.FieldLogo:         "Logo URL",
	form.FieldDateRelease:  "Release date (YYYY-MM-DD)",
	form.FieldDateRevision: "Revision date (YYYY-MM-DD)",
}

// Console runs the interactive command loop.
type Console struct {
	facade   *facade.Facade
	center   *notify.Center
	monitor  *health.Monitor
	exists   form.ExistsFunc
	messages *form.Messages
	lg       *zap.Logger

	in  *bufio.Scanner
	out io.Writer

	// Toast change callbacks arrive from auto-dismiss timer goroutines as
	// well as the loop goroutine; seen tracks which toasts were already
	// printed so expirations do not reprint the survivors.
	toastMu sync.Mutex
	seen    map[string]struct{}
}

// syncWriter serializes writes from the command loop and the toast change
// callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// New creates a Console reading commands from in and writing to out. monitor
// may be nil when reachability monitoring is disabled.
func New(
	f *facade.Facade,
	center *notify.Center,
	monitor *health.Monitor,
	exists form.ExistsFunc,
	in io.Reader,
	out io.Writer,
	lg *zap.Logger,
) *Console {
	return &Console{
		facade:   f,
		center:   center,
		monitor:  monitor,
		exists:   exists,
		messages: form.DefaultMessages(),
		lg:       lg,
		in:       bufio.NewScanner(in),
		out:      &syncWriter{w: out},
		seen:     make(map[string]struct{}),
	}
}

// ToList renders the product list; part of the facade.Navigator contract.
func (c *Console) ToList() { c.renderList() }

// ToCreate announces the creation form; the wizard itself runs inline.
func (c *Console) ToCreate() { fmt.Fprintln(c.out, "-- new product --") }

// ToEdit announces the edit form for a product.
func (c *Console) ToEdit(p product.Product) {
	fmt.Fprintf(c.out, "-- edit product %s --\n", p.ID)
}

// Run executes the command loop until EOF, "quit", or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	c.center.OnChange(c.renderToasts)
	defer c.center.OnChange(nil)

	c.facade.LoadProducts(ctx)
	c.renderList()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(c.out, "> ")
		line, ok := c.readLine()
		if !ok {
			return nil
		}
		cmd, arg := splitCommand(line)

		switch cmd {
		case "":
		case "list":
			c.renderList()
		case "search":
			c.facade.OnSearchInput(arg)
			fmt.Fprintf(c.out, "searching %q...\n", strings.TrimSpace(arg))
		case "page":
			c.setPageSize(arg)
		case "show":
			c.show(arg)
		case "create":
			c.create(ctx)
		case "edit":
			c.edit(ctx, arg)
		case "delete":
			c.delete(ctx, arg)
		case "retry":
			c.facade.Retry(ctx)
			c.renderList()
		case "status":
			c.renderStatus()
		case "help":
			c.renderHelp()
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(c.out, "unknown command %q; try help\n", cmd)
		}
	}
}

func (c *Console) readLine() (string, bool) {
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func splitCommand(line string) (cmd, arg string) {
	cmd, arg, _ = strings.Cut(line, " ")
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}

func (c *Console) setPageSize(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintf(c.out, "page needs a number, got %q\n", arg)
		return
	}
	c.facade.UpdatePageSize(n)
	c.renderList()
}

func (c *Console) renderList() {
	snap := c.facade.Snapshot()
	if snap.Loading {
		fmt.Fprintln(c.out, "loading...")
		return
	}
	if snap.HasError() {
		fmt.Fprintf(c.out, "error: %s (use retry)\n", snap.Err)
		return
	}
	if snap.IsEmpty() {
		fmt.Fprintln(c.out, "no products yet; use create")
		return
	}

	page := c.facade.Products()
	fmt.Fprintf(c.out, "%-12s %-30s %-12s %-12s\n", "ID", "NAME", "RELEASE", "REVISION")
	for _, p := range page {
		fmt.Fprintf(c.out, "%-12s %-30s %-12s %-12s\n",
			p.ID, p.Name, p.DateRelease, p.DateRevision)
	}
	fmt.Fprintf(c.out, "%d result(s), showing %d\n", c.facade.FilteredCount(), len(page))
}

func (c *Console) renderToasts(toasts []notify.Toast) {
	c.toastMu.Lock()
	defer c.toastMu.Unlock()

	current := make(map[string]struct{}, len(toasts))
	for _, t := range toasts {
		current[t.ID] = struct{}{}
		if _, ok := c.seen[t.ID]; ok {
			continue
		}
		c.seen[t.ID] = struct{}{}
		fmt.Fprintf(c.out, "[%s] %s\n", t.Kind, t.Message)
	}
	for id := range c.seen {
		if _, ok := current[id]; !ok {
			delete(c.seen, id)
		}
	}
}

func (c *Console) renderStatus() {
	if c.monitor == nil {
		fmt.Fprintln(c.out, "reachability monitoring disabled")
		return
	}
	st := c.monitor.Status()
	if st.Healthy {
		fmt.Fprintln(c.out, "backend: reachable")
		return
	}
	fmt.Fprintf(c.out, "backend: unreachable (%v)\n", st.LastErr)
}

func (c *Console) renderHelp() {
	fmt.Fprintln(c.out, `commands:
  list            show the current page of products
  search <term>   filter by id, name, or description
  page <n>        set page size
  show <id>       print one product
  create          add a product
  edit <id>       modify a product
  delete <id>     remove a product
  retry           retry after a failed load
  status          backend reachability
  quit            leave`)
}

func (c *Console) show(id string) {
	for _, p := range c.facade.Snapshot().Products {
		if p.ID == id {
			fmt.Fprintf(c.out, "id:          %s\n", p.ID)
			fmt.Fprintf(c.out, "name:        %s\n", p.Name)
			fmt.Fprintf(c.out, "description: %s\n", p.Description)
			fmt.Fprintf(c.out, "logo:        %s\n", p.Logo)
			fmt.Fprintf(c.out, "release:     %s\n", p.DateRelease)
			fmt.Fprintf(c.out, "revision:    %s\n", p.DateRevision)
			return
		}
	}
	fmt.Fprintf(c.out, "no product with id %q\n", id)
}

func (c *Console) create(ctx context.Context) {
	c.ToCreate()
	f := form.New(form.WithExists(c.exists))
	if !c.runWizard(ctx, f) {
		return
	}
	p, err := f.Product()
	if err != nil {
		c.renderFormErrors(f)
		return
	}
	c.facade.CreateProduct(ctx, p)
}

func (c *Console) edit(ctx context.Context, id string) {
	var found *product.Product
	for _, p := range c.facade.Snapshot().Products {
		if p.ID == id {
			cp := p
			found = &cp
			break
		}
	}
	if found == nil {
		fmt.Fprintf(c.out, "no product with id %q\n", id)
		return
	}

	c.facade.NavigateToEdit(*found)
	f := form.Edit(*found, form.WithExists(c.exists))
	if !c.runWizard(ctx, f) {
		return
	}
	updateID, p, err := f.UpdatePayload()
	if err != nil {
		c.renderFormErrors(f)
		return
	}
	c.facade.UpdateProduct(ctx, updateID, p)
}

func (c *Console) delete(ctx context.Context, id string) {
	fmt.Fprintf(c.out, "delete %q? [y/N] ", id)
	line, ok := c.readLine()
	if !ok || !strings.EqualFold(line, "y") {
		fmt.Fprintln(c.out, "cancelled")
		return
	}
	c.facade.DeleteProduct(ctx, id)
}

// runWizard prompts for each field in order. Empty input keeps the current
// value, which matters in edit mode. The ID field is skipped entirely when
// editing (immutable); committing it triggers the async uniqueness check.
// Returns false when input ended early.
func (c *Console) runWizard(ctx context.Context, f *form.Form) bool {
	for _, field := range form.Fields {
		if field == form.FieldID && f.EditMode() {
			continue
		}
		for {
			current := f.Value(field)
			if current != "" {
				fmt.Fprintf(c.out, "%s [%s]: ", fieldLabels[field], current)
			} else {
				fmt.Fprintf(c.out, "%s: ", fieldLabels[field])
			}

			line, ok := c.readLine()
			if !ok {
				return false
			}
			if line != "" || current == "" {
				f.Set(field, line)
			}
			if field == form.FieldID {
				f.CommitID(ctx)
			}

			err := f.Err(field)
			if err == nil {
				break
			}
			fmt.Fprintln(c.out, c.messages.Render(*err, fieldLabels[field]))
		}
	}
	return true
}

func (c *Console) renderFormErrors(f *form.Form) {
	for _, field := range form.Fields {
		if err := f.Err(field); err != nil {
			fmt.Fprintln(c.out, c.messages.Render(*err, fieldLabels[field]))
		}
	}
}
