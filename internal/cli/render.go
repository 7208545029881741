package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/mesh-intelligence/plantbook/internal/flow"
	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// Palette taken from the app's garden theme.
const (
	colorLeaf  = lipgloss.Color("#2D6A4F")
	colorMuted = lipgloss.Color("#6B6B6B")
	colorError = lipgloss.Color("#C0392B")
)

// renderer writes human-readable or JSON output for the CLI commands.
// Messages and errors go to errOut in JSON mode so stdout stays parseable.
type renderer struct {
	out      io.Writer
	errOut   io.Writer
	jsonMode bool

	lr      *lipgloss.Renderer
	profile termenv.Profile // detected for out
	heading lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	failure lipgloss.Style
}

func newRenderer(out, errOut io.Writer, color, jsonMode bool) *renderer {
	r := &renderer{
		out:      out,
		errOut:   errOut,
		jsonMode: jsonMode,
		lr:       lipgloss.NewRenderer(out),
	}
	r.profile = r.lr.ColorProfile()
	r.setColor(color)
	return r
}

// setColor rebuilds the styles. With color off every style renders plain text.
func (r *renderer) setColor(color bool) {
	if color {
		r.lr.SetColorProfile(r.profile)
	} else {
		r.lr.SetColorProfile(termenv.Ascii)
	}
	r.heading = r.lr.NewStyle().Bold(true).Foreground(colorLeaf)
	r.name = r.lr.NewStyle().Bold(true).Foreground(colorLeaf)
	r.muted = r.lr.NewStyle().Foreground(colorMuted)
	r.failure = r.lr.NewStyle().Bold(true).Foreground(colorError)
}

func (r *renderer) writeJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(r.out, string(data))
	return err
}

// message prints an informational line.
func (r *renderer) message(format string, args ...any) {
	w := r.out
	if r.jsonMode {
		w = r.errOut
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// failed prints an error the user can act on.
func (r *renderer) failed(err error) {
	w := r.out
	if r.jsonMode {
		w = r.errOut
	}
	fmt.Fprintln(w, r.failure.Render("error:")+" "+err.Error())
}

// list prints the plant list screen.
func (r *renderer) list(rows []flow.Row) error {
	if r.jsonMode {
		return r.writeJSON(rows)
	}

	fmt.Fprintln(r.out, r.heading.Render("My Plants"))
	if len(rows) == 0 {
		fmt.Fprintln(r.out, r.muted.Render("Your garden is empty."))
		fmt.Fprintln(r.out, r.muted.Render(`Type "add" to add a new plant!`))
		return nil
	}
	for i, row := range rows {
		photo := ""
		if row.PhotoURI == "" {
			photo = " (no photo)"
		}
		fmt.Fprintf(r.out, "%3d. %s %s%s\n     %s\n",
			i+1,
			r.name.Render(row.Name),
			r.muted.Render("Added on "+row.DateAdded),
			r.muted.Render(photo),
			r.muted.Render(row.ID),
		)
	}
	return nil
}

// plant prints a single record.
func (r *renderer) plant(p types.Plant) error {
	if r.jsonMode {
		return r.writeJSON(p)
	}

	fmt.Fprintln(r.out, r.name.Render(p.Name))
	fmt.Fprintf(r.out, "  id:     %s\n", p.ID)
	fmt.Fprintf(r.out, "  added:  %s\n", p.DateAdded)
	fmt.Fprintf(r.out, "  photo:  %s\n", photoLabel(p.Photo))
	if p.Notes != "" {
		fmt.Fprintf(r.out, "  notes:  %s\n", p.Notes)
	}
	return nil
}

// draftView is the JSON shape of the show command.
type draftView struct {
	Screen flow.Screen  `json:"screen"`
	Photo  *types.Photo `json:"photo"`
	Name   string       `json:"name"`
	Notes  string       `json:"notes"`
}

// drafts prints the current screen and the draft fields.
func (r *renderer) drafts(screen flow.Screen, d types.Drafts) error {
	view := draftView{Screen: screen, Photo: d.Photo(), Name: d.Name(), Notes: d.Notes()}
	if r.jsonMode {
		return r.writeJSON(view)
	}

	fmt.Fprintf(r.out, "%s %s\n", r.heading.Render("screen:"), view.Screen)
	fmt.Fprintf(r.out, "  photo:  %s\n", photoLabel(view.Photo))
	fmt.Fprintf(r.out, "  name:   %q\n", view.Name)
	fmt.Fprintf(r.out, "  notes:  %q\n", view.Notes)
	return nil
}

func photoLabel(p *types.Photo) string {
	if p == nil {
		return "none"
	}
	if p.Width > 0 && p.Height > 0 {
		return fmt.Sprintf("%s (%dx%d)", p.URI, p.Width, p.Height)
	}
	return p.URI
}
