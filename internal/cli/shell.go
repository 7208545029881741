package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantbook/internal/flow"
	"github.com/mesh-intelligence/plantbook/pkg/types"
)

const shellHelp = `Commands (the screen they apply to in brackets):
  list                     show the catalogue and return to it     [any]
  add                      start adding a plant                    [list]
  open <id|n>              edit a plant by ID or list position     [list]
  photo <path> [w h]       take a photo from an image file         [capture]
  retake                   discard the photo                       [capture]
  continue                 accept the photo                        [capture]
  name <text>              set the plant name                      [create, edit]
  notes <text>             set the notes                           [create, edit]
  change-photo             replace the plant's photo               [edit]
  submit                   save the plant                          [create, edit]
  show                     print the current screen and drafts     [any]
  back                     return to the list without saving       [any]
  help                     print this help                         [any]
  quit                     end the session; the catalogue is lost  [any]`

// errQuit ends the shell loop without an error.
var errQuit = errors.New("quit")

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive catalogue session",
		Long:  "Start a line-oriented session over an empty catalogue.\nThe catalogue lives until the session ends.\n\n" + shellHelp,
		Args:  cobra.NoArgs,
		RunE:  runShell,
	}
}

func runShell(cmd *cobra.Command, args []string) (err error) {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sess.watchConfig()
	return newShell(sess).run(cmd.InOrStdin())
}

// shell walks the screen flows one command at a time. Exactly one of
// capture, create and edit is set while the route points at that screen.
type shell struct {
	sess  *session
	route flow.Route

	capture *flow.CaptureScreen
	create  *flow.CreateForm
	edit    *flow.EditForm
}

func newShell(sess *session) *shell {
	return &shell{sess: sess, route: flow.Route{Screen: flow.ScreenList}}
}

func (sh *shell) run(in io.Reader) error {
	r := sh.sess.render
	if !r.jsonMode {
		r.message("Plantbook shell. Type \"help\" for commands.")
	}

	sc := bufio.NewScanner(in)
	for {
		if !r.jsonMode {
			fmt.Fprintf(r.out, "%s> ", sh.route.Screen)
		}
		if !sc.Scan() {
			break
		}
		if sh.sess.applyReloads() {
			r.message("config reloaded (date layout %s)", sh.sess.cfg.DateLayout)
		}

		err := sh.dispatch(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			r.failed(err)
		}
	}
	if err := sc.Err(); err != nil {
		return systemError("read input: %w", err)
	}
	return nil
}

// dispatch runs one input line. Errors it returns are shown to the user and
// the session continues.
func (sh *shell) dispatch(line string) error {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	if name == "" || strings.HasPrefix(name, "#") {
		return nil
	}

	switch name {
	case "help":
		fmt.Fprintln(sh.sess.render.out, shellHelp)
		return nil
	case "quit", "exit":
		return errQuit
	case "list", "back":
		sh.goTo(flow.Route{Screen: flow.ScreenList})
		if name == "back" {
			return nil
		}
		return sh.sess.render.list(sh.sess.screens.List().Rows())
	case "show":
		return sh.sess.render.drafts(sh.route.Screen, sh.sess.store)
	case "add":
		if err := sh.require(name, flow.ScreenList); err != nil {
			return err
		}
		sh.goTo(sh.sess.screens.List().StartAdd())
		sh.sess.render.message("Camera ready. Use \"photo <path>\" to take a picture.")
		return nil
	case "open":
		if err := sh.require(name, flow.ScreenList); err != nil {
			return err
		}
		return sh.open(arg)
	case "photo":
		if err := sh.require(name, flow.ScreenCapture); err != nil {
			return err
		}
		return sh.takePhoto(arg)
	case "retake":
		if err := sh.require(name, flow.ScreenCapture); err != nil {
			return err
		}
		sh.capture.Retake()
		return nil
	case "continue":
		if err := sh.require(name, flow.ScreenCapture); err != nil {
			return err
		}
		next, err := sh.capture.Confirm()
		if err != nil {
			return err
		}
		sh.goTo(next)
		return nil
	case "name":
		if err := sh.require(name, flow.ScreenCreate, flow.ScreenEdit); err != nil {
			return err
		}
		sh.sess.store.SetName(arg)
		return nil
	case "notes":
		if err := sh.require(name, flow.ScreenCreate, flow.ScreenEdit); err != nil {
			return err
		}
		sh.sess.store.SetNotes(arg)
		return nil
	case "change-photo":
		if err := sh.require(name, flow.ScreenEdit); err != nil {
			return err
		}
		sh.goTo(sh.edit.ChangePhoto())
		return nil
	case "submit":
		if err := sh.require(name, flow.ScreenCreate, flow.ScreenEdit); err != nil {
			return err
		}
		return sh.submit()
	default:
		return fmt.Errorf("unknown command %q (type \"help\")", name)
	}
}

// require returns an error unless the current screen is one of screens.
func (sh *shell) require(cmd string, screens ...flow.Screen) error {
	for _, s := range screens {
		if sh.route.Screen == s {
			return nil
		}
	}
	return fmt.Errorf("%q is not available on the %s screen", cmd, sh.route.Screen)
}

// goTo switches to the screen named by route and builds its flow.
func (sh *shell) goTo(route flow.Route) {
	sh.route = route
	sh.capture, sh.create, sh.edit = nil, nil, nil

	screens := sh.sess.screens
	switch route.Screen {
	case flow.ScreenCapture:
		sh.capture = screens.Capture(route)
	case flow.ScreenCreate:
		sh.create = screens.CreateForm(route.Photo)
	case flow.ScreenEdit:
		sh.edit = screens.EditForm(*route.Plant)
		sh.edit.Enter()
	}
}

// open resolves arg as a plant ID, falling back to a 1-based list position.
func (sh *shell) open(arg string) error {
	if arg == "" {
		return errors.New("usage: open <id|n>")
	}

	list := sh.sess.screens.List()
	id := arg
	if _, ok := sh.sess.store.Plant(arg); !ok {
		if n, err := strconv.Atoi(arg); err == nil {
			rows := list.Rows()
			if n >= 1 && n <= len(rows) {
				id = rows[n-1].ID
			}
		}
	}

	route, err := list.Open(id)
	if err != nil {
		return err
	}
	sh.goTo(route)
	return sh.sess.render.plant(*route.Plant)
}

// takePhoto stages the image file at the first field of arg. Optional
// width and height describe the picture.
func (sh *shell) takePhoto(arg string) error {
	fields := strings.Fields(arg)
	if len(fields) != 1 && len(fields) != 3 {
		return errors.New("usage: photo <path> [width height]")
	}

	photo, err := photoFromFile(fields[0])
	if err != nil {
		return err
	}
	if len(fields) == 3 {
		if photo.Width, err = strconv.Atoi(fields[1]); err != nil || photo.Width <= 0 {
			return fmt.Errorf("invalid width %q", fields[1])
		}
		if photo.Height, err = strconv.Atoi(fields[2]); err != nil || photo.Height <= 0 {
			return fmt.Errorf("invalid height %q", fields[2])
		}
	}

	sh.capture.Capture(photo)
	sh.sess.render.message("Photo taken: %s. \"continue\" to accept or \"retake\".", photo.URI)
	return nil
}

// photoFromFile returns a handle to an existing regular file.
func photoFromFile(path string) (*types.Photo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("photo path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("photo: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("photo: %s is not a file", abs)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return &types.Photo{URI: u.String()}, nil
}

// submit commits the current form and returns to the list.
func (sh *shell) submit() error {
	var (
		p    types.Plant
		err  error
		verb string
	)
	if sh.create != nil {
		p, err = sh.create.Submit()
		verb = "Added"
	} else {
		p, err = sh.edit.Submit()
		verb = "Updated"
	}
	if err != nil {
		return err
	}

	sh.goTo(flow.Route{Screen: flow.ScreenList})
	if sh.sess.render.jsonMode {
		return sh.sess.render.plant(p)
	}
	sh.sess.render.message("%s %s (%s)", verb, p.Name, p.ID)
	return sh.sess.render.list(sh.sess.screens.List().Rows())
}
