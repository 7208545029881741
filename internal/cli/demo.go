package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantbook/internal/flow"
)

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Add and edit a sample plant, then print the catalogue",
		Long: `Demo walks the add and edit screens without input:
a submission with a blank name is rejected, "Fern" is added,
then renamed to "Fern Renamed" with the note "watered".`,
		Args: cobra.NoArgs,
		RunE: runDemo,
	}
}

func runDemo(cmd *cobra.Command, args []string) (err error) {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	store, screens, r := sess.store, sess.screens, sess.render
	list := screens.List()

	// The sample record has no photo, so the capture step is skipped.
	list.StartAdd()
	form := screens.CreateForm(nil)

	var verr *flow.ValidationError
	if _, err := form.Submit(); !errors.As(err, &verr) {
		return fmt.Errorf("demo: blank name was not rejected: %v", err)
	}
	r.message("Rejected: %s (catalogue size %d)", verr.Message, store.Len())

	store.SetName("Fern")
	added, err := form.Submit()
	if err != nil {
		return fmt.Errorf("demo: add: %w", err)
	}
	r.message("Added %s (%s)", added.Name, added.ID)

	route, err := list.Open(added.ID)
	if err != nil {
		return fmt.Errorf("demo: open: %w", err)
	}
	edit := screens.EditForm(*route.Plant)
	edit.Enter()
	store.SetName("Fern Renamed")
	store.SetNotes("watered")
	updated, err := edit.Submit()
	if err != nil {
		return fmt.Errorf("demo: edit: %w", err)
	}
	r.message("Updated %s (%s)", updated.Name, updated.ID)

	if r.jsonMode {
		return r.writeJSON(store.Plants())
	}
	return r.list(list.Rows())
}
