package flow

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/mesh-intelligence/plantbook/pkg/types"
)

// ValidationError is returned when a form is submitted with invalid input.
// Title and Message are meant to be shown to the user as they are.
type ValidationError struct {
	Title   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// plantForm mirrors the two text inputs shared by the creation and edit forms.
type plantForm struct {
	Name  string `validate:"notblank"`
	Notes string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// validateDrafts checks the draft fields before anything reaches the store.
func validateDrafts(d types.Drafts) error {
	err := validate.Struct(plantForm{Name: d.Name(), Notes: d.Notes()})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Field() == "Name" {
				return &ValidationError{
					Title:   "Error adding plant",
					Message: "Plant Name is required.",
					Err:     types.ErrNameRequired,
				}
			}
		}
	}
	return fmt.Errorf("validate form: %w", err)
}
