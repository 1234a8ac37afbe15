package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/fairway/internal/domain/ingest"
	"github.com/okian/fairway/internal/domain/model"
)

// uploadForm holds the multipart fields of an upload besides the file.
type uploadForm struct {
	Title    string `json:"title" validate:"required,max=255"`
	Location string `json:"location" validate:"max=255"`
	Source   string `json:"source" validate:"omitempty,source"`
}

// updateRequest is the body of PUT /api/sessions/{id}.
type updateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Location    *string    `json:"location" validate:"omitempty,max=255"`
	SessionDate *time.Time `json:"sessionDate"`
}

//nolint:gochecknoglobals // validators are safe for concurrent use and cache struct metadata
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(fld.Name)
		}
		return name
	})
	_ = v.RegisterValidation("source", func(fl validator.FieldLevel) bool {
		_, err := model.ParseSource(fl.Field().String())
		return err == nil
	})
	return v
}

// check validates s and returns a validation error naming each bad field.
func check(op string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return WrapKind(op, KindInternal, err)
	}

	fields := make(map[string]string, len(errs))
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := fieldMessage(fe)
		fields[fe.Field()] = msg
		msgs = append(msgs, msg)
	}
	return &Error{
		Op:     op,
		Kind:   KindValidation,
		Err:    errors.New(strings.Join(msgs, "; ")),
		Fields: fields,
	}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		if field == "title" {
			return ingest.ErrEmptyTitle.Error()
		}
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "source":
		return fmt.Sprintf("%s must be one of %s, %s", field, model.SourceGarminR10, model.SourceAwesomeGolf)
	default:
		return fmt.Sprintf("%s failed validation for %s", field, fe.Tag())
	}
}
