package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"

	"github.com/devfolio/projects-api/errs"
	"github.com/devfolio/projects-api/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so error fields match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// projectRequest is the body of project create and update calls. Pointer fields distinguish an
// absent key from an empty value.
type projectRequest struct {
	Title        *string   `json:"title" validate:"omitnil,max=255"`
	Overview     *string   `json:"overview"`
	GithubLink   *string   `json:"github_link" validate:"omitnil,max=255"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Tags         *[]string `json:"tags" validate:"omitnil,dive,max=100"`
	Description  *[]string `json:"description"`
	Descriptions *[]string `json:"descriptions"`
}

type renameTagRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// descriptions accepts either key; "descriptions" wins when both are sent.
func (req projectRequest) descriptions() *[]string {
	if req.Descriptions != nil {
		return req.Descriptions
	}
	return req.Description
}

func (req projectRequest) dates() (start, end *datatypes.Date, err error) {
	if start, err = parseDateField("start_date", req.StartDate); err != nil {
		return nil, nil, err
	}
	if end, err = parseDateField("end_date", req.EndDate); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func (req projectRequest) toInput() (models.ProjectInput, error) {
	start, end, err := req.dates()
	if err != nil {
		return models.ProjectInput{}, err
	}
	in := models.ProjectInput{
		Title:      strings.TrimSpace(deref(req.Title)),
		Overview:   strings.TrimSpace(deref(req.Overview)),
		GithubLink: req.GithubLink,
		StartDate:  start,
		EndDate:    end,
	}
	if req.Tags != nil {
		in.Tags = *req.Tags
	}
	if d := req.descriptions(); d != nil {
		in.Descriptions = *d
	}
	return in, nil
}

func (req projectRequest) toPatch() (models.ProjectPatch, error) {
	start, end, err := req.dates()
	if err != nil {
		return models.ProjectPatch{}, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return models.ProjectPatch{}, errs.NewInvalidFieldError("title", "must not be empty")
	}
	if req.Overview != nil && strings.TrimSpace(*req.Overview) == "" {
		return models.ProjectPatch{}, errs.NewInvalidFieldError("overview", "must not be empty")
	}
	return models.ProjectPatch{
		Title:        trimmed(req.Title),
		Overview:     trimmed(req.Overview),
		GithubLink:   req.GithubLink,
		StartDate:    start,
		EndDate:      end,
		Tags:         req.Tags,
		Descriptions: req.descriptions(),
	}, nil
}

func parseDateField(field string, value *string) (*datatypes.Date, error) {
	d, err := models.ParseOptionalDate(value)
	if err != nil {
		return nil, errs.NewInvalidFieldError(field, err.Error())
	}
	return d, nil
}

// decodeJSON reads, decodes and validates a request body.
func decodeJSON(r *http.Request, dst any, payloadType string) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.NewMaxBodySizeExceededError(tooLarge.Limit)
		}
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errs.NewMalformedPayloadError(payloadType, err)
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := fmt.Sprintf("failed %q validation", fe.Tag())
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed %q validation (%s)", fe.Tag(), fe.Param())
		}
		if fe.Tag() == "required" {
			return errs.NewMissingRequiredFieldError(fe.Field())
		}
		return errs.NewInvalidFieldError(fe.Field(), reason)
	}
	return errs.NewBadRequestError(err.Error())
}

// pathParam returns a decoded URL parameter. chi matches on the raw path only when the request
// carries one, and only then is the parameter still escaped.
func pathParam(r *http.Request, name string) (string, error) {
	value := chi.URLParam(r, name)
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(value)
		if err != nil {
			return "", errs.NewInvalidFieldError(name, "malformed escape sequence")
		}
		value = unescaped
	}
	if value == "" {
		return "", errs.NewMissingRequiredFieldError(name)
	}
	return value, nil
}

func idParam(r *http.Request, name string) (uint, error) {
	raw, err := pathParam(r, name)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewInvalidFieldError(name, "must be a positive integer")
	}
	return uint(id), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
