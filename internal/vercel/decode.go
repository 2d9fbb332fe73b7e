package vercel

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors read like the payload.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Wire shapes use pointers so a missing field can be told apart from a
// zero value.

type credentialsWire struct {
	TokenType      *string `json:"token_type" validate:"required"`
	AccessToken    *string `json:"access_token" validate:"required"`
	InstallationID *string `json:"installation_id" validate:"required"`
	UserID         *string `json:"user_id" validate:"required"`
	TeamID         *string `json:"team_id"`
}

type projectWire struct {
	AccountID *string `json:"accountId" validate:"required"`
	ID        *string `json:"id" validate:"required"`
	Name      *string `json:"name" validate:"required"`
}

type projectsEnvelope struct {
	Projects []projectWire `json:"projects" validate:"required,dive"`
}

type logDrainWire struct {
	ClientID        *string  `json:"clientId" validate:"required"`
	ConfigurationID *string  `json:"configurationId" validate:"required"`
	CreatedAt       *float64 `json:"createdAt" validate:"required"`
	ID              *string  `json:"id" validate:"required"`
	Type            *string  `json:"type" validate:"required,oneof=json ndjson syslog"`
	Name            *string  `json:"name" validate:"required"`
	OwnerID         *string  `json:"ownerId" validate:"required"`
	ProjectID       *string  `json:"projectId"`
	URL             *string  `json:"url" validate:"required"`
}

func (w projectWire) project() Project {
	return Project{AccountID: *w.AccountID, ID: *w.ID, Name: *w.Name}
}

func (w logDrainWire) logDrain() LogDrain {
	return LogDrain{
		ClientID:        *w.ClientID,
		ConfigurationID: *w.ConfigurationID,
		CreatedAt:       int64(*w.CreatedAt),
		ID:              *w.ID,
		Type:            LogDrainType(*w.Type),
		Name:            *w.Name,
		OwnerID:         *w.OwnerID,
		ProjectID:       w.ProjectID,
		URL:             *w.URL,
	}
}

// DecodeCredentials decodes a token exchange response.
func DecodeCredentials(data []byte) (Credentials, error) {
	var w credentialsWire
	if err := decodeStruct(data, &w); err != nil {
		return Credentials{}, &DecodeError{Resource: "credentials", Err: err}
	}
	return Credentials{
		TokenType:      *w.TokenType,
		AccessToken:    *w.AccessToken,
		InstallationID: *w.InstallationID,
		UserID:         *w.UserID,
		TeamID:         w.TeamID,
	}, nil
}

// DecodeProject decodes a single project object.
func DecodeProject(data []byte) (Project, error) {
	var w projectWire
	if err := decodeStruct(data, &w); err != nil {
		return Project{}, &DecodeError{Resource: "project", Err: err}
	}
	return w.project(), nil
}

// DecodeProjects decodes the {projects: [...]} envelope of the project list.
func DecodeProjects(data []byte) ([]Project, error) {
	var env projectsEnvelope
	if err := decodeStruct(data, &env); err != nil {
		return nil, &DecodeError{Resource: "projects", Err: err}
	}
	projects := make([]Project, 0, len(env.Projects))
	for _, w := range env.Projects {
		projects = append(projects, w.project())
	}
	return projects, nil
}

// DecodeLogDrain decodes a single log drain object.
func DecodeLogDrain(data []byte) (LogDrain, error) {
	var w logDrainWire
	if err := decodeStruct(data, &w); err != nil {
		return LogDrain{}, &DecodeError{Resource: "log drain", Err: err}
	}
	return w.logDrain(), nil
}

// DecodeLogDrains decodes a JSON array of log drains.
func DecodeLogDrains(data []byte) ([]LogDrain, error) {
	var list []logDrainWire
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &DecodeError{Resource: "log drains", Err: err}
	}
	if list == nil {
		return nil, &DecodeError{Resource: "log drains", Err: errors.New("expected an array")}
	}
	drains := make([]LogDrain, 0, len(list))
	for i, w := range list {
		if err := validateStruct(&w); err != nil {
			return nil, &DecodeError{Resource: "log drains", Err: fmt.Errorf("[%d]: %w", i, err)}
		}
		drains = append(drains, w.logDrain())
	}
	return drains, nil
}

func decodeStruct(data []byte, v any) error {
	// A JSON null would leave v untouched and pass as an empty object.
	if strings.TrimSpace(string(data)) == "null" {
		return errors.New("expected an object, got null")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return validateStruct(v)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	// Drop the wire struct name.
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %q check", field, fe.Tag())
	}
}
