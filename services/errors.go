package services

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/models"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindConflict   ErrorKind = "conflict"
	KindDependency ErrorKind = "dependency"
)

// ServiceError is a domain error that carries the HTTP status it maps to.
type ServiceError struct {
	Kind    ErrorKind
	Status  int
	Message string
	cause   error
}

func (e *ServiceError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error { return e.cause }

func NewValidationError(message string) *ServiceError {
	return &ServiceError{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func NewNotFoundError(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// NewConflictError is used for requests that are well formed but clash with current state.
func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

func NewDependencyError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindDependency, Status: http.StatusInternalServerError, Message: message, cause: cause}
}

// AsServiceError finds a ServiceError anywhere in err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

const (
	MsgTitleRequired       = "Task title is required."
	MsgParentNotFound      = "Parent task not found."
	MsgTaskNotFound        = "Task not found."
	MsgDeveloperNotFound   = "Developer not found."
	MsgDeveloperIDRequired = "developerId is required."
	MsgMissingSkills       = "Developer does not have all skills required for this task."
	MsgStatusIDRequired    = "statusId is required."
	MsgStatusIDNotInteger  = "statusId must be an integer."
	MsgStatusNotFound      = "Status not found."
	MsgSubtasksNotDone     = "Cannot mark task as Done until all subtasks are Done."
	MsgInferenceFailed     = "Failed to automatically assign skills to tasks."
	MsgInvalidSkillQuery   = "Invalid skill query parameter"
	MsgUnknownSkillsPrefix = "Unknown skills: "
)

// MsgDepthExceeded names the enforced maximum.
var MsgDepthExceeded = fmt.Sprintf("Maximum task nesting depth of %d levels exceeded.", models.MaxTaskNestingDepth)
