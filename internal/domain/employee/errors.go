package employee

import "errors"

var (
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrEmployeeExists        = errors.New("employee already exists")
	ErrEmployeeInactive      = errors.New("employee is inactive")
	ErrUnauthorized          = errors.New("not authorized to perform this action")
	ErrInvalidRole           = errors.New("role must be ADMIN, MANAGER or EMPLOYEE")
	ErrUnknownAuthority      = errors.New("unknown authority")
	ErrFractionalAbsenceDays = errors.New("absence days must be whole days")
)
