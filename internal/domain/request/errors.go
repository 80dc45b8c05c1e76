package request

import "errors"

var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrAlreadyResolved  = errors.New("request has already been approved or rejected")
	ErrNotRevocable     = errors.New("only approved requests can be revoked")
	ErrRetriesExhausted = errors.New("request kept changing concurrently, try again")
)
