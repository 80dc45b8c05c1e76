package request

import "context"

// RequestService defines the approval workflow for absence, late arrival and
// early leave requests
type RequestService interface {
	// Submit files a pending request for employeeID; no balance effect
	Submit(ctx context.Context, employeeID string, req SubmitRequest) (RequestResponse, error)

	// Approve debits the author's balance and resolves the request
	Approve(ctx context.Context, actorID, requestID string) (RequestResponse, error)

	// Reject resolves the request without touching the balance
	Reject(ctx context.Context, actorID, requestID string, req RejectRequest) (RequestResponse, error)

	// Revoke credits an approved request back and marks it reverted
	Revoke(ctx context.Context, actorID, requestID string) (RequestResponse, error)

	// Get returns one request (author, or anyone allowed to review it)
	Get(ctx context.Context, actorID, requestID string) (RequestResponse, error)

	// ListMine lists the employee's own requests
	ListMine(ctx context.Context, employeeID string) ([]RequestResponse, error)

	// ListPending lists pending requests the actor is allowed to review
	ListPending(ctx context.Context, actorID string) ([]RequestResponse, error)
}
