package user

import "context"

// Service is the authentication contract consumed by the HTTP layer.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}
