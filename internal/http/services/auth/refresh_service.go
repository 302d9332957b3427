package auth

import "context"

type refreshService struct {
	tokens Tokens
}

func NewRefreshService(d Deps) RefreshService {
	return &refreshService{tokens: d.Tokens}
}

// Refresh emite un access nuevo. Los errores de token.Service pasan tal cual.
func (s *refreshService) Refresh(ctx context.Context, refresh string) (string, error) {
	access, _, err := s.tokens.Refresh(ctx, refresh)
	return access, err
}
