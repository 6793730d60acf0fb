package http

import (
	"github.com/aussiebroadwan/roster/internal/directory/domain"
	"github.com/aussiebroadwan/roster/pkg/rostersdk"
)

func accountView(acc domain.Account) rostersdk.AccountResponse {
	return rostersdk.AccountResponse{
		ID:        acc.ID.String(),
		Name:      acc.Name,
		Email:     acc.Email,
		CreatedAt: acc.CreatedAt,
	}
}

func sessionView(s domain.Session) rostersdk.SessionResponse {
	if !s.Authenticated || s.Active == nil {
		return rostersdk.SessionResponse{}
	}

	acc := accountView(*s.Active)
	started := s.StartedAt
	return rostersdk.SessionResponse{
		Authenticated: true,
		Account:       &acc,
		StartedAt:     &started,
	}
}
