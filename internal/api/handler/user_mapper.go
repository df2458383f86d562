package handler

import (
	"github.com/tickethub/ticketing-system/internal/core/domain"
	"github.com/tickethub/ticketing-system/internal/core/ports"
)

// --- Request → Service input ---

func toSaveUserInput(req saveUserRequest) ports.SaveUserInput {
	return ports.SaveUserInput{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Enabled:   req.Enabled,
		Role:      req.Role.Description,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Enabled:   u.Enabled,
		Role:      roleResponse{Description: u.Role.Description},
	}
}

func toUserResponses(users []*domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}
