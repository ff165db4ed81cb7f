package service

import (
	"zenda_backend/internal/model"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/util"
	"zenda_backend/pkg/logger"

	"go.uber.org/zap"
)

type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{Users: users}
}

func (s *UserService) List(search string, page, limit int) ([]model.User, int64, error) {
	return s.Users.List(search, page, limit)
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.Users.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrUserNotFound)
	}
	return user, nil
}

// ToggleStaff flips is_staff; only superusers may call it and never on themselves.
func (s *UserService) ToggleStaff(actor *util.Claims, id uint) (*model.User, error) {
	if actor == nil || !actor.IsSuperuser {
		return nil, util.ErrPermissionDenied
	}
	if actor.UserID == id {
		return nil, util.ErrPermissionDenied
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	user.IsStaff = !user.IsStaff
	if err := s.Users.SetStaff(user.ID, user.IsStaff); err != nil {
		return nil, err
	}
	logger.Log.Info("staff flag toggled",
		zap.Uint("actor_id", actor.UserID), zap.Uint("user_id", user.ID), zap.Bool("is_staff", user.IsStaff))
	return user, nil
}
