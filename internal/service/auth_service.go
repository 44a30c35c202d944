package service

import (
	"context"
	"errors"
	"fmt"
	"legal_eval_backend/internal/config"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SessionStore 会话存储，生产环境由 repository.SessionRepository (Redis) 实现
type SessionStore interface {
	Create(ctx context.Context, userID uint, ttl time.Duration) (string, error)
	Get(ctx context.Context, sessionID string) (uint, error)
	Delete(ctx context.Context, sessionID string) error
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Sessions SessionStore
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, sessions SessionStore, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Sessions: sessions,
		Cfg:      cfg,
	}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", util.ErrInvalidInput)
	}
	if len(password) < util.MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", util.ErrInvalidInput, util.MinPasswordLen)
	}

	_, err := s.UserRepo.FindByUsername(ctx, username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{Username: username, PasswordHash: string(hashed)}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrUsernameTaken
		}
		return nil, err
	}

	logger.Log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login 校验密码并创建会话，返回用户与会话 id
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", util.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", util.ErrInvalidCredentials
	}

	sessionID, err := s.Sessions.Create(ctx, user.ID, s.Cfg.Session.TTL)
	if err != nil {
		return nil, "", err
	}

	logger.Log.Info("User logged in", zap.Uint("user_id", user.ID))
	return user, sessionID, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.Sessions.Delete(ctx, sessionID)
}

// CurrentUser 根据会话 id 查找用户，会话失效或用户不存在时返回 ErrUnauthorized 类错误
func (s *AuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, util.ErrSessionNotFound
	}
	userID, err := s.Sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, util.ErrSessionNotFound)
	}
	return user, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.UserRepo.List(ctx)
}
