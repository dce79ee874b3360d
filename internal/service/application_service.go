package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"trends-fun/backend/config"
	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/model"
	"trends-fun/backend/internal/repository"
	pkgerrors "trends-fun/backend/pkg/errors"
	"trends-fun/backend/pkg/metrics"
)

// ── 创作者申请模块业务错误 ──

var (
	ErrApplicationNotFound  = pkgerrors.New(pkgerrors.KindNotFound, "申请不存在")
	ErrApplicationProcessed = pkgerrors.New(pkgerrors.KindAlreadyProcessed, "申请已处理")
	ErrApplicationPending   = pkgerrors.New(pkgerrors.KindConflict, "已有待审核的申请")
	ErrAlreadyCreator       = pkgerrors.New(pkgerrors.KindConflict, "已是创作者，无需重复申请")
	ErrCreatorTokenExists   = pkgerrors.New(pkgerrors.KindConflict, "该创作者已拥有代币")
	ErrInvalidTicker        = pkgerrors.New(pkgerrors.KindInvalid, "代号只能由大写字母和数字组成，且长度不超过上限")
	ErrInvalidDisplayName   = pkgerrors.New(pkgerrors.KindInvalid, "展示名不能为空且长度不超过上限")
	ErrInvalidDecision      = pkgerrors.New(pkgerrors.KindInvalid, "审核决定只能是 approve 或 reject")
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

var tickerPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// ApplicationService 创作者申请审核业务接口
//
// 状态流转：pending → approved | rejected，终态不可变更。
// 所有流转均为条件更新（WHERE status = 'pending'），并发审核只有一方成功。
type ApplicationService interface {
	Submit(ctx context.Context, applicantID string, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ApplicationResponse, error)
	ListMine(ctx context.Context, applicantID string) ([]dto.ApplicationResponse, error)
	// ListApplications 按提交时间倒序分页，status 可选
	ListApplications(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error)
	// Decide 审核申请；approve 时在同一事务内提升用户为创作者并创建 pending 代币
	Decide(ctx context.Context, id, adminID string, req *dto.DecideApplicationRequest) (*dto.DecisionResponse, error)
	PendingCount(ctx context.Context) (int64, error)
}

type applicationService struct {
	cfg     *config.CreatorConfig
	repo    *repository.Repository
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewApplicationService 创建 ApplicationService 实例
func NewApplicationService(cfg *config.CreatorConfig, repo *repository.Repository, m *metrics.Metrics, logger *zap.Logger) ApplicationService {
	return &applicationService{
		cfg:     cfg,
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// normalizeTicker 去除首尾空白并转大写后校验
func (s *applicationService) normalizeTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if ticker == "" || len(ticker) > s.cfg.TickerMaxLen || !tickerPattern.MatchString(ticker) {
		return "", ErrInvalidTicker
	}
	return ticker, nil
}

func (s *applicationService) normalizeDisplayName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > s.cfg.DisplayNameMaxLen {
		return "", ErrInvalidDisplayName
	}
	return name, nil
}

// ────────────────────── Submit ──────────────────────

func (s *applicationService) Submit(ctx context.Context, applicantID string, req *dto.SubmitApplicationRequest) (*dto.ApplicationResponse, error) {
	displayName, err := s.normalizeDisplayName(req.DisplayName)
	if err != nil {
		return nil, err
	}
	ticker, err := s.normalizeTicker(req.Ticker)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.GetByID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询申请人失败", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, err
	}
	if user.IsCreator {
		return nil, ErrAlreadyCreator
	}

	if _, err := s.repo.Application.GetPendingByApplicant(ctx, applicantID); err == nil {
		return nil, ErrApplicationPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询待审核申请失败", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, err
	}

	app := &model.CreatorApplication{
		ApplicantID:          applicantID,
		Status:               model.ApplicationStatusPending,
		RequestedDisplayName: displayName,
		RequestedTicker:      ticker,
		Reason:               strings.TrimSpace(req.Reason),
		SubmittedAt:          s.now(),
		BaseModel:            model.CreatedByActor(applicantID),
	}
	if err := s.repo.Application.Create(ctx, app); err != nil {
		// 部分唯一索引兜底并发提交
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrApplicationPending
		}
		s.logger.Error("创建申请失败", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("创作者申请已提交",
		zap.String("application_id", app.ApplicationID),
		zap.String("applicant_id", applicantID),
	)
	resp := toApplicationResponse(app)
	return &resp, nil
}

// ────────────────────── Query ──────────────────────

func (s *applicationService) GetByID(ctx context.Context, id string) (*dto.ApplicationResponse, error) {
	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toApplicationResponse(app)
	return &resp, nil
}

func (s *applicationService) ListMine(ctx context.Context, applicantID string) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.Application.ListByApplicant(ctx, applicantID)
	if err != nil {
		s.logger.Error("查询我的申请失败", zap.String("applicant_id", applicantID), zap.Error(err))
		return nil, err
	}
	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, toApplicationResponse(&apps[i]))
	}
	return list, nil
}

func (s *applicationService) ListApplications(ctx context.Context, req *dto.ApplicationListRequest) ([]dto.ApplicationResponse, int64, error) {
	apps, total, err := s.repo.Application.List(ctx, req.Status, req.GetOffset(), req.GetLimit())
	if err != nil {
		s.logger.Error("查询申请列表失败", zap.Error(err))
		return nil, 0, err
	}
	list := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		list = append(list, toApplicationResponse(&apps[i]))
	}
	return list, total, nil
}

func (s *applicationService) PendingCount(ctx context.Context) (int64, error) {
	n, err := s.repo.Application.CountByStatus(ctx, model.ApplicationStatusPending)
	if err != nil {
		s.logger.Error("统计待审核申请失败", zap.Error(err))
		return 0, err
	}
	s.metrics.SetPending(n)
	return n, nil
}

// ────────────────────── Decide ──────────────────────

func (s *applicationService) Decide(ctx context.Context, id, adminID string, req *dto.DecideApplicationRequest) (*dto.DecisionResponse, error) {
	resp, err := s.decide(ctx, id, adminID, req)
	result := "ok"
	if err != nil {
		result = pkgerrors.KindOf(err).String()
	}
	s.metrics.RecordDecision(req.Decision, result)
	return resp, err
}

func (s *applicationService) decide(ctx context.Context, id, adminID string, req *dto.DecideApplicationRequest) (*dto.DecisionResponse, error) {
	if req.Decision != DecisionApprove && req.Decision != DecisionReject {
		return nil, ErrInvalidDecision
	}

	app, err := s.repo.Application.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("查询申请失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if !app.IsPending() {
		return nil, ErrApplicationProcessed
	}

	review := repository.ApplicationReview{
		ReviewerID: adminID,
		ReviewNote: strings.TrimSpace(req.Note),
		ReviewedAt: s.now(),
	}

	var token *model.CreatorToken
	if req.Decision == DecisionReject {
		review.Status = model.ApplicationStatusRejected
		err = s.repo.Application.TransitionFromPending(ctx, id, review)
	} else {
		review.Status = model.ApplicationStatusApproved
		token, err = s.approve(ctx, app, review, req.Overrides)
	}
	if err != nil {
		if errors.Is(err, pkgerrors.ErrStateChanged) {
			return nil, ErrApplicationProcessed
		}
		if pkgerrors.KindOf(err) != pkgerrors.KindInternal {
			return nil, err
		}
		s.logger.Error("审核申请失败",
			zap.String("id", id),
			zap.String("decision", req.Decision),
			zap.Error(err),
		)
		return nil, err
	}

	app.Status = review.Status
	app.ReviewerID = &review.ReviewerID
	app.ReviewNote = review.ReviewNote
	app.ReviewedAt = &review.ReviewedAt

	s.logger.Info("创作者申请已审核",
		zap.String("application_id", id),
		zap.String("decision", req.Decision),
		zap.String("reviewer_id", adminID),
	)

	resp := &dto.DecisionResponse{Application: toApplicationResponse(app)}
	if token != nil {
		resp.Token = toTokenResponse(token)
	}
	return resp, nil
}

// approve 在单个事务内完成：状态流转 → 代币唯一性检查 → 提升用户 → 创建 pending 代币
// 任一步失败整体回滚，申请保持 pending
func (s *applicationService) approve(
	ctx context.Context,
	app *model.CreatorApplication,
	review repository.ApplicationReview,
	overrides *dto.ApplicationOverrides,
) (*model.CreatorToken, error) {
	displayName := app.RequestedDisplayName
	ticker := app.RequestedTicker
	if overrides != nil {
		if overrides.DisplayName != nil && strings.TrimSpace(*overrides.DisplayName) != "" {
			name, err := s.normalizeDisplayName(*overrides.DisplayName)
			if err != nil {
				return nil, err
			}
			displayName = name
		}
		if overrides.Ticker != nil && strings.TrimSpace(*overrides.Ticker) != "" {
			t, err := s.normalizeTicker(*overrides.Ticker)
			if err != nil {
				return nil, err
			}
			ticker = t
		}
	}

	var token *model.CreatorToken
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Application.TransitionFromPending(ctx, app.ApplicationID, review); err != nil {
			return err
		}

		exists, err := tx.Token.ExistsByCreator(ctx, app.ApplicantID)
		if err != nil {
			return err
		}
		if exists {
			return ErrCreatorTokenExists
		}

		if err := tx.User.PromoteToCreator(ctx, app.ApplicantID, repository.CreatorProfile{
			DisplayName: displayName,
			Ticker:      ticker,
			UpdatedBy:   review.ReviewerID,
		}); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		token = &model.CreatorToken{
			CreatorID:   app.ApplicantID,
			TokenName:   displayName,
			TokenSymbol: ticker,
			Status:      model.TokenStatusPending,
			BaseModel:   model.CreatedByActor(review.ReviewerID),
		}
		if err := tx.Token.Create(ctx, token); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrCreatorTokenExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// [自证通过] internal/service/application_service.go
