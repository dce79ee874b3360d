//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trends-fun/backend/internal/model"
	"trends-fun/backend/internal/repository"
	"trends-fun/backend/pkg/database"
	pkgerrors "trends-fun/backend/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=trends password=trends_password dbname=trends_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 以正式迁移建表，部分唯一索引与 CHECK 约束都要参与测试
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// createUser 创建测试用户并注册清理
func createUser(t *testing.T) *model.User {
	t.Helper()
	n := time.Now().UnixNano()
	user := &model.User{
		Username:     fmt.Sprintf("u%d", n%1_000_000_000),
		Email:        fmt.Sprintf("test%d@example.com", n),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleUser,
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	t.Cleanup(func() {
		testDB.Unscoped().Where("creator_id = ?", user.UserID).Delete(&model.CreatorToken{})
		testDB.Unscoped().Where("applicant_id = ?", user.UserID).Delete(&model.CreatorApplication{})
		testDB.Unscoped().Where("user_id = ?", user.UserID).Delete(&model.User{})
	})
	return user
}

func createApplication(t *testing.T, applicant *model.User) *model.CreatorApplication {
	t.Helper()
	app := &model.CreatorApplication{
		ApplicantID:          applicant.UserID,
		Status:               model.ApplicationStatusPending,
		RequestedDisplayName: "Alice",
		RequestedTicker:      "ALC",
		SubmittedAt:          time.Now().UTC(),
	}
	if err := testDB.Create(app).Error; err != nil {
		t.Fatalf("创建申请失败: %v", err)
	}
	return app
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	user := createUser(t)
	app := createApplication(t, user)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Application.TransitionFromPending(ctx, app.ApplicationID, repository.ApplicationReview{
			Status:     model.ApplicationStatusApproved,
			ReviewerID: user.UserID,
			ReviewedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("期望 boom，实际: %v", err)
	}

	found, err := repo.Application.GetByID(ctx, app.ApplicationID)
	if err != nil {
		t.Fatalf("查询申请失败: %v", err)
	}
	if found.Status != model.ApplicationStatusPending {
		t.Errorf("回滚后状态应仍为 pending，实际: %s", found.Status)
	}
}

func TestTransaction_Commit(t *testing.T) {
	user := createUser(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	var tokenID string
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.User.PromoteToCreator(ctx, user.UserID, repository.CreatorProfile{
			DisplayName: "Alice",
			Ticker:      "ALC",
			UpdatedBy:   user.UserID,
		}); err != nil {
			return err
		}
		token := &model.CreatorToken{
			CreatorID:   user.UserID,
			TokenName:   "Alice",
			TokenSymbol: "ALC",
			Status:      model.TokenStatusPending,
		}
		if err := tx.Token.Create(ctx, token); err != nil {
			return err
		}
		tokenID = token.TokenID
		return nil
	})
	if err != nil {
		t.Fatalf("事务失败: %v", err)
	}

	found, err := repo.User.GetByID(ctx, user.UserID)
	if err != nil {
		t.Fatalf("查询用户失败: %v", err)
	}
	if !found.IsCreator || found.Role != model.RoleCreator || found.Ticker != "ALC" {
		t.Errorf("用户未被提升为创作者: %+v", found)
	}
	if _, err := repo.Token.GetByID(ctx, tokenID); err != nil {
		t.Errorf("提交后应能查到代币: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Conditional update / constraints
// ═══════════════════════════════════════════════════════════

func TestApplication_SecondTransitionLoses(t *testing.T) {
	user := createUser(t)
	app := createApplication(t, user)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	review := repository.ApplicationReview{
		Status:     model.ApplicationStatusRejected,
		ReviewerID: user.UserID,
		ReviewedAt: time.Now().UTC(),
	}
	if err := repo.Application.TransitionFromPending(ctx, app.ApplicationID, review); err != nil {
		t.Fatalf("首次审核失败: %v", err)
	}
	review.Status = model.ApplicationStatusApproved
	if err := repo.Application.TransitionFromPending(ctx, app.ApplicationID, review); !errors.Is(err, pkgerrors.ErrStateChanged) {
		t.Errorf("期望 ErrStateChanged，实际: %v", err)
	}
}

func TestApplication_OnePendingPerApplicant(t *testing.T) {
	user := createUser(t)
	createApplication(t, user)

	dup := &model.CreatorApplication{
		ApplicantID:          user.UserID,
		Status:               model.ApplicationStatusPending,
		RequestedDisplayName: "Alice2",
		RequestedTicker:      "ALC2",
		SubmittedAt:          time.Now().UTC(),
	}
	err := repository.NewRepository(testDB).Application.Create(context.Background(), dup)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 ErrDuplicatedKey，实际: %v", err)
	}
}

func TestToken_UniquePerCreator(t *testing.T) {
	user := createUser(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := &model.CreatorToken{CreatorID: user.UserID, TokenName: "A", TokenSymbol: "A", Status: model.TokenStatusPending}
	if err := repo.Token.Create(ctx, first); err != nil {
		t.Fatalf("创建代币失败: %v", err)
	}
	second := &model.CreatorToken{CreatorID: user.UserID, TokenName: "B", TokenSymbol: "B", Status: model.TokenStatusPending}
	if err := repo.Token.Create(ctx, second); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 ErrDuplicatedKey，实际: %v", err)
	}
}

func TestToken_LaunchOnce(t *testing.T) {
	user := createUser(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	token := &model.CreatorToken{CreatorID: user.UserID, TokenName: "A", TokenSymbol: "A", Status: model.TokenStatusPending}
	if err := repo.Token.Create(ctx, token); err != nil {
		t.Fatalf("创建代币失败: %v", err)
	}
	if err := repo.Token.MarkLaunched(ctx, token.TokenID, "addr-1", time.Now().UTC()); err != nil {
		t.Fatalf("首次发行失败: %v", err)
	}
	if err := repo.Token.MarkLaunched(ctx, token.TokenID, "addr-2", time.Now().UTC()); !errors.Is(err, pkgerrors.ErrStateChanged) {
		t.Errorf("期望 ErrStateChanged，实际: %v", err)
	}

	found, _ := repo.Token.GetByID(ctx, token.TokenID)
	if found.ContractAddress == nil || *found.ContractAddress != "addr-1" {
		t.Errorf("合约地址应保持首次写入值")
	}
}

func TestToken_ContractAddressCheck(t *testing.T) {
	user := createUser(t)
	addr := "addr"
	bad := &model.CreatorToken{
		CreatorID:       user.UserID,
		TokenName:       "A",
		TokenSymbol:     "A",
		Status:          model.TokenStatusPending,
		ContractAddress: &addr,
	}
	if err := testDB.Create(bad).Error; err == nil {
		t.Error("pending 代币带合约地址应违反 CHECK 约束")
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Optimistic Lock
// ═══════════════════════════════════════════════════════════

func TestOptimisticLock_User(t *testing.T) {
	user := createUser(t)
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	a, _ := repo.User.GetByID(ctx, user.UserID)
	b, _ := repo.User.GetByID(ctx, user.UserID)

	a.Bio = "first"
	if err := repo.User.Update(ctx, a); err != nil {
		t.Fatalf("首次更新失败: %v", err)
	}
	b.Bio = "second"
	if err := repo.User.Update(ctx, b); !errors.Is(err, pkgerrors.ErrOptimisticLock) {
		t.Errorf("期望 ErrOptimisticLock，实际: %v", err)
	}
}

func TestUser_GetByUsernameCaseInsensitive(t *testing.T) {
	user := createUser(t)
	repo := repository.NewRepository(testDB)

	found, err := repo.User.GetByUsername(context.Background(), "U"+user.Username[1:])
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if found.UserID != user.UserID {
		t.Errorf("ID 不匹配: expected %s, got %s", user.UserID, found.UserID)
	}
}
