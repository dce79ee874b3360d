package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/model"
)

func setupTestSocialServices() (PostService, FollowService, *mockRepos) {
	repo, m := newMockRepository()
	return NewPostService(repo, zap.NewNop()), NewFollowService(repo, zap.NewNop()), m
}

// ── Post 测试 ──

func TestPostService_CreateAndGet(t *testing.T) {
	posts, _, m := setupTestSocialServices()
	seedUser(m, "u1", "alice", model.RoleUser)
	ctx := context.Background()

	created, err := posts.Create(ctx, "u1", &dto.CreatePostRequest{Content: "  gm  "})
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if created.Content != "gm" || created.AuthorID != "u1" {
		t.Errorf("动态内容不符合预期: %+v", created)
	}

	got, err := posts.GetByID(ctx, created.ID)
	if err != nil || got.ID != created.ID {
		t.Errorf("GetByID 应返回刚发布的动态, err=%v", err)
	}

	if _, err := posts.Create(ctx, "u1", &dto.CreatePostRequest{Content: "   "}); !errors.Is(err, ErrPostEmpty) {
		t.Errorf("期望 ErrPostEmpty，实际: %v", err)
	}
}

func TestPostService_Feed_OnlyFollowedAuthors(t *testing.T) {
	posts, follows, m := setupTestSocialServices()
	seedUser(m, "u1", "alice", model.RoleUser)
	seedUser(m, "u2", "bob", model.RoleUser)
	seedUser(m, "u3", "carol", model.RoleUser)
	ctx := context.Background()

	_, _ = posts.Create(ctx, "u2", &dto.CreatePostRequest{Content: "from bob"})
	_, _ = posts.Create(ctx, "u3", &dto.CreatePostRequest{Content: "from carol"})
	if err := follows.Follow(ctx, "u1", "u2"); err != nil {
		t.Fatalf("Follow 应成功: %v", err)
	}

	feed, total, err := posts.Feed(ctx, "u1", &dto.PaginationRequest{})
	if err != nil {
		t.Fatalf("Feed 应成功: %v", err)
	}
	if total != 1 || feed[0].AuthorID != "u2" {
		t.Errorf("关注流只应包含 bob 的动态，实际 total=%d", total)
	}

	all, total, _ := posts.List(ctx, &dto.PaginationRequest{})
	if total != 2 || all[0].Content != "from carol" {
		t.Errorf("全站动态应按时间倒序，实际 total=%d", total)
	}
}

func TestPostService_Delete(t *testing.T) {
	posts, _, m := setupTestSocialServices()
	seedUser(m, "u1", "alice", model.RoleUser)
	ctx := context.Background()

	p1, _ := posts.Create(ctx, "u1", &dto.CreatePostRequest{Content: "one"})
	p2, _ := posts.Create(ctx, "u1", &dto.CreatePostRequest{Content: "two"})

	if err := posts.Delete(ctx, p1.ID, "u2", model.RoleUser); !errors.Is(err, ErrPostNotDeletable) {
		t.Errorf("非作者期望 ErrPostNotDeletable，实际: %v", err)
	}
	if err := posts.Delete(ctx, p1.ID, "u1", model.RoleUser); err != nil {
		t.Errorf("作者删除应成功: %v", err)
	}
	if err := posts.Delete(ctx, p2.ID, "admin-1", model.RoleAdmin); err != nil {
		t.Errorf("管理员删除应成功: %v", err)
	}
	if err := posts.Delete(ctx, p2.ID, "u1", model.RoleUser); !errors.Is(err, ErrPostNotFound) {
		t.Errorf("重复删除期望 ErrPostNotFound，实际: %v", err)
	}
}

// ── Follow 测试 ──

func TestFollowService_FollowIdempotentAndLists(t *testing.T) {
	_, follows, m := setupTestSocialServices()
	seedUser(m, "u1", "alice", model.RoleUser)
	seedUser(m, "u2", "bob", model.RoleUser)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := follows.Follow(ctx, "u1", "u2"); err != nil {
			t.Fatalf("Follow 应成功: %v", err)
		}
	}

	followers, total, err := follows.ListFollowers(ctx, "u2", &dto.PaginationRequest{})
	if err != nil || total != 1 || followers[0].ID != "u1" {
		t.Errorf("bob 应只有 alice 一个粉丝, total=%d err=%v", total, err)
	}
	if followers[0].Email != "" {
		t.Error("关注列表不应暴露邮箱")
	}

	following, total, _ := follows.ListFollowing(ctx, "u1", &dto.PaginationRequest{})
	if total != 1 || following[0].ID != "u2" {
		t.Errorf("alice 应只关注 bob, total=%d", total)
	}

	if err := follows.Unfollow(ctx, "u1", "u2"); err != nil {
		t.Fatalf("Unfollow 应成功: %v", err)
	}
	_, total, _ = follows.ListFollowers(ctx, "u2", &dto.PaginationRequest{})
	if total != 0 {
		t.Errorf("取消关注后粉丝数应为 0，实际=%d", total)
	}
}

func TestFollowService_Errors(t *testing.T) {
	_, follows, m := setupTestSocialServices()
	seedUser(m, "u1", "alice", model.RoleUser)
	ctx := context.Background()

	if err := follows.Follow(ctx, "u1", "u1"); !errors.Is(err, ErrSelfFollow) {
		t.Errorf("期望 ErrSelfFollow，实际: %v", err)
	}
	if err := follows.Follow(ctx, "u1", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际: %v", err)
	}
}
