package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"trends-fun/backend/internal/model"
	"trends-fun/backend/internal/repository"
	pkgerrors "trends-fun/backend/pkg/errors"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // user_id → user
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%d", m.seq)
	}
	if user.Version == 0 {
		user.Version = 1
	}
	user.CreatedAt = time.Now().UTC()
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	stored, ok := m.users[user.UserID]
	if !ok || stored.Version != user.Version {
		return pkgerrors.ErrOptimisticLock
	}
	user.Version++
	cp := *user
	m.users[user.UserID] = &cp
	return nil
}

func (m *mockUserRepo) ListWithFilters(_ context.Context, filters *repository.UserListFilters, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if filters != nil && filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters != nil && filters.Keyword != "" &&
			!strings.Contains(u.Username, filters.Keyword) && !strings.Contains(u.DisplayName, filters.Keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockUserRepo) PromoteToCreator(_ context.Context, userID string, profile repository.CreatorProfile) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.IsCreator = true
	if u.Role != model.RoleAdmin {
		u.Role = model.RoleCreator
	}
	u.DisplayName = profile.DisplayName
	u.Ticker = profile.Ticker
	u.Version++
	return nil
}

func (m *mockUserRepo) UpdateRole(_ context.Context, userID, oldRole, newRole, _ string) error {
	u, ok := m.users[userID]
	if !ok || u.Role != oldRole {
		return pkgerrors.ErrStateChanged
	}
	u.Role = newRole
	u.Version++
	return nil
}

// ── Mock RoleChangeRepository ──

type mockRoleChangeRepo struct {
	changes []model.RoleChange
}

func (m *mockRoleChangeRepo) Create(_ context.Context, change *model.RoleChange) error {
	m.changes = append(m.changes, *change)
	return nil
}

// ── Mock CreatorApplicationRepository ──

type mockApplicationRepo struct {
	apps map[string]*model.CreatorApplication
	seq  int

	// beforeTransition 在条件更新前执行，用于模拟并发审核抢先完成
	beforeTransition func(id string)
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[string]*model.CreatorApplication)}
}

func (m *mockApplicationRepo) Create(_ context.Context, app *model.CreatorApplication) error {
	if app.Status == model.ApplicationStatusPending {
		for _, a := range m.apps {
			if a.ApplicantID == app.ApplicantID && a.IsPending() {
				return gorm.ErrDuplicatedKey
			}
		}
	}
	if app.ApplicationID == "" {
		m.seq++
		app.ApplicationID = fmt.Sprintf("app-%d", m.seq)
	}
	cp := *app
	m.apps[app.ApplicationID] = &cp
	return nil
}

func (m *mockApplicationRepo) GetByID(_ context.Context, id string) (*model.CreatorApplication, error) {
	if a, ok := m.apps[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) GetPendingByApplicant(_ context.Context, applicantID string) (*model.CreatorApplication, error) {
	for _, a := range m.apps {
		if a.ApplicantID == applicantID && a.IsPending() {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApplicationRepo) sorted(filter func(*model.CreatorApplication) bool) []model.CreatorApplication {
	var all []model.CreatorApplication
	for _, a := range m.apps {
		if filter(a) {
			all = append(all, *a)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SubmittedAt.After(all[j].SubmittedAt) })
	return all
}

func (m *mockApplicationRepo) List(_ context.Context, status string, offset, limit int) ([]model.CreatorApplication, int64, error) {
	all := m.sorted(func(a *model.CreatorApplication) bool { return status == "" || a.Status == status })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockApplicationRepo) ListByApplicant(_ context.Context, applicantID string) ([]model.CreatorApplication, error) {
	return m.sorted(func(a *model.CreatorApplication) bool { return a.ApplicantID == applicantID }), nil
}

func (m *mockApplicationRepo) CountByStatus(_ context.Context, status string) (int64, error) {
	var n int64
	for _, a := range m.apps {
		if a.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockApplicationRepo) ListForExport(_ context.Context, status string) ([]model.CreatorApplication, error) {
	return m.sorted(func(a *model.CreatorApplication) bool { return status == "" || a.Status == status }), nil
}

func (m *mockApplicationRepo) TransitionFromPending(_ context.Context, id string, review repository.ApplicationReview) error {
	if m.beforeTransition != nil {
		m.beforeTransition(id)
	}
	a, ok := m.apps[id]
	if !ok || !a.IsPending() {
		return pkgerrors.ErrStateChanged
	}
	a.Status = review.Status
	reviewer := review.ReviewerID
	a.ReviewerID = &reviewer
	a.ReviewNote = review.ReviewNote
	at := review.ReviewedAt
	a.ReviewedAt = &at
	return nil
}

// ── Mock CreatorTokenRepository ──

type mockTokenRepo struct {
	tokens map[string]*model.CreatorToken
	seq    int

	// beforeMarkLaunched 在条件更新前执行，用于模拟并发发行抢先完成
	beforeMarkLaunched func(id string)
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*model.CreatorToken)}
}

func (m *mockTokenRepo) Create(_ context.Context, token *model.CreatorToken) error {
	for _, t := range m.tokens {
		if t.CreatorID == token.CreatorID {
			return gorm.ErrDuplicatedKey
		}
	}
	m.seq++
	if token.TokenID == "" {
		token.TokenID = fmt.Sprintf("tok-%d", m.seq)
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	}
	cp := *token
	m.tokens[token.TokenID] = &cp
	return nil
}

func (m *mockTokenRepo) GetByID(_ context.Context, id string) (*model.CreatorToken, error) {
	if t, ok := m.tokens[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) GetByCreator(_ context.Context, creatorID string) (*model.CreatorToken, error) {
	for _, t := range m.tokens {
		if t.CreatorID == creatorID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTokenRepo) ExistsByCreator(_ context.Context, creatorID string) (bool, error) {
	for _, t := range m.tokens {
		if t.CreatorID == creatorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTokenRepo) List(_ context.Context, featuredOnly bool, offset, limit int) ([]model.CreatorToken, int64, error) {
	var all []model.CreatorToken
	for _, t := range m.tokens {
		if featuredOnly && !t.IsFeatured {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockTokenRepo) MarkLaunched(_ context.Context, id, contractAddress string, launchedAt time.Time) error {
	if m.beforeMarkLaunched != nil {
		m.beforeMarkLaunched(id)
	}
	t, ok := m.tokens[id]
	if !ok || t.Status != model.TokenStatusPending {
		return pkgerrors.ErrStateChanged
	}
	t.Status = model.TokenStatusLaunched
	t.ContractAddress = &contractAddress
	t.LaunchDate = &launchedAt
	return nil
}

func (m *mockTokenRepo) MarkFailed(_ context.Context, id string) error {
	t, ok := m.tokens[id]
	if !ok || t.Status != model.TokenStatusPending {
		return pkgerrors.ErrStateChanged
	}
	t.Status = model.TokenStatusFailed
	return nil
}

func (m *mockTokenRepo) SetFeatured(_ context.Context, id string, featured bool, _ string) error {
	t, ok := m.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	t.IsFeatured = featured
	return nil
}

func (m *mockTokenRepo) UpdateMetadata(_ context.Context, id string, meta repository.TokenMetadata) error {
	t, ok := m.tokens[id]
	if !ok || t.Status != model.TokenStatusPending {
		return pkgerrors.ErrStateChanged
	}
	if meta.Description != nil {
		t.Description = *meta.Description
	}
	if meta.ImageURL != nil {
		t.ImageURL = *meta.ImageURL
	}
	return nil
}

// ── Mock PostRepository ──

type mockPostRepo struct {
	posts   map[string]*model.Post
	follows *mockFollowRepo
	seq     int
}

func newMockPostRepo(follows *mockFollowRepo) *mockPostRepo {
	return &mockPostRepo{posts: make(map[string]*model.Post), follows: follows}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	m.seq++
	if post.PostID == "" {
		post.PostID = fmt.Sprintf("post-%d", m.seq)
	}
	post.CreatedAt = time.Date(2026, 1, 1, 0, 0, m.seq, 0, time.UTC)
	cp := *post
	m.posts[post.PostID] = &cp
	return nil
}

func (m *mockPostRepo) GetByID(_ context.Context, id string) (*model.Post, error) {
	if p, ok := m.posts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPostRepo) filter(keep func(*model.Post) bool, offset, limit int) ([]model.Post, int64, error) {
	var all []model.Post
	for _, p := range m.posts {
		if keep(p) {
			all = append(all, *p)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockPostRepo) List(_ context.Context, authorIDs []string, offset, limit int) ([]model.Post, int64, error) {
	return m.filter(func(p *model.Post) bool {
		if authorIDs == nil {
			return true
		}
		for _, id := range authorIDs {
			if p.AuthorID == id {
				return true
			}
		}
		return false
	}, offset, limit)
}

func (m *mockPostRepo) ListFollowed(_ context.Context, followerID string, offset, limit int) ([]model.Post, int64, error) {
	return m.filter(func(p *model.Post) bool {
		return m.follows.edges[followerID+"→"+p.AuthorID]
	}, offset, limit)
}

func (m *mockPostRepo) Delete(_ context.Context, id, _ string) error {
	if _, ok := m.posts[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.posts, id)
	return nil
}

// ── Mock FollowRepository ──

type mockFollowRepo struct {
	edges map[string]bool // "follower→followee"
	users *mockUserRepo
}

func newMockFollowRepo(users *mockUserRepo) *mockFollowRepo {
	return &mockFollowRepo{edges: make(map[string]bool), users: users}
}

func (m *mockFollowRepo) Create(_ context.Context, follow *model.Follow) error {
	m.edges[follow.FollowerID+"→"+follow.FolloweeID] = true
	return nil
}

func (m *mockFollowRepo) Delete(_ context.Context, followerID, followeeID string) error {
	delete(m.edges, followerID+"→"+followeeID)
	return nil
}

func (m *mockFollowRepo) collect(match func(follower, followee string) (string, bool), offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for edge := range m.edges {
		parts := strings.SplitN(edge, "→", 2)
		if id, ok := match(parts[0], parts[1]); ok {
			if u, found := m.users.users[id]; found {
				all = append(all, *u)
			}
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return paginate(all, offset, limit), int64(len(all)), nil
}

func (m *mockFollowRepo) ListFollowers(_ context.Context, userID string, offset, limit int) ([]model.User, int64, error) {
	return m.collect(func(follower, followee string) (string, bool) {
		return follower, followee == userID
	}, offset, limit)
}

func (m *mockFollowRepo) ListFollowing(_ context.Context, userID string, offset, limit int) ([]model.User, int64, error) {
	return m.collect(func(follower, followee string) (string, bool) {
		return followee, follower == userID
	}, offset, limit)
}

func (m *mockFollowRepo) CountFollowers(ctx context.Context, userID string) (int64, error) {
	_, n, err := m.ListFollowers(ctx, userID, 0, 1)
	return n, err
}

func (m *mockFollowRepo) CountFollowing(ctx context.Context, userID string) (int64, error) {
	_, n, err := m.ListFollowing(ctx, userID, 0, 1)
	return n, err
}

// ── 测试辅助 ──

func paginate[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

type mockRepos struct {
	users   *mockUserRepo
	roles   *mockRoleChangeRepo
	apps    *mockApplicationRepo
	tokens  *mockTokenRepo
	posts   *mockPostRepo
	follows *mockFollowRepo
}

// newMockRepository 组装不带 db 的 Repository，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *mockRepos) {
	users := newMockUserRepo()
	follows := newMockFollowRepo(users)
	m := &mockRepos{
		users:   users,
		roles:   &mockRoleChangeRepo{},
		apps:    newMockApplicationRepo(),
		tokens:  newMockTokenRepo(),
		posts:   newMockPostRepo(follows),
		follows: follows,
	}
	repo := &repository.Repository{
		User:        m.users,
		RoleChange:  m.roles,
		Application: m.apps,
		Token:       m.tokens,
		Post:        m.posts,
		Follow:      m.follows,
	}
	return repo, m
}

func seedUser(m *mockRepos, id, username, role string) *model.User {
	u := &model.User{
		UserID:       id,
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
		Role:         role,
	}
	u.Version = 1
	m.users.users[id] = u
	return u
}
