package service

import (
	"time"

	"trends-fun/backend/internal/dto"
	"trends-fun/backend/internal/model"
)

// ── Model → DTO 转换 ──

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.UserID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsCreator:   u.IsCreator,
		DisplayName: u.DisplayName,
		Ticker:      u.Ticker,
		Bio:         u.Bio,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   formatTime(u.CreatedAt),
	}
}

// toPublicUserResponse 公开场景下隐藏邮箱
func toPublicUserResponse(u *model.User) dto.UserResponse {
	resp := toUserResponse(u)
	resp.Email = ""
	return resp
}

func toTokenResponse(t *model.CreatorToken) *dto.CreatorTokenResponse {
	return &dto.CreatorTokenResponse{
		ID:              t.TokenID,
		CreatorID:       t.CreatorID,
		TokenName:       t.TokenName,
		TokenSymbol:     t.TokenSymbol,
		Description:     t.Description,
		ImageURL:        t.ImageURL,
		ContractAddress: derefString(t.ContractAddress),
		Status:          t.Status,
		IsFeatured:      t.IsFeatured,
		LaunchDate:      formatTimePtr(t.LaunchDate),
		CreatedAt:       formatTime(t.CreatedAt),
	}
}

func toApplicationResponse(a *model.CreatorApplication) dto.ApplicationResponse {
	resp := dto.ApplicationResponse{
		ID:                   a.ApplicationID,
		ApplicantID:          a.ApplicantID,
		Status:               a.Status,
		RequestedDisplayName: a.RequestedDisplayName,
		RequestedTicker:      a.RequestedTicker,
		Reason:               a.Reason,
		SubmittedAt:          formatTime(a.SubmittedAt),
		ReviewedAt:           formatTimePtr(a.ReviewedAt),
		ReviewerID:           derefString(a.ReviewerID),
		ReviewNote:           a.ReviewNote,
	}
	if a.Applicant != nil {
		u := toUserResponse(a.Applicant)
		resp.Applicant = &u
	}
	return resp
}

func toPostResponse(p *model.Post) dto.PostResponse {
	resp := dto.PostResponse{
		ID:        p.PostID,
		AuthorID:  p.AuthorID,
		Content:   p.Content,
		MediaURL:  p.MediaURL,
		CreatedAt: formatTime(p.CreatedAt),
	}
	if p.Author != nil {
		u := toPublicUserResponse(p.Author)
		resp.Author = &u
	}
	return resp
}
