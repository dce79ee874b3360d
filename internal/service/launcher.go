package service

import (
	"context"
	"crypto/sha256"

	"github.com/mr-tron/base58"

	"trends-fun/backend/internal/model"
)

// Launcher 代币上链发行
// 返回合约地址；返回错误时代币被置为 failed
type Launcher interface {
	Launch(ctx context.Context, token *model.CreatorToken) (string, error)
}

// mockLauncher 不接入任何链，按 token_id + creator_id 生成确定性的 32 字节地址（base58 编码）
type mockLauncher struct{}

// NewMockLauncher 创建模拟发行器
func NewMockLauncher() Launcher {
	return mockLauncher{}
}

func (mockLauncher) Launch(_ context.Context, token *model.CreatorToken) (string, error) {
	sum := sha256.Sum256([]byte(token.TokenID + token.CreatorID))
	return base58.Encode(sum[:]), nil
}
