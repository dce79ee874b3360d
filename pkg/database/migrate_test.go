package database

import (
	"io/fs"
	"strings"
	"testing"
)

// 每个 up 迁移都必须有对应的 down 迁移
func TestMigrations_Paired(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("读取嵌入迁移目录失败: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("未知迁移文件: %s", name)
		}
	}

	if len(ups) == 0 {
		t.Fatal("未找到任何迁移文件")
	}
	for k := range ups {
		if !downs[k] {
			t.Errorf("迁移 %s 缺少 down 文件", k)
		}
	}
}

func TestMigrations_CreatorTokenConstraints(t *testing.T) {
	b, err := fs.ReadFile(migrationsFS, "migrations/000002_creator_workflow.up.sql")
	if err != nil {
		t.Fatalf("读取迁移失败: %v", err)
	}
	sql := string(b)
	for _, want := range []string{"UNIQUE (creator_id)", "contract_address IS NOT NULL", "WHERE status = 'pending'"} {
		if !strings.Contains(sql, want) {
			t.Errorf("creator_workflow 迁移缺少约束: %q", want)
		}
	}
}
