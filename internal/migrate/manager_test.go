package migrate

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	sql := `
create table a (id text);
insert into a values ('x;y');
create index i on a (id);`

	stmts := splitStatements(sql)
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(stmts), stmts)
	}
	if !strings.Contains(stmts[1], "'x;y'") {
		t.Fatalf("semicolon inside string was split: %q", stmts[1])
	}
}

func TestSplitStatementsTrailingWithoutSemicolon(t *testing.T) {
	stmts := splitStatements("select 1")
	if len(stmts) != 1 || strings.TrimSpace(stmts[0]) != "select 1" {
		t.Fatalf("unexpected statements: %q", stmts)
	}
	if got := splitStatements("   \n  "); len(got) != 0 {
		t.Fatalf("blank input must yield no statements, got %q", got)
	}
}

func TestCollectSQLMissingDir(t *testing.T) {
	files, err := collectSQL("does/not/exist", ".up.sql")
	if err != nil {
		t.Fatalf("missing dir must not error, got %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %d", len(files))
	}
	if files, err := collectSQL("", ".sql"); err != nil || files != nil {
		t.Fatalf("empty dir arg must be a no-op, got %v %v", files, err)
	}
}
