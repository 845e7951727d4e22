package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DatabaseFileName 内容数据库文件名
const DatabaseFileName = "efgh.db"

// legacyFileName 旧版本的数据库文件名（曾直接放在数据根目录下）
const legacyFileName = "storage.db"

// ConnString 返回内容数据库的 sqlite 连接串（WAL + 忙等待）
func ConnString(dbPath string) string {
	return dbPath + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=10000"
}

// PrepareDatabasePath 准备内容数据库文件并返回其绝对路径
// 创建数据目录，首次运行时把旧位置的数据库迁移过来。
func PrepareDatabasePath(logger *slog.Logger) (string, error) {
	if err := EnsureAppDirs(); err != nil {
		return "", fmt.Errorf("创建应用目录失败: %w", err)
	}

	candidates := []string{
		filepath.Join(GetAppDataDir(), legacyFileName),
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "data", legacyFileName))
	}
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, "data", legacyFileName))
	}

	return PrepareDatabase(GetDataDir(), candidates, logger)
}

// PrepareDatabase 在指定数据目录下准备数据库文件（目录与旧库候选显式传入）
func PrepareDatabase(dataDir string, legacyCandidates []string, logger *slog.Logger) (string, error) {
	dbPath := filepath.Join(dataDir, DatabaseFileName)

	existing := make([]string, 0, len(legacyCandidates))
	seen := make(map[string]struct{}, len(legacyCandidates))
	for _, p := range legacyCandidates {
		if p == "" {
			continue
		}
		cp := filepath.Clean(p)
		if cp == filepath.Clean(dbPath) {
			continue
		}
		if _, ok := seen[cp]; ok {
			continue
		}
		if _, err := os.Stat(cp); err != nil {
			continue
		}
		seen[cp] = struct{}{}
		existing = append(existing, cp)
	}

	if len(existing) == 0 {
		return dbPath, nil
	}

	// 新库不存在：直接复制行数最多的旧库，再从其余旧库合并缺失行
	if _, err := os.Stat(dbPath); err != nil {
		best := existing[0]
		bestRows := int64(-1)
		for _, p := range existing {
			rows, _ := countAllRows(p)
			if rows > bestRows {
				best = p
				bestRows = rows
			}
		}

		if err := copyFile(best, dbPath); err != nil {
			logger.Warn("⚠️ [存储] 旧数据库迁移失败，将使用新的空数据库",
				"old", best, "new", dbPath, "error", err)
			return dbPath, nil
		}

		for _, p := range existing {
			if filepath.Clean(p) == filepath.Clean(best) {
				continue
			}
			if err := importLegacyTables(dbPath, p); err != nil {
				logger.Warn("⚠️ [存储] 旧数据合并失败", "old", p, "error", err)
			}
		}

		logger.Info("✅ [存储] 旧数据库迁移完成", "old", best, "new", dbPath)
		return dbPath, nil
	}

	// 新库已存在但是空库（曾被提前创建）：按缺什么补什么合并导入
	newRows, _ := countAllRows(dbPath)
	if newRows > 0 {
		return dbPath, nil
	}

	for _, p := range existing {
		oldRows, _ := countAllRows(p)
		if oldRows == 0 {
			continue
		}
		if err := importLegacyTables(dbPath, p); err != nil {
			logger.Warn("⚠️ [存储] 旧数据导入失败", "old", p, "error", err)
			continue
		}
		logger.Info("✅ [存储] 已从旧数据库导入数据", "old", p, "new", dbPath)
	}

	return dbPath, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// countAllRows 统计库中所有用户表的总行数（表结构未知，逐表累加）
func countAllRows(dbPath string) (int64, error) {
	db, err := sql.Open("sqlite", dbPath+"?_busy_timeout=2000")
	if err != nil {
		return 0, err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	tables, err := listTables(ctx, db, "main")
	if err != nil {
		return 0, err
	}

	var total int64
	for _, table := range tables {
		var count int64
		row := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "`+table+`"`)
		if err := row.Scan(&count); err != nil {
			continue
		}
		total += count
	}
	return total, nil
}

// importLegacyTables 把旧库中两边都有的表按公共列 INSERT OR IGNORE 合并进新库
// 不覆盖新库已有记录，只补缺失的行。
func importLegacyTables(dstPath, legacyPath string) error {
	db, err := sql.Open("sqlite", ConnString(dstPath))
	if err != nil {
		return err
	}
	defer db.Close()
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	legacyEscaped := strings.ReplaceAll(legacyPath, "'", "''")
	if _, err := db.ExecContext(ctx, "ATTACH DATABASE '"+legacyEscaped+"' AS legacy"); err != nil {
		return fmt.Errorf("attach legacy database failed: %w", err)
	}
	defer func() {
		_, _ = db.ExecContext(context.Background(), "DETACH DATABASE legacy")
	}()

	mainTables, err := listTables(ctx, db, "main")
	if err != nil {
		return err
	}
	legacyTables, err := listTables(ctx, db, "legacy")
	if err != nil {
		return err
	}
	legacySet := make(map[string]struct{}, len(legacyTables))
	for _, t := range legacyTables {
		legacySet[t] = struct{}{}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range mainTables {
		if _, ok := legacySet[table]; !ok {
			continue
		}
		cols, err := commonTableColumns(ctx, tx, table)
		if err != nil || len(cols) == 0 {
			continue
		}

		quoted := make([]string, 0, len(cols))
		for _, c := range cols {
			quoted = append(quoted, `"`+c+`"`)
		}
		colCSV := strings.Join(quoted, ", ")

		stmt := fmt.Sprintf(
			`INSERT OR IGNORE INTO "%s" (%s) SELECT %s FROM legacy."%s"`,
			table, colCSV, colCSV, table,
		)
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			continue
		}
	}

	return tx.Commit()
}

type queryer interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

func listTables(ctx context.Context, q queryer, schema string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT name FROM %s.sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%%'`, schema))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func commonTableColumns(ctx context.Context, q queryer, table string) ([]string, error) {
	mainCols, err := tableColumns(ctx, q, "main", table)
	if err != nil {
		return nil, err
	}
	legacyCols, err := tableColumns(ctx, q, "legacy", table)
	if err != nil {
		return nil, err
	}

	legacySet := make(map[string]struct{}, len(legacyCols))
	for _, c := range legacyCols {
		legacySet[c] = struct{}{}
	}
	common := make([]string, 0, len(mainCols))
	for _, c := range mainCols {
		if _, ok := legacySet[c]; ok {
			common = append(common, c)
		}
	}
	return common, nil
}

func tableColumns(ctx context.Context, q queryer, schema, table string) ([]string, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(`PRAGMA %s.table_info("%s")`, schema, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}
