package logging

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FileRotator 按大小轮转的日志文件写入器
// 超过 maxSize 时把当前文件改名为带时间戳的归档，按需 gzip 压缩，
// 并只保留最近 maxFiles 个归档。
type FileRotator struct {
	mu sync.Mutex

	path     string
	maxSize  int64
	maxFiles int
	compress bool

	file *os.File
	size int64
}

// NewFileRotator 创建文件轮转器并打开（或续写）日志文件
func NewFileRotator(path string, maxSize int64, maxFiles int, compress bool) (*FileRotator, error) {
	if path == "" {
		return nil, fmt.Errorf("日志文件路径不能为空")
	}
	if maxSize <= 0 {
		maxSize = 100 * 1024 * 1024
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("创建日志目录失败: %w", err)
	}

	r := &FileRotator{
		path:     path,
		maxSize:  maxSize,
		maxFiles: maxFiles,
		compress: compress,
	}
	if err := r.open(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRotator) open() error {
	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return err
	}

	r.file = file
	r.size = info.Size()
	return nil
}

// Write 写入日志内容，必要时先轮转
func (r *FileRotator) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, fmt.Errorf("日志文件已关闭")
	}

	if r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			// 轮转失败继续写当前文件，不丢日志
			fmt.Fprintf(os.Stderr, "日志轮转失败: %v\n", err)
		}
	}

	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Sync 把缓冲内容刷到磁盘
func (r *FileRotator) Sync() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	return r.file.Sync()
}

// Close 关闭日志文件
func (r *FileRotator) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *FileRotator) rotate() error {
	if err := r.file.Close(); err != nil {
		return err
	}
	r.file = nil

	archived := fmt.Sprintf("%s.%s", r.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(r.path, archived); err != nil {
		_ = r.open()
		return err
	}

	if r.compress {
		// 压缩在后台进行，不阻塞日志写入
		go compressFile(archived)
	}

	r.pruneArchives()
	return r.open()
}

// pruneArchives 删除多余的归档文件（按修改时间保留最新的 maxFiles 个）
func (r *FileRotator) pruneArchives() {
	if r.maxFiles <= 0 {
		return
	}

	matches, err := filepath.Glob(r.path + ".*")
	if err != nil || len(matches) <= r.maxFiles {
		return
	}

	type archive struct {
		path    string
		modTime time.Time
	}
	archives := make([]archive, 0, len(matches))
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		archives = append(archives, archive{path: m, modTime: info.ModTime()})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].modTime.Before(archives[j].modTime)
	})

	for i := 0; i < len(archives)-r.maxFiles; i++ {
		_ = os.Remove(archives[i].path)
	}
}

func compressFile(path string) {
	in, err := os.Open(path)
	if err != nil {
		return
	}
	defer in.Close()

	out, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return
	}

	gz := gzip.NewWriter(out)
	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		_ = os.Remove(path + ".gz")
		return
	}
	if err := gz.Close(); err != nil {
		out.Close()
		_ = os.Remove(path + ".gz")
		return
	}
	if err := out.Close(); err != nil {
		return
	}

	in.Close()
	_ = os.Remove(path)
}

// ParseSize 解析 "100MB" 这类大小写法为字节数
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("大小不能为空")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("无法解析大小 '%s': %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("大小必须为正数: %d", n)
	}
	return n * multiplier, nil
}
