package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func testWatcher(dir string) *Watcher {
	w := New(dir)
	w.Interval = 10 * time.Millisecond
	return w
}

func TestFindLatest(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	old := writeFile(t, dir, "物料明细_old.xlsx", "a")
	writeFile(t, dir, "~$物料明细_old.xlsx", "lock")
	writeFile(t, dir, "物料清单.txt", "not excel")
	newest := writeFile(t, dir, "物料明细_new.xlsx", "b")

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	w := testWatcher(dir)
	got, err := w.FindLatest([]string{"物料"})
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if got == nil || got.Path != newest {
		t.Fatalf("FindLatest: got %+v, want %s", got, newest)
	}

	got, err = w.FindLatest([]string{"排程"})
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if got != nil {
		t.Fatalf("non-matching pattern should return nil, got %+v", got)
	}
}

func TestFindLatestCaseInsensitive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := writeFile(t, dir, "material_export_20260830.xlsx", "a")

	w := testWatcher(dir)
	got, err := w.FindLatest([]string{"Material"})
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if got == nil || got.Path != path {
		t.Fatalf("pattern should match ignoring case: got %+v, want %s", got, path)
	}

	got, err = w.FindLatest([]string{"PPBOM"})
	if err != nil {
		t.Fatalf("FindLatest: %v", err)
	}
	if got != nil {
		t.Fatalf("non-matching pattern should return nil, got %+v", got)
	}
}

func TestWaitForNewCaseInsensitive(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := testWatcher(dir)

	since := time.Now().Add(-time.Second)
	writeFile(t, dir, "ppbom_export.xlsx", "content")

	got, err := w.WaitForNew(context.Background(), []string{"PPBOM"}, since, 2*time.Second)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	if got == nil || got.Name != "ppbom_export.xlsx" {
		t.Fatalf("WaitForNew should match ignoring case: got %+v", got)
	}
}

func TestWaitForNewStableFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := testWatcher(dir)

	since := time.Now().Add(-time.Second)
	writeFile(t, dir, "工单导出.xlsx", "content")

	got, err := w.WaitForNew(context.Background(), []string{"工单"}, since, 2*time.Second)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	if got == nil || got.Name != "工单导出.xlsx" {
		t.Fatalf("WaitForNew: got %+v", got)
	}
}

func TestWaitForNewGrowingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := New(dir)
	w.Interval = 50 * time.Millisecond

	since := time.Now().Add(-time.Second)
	path := writeFile(t, dir, "物料下载中.xlsx", "x")

	// 模拟下载中的文件持续增长，停止后才允许被捕获
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 12; i++ {
			f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
			if err == nil {
				f.WriteString("xxxxxxxx")
				f.Close()
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	got, err := w.WaitForNew(context.Background(), []string{"物料"}, since, 5*time.Second)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	<-done

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if got == nil || got.Size != info.Size() {
		t.Fatalf("watcher must only return the settled size: got %+v, final %d", got, info.Size())
	}
}

func TestWaitForNewTimeout(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := testWatcher(dir)

	got, err := w.WaitForNew(context.Background(), []string{"物料"}, time.Now(), 80*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	if got != nil {
		t.Fatalf("timeout should return nil, got %+v", got)
	}
}

func TestWaitForNewGraceWindow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := testWatcher(dir)

	since := time.Now()

	// 早于基准 4 秒：仍在宽限窗口内，应被捕获
	path := writeFile(t, dir, "物料A.xlsx", "a")
	mt := since.Add(-4 * time.Second)
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	got, err := w.WaitForNew(context.Background(), []string{"物料"}, since, time.Second)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	if got == nil {
		t.Fatalf("file within grace window should be found")
	}

	// 早于基准 6 秒：在窗口之外，超时返回 nil
	mt = since.Add(-6 * time.Second)
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	got, err = w.WaitForNew(context.Background(), []string{"物料"}, since, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	if got != nil {
		t.Fatalf("file outside grace window should be ignored, got %+v", got)
	}
}

func TestWaitForNewContextCancel(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	w := testWatcher(dir)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	got, err := w.WaitForNew(ctx, []string{"物料"}, time.Now(), 10*time.Second)
	if err != nil {
		t.Fatalf("WaitForNew: %v", err)
	}
	if got != nil {
		t.Fatalf("cancelled wait should return nil, got %+v", got)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("cancel did not interrupt wait")
	}
}

func TestMoveFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	src := writeFile(t, dir, "src.xlsx", "payload")
	dstDir := filepath.Join(dir, "归档")

	dst, err := MoveFile(src, dstDir, "MO-1_20260830.xlsx")
	if err != nil {
		t.Fatalf("MoveFile: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be removed")
	}
	data, err := os.ReadFile(dst)
	if err != nil || string(data) != "payload" {
		t.Fatalf("dest content: %q err=%v", data, err)
	}

	// 目标已存在时覆盖
	src2 := writeFile(t, dir, "src2.xlsx", "newer")
	dst2, err := MoveFile(src2, dstDir, "MO-1_20260830.xlsx")
	if err != nil {
		t.Fatalf("MoveFile overwrite: %v", err)
	}
	data, _ = os.ReadFile(dst2)
	if string(data) != "newer" {
		t.Fatalf("overwrite content: got %q", data)
	}
}
