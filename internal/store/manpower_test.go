package store

import (
	"path/filepath"
	"testing"

	"github.com/Janwang88/KIMD/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "kimd.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(workOrder, content, level string, hours float64) model.ManpowerRecord {
	return model.ManpowerRecord{
		WorkDate:    "2026-08-01",
		WorkOrder:   workOrder,
		ProjectName: "贴片线",
		WorkerName:  "张三",
		WorkerLevel: level,
		Hours:       hours,
		Supplier:    "宏达",
		Content:     content,
	}
}

func TestManpowerCRUD(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	r := sampleRecord("MO-1", "模组组装", "大工", 8)
	id, err := s.InsertManpower(&r)
	if err != nil {
		t.Fatalf("InsertManpower: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected non-zero id")
	}

	records, total, err := s.ListManpower("", "", 1, 10)
	if err != nil {
		t.Fatalf("ListManpower: %v", err)
	}
	if total != 1 || len(records) != 1 {
		t.Fatalf("list: total=%d len=%d, want 1/1", total, len(records))
	}
	got := records[0]
	if got.WorkOrder != "MO-1" || got.Category != "外协" {
		t.Fatalf("record: got %+v", got)
	}

	got.Hours = 10
	got.Content = "电控配线"
	if err := s.UpdateManpower(&got); err != nil {
		t.Fatalf("UpdateManpower: %v", err)
	}
	records, _, _ = s.ListManpower("", "", 1, 10)
	if records[0].Hours != 10 || records[0].Content != "电控配线" {
		t.Fatalf("after update: got %+v", records[0])
	}

	missing := got
	missing.ID = 9999
	if err := s.UpdateManpower(&missing); err == nil {
		t.Fatalf("updating missing record should fail")
	}

	found, err := s.DeleteManpower(got.ID)
	if err != nil || !found {
		t.Fatalf("DeleteManpower: found=%v err=%v", found, err)
	}
	found, err = s.DeleteManpower(got.ID)
	if err != nil || found {
		t.Fatalf("double delete: found=%v err=%v", found, err)
	}
}

func TestManpowerListFilters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	a := sampleRecord("MO-1", "模组组装", "大工", 8)
	b := sampleRecord("MO-2", "领料", "中工", 4)
	b.WorkerName = "李四"
	b.WorkDate = "2026-08-02"
	if _, err := s.InsertManpower(&a); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	if _, err := s.InsertManpower(&b); err != nil {
		t.Fatalf("insert b: %v", err)
	}

	_, total, err := s.ListManpower("李四", "", 1, 10)
	if err != nil || total != 1 {
		t.Fatalf("keyword filter: total=%d err=%v", total, err)
	}
	_, total, err = s.ListManpower("", "2026-08-01", 1, 10)
	if err != nil || total != 1 {
		t.Fatalf("date filter: total=%d err=%v", total, err)
	}
	records, total, err := s.ListManpower("", "", 1, 1)
	if err != nil || total != 2 || len(records) != 1 {
		t.Fatalf("paging: total=%d len=%d err=%v", total, len(records), err)
	}
}

func TestManpowerBatchOps(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	ids := []int64{}
	for i := 0; i < 3; i++ {
		r := sampleRecord("MO-1", "模组组装", "大工", 8)
		id, err := s.InsertManpower(&r)
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}

	content := "总装"
	n, err := s.BatchUpdateManpower(ids[:2], &content, nil)
	if err != nil || n != 2 {
		t.Fatalf("BatchUpdateManpower: n=%d err=%v", n, err)
	}
	records, _, _ := s.ListManpower("", "", 1, 10)
	updated := 0
	for _, r := range records {
		if r.Content == "总装" {
			updated++
		}
	}
	if updated != 2 {
		t.Fatalf("batch update applied to %d records, want 2", updated)
	}

	n, err = s.BatchDeleteManpower(ids)
	if err != nil || n != 3 {
		t.Fatalf("BatchDeleteManpower: n=%d err=%v", n, err)
	}
	_, total, _ := s.ListManpower("", "", 1, 10)
	if total != 0 {
		t.Fatalf("after batch delete: total=%d", total)
	}
}

func TestManpowerImportSkipsInvalid(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	records := []model.ManpowerRecord{
		sampleRecord("MO-1", "模组组装", "大工", 8),
		{}, // 关键字段全空，跳过
		sampleRecord("MO-2", "领料", "中工", 4),
	}
	count, err := s.ImportManpower(records)
	if err != nil {
		t.Fatalf("ImportManpower: %v", err)
	}
	if count != 2 {
		t.Fatalf("import count: got %d, want 2", count)
	}
	_, total, _ := s.ListManpower("", "", 1, 10)
	if total != 2 {
		t.Fatalf("after import: total=%d", total)
	}
}

func TestHoursByWorkOrders(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	a := sampleRecord("MO-1", "模组组装", "大工", 8)
	b := sampleRecord("MO-1", "电控配线", "中工", 4)
	b.Category = "KIMD"
	c := sampleRecord("MO-2", "领料", "小工", 2)
	d := sampleRecord("MO-3", "打包", "大工", 6) // 不在查询范围
	for _, r := range []*model.ManpowerRecord{&a, &b, &c, &d} {
		if _, err := s.InsertManpower(r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	outsource, err := s.HoursByWorkOrders([]string{"MO-1", "MO-2"}, "外协")
	if err != nil {
		t.Fatalf("HoursByWorkOrders: %v", err)
	}
	if len(outsource) != 2 {
		t.Fatalf("outsource rows: got %d, want 2", len(outsource))
	}

	kimd, err := s.HoursByWorkOrders([]string{"MO-1", "MO-2"}, "KIMD")
	if err != nil {
		t.Fatalf("HoursByWorkOrders KIMD: %v", err)
	}
	if len(kimd) != 1 || kimd[0].Content != "电控配线" {
		t.Fatalf("kimd rows: got %+v", kimd)
	}

	empty, err := s.HoursByWorkOrders(nil, "外协")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty targets: got %v err=%v", empty, err)
	}
}
