package store

import (
	"fmt"
	"strings"

	"github.com/Janwang88/KIMD/internal/model"
)

const manpowerColumns = `id, work_date, work_order, project_name, worker_name, worker_level,
	start_time, end_time, hours, supplier, shift, manager, content, remark, remark1, category, created_at`

func scanManpower(scan func(dest ...any) error) (model.ManpowerRecord, error) {
	var r model.ManpowerRecord
	err := scan(&r.ID, &r.WorkDate, &r.WorkOrder, &r.ProjectName, &r.WorkerName, &r.WorkerLevel,
		&r.StartTime, &r.EndTime, &r.Hours, &r.Supplier, &r.Shift, &r.Manager,
		&r.Content, &r.Remark, &r.Remark1, &r.Category, &r.CreatedAt)
	return r, err
}

// ListManpower 查询台账记录，支持关键词与日期过滤和分页
// keyword 同时匹配工单号、项目名、人员姓名与供应商；page 从 1 开始
func (s *Store) ListManpower(keyword, workDate string, page, pageSize int) ([]model.ManpowerRecord, int, error) {
	where := []string{"1=1"}
	args := []any{}

	if keyword != "" {
		where = append(where, "(work_order LIKE ? OR worker_name LIKE ? OR project_name LIKE ?)")
		like := "%" + keyword + "%"
		args = append(args, like, like, like)
	}
	if workDate != "" {
		where = append(where, "work_date = ?")
		args = append(args, workDate)
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM outsource_manpower WHERE " + cond
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count manpower records: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	query := fmt.Sprintf(`SELECT %s FROM outsource_manpower WHERE %s
		ORDER BY id DESC LIMIT ? OFFSET ?`, manpowerColumns, cond)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query manpower records: %w", err)
	}
	defer rows.Close()

	records := []model.ManpowerRecord{}
	for rows.Next() {
		r, err := scanManpower(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan manpower record: %w", err)
		}
		records = append(records, r)
	}
	return records, total, rows.Err()
}

// InsertManpower 新增一条台账记录
func (s *Store) InsertManpower(r *model.ManpowerRecord) (int64, error) {
	if r.Category == "" {
		r.Category = "外协"
	}
	res, err := s.db.Exec(`INSERT INTO outsource_manpower
		(work_date, work_order, project_name, worker_name, worker_level,
		 start_time, end_time, hours, supplier, shift, manager, content, remark, remark1, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.WorkDate, r.WorkOrder, r.ProjectName, r.WorkerName, r.WorkerLevel,
		r.StartTime, r.EndTime, r.Hours, r.Supplier, r.Shift, r.Manager,
		r.Content, r.Remark, r.Remark1, r.Category)
	if err != nil {
		return 0, fmt.Errorf("failed to insert manpower record: %w", err)
	}
	return res.LastInsertId()
}

// UpdateManpower 按 ID 更新台账记录
func (s *Store) UpdateManpower(r *model.ManpowerRecord) error {
	res, err := s.db.Exec(`UPDATE outsource_manpower SET
		work_date = ?, work_order = ?, project_name = ?, worker_name = ?, worker_level = ?,
		start_time = ?, end_time = ?, hours = ?, supplier = ?, shift = ?, manager = ?,
		content = ?, remark = ?, remark1 = ?, category = ?
		WHERE id = ?`,
		r.WorkDate, r.WorkOrder, r.ProjectName, r.WorkerName, r.WorkerLevel,
		r.StartTime, r.EndTime, r.Hours, r.Supplier, r.Shift, r.Manager,
		r.Content, r.Remark, r.Remark1, r.Category, r.ID)
	if err != nil {
		return fmt.Errorf("failed to update manpower record: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("manpower record %d not found", r.ID)
	}
	return nil
}

// DeleteManpower 按 ID 删除台账记录，返回是否确有该记录
func (s *Store) DeleteManpower(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM outsource_manpower WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete manpower record: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// BatchDeleteManpower 批量删除台账记录
func (s *Store) BatchDeleteManpower(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	res, err := s.db.Exec("DELETE FROM outsource_manpower WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch delete manpower records: %w", err)
	}
	return res.RowsAffected()
}

// BatchUpdateManpower 批量更新工艺名称或备注，nil 字段不修改
func (s *Store) BatchUpdateManpower(ids []int64, content, remark1 *string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	sets := []string{}
	args := []any{}
	if content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *content)
	}
	if remark1 != nil {
		sets = append(sets, "remark1 = ?")
		args = append(args, *remark1)
	}
	if len(sets) == 0 {
		return 0, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	for _, id := range ids {
		args = append(args, id)
	}
	query := fmt.Sprintf("UPDATE outsource_manpower SET %s WHERE id IN (%s)",
		strings.Join(sets, ", "), placeholders)
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch update manpower records: %w", err)
	}
	return res.RowsAffected()
}

// ImportManpower 批量导入台账记录，整体一个事务
func (s *Store) ImportManpower(records []model.ManpowerRecord) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO outsource_manpower
		(work_date, work_order, project_name, worker_name, worker_level,
		 start_time, end_time, hours, supplier, shift, manager, content, remark, remark1, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare import statement: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, r := range records {
		// 关键字段全空的行视为无效数据
		if r.WorkOrder == "" && r.WorkerName == "" && r.Hours == 0 {
			continue
		}
		if r.Category == "" {
			r.Category = "外协"
		}
		if _, err := stmt.Exec(
			r.WorkDate, r.WorkOrder, r.ProjectName, r.WorkerName, r.WorkerLevel,
			r.StartTime, r.EndTime, r.Hours, r.Supplier, r.Shift, r.Manager,
			r.Content, r.Remark, r.Remark1, r.Category); err != nil {
			return 0, fmt.Errorf("failed to import manpower record: %w", err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return count, nil
}

// HoursByWorkOrders 按工单号集合查询台账工时
// category 为 "外协" 时兼容历史数据中分类为空的记录
func (s *Store) HoursByWorkOrders(targets []string, category string) ([]model.LedgerHours, error) {
	if len(targets) == 0 {
		return []model.LedgerHours{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(targets)), ",")
	args := make([]any, 0, len(targets)+1)
	for _, t := range targets {
		args = append(args, t)
	}
	cond := "work_order IN (" + placeholders + ")"

	switch category {
	case "外协":
		cond += " AND (category = '外协' OR category IS NULL OR category = '')"
	default:
		cond += " AND category = ?"
		args = append(args, category)
	}

	rows, err := s.db.Query("SELECT content, hours, worker_level FROM outsource_manpower WHERE "+cond, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger hours: %w", err)
	}
	defer rows.Close()

	out := []model.LedgerHours{}
	for rows.Next() {
		var h model.LedgerHours
		if err := rows.Scan(&h.Content, &h.Hours, &h.WorkerLevel); err != nil {
			return nil, fmt.Errorf("failed to scan ledger hours: %w", err)
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
