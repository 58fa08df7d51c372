// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/clipbook-service/internal/domain"
)

// NoteListRequest List query parameters
// NoteListRequest 笔记列表查询参数
type NoteListRequest struct {
	Search        string `json:"search" form:"search"`
	SortKey       string `json:"sortKey" form:"sortKey" binding:"omitempty,oneof=updatedAt createdAt title contentLength"`
	SortDirection string `json:"sortDirection" form:"sortDirection" binding:"omitempty,oneof=asc desc"`
}

// ToQuery converts the request into a NoteQuery; empty fields keep the defaults
// ToQuery 转换为 NoteQuery，空字段使用默认值
func (r *NoteListRequest) ToQuery() domain.NoteQuery {
	q := domain.DefaultNoteQuery()
	q.Search = r.Search
	if r.SortKey != "" {
		q.SortKey = domain.SortKey(r.SortKey)
	}
	if r.SortDirection != "" {
		q.SortDirection = domain.SortDirection(r.SortDirection)
	}
	return q
}

// NoteIDRequest 按 ID 指定笔记
type NoteIDRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}

// NoteUpdateRequest Partial update; nil fields are left untouched
// NoteUpdateRequest 局部更新参数，nil 字段保持不变
type NoteUpdateRequest struct {
	ID      string    `json:"id" form:"id" binding:"required"`
	Title   *string   `json:"title" form:"title"`
	Content *string   `json:"content" form:"content"`
	Tags    *[]string `json:"tags" form:"tags" binding:"omitempty,dive,max=64"`
}

// ToPatch 转换为领域补丁
func (r *NoteUpdateRequest) ToPatch() domain.NotePatch {
	p := domain.NotePatch{Title: r.Title, Content: r.Content}
	if r.Tags != nil {
		p.Tags = *r.Tags
		p.SetTags = true
	}
	return p
}

// NoteRenameRequest 重命名参数
type NoteRenameRequest struct {
	ID    string `json:"id" form:"id" binding:"required"`
	Title string `json:"title" form:"title"`
}

// NoteRevertRequest 回滚参数，Index 为历史列表下标（0 为最新）
type NoteRevertRequest struct {
	ID    string `json:"id" form:"id" binding:"required"`
	Index *int   `json:"index" form:"index" binding:"required,gte=0"`
}

// NoteTagRequest 标签增删参数
type NoteTagRequest struct {
	ID  string `json:"id" form:"id" binding:"required"`
	Tag string `json:"tag" form:"tag" binding:"required,max=64"`
}

// NoteHistoryRequest 历史版本查询参数
type NoteHistoryRequest struct {
	ID    string `json:"id" form:"id" binding:"required"`
	Index *int   `json:"index" form:"index" binding:"required,gte=0"`
}

// NoteHTMLResponse Rendered note body
// NoteHTMLResponse 渲染后的笔记正文
type NoteHTMLResponse struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// NoteDeleteResponse Delete result; Undoable tells the client to offer undo
// NoteDeleteResponse 删除结果，Undoable 表示可撤销
type NoteDeleteResponse struct {
	Changed  bool `json:"changed"`
	Undoable bool `json:"undoable"`
}
