package domain

// SortKey 排序字段
type SortKey string

const (
	SortByUpdatedAt     SortKey = "updatedAt"
	SortByCreatedAt     SortKey = "createdAt"
	SortByTitle         SortKey = "title"
	SortByContentLength SortKey = "contentLength"
)

// SortDirection 排序方向
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Valid 判断排序字段是否合法
func (k SortKey) Valid() bool {
	switch k {
	case SortByUpdatedAt, SortByCreatedAt, SortByTitle, SortByContentLength:
		return true
	}
	return false
}

// Valid 判断排序方向是否合法
func (d SortDirection) Valid() bool {
	return d == SortAsc || d == SortDesc
}

// NoteQuery 列表查询参数
type NoteQuery struct {
	Search        string
	SortKey       SortKey
	SortDirection SortDirection
}

// DefaultNoteQuery matches the list view's initial state: newest edits first
// DefaultNoteQuery 列表初始状态：最近修改在前
func DefaultNoteQuery() NoteQuery {
	return NoteQuery{SortKey: SortByUpdatedAt, SortDirection: SortDesc}
}
