package dto

// AssistRequest Either a note id or raw content; id wins when both are set
// AssistRequest 笔记 ID 或原始内容，二者同时存在时以 ID 为准
type AssistRequest struct {
	ID      string `json:"id" form:"id"`
	Content string `json:"content" form:"content" binding:"required_without=ID"`
}

// AssistAnalyzeRequest 组合分析参数
type AssistAnalyzeRequest struct {
	ID string `json:"id" form:"id" binding:"required"`
}
