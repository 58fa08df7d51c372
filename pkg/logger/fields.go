package logger

import "go.uber.org/zap"

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldNoteID 笔记 ID 字段
	FieldNoteID = "noteId"

	// FieldOp 操作类型字段
	FieldOp = "op"

	// FieldSlot 存储槽位字段
	FieldSlot = "slot"

	// FieldBackend 存储后端字段
	FieldBackend = "backend"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldError 错误信息字段
	FieldError = "error"

	// FieldSize 数据大小字段
	FieldSize = "size"

	// FieldCount 数量字段
	FieldCount = "count"

	// FieldModel 模型名称字段
	FieldModel = "model"

	// FieldReason 原因字段
	FieldReason = "reason"

	// FieldTarget 备份镜像目标字段
	FieldTarget = "target"

	// FieldFileKey 远端对象键字段
	FieldFileKey = "fileKey"
)

// FieldString 构造字符串日志字段
func FieldString(key, value string) zap.Field {
	return zap.String(key, value)
}
