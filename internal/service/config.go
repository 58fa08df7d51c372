// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

import "time"

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Notes  NoteServiceConfig   // Note related config // 笔记相关配置
	Assist AssistServiceConfig // AI assist related config // AI 助手相关配置
}

// NoteServiceConfig note service configuration
// NoteServiceConfig 笔记服务配置
type NoteServiceConfig struct {
	WelcomeReadOnly bool // Reject title/content edits on the welcome note // 欢迎笔记禁止修改标题与内容
}

// AssistServiceConfig assist service configuration
// AssistServiceConfig AI 助手服务配置
type AssistServiceConfig struct {
	Workers   int           // Concurrent upstream calls // 并发上游调用数
	QueueSize int           // Pending call queue size // 等待队列长度
	Timeout   time.Duration // Per call timeout, 0 for none // 单次调用超时，0 表示不限制
}
