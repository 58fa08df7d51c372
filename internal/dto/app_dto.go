package dto

// VersionDTO version information for API response
// VersionDTO 版本信息 API 响应对象
type VersionDTO struct {
	Version   string `json:"version"`   // Current version // 当前版本
	GitTag    string `json:"gitTag"`    // Git tag // Git 标签
	BuildTime string `json:"buildTime"` // Build time // 构建时间
	Name      string `json:"name"`      // Service name // 服务名称
}

// HealthDTO 健康检查响应
type HealthDTO struct {
	Status      string  `json:"status"`      // "healthy" or "unhealthy"
	Version     string  `json:"version"`     // 服务版本号
	Uptime      float64 `json:"uptime"`      // 运行时间（秒）
	Storage     string  `json:"storage"`     // "connected" or "error"
	ProcessRSS  uint64  `json:"processRss"`  // 进程常驻内存（字节）
	MemoryTotal uint64  `json:"memoryTotal"` // 主机总内存（字节）
	NoteCount   int     `json:"noteCount"`   // 笔记数量
	WSClients   int     `json:"wsClients"`   // WebSocket 连接数
}
