// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/clipbook-service/internal/dao"
	"github.com/haierkeys/clipbook-service/pkg/assist"
	"github.com/haierkeys/clipbook-service/pkg/logger"
	"github.com/haierkeys/clipbook-service/pkg/storage"
	"github.com/haierkeys/clipbook-service/pkg/util"
	"github.com/haierkeys/clipbook-service/pkg/workerpool"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EnvOpenAIKey 未配置 assist.api-key 时读取的环境变量
const EnvOpenAIKey = "OPENAI_API_KEY"

// AppConfig 应用配置
type AppConfig struct {
	File    string        `yaml:"-"` // 配置文件路径，不序列化
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	Notes   NotesConfig   `yaml:"notes"`
	Assist  AssistConfig  `yaml:"assist"`
	Backup  BackupConfig  `yaml:"backup"`
	Tracer  TracerConfig  `yaml:"tracer"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"info"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/clipbook.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 端口
	HttpPort string `yaml:"http-port" default:":9000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics 与 pprof），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:":9001"`
	// DefaultContextTimeout 请求上下文超时（秒）
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`
	// CorsAllowOrigin 允许的跨域来源
	CorsAllowOrigin string `yaml:"cors-allow-origin" default:"*"`
}

// StorageConfig 存储配置
type StorageConfig struct {
	// Type 存储后端 file | bolt | sqlite | mysql | postgres | memory
	Type string `yaml:"type" default:"file"`
	// Path file 后端为目录，bolt 与 sqlite 后端为数据库文件
	Path string `yaml:"path" default:"storage/data"`
	// Passphrase file 后端静态加密口令
	Passphrase string `yaml:"passphrase"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Port 端口
	Port int `yaml:"port"`
	// Name 数据库名
	Name string `yaml:"name"`
	// TablePrefix 表前缀
	TablePrefix string `yaml:"table-prefix" default:"clipbook_"`
	// Charset 字符集
	Charset string `yaml:"charset"`
	// SSLMode postgres sslmode
	SSLMode string `yaml:"ssl-mode"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"2"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"10"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时）
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
}

// NotesConfig 笔记配置
type NotesConfig struct {
	// WelcomeReadOnly 欢迎笔记标题与内容只读，默认 true
	WelcomeReadOnly *bool `yaml:"welcome-read-only" default:"true"`
}

// AssistConfig AI 助手配置
type AssistConfig struct {
	// APIKey 为空时读取 OPENAI_API_KEY，仍为空则禁用
	APIKey string `yaml:"api-key"`
	// BaseURL OpenAI 兼容接口地址
	BaseURL string `yaml:"base-url"`
	// Model 模型名称
	Model string `yaml:"model" default:"gpt-4o-mini"`
	// Timeout 单次调用超时，支持格式：30s、1m
	Timeout string `yaml:"timeout" default:"60s"`
	// Temperature 采样温度
	Temperature float32 `yaml:"temperature" default:"0.2"`
	// MaxContentChars 发送给模型的最大字符数
	MaxContentChars int `yaml:"max-content-chars" default:"12000"`
	// MaxToolRounds 工具调用最大轮次
	MaxToolRounds int `yaml:"max-tool-rounds" default:"4"`
	// MaxTags 最多建议的标签数
	MaxTags int `yaml:"max-tags" default:"8"`
	// Workers 并发调用数
	Workers int `yaml:"workers" default:"4"`
	// QueueSize 等待队列长度
	QueueSize int `yaml:"queue-size" default:"32"`
	// RateLimitCapacity /api/assist 令牌桶容量
	RateLimitCapacity int64 `yaml:"rate-limit-capacity" default:"10"`
	// RateLimitInterval 令牌填充间隔，支持格式：6s、1m
	RateLimitInterval string `yaml:"rate-limit-interval" default:"6s"`
}

// BackupConfig 备份配置
type BackupConfig struct {
	// Enabled 是否启用定时备份
	Enabled *bool `yaml:"enabled" default:"true"`
	// Cron 备份周期，robfig/cron 表达式
	Cron string `yaml:"cron" default:"@every 1h"`
	// Dir 备份目录
	Dir string `yaml:"dir" default:"storage/backup"`
	// Keep 保留的最新备份数
	Keep int `yaml:"keep" default:"24"`
	// Targets 备份镜像目标（localfs | s3 | r2 | minio | oss | webdav），每次备份后上传，清理时同步删除
	Targets []storage.Config `yaml:"targets"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用追踪
	Enabled *bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称，默认 X-Trace-ID
	Header string `yaml:"header" default:"X-Trace-ID"`
}

// LoadConfig 从文件加载配置
// 返回配置实例和配置文件的绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", err
	}
	realpath = filepath.Clean(realpath)

	file, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config file failed")
	}

	c, err := ParseConfig(file)
	if err != nil {
		return nil, realpath, err
	}
	c.File = realpath
	return c, realpath, nil
}

// ParseConfig 解析 YAML 配置并填充默认值
func ParseConfig(data []byte) (*AppConfig, error) {
	c := new(AppConfig)

	// 设置默认值
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "set default config failed")
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "parse config file failed")
	}

	// 再次设置默认值，以填充 YAML 中存在但值为空的字段
	// defaults.Set 只有在字段为该类型的零值时才会填充
	if err := defaults.Set(c); err != nil {
		return nil, errors.Wrap(err, "re-set default config failed")
	}

	if strings.TrimSpace(c.Assist.APIKey) == "" {
		c.Assist.APIKey = os.Getenv(EnvOpenAIKey)
	}
	return c, nil
}

// Save 保存配置到文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "marshal config failed")
	}

	err = os.WriteFile(c.File, data, 0644)
	if err != nil {
		return errors.Wrap(err, "write config file failed")
	}

	return nil
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
	}
}

// GetStorageConfig 获取存储配置
func (c *AppConfig) GetStorageConfig() *dao.Config {
	return &dao.Config{
		Type:            c.Storage.Type,
		Path:            c.Storage.Path,
		Passphrase:      c.Storage.Passphrase,
		UserName:        c.Storage.UserName,
		Password:        c.Storage.Password,
		Host:            c.Storage.Host,
		Port:            c.Storage.Port,
		Name:            c.Storage.Name,
		TablePrefix:     c.Storage.TablePrefix,
		Charset:         c.Storage.Charset,
		SSLMode:         c.Storage.SSLMode,
		MaxIdleConns:    c.Storage.MaxIdleConns,
		MaxOpenConns:    c.Storage.MaxOpenConns,
		ConnMaxLifetime: c.Storage.ConnMaxLifetime,
		RunMode:         c.Server.RunMode,
	}
}

// GetAssistConfig 获取 AI 网关配置
func (c *AppConfig) GetAssistConfig() assist.Config {
	return assist.Config{
		APIKey:          c.Assist.APIKey,
		BaseURL:         c.Assist.BaseURL,
		Model:           c.Assist.Model,
		Timeout:         util.ParseDurationOr(c.Assist.Timeout, 60*time.Second),
		Temperature:     c.Assist.Temperature,
		MaxContentChars: c.Assist.MaxContentChars,
		MaxToolRounds:   c.Assist.MaxToolRounds,
		MaxTags:         c.Assist.MaxTags,
	}
}

// GetWorkerPoolConfig 获取 AI 调用 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.Assist.Workers > 0 {
		cfg.MaxWorkers = c.Assist.Workers
	}
	if c.Assist.QueueSize > 0 {
		cfg.QueueSize = c.Assist.QueueSize
	}

	return cfg
}

// GetAssistRateLimitInterval 获取令牌填充间隔
func (c *AppConfig) GetAssistRateLimitInterval() time.Duration {
	return util.ParseDurationOr(c.Assist.RateLimitInterval, 6*time.Second)
}

// WelcomeReadOnly 欢迎笔记是否只读
func (c *AppConfig) WelcomeReadOnly() bool {
	return c.Notes.WelcomeReadOnly == nil || *c.Notes.WelcomeReadOnly
}

// BackupEnabled 是否启用备份
func (c *AppConfig) BackupEnabled() bool {
	return c.Backup.Enabled == nil || *c.Backup.Enabled
}

// BackupTargets 返回已启用的备份镜像目标
func (c *AppConfig) BackupTargets() []storage.Config {
	var out []storage.Config
	for _, t := range c.Backup.Targets {
		if t.IsEnabled {
			out = append(out, t)
		}
	}
	return out
}

// TracerEnabled 是否启用请求追踪
func (c *AppConfig) TracerEnabled() bool {
	return c.Tracer.Enabled == nil || *c.Tracer.Enabled
}
