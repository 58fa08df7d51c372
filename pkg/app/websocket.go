package app

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
)

const (
	WebSocketServerPingInterval = 25 * time.Second
	WebSocketServerPingWait     = 40 * time.Second
)

// WebSocketMessage is the envelope pushed to every connected client
// WebSocketMessage 推送给所有客户端的消息信封
type WebSocketMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// WebsocketServerConfig 配置
type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebsocketServer is a one-way change feed: clients only receive broadcasts
// WebsocketServer 单向变更推送，客户端只接收广播
type WebsocketServer struct {
	config *WebsocketServerConfig
	logger *zap.Logger
	up     *gws.Upgrader

	mu      sync.RWMutex
	clients map[*gws.Conn]chan struct{}
}

// NewWebsocketServer 创建 WebSocket 服务
func NewWebsocketServer(c WebsocketServerConfig, logger *zap.Logger) *WebsocketServer {
	if c.PingInterval <= 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait <= 0 {
		c.PingWait = WebSocketServerPingWait
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &WebsocketServer{
		config:  &c,
		logger:  logger,
		clients: make(map[*gws.Conn]chan struct{}),
	}
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
	return w
}

// Run upgrades the request and starts the read loop
// Run 升级连接并启动读循环
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("WebsocketServer upgrade err", zap.Error(err))
			return
		}
		go socket.ReadLoop()
	}
}

// Broadcast sends msgType and data to every connected client
// Broadcast 向所有已连接客户端发送消息
func (w *WebsocketServer) Broadcast(msgType string, data any) {
	payload, err := sonic.Marshal(WebSocketMessage{Type: msgType, Data: data})
	if err != nil {
		w.logger.Error("WebsocketServer broadcast marshal err", zap.Error(err))
		return
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()

	w.mu.RLock()
	defer w.mu.RUnlock()
	for conn := range w.clients {
		_ = b.Broadcast(conn)
	}
}

// ClientCount 返回当前连接数
func (w *WebsocketServer) ClientCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	_ = conn.SetDeadline(time.Now().Add(w.config.PingInterval + w.config.PingWait))
	done := make(chan struct{})

	w.mu.Lock()
	w.clients[conn] = done
	count := len(w.clients)
	w.mu.Unlock()

	go w.pingLoop(conn, done)
	w.logger.Info("WebsocketServer client join", zap.Int("count", count))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	w.mu.Lock()
	if done, ok := w.clients[conn]; ok {
		close(done)
		delete(w.clients, conn)
	}
	count := len(w.clients)
	w.mu.Unlock()

	w.logger.Info("WebsocketServer client leave", zap.Int("count", count), zap.Error(err))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingInterval + w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingInterval + w.config.PingWait))
}

// OnMessage only honours "close"; the feed has no inbound protocol
// OnMessage 仅处理 "close"，推送通道没有入站协议
func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode == gws.OpcodeText && message.Data.String() == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
	}
}

func (w *WebsocketServer) pingLoop(conn *gws.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(w.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WritePing(nil); err != nil {
				w.logger.Debug("WebsocketServer ping err", zap.Error(err))
				return
			}
		}
	}
}
