// Package safe_close coordinates graceful shutdown of long-running goroutines
// Package safe_close 协调长期运行 goroutine 的优雅关闭
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal and waits for every attached worker
// SafeClose 广播一次关闭信号并等待所有挂载的工作协程退出
type SafeClose struct {
	closeCh  chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex
	closeErr error
}

// NewSafeClose 创建 SafeClose
func NewSafeClose() *SafeClose {
	return &SafeClose{closeCh: make(chan struct{})}
}

// Attach runs fn in a goroutine; fn must call done when it has finished cleaning up
// Attach 在 goroutine 中运行 fn，fn 清理完成后必须调用 done
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	var once sync.Once
	done := func() { once.Do(s.wg.Done) }
	go fn(done, s.closeCh)
}

// AttachCloser registers fn to run once the close signal fires
// AttachCloser 注册在关闭信号触发后执行的清理函数
func (s *SafeClose) AttachCloser(fn func() error) {
	s.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()
		<-closeSignal
		if err := fn(); err != nil {
			s.setErr(err)
		}
	})
}

// SendCloseSignal closes the signal channel; only the first call records err
// SendCloseSignal 关闭信号通道，仅首次调用记录 err
func (s *SafeClose) SendCloseSignal(err error) {
	s.once.Do(func() {
		if err != nil {
			s.setErr(err)
		}
		close(s.closeCh)
	})
}

// Closed reports whether the close signal has been sent
// Closed 判断是否已发送关闭信号
func (s *SafeClose) Closed() bool {
	select {
	case <-s.closeCh:
		return true
	default:
		return false
	}
}

// WaitClosed blocks until every attached worker called done
// WaitClosed 阻塞直到所有挂载的工作协程调用 done
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeErr
}

func (s *SafeClose) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr == nil {
		s.closeErr = err
	}
}
