package logging

import (
	"errors"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// LogstashWriter ships log lines to a Logstash TCP input from a background
// goroutine. Write only enqueues; when the queue is full or Logstash is down
// lines are dropped.
type LogstashWriter struct {
	addr          string
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration

	queue chan []byte
	done  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup

	conn      net.Conn
	nextRetry time.Time
	dial      func(network, addr string, timeout time.Duration) (net.Conn, error)
}

type Option func(*LogstashWriter)

func WithDialTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.dialTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	return func(w *LogstashWriter) { w.writeTimeout = d }
}

// WithRetryInterval sets the cool-down after a failed connect or write.
func WithRetryInterval(d time.Duration) Option {
	return func(w *LogstashWriter) { w.retryInterval = d }
}

func WithQueueSize(n int) Option {
	return func(w *LogstashWriter) {
		if n > 0 {
			w.queue = make(chan []byte, n)
		}
	}
}

func NewLogstashWriter(addr string, opts ...Option) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	w := &LogstashWriter{
		addr:          addr,
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
		queue:         make(chan []byte, 1024),
		done:          make(chan struct{}),
		dial:          net.DialTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	select {
	case <-w.done:
		return 0, io.ErrClosedPipe
	default:
	}

	line := make([]byte, len(p), len(p)+1)
	copy(line, p)
	if line[len(line)-1] != '\n' {
		line = append(line, '\n')
	}
	select {
	case w.queue <- line:
	default:
	}
	return len(p), nil
}

// Close stops the sender after flushing what is already queued.
func (w *LogstashWriter) Close() error {
	w.once.Do(func() { close(w.done) })
	w.wg.Wait()
	return nil
}

func (w *LogstashWriter) run() {
	defer w.wg.Done()
	defer w.closeConn()
	for {
		select {
		case line := <-w.queue:
			w.send(line)
		case <-w.done:
			for {
				select {
				case line := <-w.queue:
					w.send(line)
				default:
					return
				}
			}
		}
	}
}

func (w *LogstashWriter) send(line []byte) {
	if w.conn == nil {
		if !w.nextRetry.IsZero() && time.Now().Before(w.nextRetry) {
			return
		}
		conn, err := w.dial("tcp", w.addr, w.dialTimeout)
		if err != nil {
			w.nextRetry = time.Now().Add(w.retryInterval)
			return
		}
		w.conn = conn
		w.nextRetry = time.Time{}
	}
	if w.writeTimeout > 0 {
		_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	}
	if _, err := w.conn.Write(line); err != nil {
		w.closeConn()
		w.nextRetry = time.Now().Add(w.retryInterval)
	}
}

func (w *LogstashWriter) closeConn() {
	if w.conn != nil {
		_ = w.conn.Close()
		w.conn = nil
	}
}
