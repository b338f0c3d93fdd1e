package realtime

import (
	"io"
	"sync"
)

// fakeConn records frames the hub writes and replays scripted reads.
type fakeConn struct {
	mu     sync.Mutex
	sent   []sentFrame
	reads  []recvFrame
	closed int
}

type sentFrame struct {
	kind int
	data []byte
}

type recvFrame struct {
	kind int
	data []byte
	err  error
}

func (c *fakeConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentFrame{kind: messageType, data: append([]byte(nil), data...)})
	return nil
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.reads) == 0 {
		return 0, nil, io.EOF
	}
	next := c.reads[0]
	c.reads = c.reads[1:]
	return next.kind, next.data, next.err
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *fakeConn) SentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func (c *fakeConn) Sent(i int) sentFrame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[i]
}

func (c *fakeConn) CloseCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
