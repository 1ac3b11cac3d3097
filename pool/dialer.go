package pool

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
)

// connCounter tracks the live connections dialed for one pool.
type connCounter struct {
	open   atomic.Int64
	dialed atomic.Int64
}

func (c *connCounter) dialContext(d *net.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, err
		}
		c.open.Add(1)
		c.dialed.Add(1)
		return &countedConn{Conn: conn, counter: c}, nil
	}
}

// countedConn decrements its counter exactly once when closed.
type countedConn struct {
	net.Conn
	counter *connCounter
	once    sync.Once
}

func (c *countedConn) Close() error {
	err := c.Conn.Close()
	c.once.Do(func() { c.counter.open.Add(-1) })
	return err
}
