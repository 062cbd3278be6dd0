package transport

import (
	"bufio"
	"fmt"
	"net"
	"strings"
)

// LineConn 面向行的连接抽象：一次读写一条以换行结尾的 UTF-8 文本。
// TCP 与 WebSocket 两种接入都实现它，会话引擎只依赖这一层。
type LineConn interface {
	ReadLine() (string, error)
	WriteLine(s string) error
	Close() error
	RemoteAddr() string
}

type TCPConn struct {
	conn net.Conn
	r    *bufio.Reader
}

func NewTCPConn(c net.Conn) *TCPConn {
	return &TCPConn{conn: c, r: bufio.NewReader(c)}
}

func (t *TCPConn) ReadLine() (string, error) {
	line, err := t.r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (t *TCPConn) WriteLine(s string) error {
	_, err := fmt.Fprintln(t.conn, s)
	return err
}

func (t *TCPConn) Close() error { return t.conn.Close() }

func (t *TCPConn) RemoteAddr() string {
	if t.conn == nil {
		return ""
	}
	return t.conn.RemoteAddr().String()
}
