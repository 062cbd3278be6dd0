// 最小命令行客户端，用于手工联调：
//
//	go run ./cmd/client alice
//
// 首行发送用户名，其后 stdin 的每一行原样发给服务端。
package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
)

func main() {
	addr := os.Getenv("RELAY_SERVER_ADDR")
	if addr == "" {
		addr = "127.0.0.1:5000"
	}
	name := ""
	if len(os.Args) > 1 {
		name = os.Args[1]
	}

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect:", err)
		os.Exit(1)
	}
	defer conn.Close()

	// 用户名可为空，服务端会生成匿名名
	fmt.Fprintln(conn, name)

	go func() {
		r := bufio.NewScanner(conn)
		for r.Scan() {
			line := r.Text()
			if line == "CLEAR_CHAT" {
				fmt.Print("\033[2J\033[H")
				continue
			}
			fmt.Println(line)
		}
		fmt.Println("disconnected")
		os.Exit(0)
	}()

	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		if _, err := fmt.Fprintln(conn, in.Text()); err != nil {
			return
		}
	}
}
