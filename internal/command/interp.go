package command

import (
	"fmt"
	"strings"

	"github.com/hn/chat-relay/internal/chat"
	"github.com/hn/chat-relay/internal/observe"
)

// ServerInfo /info 需要的服务端信息
type ServerInfo interface {
	Version() string
	Uptime() string
	OnlineCount() int
}

// Interpreter 把一行命令派发到 Hub / 会话操作。
// 所有仅回发送者的应答都带系统标记前缀。
type Interpreter struct {
	Hub  *chat.Hub
	Info ServerInfo
}

// helpLines /help 的固定输出
var helpLines = []string{
	"Available commands:",
	"/users - Show online users",
	"/msg <user> <message> - Send private message",
	"/away <message> - Set away status",
	"/back - Return from away status",
	"/status <online|away|busy> - Change status",
	"/clear - Clear your chat",
	"/info - Show server info",
}

// Execute 解析并执行一行以 "/" 开头的输入
func (it *Interpreter) Execute(c *chat.Client, line string) {
	cmd := Parse(line)
	observe.IncCommand(cmd.Kind.String())

	switch cmd.Kind {
	case KindHelp:
		for _, l := range helpLines {
			c.SendSystem(l)
		}

	case KindUsers:
		members := it.Hub.Members()
		c.SendSystem(fmt.Sprintf("Online users (%d):", len(members)))
		for _, m := range members {
			info := "- " + m.Name
			if m != c {
				info += " (" + m.Status().String() + ")"
			}
			c.SendSystem(info)
		}

	case KindUserList:
		// 机器可读形式，供展示层的刷新请求消费
		c.Send("USERLIST:" + strings.Join(it.Hub.Names(), ","))

	case KindMsg:
		it.privateMessage(c, cmd.Arg)

	case KindAway:
		c.SetStatus(chat.StatusAway)
		note := "You are now AWAY"
		if cmd.Arg != "" {
			note += ": " + cmd.Arg
		}
		c.SendSystem(note)
		it.Hub.Broadcast("[System] "+c.Name+" is now away", c, true)

	case KindBack:
		c.SetStatus(chat.StatusOnline)
		c.SendSystem("Welcome back!")
		it.Hub.Broadcast("[System] "+c.Name+" is back online", c, true)

	case KindStatus:
		st, ok := chat.ParseStatus(cmd.Arg)
		if !ok {
			observe.IncCommandError("usage")
			c.SendSystem("Invalid status. Use: online, away, busy")
			return
		}
		c.SetStatus(st)
		c.SendSystem("Status changed to: " + st.String())
		it.Hub.Broadcast("[System] "+c.Name+" is now "+st.String(), c, true)

	case KindClear:
		// 哨兵行：只清对端自己的视图，对其他会话无影响
		c.Send("CLEAR_CHAT")

	case KindInfo:
		c.SendSystem("Server Information:")
		c.SendSystem("Version: " + it.Info.Version())
		c.SendSystem("Uptime: " + it.Info.Uptime())
		c.SendSystem(fmt.Sprintf("Active connections: %d", it.Info.OnlineCount()))

	default:
		observe.IncCommandError("unknown")
		c.SendSystem("Unknown command. Type /help for available commands.")
	}
}

func (it *Interpreter) privateMessage(c *chat.Client, arg string) {
	parts := strings.SplitN(arg, " ", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		observe.IncCommandError("usage")
		c.SendSystem("Usage: /msg <username> <message>")
		return
	}
	target, text := parts[0], parts[1]
	if !it.Hub.SendPrivate(c, target, text) {
		observe.IncCommandError("target")
		c.SendSystem("User '" + target + "' not found or offline.")
	}
}
