package command

import "strings"

// Kind 命令种类。解析产出封闭枚举，派发用穷举 switch，
// 不做开放式字符串分支。
type Kind int

const (
	KindUnknown Kind = iota
	KindHelp
	KindUsers
	KindUserList
	KindMsg
	KindAway
	KindBack
	KindStatus
	KindClear
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindHelp:
		return "help"
	case KindUsers:
		return "users"
	case KindUserList:
		return "userlist"
	case KindMsg:
		return "msg"
	case KindAway:
		return "away"
	case KindBack:
		return "back"
	case KindStatus:
		return "status"
	case KindClear:
		return "clear"
	case KindInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Command 解析结果：命令种类 + 原始命令词 + 单个不透明参数串
type Command struct {
	Kind Kind
	Name string
	Arg  string
}

// Parse 解析以 "/" 开头的一行：首个空白分隔词（大小写不敏感）是
// 命令名，剩余部分整体作为参数。
func Parse(line string) Command {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	name := strings.ToLower(parts[0])
	arg := ""
	if len(parts) > 1 {
		arg = parts[1]
	}
	cmd := Command{Name: name, Arg: arg}
	switch name {
	case "/help":
		cmd.Kind = KindHelp
	case "/users":
		cmd.Kind = KindUsers
	case "/userlist":
		cmd.Kind = KindUserList
	case "/msg":
		cmd.Kind = KindMsg
	case "/away":
		cmd.Kind = KindAway
	case "/back":
		cmd.Kind = KindBack
	case "/status":
		cmd.Kind = KindStatus
	case "/clear":
		cmd.Kind = KindClear
	case "/info":
		cmd.Kind = KindInfo
	default:
		cmd.Kind = KindUnknown
	}
	return cmd
}
