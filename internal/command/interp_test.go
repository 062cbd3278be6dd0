package command

import (
	"strings"
	"testing"

	"github.com/hn/chat-relay/internal/chat"
)

type fakeInfo struct{}

func (fakeInfo) Version() string  { return "1.0.0" }
func (fakeInfo) Uptime() string   { return "00:00:42" }
func (fakeInfo) OnlineCount() int { return 3 }

func drain(c *chat.Client) []string {
	var out []string
	for {
		select {
		case s := <-c.Outgoing():
			out = append(out, s)
		default:
			return out
		}
	}
}

func setup(t *testing.T, names ...string) (*Interpreter, []*chat.Client) {
	t.Helper()
	hub := chat.NewHub()
	it := &Interpreter{Hub: hub, Info: fakeInfo{}}
	clients := make([]*chat.Client, 0, len(names))
	for i, name := range names {
		c := chat.NewClient(string(rune('a'+i))+"bcd0000", 64)
		if final, renamed := hub.Join(c, name); renamed {
			t.Fatalf("unexpected rename %q -> %q", name, final)
		}
		clients = append(clients, c)
	}
	return it, clients
}

func TestExecuteHelp(t *testing.T) {
	it, cs := setup(t, "alice")
	it.Execute(cs[0], "/help")
	lines := drain(cs[0])
	if len(lines) != len(helpLines) {
		t.Fatalf("expected %d help lines, got %d", len(helpLines), len(lines))
	}
	if lines[0] != "[System] Available commands:" {
		t.Fatalf("unexpected first help line %q", lines[0])
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "[System] ") {
			t.Fatalf("help replies must be system-tagged, got %q", l)
		}
	}
}

func TestExecuteUsersOmitsOwnStatus(t *testing.T) {
	it, cs := setup(t, "alice", "bob", "carol")
	a, b, c := cs[0], cs[1], cs[2]
	b.SetStatus(chat.StatusBusy)

	it.Execute(a, "/users")
	lines := drain(a)
	want := []string{
		"[System] Online users (3):",
		"[System] - alice",
		"[System] - bob (BUSY)",
		"[System] - carol (ONLINE)",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %#v, want %d", len(lines), lines, len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	// 请求者以外的会话不收到任何输出
	if got := drain(b); len(got) != 0 {
		t.Fatalf("/users must be sender-only, bob got %#v", got)
	}
	if got := drain(c); len(got) != 0 {
		t.Fatalf("/users must be sender-only, carol got %#v", got)
	}
}

func TestExecuteUserList(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	it.Execute(cs[0], "/userlist")
	lines := drain(cs[0])
	if len(lines) != 1 || lines[0] != "USERLIST:alice,bob" {
		t.Fatalf("unexpected userlist reply %#v", lines)
	}
}

func TestExecuteMsg(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	it.Execute(a, "/msg bob hello there")
	if got := drain(b); len(got) != 1 || got[0] != "[PM from alice] hello there" {
		t.Fatalf("unexpected recipient lines %#v", got)
	}
	if got := drain(a); len(got) != 1 || got[0] != "[PM to bob] hello there" {
		t.Fatalf("unexpected sender confirmation %#v", got)
	}
}

func TestExecuteMsgUsage(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	for _, line := range []string{"/msg", "/msg bob"} {
		it.Execute(a, line)
		got := drain(a)
		if len(got) != 1 || got[0] != "[System] Usage: /msg <username> <message>" {
			t.Fatalf("%q: unexpected reply %#v", line, got)
		}
		if leaked := drain(b); len(leaked) != 0 {
			t.Fatalf("%q: nothing should reach bob, got %#v", line, leaked)
		}
	}
}

func TestExecuteMsgNotFound(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	it.Execute(a, "/msg zed hello")
	got := drain(a)
	if len(got) != 1 || got[0] != "[System] User 'zed' not found or offline." {
		t.Fatalf("unexpected reply %#v", got)
	}
	if leaked := drain(b); len(leaked) != 0 {
		t.Fatalf("nothing should be delivered on a miss, got %#v", leaked)
	}
}

func TestExecuteAwayAndBack(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	it.Execute(a, "/away grabbing lunch")
	if a.Status() != chat.StatusAway {
		t.Fatalf("status should be AWAY, got %v", a.Status())
	}
	got := drain(a)
	if len(got) != 2 ||
		got[0] != "[System] You are now AWAY: grabbing lunch" ||
		got[1] != "[System] alice is now away" {
		t.Fatalf("unexpected away replies %#v", got)
	}
	if got := drain(b); len(got) != 1 || got[0] != "[System] alice is now away" {
		t.Fatalf("away notice should be broadcast, bob got %#v", got)
	}

	it.Execute(a, "/back")
	if a.Status() != chat.StatusOnline {
		t.Fatalf("status should be ONLINE after /back, got %v", a.Status())
	}
	got = drain(a)
	if len(got) != 2 ||
		got[0] != "[System] Welcome back!" ||
		got[1] != "[System] alice is back online" {
		t.Fatalf("unexpected back replies %#v", got)
	}
}

func TestExecuteStatus(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	it.Execute(a, "/status busy")
	if a.Status() != chat.StatusBusy {
		t.Fatalf("status should be BUSY, got %v", a.Status())
	}
	got := drain(a)
	if len(got) != 2 ||
		got[0] != "[System] Status changed to: BUSY" ||
		got[1] != "[System] alice is now BUSY" {
		t.Fatalf("unexpected status replies %#v", got)
	}
	if got := drain(b); len(got) != 1 || got[0] != "[System] alice is now BUSY" {
		t.Fatalf("status change should be broadcast, bob got %#v", got)
	}

	// 随后 /users 反映新状态
	it.Execute(b, "/users")
	lines := drain(b)
	if len(lines) != 3 || lines[1] != "[System] - alice (BUSY)" {
		t.Fatalf("expected alice shown BUSY, got %#v", lines)
	}
}

func TestExecuteStatusInvalid(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	it.Execute(a, "/status sleepy")
	got := drain(a)
	if len(got) != 1 || got[0] != "[System] Invalid status. Use: online, away, busy" {
		t.Fatalf("unexpected reply %#v", got)
	}
	if a.Status() != chat.StatusOnline {
		t.Fatalf("status must not change on invalid token")
	}
	if leaked := drain(b); len(leaked) != 0 {
		t.Fatalf("invalid status must not broadcast, got %#v", leaked)
	}
}

func TestExecuteClear(t *testing.T) {
	it, cs := setup(t, "alice", "bob")
	a, b := cs[0], cs[1]

	it.Execute(a, "/clear")
	got := drain(a)
	if len(got) != 1 || got[0] != "CLEAR_CHAT" {
		t.Fatalf("expected bare CLEAR_CHAT sentinel, got %#v", got)
	}
	if leaked := drain(b); len(leaked) != 0 {
		t.Fatalf("/clear must not affect other sessions, got %#v", leaked)
	}
}

func TestExecuteInfo(t *testing.T) {
	it, cs := setup(t, "alice")
	it.Execute(cs[0], "/info")
	got := drain(cs[0])
	want := []string{
		"[System] Server Information:",
		"[System] Version: 1.0.0",
		"[System] Uptime: 00:00:42",
		"[System] Active connections: 3",
	}
	if len(got) != len(want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExecuteUnknown(t *testing.T) {
	it, cs := setup(t, "alice")
	it.Execute(cs[0], "/dance")
	got := drain(cs[0])
	if len(got) != 1 || got[0] != "[System] Unknown command. Type /help for available commands." {
		t.Fatalf("unexpected reply %#v", got)
	}
}
