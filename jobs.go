package main

import (
	"bufio"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/creack/pty"

	"github.com/usersadmin/console/internal/usertable"
)

type jobMsg interface {
	isJob()
}

type jobStartedMsg struct{ Title string }

type jobLogMsg struct {
	Title string
	Line  string
}

type jobFinishedMsg struct {
	Title string
	Err   error
}

type jobChannelClosedMsg struct{}

func (jobStartedMsg) isJob()       {}
func (jobLogMsg) isJob()           {}
func (jobFinishedMsg) isJob()      {}
func (jobChannelClosedMsg) isJob() {}

// jobRequest is a hook command run after a user action.
type jobRequest struct {
	title    string
	command  string
	env      []string
	onFinish func(error)
}

// hookJob builds the request for the hook configured for action, or
// reports false when none is set. The target user is exposed to the
// command through USER_* variables.
func hookJob(hooks hookConfig, action string, u usertable.User) (jobRequest, bool) {
	command := hooks.command(action)
	if command == "" {
		return jobRequest{}, false
	}
	return jobRequest{
		title:   action + " hook",
		command: command,
		env: []string{
			"USER_ACTION=" + action,
			"USER_ID=" + u.ID,
			"USER_NAME=" + u.Name,
			"USER_EMAIL=" + u.Email,
			"USER_ROLES=" + strings.Join(usertable.RoleNames(u), ","),
			"USER_STATUS=" + usertable.StatusLabel(u.Archived),
		},
	}, true
}

// jobManager runs hook commands one at a time, in the order queued.
type jobManager struct {
	queue   []jobRequest
	current *jobRequest
	running bool
}

func newJobManager() *jobManager {
	return &jobManager{}
}

func (jm *jobManager) Pending() int {
	n := len(jm.queue)
	if jm.running {
		n++
	}
	return n
}

func (jm *jobManager) Enqueue(req jobRequest) tea.Cmd {
	jm.queue = append(jm.queue, req)
	return jm.nextCmd()
}

// Handle advances the queue and returns the command that keeps reading
// the running job's output.
func (jm *jobManager) Handle(msg jobMsg, ch <-chan jobMsg) tea.Cmd {
	switch msg := msg.(type) {
	case jobStartedMsg, jobLogMsg:
		return waitForJobMsg(ch)
	case jobFinishedMsg:
		if jm.current != nil && jm.current.onFinish != nil {
			jm.current.onFinish(msg.Err)
		}
		return waitForJobMsg(ch)
	case jobChannelClosedMsg:
		jm.running = false
		jm.current = nil
		return jm.nextCmd()
	}
	return nil
}

func (jm *jobManager) nextCmd() tea.Cmd {
	if jm.running || len(jm.queue) == 0 {
		return nil
	}
	req := jm.queue[0]
	jm.queue = jm.queue[1:]
	jm.current = &req
	jm.running = true

	ch := make(chan jobMsg)
	go runJob(req, ch)
	return waitForJobMsg(ch)
}

func runJob(req jobRequest, ch chan<- jobMsg) {
	defer close(ch)

	ch <- jobStartedMsg{Title: req.title}

	cmd := exec.Command("sh", "-c", req.command)
	cmd.Env = append(append([]string{}, os.Environ()...), req.env...)

	ptmx, err := pty.Start(cmd)
	if err != nil {
		ch <- jobLogMsg{Title: req.title, Line: err.Error()}
		ch <- jobFinishedMsg{Title: req.title, Err: err}
		return
	}
	defer ptmx.Close()

	scanner := bufio.NewScanner(ptmx)
	for scanner.Scan() {
		ch <- jobLogMsg{Title: req.title, Line: scanner.Text()}
	}
	ch <- jobFinishedMsg{Title: req.title, Err: cmd.Wait()}
}

// jobEnvelope carries a job message together with the channel it came from
// so the model can keep listening.
type jobEnvelope struct {
	msg jobMsg
	ch  <-chan jobMsg
}

func waitForJobMsg(ch <-chan jobMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return jobEnvelope{msg: jobChannelClosedMsg{}, ch: ch}
		}
		return jobEnvelope{msg: msg, ch: ch}
	}
}
