package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cbexec "github.com/hollowoak/cback/pkg/exec"
	"github.com/hollowoak/cback/pkg/scheduler"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordedItem struct {
	planID string
	name   string
	peer   string
	status string
}

type fakeRecorder struct {
	items []recordedItem
}

func (r *fakeRecorder) RecordItem(planID string, item scheduler.ActionItem, status, detail string) error {
	rec := recordedItem{planID: planID, name: item.Name, status: status}
	if item.RemotePeer != nil {
		rec.peer = item.RemotePeer.Name
	}
	r.items = append(r.items, rec)
	return nil
}

func newTestDispatcher(mock *cbexec.MockCommandExecutor) (*Dispatcher, *fakeRecorder) {
	recorder := &fakeRecorder{}
	return &Dispatcher{
		Registry: NewRegistry(),
		Executor: mock,
		Logger:   quietLogger(),
		Recorder: recorder,
	}, recorder
}

func TestDispatcherRunsHooksAroundHandler(t *testing.T) {
	mock := &cbexec.MockCommandExecutor{}
	d, recorder := newTestDispatcher(mock)

	var order []string
	d.Registry.Register("collect", func(action string) error {
		order = append(order, "handler:"+action)
		return nil
	})
	mock.RunFunc = func(name string, arg ...string) (string, error) {
		order = append(order, "command:"+name)
		return "", nil
	}

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{{
			Name:      "collect",
			Handler:   "collect",
			PreHooks:  []scheduler.HookSpec{{Action: "collect", Phase: scheduler.HookPre, Command: "mount /mnt/backup"}},
			PostHooks: []scheduler.HookSpec{{Action: "collect", Phase: scheduler.HookPost, Command: "umount /mnt/backup"}},
		}},
	}

	require.NoError(t, d.Run(context.Background(), plan))
	assert.Equal(t, []string{"command:mount", "handler:collect", "command:umount"}, order)
	require.Len(t, recorder.items, 1)
	assert.Equal(t, recordedItem{planID: "plan-1", name: "collect", status: StatusCompleted}, recorder.items[0])
}

func TestDispatcherPreHookFailureAbortsRun(t *testing.T) {
	mock := &cbexec.MockCommandExecutor{
		RunFunc: func(name string, arg ...string) (string, error) {
			return "disk full", errors.New("exit status 1")
		},
	}
	d, recorder := newTestDispatcher(mock)

	handlerRan := false
	d.Registry.Register("collect", func(string) error {
		handlerRan = true
		return nil
	})

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{
			{
				Name:     "collect",
				Handler:  "collect",
				PreHooks: []scheduler.HookSpec{{Action: "collect", Phase: scheduler.HookPre, Command: "mount /mnt/backup"}},
			},
			{Name: "stage", Handler: "stage"},
		},
	}

	err := d.Run(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-action hook")
	assert.Contains(t, err.Error(), "disk full")
	assert.False(t, handlerRan, "Handler must not run after a failed pre-hook")
	require.Len(t, recorder.items, 1)
	assert.Equal(t, StatusFailed, recorder.items[0].status)
}

func TestDispatcherMissingHandler(t *testing.T) {
	d, _ := newTestDispatcher(&cbexec.MockCommandExecutor{})

	plan := &scheduler.Plan{
		ID:    "plan-1",
		Items: []scheduler.ActionItem{{Name: "collect", Handler: "collect"}},
	}

	err := d.Run(context.Background(), plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestDispatcherRemoteCommandShape(t *testing.T) {
	mock := &cbexec.MockCommandExecutor{}
	d, _ := newTestDispatcher(mock)

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{{
			Name:    "collect",
			Handler: "collect",
			RemotePeer: &scheduler.ResolvedPeer{
				Name:         "machine2",
				LocalUser:    "backup",
				RemoteUser:   "backup",
				RshCommand:   "/usr/bin/ssh -o BatchMode=yes",
				CbackCommand: "/usr/bin/cback",
			},
		}},
	}

	require.NoError(t, d.Run(context.Background(), plan))
	require.Len(t, mock.Commands, 1)
	assert.Equal(t, "/usr/bin/ssh -o BatchMode=yes backup@machine2 /usr/bin/cback --mode collect", mock.Commands[0])
}

func TestDispatcherRemoteQuotedTransport(t *testing.T) {
	// Quoted arguments in rsh_command must survive as single words.
	var gotName string
	var gotArgs []string
	mock := &cbexec.MockCommandExecutor{
		RunFunc: func(name string, arg ...string) (string, error) {
			gotName = name
			gotArgs = arg
			return "", nil
		},
	}
	d, _ := newTestDispatcher(mock)

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{{
			Name:    "collect",
			Handler: "collect",
			RemotePeer: &scheduler.ResolvedPeer{
				Name:         "machine2",
				LocalUser:    "backup",
				RshCommand:   `/usr/bin/ssh -o "StrictHostKeyChecking no"`,
				CbackCommand: "/usr/bin/cback",
			},
		}},
	}

	require.NoError(t, d.Run(context.Background(), plan))
	assert.Equal(t, "/usr/bin/ssh", gotName)
	assert.Equal(t, []string{"-o", "StrictHostKeyChecking no", "backup@machine2", "/usr/bin/cback", "--mode", "collect"}, gotArgs)
}

func TestDispatcherQuotedHookCommand(t *testing.T) {
	var gotArgs []string
	mock := &cbexec.MockCommandExecutor{
		RunFunc: func(name string, arg ...string) (string, error) {
			gotArgs = arg
			return "", nil
		},
	}
	d, _ := newTestDispatcher(mock)
	d.Registry.Register("collect", func(string) error { return nil })

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{{
			Name:     "collect",
			Handler:  "collect",
			PreHooks: []scheduler.HookSpec{{Action: "collect", Phase: scheduler.HookPre, Command: `logger -t cback "collect starting"`}},
		}},
	}

	require.NoError(t, d.Run(context.Background(), plan))
	assert.Equal(t, []string{"-t", "cback", "collect starting"}, gotArgs)
}

func TestDispatcherRemoteFailureContinues(t *testing.T) {
	mock := &cbexec.MockCommandExecutor{
		RunFunc: func(name string, arg ...string) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	d, recorder := newTestDispatcher(mock)
	d.Registry.Register("stage", func(string) error { return nil })

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{
			{
				Name:    "collect",
				Handler: "collect",
				RemotePeer: &scheduler.ResolvedPeer{
					Name:         "machine2",
					RshCommand:   "/usr/bin/ssh",
					CbackCommand: "/usr/bin/cback",
				},
			},
			{Name: "stage", Handler: "stage"},
		},
	}

	// A bad peer is logged and journaled, but the run carries on.
	require.NoError(t, d.Run(context.Background(), plan))
	require.Len(t, recorder.items, 2)
	assert.Equal(t, StatusFailed, recorder.items[0].status)
	assert.Equal(t, "machine2", recorder.items[0].peer)
	assert.Equal(t, StatusCompleted, recorder.items[1].status)
}

func TestDispatcherRemoteUnsetTransport(t *testing.T) {
	mock := &cbexec.MockCommandExecutor{}
	d, recorder := newTestDispatcher(mock)

	plan := &scheduler.Plan{
		ID: "plan-1",
		Items: []scheduler.ActionItem{{
			Name:       "collect",
			Handler:    "collect",
			RemotePeer: &scheduler.ResolvedPeer{Name: "machine2"},
		}},
	}

	require.NoError(t, d.Run(context.Background(), plan))
	assert.Empty(t, mock.Commands, "Nothing must be executed without a transport")
	require.Len(t, recorder.items, 1)
	assert.Equal(t, StatusFailed, recorder.items[0].status)
}

func TestDispatcherContextCancellation(t *testing.T) {
	d, _ := newTestDispatcher(&cbexec.MockCommandExecutor{})
	d.Registry.Register("collect", func(string) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := &scheduler.Plan{
		ID:    "plan-1",
		Items: []scheduler.ActionItem{{Name: "collect", Handler: "collect"}},
	}
	err := d.Run(ctx, plan)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRegistryShellHandler(t *testing.T) {
	mock := &cbexec.MockCommandExecutor{}
	registry := NewRegistry()
	registry.RegisterShellHandler("sweep", "/usr/local/bin/sweep --quiet", mock)

	fn, ok := registry.Resolve("sweep")
	require.True(t, ok)
	require.NoError(t, fn("sweep"))
	require.Len(t, mock.Commands, 1)
	assert.Equal(t, "/usr/local/bin/sweep --quiet", mock.Commands[0])
}

func TestRegistryShellHandlerQuotedArguments(t *testing.T) {
	var gotArgs []string
	mock := &cbexec.MockCommandExecutor{
		RunFunc: func(name string, arg ...string) (string, error) {
			gotArgs = arg
			return "", nil
		},
	}
	registry := NewRegistry()
	registry.RegisterShellHandler("sweep", `/usr/local/bin/sweep --label "deep clean"`, mock)

	fn, ok := registry.Resolve("sweep")
	require.True(t, ok)
	require.NoError(t, fn("sweep"))
	assert.Equal(t, []string{"--label", "deep clean"}, gotArgs)
}

func TestRegistryBuiltinStubs(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterBuiltinStubs(quietLogger())

	fn, ok := registry.Resolve(scheduler.ActionCollect)
	require.True(t, ok)
	err := fn(scheduler.ActionCollect)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no subsystem linked")

	// Real subsystems replace stubs by re-registering.
	registry.Register(scheduler.ActionCollect, func(string) error { return nil })
	fn, _ = registry.Resolve(scheduler.ActionCollect)
	assert.NoError(t, fn(scheduler.ActionCollect))
}

func TestRegistryHandlers(t *testing.T) {
	registry := NewRegistry()
	registry.Register("b", func(string) error { return nil })
	registry.Register("a", func(string) error { return nil })
	assert.Equal(t, []string{"a", "b"}, registry.Handlers())
}

func ExampleRegistry_Register() {
	registry := NewRegistry()
	registry.Register("collect", func(action string) error {
		fmt.Println("running", action)
		return nil
	})
	fn, _ := registry.Resolve("collect")
	_ = fn("collect")
	// Output: running collect
}
