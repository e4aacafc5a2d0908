package dispatch

import (
	"context"
	"fmt"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"

	cbexec "github.com/hollowoak/cback/pkg/exec"
	"github.com/hollowoak/cback/pkg/scheduler"
)

// splitCommand tokenizes a configured command line with shell quoting
// rules, so arguments like -o "StrictHostKeyChecking no" survive as one
// word.
func splitCommand(command string) ([]string, error) {
	fields, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command [%s]: %w", command, err)
	}
	return fields, nil
}

// Recorder receives the outcome of every dispatched item. The sqlite run
// journal implements it; a nil recorder disables journaling.
type Recorder interface {
	RecordItem(planID string, item scheduler.ActionItem, status, detail string) error
}

// Item dispatch outcomes as recorded in the journal.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Dispatcher consumes a plan strictly sequentially: items are executed one
// at a time, in list order, because successive stages share destination
// resources that must not be mutated concurrently.
//
// For a local item the dispatcher runs pre-hooks, invokes the registered
// handler, then runs post-hooks; any failure aborts the run. For a
// peer-bearing item it shells out to the resolved rsh transport; a failed
// peer is logged and the run continues, since one bad host must not kill
// the whole backup.
type Dispatcher struct {
	Registry *Registry
	Executor cbexec.CommandExecutor
	Logger   *logrus.Logger
	Recorder Recorder
}

// Run executes the plan. The context is checked between items; hooks and
// handlers themselves are not interruptible mid-flight.
func (d *Dispatcher) Run(ctx context.Context, plan *scheduler.Plan) error {
	for _, item := range plan.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.runItem(plan.ID, item); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) runItem(planID string, item scheduler.ActionItem) error {
	if item.IsRemote() {
		d.runRemote(planID, item)
		return nil
	}
	if err := d.runLocal(item); err != nil {
		d.record(planID, item, StatusFailed, err.Error())
		return err
	}
	d.record(planID, item, StatusCompleted, "")
	return nil
}

func (d *Dispatcher) runLocal(item scheduler.ActionItem) error {
	log := d.Logger.WithFields(logrus.Fields{
		"action": item.Name,
		"index":  item.Index,
	})
	log.Info("Executing action")

	for _, hook := range item.PreHooks {
		if err := d.runHook("pre-action", hook); err != nil {
			return err
		}
	}

	handler, ok := d.Registry.Resolve(item.Handler)
	if !ok {
		return fmt.Errorf("no handler registered for [%s]", item.Handler)
	}
	if err := handler(item.Name); err != nil {
		return fmt.Errorf("action [%s]: %w", item.Name, err)
	}

	for _, hook := range item.PostHooks {
		if err := d.runHook("post-action", hook); err != nil {
			return err
		}
	}
	return nil
}

// runRemote executes a managed action on a peer through the rsh transport.
// Errors are logged rather than returned; the administrator sees them in
// the log and the journal while the rest of the backup proceeds.
func (d *Dispatcher) runRemote(planID string, item scheduler.ActionItem) {
	peer := item.RemotePeer
	log := d.Logger.WithFields(logrus.Fields{
		"action": item.Name,
		"peer":   peer.Name,
	})
	log.Info("Executing managed action on peer")

	name, args, err := remoteCommand(item)
	if err != nil {
		log.WithError(err).Error("Managed action could not be constructed")
		d.record(planID, item, StatusFailed, err.Error())
		return
	}
	if err := d.Executor.Run(name, args...); err != nil {
		log.WithError(err).Error("Managed action failed on peer")
		d.record(planID, item, StatusFailed, err.Error())
		return
	}
	d.record(planID, item, StatusCompleted, "")
}

// remoteCommand builds the transport invocation for a peer-bearing item:
//
//	<rshCommand> <localUser>@<peer> <cbackCommand> --mode <action>
//
// Every field was resolved by the scheduler's defaulting cascade; unset
// required fields are a configuration problem reported here.
func remoteCommand(item scheduler.ActionItem) (string, []string, error) {
	peer := item.RemotePeer
	if peer.RshCommand == "" {
		return "", nil, fmt.Errorf("peer [%s] has no rsh command configured", peer.Name)
	}
	if peer.CbackCommand == "" {
		return "", nil, fmt.Errorf("peer [%s] has no cback command configured", peer.Name)
	}

	rsh, err := splitCommand(peer.RshCommand)
	if err != nil {
		return "", nil, err
	}
	cback, err := splitCommand(peer.CbackCommand)
	if err != nil {
		return "", nil, err
	}
	if len(rsh) == 0 || len(cback) == 0 {
		return "", nil, fmt.Errorf("peer [%s] has a blank transport command", peer.Name)
	}

	target := peer.Name
	if peer.LocalUser != "" {
		target = peer.LocalUser + "@" + peer.Name
	}

	args := append(rsh[1:], target)
	args = append(args, cback...)
	args = append(args, "--mode", item.Name)
	return rsh[0], args, nil
}

func (d *Dispatcher) runHook(kind string, hook scheduler.HookSpec) error {
	fields, err := splitCommand(hook.Command)
	if err != nil {
		return fmt.Errorf("%s hook for action %s: %w", kind, hook.Action, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%s hook for action %s has an empty command", kind, hook.Action)
	}
	d.Logger.WithFields(logrus.Fields{
		"action":  hook.Action,
		"command": hook.Command,
	}).Debugf("Executing %s hook", kind)

	output, err := d.Executor.RunOutput(fields[0], fields[1:]...)
	if err != nil {
		tail := strings.TrimSpace(output)
		if tail == "" {
			tail = "<empty>"
		}
		return fmt.Errorf("%s hook for action %s failed, tail is: %s: %w", kind, hook.Action, tail, err)
	}
	return nil
}

func (d *Dispatcher) record(planID string, item scheduler.ActionItem, status, detail string) {
	if d.Recorder == nil {
		return
	}
	if err := d.Recorder.RecordItem(planID, item, status, detail); err != nil {
		d.Logger.WithError(err).Warn("Failed to record item in run journal")
	}
}
