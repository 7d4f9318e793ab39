// Package power issues the OS shutdown command.
package power

import (
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// CommandShutdowner powers off the machine by running an external command.
type CommandShutdowner struct {
	name        string
	args        []string
	cmdExecutor func(name string, args ...string) ([]byte, error)
}

// NewCommandShutdowner creates a shutdowner that runs name with args.
func NewCommandShutdowner(name string, args ...string) *CommandShutdowner {
	return &CommandShutdowner{
		name:        name,
		args:        args,
		cmdExecutor: defaultCmdExecutor,
	}
}

// defaultCmdExecutor executes a command and returns its combined output.
func defaultCmdExecutor(name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	return cmd.CombinedOutput()
}

// Shutdown runs the command once. There is no confirmation and no retry.
func (s *CommandShutdowner) Shutdown() error {
	output, err := s.cmdExecutor(s.name, s.args...)
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return errors.Wrapf(err, "%s: %s", s.name, msg)
		}
		return errors.Wrap(err, s.name)
	}
	return nil
}

// DryRun logs instead of shutting down.
type DryRun struct {
	log logrus.FieldLogger
}

// NewDryRun creates a logging shutdowner.
func NewDryRun(log logrus.FieldLogger) *DryRun {
	return &DryRun{log: log}
}

// Shutdown logs the shutdown that would have happened.
func (d *DryRun) Shutdown() error {
	d.log.Warn("Dry run: shutdown skipped")
	return nil
}

// unsupported is the shutdowner on platforms without a known command.
type unsupported struct{}

func (unsupported) Shutdown() error {
	return interfaces.ErrUnsupported
}

var (
	_ interfaces.Shutdowner = (*CommandShutdowner)(nil)
	_ interfaces.Shutdowner = (*DryRun)(nil)
	_ interfaces.Shutdowner = unsupported{}
)
