package switchover

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

type (
	// Plan is the outcome of a dry run: the discovered parameters and every
	// statement or command a real run would issue after discovery.
	Plan struct {
		// Primary describes the local server the plan was built against
		Primary string

		// Parameters are the values discovered from the primary
		Parameters Parameters

		// Actions are the mutating steps, in execution order
		Actions []Action
	}

	// Action is a single mutating step.
	Action struct {
		Step Step

		// Target is where the action runs: a server or "shell"
		Target string

		// Statement is the SQL statement or rendered shell command
		Statement string

		// Shell is true when Statement is a local command
		Shell bool
	}
)

const shellTarget = "shell"

// Plan performs the read-only discovery steps against the primary and returns
// what Run would do afterwards. Nothing is modified on either server. An
// orchestrator that has planned cannot run; create a new one.
func (o *Orchestrator) Plan(ctx context.Context) (*Plan, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	defer o.closePrimary(ctx)

	for _, s := range o.sequence() {
		if s.step.Mutating() {
			break
		}

		if err := o.runStep(ctx, s); err != nil {
			return nil, err
		}
	}

	reconfigure, err := o.reconfigureStatement()
	if err != nil {
		return nil, err
	}

	primary := o.primary.Target()
	plan := &Plan{
		Primary:    primary,
		Parameters: o.params,
		Actions: []Action{
			{Step: StepFlushWAL, Target: primary, Statement: SwitchWALSQL},
			{Step: StepCheckpoint, Target: primary, Statement: CheckpointSQL},
			{Step: StepReconfigurePrimary, Target: primary, Statement: reconfigure},
		},
	}

	for _, c := range []struct {
		step Step
		tmpl string
		arg  string
	}{
		{StepStopPrimary, o.commands.Stop, o.params.DataDirectory},
		{StepMarkAsStandby, o.commands.Mark, o.params.SignalPath(o.signal)},
		{StepRestartAsStandby, o.commands.Start, o.params.DataDirectory},
	} {
		line, err := o.command(c.step, c.tmpl, c.arg)
		if err != nil {
			return nil, err
		}

		plan.Actions = append(plan.Actions, Action{Step: c.step, Target: shellTarget, Statement: line, Shell: true})
	}

	plan.Actions = append(plan.Actions, Action{
		Step:      StepPromoteRemote,
		Target:    o.params.RemoteTarget(),
		Statement: PromoteSQL,
	})

	return plan, nil
}

// Write renders the plan as an annotated script. SQL statements end with a
// semicolon and shell commands are prefixed with "$ ".
func (p *Plan) Write(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "-- switchover plan for %s\n", p.Primary)
	fmt.Fprintf(&b, "-- data directory: %s\n", p.Parameters.DataDirectory)
	fmt.Fprintf(&b, "-- standby: %s@%s\n", p.Parameters.StandbyUser, p.Parameters.StandbyAddress)
	fmt.Fprintf(&b, "-- new primary: %s\n", p.Parameters.RemoteTarget())

	for _, a := range p.Actions {
		fmt.Fprintf(&b, "\n-- step %d: %s (%s)\n", int(a.Step), a.Step, a.Target)

		if a.Shell {
			b.WriteString("$ " + a.Statement + "\n")
			continue
		}

		b.WriteString(strings.TrimSuffix(a.Statement, ";") + ";\n")
	}

	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "failed to write plan")
}
