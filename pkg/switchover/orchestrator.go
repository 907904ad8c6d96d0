package switchover

import (
	"context"
	"io"
	"log/slog"
	"net/netip"
	"time"

	"github.com/pierreforstmann/pg-kit/pkg/config"
	"github.com/pierreforstmann/pg-kit/pkg/conninfo"
	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pierreforstmann/pg-kit/pkg/runner"
	"github.com/pierreforstmann/pg-kit/pkg/utils"
	"github.com/pkg/errors"
)

type (
	// Orchestrator performs a single switchover: it demotes the local primary
	// to a standby of the connected replica and promotes that replica.
	//
	// The sequence is strictly forward. Every step runs only after the previous
	// one succeeded, and the first failure aborts the run after closing any open
	// session. Nothing is rolled back: a failure after the primary has been
	// reconfigured leaves the cluster partially switched over (see Error.Partial).
	//
	// Example usage:
	//
	//	o := switchover.New(switchover.Config{
	//		Dialer:   postgres.NewDialer(cfg),
	//		Runner:   runner.New(runner.Options{}),
	//		Logger:   slog.Default(),
	//		Port:     "5432",
	//		Settings: cfg,
	//	})
	//
	//	if err := o.Run(ctx); err != nil {
	//		log.Fatal(err)
	//	}
	Orchestrator struct {
		dialer       postgres.Dialer
		runner       runner.Runner
		logger       *slog.Logger
		commands     config.Commands
		signal       string
		backendType  string
		readyTimeout time.Duration

		step    Step
		params  Parameters
		primary postgres.Session
	}

	// Config contains the collaborators and settings of an Orchestrator.
	Config struct {
		// Dialer opens the primary and standby sessions
		Dialer postgres.Dialer

		// Runner executes the stop, mark and start commands
		Runner runner.Runner

		// Logger receives step-by-step progress at Info level. Nil discards it.
		Logger *slog.Logger

		// Port is the port the standby role listens on after the swap. It is
		// written into primary_conninfo and used to reach the standby.
		Port string

		// Settings supplies the command templates, marker name and backend type.
		// Nil selects config.Default().
		Settings *config.Config

		// ReadyTimeout, when positive, makes the orchestrator wait up to this
		// long for the restarted local server to accept connections before
		// promoting the standby. Zero promotes immediately after the start
		// command returns.
		ReadyTimeout time.Duration
	}

	stepFunc struct {
		step Step
		run  func(context.Context) error
	}
)

// New creates an Orchestrator. It does not touch any server.
func New(cfg Config) *Orchestrator {
	settings := cfg.Settings
	if settings == nil {
		settings = config.Default()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Orchestrator{
		dialer:       cfg.Dialer,
		runner:       cfg.Runner,
		logger:       logger,
		commands:     settings.Commands,
		signal:       settings.StandbySignal,
		backendType:  settings.BackendType,
		readyTimeout: cfg.ReadyTimeout,
		params:       Parameters{Port: cfg.Port},
	}
}

// Step returns the current position in the sequence. After a failed run it is
// the step that failed.
func (o *Orchestrator) Step() Step {
	return o.step
}

// Parameters returns the values discovered so far.
func (o *Orchestrator) Parameters() Parameters {
	return o.params
}

// Run executes the whole switchover.
func (o *Orchestrator) Run(ctx context.Context) error {
	if err := o.validate(); err != nil {
		return err
	}
	defer o.closePrimary(ctx)

	for _, s := range o.sequence() {
		if err := o.runStep(ctx, s); err != nil {
			return err
		}
	}

	if err := o.advance(StepDone); err != nil {
		return err
	}

	o.logger.Info("Switchover complete",
		"new_primary", o.params.RemoteTarget(),
		"new_standby_data_directory", o.params.DataDirectory,
	)
	return nil
}

func (o *Orchestrator) sequence() []stepFunc {
	return []stepFunc{
		{StepStart, o.start},
		{StepDiscoverDataDirectory, o.discoverDataDirectory},
		{StepDiscoverStandby, o.discoverStandby},
		{StepFlushWAL, o.flushWAL},
		{StepCheckpoint, o.checkpoint},
		{StepReconfigurePrimary, o.reconfigurePrimary},
		{StepStopPrimary, o.stopPrimary},
		{StepMarkAsStandby, o.markAsStandby},
		{StepRestartAsStandby, o.restartAsStandby},
		{StepPromoteRemote, o.promoteRemote},
	}
}

func (o *Orchestrator) runStep(ctx context.Context, s stepFunc) error {
	if err := o.advance(s.step); err != nil {
		return err
	}

	o.logger.Info("Starting step", "step", int(s.step), "name", s.step.String())
	if err := s.run(ctx); err != nil {
		return err
	}

	o.logger.Info("Completed step", "step", int(s.step), "name", s.step.String())
	return nil
}

// advance moves to next, which must directly follow the current step.
func (o *Orchestrator) advance(next Step) error {
	if next != o.step+1 {
		return errors.Errorf("invalid transition from %s to %s", o.step, next)
	}

	o.step = next
	return nil
}

// validate rejects configurations that would only fail after the primary has
// been modified.
func (o *Orchestrator) validate() error {
	if o.step != StepPending {
		return errors.Errorf("switchover already started (at %s)", o.step)
	}

	if o.dialer == nil || o.runner == nil {
		return errors.Wrap(ErrInvalidConfig, "dialer and runner are required")
	}

	if !utils.IsPort(o.params.Port) {
		return errors.Wrapf(ErrInvalidConfig, "invalid port %q", o.params.Port)
	}

	if err := utils.RequireValue("standby signal file name", o.signal); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	if err := utils.RequireValue("backend type", o.backendType); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}

	for name, tmpl := range map[string]string{
		"stop":  o.commands.Stop,
		"mark":  o.commands.Mark,
		"start": o.commands.Start,
	} {
		if err := utils.RequireValue(name+" command", tmpl); err != nil {
			return errors.Wrap(ErrInvalidConfig, err.Error())
		}

		n, err := utils.CountPlaceholders(tmpl)
		if err != nil {
			return errors.Wrapf(ErrInvalidConfig, "%s command: %v", name, err)
		}
		if n > 1 {
			return errors.Wrapf(ErrInvalidConfig, "%s command takes at most one %%s, got %d", name, n)
		}
	}

	return nil
}

func (o *Orchestrator) start(ctx context.Context) error {
	session, err := o.dialer.OpenLocal(ctx)
	if err != nil {
		return &Error{Kind: KindConnection, Step: StepStart, Detail: "cannot connect to local primary", Err: err}
	}

	o.primary = session
	o.logger.Info("Connected to primary", "target", session.Target())
	return nil
}

func (o *Orchestrator) discoverDataDirectory(ctx context.Context) error {
	dir, err := o.primary.QueryScalar(ctx, DataDirectorySQL, DataDirectoryParam)
	if err != nil {
		return queryFailure(StepDiscoverDataDirectory, DataDirectorySQL, err)
	}

	if err := utils.RequireValue("data directory", dir); err != nil {
		return &Error{Kind: KindNotFound, Step: StepDiscoverDataDirectory, Detail: DataDirectorySQL, Err: err}
	}

	o.params.DataDirectory = dir
	o.logger.Info("Discovered data directory", "data_directory", dir)
	return nil
}

func (o *Orchestrator) discoverStandby(ctx context.Context) error {
	user, addr, err := o.primary.QueryRow2(ctx, StandbySQL, o.backendType)
	if errors.Is(err, postgres.ErrNoRows) {
		return &Error{Kind: KindNotFound, Step: StepDiscoverStandby, Detail: "cannot find standby", Err: err}
	}
	if err != nil {
		return queryFailure(StepDiscoverStandby, StandbySQL, err)
	}

	if err := utils.RequireValue("standby user", user); err != nil {
		return &Error{Kind: KindNotFound, Step: StepDiscoverStandby, Detail: "cannot find standby", Err: err}
	}

	// client_addr is inet; a host address prints without a mask but be lenient.
	ip, err := parseAddress(addr)
	if err != nil {
		return &Error{Kind: KindNotFound, Step: StepDiscoverStandby, Detail: "standby has no usable address", Err: err}
	}

	o.params.StandbyUser = user
	o.params.StandbyAddress = ip
	o.logger.Info("Discovered standby", "user", user, "address", ip)
	return nil
}

func (o *Orchestrator) flushWAL(ctx context.Context) error {
	if err := o.primary.Exec(ctx, SwitchWALSQL); err != nil {
		return queryFailure(StepFlushWAL, SwitchWALSQL, err)
	}

	return nil
}

func (o *Orchestrator) checkpoint(ctx context.Context) error {
	if err := o.primary.Exec(ctx, CheckpointSQL); err != nil {
		return queryFailure(StepCheckpoint, CheckpointSQL, err)
	}

	return nil
}

func (o *Orchestrator) reconfigurePrimary(ctx context.Context) error {
	stmt, err := o.reconfigureStatement()
	if err != nil {
		return err
	}

	o.logger.Info("Setting primary_conninfo", "statement", stmt)
	if err := o.primary.Exec(ctx, stmt); err != nil {
		return queryFailure(StepReconfigurePrimary, stmt, err)
	}

	return nil
}

func (o *Orchestrator) stopPrimary(ctx context.Context) error {
	o.closePrimary(ctx)
	return o.runCommand(ctx, StepStopPrimary, o.commands.Stop, o.params.DataDirectory)
}

func (o *Orchestrator) markAsStandby(ctx context.Context) error {
	return o.runCommand(ctx, StepMarkAsStandby, o.commands.Mark, o.params.SignalPath(o.signal))
}

func (o *Orchestrator) restartAsStandby(ctx context.Context) error {
	if err := o.runCommand(ctx, StepRestartAsStandby, o.commands.Start, o.params.DataDirectory); err != nil {
		return err
	}

	if o.readyTimeout <= 0 {
		return nil
	}

	return o.waitReady(ctx)
}

func (o *Orchestrator) promoteRemote(ctx context.Context) error {
	session, err := o.dialer.OpenRemote(ctx, o.params.StandbyAddress, o.params.Port)
	if err != nil {
		return &Error{Kind: KindConnection, Step: StepPromoteRemote, Detail: "cannot connect to standby " + o.params.RemoteTarget(), Err: err}
	}
	defer o.closeSession(ctx, session)

	if err := session.Exec(ctx, PromoteSQL); err != nil {
		return queryFailure(StepPromoteRemote, PromoteSQL, err)
	}

	return nil
}

// reconfigureStatement builds the ALTER SYSTEM statement for primary_conninfo.
// The value is parsed back and compared with the discovered parameters before
// it is used.
func (o *Orchestrator) reconfigureStatement() (string, error) {
	value, err := utils.Build(ReplicationConninfo,
		conninfo.Quote(o.params.StandbyAddress),
		o.params.Port,
		conninfo.Quote(o.params.StandbyUser),
	)
	if err != nil {
		return "", &Error{Kind: KindAllocation, Step: StepReconfigurePrimary, Detail: "cannot build primary_conninfo", Err: err}
	}

	parsed, err := conninfo.Parse(value)
	if err != nil {
		return "", &Error{Kind: KindAllocation, Step: StepReconfigurePrimary, Detail: "built an unreadable primary_conninfo", Err: err}
	}

	for key, expected := range map[string]string{
		"host": o.params.StandbyAddress,
		"port": o.params.Port,
		"user": o.params.StandbyUser,
	} {
		if got, _ := parsed.Get(key); got != expected {
			return "", &Error{
				Kind:   KindAllocation,
				Step:   StepReconfigurePrimary,
				Detail: "primary_conninfo does not round-trip",
				Err:    errors.Errorf("%s is %q, expected %q", key, got, expected),
			}
		}
	}

	return PrimaryConninfoSQL + postgres.QuoteLiteral(value), nil
}

// command renders a command template. A template with one %s receives the
// shell-quoted arg; a template without one is run as written.
func (o *Orchestrator) command(step Step, tmpl, arg string) (string, error) {
	n, err := utils.CountPlaceholders(tmpl)
	if err == nil {
		var subs []string
		if n > 0 {
			subs = append(subs, utils.ShellQuote(arg))
		}

		var line string
		if line, err = utils.Build(tmpl, subs...); err == nil {
			return line, nil
		}
	}

	return "", &Error{Kind: KindAllocation, Step: step, Detail: "cannot build command from " + tmpl, Err: err}
}

func (o *Orchestrator) runCommand(ctx context.Context, step Step, tmpl, arg string) error {
	line, err := o.command(step, tmpl, arg)
	if err != nil {
		return err
	}

	o.logger.Info("Running command", "step", step.String(), "command", line)
	if code := o.runner.Run(ctx, line); code != 0 {
		return &Error{Kind: KindProcess, Step: step, Detail: line, Err: errors.Errorf("exit code %d", code)}
	}

	return nil
}

func (o *Orchestrator) closePrimary(ctx context.Context) {
	if o.primary == nil {
		return
	}

	o.closeSession(ctx, o.primary)
	o.primary = nil
}

func (o *Orchestrator) closeSession(ctx context.Context, session postgres.Session) {
	if err := session.Close(ctx); err != nil {
		o.logger.Warn("Failed to close session", "target", session.Target(), "err", err)
	}
}

// parseAddress validates an inet value and returns the bare address.
func parseAddress(addr string) (string, error) {
	if err := utils.RequireValue("standby address", addr); err != nil {
		return "", err
	}

	if prefix, err := netip.ParsePrefix(addr); err == nil {
		return prefix.Addr().String(), nil
	}

	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return "", errors.Wrapf(err, "invalid standby address %q", addr)
	}

	return ip.String(), nil
}
