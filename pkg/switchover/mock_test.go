package switchover_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/pierreforstmann/pg-kit/pkg/postgres"
)

// recorder collects the calls made to every mock so tests can assert the
// exact order of interactions across both servers and the shell.
type recorder struct {
	calls []string
}

func (r *recorder) add(format string, args ...any) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

// index returns the position of the first call starting with prefix, or -1.
func (r *recorder) index(prefix string) int {
	for i, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}

	return -1
}

type mockSession struct {
	name   string
	target string
	log    *recorder

	dataDirectory string
	dataErr       error
	standbyUser   string
	standbyAddr   string
	standbyErr    error
	execErrs      map[string]error
	pingErr       error
	closed        int
}

func (m *mockSession) QueryScalar(_ context.Context, sql, param string) (string, error) {
	m.log.add("%s query %s [%s]", m.name, sql, param)
	return m.dataDirectory, m.dataErr
}

func (m *mockSession) QueryRow2(_ context.Context, sql, param string) (string, string, error) {
	m.log.add("%s query %s [%s]", m.name, sql, param)
	if m.standbyErr != nil {
		return "", "", m.standbyErr
	}

	return m.standbyUser, m.standbyAddr, nil
}

func (m *mockSession) Exec(_ context.Context, sql string) error {
	m.log.add("%s exec %s", m.name, sql)
	return m.execErrs[sql]
}

func (m *mockSession) Ping(context.Context) error {
	m.log.add("%s ping", m.name)
	return m.pingErr
}

func (m *mockSession) Target() string {
	if m.target != "" {
		return m.target
	}

	return m.name
}

func (m *mockSession) Close(context.Context) error {
	m.log.add("%s close", m.name)
	m.closed++
	return nil
}

type mockDialer struct {
	log     *recorder
	primary *mockSession
	standby *mockSession

	// localErrs is consumed one entry per OpenLocal call; a nil entry or an
	// empty queue connects.
	localErrs []error
	remoteErr error
}

func (m *mockDialer) OpenLocal(context.Context) (postgres.Session, error) {
	m.log.add("dial local")
	if len(m.localErrs) > 0 {
		err := m.localErrs[0]
		m.localErrs = m.localErrs[1:]
		if err != nil {
			return nil, err
		}
	}

	return m.primary, nil
}

func (m *mockDialer) OpenRemote(_ context.Context, host, port string) (postgres.Session, error) {
	m.log.add("dial remote host=%s port=%s", host, port)
	if m.remoteErr != nil {
		return nil, m.remoteErr
	}

	return m.standby, nil
}

type mockRunner struct {
	log   *recorder
	codes map[string]int
}

func (m *mockRunner) Run(_ context.Context, command string) int {
	m.log.add("run %s", command)
	for prefix, code := range m.codes {
		if strings.HasPrefix(command, prefix) {
			return code
		}
	}

	return 0
}

type fixture struct {
	log     *recorder
	dialer  *mockDialer
	runner  *mockRunner
	primary *mockSession
	standby *mockSession
}

// newFixture returns mocks describing a healthy primary at /var/lib/pgsql/data
// with repl_user streaming to 10.0.0.5.
func newFixture() *fixture {
	log := &recorder{}
	primary := &mockSession{
		name:          "primary",
		target:        "/var/run/postgresql:5432",
		log:           log,
		dataDirectory: "/var/lib/pgsql/data",
		standbyUser:   "repl_user",
		standbyAddr:   "10.0.0.5",
	}
	standby := &mockSession{name: "standby", log: log}

	return &fixture{
		log:     log,
		dialer:  &mockDialer{log: log, primary: primary, standby: standby},
		runner:  &mockRunner{log: log},
		primary: primary,
		standby: standby,
	}
}
