package switchover_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/pierreforstmann/pg-kit/pkg/postgres"
	"github.com/pierreforstmann/pg-kit/pkg/switchover"
	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"
)

func TestPlan(t *testing.T) {
	f := newFixture()
	o := f.orchestrator("5432", nil, 0)

	plan, err := o.Plan(context.Background())
	require.NoError(t, err)

	// discovery only
	require.Equal(t, []string{
		"dial local",
		"primary query SELECT setting FROM pg_settings WHERE name = $1 [data_directory]",
		"primary query SELECT usename, client_addr FROM pg_stat_activity WHERE backend_type = $1 [walsender]",
		"primary close",
	}, f.log.calls)

	require.Equal(t, "/var/run/postgresql:5432", plan.Primary)
	require.Len(t, plan.Actions, 7)
	require.Equal(t, switchover.StepFlushWAL, plan.Actions[0].Step)
	require.Equal(t, switchover.StepPromoteRemote, plan.Actions[6].Step)
	require.Equal(t, "10.0.0.5:5432", plan.Actions[6].Target)
	for _, a := range plan.Actions {
		require.True(t, a.Step.Mutating(), a.Step.String())
	}

	var buf bytes.Buffer
	require.NoError(t, plan.Write(&buf))
	golden.Assert(t, buf.String(), "plan.golden")

	// a planned orchestrator cannot be run
	require.Error(t, o.Run(context.Background()))
	require.Len(t, f.log.calls, 4)
}

func TestPlan_StandbyNotFound(t *testing.T) {
	f := newFixture()
	f.primary.standbyErr = postgres.ErrNoRows

	plan, err := f.orchestrator("5432", nil, 0).Plan(context.Background())
	require.Nil(t, plan)
	requireSwitchoverError(t, err, switchover.KindNotFound, switchover.StepDiscoverStandby)
	require.Equal(t, 1, f.primary.closed)
}

func TestPlan_InvalidConfig(t *testing.T) {
	f := newFixture()

	_, err := f.orchestrator("70000", nil, 0).Plan(context.Background())
	require.ErrorIs(t, err, switchover.ErrInvalidConfig)
	require.Empty(t, f.log.calls)
}
