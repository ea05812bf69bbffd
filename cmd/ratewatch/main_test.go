package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRatesCmdFlags(t *testing.T) {
	cmd := ratesCmd()

	ccy := cmd.Flag("ccy")
	assert.NotNil(t, ccy, "ccy flag should exist")
	assert.Equal(t, "", ccy.DefValue, "ccy should default to all currencies")

	live := cmd.Flag("live")
	assert.NotNil(t, live, "live flag should exist")
	assert.Equal(t, "false", live.DefValue, "rates should come from the cache by default")
}

func TestWatchCmdFlags(t *testing.T) {
	cmd := watchCmd()

	interval := cmd.Flag("interval")
	assert.NotNil(t, interval, "interval flag should exist")
	assert.Equal(t, time.Hour.String(), interval.DefValue, "default interval should be one hour")
}

func TestDashboardCmdFlags(t *testing.T) {
	cmd := dashboardCmd()

	assert.NotNil(t, cmd.Flag("year"), "year flag should exist")
	assert.NotNil(t, cmd.Flag("month"), "month flag should exist")
}

func TestRootCmdHasAllSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, subcmd := range rootCmd.Commands() {
		names[subcmd.Name()] = true
	}

	for _, want := range []string{"login", "logout", "status", "rates", "dashboard", "watch", "migrate", "version"} {
		assert.True(t, names[want], "%s subcommand should exist", want)
	}
}
