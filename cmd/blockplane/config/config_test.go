package config

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 120, cfg.PollAttempts)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.OtelEnabled)
}

func TestLoad_Environment(t *testing.T) {
	clusterID := uuid.New().String()
	t.Setenv("BLOCKPLANE_PROJECT", "env-project")
	t.Setenv("BLOCKPLANE_ZONE", "europe-west1-b")
	t.Setenv("BLOCKPLANE_CLUSTER_ID", clusterID)
	t.Setenv("BLOCKPLANE_POLL_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-project", cfg.Project)
	assert.Equal(t, "europe-west1-b", cfg.Zone)
	assert.Equal(t, clusterID, cfg.ClusterID)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Project:      "p",
		Zone:         "z",
		ClusterID:    uuid.New().String(),
		PollInterval: time.Second,
		PollAttempts: 10,
	}
	require.NoError(t, valid.Validate())

	noProject := valid
	noProject.Project = ""
	assert.Error(t, noProject.Validate())

	noZone := valid
	noZone.Zone = ""
	assert.Error(t, noZone.Validate())

	badCluster := valid
	badCluster.ClusterID = "not-a-uuid"
	assert.Error(t, badCluster.Validate())

	badInterval := valid
	badInterval.PollInterval = 0
	assert.Error(t, badInterval.Validate())

	badAttempts := valid
	badAttempts.PollAttempts = 0
	assert.Error(t, badAttempts.Validate())
}
