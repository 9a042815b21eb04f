//    InferRolesGo
//    Copyright: S Crane 2025-26
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package lnch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbcrane/InferRolesGo/internal/vv"
)

func restoreargs(t *testing.T) {
	t.Helper()
	saved := os.Args
	t.Cleanup(func() {
		os.Args = saved
		Config = BuildDefaultConfig()
	})
}

func TestBuildDefaultConfig(t *testing.T) {
	c := BuildDefaultConfig()

	assert.Equal(t, vv.DEFAULTTHEMES, c.Themes)
	assert.Equal(t, vv.DEFAULTROLES, c.Roles)
	assert.Equal(t, vv.DEFAULTITERATIONS, c.Iterations)
	assert.Equal(t, vv.DEFAULTALPHA, c.Alpha)
	assert.Equal(t, vv.DEFAULTBETA, c.Beta)
	assert.Equal(t, vv.DEFAULTVOCABSIZE, c.VocabSize)
	assert.GreaterOrEqual(t, c.WorkerCount, 1)
	assert.False(t, c.UsePostgres)
	assert.Equal(t, vv.DEFAULTTHEMES+vv.DEFAULTROLES, c.NumTopics())
}

func TestConfigAtLaunchFlags(t *testing.T) {
	restoreargs(t)

	os.Args = []string{"irg",
		"-source", "corpus.txt",
		"-iterations", "40",
		"-themes", "10",
		"-roles", "20",
		"-words", "5000",
		"-alpha", "0.01",
		"-beta", "0.2",
		"-name", "mymodel",
		"-numprocesses", "3",
		"-maxlines", "1234",
		"-bl", "-nosave", "-q",
	}

	ConfigAtLaunch()

	assert.Equal(t, "corpus.txt", Config.SourcePath)
	assert.Equal(t, 40, Config.Iterations)
	assert.Equal(t, 10, Config.Themes)
	assert.Equal(t, 20, Config.Roles)
	assert.Equal(t, 5000, Config.VocabSize)
	assert.Equal(t, 0.01, Config.Alpha)
	assert.Equal(t, 0.2, Config.Beta)
	assert.Equal(t, "mymodel", Config.ModelName)
	assert.Equal(t, 3, Config.WorkerCount)
	assert.Equal(t, 1234, Config.MaxLines)
	assert.True(t, Config.Baseline)
	assert.True(t, Config.NoSave)
	assert.True(t, Config.QuietStart)
}

func TestConfigAtLaunchPostgresLogin(t *testing.T) {
	restoreargs(t)

	os.Args = []string{"irg", "-source", "corpus.txt",
		"-pg", `{"Pass": "hunter2", "Host": "10.0.0.5", "Port": 5433, "DBName": "models", "User": "irg"}`}

	ConfigAtLaunch()

	assert.True(t, Config.UsePostgres)
	assert.Equal(t, "10.0.0.5", Config.PGLogin.Host)
	assert.Equal(t, 5433, Config.PGLogin.Port)
	assert.Equal(t, "hunter2", Config.PGLogin.Pass)
}

func TestConfigFileThenFlags(t *testing.T) {
	restoreargs(t)

	cf := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(cf, []byte(`{"Themes": 7, "Roles": 9, "ModelName": "fromfile"}`), 0644))

	os.Args = []string{"irg", "-source", "corpus.txt", "-cf", cf, "-roles", "11"}

	ConfigAtLaunch()

	// file values load; flags overrule them; omitted fields keep their defaults
	assert.Equal(t, 7, Config.Themes)
	assert.Equal(t, 11, Config.Roles)
	assert.Equal(t, "fromfile", Config.ModelName)
	assert.Equal(t, vv.DEFAULTITERATIONS, Config.Iterations)
}

func TestConfigAtLaunchWorkerFloor(t *testing.T) {
	restoreargs(t)

	os.Args = []string{"irg", "-source", "corpus.txt", "-numprocesses", "0"}

	ConfigAtLaunch()

	assert.Equal(t, 1, Config.WorkerCount)
}

func TestUpdateMessageMakerWithConfig(t *testing.T) {
	restoreargs(t)

	Config = BuildDefaultConfig()
	Config.BlackAndWhite = true
	Config.LogLevel = 4
	Config.TickerActive = true

	m := NewMessageMakerWithDefaults()
	UpdateMessageMakerWithConfig(m)

	assert.True(t, m.BW)
	assert.Equal(t, 4, m.LLvl)
	assert.True(t, m.Tick)
}
