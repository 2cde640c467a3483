package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	conf, err := Parse([]byte("mysql:\n  host: db\n  port: 3306\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, conf.Server.Http)
	assert.Equal(t, defaultLeaderboardInterval, conf.Ledger.LeaderboardInterval)
	assert.Equal(t, defaultArtifactPrefix, conf.Ledger.ArtifactPrefix)
	assert.Equal(t, time.Local, conf.Ledger.Location())
	assert.False(t, conf.Debug())
}

func TestParse_Ledger(t *testing.T) {
	raw := `
ledger:
  timezone: Asia/Shanghai
  leaderboard_interval: 90s
  service_token: abc
`
	conf, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, conf.Ledger.LeaderboardInterval)
	assert.Equal(t, "abc", conf.Ledger.ServiceToken)
	assert.Equal(t, "Asia/Shanghai", conf.Ledger.Location().String())
}

func TestLedger_LocationFallback(t *testing.T) {
	l := &Ledger{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.Local, l.Location())

	var nilLedger *Ledger
	assert.Equal(t, time.Local, nilLedger.Location())
}

func TestMySQL_Dsn(t *testing.T) {
	m := &MySQL{Host: "db", Port: 3306, Username: "u", Password: "p", Database: "lumen"}
	assert.Equal(t, "u:p@tcp(db:3306)/lumen?charset=utf8mb4&parseTime=True&loc=Local", m.Dsn())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("server: [1, 2"))
	assert.Error(t, err)
}
