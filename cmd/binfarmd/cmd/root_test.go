package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

var (
	testAuthority = sdk.AccAddress([]byte("authority___________")).String()
	testAgent     = sdk.AccAddress([]byte("agent_______________")).String()
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func decodeGenesis(t *testing.T, raw string) types.GenesisState {
	t.Helper()
	var gs types.GenesisState
	require.NoError(t, json.Unmarshal([]byte(raw), &gs))
	return gs
}

func TestDefaultGenesisCmd_Flags(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "genesis", "default",
		"--authority", testAuthority,
		"--agent", testAgent,
		"--fee-bps", "45",
		"--timelock-seconds", "3600",
	)
	require.NoError(t, err)

	gs := decodeGenesis(t, out)
	require.NoError(t, gs.Validate())
	require.Equal(t, testAuthority, gs.Config.Authority.String())
	require.Equal(t, testAgent, gs.Config.Agent.String())
	require.Equal(t, uint32(45), gs.Config.FeeBps)
	require.Equal(t, types.DefaultKeeperTipBps, gs.Config.KeeperTipBps)
	require.Equal(t, int64(3600), gs.Params.TimelockSeconds)
	require.Equal(t, sdk.AccAddress(types.DefaultGovAuthority()), gs.RoverAuthority.RevenueDest)
}

func TestDefaultGenesisCmd_EnvAndConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	toml := `fee-bps = 60
keeper-tip-bps = 2000
revenue-denom = "uquote"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binfarm.toml"), []byte(toml), 0o644))
	t.Setenv("BINFARM_FEE_BPS", "75")

	out, err := execute(t, "genesis", "default")
	require.NoError(t, err)

	gs := decodeGenesis(t, out)
	require.Equal(t, uint32(75), gs.Config.FeeBps, "environment overrides the config file")
	require.Equal(t, uint32(2000), gs.Config.KeeperTipBps)
	require.Equal(t, "uquote", gs.Params.RevenueDenom)

	// an explicit flag beats both
	out, err = execute(t, "genesis", "default", "--fee-bps", "10")
	require.NoError(t, err)
	require.Equal(t, uint32(10), decodeGenesis(t, out).Config.FeeBps)
}

func TestDefaultGenesisCmd_Rejections(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := execute(t, "genesis", "default", "--fee-bps", "1001")
	require.ErrorIs(t, err, types.ErrFeeTooHigh)

	_, err = execute(t, "genesis", "default", "--agent", "not-bech32")
	require.Error(t, err)

	_, err = execute(t, "genesis", "default", "--config", filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestGenesisWriteAndValidate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "genesis.json")

	_, err := execute(t, "genesis", "default", "--authority", testAuthority, "-o", path)
	require.NoError(t, err)

	out, err := execute(t, "genesis", "validate", path)
	require.NoError(t, err)
	require.Contains(t, out, "genesis valid: 0 positions, next ref binfarm-1")

	// a full app genesis is unwrapped to the module section
	section, err := os.ReadFile(path)
	require.NoError(t, err)
	appGenesis, err := json.Marshal(map[string]any{
		"chain_id":  "binfarm-1",
		"app_state": map[string]json.RawMessage{types.ModuleName: section},
	})
	require.NoError(t, err)
	appPath := filepath.Join(dir, "app_genesis.json")
	require.NoError(t, os.WriteFile(appPath, appGenesis, 0o644))

	_, err = execute(t, "genesis", "validate", appPath)
	require.NoError(t, err)
}

func TestValidateGenesisCmd_Invalid(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	gs := types.DefaultGenesis()
	gs.NextPositionID = 0
	bz, err := json.Marshal(gs)
	require.NoError(t, err)
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, bz, 0o644))

	_, err = execute(t, "genesis", "validate", path)
	require.ErrorContains(t, err, "next position id")

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = execute(t, "genesis", "validate", path)
	require.Error(t, err)
}

func TestDefaultGenesisCmd_ZeroFeeKept(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "genesis", "default", "--fee-bps", "0")
	require.NoError(t, err)
	require.Zero(t, decodeGenesis(t, out).Config.FeeBps)
}

func TestFeeSplitCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "fee-split", "10000")
	require.NoError(t, err)
	require.Contains(t, out, "fee:       30\n")
	require.Contains(t, out, "tip:       0\n")
	require.Contains(t, out, "owner:     9970\n")

	out, err = execute(t, "fee-split", "10000", "--fallback")
	require.NoError(t, err)
	require.Contains(t, out, "tip:       3\n")
	require.Contains(t, out, "protocol:  27\n")

	_, err = execute(t, "fee-split", "-5")
	require.Error(t, err)
	_, err = execute(t, "fee-split", "100", "--tip-bps", "5001")
	require.ErrorIs(t, err, types.ErrFeeTooHigh)
}

func TestRoverRangeCmd(t *testing.T) {
	t.Chdir(t.TempDir())

	out, err := execute(t, "rover-range", "100", "25")
	require.NoError(t, err)
	require.Equal(t, "[101, 170] width 70\n", out)

	out, err = execute(t, "rover-range", "--", "-50", "100")
	require.NoError(t, err)
	require.Equal(t, "[-49, 19] width 69\n", out)

	_, err = execute(t, "rover-range", "100", "0")
	require.ErrorIs(t, err, types.ErrRoverBinStepTooSmall)
}

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Info(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func TestServeMetricsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	logger := &recordingLogger{}
	require.NoError(t, ServeMetrics(ctx, "127.0.0.1:0", logger))

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Contains(t, logger.msgs, "metrics server shutting down")
}
