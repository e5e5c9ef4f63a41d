package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

var (
	testOwner = sdk.AccAddress([]byte("owner_______________")).String()
	testOther = sdk.AccAddress([]byte("other_______________")).String()
)

func TestMsgOpenPosition_ValidateBasic(t *testing.T) {
	tests := []struct {
		name string
		msg  *types.MsgOpenPosition
		err  error
	}{
		{
			name: "valid sell range",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.NewInt(100), 101, 110, 5),
		},
		{
			name: "valid max width",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.NewInt(100), -35, 34, 0),
		},
		{
			name: "bad owner",
			msg:  types.NewMsgOpenPosition("cosmos1bad", "pool", math.NewInt(100), 101, 110, 5),
			err:  types.ErrInvalidAddress,
		},
		{
			name: "empty pool",
			msg:  types.NewMsgOpenPosition(testOwner, "", math.NewInt(100), 101, 110, 5),
			err:  types.ErrInvalidPool,
		},
		{
			name: "zero amount",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.ZeroInt(), 101, 110, 5),
			err:  types.ErrZeroAmount,
		},
		{
			name: "nil amount",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.Int{}, 101, 110, 5),
			err:  types.ErrZeroAmount,
		},
		{
			name: "slippage above max",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.NewInt(100), 101, 110, types.MaxActiveBinSlippage+1),
			err:  types.ErrInvalidSlippage,
		},
		{
			name: "inverted range",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.NewInt(100), 110, 101, 5),
			err:  types.ErrInvalidBinRange,
		},
		{
			name: "too wide",
			msg:  types.NewMsgOpenPosition(testOwner, "pool", math.NewInt(100), 0, 70, 5),
			err:  types.ErrPositionTooWide,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.msg.ValidateBasic()
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestMsgHarvestBins_ValidateBasic(t *testing.T) {
	valid := types.MsgHarvestBins{Caller: testOwner, PositionRef: "binfarm-1", BinIDs: []int32{3, 1, 2}}
	require.NoError(t, valid.ValidateBasic())

	withTip := valid
	withTip.TipRecipient = testOther
	require.NoError(t, withTip.ValidateBasic())

	badTip := valid
	badTip.TipRecipient = "nope"
	require.ErrorIs(t, badTip.ValidateBasic(), types.ErrInvalidAddress)

	gap := valid
	gap.BinIDs = []int32{1, 3}
	require.ErrorIs(t, gap.ValidateBasic(), types.ErrNonContiguousBins)

	noRef := valid
	noRef.PositionRef = ""
	require.ErrorIs(t, noRef.ValidateBasic(), types.ErrPositionNotFound)
}

func TestContiguousBinRange(t *testing.T) {
	tests := []struct {
		name     string
		ids      []int32
		maxBins  uint32
		from, to int32
		err      error
	}{
		{name: "single", ids: []int32{7}, maxBins: 70, from: 7, to: 7},
		{name: "unordered", ids: []int32{5, 3, 4}, maxBins: 70, from: 3, to: 5},
		{name: "negative ids", ids: []int32{-2, -1, 0, 1}, maxBins: 70, from: -2, to: 1},
		{name: "empty", ids: nil, maxBins: 70, err: types.ErrNoBinsProvided},
		{name: "over limit", ids: []int32{1, 2, 3}, maxBins: 2, err: types.ErrTooManyBins},
		{name: "duplicate", ids: []int32{1, 2, 2}, maxBins: 70, err: types.ErrDuplicateBin},
		{name: "gap", ids: []int32{1, 2, 4}, maxBins: 70, err: types.ErrNonContiguousBins},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			from, to, err := types.ContiguousBinRange(tc.ids, tc.maxBins)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.from, from)
			require.Equal(t, tc.to, to)
		})
	}
}

func TestContiguousBinRange_AcceptsAnyPermutation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		start := rapid.Int32Range(-types.MaxBinID, types.MaxBinID-int32(types.MaxPositionWidth)).Draw(rt, "start")
		n := rapid.IntRange(1, int(types.MaxPositionWidth)).Draw(rt, "n")

		ids := make([]int32, n)
		for i := range ids {
			ids[i] = start + int32(i)
		}
		ids = rapid.Permutation(ids).Draw(rt, "ids")

		from, to, err := types.ContiguousBinRange(ids, types.MaxPositionWidth)
		if err != nil {
			rt.Fatalf("contiguous run rejected: %v", err)
		}
		if from != start || to != start+int32(n)-1 {
			rt.Fatalf("got [%d,%d], want [%d,%d]", from, to, start, start+int32(n)-1)
		}
	})
}

func TestGovernanceMsgs_ValidateBasic(t *testing.T) {
	require.NoError(t, (&types.MsgProposeFee{Authority: testOwner, FeeBps: types.MaxFeeBps}).ValidateBasic())
	require.ErrorIs(t, (&types.MsgProposeFee{Authority: testOwner, FeeBps: types.MaxFeeBps + 1}).ValidateBasic(), types.ErrFeeTooHigh)
	require.ErrorIs(t, (&types.MsgUpdateKeeperTip{Authority: testOwner, KeeperTipBps: types.MaxKeeperTipBps + 1}).ValidateBasic(), types.ErrFeeTooHigh)
	require.ErrorIs(t, (&types.MsgUpdateStalenessThreshold{Authority: testOwner, Threshold: types.MaxStalenessThreshold + 1}).ValidateBasic(), types.ErrStalenessExceedsMax)
	require.ErrorIs(t, (&types.MsgTransferAuthority{Authority: testOwner, NewAuthority: ""}).ValidateBasic(), types.ErrInvalidAddress)
	require.NoError(t, (&types.MsgTransferAuthority{Authority: testOwner, NewAuthority: testOther}).ValidateBasic())
	require.ErrorIs(t, (&types.MsgProposeEmergencyClose{Authority: testOwner}).ValidateBasic(), types.ErrPositionNotFound)
	require.ErrorIs(t, (&types.MsgProposeRevenueDest{Authority: testOwner}).ValidateBasic(), types.ErrInvalidRevenueDest)
	require.NoError(t, (&types.MsgApplyFee{Caller: testOther}).ValidateBasic())
}

func TestRoverMsgs_ValidateBasic(t *testing.T) {
	require.NoError(t, (&types.MsgOpenRoverPosition{Depositor: testOwner, PoolRef: "pool", Amount: math.NewInt(1)}).ValidateBasic())
	require.ErrorIs(t, (&types.MsgOpenRoverPosition{Depositor: testOwner, PoolRef: "pool", Amount: math.ZeroInt()}).ValidateBasic(), types.ErrZeroAmount)
	require.ErrorIs(t, (&types.MsgOpenFeeRover{Agent: "x", PoolRef: "pool", Amount: math.NewInt(1)}).ValidateBasic(), types.ErrInvalidAddress)
	require.NoError(t, (&types.MsgSweepRover{Caller: testOther}).ValidateBasic())
}
