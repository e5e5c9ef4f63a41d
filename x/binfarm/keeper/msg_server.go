package keeper

import (
	"context"
	"fmt"

	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/hashicorp/go-metrics"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the binfarm MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// atomic runs fn on a cache context and commits only if fn succeeds, so a
// failure anywhere leaves no writes, transfers or events behind.
func (ms msgServer) atomic(goCtx context.Context, op string, fn func(ctx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(goCtx)
	cacheCtx, write := sdkCtx.CacheContext()

	if err := fn(cacheCtx); err != nil {
		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "msg", op},
			1,
			[]metrics.Label{telemetry.NewLabel("status", "failure")},
		)
		return fmt.Errorf("%s: %w", op, err)
	}

	write()
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "msg", op},
		1,
		[]metrics.Label{telemetry.NewLabel("status", "success")},
	)
	return nil
}

// OpenPosition handles a user deposit into a new range position
func (ms msgServer) OpenPosition(goCtx context.Context, msg *types.MsgOpenPosition) (*types.MsgOpenPositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenPosition: validate: %w", err)
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("OpenPosition: invalid owner address: %w", err)
	}

	var resp types.MsgOpenPositionResponse
	err = ms.atomic(goCtx, "OpenPosition", func(ctx sdk.Context) error {
		pos, vault, err := ms.Keeper.OpenPosition(ctx, owner, msg.PoolRef, msg.Amount, msg.MinBin, msg.MaxBin, msg.MaxActiveBinSlippage)
		if err != nil {
			return err
		}
		resp = openResponse(pos, vault)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// HarvestBins handles an agent or fallback harvest
func (ms msgServer) HarvestBins(goCtx context.Context, msg *types.MsgHarvestBins) (*types.MsgHarvestBinsResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("HarvestBins: validate: %w", err)
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, fmt.Errorf("HarvestBins: invalid caller address: %w", err)
	}

	var payout types.Payout
	err = ms.atomic(goCtx, "HarvestBins", func(ctx sdk.Context) error {
		payout, err = ms.Keeper.HarvestBins(ctx, caller, msg.PositionRef, msg.BinIDs, msg.TipRecipient)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgHarvestBinsResponse{Payout: payout}, nil
}

// ClosePosition handles an agent or fallback close
func (ms msgServer) ClosePosition(goCtx context.Context, msg *types.MsgClosePosition) (*types.MsgClosePositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ClosePosition: validate: %w", err)
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, fmt.Errorf("ClosePosition: invalid caller address: %w", err)
	}

	var payout types.Payout
	err = ms.atomic(goCtx, "ClosePosition", func(ctx sdk.Context) error {
		payout, err = ms.Keeper.ClosePosition(ctx, caller, msg.PositionRef, msg.TipRecipient)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgClosePositionResponse{Payout: payout}, nil
}

// UserClose handles the owner's exit
func (ms msgServer) UserClose(goCtx context.Context, msg *types.MsgUserClose) (*types.MsgClosePositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UserClose: validate: %w", err)
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("UserClose: invalid owner address: %w", err)
	}

	var payout types.Payout
	err = ms.atomic(goCtx, "UserClose", func(ctx sdk.Context) error {
		payout, err = ms.Keeper.UserClose(ctx, owner, msg.PositionRef)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &types.MsgClosePositionResponse{Payout: payout}, nil
}

// ClaimFees handles a trading fee claim
func (ms msgServer) ClaimFees(goCtx context.Context, msg *types.MsgClaimFees) (*types.MsgClaimFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ClaimFees: validate: %w", err)
	}
	owner, err := sdk.AccAddressFromBech32(msg.Owner)
	if err != nil {
		return nil, fmt.Errorf("ClaimFees: invalid owner address: %w", err)
	}

	resp := &types.MsgClaimFeesResponse{}
	err = ms.atomic(goCtx, "ClaimFees", func(ctx sdk.Context) error {
		resp.AmountX, resp.AmountY, err = ms.Keeper.ClaimFees(ctx, owner, msg.PositionRef)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ProposeFee handles a timelocked fee proposal
func (ms msgServer) ProposeFee(goCtx context.Context, msg *types.MsgProposeFee) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ProposeFee: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "ProposeFee", func(ctx sdk.Context) error {
		return ms.Keeper.ProposeFee(ctx, msg.Authority, msg.FeeBps)
	}))
}

// ApplyFee handles the permissionless fee application
func (ms msgServer) ApplyFee(goCtx context.Context, msg *types.MsgApplyFee) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ApplyFee: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "ApplyFee", func(ctx sdk.Context) error {
		return ms.Keeper.ApplyFee(ctx)
	}))
}

// CancelPendingFee handles a pending fee cancellation
func (ms msgServer) CancelPendingFee(goCtx context.Context, msg *types.MsgCancelPendingFee) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CancelPendingFee: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "CancelPendingFee", func(ctx sdk.Context) error {
		return ms.Keeper.CancelPendingFee(ctx, msg.Authority)
	}))
}

// TransferAuthority handles the first step of an authority transfer
func (ms msgServer) TransferAuthority(goCtx context.Context, msg *types.MsgTransferAuthority) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("TransferAuthority: validate: %w", err)
	}
	newAuthority, err := sdk.AccAddressFromBech32(msg.NewAuthority)
	if err != nil {
		return nil, fmt.Errorf("TransferAuthority: invalid new authority: %w", err)
	}
	return empty(ms.atomic(goCtx, "TransferAuthority", func(ctx sdk.Context) error {
		return ms.Keeper.TransferAuthority(ctx, msg.Authority, newAuthority)
	}))
}

// AcceptAuthority handles the second step of an authority transfer
func (ms msgServer) AcceptAuthority(goCtx context.Context, msg *types.MsgAcceptAuthority) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AcceptAuthority: validate: %w", err)
	}
	acceptor, err := sdk.AccAddressFromBech32(msg.NewAuthority)
	if err != nil {
		return nil, fmt.Errorf("AcceptAuthority: invalid address: %w", err)
	}
	return empty(ms.atomic(goCtx, "AcceptAuthority", func(ctx sdk.Context) error {
		return ms.Keeper.AcceptAuthority(ctx, acceptor)
	}))
}

// SetPaused handles the deposit pause toggle
func (ms msgServer) SetPaused(goCtx context.Context, msg *types.MsgSetPaused) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetPaused: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "SetPaused", func(ctx sdk.Context) error {
		return ms.Keeper.SetPaused(ctx, msg.Authority, msg.Paused)
	}))
}

// SetAgentPaused handles the agent close pause toggle
func (ms msgServer) SetAgentPaused(goCtx context.Context, msg *types.MsgSetAgentPaused) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetAgentPaused: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "SetAgentPaused", func(ctx sdk.Context) error {
		return ms.Keeper.SetAgentPaused(ctx, msg.Authority, msg.Paused)
	}))
}

// UpdateAgent handles an agent rotation
func (ms msgServer) UpdateAgent(goCtx context.Context, msg *types.MsgUpdateAgent) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateAgent: validate: %w", err)
	}
	agent, err := sdk.AccAddressFromBech32(msg.NewAgent)
	if err != nil {
		return nil, fmt.Errorf("UpdateAgent: invalid agent address: %w", err)
	}
	return empty(ms.atomic(goCtx, "UpdateAgent", func(ctx sdk.Context) error {
		return ms.Keeper.UpdateAgent(ctx, msg.Authority, agent)
	}))
}

// UpdateKeeperTip handles a keeper tip change
func (ms msgServer) UpdateKeeperTip(goCtx context.Context, msg *types.MsgUpdateKeeperTip) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateKeeperTip: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "UpdateKeeperTip", func(ctx sdk.Context) error {
		return ms.Keeper.UpdateKeeperTip(ctx, msg.Authority, msg.KeeperTipBps)
	}))
}

// UpdateStalenessThreshold handles a heartbeat window change
func (ms msgServer) UpdateStalenessThreshold(goCtx context.Context, msg *types.MsgUpdateStalenessThreshold) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateStalenessThreshold: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "UpdateStalenessThreshold", func(ctx sdk.Context) error {
		return ms.Keeper.UpdateStalenessThreshold(ctx, msg.Authority, msg.Threshold)
	}))
}

// UpdateParams handles a governance params update
func (ms msgServer) UpdateParams(goCtx context.Context, msg *types.MsgUpdateParams) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("UpdateParams: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "UpdateParams", func(ctx sdk.Context) error {
		return ms.Keeper.UpdateParams(ctx, msg.Authority, msg.Params)
	}))
}

// ProposeEmergencyClose handles a timelocked emergency close proposal
func (ms msgServer) ProposeEmergencyClose(goCtx context.Context, msg *types.MsgProposeEmergencyClose) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ProposeEmergencyClose: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "ProposeEmergencyClose", func(ctx sdk.Context) error {
		return ms.Keeper.ProposeEmergencyClose(ctx, msg.Authority, msg.PositionRef)
	}))
}

// ApplyEmergencyClose handles the permissionless emergency close
func (ms msgServer) ApplyEmergencyClose(goCtx context.Context, msg *types.MsgApplyEmergencyClose) (*types.MsgEmergencyCloseResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ApplyEmergencyClose: validate: %w", err)
	}

	resp := &types.MsgEmergencyCloseResponse{}
	err := ms.atomic(goCtx, "ApplyEmergencyClose", func(ctx sdk.Context) error {
		var err error
		resp.PositionRef, resp.AmountX, resp.AmountY, err = ms.Keeper.ApplyEmergencyClose(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// OpenRoverPosition handles a third-party funded rover
func (ms msgServer) OpenRoverPosition(goCtx context.Context, msg *types.MsgOpenRoverPosition) (*types.MsgOpenPositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenRoverPosition: validate: %w", err)
	}
	depositor, err := sdk.AccAddressFromBech32(msg.Depositor)
	if err != nil {
		return nil, fmt.Errorf("OpenRoverPosition: invalid depositor address: %w", err)
	}

	var resp types.MsgOpenPositionResponse
	err = ms.atomic(goCtx, "OpenRoverPosition", func(ctx sdk.Context) error {
		pos, vault, err := ms.Keeper.OpenRoverPosition(ctx, depositor, msg.PoolRef, msg.Amount)
		if err != nil {
			return err
		}
		resp = openResponse(pos, vault)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// OpenFeeRover handles a fee-funded rover
func (ms msgServer) OpenFeeRover(goCtx context.Context, msg *types.MsgOpenFeeRover) (*types.MsgOpenPositionResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("OpenFeeRover: validate: %w", err)
	}
	agent, err := sdk.AccAddressFromBech32(msg.Agent)
	if err != nil {
		return nil, fmt.Errorf("OpenFeeRover: invalid agent address: %w", err)
	}

	var resp types.MsgOpenPositionResponse
	err = ms.atomic(goCtx, "OpenFeeRover", func(ctx sdk.Context) error {
		pos, vault, err := ms.Keeper.OpenFeeRover(ctx, agent, msg.PoolRef, msg.Amount)
		if err != nil {
			return err
		}
		resp = openResponse(pos, vault)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SweepRover handles a rover revenue sweep
func (ms msgServer) SweepRover(goCtx context.Context, msg *types.MsgSweepRover) (*types.MsgSweepRoverResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SweepRover: validate: %w", err)
	}
	caller, err := sdk.AccAddressFromBech32(msg.Caller)
	if err != nil {
		return nil, fmt.Errorf("SweepRover: invalid caller address: %w", err)
	}

	resp := &types.MsgSweepRoverResponse{}
	err = ms.atomic(goCtx, "SweepRover", func(ctx sdk.Context) error {
		resp.Amount, err = ms.Keeper.SweepRover(ctx, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ProposeRevenueDest handles a timelocked revenue destination proposal
func (ms msgServer) ProposeRevenueDest(goCtx context.Context, msg *types.MsgProposeRevenueDest) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ProposeRevenueDest: validate: %w", err)
	}
	dest, err := sdk.AccAddressFromBech32(msg.NewRevenueDest)
	if err != nil {
		return nil, fmt.Errorf("ProposeRevenueDest: invalid revenue destination: %w", err)
	}
	return empty(ms.atomic(goCtx, "ProposeRevenueDest", func(ctx sdk.Context) error {
		return ms.Keeper.ProposeRevenueDest(ctx, msg.Authority, dest)
	}))
}

// ApplyRevenueDest handles the permissionless revenue destination application
func (ms msgServer) ApplyRevenueDest(goCtx context.Context, msg *types.MsgApplyRevenueDest) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ApplyRevenueDest: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "ApplyRevenueDest", func(ctx sdk.Context) error {
		return ms.Keeper.ApplyRevenueDest(ctx)
	}))
}

// CancelPendingRevenueDest handles a pending revenue destination cancellation
func (ms msgServer) CancelPendingRevenueDest(goCtx context.Context, msg *types.MsgCancelPendingRevenueDest) (*types.MsgEmptyResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CancelPendingRevenueDest: validate: %w", err)
	}
	return empty(ms.atomic(goCtx, "CancelPendingRevenueDest", func(ctx sdk.Context) error {
		return ms.Keeper.CancelPendingRevenueDest(ctx, msg.Authority)
	}))
}

func empty(err error) (*types.MsgEmptyResponse, error) {
	if err != nil {
		return nil, err
	}
	return &types.MsgEmptyResponse{}, nil
}

func openResponse(pos types.Position, vault types.Vault) types.MsgOpenPositionResponse {
	return types.MsgOpenPositionResponse{
		PositionRef: pos.PositionRef,
		Vault:       vault.Address.String(),
		Side:        pos.Side,
		MinBin:      pos.MinBin,
		MaxBin:      pos.MaxBin,
	}
}
