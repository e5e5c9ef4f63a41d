package types

import (
	"context"

	"cosmossdk.io/math"
)

// MsgServer defines the message server interface
type MsgServer interface {
	OpenPosition(context.Context, *MsgOpenPosition) (*MsgOpenPositionResponse, error)
	HarvestBins(context.Context, *MsgHarvestBins) (*MsgHarvestBinsResponse, error)
	ClosePosition(context.Context, *MsgClosePosition) (*MsgClosePositionResponse, error)
	UserClose(context.Context, *MsgUserClose) (*MsgClosePositionResponse, error)
	ClaimFees(context.Context, *MsgClaimFees) (*MsgClaimFeesResponse, error)

	ProposeFee(context.Context, *MsgProposeFee) (*MsgEmptyResponse, error)
	ApplyFee(context.Context, *MsgApplyFee) (*MsgEmptyResponse, error)
	CancelPendingFee(context.Context, *MsgCancelPendingFee) (*MsgEmptyResponse, error)
	TransferAuthority(context.Context, *MsgTransferAuthority) (*MsgEmptyResponse, error)
	AcceptAuthority(context.Context, *MsgAcceptAuthority) (*MsgEmptyResponse, error)
	SetPaused(context.Context, *MsgSetPaused) (*MsgEmptyResponse, error)
	SetAgentPaused(context.Context, *MsgSetAgentPaused) (*MsgEmptyResponse, error)
	UpdateAgent(context.Context, *MsgUpdateAgent) (*MsgEmptyResponse, error)
	UpdateKeeperTip(context.Context, *MsgUpdateKeeperTip) (*MsgEmptyResponse, error)
	UpdateStalenessThreshold(context.Context, *MsgUpdateStalenessThreshold) (*MsgEmptyResponse, error)
	UpdateParams(context.Context, *MsgUpdateParams) (*MsgEmptyResponse, error)

	ProposeEmergencyClose(context.Context, *MsgProposeEmergencyClose) (*MsgEmptyResponse, error)
	ApplyEmergencyClose(context.Context, *MsgApplyEmergencyClose) (*MsgEmergencyCloseResponse, error)

	OpenRoverPosition(context.Context, *MsgOpenRoverPosition) (*MsgOpenPositionResponse, error)
	OpenFeeRover(context.Context, *MsgOpenFeeRover) (*MsgOpenPositionResponse, error)
	SweepRover(context.Context, *MsgSweepRover) (*MsgSweepRoverResponse, error)
	ProposeRevenueDest(context.Context, *MsgProposeRevenueDest) (*MsgEmptyResponse, error)
	ApplyRevenueDest(context.Context, *MsgApplyRevenueDest) (*MsgEmptyResponse, error)
	CancelPendingRevenueDest(context.Context, *MsgCancelPendingRevenueDest) (*MsgEmptyResponse, error)
}

// Response types

// MsgEmptyResponse is returned by handlers with no payload
type MsgEmptyResponse struct{}

// MsgOpenPositionResponse defines the response for OpenPosition and the rover opens
type MsgOpenPositionResponse struct {
	PositionRef string `json:"position_ref"`
	Vault       string `json:"vault"`
	Side        Side   `json:"side"`
	MinBin      int32  `json:"min_bin"`
	MaxBin      int32  `json:"max_bin"`
}

// Payout is the split of one converted-side withdrawal
type Payout struct {
	Delta       math.Int `json:"delta"`
	Fee         math.Int `json:"fee"`
	Tip         math.Int `json:"tip"`
	ProtocolFee math.Int `json:"protocol_fee"`
	// UserConverted is the owner's payout on the converted side
	UserConverted math.Int `json:"user_converted"`
	// UserDeposit is the owner's payout on the deposit side
	UserDeposit math.Int `json:"user_deposit"`
}

// MsgHarvestBinsResponse defines the response for HarvestBins
type MsgHarvestBinsResponse struct {
	Payout Payout `json:"payout"`
}

// MsgClosePositionResponse defines the response for ClosePosition and UserClose
type MsgClosePositionResponse struct {
	Payout Payout `json:"payout"`
}

// MsgClaimFeesResponse defines the response for ClaimFees
type MsgClaimFeesResponse struct {
	AmountX math.Int `json:"amount_x"`
	AmountY math.Int `json:"amount_y"`
}

// MsgEmergencyCloseResponse defines the response for ApplyEmergencyClose
type MsgEmergencyCloseResponse struct {
	PositionRef string   `json:"position_ref"`
	AmountX     math.Int `json:"amount_x"`
	AmountY     math.Int `json:"amount_y"`
}

// MsgSweepRoverResponse defines the response for SweepRover
type MsgSweepRoverResponse struct {
	Amount math.Int `json:"amount"`
}
