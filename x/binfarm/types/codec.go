package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/cosmos/cosmos-sdk/types/address"
	govtypes "github.com/cosmos/cosmos-sdk/x/gov/types"
)

// RegisterLegacyAminoCodec registers the binfarm messages on the LegacyAmino codec
func RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgOpenPosition{}, "binfarm/MsgOpenPosition", nil)
	cdc.RegisterConcrete(&MsgHarvestBins{}, "binfarm/MsgHarvestBins", nil)
	cdc.RegisterConcrete(&MsgClosePosition{}, "binfarm/MsgClosePosition", nil)
	cdc.RegisterConcrete(&MsgUserClose{}, "binfarm/MsgUserClose", nil)
	cdc.RegisterConcrete(&MsgClaimFees{}, "binfarm/MsgClaimFees", nil)
	cdc.RegisterConcrete(&MsgProposeFee{}, "binfarm/MsgProposeFee", nil)
	cdc.RegisterConcrete(&MsgApplyFee{}, "binfarm/MsgApplyFee", nil)
	cdc.RegisterConcrete(&MsgCancelPendingFee{}, "binfarm/MsgCancelPendingFee", nil)
	cdc.RegisterConcrete(&MsgTransferAuthority{}, "binfarm/MsgTransferAuthority", nil)
	cdc.RegisterConcrete(&MsgAcceptAuthority{}, "binfarm/MsgAcceptAuthority", nil)
	cdc.RegisterConcrete(&MsgSetPaused{}, "binfarm/MsgSetPaused", nil)
	cdc.RegisterConcrete(&MsgSetAgentPaused{}, "binfarm/MsgSetAgentPaused", nil)
	cdc.RegisterConcrete(&MsgUpdateAgent{}, "binfarm/MsgUpdateAgent", nil)
	cdc.RegisterConcrete(&MsgUpdateKeeperTip{}, "binfarm/MsgUpdateKeeperTip", nil)
	cdc.RegisterConcrete(&MsgUpdateStalenessThreshold{}, "binfarm/MsgUpdateStalenessThreshold", nil)
	cdc.RegisterConcrete(&MsgUpdateParams{}, "binfarm/MsgUpdateParams", nil)
	cdc.RegisterConcrete(&MsgProposeEmergencyClose{}, "binfarm/MsgProposeEmergencyClose", nil)
	cdc.RegisterConcrete(&MsgApplyEmergencyClose{}, "binfarm/MsgApplyEmergencyClose", nil)
	cdc.RegisterConcrete(&MsgOpenRoverPosition{}, "binfarm/MsgOpenRoverPosition", nil)
	cdc.RegisterConcrete(&MsgOpenFeeRover{}, "binfarm/MsgOpenFeeRover", nil)
	cdc.RegisterConcrete(&MsgSweepRover{}, "binfarm/MsgSweepRover", nil)
	cdc.RegisterConcrete(&MsgProposeRevenueDest{}, "binfarm/MsgProposeRevenueDest", nil)
	cdc.RegisterConcrete(&MsgApplyRevenueDest{}, "binfarm/MsgApplyRevenueDest", nil)
	cdc.RegisterConcrete(&MsgCancelPendingRevenueDest{}, "binfarm/MsgCancelPendingRevenueDest", nil)
}

// DefaultGovAuthority returns the x/gov module account, the default signer
// of MsgUpdateParams.
func DefaultGovAuthority() []byte {
	return address.Module(govtypes.ModuleName)
}

var (
	amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewAminoCodec(amino)
)

func init() {
	RegisterLegacyAminoCodec(amino)
	amino.Seal()
}
