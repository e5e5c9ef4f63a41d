package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

var bpsDenominator = math.NewIntFromUint64(uint64(types.BpsDenominator))

// ComputeFeeSplit returns fee = floor(base*feeBps/10000) and, when a keeper
// tip applies, tip = floor(fee*tipBps/10000). protocol = fee - tip.
func ComputeFeeSplit(base math.Int, feeBps, tipBps uint32, withTip bool) (fee, tip, protocol math.Int, err error) {
	fee, err = SafeMulDiv(base, math.NewIntFromUint64(uint64(feeBps)), bpsDenominator)
	if err != nil {
		return fee, tip, protocol, err
	}
	tip = math.ZeroInt()
	if withTip {
		tip, err = SafeMulDiv(fee, math.NewIntFromUint64(uint64(tipBps)), bpsDenominator)
		if err != nil {
			return fee, tip, protocol, err
		}
	}
	protocol, err = SafeSub(fee, tip)
	return fee, tip, protocol, err
}

// computePayout splits the vault's converted balance. The fee is charged on
// feeBase only; the owner receives everything else the vault holds.
func computePayout(converted, deposit, feeBase math.Int, cfg types.ProtocolConfig, auth agentAuth) (types.Payout, error) {
	fee, tip, protocol, err := ComputeFeeSplit(feeBase, cfg.FeeBps, cfg.KeeperTipBps, auth.fallback)
	if err != nil {
		return types.Payout{}, err
	}
	userConverted, err := SafeSub(converted, fee)
	if err != nil {
		return types.Payout{}, err
	}
	return types.Payout{
		Delta:         feeBase,
		Fee:           fee,
		Tip:           tip,
		ProtocolFee:   protocol,
		UserConverted: userConverted,
		UserDeposit:   deposit,
	}, nil
}

// distributePayout empties the vault: keeper tip, protocol fee to the rover
// authority, then the owner's share of both sides.
func (k Keeper) distributePayout(ctx context.Context, pos types.Position, vault types.Vault, payout types.Payout, auth agentAuth, action string) error {
	convertedDenom := pos.Side.ConvertedDenom(vault.DenomX, vault.DenomY)
	depositDenom := pos.Side.DepositDenom(vault.DenomX, vault.DenomY)
	memo := fmt.Sprintf("binfarm %s %s", action, pos.PositionRef)

	if auth.fallback && payout.Tip.IsPositive() {
		if err := k.signedTransfer(ctx, vault.Address, auth.tipRecipient, convertedDenom, payout.Tip, memo+" keeper tip"); err != nil {
			return err
		}
	}
	if err := k.signedTransfer(ctx, vault.Address, types.RoverAuthorityAddress(), convertedDenom, payout.ProtocolFee, memo+" protocol fee"); err != nil {
		return err
	}
	if err := k.signedTransfer(ctx, vault.Address, pos.Owner, convertedDenom, payout.UserConverted, memo); err != nil {
		return err
	}
	return k.signedTransfer(ctx, vault.Address, pos.Owner, depositDenom, payout.UserDeposit, memo)
}

// payoutAttributes renders a payout as event attributes
func payoutAttributes(payout types.Payout, auth agentAuth) []sdk.Attribute {
	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyDelta, payout.Delta.String()),
		sdk.NewAttribute(types.AttributeKeyFee, payout.Fee.String()),
		sdk.NewAttribute(types.AttributeKeyProtocolFee, payout.ProtocolFee.String()),
		sdk.NewAttribute(types.AttributeKeyUserPayout, payout.UserConverted.String()),
		sdk.NewAttribute(types.AttributeKeyTip, payout.Tip.String()),
	}
	if auth.fallback {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyTipRecipient, auth.tipRecipient.String()))
	}
	return attrs
}
