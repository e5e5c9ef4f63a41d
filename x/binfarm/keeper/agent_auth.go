package keeper

import (
	"context"

	"cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// agentAuth is the outcome of the two-branch agent check. The only behavior
// that differs between branches downstream is the keeper tip.
type agentAuth struct {
	fallback     bool
	tipRecipient sdk.AccAddress
}

// authorizeAgentAction admits the designated agent, refreshing heartbeat, or
// any caller once heartbeat is older than the staleness threshold. Fallback
// callers must name a tip recipient.
func authorizeAgentAction(ctx context.Context, cfg *types.ProtocolConfig, caller sdk.AccAddress, heartbeat *uint64, tipRecipient string) (agentAuth, error) {
	height := uint64(sdk.UnwrapSDKContext(ctx).BlockHeight())

	if caller.Equals(cfg.Agent) {
		*heartbeat = height
		return agentAuth{}, nil
	}

	if height < *heartbeat {
		return agentAuth{}, errors.Wrapf(types.ErrOverflow, "height %d behind heartbeat %d", height, *heartbeat)
	}
	if since := height - *heartbeat; since <= cfg.StalenessThreshold {
		return agentAuth{}, errors.Wrapf(types.ErrAgentNotStale, "%d blocks since last agent action, threshold %d", since, cfg.StalenessThreshold)
	}

	if tipRecipient == "" {
		return agentAuth{}, errors.Wrap(types.ErrInvalidTipRecipient, "tip recipient required")
	}
	recipient, err := sdk.AccAddressFromBech32(tipRecipient)
	if err != nil {
		return agentAuth{}, errors.Wrap(types.ErrInvalidTipRecipient, err.Error())
	}
	return agentAuth{fallback: true, tipRecipient: recipient}, nil
}

// validateTipRecipient rejects recipients that alias an account the payout
// already routes to, and recipients that cannot receive the converted denom.
func (k Keeper) validateTipRecipient(ctx context.Context, auth agentAuth, pos types.Position, vault types.Vault) error {
	if !auth.fallback {
		return nil
	}
	r := auth.tipRecipient
	switch {
	case r.Equals(types.RoverAuthorityAddress()):
		return errors.Wrap(types.ErrInvalidTipRecipient, "tip recipient is the protocol fee account")
	case r.Equals(pos.Owner):
		return errors.Wrap(types.ErrInvalidTipRecipient, "tip recipient is the position owner")
	case r.Equals(vault.Address):
		return errors.Wrap(types.ErrInvalidTipRecipient, "tip recipient is the position vault")
	case k.bankKeeper.BlockedAddr(r):
		return errors.Wrapf(types.ErrInvalidTipRecipient, "%s is not allowed to receive funds", r)
	}

	denom := pos.Side.ConvertedDenom(vault.DenomX, vault.DenomY)
	if err := k.bankKeeper.IsSendEnabledCoins(ctx, sdk.NewInt64Coin(denom, 1)); err != nil {
		return errors.Wrapf(types.ErrInvalidTipRecipient, "converted denom %s: %s", denom, err)
	}
	return nil
}
