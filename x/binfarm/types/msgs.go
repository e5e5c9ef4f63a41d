package types

import (
	"cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// validateAddress parses a bech32 account address, wrapping failures
func validateAddress(field, addr string) error {
	if _, err := sdk.AccAddressFromBech32(addr); err != nil {
		return errors.Wrapf(ErrInvalidAddress, "invalid %s address (%s)", field, err)
	}
	return nil
}

func validateRef(field, ref string) error {
	if ref == "" {
		return errors.Wrapf(ErrPositionNotFound, "%s cannot be empty", field)
	}
	return nil
}

// validatePositiveAmount rejects nil, zero and negative amounts
func validatePositiveAmount(amount math.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return ErrZeroAmount
	}
	return nil
}

// MsgOpenPosition deposits one side of a pair into a new bin-range position.
type MsgOpenPosition struct {
	Owner                string   `json:"owner"`
	PoolRef              string   `json:"pool_ref"`
	Amount               math.Int `json:"amount"`
	MinBin               int32    `json:"min_bin"`
	MaxBin               int32    `json:"max_bin"`
	MaxActiveBinSlippage uint32   `json:"max_active_bin_slippage"`
}

// NewMsgOpenPosition creates a new MsgOpenPosition instance
func NewMsgOpenPosition(owner, poolRef string, amount math.Int, minBin, maxBin int32, slippage uint32) *MsgOpenPosition {
	return &MsgOpenPosition{
		Owner:                owner,
		PoolRef:              poolRef,
		Amount:               amount,
		MinBin:               minBin,
		MaxBin:               maxBin,
		MaxActiveBinSlippage: slippage,
	}
}

// ValidateBasic performs stateless checks
func (m *MsgOpenPosition) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	if m.PoolRef == "" {
		return errors.Wrap(ErrInvalidPool, "pool ref cannot be empty")
	}
	if err := validatePositiveAmount(m.Amount); err != nil {
		return err
	}
	if m.MaxActiveBinSlippage > MaxActiveBinSlippage {
		return errors.Wrapf(ErrInvalidSlippage, "%d", m.MaxActiveBinSlippage)
	}
	if m.MinBin > m.MaxBin {
		return errors.Wrapf(ErrInvalidBinRange, "min %d > max %d", m.MinBin, m.MaxBin)
	}
	if width := int64(m.MaxBin) - int64(m.MinBin) + 1; width > int64(MaxPositionWidth) {
		return errors.Wrapf(ErrPositionTooWide, "width %d exceeds %d", width, MaxPositionWidth)
	}
	return nil
}

// MsgHarvestBins withdraws converted liquidity from a contiguous bin run.
type MsgHarvestBins struct {
	Caller       string  `json:"caller"`
	PositionRef  string  `json:"position_ref"`
	BinIDs       []int32 `json:"bin_ids"`
	TipRecipient string  `json:"tip_recipient,omitempty"`
}

// ValidateBasic performs stateless checks, including bin contiguity
func (m *MsgHarvestBins) ValidateBasic() error {
	if err := validateAddress("caller", m.Caller); err != nil {
		return err
	}
	if err := validateRef("position ref", m.PositionRef); err != nil {
		return err
	}
	if m.TipRecipient != "" {
		if err := validateAddress("tip recipient", m.TipRecipient); err != nil {
			return err
		}
	}
	_, _, err := ContiguousBinRange(m.BinIDs, MaxPositionWidth)
	return err
}

// ContiguousBinRange returns the bounds of ids, which must be a non-empty
// set of at most maxBins distinct, gap-free bin ids in any order.
func ContiguousBinRange(ids []int32, maxBins uint32) (from, to int32, err error) {
	if len(ids) == 0 {
		return 0, 0, ErrNoBinsProvided
	}
	if uint64(len(ids)) > uint64(maxBins) {
		return 0, 0, errors.Wrapf(ErrTooManyBins, "%d > %d", len(ids), maxBins)
	}

	seen := make(map[int32]struct{}, len(ids))
	from, to = ids[0], ids[0]
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return 0, 0, errors.Wrapf(ErrDuplicateBin, "%d", id)
		}
		seen[id] = struct{}{}
		if id < from {
			from = id
		}
		if id > to {
			to = id
		}
	}
	if int64(to)-int64(from)+1 != int64(len(ids)) {
		return 0, 0, errors.Wrapf(ErrNonContiguousBins, "[%d,%d] with %d ids", from, to, len(ids))
	}
	return from, to, nil
}

// MsgClosePosition is the agent (or stale-agent fallback) close.
type MsgClosePosition struct {
	Caller       string `json:"caller"`
	PositionRef  string `json:"position_ref"`
	TipRecipient string `json:"tip_recipient,omitempty"`
}

func (m *MsgClosePosition) ValidateBasic() error {
	if err := validateAddress("caller", m.Caller); err != nil {
		return err
	}
	if m.TipRecipient != "" {
		if err := validateAddress("tip recipient", m.TipRecipient); err != nil {
			return err
		}
	}
	return validateRef("position ref", m.PositionRef)
}

// MsgUserClose is the owner's unconditional exit.
type MsgUserClose struct {
	Owner       string `json:"owner"`
	PositionRef string `json:"position_ref"`
}

func (m *MsgUserClose) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	return validateRef("position ref", m.PositionRef)
}

// MsgClaimFees pays accrued trading fees to the owner without closing.
type MsgClaimFees struct {
	Owner       string `json:"owner"`
	PositionRef string `json:"position_ref"`
}

func (m *MsgClaimFees) ValidateBasic() error {
	if err := validateAddress("owner", m.Owner); err != nil {
		return err
	}
	return validateRef("position ref", m.PositionRef)
}

// MsgProposeFee queues a timelocked protocol fee change.
type MsgProposeFee struct {
	Authority string `json:"authority"`
	FeeBps    uint32 `json:"fee_bps"`
}

func (m *MsgProposeFee) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if m.FeeBps > MaxFeeBps {
		return errors.Wrapf(ErrFeeTooHigh, "%d exceeds %d", m.FeeBps, MaxFeeBps)
	}
	return nil
}

// MsgApplyFee applies a pending fee change once its timelock has expired.
type MsgApplyFee struct {
	Caller string `json:"caller"`
}

func (m *MsgApplyFee) ValidateBasic() error {
	return validateAddress("caller", m.Caller)
}

// MsgCancelPendingFee drops a pending fee change.
type MsgCancelPendingFee struct {
	Authority string `json:"authority"`
}

func (m *MsgCancelPendingFee) ValidateBasic() error {
	return validateAddress("authority", m.Authority)
}

// MsgTransferAuthority nominates a new protocol authority.
type MsgTransferAuthority struct {
	Authority    string `json:"authority"`
	NewAuthority string `json:"new_authority"`
}

func (m *MsgTransferAuthority) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return validateAddress("new authority", m.NewAuthority)
}

// MsgAcceptAuthority completes a two-step authority transfer.
type MsgAcceptAuthority struct {
	NewAuthority string `json:"new_authority"`
}

func (m *MsgAcceptAuthority) ValidateBasic() error {
	return validateAddress("new authority", m.NewAuthority)
}

// MsgSetPaused toggles the deposit pause.
type MsgSetPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

func (m *MsgSetPaused) ValidateBasic() error {
	return validateAddress("authority", m.Authority)
}

// MsgSetAgentPaused toggles the agent close pause.
type MsgSetAgentPaused struct {
	Authority string `json:"authority"`
	Paused    bool   `json:"paused"`
}

func (m *MsgSetAgentPaused) ValidateBasic() error {
	return validateAddress("authority", m.Authority)
}

// MsgUpdateAgent replaces the designated agent.
type MsgUpdateAgent struct {
	Authority string `json:"authority"`
	NewAgent  string `json:"new_agent"`
}

func (m *MsgUpdateAgent) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return validateAddress("new agent", m.NewAgent)
}

// MsgUpdateKeeperTip sets the share of the fee paid to fallback callers.
type MsgUpdateKeeperTip struct {
	Authority    string `json:"authority"`
	KeeperTipBps uint32 `json:"keeper_tip_bps"`
}

func (m *MsgUpdateKeeperTip) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if m.KeeperTipBps > MaxKeeperTipBps {
		return errors.Wrapf(ErrFeeTooHigh, "keeper tip %d exceeds %d", m.KeeperTipBps, MaxKeeperTipBps)
	}
	return nil
}

// MsgUpdateStalenessThreshold sets the agent heartbeat window in blocks.
type MsgUpdateStalenessThreshold struct {
	Authority string `json:"authority"`
	Threshold uint64 `json:"threshold"`
}

func (m *MsgUpdateStalenessThreshold) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if m.Threshold > MaxStalenessThreshold {
		return errors.Wrapf(ErrStalenessExceedsMax, "%d exceeds %d", m.Threshold, MaxStalenessThreshold)
	}
	return nil
}

// MsgUpdateParams replaces module params; signed by the governance account.
type MsgUpdateParams struct {
	Authority string `json:"authority"`
	Params    Params `json:"params"`
}

func (m *MsgUpdateParams) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return m.Params.Validate()
}

// MsgProposeEmergencyClose queues a timelocked vault drain for one position.
type MsgProposeEmergencyClose struct {
	Authority   string `json:"authority"`
	PositionRef string `json:"position_ref"`
}

func (m *MsgProposeEmergencyClose) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	return validateRef("position ref", m.PositionRef)
}

// MsgApplyEmergencyClose executes a pending emergency close.
type MsgApplyEmergencyClose struct {
	Caller string `json:"caller"`
}

func (m *MsgApplyEmergencyClose) ValidateBasic() error {
	return validateAddress("caller", m.Caller)
}

// MsgOpenRoverPosition funds a protocol-owned Sell position above the active bin.
type MsgOpenRoverPosition struct {
	Depositor string   `json:"depositor"`
	PoolRef   string   `json:"pool_ref"`
	Amount    math.Int `json:"amount"`
}

func (m *MsgOpenRoverPosition) ValidateBasic() error {
	if err := validateAddress("depositor", m.Depositor); err != nil {
		return err
	}
	if m.PoolRef == "" {
		return errors.Wrap(ErrInvalidPool, "pool ref cannot be empty")
	}
	return validatePositiveAmount(m.Amount)
}

// MsgOpenFeeRover redeploys fees held by the rover authority into a rover.
type MsgOpenFeeRover struct {
	Agent   string   `json:"agent"`
	PoolRef string   `json:"pool_ref"`
	Amount  math.Int `json:"amount"`
}

func (m *MsgOpenFeeRover) ValidateBasic() error {
	if err := validateAddress("agent", m.Agent); err != nil {
		return err
	}
	if m.PoolRef == "" {
		return errors.Wrap(ErrInvalidPool, "pool ref cannot be empty")
	}
	return validatePositiveAmount(m.Amount)
}

// MsgSweepRover moves rover revenue to the revenue destination.
type MsgSweepRover struct {
	Caller string `json:"caller"`
}

func (m *MsgSweepRover) ValidateBasic() error {
	return validateAddress("caller", m.Caller)
}

// MsgProposeRevenueDest queues a timelocked revenue destination change.
type MsgProposeRevenueDest struct {
	Authority      string `json:"authority"`
	NewRevenueDest string `json:"new_revenue_dest"`
}

func (m *MsgProposeRevenueDest) ValidateBasic() error {
	if err := validateAddress("authority", m.Authority); err != nil {
		return err
	}
	if m.NewRevenueDest == "" {
		return ErrInvalidRevenueDest
	}
	return validateAddress("revenue destination", m.NewRevenueDest)
}

// MsgApplyRevenueDest applies a pending revenue destination change.
type MsgApplyRevenueDest struct {
	Caller string `json:"caller"`
}

func (m *MsgApplyRevenueDest) ValidateBasic() error {
	return validateAddress("caller", m.Caller)
}

// MsgCancelPendingRevenueDest drops a pending revenue destination change.
type MsgCancelPendingRevenueDest struct {
	Authority string `json:"authority"`
}

func (m *MsgCancelPendingRevenueDest) ValidateBasic() error {
	return validateAddress("authority", m.Authority)
}
