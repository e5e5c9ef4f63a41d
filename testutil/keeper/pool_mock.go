package keeper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// MockProgramID is the program identity the mock pool reports by default
const MockProgramID = "dlmm"

// ErrPoolUnavailable is returned by every mock pool call while broken
var ErrPoolUnavailable = errors.New("pool service unavailable")

// MockPoolService is a store-backed bin pool. Reserves sit at a derived pool
// account in the mock bank; bins hold plain (x, y) amounts.
type MockPoolService struct {
	storeKey  storetypes.StoreKey
	bank      *MockBankKeeper
	programID string
	broken    bool
}

type mockBin struct {
	X math.Int `json:"x"`
	Y math.Int `json:"y"`
}

type mockPosition struct {
	PoolRef      string            `json:"pool_ref"`
	Owner        sdk.AccAddress    `json:"owner"`
	Lower        int32             `json:"lower"`
	Upper        int32             `json:"upper"`
	Bins         map[int32]mockBin `json:"bins"`
	FeeX         math.Int          `json:"fee_x"`
	FeeY         math.Int          `json:"fee_y"`
	Closed       bool              `json:"closed"`
	RentReceiver sdk.AccAddress    `json:"rent_receiver,omitempty"`
}

var (
	poolPrefix     = []byte{0x01}
	positionPrefix = []byte{0x02}
)

// NewMockPoolService creates a pool service over its own store key
func NewMockPoolService(key storetypes.StoreKey, bank *MockBankKeeper) *MockPoolService {
	return &MockPoolService{storeKey: key, bank: bank, programID: MockProgramID}
}

// PoolAddress is the reserve account of a mock pool
func PoolAddress(poolRef string) sdk.AccAddress {
	return sdk.AccAddress(address.Module("mockpool", []byte(poolRef)))
}

func (p *MockPoolService) store(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(p.storeKey)
}

func (p *MockPoolService) get(ctx context.Context, prefix []byte, ref string, out any) error {
	bz := p.store(ctx).Get(append(append([]byte{}, prefix...), []byte(ref)...))
	if bz == nil {
		return fmt.Errorf("%s not found", ref)
	}
	return json.Unmarshal(bz, out)
}

func (p *MockPoolService) set(ctx context.Context, prefix []byte, ref string, v any) {
	bz, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	p.store(ctx).Set(append(append([]byte{}, prefix...), []byte(ref)...), bz)
}

func (p *MockPoolService) position(ctx context.Context, ref string) (mockPosition, error) {
	var pos mockPosition
	if err := p.get(ctx, positionPrefix, ref, &pos); err != nil {
		return pos, err
	}
	if pos.Closed {
		return pos, fmt.Errorf("position %s is closed", ref)
	}
	return pos, nil
}

// CreatePool registers a pool
func (p *MockPoolService) CreatePool(ctx context.Context, poolRef string, state types.PoolState) {
	p.set(ctx, poolPrefix, poolRef, state)
}

// SetActiveBin moves the pool's active bin
func (p *MockPoolService) SetActiveBin(ctx context.Context, poolRef string, active int32) {
	var state types.PoolState
	if err := p.get(ctx, poolPrefix, poolRef, &state); err != nil {
		panic(err)
	}
	state.ActiveBin = active
	p.set(ctx, poolPrefix, poolRef, state)
}

// SetProgramID changes the reported program identity
func (p *MockPoolService) SetProgramID(id string) {
	p.programID = id
}

// SetBroken makes every call fail while set
func (p *MockPoolService) SetBroken(broken bool) {
	p.broken = broken
}

// SetPositionOwner overrides the owner the pool reports for ref
func (p *MockPoolService) SetPositionOwner(ctx context.Context, ref string, owner sdk.AccAddress) {
	pos, err := p.position(ctx, ref)
	if err != nil {
		panic(err)
	}
	pos.Owner = owner
	p.set(ctx, positionPrefix, ref, pos)
}

// ConvertBins simulates trades through [from, to]: the deposited side of each
// bin is consumed and outPerBin of the other side is credited.
func (p *MockPoolService) ConvertBins(ctx context.Context, ref string, from, to int32, outPerBin math.Int) {
	pos, err := p.position(ctx, ref)
	if err != nil {
		panic(err)
	}
	for bin := from; bin <= to; bin++ {
		b, ok := pos.Bins[bin]
		if !ok {
			continue
		}
		if b.X.IsPositive() {
			b = mockBin{X: math.ZeroInt(), Y: b.Y.Add(outPerBin)}
			p.mintReserve(ctx, pos.PoolRef, true, outPerBin)
		} else if b.Y.IsPositive() {
			b = mockBin{X: b.X.Add(outPerBin), Y: math.ZeroInt()}
			p.mintReserve(ctx, pos.PoolRef, false, outPerBin)
		}
		pos.Bins[bin] = b
	}
	p.set(ctx, positionPrefix, ref, pos)
}

// AccrueFees credits trading fees to a position
func (p *MockPoolService) AccrueFees(ctx context.Context, ref string, feeX, feeY math.Int) {
	pos, err := p.position(ctx, ref)
	if err != nil {
		panic(err)
	}
	pos.FeeX = pos.FeeX.Add(feeX)
	pos.FeeY = pos.FeeY.Add(feeY)
	p.mintReserve(ctx, pos.PoolRef, false, feeX)
	p.mintReserve(ctx, pos.PoolRef, true, feeY)
	p.set(ctx, positionPrefix, ref, pos)
}

// mintReserve credits the pool account with newly converted tokens
func (p *MockPoolService) mintReserve(ctx context.Context, poolRef string, isY bool, amount math.Int) {
	var state types.PoolState
	if err := p.get(ctx, poolPrefix, poolRef, &state); err != nil {
		panic(err)
	}
	denom := state.DenomX
	if isY {
		denom = state.DenomY
	}
	if amount.IsPositive() {
		p.bank.Mint(ctx, PoolAddress(poolRef), sdk.NewCoin(denom, amount))
	}
}

// BinLiquidity returns the (x, y) held by one bin of a position
func (p *MockPoolService) BinLiquidity(ctx context.Context, ref string, bin int32) (math.Int, math.Int) {
	pos, err := p.position(ctx, ref)
	if err != nil {
		return math.ZeroInt(), math.ZeroInt()
	}
	b, ok := pos.Bins[bin]
	if !ok {
		return math.ZeroInt(), math.ZeroInt()
	}
	return b.X, b.Y
}

// IsClosed reports whether ref was closed and who received the rent
func (p *MockPoolService) IsClosed(ctx context.Context, ref string) (bool, sdk.AccAddress) {
	var pos mockPosition
	if err := p.get(ctx, positionPrefix, ref, &pos); err != nil {
		return false, nil
	}
	return pos.Closed, pos.RentReceiver
}

// ProgramID implements types.PoolService
func (p *MockPoolService) ProgramID() string {
	return p.programID
}

// PoolState implements types.PoolService
func (p *MockPoolService) PoolState(ctx context.Context, poolRef string) (types.PoolState, error) {
	if p.broken {
		return types.PoolState{}, ErrPoolUnavailable
	}
	var state types.PoolState
	err := p.get(ctx, poolPrefix, poolRef, &state)
	return state, err
}

// OpenRangePosition implements types.PoolService
func (p *MockPoolService) OpenRangePosition(ctx context.Context, poolRef, ref string, owner sdk.AccAddress, lower int32, width uint32) error {
	if p.broken {
		return ErrPoolUnavailable
	}
	if _, err := p.PoolState(ctx, poolRef); err != nil {
		return err
	}
	if p.store(ctx).Has(append(append([]byte{}, positionPrefix...), []byte(ref)...)) {
		return fmt.Errorf("position %s already exists", ref)
	}
	if width == 0 || width > types.MaxPositionWidth {
		return fmt.Errorf("invalid width %d", width)
	}
	p.set(ctx, positionPrefix, ref, mockPosition{
		PoolRef: poolRef,
		Owner:   owner,
		Lower:   lower,
		Upper:   lower + int32(width) - 1,
		Bins:    map[int32]mockBin{},
		FeeX:    math.ZeroInt(),
		FeeY:    math.ZeroInt(),
	})
	return nil
}

// AddLiquidityOneSided implements types.PoolService. The amount is spread
// evenly over the range with the remainder in the last bin.
func (p *MockPoolService) AddLiquidityOneSided(ctx context.Context, ref string, owner sdk.AccAddress, amountX, amountY math.Int, lower, upper, activeBin int32, slippage uint32) error {
	if p.broken {
		return ErrPoolUnavailable
	}
	pos, err := p.position(ctx, ref)
	if err != nil {
		return err
	}
	if !owner.Equals(pos.Owner) {
		return fmt.Errorf("%s does not own %s", owner, ref)
	}
	state, err := p.PoolState(ctx, pos.PoolRef)
	if err != nil {
		return err
	}
	if diff := int64(state.ActiveBin) - int64(activeBin); diff > int64(slippage) || -diff > int64(slippage) {
		return fmt.Errorf("active bin moved from %d to %d", activeBin, state.ActiveBin)
	}
	if lower < pos.Lower || upper > pos.Upper {
		return fmt.Errorf("range [%d,%d] outside position", lower, upper)
	}

	coins := sdk.NewCoins()
	if amountX.IsPositive() {
		coins = coins.Add(sdk.NewCoin(state.DenomX, amountX))
	}
	if amountY.IsPositive() {
		coins = coins.Add(sdk.NewCoin(state.DenomY, amountY))
	}
	if err := p.bank.SendCoins(ctx, owner, PoolAddress(pos.PoolRef), coins); err != nil {
		return err
	}

	n := math.NewInt(int64(upper) - int64(lower) + 1)
	perX, perY := amountX.Quo(n), amountY.Quo(n)
	restX, restY := amountX.Sub(perX.Mul(n)), amountY.Sub(perY.Mul(n))
	for bin := lower; bin <= upper; bin++ {
		b, ok := pos.Bins[bin]
		if !ok {
			b = mockBin{X: math.ZeroInt(), Y: math.ZeroInt()}
		}
		b.X, b.Y = b.X.Add(perX), b.Y.Add(perY)
		if bin == upper {
			b.X, b.Y = b.X.Add(restX), b.Y.Add(restY)
		}
		pos.Bins[bin] = b
	}
	p.set(ctx, positionPrefix, ref, pos)
	return nil
}

// RemoveLiquidityByRange implements types.PoolService
func (p *MockPoolService) RemoveLiquidityByRange(ctx context.Context, ref string, owner sdk.AccAddress, from, to int32, bps uint32) error {
	if p.broken {
		return ErrPoolUnavailable
	}
	pos, err := p.position(ctx, ref)
	if err != nil {
		return err
	}
	if !owner.Equals(pos.Owner) {
		return fmt.Errorf("%s does not own %s", owner, ref)
	}
	state, err := p.PoolState(ctx, pos.PoolRef)
	if err != nil {
		return err
	}

	outX, outY := math.ZeroInt(), math.ZeroInt()
	share := math.NewInt(int64(bps))
	for bin := from; bin <= to; bin++ {
		b, ok := pos.Bins[bin]
		if !ok {
			continue
		}
		x := b.X.Mul(share).QuoRaw(10_000)
		y := b.Y.Mul(share).QuoRaw(10_000)
		outX, outY = outX.Add(x), outY.Add(y)
		pos.Bins[bin] = mockBin{X: b.X.Sub(x), Y: b.Y.Sub(y)}
	}
	p.set(ctx, positionPrefix, ref, pos)
	return p.payOut(ctx, pos.PoolRef, state, owner, outX, outY)
}

// ClaimAccruedFees implements types.PoolService
func (p *MockPoolService) ClaimAccruedFees(ctx context.Context, ref string, owner sdk.AccAddress, _, _ int32) error {
	if p.broken {
		return ErrPoolUnavailable
	}
	pos, err := p.position(ctx, ref)
	if err != nil {
		return err
	}
	if !owner.Equals(pos.Owner) {
		return fmt.Errorf("%s does not own %s", owner, ref)
	}
	state, err := p.PoolState(ctx, pos.PoolRef)
	if err != nil {
		return err
	}
	feeX, feeY := pos.FeeX, pos.FeeY
	pos.FeeX, pos.FeeY = math.ZeroInt(), math.ZeroInt()
	p.set(ctx, positionPrefix, ref, pos)
	return p.payOut(ctx, pos.PoolRef, state, owner, feeX, feeY)
}

// ClosePosition implements types.PoolService; the position must be empty
func (p *MockPoolService) ClosePosition(ctx context.Context, ref string, owner, rentReceiver sdk.AccAddress) error {
	if p.broken {
		return ErrPoolUnavailable
	}
	pos, err := p.position(ctx, ref)
	if err != nil {
		return err
	}
	if !owner.Equals(pos.Owner) {
		return fmt.Errorf("%s does not own %s", owner, ref)
	}
	for bin, b := range pos.Bins {
		if !b.X.IsZero() || !b.Y.IsZero() {
			return fmt.Errorf("bin %d still holds liquidity", bin)
		}
	}
	if !pos.FeeX.IsZero() || !pos.FeeY.IsZero() {
		return fmt.Errorf("unclaimed fees on %s", ref)
	}
	pos.Closed = true
	pos.RentReceiver = rentReceiver
	p.set(ctx, positionPrefix, ref, pos)
	return nil
}

// PositionOwner implements types.PoolService
func (p *MockPoolService) PositionOwner(ctx context.Context, ref string) (sdk.AccAddress, error) {
	if p.broken {
		return nil, ErrPoolUnavailable
	}
	pos, err := p.position(ctx, ref)
	if err != nil {
		return nil, err
	}
	return pos.Owner, nil
}

func (p *MockPoolService) payOut(ctx context.Context, poolRef string, state types.PoolState, to sdk.AccAddress, x, y math.Int) error {
	coins := sdk.NewCoins()
	if x.IsPositive() {
		coins = coins.Add(sdk.NewCoin(state.DenomX, x))
	}
	if y.IsPositive() {
		coins = coins.Add(sdk.NewCoin(state.DenomY, y))
	}
	if coins.IsZero() {
		return nil
	}
	return p.bank.SendCoins(ctx, PoolAddress(poolRef), to, coins)
}
