package keeper

import (
	"math/big"

	"cosmossdk.io/errors"
	"cosmossdk.io/math"

	"github.com/monkearmy/binfarm/x/binfarm/types"
)

// maxAmount is the exclusive upper bound of every amount (2^256)
var maxAmount = new(big.Int).Lsh(big.NewInt(1), 256)

// maxAmountInt is the largest representable amount (2^256 - 1)
var maxAmountInt = math.NewIntFromBigInt(new(big.Int).Sub(maxAmount, big.NewInt(1)))

// SafeAdd adds two amounts with overflow checking
func SafeAdd(a, b math.Int) (math.Int, error) {
	result := new(big.Int).Add(a.BigInt(), b.BigInt())
	if result.Cmp(maxAmount) >= 0 {
		return math.Int{}, errors.Wrap(types.ErrOverflow, "addition result exceeds maximum value")
	}
	return math.NewIntFromBigInt(result), nil
}

// SafeSub subtracts two amounts with underflow checking
func SafeSub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, errors.Wrapf(types.ErrOverflow, "underflow: cannot subtract %s from %s", b, a)
	}
	return a.Sub(b), nil
}

// SafeMulDiv performs floor((a * b) / c) with overflow protection on the product
func SafeMulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, errors.Wrap(types.ErrOverflow, "division by zero")
	}

	intermediate := new(big.Int).Mul(a.BigInt(), b.BigInt())
	if intermediate.Cmp(maxAmount) >= 0 {
		return math.Int{}, errors.Wrap(types.ErrOverflow, "overflow in multiplication step")
	}

	return math.NewIntFromBigInt(new(big.Int).Quo(intermediate, c.BigInt())), nil
}

// SaturatingAdd adds two amounts, clamping at the maximum representable value
func SaturatingAdd(a, b math.Int) math.Int {
	sum, err := SafeAdd(a, b)
	if err != nil {
		return maxAmountInt
	}
	return sum
}

// SaturatingAddUint64 adds two counters, clamping at the uint64 maximum
func SaturatingAddUint64(a, b uint64) uint64 {
	if a > (1<<64 - 1 - b) {
		return 1<<64 - 1
	}
	return a + b
}
