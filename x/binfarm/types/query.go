package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer defines the read-only query surface
type QueryServer interface {
	Config(context.Context, *QueryConfigRequest) (*QueryConfigResponse, error)
	Params(context.Context, *QueryParamsRequest) (*QueryParamsResponse, error)
	Position(context.Context, *QueryPositionRequest) (*QueryPositionResponse, error)
	PositionsByOwner(context.Context, *QueryPositionsByOwnerRequest) (*QueryPositionsByOwnerResponse, error)
	VaultBalances(context.Context, *QueryVaultBalancesRequest) (*QueryVaultBalancesResponse, error)
	RoverAuthority(context.Context, *QueryRoverAuthorityRequest) (*QueryRoverAuthorityResponse, error)
	PendingChanges(context.Context, *QueryPendingChangesRequest) (*QueryPendingChangesResponse, error)
}

type QueryConfigRequest struct{}

type QueryConfigResponse struct {
	Config ProtocolConfig `json:"config"`
}

type QueryParamsRequest struct{}

type QueryParamsResponse struct {
	Params Params `json:"params"`
}

type QueryPositionRequest struct {
	PositionRef string `json:"position_ref"`
}

type QueryPositionResponse struct {
	Position Position `json:"position"`
	Vault    Vault    `json:"vault"`
}

type QueryPositionsByOwnerRequest struct {
	Owner string `json:"owner"`
}

type QueryPositionsByOwnerResponse struct {
	Positions []Position `json:"positions"`
}

type QueryVaultBalancesRequest struct {
	PositionRef string `json:"position_ref"`
}

type QueryVaultBalancesResponse struct {
	Vault   string   `json:"vault"`
	AmountX math.Int `json:"amount_x"`
	AmountY math.Int `json:"amount_y"`
}

type QueryRoverAuthorityRequest struct{}

type QueryRoverAuthorityResponse struct {
	RoverAuthority RoverAuthority `json:"rover_authority"`
}

type QueryPendingChangesRequest struct{}

// QueryPendingChangesResponse lists every queued timelocked change; a zero
// effective time means nothing is pending.
type QueryPendingChangesResponse struct {
	PendingFeeBps             uint32 `json:"pending_fee_bps"`
	FeeEffectiveAt            int64  `json:"fee_effective_at"`
	PendingRevenueDest        string `json:"pending_revenue_dest,omitempty"`
	RevenueDestChangeAt       int64  `json:"revenue_dest_change_at"`
	EmergencyCloseTarget      string `json:"emergency_close_target,omitempty"`
	EmergencyCloseEffectiveAt int64  `json:"emergency_close_effective_at"`
	PendingAuthority          string `json:"pending_authority,omitempty"`
}
