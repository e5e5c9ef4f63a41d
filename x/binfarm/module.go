package binfarm

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/core/appmodule"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/monkearmy/binfarm/x/binfarm/keeper"
	"github.com/monkearmy/binfarm/x/binfarm/types"
)

var (
	_ module.HasName             = AppModuleBasic{}
	_ module.HasGenesisBasics    = AppModuleBasic{}
	_ module.HasGenesis          = AppModule{}
	_ module.HasInvariants       = AppModule{}
	_ module.HasConsensusVersion = AppModule{}

	_ appmodule.AppModule = AppModule{}
)

// AppModuleBasic defines the basic application module used by the binfarm module.
type AppModuleBasic struct{}

// Name returns the binfarm module's name.
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// RegisterLegacyAminoCodec registers the binfarm module's types on the LegacyAmino codec.
func (AppModuleBasic) RegisterLegacyAminoCodec(cdc *codec.LegacyAmino) {
	types.RegisterLegacyAminoCodec(cdc)
}

// DefaultGenesis returns default genesis state as raw bytes for the binfarm
// module. Genesis is plain JSON; the codec argument is unused.
func (AppModuleBasic) DefaultGenesis(_ codec.JSONCodec) json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesis())
	if err != nil {
		panic(fmt.Errorf("failed to marshal %s default genesis: %w", types.ModuleName, err))
	}
	return bz
}

// ValidateGenesis performs genesis state validation for the binfarm module.
func (AppModuleBasic) ValidateGenesis(_ codec.JSONCodec, _ client.TxEncodingConfig, bz json.RawMessage) error {
	genState, err := ParseGenesis(bz)
	if err != nil {
		return err
	}
	return genState.Validate()
}

// ParseGenesis decodes a raw binfarm genesis document
func ParseGenesis(bz json.RawMessage) (*types.GenesisState, error) {
	var genState types.GenesisState
	if err := json.Unmarshal(bz, &genState); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	return &genState, nil
}

// AppModule implements an application module for the binfarm module.
type AppModule struct {
	AppModuleBasic

	keeper keeper.Keeper
}

// NewAppModule creates a new AppModule object
func NewAppModule(keeper keeper.Keeper) AppModule {
	return AppModule{keeper: keeper}
}

// Name returns the binfarm module's name.
func (am AppModule) Name() string {
	return am.AppModuleBasic.Name()
}

// MsgServer returns the atomic message handlers for this module
func (am AppModule) MsgServer() types.MsgServer {
	return keeper.NewMsgServerImpl(am.keeper)
}

// QueryServer returns the read-only query handlers for this module
func (am AppModule) QueryServer() types.QueryServer {
	return keeper.NewQueryServerImpl(am.keeper)
}

// RegisterInvariants registers the binfarm module invariants.
func (am AppModule) RegisterInvariants(ir sdk.InvariantRegistry) {
	keeper.RegisterInvariants(ir, am.keeper)
}

// InitGenesis performs genesis initialization for the binfarm module.
func (am AppModule) InitGenesis(ctx sdk.Context, _ codec.JSONCodec, gs json.RawMessage) {
	genState, err := ParseGenesis(gs)
	if err != nil {
		panic(err)
	}
	if err := am.keeper.InitGenesis(ctx, *genState); err != nil {
		panic(err)
	}
}

// ExportGenesis returns the exported genesis state as raw bytes for the
// binfarm module.
func (am AppModule) ExportGenesis(ctx sdk.Context, _ codec.JSONCodec) json.RawMessage {
	genState, err := am.keeper.ExportGenesis(ctx)
	if err != nil {
		panic(err)
	}
	bz, err := json.Marshal(genState)
	if err != nil {
		panic(err)
	}
	return bz
}

// ConsensusVersion implements ConsensusVersion.
func (AppModule) ConsensusVersion() uint64 { return 1 }

// IsOnePerModuleType implements the depinject.OnePerModuleType interface.
func (am AppModule) IsOnePerModuleType() {}

// IsAppModule implements the appmodule.AppModule interface.
func (am AppModule) IsAppModule() {}
