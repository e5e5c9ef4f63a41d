package types

// Event types for the binfarm module
const (
	// Position lifecycle
	EventTypePositionOpened = "position_opened"
	EventTypeHarvest        = "harvest"
	EventTypeHarvestEmpty   = "harvest_empty"
	EventTypeFeesClaimed    = "fees_claimed"
	EventTypePositionClosed = "position_closed"

	// Governance
	EventTypeFeeChangeProposed      = "fee_change_proposed"
	EventTypeFeeChangeApplied       = "fee_change_applied"
	EventTypeFeeChangeCancelled     = "fee_change_cancelled"
	EventTypeAuthorityTransferred   = "authority_transferred"
	EventTypeAuthorityProposed      = "authority_proposed"
	EventTypeAdminConfigChanged     = "admin_config_changed"
	EventTypeParamsUpdated          = "params_updated"
	EventTypeEmergencyCloseProposed = "emergency_close_proposed"
	EventTypeEmergencyClose         = "emergency_close"

	// Rover
	EventTypeRoverOpened          = "rover_opened"
	EventTypeRoverSwept           = "rover_swept"
	EventTypeRevenueDestProposed  = "revenue_dest_proposed"
	EventTypeRevenueDestApplied   = "revenue_dest_applied"
	EventTypeRevenueDestCancelled = "revenue_dest_cancelled"
)

// Event attribute keys
const (
	AttributeKeyOwner          = "owner"
	AttributeKeyCaller         = "caller"
	AttributeKeyPositionRef    = "position_ref"
	AttributeKeyPoolRef        = "pool_ref"
	AttributeKeyVault          = "vault"
	AttributeKeySide           = "side"
	AttributeKeyMinBin         = "min_bin"
	AttributeKeyMaxBin         = "max_bin"
	AttributeKeyAmount         = "amount"
	AttributeKeyAmountX        = "amount_x"
	AttributeKeyAmountY        = "amount_y"
	AttributeKeyFromBin        = "from_bin"
	AttributeKeyToBin          = "to_bin"
	AttributeKeyDelta          = "delta"
	AttributeKeyFee            = "fee"
	AttributeKeyTip            = "tip"
	AttributeKeyTipRecipient   = "tip_recipient"
	AttributeKeyProtocolFee    = "protocol_fee"
	AttributeKeyUserPayout     = "user_payout"
	AttributeKeyAgentInitiated = "agent_initiated"
	AttributeKeyFeeBps         = "fee_bps"
	AttributeKeyOldFeeBps      = "old_fee_bps"
	AttributeKeyEffectiveAt    = "effective_at"
	AttributeKeyAuthority      = "authority"
	AttributeKeyNewAuthority   = "new_authority"
	AttributeKeyField          = "field"
	AttributeKeyOldValue       = "old_value"
	AttributeKeyNewValue       = "new_value"
	AttributeKeyRevenueDest    = "revenue_dest"
	AttributeKeyDepositor      = "depositor"
	AttributeKeyFeeFunded      = "fee_funded"
	AttributeKeyDenom          = "denom"
	AttributeKeyCumulative     = "cumulative_harvested"
)

// Admin config field names carried by admin_config_changed events
const (
	ConfigFieldPaused             = "paused"
	ConfigFieldAgentPaused        = "agent_paused"
	ConfigFieldAgent              = "agent"
	ConfigFieldKeeperTipBps       = "keeper_tip_bps"
	ConfigFieldStalenessThreshold = "staleness_threshold"
)
