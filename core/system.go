package core

// Runtime knobs kept in the property store so the owner can flip them
// without a restart.
const (
	// PropertyPaused halts every mutating ledger operation while set
	PropertyPaused = "vault_paused"
	// PropertyMinDeposit minimum collateral accepted per deposit
	PropertyMinDeposit = "vault_min_deposit"
	// PropertyUserBps harvest share paid to the depositor
	PropertyUserBps = "yield_user_bps"
	// PropertyProtocolBps harvest share paid to the treasury
	PropertyProtocolBps = "yield_protocol_bps"
	// PropertyOracleEndpoint overrides the configured price feed url
	PropertyOracleEndpoint = "oracle_endpoint"
	// PropertyPoolEndpoint overrides the configured yield venue url
	PropertyPoolEndpoint = "yield_pool_endpoint"
)

// System stores the privileged identities checked on every administrative
// or role-gated operation.
type System struct {
	Owner    string
	Treasury string
	Version  string
}

// IsOwner is owner
func (s *System) IsOwner(userID string) bool {
	return userID != "" && userID == s.Owner
}
