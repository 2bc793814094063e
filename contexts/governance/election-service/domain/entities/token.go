package entities

// TokenAccount is a point-in-time read of one account on the token ledger.
type TokenAccount struct {
	Account   string
	Balance   uint64
	Allowance uint64
	Treasury  string
}
