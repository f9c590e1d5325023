package entity

// IdentityStatus classifies how much of the token identity was resolved.
type IdentityStatus string

// Identity statuses: ok means all three fields resolved, partial means one
// or two, failed means none.
const (
	IdentityOK      IdentityStatus = "ok"
	IdentityPartial IdentityStatus = "partial"
	IdentityFailed  IdentityStatus = "failed"
)

// IdentitySourceRPC is the evidence source tag for identities resolved via
// raw eth_call.
const IdentitySourceRPC = "rpc_eth_call"

// IdentityEvidence records how a token identity was obtained.
type IdentityEvidence struct {
	Source string         `json:"source"`
	Status IdentityStatus `json:"status"`
	Notes  string         `json:"notes,omitempty"`
}

// TokenIdentity is the name/symbol/decimals triple read from the contract.
// Nil fields failed to resolve.
type TokenIdentity struct {
	Name     *string          `json:"name"`
	Symbol   *string          `json:"symbol"`
	Decimals *int             `json:"decimals"`
	Evidence IdentityEvidence `json:"evidence"`
}

// Status derives the identity status from which fields resolved.
func (t TokenIdentity) Status() IdentityStatus {
	resolved := 0
	if t.Name != nil {
		resolved++
	}
	if t.Symbol != nil {
		resolved++
	}
	if t.Decimals != nil {
		resolved++
	}
	switch resolved {
	case 3:
		return IdentityOK
	case 0:
		return IdentityFailed
	default:
		return IdentityPartial
	}
}
