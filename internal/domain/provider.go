package domain

// ProviderIdentity is what an external identity provider reports about the
// account that completed an authorization-code flow.
type ProviderIdentity struct {
	ThirdPartyID     string
	ThirdPartyUserID string
	Email            string
	EmailVerified    bool
}
