package domain

import "time"

// DecisionPoint names an observable step of the linking engine.
// The string values are stable and used on the wire.
type DecisionPoint string

const (
	PointCreatePrimaryOrLinkCalled   DecisionPoint = "create-primary-or-link-called"
	PointIsSignUpAllowedCalled       DecisionPoint = "is-sign-up-allowed-called"
	PointIsSignInAllowedCalled       DecisionPoint = "is-sign-in-allowed-called"
	PointIsEmailChangeAllowedCalled  DecisionPoint = "is-email-change-allowed-called"
	PointNoPrimaryUserExists         DecisionPoint = "no-primary-user-exists"
	PointPrimaryUserExists           DecisionPoint = "primary-user-exists"
	PointLinkingHelperInvoked        DecisionPoint = "linking-helper-invoked"
	PointLinkingDisabled             DecisionPoint = "linking-disabled"
	PointVerificationNotRequired     DecisionPoint = "verification-not-required"
	PointSignInUpNotAllowed          DecisionPoint = "sign-in-up-not-allowed"
	PointEmailChangeNotAllowed       DecisionPoint = "email-change-not-allowed"
	PointPrimaryUserCreated          DecisionPoint = "primary-user-created"
	PointAccountsLinked              DecisionPoint = "accounts-linked"
	PointLinkDeferred                DecisionPoint = "link-deferred"
	PointAccountUnlinked             DecisionPoint = "account-unlinked"
	PointPrimaryUserDissolved        DecisionPoint = "primary-user-dissolved"
	PointUserDeleted                 DecisionPoint = "user-deleted"
	PointStagingCleared              DecisionPoint = "staging-cleared"
	PointEmailVerificationPropagated DecisionPoint = "email-verification-propagated"
	PointLinkRetried                 DecisionPoint = "link-retried"
)

func (p DecisionPoint) String() string { return string(p) }

// DecisionEvent is emitted at every decision point.
type DecisionEvent struct {
	Point         DecisionPoint `json:"point"`
	RecipeUserID  string        `json:"recipe_user_id,omitempty"`
	PrimaryUserID string        `json:"primary_user_id,omitempty"`
	At            time.Time     `json:"at"`
}
