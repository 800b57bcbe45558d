package domain

// LinkDecision is the answer of the pluggable linking hook.
type LinkDecision struct {
	ShouldAutomaticallyLink   bool
	ShouldRequireVerification bool
}

// LinkCandidate describes the account being considered for linking.
// RecipeUserID is empty while the account does not exist yet (sign-up).
type LinkCandidate struct {
	RecipeID     RecipeID
	RecipeUserID string
	Info         AccountInfo
}

// DecisionInput is everything the linking hook sees.
type DecisionInput struct {
	Candidate     LinkCandidate
	ExistingUser  *User
	SessionUserID string
}
