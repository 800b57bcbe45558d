package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/open-policy-agent/opa/v1/ast"
	"github.com/open-policy-agent/opa/v1/rego"

	"github.com/heartmarshall/accountlinking/internal/config"
	"github.com/heartmarshall/accountlinking/internal/domain"
	"github.com/heartmarshall/accountlinking/pkg/ctxutil"
)

const decisionQuery = "data.accountlinking.decision"

// DefaultRegoPolicy behaves like Static.
const DefaultRegoPolicy = `package accountlinking

default should_automatically_link := false

default should_require_verification := true

should_automatically_link if {
	input.config.enabled
	not input.context.linking_disabled
}

should_require_verification := false if {
	input.config.require_verification == false
}

decision := {
	"should_automatically_link": should_automatically_link,
	"should_require_verification": should_require_verification,
}
`

// Rego evaluates a Rego module that defines data.accountlinking.decision.
// Evaluation failures fall back to the Static answer for the same config.
type Rego struct {
	log      *slog.Logger
	query    rego.PreparedEvalQuery
	cfg      config.LinkingConfig
	fallback *Static
}

// NewRego compiles src once and prepares the decision query.
func NewRego(ctx context.Context, logger *slog.Logger, src string, cfg config.LinkingConfig) (*Rego, error) {
	compiler, err := ast.CompileModules(map[string]string{"accountlinking.rego": src})
	if err != nil {
		return nil, fmt.Errorf("policy: compile: %w", err)
	}

	pq, err := rego.New(
		rego.Query(decisionQuery),
		rego.Compiler(compiler),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("policy: prepare: %w", err)
	}

	return &Rego{
		log:      logger.With("component", "rego_policy"),
		query:    pq,
		cfg:      cfg,
		fallback: NewStatic(cfg),
	}, nil
}

func (p *Rego) Decide(ctx context.Context, in domain.DecisionInput) (domain.LinkDecision, error) {
	rs, err := p.query.Eval(ctx, rego.EvalInput(p.buildInput(ctx, in)))
	if err != nil {
		p.log.WarnContext(ctx, "policy evaluation failed, using config defaults", slog.String("error", err.Error()))
		return p.fallback.Decide(ctx, in)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		p.log.WarnContext(ctx, "policy returned no decision, using config defaults")
		return p.fallback.Decide(ctx, in)
	}

	obj, ok := rs[0].Expressions[0].Value.(map[string]interface{})
	if !ok {
		return domain.LinkDecision{}, fmt.Errorf("policy: decision is %T, want object", rs[0].Expressions[0].Value)
	}
	link, _ := obj["should_automatically_link"].(bool)
	verify, _ := obj["should_require_verification"].(bool)

	return domain.LinkDecision{ShouldAutomaticallyLink: link, ShouldRequireVerification: verify}, nil
}

func (p *Rego) buildInput(ctx context.Context, in domain.DecisionInput) map[string]interface{} {
	input := map[string]interface{}{
		"candidate": candidateInput(in.Candidate),
		"config": map[string]interface{}{
			"enabled":              p.cfg.Enabled,
			"require_verification": p.cfg.RequireVerification,
		},
		"context": map[string]interface{}{
			"linking_disabled": ctxutil.LinkingDisabled(ctx),
			"session_user_id":  in.SessionUserID,
		},
		"existing_user": nil,
	}
	if in.ExistingUser != nil {
		input["existing_user"] = userInput(*in.ExistingUser)
	}
	return input
}

func candidateInput(c domain.LinkCandidate) map[string]interface{} {
	m := map[string]interface{}{
		"recipe_id":      string(c.RecipeID),
		"recipe_user_id": c.RecipeUserID,
	}
	addAccountInfo(m, c.Info)
	return m
}

func userInput(u domain.User) map[string]interface{} {
	methods := make([]interface{}, 0, len(u.LoginMethods))
	for _, lm := range u.LoginMethods {
		m := map[string]interface{}{
			"recipe_id":      string(lm.RecipeID),
			"recipe_user_id": lm.RecipeUserID,
			"verified":       lm.Verified,
		}
		addAccountInfo(m, lm.AccountInfo())
		methods = append(methods, m)
	}
	emails := make([]interface{}, len(u.Emails))
	for i, e := range u.Emails {
		emails[i] = e
	}
	return map[string]interface{}{
		"id":              u.ID,
		"is_primary_user": u.IsPrimaryUser,
		"emails":          emails,
		"login_methods":   methods,
	}
}

func addAccountInfo(m map[string]interface{}, info domain.AccountInfo) {
	if info.Email != nil {
		m["email"] = *info.Email
	}
	if info.PhoneNumber != nil {
		m["phone_number"] = *info.PhoneNumber
	}
	if info.ThirdParty != nil {
		m["third_party"] = map[string]interface{}{
			"id":      info.ThirdParty.ID,
			"user_id": info.ThirdParty.UserID,
		}
	}
}

// Load returns a Rego decider when cfg.PolicyPath is set and a Static one
// otherwise.
func Load(ctx context.Context, logger *slog.Logger, cfg config.LinkingConfig) (Decider, error) {
	if cfg.PolicyPath == "" {
		return NewStatic(cfg), nil
	}
	src, err := os.ReadFile(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("policy: read %s: %w", cfg.PolicyPath, err)
	}
	return NewRego(ctx, logger, string(src), cfg)
}
