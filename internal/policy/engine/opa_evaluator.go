package engine

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"

	"asset-hierarchy/internal/platform/apperr"
)

// DenyQuery is the rule every hierarchy policy module must define: a set of denial messages.
const DenyQuery = "data.assets.hierarchy.deny"

// DefaultPolicy is the built-in hierarchy policy. It only restricts the object type; any known type may sit
// under any parent. Placement rules (input.parent_type) belong in a custom policy file.
const DefaultPolicy = `package assets.hierarchy

known_types := {"building", "floor", "room", "device"}

deny contains msg if {
	not known_types[input.type]
	msg := sprintf("unknown object type %s", [input.type])
}
`

// OPARules evaluates hierarchy placement rules with a prepared OPA Rego query.
type OPARules struct {
	query rego.PreparedEvalQuery
}

// NewOPARules compiles module (DefaultPolicy when empty) and prepares the deny query once.
func NewOPARules(ctx context.Context, module string) (*OPARules, error) {
	if strings.TrimSpace(module) == "" {
		module = DefaultPolicy
	}
	q, err := rego.New(
		rego.Query(DenyQuery),
		rego.Module("hierarchy.rego", module),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile hierarchy policy: %w", err)
	}
	return &OPARules{query: q}, nil
}

// LoadOPARules reads a Rego module from path, or uses DefaultPolicy when path is empty.
func LoadOPARules(ctx context.Context, path string) (*OPARules, error) {
	if path == "" {
		return NewOPARules(ctx, "")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy policy: %w", err)
	}
	return NewOPARules(ctx, string(b))
}

// CheckPlacement evaluates the deny set for objType under parentType.
func (r *OPARules) CheckPlacement(ctx context.Context, objType, parentType string) error {
	msgs, err := r.deny(ctx, objType, parentType)
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		return apperr.Invalid(strings.Join(msgs, "; "))
	}
	return nil
}

// HealthCheck verifies the prepared query evaluates and accepts a root building.
// Does not touch the database. Returns nil on success.
func (r *OPARules) HealthCheck(ctx context.Context) error {
	msgs, err := r.deny(ctx, "building", "")
	if err != nil {
		return err
	}
	if len(msgs) > 0 {
		return fmt.Errorf("policy rejects a root building: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func (r *OPARules) deny(ctx context.Context, objType, parentType string) ([]string, error) {
	input := map[string]interface{}{"type": objType}
	if parentType != "" {
		input["parent_type"] = parentType
	}
	rs, err := r.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return nil, fmt.Errorf("eval hierarchy policy: %w", err)
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil, nil
	}
	set, ok := rs[0].Expressions[0].Value.([]interface{})
	if !ok {
		return nil, fmt.Errorf("hierarchy policy: deny is %T, want a set of strings", rs[0].Expressions[0].Value)
	}
	msgs := make([]string, 0, len(set))
	for _, v := range set {
		msgs = append(msgs, fmt.Sprint(v))
	}
	sort.Strings(msgs)
	return msgs, nil
}
