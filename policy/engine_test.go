package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/realmgate/errors"
)

func testGrants() map[string][]string {
	return map[string][]string{
		"pillar-content": {"file.read", "file.list"},
		"pillar-ops":     {},
	}
}

func TestDecideKnownRealm(t *testing.T) {
	e := NewEngine(testGrants())

	assert.Equal(t, DecisionAllow, e.Decide("pillar-content", "file.read"))
	assert.Equal(t, DecisionAllow, e.Decide("pillar-content", "file.list"))
	assert.Equal(t, DecisionDeny, e.Decide("pillar-content", "file.write"))

	// A listed realm with no grants is denied everything. Listing a realm
	// with an empty capability set is the way to lock it out explicitly.
	assert.Equal(t, DecisionDeny, e.Decide("pillar-ops", "file.read"))
}

func TestDecideUnknownRealmFailClosed(t *testing.T) {
	e := NewEngine(testGrants())

	assert.Equal(t, DecisionDeny, e.Decide("ghost-realm", "file.read"))
	assert.False(t, e.Allows("ghost-realm", "file.read"))
	assert.False(t, e.FailOpen())
}

func TestDecideUnknownRealmFailOpen(t *testing.T) {
	e := NewEngine(testGrants(), WithFailOpen())

	assert.Equal(t, DecisionFallback, e.Decide("ghost-realm", "file.read"))
	assert.True(t, e.Allows("ghost-realm", "file.read"))
	assert.True(t, e.FailOpen())

	// Fail-open never overrides an explicit deny for a known realm.
	assert.Equal(t, DecisionDeny, e.Decide("pillar-ops", "file.read"))
	assert.Equal(t, DecisionDeny, e.Decide("pillar-content", "file.write"))
}

func TestAuthorize(t *testing.T) {
	e := NewEngine(testGrants())

	require.NoError(t, e.Authorize("pillar-content", "file.read"))

	err := e.Authorize("pillar-ops", "file.read")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrAccessDenied)
	assert.Contains(t, err.Error(), "pillar-ops")
	assert.Contains(t, err.Error(), "file.read")
}

func TestEngineCopiesGrantTable(t *testing.T) {
	grants := testGrants()
	e := NewEngine(grants)

	grants["pillar-ops"] = append(grants["pillar-ops"], "file.read")
	grants["new-realm"] = []string{"file.read"}

	assert.Equal(t, DecisionDeny, e.Decide("pillar-ops", "file.read"))
	assert.Equal(t, DecisionDeny, e.Decide("new-realm", "file.read"))
}

func TestRealmsAndGrants(t *testing.T) {
	e := NewEngine(testGrants())

	assert.Equal(t, []string{"pillar-content", "pillar-ops"}, e.Realms())

	capabilities, known := e.Grants("pillar-content")
	require.True(t, known)
	assert.Equal(t, []string{"file.list", "file.read"}, capabilities)

	capabilities, known = e.Grants("pillar-ops")
	require.True(t, known)
	assert.Empty(t, capabilities)

	_, known = e.Grants("ghost-realm")
	assert.False(t, known)
}
