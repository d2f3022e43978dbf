package reconcile_test

import (
	"context"
	"sort"
	"testing"

	"github.com/ian-griptape-ai/node-development/pkg/adapters/memory"
	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/ports"
	"github.com/ian-griptape-ai/node-development/pkg/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFixture builds a registry holding the four fixed slots, the way a
// loader node sets itself up before its first pass.
func newFixture(t *testing.T) *memory.Registry {
	t.Helper()
	ctx := context.Background()
	reg := memory.NewRegistry()

	fixed := reconcile.DefaultFixedSlots()
	for _, spec := range []domain.SlotSpec{
		{Name: fixed.Source, Kind: domain.SlotKindProperty, Settable: true, DisplayLabel: "YAML File Path"},
		{Name: fixed.Filter, Kind: domain.SlotKindProperty, Settable: true, DisplayLabel: "Key Filter"},
		{Name: fixed.Output, Kind: domain.SlotKindOutput, DisplayLabel: "YAML Data"},
		{Name: fixed.Status, Kind: domain.SlotKindProperty},
	} {
		require.NoError(t, reg.Create(ctx, spec))
	}
	return reg
}

func managedNames(t *testing.T, reg ports.SlotRegistry) []string {
	t.Helper()
	names, err := reg.ManagedNames(context.Background())
	require.NoError(t, err)
	sort.Strings(names)
	return names
}

func slotValue(t *testing.T, reg ports.SlotRegistry, name string) string {
	t.Helper()
	slot, err := reg.Get(context.Background(), name)
	require.NoError(t, err)
	return slot.Value
}

func TestReconcile_CreatesManagedSlots(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	doc := domain.Map(
		"server", domain.Map("host", domain.Str("localhost")),
		"debug", domain.Bool(true),
	)

	outcome, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"output_server.host", "output_debug"}, outcome.Created)
	assert.Empty(t, outcome.Updated)
	assert.Empty(t, outcome.Deleted)
	assert.Equal(t, []string{"output_debug", "output_server.host"}, managedNames(t, reg))

	assert.Equal(t, "localhost", slotValue(t, reg, "output_server.host"))
	assert.Equal(t, "true", slotValue(t, reg, "output_debug"))

	// Display labels carry the un-prefixed flattened key.
	slot, err := reg.Get(ctx, "output_server.host")
	require.NoError(t, err)
	assert.Equal(t, "server.host", slot.Spec.DisplayLabel)
	assert.Equal(t, domain.SlotKindOutput, slot.Spec.Kind)
	assert.False(t, slot.Spec.Settable)

	// The serialized flat result and status land in the fixed slots.
	assert.Equal(t, "server.host: localhost\ndebug: true\n", slotValue(t, reg, "yaml_data"))
	assert.Equal(t, "YAML file loaded successfully", slotValue(t, reg, "status_message"))
	assert.Equal(t, outcome.Serialized, slotValue(t, reg, "yaml_data"))
	assert.Contains(t, outcome.Touched(), "yaml_data")
	assert.Contains(t, outcome.Touched(), "status_message")
}

func TestReconcile_Idempotent(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	doc := domain.Map(
		"a", domain.Int(1),
		"b", domain.Seq(domain.Str("x"), domain.Str("y")),
	)

	first, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)
	namesAfterFirst := managedNames(t, reg)

	second, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)

	assert.Empty(t, second.Created, "second pass must not create slots")
	assert.Empty(t, second.Deleted, "second pass must not delete slots")
	assert.ElementsMatch(t, first.Created, second.Updated)
	assert.Equal(t, namesAfterFirst, managedNames(t, reg))
	assert.Equal(t, first.Serialized, second.Serialized)
}

func TestReconcile_StaleSlotRemoval(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	_, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1), "b", domain.Int(2)), "", reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"output_a", "output_b"}, managedNames(t, reg))

	outcome, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1)), "", reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"output_b"}, outcome.Deleted)
	assert.Equal(t, []string{"output_a"}, outcome.Updated)
	assert.Equal(t, []string{"output_a"}, managedNames(t, reg))

	// Fixed slots survive every pass.
	for _, name := range reconcile.DefaultFixedSlots().Names() {
		exists, err := reg.Exists(ctx, name)
		require.NoError(t, err)
		assert.True(t, exists, "fixed slot %s must survive", name)
	}
}

func TestReconcile_FilterIsCaseInsensitiveSubstring(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New(reconcile.WithNaming(reconcile.NamingVerbatim))

	doc := domain.Map(
		"Name", domain.Map(
			"First", domain.Str("Ada"),
			"Last", domain.Str("Lovelace"),
		),
		"Age", domain.Int(36),
	)

	outcome, err := r.Reconcile(ctx, doc, "name", reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name.First", "Name.Last"}, outcome.Created)
	assert.Equal(t, []string{"Name.First", "Name.Last"}, managedNames(t, reg))
	assert.NotContains(t, outcome.Serialized, "Age")
}

func TestReconcile_FilterAppliesToFlattenedKeys(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New(reconcile.WithNaming(reconcile.NamingVerbatim))

	// "db.port" matches filter "b.p" only after flattening.
	doc := domain.Map("db", domain.Map("port", domain.Int(5432)))

	outcome, err := r.Reconcile(ctx, doc, "B.P", reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"db.port"}, outcome.Created)
}

func TestReconcile_EmptyFilteredResultLeavesNoManagedSlots(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	_, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1)), "", reg)
	require.NoError(t, err)
	require.NotEmpty(t, managedNames(t, reg))

	outcome, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1)), "no-such-key", reg)
	require.NoError(t, err)

	assert.Empty(t, managedNames(t, reg), "zero managed slots is a valid state")
	assert.Equal(t, []string{"output_a"}, outcome.Deleted)
	assert.Equal(t, "{}\n", outcome.Serialized)
}

func TestReconcile_CollisionNaming(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New(reconcile.WithNaming(reconcile.NamingVerbatim))

	// The literal mapping key "a[1]" collides with the flattened first
	// element of the sequence under "a".
	doc := domain.Map(
		"a[1]", domain.Str("literal"),
		"a", domain.Seq(domain.Str("indexed")),
	)

	outcome, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"a[1]", "a[1]_1"}, outcome.Created)
	assert.Equal(t, "literal", slotValue(t, reg, "a[1]"))
	assert.Equal(t, "indexed", slotValue(t, reg, "a[1]_1"))
}

func TestReconcile_CollisionNamingIsStableAcrossPasses(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New(reconcile.WithNaming(reconcile.NamingVerbatim))

	doc := domain.Map(
		"a[1]", domain.Str("literal"),
		"a", domain.Seq(domain.Str("indexed")),
	)

	_, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)

	second, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Empty(t, second.Deleted)
	assert.Equal(t, []string{"a[1]", "a[1]_1"}, second.Updated)
}

func TestReconcile_FixedSlotNamesAreReserved(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New(reconcile.WithNaming(reconcile.NamingVerbatim))

	// A document key equal to a fixed slot name must not collide with it.
	doc := domain.Map("yaml_data", domain.Str("sneaky"))

	outcome, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)

	assert.Equal(t, []string{"yaml_data_1"}, outcome.Created)
	assert.Equal(t, "sneaky", slotValue(t, reg, "yaml_data_1"))
}

func TestReconcile_BadRootLeavesRegistryUntouched(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	_, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1)), "", reg)
	require.NoError(t, err)
	before := managedNames(t, reg)
	outputBefore := slotValue(t, reg, "yaml_data")

	outcome, err := r.Reconcile(ctx, domain.Str("bare scalar"), "", reg)
	assert.ErrorIs(t, err, domain.ErrBadRoot)

	assert.Equal(t, before, managedNames(t, reg), "managed slots must be unchanged")
	assert.Equal(t, outputBefore, slotValue(t, reg, "yaml_data"), "output slot keeps its previous value")
	assert.Contains(t, slotValue(t, reg, "status_message"), "Error loading YAML file")
	assert.Equal(t, []string{"status_message"}, outcome.Touched())
}

func TestReconcile_NilDocumentIsBadRoot(t *testing.T) {
	reg := newFixture(t)
	r := reconcile.New()

	_, err := r.Reconcile(context.Background(), nil, "", reg)
	assert.ErrorIs(t, err, domain.ErrBadRoot)
}

func TestReconcile_RootSequence(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	doc := domain.Seq(
		domain.Map("name", domain.Str("first")),
		domain.Str("second"),
	)

	outcome, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"output_[1].name", "output_[2]"}, outcome.Created)
}

func TestReconcile_ValueFormatting(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New()

	doc := domain.Map(
		"s", domain.Str("text"),
		"i", domain.Int(42),
		"f", domain.Scalar{Value: 2.5},
		"b", domain.Bool(false),
		"n", domain.Scalar{Value: nil},
	)

	_, err := r.Reconcile(ctx, doc, "", reg)
	require.NoError(t, err)

	assert.Equal(t, "text", slotValue(t, reg, "output_s"))
	assert.Equal(t, "42", slotValue(t, reg, "output_i"))
	assert.Equal(t, "2.5", slotValue(t, reg, "output_f"))
	assert.Equal(t, "false", slotValue(t, reg, "output_b"))
	assert.Equal(t, "", slotValue(t, reg, "output_n"))
}

func TestReconcile_CustomPrefix(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)
	r := reconcile.New(reconcile.WithPrefix("out_"))

	outcome, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1)), "", reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"out_a"}, outcome.Created)
}

func TestReconcile_LifecycleHooks(t *testing.T) {
	ctx := context.Background()
	reg := newFixture(t)

	var started, ended int
	var lastResult *domain.PassResultEvent
	hooks := domain.LifecycleHooks{
		OnPassStart: func(_ context.Context, ev *domain.PassEvent) {
			started++
			assert.Equal(t, "loader-1", ev.Node)
		},
		OnPassEnd: func(_ context.Context, ev *domain.PassResultEvent) {
			ended++
			lastResult = ev
		},
	}

	r := reconcile.New(reconcile.WithName("loader-1"), reconcile.WithLifecycleHooks(hooks))

	_, err := r.Reconcile(ctx, domain.Map("a", domain.Int(1)), "", reg)
	require.NoError(t, err)

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, ended)
	require.NotNil(t, lastResult)
	assert.Equal(t, 1, lastResult.Created)
	assert.NoError(t, lastResult.Err)
}
