package aggregator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/erraggy/restspec/interaction"
	"github.com/erraggy/restspec/internal/testutil"
	"github.com/erraggy/restspec/model"
	"github.com/erraggy/restspec/schema"
)

// propertyRecords documents four operations with several records each,
// including one request documented by descriptors alone.
func propertyRecords() []interaction.Record {
	create := testutil.NewProductCreateRecord()
	invalid := testutil.NewProductValidationErrorRecord()
	duplicate := testutil.NewProductCreateRecord()
	duplicate.Name = "product-create-duplicate"
	duplicate.Request.Example = `{"name":"Plain pants","price":19}`
	duplicate.Status = 409
	duplicate.Response = nil
	duplicate.QueryParameters = []interaction.Parameter{{Name: "dryRun", Description: "validate only", Optional: true}}

	documented := testutil.NewProductCreateRecord()
	documented.Name = "product-create-documented"
	documented.Request.Example = ""

	get := testutil.NewProductGetRecord()
	missing := testutil.NewProductGetRecord()
	missing.Name = "product-get-missing"
	missing.Status = 404
	missing.Response = nil
	missing.QueryParameters = []interaction.Parameter{{Name: "expand", Optional: true, Example: "reviews"}}

	cart := testutil.NewCartRecord()
	update := interaction.Record{
		Name:           "cart-update",
		Method:         "PUT",
		Path:           "/carts/{id}",
		PathParameters: []interaction.Parameter{{Name: "id", Description: "the cart id"}},
		FormParameters: []interaction.Parameter{{Name: "sku", Description: "item"}},
		Status:         204,
		Tags:           []string{"carts"},
	}
	return []interaction.Record{create, invalid, duplicate, documented, get, missing, cart, update}
}

var ignoreUnexported = cmpopts.IgnoreUnexported(schema.Node{})

func TestMergeIsCommutative(t *testing.T) {
	records := propertyRecords()
	base, err := Aggregate(records)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		perm := rapid.Permutation(records).Draw(rt, "records")
		got, err := Aggregate(perm)
		if err != nil {
			rt.Fatalf("aggregate: %v", err)
		}
		if got.Document.Len() != base.Document.Len() {
			rt.Fatalf("operations: got %d, want %d", got.Document.Len(), base.Document.Len())
		}

		for _, want := range base.Document.Operations() {
			op, ok := got.Document.Operation(want.ID)
			if !ok {
				rt.Fatalf("missing operation %s", want.ID)
			}
			// Example bodies follow the leader rule and may differ; all else must not.
			opts := cmp.Options{ignoreUnexported, cmpopts.IgnoreFields(model.Body{}, "Example", "Schema", "ContentType")}
			if diff := cmp.Diff(want, op, opts); diff != "" {
				rt.Fatalf("operation %s differs (-want +got):\n%s", want.ID, diff)
			}
			if leader := firstRequestExample(perm, want.ID); op.Request != nil && op.Request.Example != leader {
				rt.Fatalf("operation %s: example %q, want first record's %q", want.ID, op.Request.Example, leader)
			}
		}
	})
}

func firstRequestExample(records []interaction.Record, id string) string {
	for _, r := range records {
		if r.OperationID() == id && r.Request != nil && strings.TrimSpace(r.Request.Example) != "" {
			return r.Request.Example
		}
	}
	return ""
}

func TestAggregationIsIdempotent(t *testing.T) {
	first, err := Aggregate(propertyRecords())
	require.NoError(t, err)

	second, err := Aggregate(Flatten(first.Document))
	require.NoError(t, err)

	want := first.Document.Operations()
	got := second.Document.Operations()
	if diff := cmp.Diff(want, got, ignoreUnexported); diff != "" {
		t.Fatalf("re-aggregation changed the model (-first +second):\n%s", diff)
	}

	third, err := Aggregate(Flatten(second.Document))
	require.NoError(t, err)
	if diff := cmp.Diff(got, third.Document.Operations(), ignoreUnexported); diff != "" {
		t.Fatalf("third aggregation changed the model:\n%s", diff)
	}
}

func TestFlatten(t *testing.T) {
	result, err := Aggregate(propertyRecords())
	require.NoError(t, err)

	records := Flatten(result.Document)
	require.Len(t, records, result.Stats.Responses)
	for _, r := range records {
		require.NoError(t, r.Validate())
		op, ok := result.Document.Operation(r.OperationID())
		require.True(t, ok)
		require.Equal(t, op.Name, r.Name)
	}
}
