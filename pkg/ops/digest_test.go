package ops

import (
	"reflect"
	"testing"

	"github.com/smesilov-dev/pacemaker/pkg/params"
)

func TestMetaName(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"interval", "CRM_meta_interval"},
		{"timeout", "CRM_meta_timeout"},
		{"migrate-source", "CRM_meta_migrate_source"},
	}

	for _, tt := range tests {
		if got := MetaName(tt.field); got != tt.want {
			t.Errorf("MetaName(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestFilterForDigestRemovesFixedAttributes(t *testing.T) {
	set := params.FromPairs(
		"id", "db-monitor-10000",
		"crm_feature_set", "3.4.1",
		"op-digest", "f2317cad3d54cec5d7d7aa7d0bf35cf8",
		"on_node", "node1",
		"on_node_uuid", "c1a3c586-c3f3-4db1-9cf8-e1c0a8f03d84",
		"pcmk_external_ip", "10.0.0.5",
		"dbname", "prod",
	)

	FilterForDigest(set)

	want := []string{"dbname"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after filter = %v, want %v", got, want)
	}
}

func TestFilterForDigestRemovesMetaAttributes(t *testing.T) {
	set := params.FromPairs(
		"CRM_meta_name", "monitor",
		"CRM_meta_on_node", "node1",
		"dbname", "prod",
		"CRM_meta_record_pending", "true",
	)

	FilterForDigest(set)

	want := []string{"dbname"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after filter = %v, want %v", got, want)
	}
}

func TestFilterForDigestMetaPrefixIsCaseInsensitive(t *testing.T) {
	// The case-insensitive prefix match is a legacy wire compatibility
	// quirk; it must not be tightened.
	set := params.FromPairs(
		"crm_META_name", "monitor",
		"Crm_Meta_on_node", "node1",
		"dbname", "prod",
	)

	FilterForDigest(set)

	want := []string{"dbname"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after filter = %v, want %v", got, want)
	}
}

func TestFilterForDigestKeepsTimeoutForRecurringOps(t *testing.T) {
	set := params.FromPairs(
		"CRM_meta_interval", "10000",
		"CRM_meta_timeout", "20000",
		"CRM_meta_name", "monitor",
		"dbname", "prod",
	)

	FilterForDigest(set)

	if got := set.Get("CRM_meta_timeout"); got != "20000" {
		t.Errorf("timeout = %q, want %q", got, "20000")
	}
	want := []string{"dbname", "CRM_meta_timeout"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() after filter = %v, want %v", got, want)
	}
}

func TestFilterForDigestDropsTimeoutForOneShotOps(t *testing.T) {
	tests := []struct {
		name     string
		interval string
	}{
		{"zero interval", "0"},
		{"absent interval", ""},
		{"malformed interval", "often"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := params.FromPairs(
				"CRM_meta_timeout", "20000",
				"dbname", "prod",
			)
			if tt.interval != "" {
				set.Set("CRM_meta_interval", tt.interval)
			}

			FilterForDigest(set)

			if _, ok := set.Lookup("CRM_meta_timeout"); ok {
				t.Error("timeout survived filtering of a non-recurring operation")
			}
			if _, ok := set.Lookup("dbname"); !ok {
				t.Error("agent parameter was removed")
			}
		})
	}
}

func TestFilterForDigestDoesNotDuplicateTimeout(t *testing.T) {
	set := params.FromPairs(
		"CRM_meta_interval", "10000",
		"CRM_meta_timeout", "20000",
		"dbname", "prod",
	)

	FilterForDigest(set)
	names := set.Names()

	count := 0
	for _, n := range names {
		if n == "CRM_meta_timeout" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("timeout appears %d times, want 1", count)
	}
}

func TestFilterForDigestIdempotentOnFilteredSet(t *testing.T) {
	set := params.FromPairs(
		"dbname", "prod",
		"port", "5432",
	)

	FilterForDigest(set)
	first := set.Attrs()
	FilterForDigest(set)

	if !reflect.DeepEqual(set.Attrs(), first) {
		t.Errorf("second filter changed the set: %v, want %v", set.Attrs(), first)
	}
}

func TestFilterForDigestNilSet(t *testing.T) {
	// Must not panic.
	FilterForDigest(nil)
}

func TestDigestStable(t *testing.T) {
	a := params.FromPairs("dbname", "prod", "port", "5432")
	b := params.FromPairs("port", "5432", "dbname", "prod")

	if Digest(a) != Digest(b) {
		t.Error("digest depends on insertion order")
	}

	c := params.FromPairs("dbname", "prod", "port", "5433")
	if Digest(a) == Digest(c) {
		t.Error("digest ignores value change")
	}
}

func TestDigestReflectsTimeoutOfRecurringOp(t *testing.T) {
	build := func(timeout string) string {
		set := params.FromPairs(
			"CRM_meta_interval", "10000",
			"CRM_meta_timeout", timeout,
			"dbname", "prod",
		)
		FilterForDigest(set)
		return Digest(set)
	}

	if build("20000") == build("30000") {
		t.Error("recurring operation digest ignores timeout change")
	}
}
