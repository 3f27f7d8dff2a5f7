package vars

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDictMergeFirstWins(t *testing.T) {
	d := NewDict()
	d.Insert("a", String("from-d"))

	other := NewDict()
	other.Insert("a", String("from-other"))
	other.Insert("b", String("from-other-b"))

	d.Merge(other)

	got, ok := d.Get("a")
	if !ok || got.Str != "from-d" {
		t.Fatalf("want a unchanged at from-d, got %+v ok=%v", got, ok)
	}
	got, ok = d.Get("b")
	if !ok || got.Str != "from-other-b" {
		t.Fatalf("want b merged in, got %+v ok=%v", got, ok)
	}
}

func TestDictKeysPreserveInsertionOrder(t *testing.T) {
	d := NewDict()
	d.Insert("z", Int(1))
	d.Insert("a", Int(2))
	d.Insert("m", Int(3))

	if diff := cmp.Diff([]string{"z", "a", "m"}, d.Keys()); diff != "" {
		t.Fatalf("keys order mismatch (-want +got):\n%s", diff)
	}
}

func TestDictCloneIsIndependent(t *testing.T) {
	d := NewDict()
	d.Insert("a", String("orig"))

	clone := d.Clone()
	clone.Insert("a", String("changed"))

	got, _ := d.Get("a")
	if got.Str != "orig" {
		t.Fatalf("want original dict untouched by clone mutation, got %+v", got)
	}
}

func TestOriginDictMergeFirstWinsAndExports(t *testing.T) {
	o := NewOriginDict()
	global := NewDict()
	global.Insert("port", Int(9090))
	o.Merge(global, OriginGlobal)

	custom := NewDict()
	custom.Insert("port", Int(8080))
	custom.Insert("log_level", String("debug"))
	o.Merge(custom, OriginModCust)

	deflt := NewDict()
	deflt.Insert("port", Int(80))
	deflt.Insert("log_level", String("info"))
	deflt.Insert("timeout", Int(30))
	o.Merge(deflt, OriginModDefault)

	port, ok := o.Get("port")
	if !ok || port.Value.Int != 9090 || port.Origin != OriginGlobal {
		t.Fatalf("want port=9090 from global, got %+v ok=%v", port, ok)
	}
	level, ok := o.Get("log_level")
	if !ok || level.Value.Str != "debug" || level.Origin != OriginModCust {
		t.Fatalf("want log_level=debug from mod-cust, got %+v ok=%v", level, ok)
	}
	timeout, ok := o.Get("timeout")
	if !ok || timeout.Value.Int != 30 || timeout.Origin != OriginModDefault {
		t.Fatalf("want timeout=30 from mod-default, got %+v ok=%v", timeout, ok)
	}

	used := o.UsedEntries()
	if len(used) != 3 {
		t.Fatalf("want 3 used entries, got %d", len(used))
	}
	if used[0].Name != "port" || used[0].Origin != OriginGlobal {
		t.Fatalf("want first used entry to be port/global, got %+v", used[0])
	}

	plain := o.ExportValue()
	if plain.Len() != 3 {
		t.Fatalf("want 3 exported values, got %d", plain.Len())
	}
}
