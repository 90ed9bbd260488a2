package bladex

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTestCompile(t *testing.T) {
	reg := newRegistry(t)
	source := `<x-card><slot name="title">Hi</slot><x-alert :level="$level"/>Body</x-card>`

	result, err := TestCompile(reg, source)
	if err != nil {
		t.Fatalf("TestCompile failed: %v", err)
	}

	if !result.IsOK() {
		t.Error("IsOK() = false")
	}
	if !result.Contains(`'level' => $level`) {
		t.Error("Contains(level) = false")
	}
	if !result.ContainsAll("@slot('title')Hi@endslot", "@endcomponent") {
		t.Error("ContainsAll() = false")
	}
	if result.ContainsAny("<x-card", "<slot") {
		t.Errorf("tags were left in the output: %s", result.Output)
	}
	if result.Count("@endcomponent") != 2 {
		t.Errorf("Count(@endcomponent) = %d, want 2", result.Count("@endcomponent"))
	}
	if diff := cmp.Diff([]string{"components.card", "components.alert"}, result.Components()); diff != "" {
		t.Errorf("Components() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title"}, result.Slots()); diff != "" {
		t.Errorf("Slots() mismatch (-want +got):\n%s", diff)
	}
	if !result.Balanced() {
		t.Error("Balanced() = false")
	}
	if result.Unchanged() {
		t.Error("Unchanged() = true")
	}
}

func TestTestCompileUnchanged(t *testing.T) {
	reg := newRegistry(t)
	result, err := TestCompile(reg, `<div class="x-card">plain</div>`)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Unchanged() {
		t.Errorf("output changed: %q", result.Output)
	}
	if result.Components() != nil {
		t.Errorf("Components() = %v, want none", result.Components())
	}
}
