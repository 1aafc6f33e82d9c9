package admin

import (
	"sync"
	"testing"
)

const developer = "Udev"

func TestNewRegistrySeedsDeveloperAndInitialAdmins(t *testing.T) {
	r := NewRegistry(developer, []string{"Uaaa", "Ubbb", "Uaaa", ""})

	if !r.Contains(developer) {
		t.Error("developer must be a member")
	}
	if !r.IsDeveloper(developer) {
		t.Error("IsDeveloper(developer) = false")
	}
	if r.IsDeveloper("Uaaa") {
		t.Error("IsDeveloper(Uaaa) = true")
	}

	want := []string{developer, "Uaaa", "Ubbb"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddAndRemove(t *testing.T) {
	r := NewRegistry(developer, nil)

	if !r.Add("Uccc") {
		t.Error("Add(Uccc) should succeed")
	}
	if r.Add("Uccc") {
		t.Error("duplicate Add should fail")
	}
	if !r.Contains("Uccc") {
		t.Error("Uccc should be a member")
	}

	if !r.Remove("Uccc") {
		t.Error("Remove(Uccc) should succeed")
	}
	if r.Contains("Uccc") {
		t.Error("Uccc should be gone")
	}
	if r.Remove("Uccc") {
		t.Error("removing a non-member should fail")
	}
}

func TestDeveloperNeverRemovable(t *testing.T) {
	r := NewRegistry(developer, nil)

	if r.Remove(developer) {
		t.Error("developer must not be removable")
	}
	if !r.Contains(developer) {
		t.Error("developer must still be a member")
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	r := NewRegistry(developer, nil)
	r.Add("U3")
	r.Add("U1")
	r.Add("U2")
	r.Remove("U1")

	want := []string{developer, "U3", "U2"}
	got := r.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewRegistry(developer, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Add(string(rune('A' + n%26)))
		}(i)
		go func() {
			defer wg.Done()
			r.Contains(developer)
			r.List()
		}()
	}
	wg.Wait()

	if !r.Contains(developer) {
		t.Error("developer lost after concurrent access")
	}
}
