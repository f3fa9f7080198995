package scope

import (
	"testing"

	"orderboard/internal/models"
)

func platformAdmin() models.Admin {
	return models.Admin{ID: "a1", Role: models.RoleAdmin}
}

func restaurantAdmin(restaurantID string) models.Admin {
	return models.Admin{ID: "a2", Role: models.RoleRestaurantAdmin, RestaurantID: restaurantID}
}

func TestRestaurantAdminScopeIsFixed(t *testing.T) {
	s := NewSelector(restaurantAdmin("r1"))
	if !s.Fixed() {
		t.Fatal("restaurant admin scope must be fixed")
	}
	if s.Current() != "r1" {
		t.Fatalf("Current() = %q, want r1", s.Current())
	}
	if err := s.Select("r2"); err != ErrFixedScope {
		t.Fatalf("Select on fixed scope returned %v, want ErrFixedScope", err)
	}
	if s.Current() != "r1" {
		t.Fatalf("scope changed despite fixed binding: %q", s.Current())
	}
}

func TestPlatformAdminSelect(t *testing.T) {
	s := NewSelector(platformAdmin())
	if s.Fixed() {
		t.Fatal("platform admin scope must not be fixed")
	}
	if s.Current() != "" {
		t.Fatalf("initial scope = %q, want empty", s.Current())
	}

	var fired []string
	s.OnChange(func(id string) { fired = append(fired, id) })

	if err := s.Select("r2"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if s.Current() != "r2" {
		t.Fatalf("Current() = %q, want r2", s.Current())
	}
	if len(fired) != 1 || fired[0] != "r2" {
		t.Fatalf("change hooks fired %v, want [r2]", fired)
	}

	// Reselecting the current scope is a no-op.
	if err := s.Select("r2"); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	if len(fired) != 1 {
		t.Fatalf("reselect fired hooks: %v", fired)
	}
}

func TestDefaultSeedsFirstRestaurant(t *testing.T) {
	s := NewSelector(platformAdmin())
	var fired []string
	s.OnChange(func(id string) { fired = append(fired, id) })

	s.Default([]models.Restaurant{{ID: "r1"}, {ID: "r2"}})
	if s.Current() != "r1" {
		t.Fatalf("Current() = %q, want r1", s.Current())
	}
	if len(fired) != 1 {
		t.Fatalf("hooks fired %v, want one event", fired)
	}

	// A later Default must not override an existing selection.
	s.Default([]models.Restaurant{{ID: "r9"}})
	if s.Current() != "r1" {
		t.Fatalf("Default overrode selection: %q", s.Current())
	}
}

func TestDefaultIgnoredForFixedScope(t *testing.T) {
	s := NewSelector(restaurantAdmin("r1"))
	s.Default([]models.Restaurant{{ID: "r9"}})
	if s.Current() != "r1" {
		t.Fatalf("Default moved a fixed scope to %q", s.Current())
	}
}

func TestBindRederivesAfterLogin(t *testing.T) {
	s := NewSelector(platformAdmin())
	var fired []string
	s.OnChange(func(id string) { fired = append(fired, id) })

	s.Bind(restaurantAdmin("r7"))
	if !s.Fixed() || s.Current() != "r7" {
		t.Fatalf("Bind: fixed=%v current=%q, want fixed r7", s.Fixed(), s.Current())
	}
	if len(fired) != 1 || fired[0] != "r7" {
		t.Fatalf("hooks fired %v, want [r7]", fired)
	}

	// Rebinding the same identity fires nothing.
	s.Bind(restaurantAdmin("r7"))
	if len(fired) != 1 {
		t.Fatalf("rebind fired hooks: %v", fired)
	}
}

func TestRestoreIsSilent(t *testing.T) {
	s := NewSelector(platformAdmin())
	fired := 0
	s.OnChange(func(string) { fired++ })

	s.Restore("r3")
	if s.Current() != "r3" {
		t.Fatalf("Current() = %q, want r3", s.Current())
	}
	if fired != 0 {
		t.Fatal("Restore must not fire change hooks")
	}

	// Restore never overrides a fixed scope.
	fixed := NewSelector(restaurantAdmin("r1"))
	fixed.Restore("r9")
	if fixed.Current() != "r1" {
		t.Fatalf("Restore moved a fixed scope to %q", fixed.Current())
	}
}
