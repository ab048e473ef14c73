package domain

import "testing"

func TestPriorityCodes(t *testing.T) {
	cases := []struct {
		p    Priority
		code int
	}{
		{PriorityAll, 0},
		{PriorityLow, 1},
		{PriorityMedium, 2},
		{PriorityHigh, 3},
		{PriorityUrgent, 4},
	}
	for _, tc := range cases {
		if got := tc.p.Code(); got != tc.code {
			t.Fatalf("%s.Code() = %d; want %d", tc.p, got, tc.code)
		}
		back, err := PriorityFromCode(tc.code)
		if err != nil || back != tc.p {
			t.Fatalf("PriorityFromCode(%d) = %s, %v; want %s", tc.code, back, err, tc.p)
		}
	}

	if _, err := PriorityFromCode(99); err == nil {
		t.Fatal("expected error for unknown code")
	}
}

func TestParsePriority(t *testing.T) {
	if p, err := ParsePriority("URGENT"); err != nil || p != PriorityUrgent {
		t.Fatalf("ParsePriority(URGENT) = %s, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("priorities are case-sensitive, lowercase should fail")
	}
	if _, err := ParsePriority(""); err == nil {
		t.Fatal("empty priority should fail")
	}
}

func TestPriorityPersistable(t *testing.T) {
	if PriorityAll.Persistable() {
		t.Fatal("ALL is a filter value and must not be persistable")
	}
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if !p.Persistable() {
			t.Fatalf("%s should be persistable", p)
		}
	}
}
