package crm

import (
	"context"
	"reflect"
	"testing"
)

func TestMockClientIsDeterministic(t *testing.T) {
	m := MockClient{Leads: 10, Talks: 6}
	ctx := context.Background()
	from, to := testWindow()

	a, err := m.ListLeads(ctx, from, to, 0)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	b, _ := m.ListLeads(ctx, from, to, 0)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("lead listing is not deterministic")
	}
	if len(a) != 10 {
		t.Fatalf("expected 10 leads, got %d", len(a))
	}

	ta, err := m.ListTalks(ctx, from, to, 0)
	if err != nil {
		t.Fatalf("ListTalks: %v", err)
	}
	tb, _ := m.ListTalks(ctx, from, to, 0)
	if !reflect.DeepEqual(ta, tb) {
		t.Fatal("talk listing is not deterministic")
	}
}

func TestMockClientRespectsCaps(t *testing.T) {
	m := MockClient{Leads: 10, Talks: 6}
	ctx := context.Background()
	from, to := testWindow()

	leads, err := m.ListLeads(ctx, from, to, 4)
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(leads) != 4 {
		t.Fatalf("expected 4 leads, got %d", len(leads))
	}
}
