package viewmodel

import (
	"errors"
	"testing"

	"edupayhub/internal/core/domain"
)

func page(current, total int, ids ...string) domain.TransactionPage {
	items := make([]domain.PaymentTransaction, 0, len(ids))
	for _, id := range ids {
		items = append(items, domain.PaymentTransaction{ID: id, Status: domain.StatusSuccess, SchoolInfo: domain.SchoolInfo{Name: "School " + id}})
	}
	return domain.TransactionPage{Items: items, CurrentPage: current, TotalPages: total}
}

func TestRequestPageClamps(t *testing.T) {
	v := New()
	if err := v.ApplyPage(v.Begin(), page(1, 3, "a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		page   int
		ok     bool
		expect int
	}{
		{0, false, 1},
		{-2, false, 1},
		{4, false, 1},
		{3, true, 3},
		{2, true, 2},
		{1, true, 1},
	}
	for _, tc := range cases {
		if got := v.RequestPage(tc.page); got != tc.ok {
			t.Fatalf("page %d: expected ok=%v, got %v", tc.page, tc.ok, got)
		}
		if v.CurrentPage() != tc.expect {
			t.Fatalf("page %d: expected current %d, got %d", tc.page, tc.expect, v.CurrentPage())
		}
	}
}

func TestRequestPageBeforeLoadOnlyAllowsFirstPage(t *testing.T) {
	v := New()
	if v.RequestPage(2) {
		t.Fatalf("expected page 2 to be rejected before any load")
	}
	if !v.RequestPage(1) {
		t.Fatalf("expected page 1 to be accepted")
	}
}

func TestNeedsFetch(t *testing.T) {
	v := New()
	if !v.NeedsFetch() {
		t.Fatalf("expected fresh view to need a fetch")
	}
	_ = v.ApplyPage(v.Begin(), page(1, 2, "a"))
	if v.NeedsFetch() {
		t.Fatalf("expected loaded view not to need a fetch")
	}
	v.RequestPage(2)
	if !v.NeedsFetch() {
		t.Fatalf("expected page change to need a fetch")
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	v := New()
	_ = v.ApplyPage(v.Begin(), page(1, 5, "p1"))

	slow := v.Begin()
	fast := v.Begin()

	if err := v.ApplyPage(fast, page(3, 5, "p3")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.ApplyPage(slow, page(2, 5, "p2")); !errors.Is(err, domain.ErrStaleResponse) {
		t.Fatalf("expected stale response error, got %v", err)
	}

	snap := v.Snapshot()
	if snap.CurrentPage != 3 || len(snap.Items) != 1 || snap.Items[0].ID != "p3" {
		t.Fatalf("expected page 3 to survive, got page %d items %v", snap.CurrentPage, snap.Items)
	}
}

func TestFailKeepsItems(t *testing.T) {
	v := New()
	_ = v.ApplyPage(v.Begin(), page(1, 2, "a", "b"))

	tok := v.Begin()
	if !v.Snapshot().Loading {
		t.Fatalf("expected loading during fetch")
	}
	v.Fail(tok)

	snap := v.Snapshot()
	if snap.Loading {
		t.Fatalf("expected loading reset after failure")
	}
	if len(snap.Items) != 2 {
		t.Fatalf("expected prior items kept, got %d", len(snap.Items))
	}
}

func TestFailOfStaleTokenKeepsLoading(t *testing.T) {
	v := New()
	old := v.Begin()
	_ = v.Begin()
	v.Fail(old)
	if !v.Snapshot().Loading {
		t.Fatalf("expected newer fetch to keep the view loading")
	}
}

func TestSnapshotDerivesFilterAndOptions(t *testing.T) {
	v := New()
	_ = v.ApplyPage(v.Begin(), page(2, 3, "abc", "xyz", "zabc"))
	v.SetCriteria(domain.FilterCriteria{SearchTerm: "ABC"})

	snap := v.Snapshot()
	if len(snap.Filtered) != 2 {
		t.Fatalf("expected 2 filtered items, got %d", len(snap.Filtered))
	}
	if len(snap.Items) != 3 {
		t.Fatalf("expected raw items untouched, got %d", len(snap.Items))
	}
	if !snap.HasPrev || !snap.HasNext {
		t.Fatalf("expected both directions on page 2 of 3")
	}
	if len(snap.Schools) != 3 {
		t.Fatalf("expected 3 school options, got %v", snap.Schools)
	}
}

func TestApplyAllIsSinglePage(t *testing.T) {
	v := New()
	items := page(1, 1, "s1", "s2").Items
	if err := v.ApplyAll(v.Begin(), items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snap := v.Snapshot()
	if snap.HasPrev || snap.HasNext || snap.TotalPages != 1 {
		t.Fatalf("expected no pagination for full list, got %+v", snap)
	}
}
