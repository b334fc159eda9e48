package retriever

import (
	"math"
	"testing"

	"github.com/avuppal/driveRAG/internal/rag/index"
)

func hitsOf(ids ...string) []index.Hit {
	hits := make([]index.Hit, len(ids))
	for i, id := range ids {
		hits[i] = index.Hit{ChunkID: id, Filename: id + ".pdf", Content: "text " + id}
	}
	return hits
}

func idsOf(hits []index.Hit) []string {
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.ChunkID
	}
	return ids
}

func TestFuseRRF_TwoLists(t *testing.T) {
	listA := hitsOf("a", "b", "c")
	listB := hitsOf("c", "a", "d")

	fused := fuseRRF([][]index.Hit{listA, listB}, 60)

	if len(fused) != 4 {
		t.Fatalf("Expected 4 fused hits, got %d", len(fused))
	}

	// a: rank 1 in A, rank 2 in B
	wantA := 1.0/61.0 + 1.0/62.0
	if math.Abs(fused[0].Score-wantA) > 1e-12 {
		t.Errorf("Fused score of a = %v; want %v", fused[0].Score, wantA)
	}

	got := idsOf(fused)
	want := []string{"a", "c", "b", "d"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Fused order = %v; want %v", got, want)
		}
	}
}

func TestFuseRRF_SingleListKeepsOrder(t *testing.T) {
	fused := fuseRRF([][]index.Hit{hitsOf("x", "y", "z")}, 60)

	got := idsOf(fused)
	want := []string{"x", "y", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Fused order = %v; want %v", got, want)
		}
	}
	if fused[0].Score <= fused[1].Score {
		t.Errorf("Earlier rank should carry a larger score: %v", fused)
	}
}

func TestFuseRRF_TieBreaksAreDeterministic(t *testing.T) {
	// x and y both sit at rank 1 of their list, identical scores
	listA := hitsOf("x")
	listB := hitsOf("y")

	for i := 0; i < 5; i++ {
		fused := fuseRRF([][]index.Hit{listA, listB}, 60)
		if fused[0].ChunkID != "x" || fused[1].ChunkID != "y" {
			t.Fatalf("Tie broke unexpectedly on run %d: %v", i, idsOf(fused))
		}
	}
}

func TestFuseRRF_ScoresAccumulateAcrossLists(t *testing.T) {
	listA := hitsOf("solo", "both")
	listB := hitsOf("other", "both")

	fused := fuseRRF([][]index.Hit{listA, listB}, 60)

	var both index.Hit
	for _, h := range fused {
		if h.ChunkID == "both" {
			both = h
		}
	}
	want := 1.0/62.0 + 1.0/62.0
	if math.Abs(both.Score-want) > 1e-12 {
		t.Errorf("Score of dual-presence item = %v; want %v", both.Score, want)
	}
	if fused[0].ChunkID != "both" {
		t.Errorf("Dual-presence item should outrank two rank-1 singles here: %v", idsOf(fused))
	}
}

func TestFuseRRF_ClampsNonPositiveK(t *testing.T) {
	fused := fuseRRF([][]index.Hit{hitsOf("a")}, -5)
	if len(fused) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(fused))
	}
	// clamped to k=1, rank 1
	if math.Abs(fused[0].Score-0.5) > 1e-12 {
		t.Errorf("Score with clamped k = %v; want 0.5", fused[0].Score)
	}
}

func TestFuseRRF_EmptyInput(t *testing.T) {
	if got := fuseRRF(nil, 60); len(got) != 0 {
		t.Errorf("Expected no hits, got %v", got)
	}
	if got := fuseRRF([][]index.Hit{{}, {}}, 60); len(got) != 0 {
		t.Errorf("Expected no hits, got %v", got)
	}
}
