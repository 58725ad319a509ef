package store

import (
	"testing"

	"github.com/Janwang88/KIMD/internal/model"
)

func TestReviews(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	id, err := s.AddReview(&model.Review{UserID: "u1", Content: "组装进度正常", Milestone: "assemblyStart"})
	if err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	if _, err := s.AddReview(&model.Review{UserID: "u2", Content: "调试延期两天", Milestone: "debugStart"}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}

	all, err := s.ListReviews("", 50, 0)
	if err != nil {
		t.Fatalf("ListReviews: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list all: got %d, want 2", len(all))
	}

	filtered, err := s.ListReviews("assemblyStart", 50, 0)
	if err != nil {
		t.Fatalf("ListReviews filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Content != "组装进度正常" {
		t.Fatalf("filtered: got %+v", filtered)
	}

	found, err := s.DeleteReview(id)
	if err != nil || !found {
		t.Fatalf("DeleteReview: found=%v err=%v", found, err)
	}
	found, err = s.DeleteReview(id)
	if err != nil || found {
		t.Fatalf("double delete: found=%v err=%v", found, err)
	}
}
