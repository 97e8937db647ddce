package forum

import (
	"database/sql"
	"testing"
	"time"

	"github.com/createconomy/createconomy/internal/models"
)

func TestProjectThread(t *testing.T) {
	thread := &models.Thread{
		ID:           42,
		Title:        "launch retrospective",
		PostType:     models.PostTypeText,
		Body:         sql.NullString{String: "what went well", Valid: true},
		Score:        7,
		ViewCount:    120,
		CommentCount: 3,
		CreatedAt:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	author := &models.User{ID: 1, Username: "ada"}
	category := &models.Category{ID: 2, Slug: "general", Name: "General"}

	out := projectThread(thread, author, category)

	// The projection reports the stored counter verbatim, with no
	// client-side adjustment
	if out["viewCount"] != int64(120) {
		t.Errorf("viewCount = %v, expected 120", out["viewCount"])
	}
	if out["score"] != int64(7) {
		t.Errorf("score = %v, expected 7", out["score"])
	}
	if out["author"] != "ada" {
		t.Errorf("author = %v, expected ada", out["author"])
	}
	if out["body"] != "what went well" {
		t.Errorf("body = %v, expected thread body", out["body"])
	}

	// Optional fields stay absent when unset
	if _, ok := out["linkUrl"]; ok {
		t.Error("linkUrl should be absent for a text post")
	}
	if _, ok := out["flair"]; ok {
		t.Error("flair should be absent when unset")
	}
}
