package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestRecorderNewestFirst(t *testing.T) {
	r := NewRecorder(10)
	user := uuid.New()
	ctx := context.Background()

	r.Notify(ctx, Notification{UserID: user, Title: "Task Updated"})
	r.Notify(ctx, Notification{UserID: user, Title: "Error", Description: "Failed to update task.", Variant: VariantDestructive})
	r.Notify(ctx, Notification{UserID: uuid.New(), Title: "someone else"})

	got := r.Recent(user)
	if len(got) != 2 {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Title != "Error" || got[0].Variant != VariantDestructive {
		t.Errorf("newest = %+v", got[0])
	}
	if got[1].Variant != VariantDefault || got[1].ID == uuid.Nil || got[1].CreatedAt.IsZero() {
		t.Errorf("defaults not filled: %+v", got[1])
	}
}

func TestRecorderCapacity(t *testing.T) {
	r := NewRecorder(3)
	user := uuid.New()
	for i := 0; i < 5; i++ {
		r.Notify(context.Background(), Notification{UserID: user, Title: fmt.Sprint(i)})
	}

	got := r.Recent(user)
	if len(got) != 3 {
		t.Fatalf("len = %d", len(got))
	}
	for i, want := range []string{"4", "3", "2"} {
		if got[i].Title != want {
			t.Errorf("got[%d] = %q, want %q", i, got[i].Title, want)
		}
	}
}

func TestRecentForUnknownUser(t *testing.T) {
	if got := NewRecorder(0).Recent(uuid.New()); got == nil || len(got) != 0 {
		t.Errorf("got %#v", got)
	}
}
