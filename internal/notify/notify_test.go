package notify

import (
	"context"
	"strings"
	"testing"

	"khata/internal/core"
)

func TestAlertOverrun(t *testing.T) {
	a := Alert{
		Spent:  core.Money{Cents: 11000},
		Budget: core.Money{Cents: 10000},
	}
	if got := a.Overrun().Cents; got != 1000 {
		t.Fatalf("overrun = %d, want 1000", got)
	}
}

func TestAlertBody(t *testing.T) {
	a := Alert{
		Recipient: "user@example.com",
		Username:  "Asha",
		Category:  "Food",
		Spent:     core.Money{Cents: 11000},
		Budget:    core.Money{Cents: 10000},
		Currency:  "INR",
	}
	body := alertBody(a)
	for _, want := range []string{"Asha", "Food", "INR 100.00", "INR 110.00", "INR 10.00"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}
}

func TestLogNotifierNeverFails(t *testing.T) {
	if err := (LogNotifier{}).Notify(context.Background(), Alert{Recipient: "a@b.c"}); err != nil {
		t.Fatalf("log notifier returned %v", err)
	}
}
