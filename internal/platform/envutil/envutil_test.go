package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("PIN_TEST_INT", " 42 ")
	if got := Int("PIN_TEST_INT", 7); got != 42 {
		t.Fatalf("Int: want=42 got=%d", got)
	}
	t.Setenv("PIN_TEST_INT", "nope")
	if got := Int("PIN_TEST_INT", 7); got != 7 {
		t.Fatalf("Int malformed: want=7 got=%d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("PIN_TEST_BOOL", "on")
	if !Bool("PIN_TEST_BOOL", false) {
		t.Fatalf("Bool: want true")
	}
	t.Setenv("PIN_TEST_BOOL", "maybe")
	if Bool("PIN_TEST_BOOL", false) {
		t.Fatalf("Bool unknown: want default false")
	}
}

func TestSeconds(t *testing.T) {
	t.Setenv("PIN_TEST_SECS", "15")
	if got := Seconds("PIN_TEST_SECS", time.Minute); got != 15*time.Second {
		t.Fatalf("Seconds: got=%s", got)
	}
	t.Setenv("PIN_TEST_SECS", "0")
	if got := Seconds("PIN_TEST_SECS", time.Minute); got != time.Minute {
		t.Fatalf("Seconds zero: got=%s", got)
	}
}

func TestString(t *testing.T) {
	t.Setenv("PIN_TEST_STR", "   ")
	if got := String("PIN_TEST_STR", "fallback"); got != "fallback" {
		t.Fatalf("String blank: got=%q", got)
	}
}
