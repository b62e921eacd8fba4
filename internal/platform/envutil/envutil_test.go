package envutil

import "testing"

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("PROMPTLIB_TEST_INT", "12")
	if got := GetEnvAsInt("PROMPTLIB_TEST_INT", 3, nil); got != 12 {
		t.Fatalf("got=%d want=12", got)
	}
	t.Setenv("PROMPTLIB_TEST_INT", "nope")
	if got := GetEnvAsInt("PROMPTLIB_TEST_INT", 3, nil); got != 3 {
		t.Fatalf("unparseable: got=%d want=3", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("PROMPTLIB_TEST_BOOL", "on")
	if !GetEnvAsBool("PROMPTLIB_TEST_BOOL", false, nil) {
		t.Fatalf("expected true")
	}
	if !GetEnvAsBool("PROMPTLIB_TEST_BOOL_MISSING", true, nil) {
		t.Fatalf("expected default true")
	}
}
