package env

import (
	"reflect"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("AGENTDEV_TEST_STRING", "hello")
	if got := GetEnvString("AGENTDEV_TEST_STRING", "default"); got != "hello" {
		t.Fatalf("GetEnvString valid = %q, want %q", got, "hello")
	}

	t.Setenv("AGENTDEV_TEST_STRING", "")
	if got := GetEnvString("AGENTDEV_TEST_STRING", "default"); got != "default" {
		t.Fatalf("GetEnvString empty = %q, want %q", got, "default")
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("AGENTDEV_TEST_INT", "42")
	if got := GetEnvInt("AGENTDEV_TEST_INT", 7); got != 42 {
		t.Fatalf("GetEnvInt valid value = %d, want 42", got)
	}

	t.Setenv("AGENTDEV_TEST_INT", "not-int")
	if got := GetEnvInt("AGENTDEV_TEST_INT", 7); got != 7 {
		t.Fatalf("GetEnvInt invalid value = %d, want 7", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("AGENTDEV_TEST_BOOL", "true")
	if got := GetEnvBool("AGENTDEV_TEST_BOOL", false); got != true {
		t.Fatalf("GetEnvBool true = %v, want true", got)
	}

	t.Setenv("AGENTDEV_TEST_BOOL", "not-bool")
	if got := GetEnvBool("AGENTDEV_TEST_BOOL", true); got != true {
		t.Fatalf("GetEnvBool invalid = %v, want true", got)
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("AGENTDEV_TEST_DURATION", "1h2m3s")
	want := time.Hour + 2*time.Minute + 3*time.Second
	if got := GetEnvDuration("AGENTDEV_TEST_DURATION", 5*time.Second); got != want {
		t.Fatalf("GetEnvDuration valid = %v, want %v", got, want)
	}

	t.Setenv("AGENTDEV_TEST_DURATION", "not-duration")
	if got := GetEnvDuration("AGENTDEV_TEST_DURATION", 5*time.Second); got != 5*time.Second {
		t.Fatalf("GetEnvDuration invalid = %v, want %v", got, 5*time.Second)
	}
}

func TestGetEnvStringMap(t *testing.T) {
	t.Setenv("AGENTDEV_TEST_MAP", "a=1,b=2")
	want := map[string]string{"a": "1", "b": "2"}
	if got := GetEnvStringMap("AGENTDEV_TEST_MAP", nil); !reflect.DeepEqual(got, want) {
		t.Fatalf("GetEnvStringMap valid = %v, want %v", got, want)
	}

	t.Setenv("AGENTDEV_TEST_MAP", "")
	if got := GetEnvStringMap("AGENTDEV_TEST_MAP", nil); got != nil {
		t.Fatalf("GetEnvStringMap empty = %v, want nil", got)
	}
}
